package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	server "github.com/mauv0809/arena/internal/http"
	"github.com/spf13/cobra"
)

var (
	tokenRole   string
	tokenTTL    time.Duration
	listStatus string
	boardLimit  int
	perfSeason  string
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(tournamentsCmd)
	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(performanceCmd)
	rootCmd.AddCommand(tokenCmd)

	tournamentsCmd.Flags().StringVar(&listStatus, "status", "", "Only list tournaments in this status")
	leaderboardCmd.Flags().IntVar(&boardLimit, "limit", 10, "Number of entries to show")
	performanceCmd.Flags().StringVar(&perfSeason, "season", "", "Only show this season")
	tokenCmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "Signing secret, defaults to JWT_SECRET")
	tokenCmd.Flags().StringVar(&tokenRole, "role", server.RolePlayer, "Role claim: admin, coach or player")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

var tournamentsCmd = &cobra.Command{
	Use:   "tournaments",
	Short: "List tournaments",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/api/tournaments"
		if listStatus != "" {
			endpoint += "?status=" + url.QueryEscape(listStatus)
		}
		return performGetRequest(endpoint)
	},
}

var standingsCmd = &cobra.Command{
	Use:   "standings <tournament-id>",
	Short: "Show the standings of a tournament",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/tournaments/" + url.PathEscape(args[0]) + "/standings")
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the achievement points leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/achievements/leaderboard?limit=" + strconv.Itoa(boardLimit))
	},
}

var performanceCmd = &cobra.Command{
	Use:   "performance <player-id>",
	Short: "Show a player's seasonal performance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/api/players/" + url.PathEscape(args[0]) + "/performance"
		if perfSeason != "" {
			endpoint += "?season=" + url.QueryEscape(perfSeason)
		}
		return performGetRequest(endpoint)
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Mint a signed API token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if secret == "" {
			return fmt.Errorf("no signing secret: pass --secret or set JWT_SECRET")
		}
		signed, err := server.NewToken(secret, args[0], tokenRole, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Println(signed)
		return nil
	},
}

func performGetRequest(endpoint string) error {
	target := host + endpoint
	fmt.Printf("Making request to %s\n", target)

	req, err := http.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
