package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	host   string
	token  string
	secret string
)

var rootCmd = &cobra.Command{
	Use:   "arena-cli",
	Short: "A CLI to interact with the arena server",
	Long: `A command-line interface for making requests to the various endpoints
of the arena competition server.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "The host address of the server")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("ARENA_TOKEN"), "Bearer token sent with API requests")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
