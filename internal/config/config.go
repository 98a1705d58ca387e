package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/arena/internal/standings"
)

// Load reads configuration from environment variables and .env file.
// Missing or malformed settings are fatal.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}
	cfg, err := FromEnv(os.LookupEnv)
	if err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}
	return cfg
}

// FromEnv builds a Config from lookup.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	var errs []error

	// A helper function to get a required env var.
	getEnv := func(key string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		errs = append(errs, fmt.Errorf("required environment variable %s is not set", key))
		return ""
	}
	optional := func(key, fallback string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		return fallback
	}
	points := func(key string, fallback int) int {
		raw := optional(key, "")
		if raw == "" {
			return fallback
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			errs = append(errs, fmt.Errorf("%s must be a non-negative integer, got %q", key, raw))
			return fallback
		}
		return n
	}

	interval, err := time.ParseDuration(optional("LIFECYCLE_INTERVAL", "1m"))
	if err != nil || interval <= 0 {
		errs = append(errs, errors.New("LIFECYCLE_INTERVAL must be a positive duration"))
		interval = time.Minute
	}

	var origins []string
	for _, o := range strings.Split(optional("CORS_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	cfg := Config{
		DBName:    getEnv("DB_NAME"),
		Port:      getEnv("PORT"),
		JWTSecret: getEnv("JWT_SECRET"),
		Slack: SlackConfig{
			Token:     optional("SLACK_BOT_TOKEN", ""),
			ChannelID: optional("SLACK_CHANNEL_ID", ""),
		},
		Turso: TursoConfig{
			PrimaryURL: optional("TURSO_PRIMARY_URL", ""),
			AuthToken:  optional("TURSO_AUTH_TOKEN", ""),
		},
		Scoring: ScoringConfig{Points: standings.PointsTable{
			Win:  points("POINTS_WIN", standings.DefaultPoints.Win),
			Draw: points("POINTS_DRAW", standings.DefaultPoints.Draw),
			Loss: points("POINTS_LOSS", standings.DefaultPoints.Loss),
		}},
		ProjectID:         optional("GCP_PROJECT", ""),
		Season:            optional("SEASON", ""),
		LifecycleInterval: interval,
		CORSOrigins:       origins,
	}
	return cfg, errors.Join(errs...)
}
