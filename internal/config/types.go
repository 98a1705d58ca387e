package config

import (
	"time"

	"github.com/mauv0809/arena/internal/standings"
)

// Config holds all configuration for the application.
type Config struct {
	DBName    string
	Port      string
	JWTSecret string
	Slack     SlackConfig
	Turso     TursoConfig
	Scoring   ScoringConfig
	ProjectID string
	// Fixed season for every completion; derived from the date when empty.
	Season            string
	LifecycleInterval time.Duration
	CORSOrigins       []string
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

// Enabled reports whether notifications can be sent.
func (c SlackConfig) Enabled() bool {
	return c.Token != "" && c.ChannelID != ""
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type ScoringConfig struct {
	Points standings.PointsTable
}
