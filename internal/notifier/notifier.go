package notifier

import (
	"github.com/charmbracelet/log"
	"github.com/mauv0809/arena/internal/achievement"
	"github.com/mauv0809/arena/internal/pubsub"
	"github.com/mauv0809/arena/internal/tournament"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For completed matches
	SendMatchResult(ev pubsub.MatchCompleted, dryRun bool) error
	SendAchievementUnlocked(ev pubsub.AchievementUnlocked, dryRun bool) error
	// For tournaments with group tables
	SendStandings(name string, view *tournament.StandingsView, dryRun bool) error
	SendLeaderboard(entries []achievement.LeaderboardEntry, dryRun bool) error
}

var _ Notifier = Noop{}

// Noop logs instead of notifying. It is used when no provider is configured.
type Noop struct{}

func (Noop) SendMatchResult(ev pubsub.MatchCompleted, _ bool) error {
	log.Debug("Notifications disabled, skipping match result", "matchID", ev.MatchID)
	return nil
}

func (Noop) SendAchievementUnlocked(ev pubsub.AchievementUnlocked, _ bool) error {
	log.Debug("Notifications disabled, skipping achievement", "userID", ev.UserID, "achievementID", ev.AchievementID)
	return nil
}

func (Noop) SendStandings(name string, _ *tournament.StandingsView, _ bool) error {
	log.Debug("Notifications disabled, skipping standings", "tournament", name)
	return nil
}

func (Noop) SendLeaderboard(entries []achievement.LeaderboardEntry, _ bool) error {
	log.Debug("Notifications disabled, skipping leaderboard", "entries", len(entries))
	return nil
}
