package pubsub

import (
	"time"

	"cloud.google.com/go/pubsub"
)

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventMatchCompleted      EventType = "match-completed"
	EventAchievementUnlocked EventType = "achievement-unlocked"
	EventTournamentUpdated   EventType = "tournament-updated"
)

// MatchCompleted is published once per completed match.
type MatchCompleted struct {
	MatchID      string    `msgpack:"match_id"`
	TournamentID string    `msgpack:"tournament_id"`
	Sport        string    `msgpack:"sport"`
	Home         string    `msgpack:"home"`
	Away         string    `msgpack:"away"`
	HomeScore    int       `msgpack:"home_score"`
	AwayScore    int       `msgpack:"away_score"`
	WinnerID     string    `msgpack:"winner_id"`
	Season       string    `msgpack:"season"`
	CompletedAt  time.Time `msgpack:"completed_at"`
}

// AchievementUnlocked is published for every unlock caused by a match.
type AchievementUnlocked struct {
	UserID          string    `msgpack:"user_id"`
	AchievementID   string    `msgpack:"achievement_id"`
	AchievementName string    `msgpack:"achievement_name"`
	Points          int       `msgpack:"points"`
	MatchID         string    `msgpack:"match_id"`
	UnlockedAt      time.Time `msgpack:"unlocked_at"`
}

// TournamentUpdated is published after every tournament state change.
type TournamentUpdated struct {
	TournamentID string `msgpack:"tournament_id"`
	Status       string `msgpack:"status"`
	Version      int    `msgpack:"version"`
	ChampionID   string `msgpack:"champion_id"`
	Reason       string `msgpack:"reason"`
}
