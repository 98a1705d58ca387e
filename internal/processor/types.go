package processor

import (
	"database/sql"
	"time"

	"github.com/mauv0809/arena/internal/achievement"
	"github.com/mauv0809/arena/internal/match"
	"github.com/mauv0809/arena/internal/metrics"
	"github.com/mauv0809/arena/internal/performance"
	"github.com/mauv0809/arena/internal/pubsub"
	"github.com/mauv0809/arena/internal/tournament"
)

// Processor completes matches and fans the result out to performance,
// achievements and tournaments.
type Processor struct {
	db         *sql.DB
	matches    match.Store
	aggregator *performance.Aggregator
	evaluator  *achievement.Evaluator
	results    Results
	pubsub     pubsub.PubSubClient
	live       match.Broadcaster
	notifier   Notifier
	metrics    metrics.Metrics
	season     string
	now        func() time.Time
}

// CompleteRequest is the final score reported for a live match.
type CompleteRequest struct {
	HomeScore int `json:"homeScore"`
	AwayScore int `json:"awayScore"`
	// Decides a level knockout match.
	PenaltyWinner match.Side `json:"penaltyWinner,omitempty"`
	Season        string     `json:"season,omitempty"`
}

// Result is the outcome of CompleteMatch. Duplicate is set when the match
// had already been completed; nothing else is filled in that case.
type Result struct {
	Match        *match.Match                        `json:"match"`
	Duplicate    bool                                `json:"duplicate"`
	Season       string                              `json:"season,omitempty"`
	Unlocks      []achievement.UnlockEvent           `json:"unlocks,omitempty"`
	Tournament   *tournament.Tournament              `json:"tournament,omitempty"`
	Performances map[string]*performance.Performance `json:"performances,omitempty"`
}
