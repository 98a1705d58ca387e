package processor

import (
	"context"

	"github.com/mauv0809/arena/internal/database"
	"github.com/mauv0809/arena/internal/match"
	"github.com/mauv0809/arena/internal/notifier"
	"github.com/mauv0809/arena/internal/tournament"
)

// Results records completed matches into their tournaments.
// Implemented by tournament.Service.
type Results interface {
	RecordResult(ctx context.Context, exec database.Executor, m *match.Match) (*tournament.Tournament, error)
	Announce(t *tournament.Tournament, reason string)
	Get(ctx context.Context, id string) (*tournament.Tournament, error)
	Standings(ctx context.Context, id string) (*tournament.StandingsView, error)
}

// Notifier defines the notification operations required by the processor.
// This is an alias for the main notifier interface for decoupling.
type Notifier interface {
	notifier.Notifier
}
