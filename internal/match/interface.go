package match

import (
	"context"
	"time"

	"github.com/mauv0809/arena/internal/database"
)

// Store persists matches as versioned documents. Methods taking an
// Executor run inside the caller's transaction when one is given and
// against the database otherwise.
type Store interface {
	Create(ctx context.Context, exec database.Executor, m *Match) error
	Get(ctx context.Context, exec database.Executor, id string) (*Match, error)
	Save(ctx context.Context, exec database.Executor, m *Match) error
	ListByTournament(ctx context.Context, exec database.Executor, tournamentID string) ([]*Match, error)
	MarkCompleted(ctx context.Context, exec database.Executor, id string, at time.Time) (bool, error)
}
