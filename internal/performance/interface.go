package performance

import (
	"context"

	"github.com/mauv0809/arena/internal/database"
)

// Store persists seasonal performance documents keyed by player, season and period.
type Store interface {
	Get(ctx context.Context, exec database.Executor, playerID, season string) (*Performance, error)
	Upsert(ctx context.Context, exec database.Executor, p *Performance) error
	ListByPlayer(ctx context.Context, playerID string) ([]*Performance, error)
}
