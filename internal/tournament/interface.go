package tournament

import (
	"context"
	"time"

	"github.com/mauv0809/arena/internal/database"
)

// Store persists tournaments as versioned documents.
type Store interface {
	Create(ctx context.Context, exec database.Executor, t *Tournament) error
	Get(ctx context.Context, exec database.Executor, id string) (*Tournament, error)
	Save(ctx context.Context, exec database.Executor, t *Tournament) error
	List(ctx context.Context, f Filter) ([]*Tournament, error)
	// ListDue returns tournaments whose status may need to follow the calendar.
	ListDue(ctx context.Context, now time.Time) ([]*Tournament, error)
}
