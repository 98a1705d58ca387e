package achievement

import (
	"context"

	"github.com/mauv0809/arena/internal/database"
)

// Store persists achievement definitions and per-user progress.
type Store interface {
	Upsert(ctx context.Context, a *Achievement) error
	Get(ctx context.Context, id string) (*Achievement, error)
	List(ctx context.Context) ([]Achievement, error)
	ListActive(ctx context.Context, exec database.Executor) ([]Achievement, error)

	GetUser(ctx context.Context, exec database.Executor, userID, achievementID string) (*UserAchievement, error)
	UpsertUser(ctx context.Context, exec database.Executor, ua *UserAchievement) error
	ListByUser(ctx context.Context, userID string) ([]UserAchievement, error)
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}
