package achievement

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service exposes definitions and read projections to the HTTP layer.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Define validates and stores a new achievement definition.
func (s *Service) Define(ctx context.Context, a Achievement) (*Achievement, error) {
	if err := Validate(&a); err != nil {
		return nil, err
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now().UTC()
	}
	if err := s.store.Upsert(ctx, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Service) List(ctx context.Context) ([]Achievement, error) {
	return s.store.List(ctx)
}

func (s *Service) ForUser(ctx context.Context, userID string) ([]UserAchievement, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *Service) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	return s.store.Leaderboard(ctx, limit)
}
