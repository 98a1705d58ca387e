package match

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/arena/internal/apperr"
	"github.com/mauv0809/arena/internal/live"
	"github.com/mauv0809/arena/internal/metrics"
)

// Broadcaster pushes updates to live subscribers.
type Broadcaster interface {
	BroadcastToRoom(room, kind string, payload any)
}

// Service applies match operations as atomic read-modify-write cycles on a
// single match document.
type Service struct {
	store   Store
	live    Broadcaster
	metrics metrics.Metrics
	now     func() time.Time
}

// NewService creates a match Service.
func NewService(store Store, live Broadcaster, metrics metrics.Metrics) *Service {
	return &Service{store: store, live: live, metrics: metrics, now: time.Now}
}

// WithClock replaces the service clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create stores a new scheduled match.
func (s *Service) Create(ctx context.Context, in NewMatch) (*Match, error) {
	m, err := Create(in, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, nil, &m); err != nil {
		return nil, err
	}
	log.Info("Created match", "matchID", m.ID, "home", m.Home.ID(), "away", m.Away.ID())
	return &m, nil
}

// Get returns a match by id.
func (s *Service) Get(ctx context.Context, id string) (*Match, error) {
	return s.store.Get(ctx, nil, id)
}

// ListByTournament returns every match of a tournament.
func (s *Service) ListByTournament(ctx context.Context, tournamentID string) ([]*Match, error) {
	return s.store.ListByTournament(ctx, nil, tournamentID)
}

// Highlights returns the match event log in recorded order.
func (s *Service) Highlights(ctx context.Context, id string) ([]Highlight, error) {
	m, err := s.store.Get(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	return m.Highlights, nil
}

// Start moves a match to in_progress.
func (s *Service) Start(ctx context.Context, id string) (*Match, error) {
	return s.mutate(ctx, id, "match_started", func(m *Match, now time.Time) error {
		return Start(m, now)
	})
}

// ApplyEvent applies a live event to an in-progress match.
func (s *Service) ApplyEvent(ctx context.Context, id string, ev Event) (*Match, error) {
	m, err := s.mutate(ctx, id, string(ev.Type), func(m *Match, now time.Time) error {
		return ApplyEvent(m, ev, now)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncLiveEvents(string(ev.Type))
	return m, nil
}

// UpdateStats overwrites player stat fields on an in-progress match.
func (s *Service) UpdateStats(ctx context.Context, id string, updates []StatUpdate) (*Match, error) {
	if len(updates) == 0 {
		return nil, apperr.Validation("no stat updates given")
	}
	return s.mutate(ctx, id, "stats_updated", func(m *Match, now time.Time) error {
		for _, up := range updates {
			if err := SetPlayerStat(m, up, now); err != nil {
				return err
			}
		}
		return nil
	})
}

// mutate loads the match, applies fn and saves it with a version check.
// Nothing is written when fn fails.
func (s *Service) mutate(ctx context.Context, id, kind string, fn func(m *Match, now time.Time) error) (*Match, error) {
	m, err := s.store.Get(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if err := fn(m, s.now()); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, nil, m); err != nil {
		if errors.Is(err, apperr.ErrConcurrencyConflict) {
			s.metrics.IncConcurrencyConflicts()
			log.Warn("Match changed concurrently", "matchID", id, "operation", kind)
		}
		return nil, err
	}
	log.Debug("Match updated", "matchID", id, "operation", kind, "version", m.Version)
	s.live.BroadcastToRoom(live.MatchRoom(id), kind, m)
	return m, nil
}
