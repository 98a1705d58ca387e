package performance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/arena/internal/apperr"
	"github.com/mauv0809/arena/internal/database"
)

type store struct {
	db *sql.DB
}

// New creates a new performance Store.
func New(db *sql.DB) Store {
	return &store{db: db}
}

func (s *store) executor(exec database.Executor) database.Executor {
	if exec != nil {
		return exec
	}
	return s.db
}

func (s *store) Get(ctx context.Context, exec database.Executor, playerID, season string) (*Performance, error) {
	var doc string
	err := s.executor(exec).QueryRowContext(ctx,
		"SELECT doc FROM performances WHERE player_id = ? AND season = ? AND period = ?",
		playerID, season, PeriodSeasonal).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("performance", playerID+"/"+season)
	}
	if err != nil {
		return nil, fmt.Errorf("query performance %s/%s: %w", playerID, season, err)
	}
	var p Performance
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return nil, fmt.Errorf("decode performance %s/%s: %w", playerID, season, err)
	}
	return &p, nil
}

// Upsert writes the full document, replacing any previous version.
func (s *store) Upsert(ctx context.Context, exec database.Executor, p *Performance) error {
	if p.Period == "" {
		p.Period = PeriodSeasonal
	}
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal performance %s/%s: %w", p.PlayerID, p.Season, err)
	}
	_, err = s.executor(exec).ExecContext(ctx, `
		INSERT INTO performances (player_id, season, period, doc, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(player_id, season, period) DO UPDATE SET
			doc = excluded.doc,
			updated_at = excluded.updated_at`,
		p.PlayerID, p.Season, p.Period, string(doc), p.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("upsert performance %s/%s: %w", p.PlayerID, p.Season, err)
	}
	log.Debug("Upserted performance", "playerID", p.PlayerID, "season", p.Season, "matches", p.Matches.Total)
	return nil
}

// ListByPlayer returns every season on record for a player, newest first.
func (s *store) ListByPlayer(ctx context.Context, playerID string) ([]*Performance, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT doc FROM performances WHERE player_id = ? ORDER BY season DESC", playerID)
	if err != nil {
		return nil, fmt.Errorf("query performances for %s: %w", playerID, err)
	}
	defer rows.Close()

	var out []*Performance
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var p Performance
		if err := json.Unmarshal([]byte(doc), &p); err != nil {
			return nil, fmt.Errorf("decode performance for %s: %w", playerID, err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// Aggregator folds completed-match contributions into stored documents.
type Aggregator struct {
	store Store
}

// NewAggregator creates an Aggregator over store.
func NewAggregator(store Store) *Aggregator {
	return &Aggregator{store: store}
}

// Fold applies each contribution to the player's document for season and
// writes it back through exec. It returns the updated documents keyed by
// player id.
func (a *Aggregator) Fold(ctx context.Context, exec database.Executor, season string, contributions []Contribution, at time.Time) (map[string]*Performance, error) {
	if season == "" {
		return nil, apperr.Validation("season is required")
	}
	out := make(map[string]*Performance, len(contributions))
	for _, c := range contributions {
		p, ok := out[c.Stat.PlayerID]
		if !ok {
			var err error
			p, err = a.store.Get(ctx, exec, c.Stat.PlayerID, season)
			if errors.Is(err, apperr.ErrNotFound) {
				p = NewPerformance(c.Stat.PlayerID, season)
			} else if err != nil {
				return nil, err
			}
		}
		Apply(p, c, at)
		if err := a.store.Upsert(ctx, exec, p); err != nil {
			return nil, err
		}
		out[c.Stat.PlayerID] = p
	}
	return out, nil
}
