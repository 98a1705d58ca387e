package match

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

// New creates a new match Store.
func New(db *sql.DB) Store {
	return &store{db: db}
}

func (s *store) executor(exec database.Executor) database.Executor {
	if exec != nil {
		return exec
	}
	return s.db
}

// Create inserts a new match at version 1.
func (s *store) Create(ctx context.Context, exec database.Executor, m *Match) error {
	m.Version = 1
	doc, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal match %s: %w", m.ID, err)
	}
	_, err = s.executor(exec).ExecContext(ctx, `
		INSERT INTO matches (id, tournament_id, status, doc, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, 1, ?, ?)`,
		m.ID, nullable(m.TournamentID), m.Status, string(doc), m.CreatedAt.UnixMilli(), m.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert match %s: %w", m.ID, err)
	}
	log.Debug("Created match", "matchID", m.ID, "tournamentID", m.TournamentID)
	return nil
}

// Get loads a match by id.
func (s *store) Get(ctx context.Context, exec database.Executor, id string) (*Match, error) {
	var (
		doc     string
		version int
	)
	err := s.executor(exec).QueryRowContext(ctx, "SELECT doc, version FROM matches WHERE id = ?", id).Scan(&doc, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("match", id)
	}
	if err != nil {
		return nil, fmt.Errorf("query match %s: %w", id, err)
	}
	return decode(doc, version)
}

// Save writes m back if nobody changed it since it was read, then bumps
// m.Version.
func (s *store) Save(ctx context.Context, exec database.Executor, m *Match) error {
	expected := m.Version
	m.Version = expected + 1
	doc, err := json.Marshal(m)
	if err != nil {
		m.Version = expected
		return fmt.Errorf("marshal match %s: %w", m.ID, err)
	}
	res, err := s.executor(exec).ExecContext(ctx, `
		UPDATE matches SET status = ?, doc = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`,
		m.Status, string(doc), m.UpdatedAt.UnixMilli(), m.ID, expected)
	if err != nil {
		m.Version = expected
		return fmt.Errorf("update match %s: %w", m.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		m.Version = expected
		return fmt.Errorf("update match %s: %w", m.ID, err)
	}
	if n == 0 {
		m.Version = expected
		return fmt.Errorf("match %s at version %d: %w", m.ID, expected, apperr.ErrConcurrencyConflict)
	}
	return nil
}

// ListByTournament returns the tournament's matches in creation order.
func (s *store) ListByTournament(ctx context.Context, exec database.Executor, tournamentID string) ([]*Match, error) {
	rows, err := s.executor(exec).QueryContext(ctx, "SELECT doc, version FROM matches WHERE tournament_id = ? ORDER BY created_at, rowid", tournamentID)
	if err != nil {
		return nil, fmt.Errorf("query matches for tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	var matches []*Match
	for rows.Next() {
		var (
			doc     string
			version int
		)
		if err := rows.Scan(&doc, &version); err != nil {
			return nil, err
		}
		m, err := decode(doc, version)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// MarkCompleted claims the one-time completion of a match. It returns false
// when the completion was already claimed.
func (s *store) MarkCompleted(ctx context.Context, exec database.Executor, id string, at time.Time) (bool, error) {
	res, err := s.executor(exec).ExecContext(ctx,
		"INSERT INTO match_completions (match_id, completed_at) VALUES (?, ?) ON CONFLICT(match_id) DO NOTHING",
		id, at.UnixMilli())
	if err != nil {
		return false, fmt.Errorf("mark match %s completed: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func decode(doc string, version int) (*Match, error) {
	var m Match
	if err := json.Unmarshal([]byte(doc), &m); err != nil {
		return nil, fmt.Errorf("decode match: %w", err)
	}
	m.Version = version
	if m.PlayerStats == nil {
		m.PlayerStats = []PlayerStat{}
	}
	if m.Highlights == nil {
		m.Highlights = []Highlight{}
	}
	return &m, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
