package tournament

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/arena/internal/apperr"
	"github.com/mauv0809/arena/internal/database"
)

type store struct {
	db *sql.DB
}

// NewStore creates a new tournament Store.
func NewStore(db *sql.DB) Store {
	return &store{db: db}
}

func (s *store) executor(exec database.Executor) database.Executor {
	if exec != nil {
		return exec
	}
	return s.db
}

func (s *store) Create(ctx context.Context, exec database.Executor, t *Tournament) error {
	t.Version = 1
	doc, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal tournament %s: %w", t.ID, err)
	}
	_, err = s.executor(exec).ExecContext(ctx, `
		INSERT INTO tournaments (id, name, sport, format, status, club_id, start_date, end_date, doc, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		t.ID, t.Name, t.Sport, t.Format, t.Status, nullable(t.ClubID),
		t.StartDate.UnixMilli(), t.EndDate.UnixMilli(), string(doc),
		t.CreatedAt.UnixMilli(), t.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert tournament %s: %w", t.ID, err)
	}
	log.Debug("Created tournament", "tournamentID", t.ID, "name", t.Name)
	return nil
}

func (s *store) Get(ctx context.Context, exec database.Executor, id string) (*Tournament, error) {
	var (
		doc     string
		version int
	)
	err := s.executor(exec).QueryRowContext(ctx, "SELECT doc, version FROM tournaments WHERE id = ?", id).Scan(&doc, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("tournament", id)
	}
	if err != nil {
		return nil, fmt.Errorf("query tournament %s: %w", id, err)
	}
	return decode(doc, version)
}

// Save writes t if its version is still current and bumps t.Version.
func (s *store) Save(ctx context.Context, exec database.Executor, t *Tournament) error {
	expected := t.Version
	t.Version = expected + 1
	doc, err := json.Marshal(t)
	if err != nil {
		t.Version = expected
		return fmt.Errorf("marshal tournament %s: %w", t.ID, err)
	}
	res, err := s.executor(exec).ExecContext(ctx, `
		UPDATE tournaments SET status = ?, start_date = ?, end_date = ?, doc = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`,
		t.Status, t.StartDate.UnixMilli(), t.EndDate.UnixMilli(), string(doc), t.UpdatedAt.UnixMilli(), t.ID, expected)
	if err != nil {
		t.Version = expected
		return fmt.Errorf("update tournament %s: %w", t.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		t.Version = expected
		return fmt.Errorf("update tournament %s: %w", t.ID, err)
	}
	if n == 0 {
		t.Version = expected
		return fmt.Errorf("tournament %s at version %d: %w", t.ID, expected, apperr.ErrConcurrencyConflict)
	}
	return nil
}

func (s *store) List(ctx context.Context, f Filter) ([]*Tournament, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if f.ClubID != "" {
		where = append(where, "club_id = ?")
		args = append(args, f.ClubID)
	}
	query := "SELECT doc, version FROM tournaments"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY start_date, id"
	return s.query(ctx, query, args...)
}

func (s *store) ListDue(ctx context.Context, now time.Time) ([]*Tournament, error) {
	return s.query(ctx, `
		SELECT doc, version FROM tournaments
		WHERE (status IN (?, ?) AND start_date <= ?)
		   OR (status = ? AND end_date <= ?)
		ORDER BY start_date, id`,
		StatusUpcoming, StatusRegistration, now.UnixMilli(), StatusInProgress, now.UnixMilli())
}

func (s *store) query(ctx context.Context, query string, args ...any) ([]*Tournament, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tournaments: %w", err)
	}
	defer rows.Close()

	var out []*Tournament
	for rows.Next() {
		var (
			doc     string
			version int
		)
		if err := rows.Scan(&doc, &version); err != nil {
			return nil, err
		}
		t, err := decode(doc, version)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func decode(doc string, version int) (*Tournament, error) {
	var t Tournament
	if err := json.Unmarshal([]byte(doc), &t); err != nil {
		return nil, fmt.Errorf("decode tournament: %w", err)
	}
	t.Version = version
	return &t, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
