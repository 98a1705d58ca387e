package achievement

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

// New creates a new achievement Store.
func New(db *sql.DB) Store {
	return &store{db: db}
}

func (s *store) executor(exec database.Executor) database.Executor {
	if exec != nil {
		return exec
	}
	return s.db
}

// Upsert inserts a definition or replaces the stored one with the same id.
func (s *store) Upsert(ctx context.Context, a *Achievement) error {
	doc, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal achievement %s: %w", a.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO achievements (id, name, scope, club_id, user_id, active, points, doc, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			scope = excluded.scope,
			club_id = excluded.club_id,
			user_id = excluded.user_id,
			active = excluded.active,
			points = excluded.points,
			doc = excluded.doc`,
		a.ID, a.Name, a.Scope, nullable(a.ClubID), nullable(a.UserID), a.Active, a.Points, string(doc), a.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("upsert achievement %s: %w", a.ID, err)
	}
	log.Debug("Upserted achievement", "achievementID", a.ID, "name", a.Name)
	return nil
}

func (s *store) Get(ctx context.Context, id string) (*Achievement, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, "SELECT doc FROM achievements WHERE id = ?", id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("achievement", id)
	}
	if err != nil {
		return nil, fmt.Errorf("query achievement %s: %w", id, err)
	}
	var a Achievement
	if err := json.Unmarshal([]byte(doc), &a); err != nil {
		return nil, fmt.Errorf("decode achievement %s: %w", id, err)
	}
	return &a, nil
}

func (s *store) List(ctx context.Context) ([]Achievement, error) {
	return s.list(ctx, s.db, "SELECT doc FROM achievements ORDER BY name, id")
}

// ListActive returns definitions flagged active. Time windows are checked
// by Applies.
func (s *store) ListActive(ctx context.Context, exec database.Executor) ([]Achievement, error) {
	return s.list(ctx, s.executor(exec), "SELECT doc FROM achievements WHERE active = 1 ORDER BY id")
}

func (s *store) list(ctx context.Context, exec database.Executor, query string) ([]Achievement, error) {
	rows, err := exec.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query achievements: %w", err)
	}
	defer rows.Close()

	var out []Achievement
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var a Achievement
		if err := json.Unmarshal([]byte(doc), &a); err != nil {
			return nil, fmt.Errorf("decode achievement: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *store) GetUser(ctx context.Context, exec database.Executor, userID, achievementID string) (*UserAchievement, error) {
	var doc string
	err := s.executor(exec).QueryRowContext(ctx,
		"SELECT doc FROM user_achievements WHERE user_id = ? AND achievement_id = ?",
		userID, achievementID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user achievement", userID+"/"+achievementID)
	}
	if err != nil {
		return nil, fmt.Errorf("query user achievement %s/%s: %w", userID, achievementID, err)
	}
	var ua UserAchievement
	if err := json.Unmarshal([]byte(doc), &ua); err != nil {
		return nil, fmt.Errorf("decode user achievement %s/%s: %w", userID, achievementID, err)
	}
	return &ua, nil
}

func (s *store) UpsertUser(ctx context.Context, exec database.Executor, ua *UserAchievement) error {
	doc, err := json.Marshal(ua)
	if err != nil {
		return fmt.Errorf("marshal user achievement %s/%s: %w", ua.UserID, ua.AchievementID, err)
	}
	var unlockedAt any
	if ua.UnlockedAt != nil {
		unlockedAt = ua.UnlockedAt.UnixMilli()
	}
	_, err = s.executor(exec).ExecContext(ctx, `
		INSERT INTO user_achievements (user_id, achievement_id, status, unlocked_at, doc, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, achievement_id) DO UPDATE SET
			status = excluded.status,
			unlocked_at = excluded.unlocked_at,
			doc = excluded.doc,
			updated_at = excluded.updated_at`,
		ua.UserID, ua.AchievementID, ua.Status, unlockedAt, string(doc), ua.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("upsert user achievement %s/%s: %w", ua.UserID, ua.AchievementID, err)
	}
	return nil
}

func (s *store) ListByUser(ctx context.Context, userID string) ([]UserAchievement, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT doc FROM user_achievements WHERE user_id = ? ORDER BY achievement_id", userID)
	if err != nil {
		return nil, fmt.Errorf("query achievements for %s: %w", userID, err)
	}
	defer rows.Close()

	var out []UserAchievement
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var ua UserAchievement
		if err := json.Unmarshal([]byte(doc), &ua); err != nil {
			return nil, fmt.Errorf("decode user achievement for %s: %w", userID, err)
		}
		out = append(out, ua)
	}
	return out, rows.Err()
}

// Leaderboard ranks users by unlocked count, then by the most recent unlock.
func (s *store) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT ua.user_id, COUNT(*), COALESCE(SUM(a.points), 0), MAX(ua.unlocked_at)
		FROM user_achievements ua
		JOIN achievements a ON a.id = ua.achievement_id
		WHERE ua.status = ?
		GROUP BY ua.user_id
		ORDER BY COUNT(*) DESC, MAX(ua.unlocked_at) DESC, ua.user_id
		LIMIT ?`, StatusUnlocked, limit)
	if err != nil {
		return nil, fmt.Errorf("query achievement leaderboard: %w", err)
	}
	defer rows.Close()

	var out []LeaderboardEntry
	for rows.Next() {
		var (
			e    LeaderboardEntry
			last int64
		)
		if err := rows.Scan(&e.UserID, &e.Unlocked, &e.Points, &last); err != nil {
			return nil, err
		}
		e.LastUnlockedAt = time.UnixMilli(last).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
