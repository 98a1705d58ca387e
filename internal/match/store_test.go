package match_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/mauv0809/arena/internal/apperr"
	"github.com/mauv0809/arena/internal/database"
	"github.com/mauv0809/arena/internal/live"
	"github.com/mauv0809/arena/internal/match"
	"github.com/mauv0809/arena/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clock = time.Date(2025, 4, 12, 15, 0, 0, 0, time.UTC)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (match.Store, *sql.DB) {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)
	return match.New(db), db
}

func createMatch(t *testing.T, store match.Store, tournamentID string) *match.Match {
	t.Helper()
	m, err := match.Create(match.NewMatch{
		TournamentID: tournamentID,
		Sport:        "football",
		Home:         match.Participant{TeamID: "home"},
		Away:         match.Participant{TeamID: "away"},
	}, clock)
	require.NoError(t, err)
	require.NoError(t, store.Create(context.Background(), nil, &m))
	return &m
}

func TestStore_CreateAndGet(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()
	created := createMatch(t, store, "t1")
	assert.Equal(t, 1, created.Version)

	got, err := store.Get(ctx, nil, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, match.StatusScheduled, got.Status)
	assert.Equal(t, "t1", got.TournamentID)
	assert.Equal(t, 1, got.Version)

	_, err = store.Get(ctx, nil, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStore_SaveUsesVersionCheck(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()
	created := createMatch(t, store, "")

	first, err := store.Get(ctx, nil, created.ID)
	require.NoError(t, err)
	second, err := store.Get(ctx, nil, created.ID)
	require.NoError(t, err)

	require.NoError(t, match.Start(first, clock))
	require.NoError(t, store.Save(ctx, nil, first))
	assert.Equal(t, 2, first.Version)

	require.NoError(t, match.Cancel(second, clock))
	err = store.Save(ctx, nil, second)
	assert.ErrorIs(t, err, apperr.ErrConcurrencyConflict)
	assert.Equal(t, 1, second.Version, "version is restored after a conflict")

	stored, err := store.Get(ctx, nil, created.ID)
	require.NoError(t, err)
	assert.Equal(t, match.StatusInProgress, stored.Status)
	assert.Equal(t, 2, stored.Version)
}

func TestStore_ListByTournament(t *testing.T) {
	store, _ := setupTestDB(t)
	createMatch(t, store, "t1")
	createMatch(t, store, "t1")
	createMatch(t, store, "t2")

	matches, err := store.ListByTournament(context.Background(), nil, "t1")
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestStore_MarkCompleted(t *testing.T) {
	store, db := setupTestDB(t)
	ctx := context.Background()

	first, err := store.MarkCompleted(ctx, nil, "m1", clock)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := store.MarkCompleted(ctx, nil, "m1", clock)
	require.NoError(t, err)
	assert.False(t, again)

	t.Run("inside a transaction", func(t *testing.T) {
		err := database.WithTx(ctx, db, func(tx *sql.Tx) error {
			claimed, err := store.MarkCompleted(ctx, tx, "m2", clock)
			require.True(t, claimed)
			return err
		})
		require.NoError(t, err)
	})
}

func TestService(t *testing.T) {
	store, _ := setupTestDB(t)
	hub := live.NewMock()
	met := metrics.NewMock()
	svc := match.NewService(store, hub, met).WithClock(func() time.Time { return clock })
	ctx := context.Background()

	m, err := svc.Create(ctx, match.NewMatch{Sport: "football", Home: match.Participant{TeamID: "a"}, Away: match.Participant{TeamID: "b"}})
	require.NoError(t, err)

	t.Run("goal before kick-off fails and leaves the score", func(t *testing.T) {
		_, err := svc.ApplyEvent(ctx, m.ID, match.Event{Type: match.EventGoal, Side: match.SideHome, PlayerID: "p1", Minute: 1})
		assert.ErrorIs(t, err, apperr.ErrMatchNotLive)

		stored, err := svc.Get(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, stored.HomeScore)
		assert.Equal(t, 1, stored.Version)
	})

	started, err := svc.Start(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, match.StatusInProgress, started.Status)

	updated, err := svc.ApplyEvent(ctx, m.ID, match.Event{Type: match.EventGoal, Side: match.SideHome, PlayerID: "p1", Minute: 9})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.HomeScore)
	assert.Equal(t, 3, updated.Version)
	assert.Equal(t, 1, met.LiveEvents("goal"))

	minutes := 90
	_, err = svc.UpdateStats(ctx, m.ID, []match.StatUpdate{{PlayerID: "p1", Side: match.SideHome, MinutesPlayed: &minutes}})
	require.NoError(t, err)

	highlights, err := svc.Highlights(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, highlights, 1)
	assert.Equal(t, "p1", highlights[0].PlayerID)

	assert.Equal(t, []string{"match_" + m.ID, "match_" + m.ID, "match_" + m.ID}, hub.Rooms())

	_, err = svc.UpdateStats(ctx, m.ID, nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)

}
