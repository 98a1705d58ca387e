package achievement

import (
	"context"
	"testing"
	"time"

	"github.com/mauv0809/arena/internal/apperr"
	"github.com/mauv0809/arena/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2025, 3, 8, 18, 0, 0, 0, time.UTC)

func intp(v int) *int { return &v }
func floatp(v float64) *float64 { return &v }
func strp(v string) *string { return &v }

func fiveGoals() Achievement {
	return Achievement{
		ID: "five-goals", Name: "Five goals", Scope: ScopeGlobal, Active: true,
		ProgressType: ProgressCumulative, Points: 10,
		Requirements: Requirements{Goals: intp(5)},
	}
}

func TestCheckRequirementsAndProgress(t *testing.T) {
	a := fiveGoals()

	assert.True(t, CheckRequirements(a.Requirements, Snapshot{Goals: 5}))
	assert.False(t, CheckRequirements(a.Requirements, Snapshot{Goals: 4}))
	assert.Equal(t, 80.0, CalculateProgress(a, Snapshot{Goals: 4}).Percentage)
	assert.Equal(t, 100.0, CalculateProgress(a, Snapshot{Goals: 9}).Percentage, "percentage is clamped")
	assert.Equal(t, 5.0, CalculateProgress(a, Snapshot{Goals: 9}).Current, "contribution is capped")
}

func TestCalculateProgressByType(t *testing.T) {
	tests := []struct {
		name string
		a    Achievement
		snap Snapshot
		want float64
	}{
		{
			name: "cumulative sums capped contributions",
			a:    Achievement{ProgressType: ProgressCumulative, Requirements: Requirements{Goals: intp(5), Assists: intp(5)}},
			snap: Snapshot{Goals: 8, Assists: 1},
			want: 60,
		},
		{
			name: "consecutive takes the best streak",
			a:    Achievement{ProgressType: ProgressConsecutive, Requirements: Requirements{GoalStreak: intp(4), WinStreak: intp(10), Matches: intp(20)}},
			snap: Snapshot{GoalStreak: 2, WinStreak: 1, Matches: 20},
			want: 50,
		},
		{
			name: "best takes the peak",
			a:    Achievement{ProgressType: ProgressBest, Requirements: Requirements{GoalsInMatch: intp(3)}},
			snap: Snapshot{GoalsInMatch: 1},
			want: 100.0 / 3.0,
		},
		{
			name: "average is the mean ratio",
			a:    Achievement{ProgressType: ProgressAverage, Requirements: Requirements{AverageRating: floatp(8), PassAccuracy: floatp(80)}},
			snap: Snapshot{AverageRating: 4, PassAccuracy: 80},
			want: 75,
		},
		{
			name: "categorical only",
			a:    Achievement{ProgressType: ProgressCumulative, Requirements: Requirements{Sport: strp("football")}},
			snap: Snapshot{Sport: "football"},
			want: 100,
		},
		{
			name: "unmet category keeps progress below full",
			a:    Achievement{ProgressType: ProgressCumulative, Requirements: Requirements{Goals: intp(1), Position: strp("goalkeeper")}},
			snap: Snapshot{Goals: 3, Position: "striker"},
			want: 99,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CalculateProgress(tt.a, tt.snap).Percentage, 1e-9)
		})
	}
}

func TestCategoricalRequirements(t *testing.T) {
	r := Requirements{Goals: intp(1), Sport: strp("football"), Season: strp("2024-2025")}
	assert.True(t, CheckRequirements(r, Snapshot{Goals: 1, Sport: "football", Season: "2024-2025"}))
	assert.False(t, CheckRequirements(r, Snapshot{Goals: 1, Sport: "padel", Season: "2024-2025"}))
	assert.True(t, CheckRequirements(Requirements{}, Snapshot{}), "unset requirements pass")
}

func TestApplies(t *testing.T) {
	target := Target{UserID: "u1", ClubID: "c1"}
	global := fiveGoals()
	assert.True(t, Applies(global, target, at))

	inactive := global
	inactive.Active = false
	assert.False(t, Applies(inactive, target, at))

	club := global
	club.Scope, club.ClubID = ScopeClub, "c2"
	assert.False(t, Applies(club, target, at))
	club.ClubID = "c1"
	assert.True(t, Applies(club, target, at))

	personal := global
	personal.Scope, personal.UserID = ScopePersonal, "u2"
	assert.False(t, Applies(personal, target, at))

	windowed := global
	until := at.Add(-time.Hour)
	windowed.ActiveUntil = &until
	assert.False(t, Applies(windowed, target, at))
}

func TestValidate(t *testing.T) {
	a := fiveGoals()
	require.NoError(t, Validate(&a))

	a.Requirements = Requirements{}
	assert.ErrorIs(t, Validate(&a), apperr.ErrValidation)

	a = fiveGoals()
	a.Scope = ScopeClub
	assert.ErrorIs(t, Validate(&a), apperr.ErrValidation)

	a = fiveGoals()
	a.Requirements.Goals = intp(0)
	assert.ErrorIs(t, Validate(&a), apperr.ErrValidation)

	a = fiveGoals()
	a.ProgressType = ""
	require.NoError(t, Validate(&a))
	assert.Equal(t, ProgressCumulative, a.ProgressType)
}

func TestUpdateProgressIsMonotonic(t *testing.T) {
	ua := NewUserAchievement("u1", "a1")

	assert.True(t, UpdateProgress(ua, Progress{Current: 2, Required: 5, Percentage: 40}, "m1", at))
	assert.Equal(t, StatusInProgress, ua.Status)
	assert.False(t, UpdateProgress(ua, Progress{Current: 1, Required: 5, Percentage: 20}, "m2", at))
	assert.Equal(t, 40.0, ua.Progress.Percentage)
	assert.False(t, UpdateProgress(ua, Progress{Current: 2, Required: 5, Percentage: 40}, "m3", at))
	require.Len(t, ua.ProgressHistory, 1)

	require.True(t, Unlock(ua, Progress{Current: 5, Required: 5, Percentage: 100}, PerformanceContext{MatchID: "m4"}, at))
	assert.False(t, Unlock(ua, Progress{}, PerformanceContext{}, at))
	assert.False(t, UpdateProgress(ua, Progress{Current: 0, Required: 5, Percentage: 0}, "m5", at))
	assert.Equal(t, StatusUnlocked, ua.Status)
	assert.Equal(t, 100.0, ua.Progress.Percentage)
	assert.Equal(t, "m4", ua.PerformanceContext.MatchID)
	assert.Len(t, ua.ProgressHistory, 2)
}

func TestEvaluatorAndStore(t *testing.T) {
	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	defer teardown()
	store := New(db)
	svc := NewService(store)
	eval := NewEvaluator(store)
	ctx := context.Background()

	def, err := svc.Define(ctx, fiveGoals())
	require.NoError(t, err)
	_, err = svc.Define(ctx, Achievement{
		ID: "first-win", Name: "First win", Scope: ScopeGlobal, Active: true, Points: 5,
		Requirements: Requirements{Wins: intp(1)},
	})
	require.NoError(t, err)
	_, err = svc.Define(ctx, Achievement{Name: "broken", Scope: "team"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	defs, err := eval.Definitions(ctx, nil)
	require.NoError(t, err)
	require.Len(t, defs, 2)

	target := Target{UserID: "p1", MatchID: "m1"}
	unlocks, err := eval.Evaluate(ctx, nil, defs, target, Snapshot{Goals: 4, Wins: 1}, at)
	require.NoError(t, err)
	require.Len(t, unlocks, 1)
	assert.Equal(t, UnlockEvent{UserID: "p1", Achievement: unlocks[0].Achievement, At: at}, unlocks[0])
	assert.Equal(t, "first-win", unlocks[0].Achievement.ID)

	ua, err := store.GetUser(ctx, nil, "p1", def.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, ua.Status)
	assert.Equal(t, 80.0, ua.Progress.Percentage)

	target.MatchID = "m2"
	unlocks, err = eval.Evaluate(ctx, nil, defs, target, Snapshot{Goals: 6, Wins: 2}, at.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, unlocks, 1, "first win is not unlocked twice")
	assert.Equal(t, def.ID, unlocks[0].Achievement.ID)

	_, err = eval.Evaluate(ctx, nil, defs, Target{UserID: "p2", MatchID: "m2"}, Snapshot{Wins: 1}, at.Add(2*time.Hour))
	require.NoError(t, err)

	mine, err := svc.ForUser(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, ua := range mine {
		assert.Equal(t, StatusUnlocked, ua.Status)
	}

	board, err := svc.Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "p1", board[0].UserID)
	assert.Equal(t, 2, board[0].Unlocked)
	assert.Equal(t, 15, board[0].Points)
	assert.Equal(t, "p2", board[1].UserID)

	t.Run("ties go to the most recent unlock", func(t *testing.T) {
		_, err := eval.Evaluate(ctx, nil, defs, Target{UserID: "p3"}, Snapshot{Goals: 5, Wins: 1}, at.Add(3*time.Hour))
		require.NoError(t, err)
		board, err := svc.Leaderboard(ctx, 2)
		require.NoError(t, err)
		require.Len(t, board, 2)
		assert.Equal(t, "p3", board[0].UserID)
		assert.Equal(t, "p1", board[1].UserID)
	})

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
