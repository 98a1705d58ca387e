package processor

import (
	"context"
	"testing"
	"time"

	"github.com/mauv0809/arena/internal/achievement"
	"github.com/mauv0809/arena/internal/apperr"
	"github.com/mauv0809/arena/internal/database"
	"github.com/mauv0809/arena/internal/live"
	"github.com/mauv0809/arena/internal/match"
	"github.com/mauv0809/arena/internal/metrics"
	"github.com/mauv0809/arena/internal/notifier"
	"github.com/mauv0809/arena/internal/performance"
	"github.com/mauv0809/arena/internal/pubsub"
	"github.com/mauv0809/arena/internal/standings"
	"github.com/mauv0809/arena/internal/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

var clock = time.Date(2025, 3, 8, 18, 0, 0, 0, time.UTC)

const season = "2024-2025"

type fixture struct {
	proc         *Processor
	matches      *match.Service
	tournaments  *tournament.Service
	performances performance.Store
	achievements *achievement.Service
	publisher    *pubsub.MockPubSubClient
	live         *live.Mock
	metrics      *metrics.Mock
	notifier     *notifier.Mock
}

func setup(t *testing.T) fixture {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)

	matchStore := match.New(db)
	achStore := achievement.New(db)
	f := fixture{
		performances: performance.New(db),
		achievements: achievement.NewService(achStore),
		publisher:    pubsub.NewMock(),
		live:         live.NewMock(),
		metrics:      metrics.NewMock(),
		notifier:     notifier.NewMock(),
	}
	now := func() time.Time { return clock }
	f.matches = match.NewService(matchStore, f.live, f.metrics).WithClock(now)
	f.tournaments = tournament.NewService(db, tournament.NewStore(db), matchStore, f.publisher, f.live, f.metrics, standings.DefaultPoints).
		WithClock(now)
	f.proc = New(db, matchStore, performance.NewAggregator(f.performances), achievement.NewEvaluator(achStore),
		f.tournaments, f.publisher, f.live, f.notifier, f.metrics, "").WithClock(now)
	return f
}

func livePlayerMatch(t *testing.T, f fixture) *match.Match {
	t.Helper()
	ctx := context.Background()
	m, err := f.matches.Create(ctx, match.NewMatch{
		Sport: "football",
		Home:  match.Participant{TeamID: "lions"},
		Away:  match.Participant{TeamID: "tigers"},
	})
	require.NoError(t, err)
	_, err = f.matches.Start(ctx, m.ID)
	require.NoError(t, err)
	_, err = f.matches.ApplyEvent(ctx, m.ID, match.Event{Type: match.EventGoal, Side: match.SideHome, PlayerID: "p1", AssistID: "p2", Minute: 12})
	require.NoError(t, err)
	m, err = f.matches.ApplyEvent(ctx, m.ID, match.Event{Type: match.EventFoul, Side: match.SideAway, PlayerID: "p3", Minute: 30})
	require.NoError(t, err)
	return m
}

func TestCompleteMatch(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, err := f.achievements.Define(ctx, achievement.Achievement{
		Name:         "First Goal",
		Scope:        achievement.ScopeGlobal,
		Active:       true,
		Points:       10,
		Requirements: achievement.Requirements{Goals: intp(1)},
	})
	require.NoError(t, err)
	m := livePlayerMatch(t, f)
	f.publisher.Reset()

	res, err := f.proc.CompleteMatch(ctx, m.ID, CompleteRequest{HomeScore: 1, AwayScore: 0, Season: season})
	require.NoError(t, err)
	assert.False(t, res.Duplicate)
	assert.Equal(t, match.StatusCompleted, res.Match.Status)
	assert.Equal(t, match.SideHome, res.Match.Winner)
	assert.Equal(t, season, res.Season)
	assert.Nil(t, res.Tournament)

	require.Len(t, res.Performances, 3)
	assert.Equal(t, 1, res.Performances["p1"].Offensive.Goals)
	assert.Equal(t, 1, res.Performances["p1"].Matches.Won)
	assert.Equal(t, 1, res.Performances["p2"].Offensive.Assists)
	assert.Equal(t, 1, res.Performances["p3"].Matches.Lost)

	require.Len(t, res.Unlocks, 1)
	assert.Equal(t, "p1", res.Unlocks[0].UserID)

	assert.Equal(t, []pubsub.EventType{pubsub.EventMatchCompleted, pubsub.EventAchievementUnlocked}, f.publisher.Topics())
	assert.Equal(t, 1, f.metrics.MatchesCompleted())
	assert.Equal(t, 1, f.metrics.AchievementsUnlocked())
	assert.Contains(t, f.live.Rooms(), live.MatchRoom(m.ID))

	earned, err := f.achievements.ForUser(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, earned, 1)
	assert.Equal(t, achievement.StatusUnlocked, earned[0].Status)
	require.NotNil(t, earned[0].PerformanceContext)
	assert.Equal(t, m.ID, earned[0].PerformanceContext.MatchID)

	t.Run("completing again has no side effects", func(t *testing.T) {
		f.publisher.Reset()
		again, err := f.proc.CompleteMatch(ctx, m.ID, CompleteRequest{HomeScore: 5, AwayScore: 0, Season: season})
		require.NoError(t, err)
		assert.True(t, again.Duplicate)
		assert.Equal(t, 1, again.Match.HomeScore)
		assert.Empty(t, again.Performances)
		assert.Empty(t, f.publisher.Topics())
		assert.Equal(t, 1, f.metrics.MatchesCompleted())

		perf, err := f.performances.Get(ctx, nil, "p1", season)
		require.NoError(t, err)
		assert.Equal(t, 1, perf.Matches.Total)
	})
}

func TestCompleteMatch_NotLive(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	m, err := f.matches.Create(ctx, match.NewMatch{
		Sport: "football",
		Home:  match.Participant{TeamID: "lions"},
		Away:  match.Participant{TeamID: "tigers"},
	})
	require.NoError(t, err)

	_, err = f.proc.CompleteMatch(ctx, m.ID, CompleteRequest{HomeScore: 1})
	assert.ErrorIs(t, err, apperr.ErrMatchNotLive)

	_, err = f.proc.CompleteMatch(ctx, "missing", CompleteRequest{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.matches.Start(ctx, m.ID)
	require.NoError(t, err)
	_, err = f.proc.CompleteMatch(ctx, m.ID, CompleteRequest{HomeScore: -1})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	res, err := f.proc.CompleteMatch(ctx, m.ID, CompleteRequest{HomeScore: 2, AwayScore: 2})
	require.NoError(t, err, "a failed attempt leaves no completion marker behind")
	assert.False(t, res.Duplicate)
	assert.Empty(t, res.Match.Winner, "friendly draws have no winner")
	assert.Equal(t, 0, f.metrics.AchievementsUnlocked())
}

func TestCompleteMatch_KnockoutDrawNeedsPenaltyWinner(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	tr, err := f.tournaments.Create(ctx, tournament.NewTournament{
		Name:                 "Cup",
		Sport:                "football",
		Format:               tournament.FormatKnockout,
		RegistrationDeadline: clock.Add(24 * time.Hour),
		StartDate:            clock.Add(48 * time.Hour),
		EndDate:              clock.Add(72 * time.Hour),
		MaxTeams:             4,
		MinTeams:             2,
	})
	require.NoError(t, err)
	for _, team := range []string{"a", "b"} {
		_, err = f.tournaments.RegisterTeam(ctx, tr.ID, team, nil)
		require.NoError(t, err)
		_, err = f.tournaments.ConfirmTeam(ctx, tr.ID, team)
		require.NoError(t, err)
	}
	_, err = f.tournaments.GenerateBrackets(ctx, tr.ID)
	require.NoError(t, err)

	ms, err := f.matches.ListByTournament(ctx, tr.ID)
	require.NoError(t, err)
	require.Len(t, ms, 1)
	final := ms[0]
	_, err = f.matches.Start(ctx, final.ID)
	require.NoError(t, err)

	_, err = f.proc.CompleteMatch(ctx, final.ID, CompleteRequest{HomeScore: 1, AwayScore: 1})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	f.publisher.Reset()
	res, err := f.proc.CompleteMatch(ctx, final.ID, CompleteRequest{HomeScore: 1, AwayScore: 1, PenaltyWinner: match.SideAway})
	require.NoError(t, err)
	assert.Equal(t, match.SideAway, res.Match.Winner)
	require.NotNil(t, res.Tournament)
	assert.Equal(t, "b", res.Tournament.ChampionID)
	assert.Contains(t, f.publisher.Topics(), pubsub.EventTournamentUpdated)

	stored, err := f.tournaments.Get(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, "b", stored.ChampionID)
}

func TestHandleMatchCompleted(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	tr, err := f.tournaments.Create(ctx, tournament.NewTournament{
		Name:                 "League",
		Sport:                "football",
		Format:               tournament.FormatLeague,
		RegistrationDeadline: clock.Add(24 * time.Hour),
		StartDate:            clock.Add(48 * time.Hour),
		EndDate:              clock.Add(72 * time.Hour),
		MaxTeams:             4,
		MinTeams:             2,
	})
	require.NoError(t, err)
	for _, team := range []string{"a", "b"} {
		_, err = f.tournaments.RegisterTeam(ctx, tr.ID, team, nil)
		require.NoError(t, err)
		_, err = f.tournaments.ConfirmTeam(ctx, tr.ID, team)
		require.NoError(t, err)
	}
	_, err = f.tournaments.GenerateBrackets(ctx, tr.ID)
	require.NoError(t, err)

	raw, err := msgpack.Marshal(pubsub.MatchCompleted{MatchID: "m1", TournamentID: tr.ID, Home: "a", Away: "b"})
	require.NoError(t, err)
	require.NoError(t, f.proc.HandleMatchCompleted(ctx, raw, true))
	require.Len(t, f.notifier.SendMatchResultCalls, 1)
	assert.Equal(t, "m1", f.notifier.SendMatchResultCalls[0].MatchID)
	require.Len(t, f.notifier.SendStandingsCalls, 1)
	assert.Equal(t, "League", f.notifier.SendStandingsCalls[0].Name)

	raw, err = msgpack.Marshal(pubsub.MatchCompleted{MatchID: "m2"})
	require.NoError(t, err)
	require.NoError(t, f.proc.HandleMatchCompleted(ctx, raw, false))
	assert.Len(t, f.notifier.SendMatchResultCalls, 2)
	assert.Len(t, f.notifier.SendStandingsCalls, 1, "friendlies have no tables")

	err = f.proc.HandleMatchCompleted(ctx, []byte{0xc1}, false)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestHandleAchievementUnlocked(t *testing.T) {
	f := setup(t)
	raw, err := msgpack.Marshal(pubsub.AchievementUnlocked{UserID: "u1", AchievementID: "a1", Points: 5})
	require.NoError(t, err)
	require.NoError(t, f.proc.HandleAchievementUnlocked(context.Background(), raw, false))
	require.Len(t, f.notifier.SendAchievementUnlockedCalls, 1)
	assert.Equal(t, 5, f.notifier.SendAchievementUnlockedCalls[0].Points)
}

func TestResolveSeason(t *testing.T) {
	p := &Processor{}
	assert.Equal(t, "2030-2031", p.resolveSeason("2030-2031", clock))
	assert.Equal(t, performance.SeasonFor(clock), p.resolveSeason("", clock))
	p.season = "fixed"
	assert.Equal(t, "fixed", p.resolveSeason("", clock))
}

func TestContributions(t *testing.T) {
	m := &match.Match{
		ID:     "m1",
		Winner: match.SideAway,
		PlayerStats: []match.PlayerStat{
			{PlayerID: "p1", Side: match.SideHome, Goals: 1, Rating: 6},
			{PlayerID: "p2", Side: match.SideAway, Goals: 2},
			{PlayerID: "p1", Side: match.SideHome, Assists: 1, Rating: 7, Position: "forward"},
		},
	}
	got := contributions(m)
	require.Len(t, got, 2)
	assert.Equal(t, performance.OutcomeLoss, got[0].Outcome)
	assert.Equal(t, 1, got[0].Stat.Goals)
	assert.Equal(t, 1, got[0].Stat.Assists)
	assert.Equal(t, 7.0, got[0].Stat.Rating)
	assert.Equal(t, "forward", got[0].Stat.Position)
	assert.Equal(t, performance.OutcomeWin, got[1].Outcome)

	m.Winner = ""
	assert.Equal(t, performance.OutcomeDraw, contributions(m)[0].Outcome)
}

func intp(v int) *int { return &v }
