package bracket

import (
	"fmt"
	"math"
	"testing"

	"github.com/mauv0809/arena/internal/apperr"
	"github.com/mauv0809/arena/internal/standings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func teams(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("t%d", i+1)
	}
	return out
}

func roundNames(rounds []Round) []string {
	names := make([]string, len(rounds))
	for i, r := range rounds {
		names[i] = r.Name
	}
	return names
}

func TestRoundName(t *testing.T) {
	assert.Equal(t, "final", RoundName(2))
	assert.Equal(t, "semi_final", RoundName(4))
	assert.Equal(t, "quarter_final", RoundName(8))
	assert.Equal(t, "round_of_16", RoundName(16))
	assert.Equal(t, "round_of_32", RoundName(32))
	assert.Equal(t, "round_of_6", RoundName(6))
	assert.Equal(t, "round_of_64", RoundName(64))
}

func TestKnockout(t *testing.T) {
	t.Run("eight teams", func(t *testing.T) {
		rounds, err := Knockout(teams(8))
		require.NoError(t, err)
		assert.Equal(t, []string{"quarter_final", "semi_final", "final"}, roundNames(rounds))

		first := rounds[0]
		require.Len(t, first.Pairings, 4)
		assert.Equal(t, "t1", first.Pairings[0].Home.TeamID)
		assert.Equal(t, "t2", first.Pairings[0].Away.TeamID)
		assert.Equal(t, "t7", first.Pairings[3].Home.TeamID)
		assert.Equal(t, teams(8), first.Participants)

		semi := rounds[1]
		require.Len(t, semi.Pairings, 2)
		assert.Equal(t, SlotPending, semi.Pairings[1].Home.Kind)
		assert.Equal(t, &Source{Round: 0, Pairing: 2}, semi.Pairings[1].Home.From)
		assert.Empty(t, semi.Participants)
		assert.Len(t, Playable(rounds), 4)
	})

	t.Run("round count is ceil log2", func(t *testing.T) {
		for n := 2; n <= 33; n++ {
			rounds, err := Knockout(teams(n))
			require.NoError(t, err)
			assert.Equal(t, int(math.Ceil(math.Log2(float64(n)))), len(rounds), "n=%d", n)
			assert.Equal(t, "final", rounds[len(rounds)-1].Name, "n=%d", n)
		}
	})

	t.Run("odd count gets explicit byes", func(t *testing.T) {
		rounds, err := Knockout(teams(5))
		require.NoError(t, err)
		assert.Equal(t, []string{"round_of_5", "round_of_3", "final"}, roundNames(rounds))

		bye := rounds[0].Pairings[2]
		assert.True(t, bye.Bye)
		assert.Nil(t, bye.Away)
		assert.Equal(t, "t5", bye.WinnerID)
		assert.True(t, bye.ViaBye)

		carried := rounds[1].Pairings[1]
		assert.True(t, carried.Bye)
		assert.Equal(t, "t5", carried.WinnerID)

		final := rounds[2].Pairings[0]
		assert.Equal(t, SlotPending, final.Home.Kind)
		require.NotNil(t, final.Away)
		assert.Equal(t, Team("t5"), *final.Away)
		assert.Equal(t, []string{"t5"}, rounds[2].Participants)
	})

	t.Run("too few teams", func(t *testing.T) {
		_, err := Knockout(teams(1))
		assert.ErrorIs(t, err, apperr.ErrInsufficientTeams)
	})

	t.Run("duplicate team", func(t *testing.T) {
		_, err := Knockout([]string{"a", "b", "a"})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestAdvance(t *testing.T) {
	rounds, err := Knockout(teams(4))
	require.NoError(t, err)

	champion, err := Advance(rounds, Ref{Round: 0, Pairing: 0}, "t2")
	require.NoError(t, err)
	assert.Empty(t, champion)
	assert.Equal(t, Team("t2"), rounds[1].Pairings[0].Home)
	assert.Empty(t, Playable(rounds[1:]), "final waits on the second semi")

	_, err = Advance(rounds, Ref{Round: 1, Pairing: 0}, "t2")
	assert.ErrorIs(t, err, apperr.ErrValidation, "final is not ready")

	_, err = Advance(rounds, Ref{Round: 0, Pairing: 1}, "t1")
	assert.ErrorIs(t, err, apperr.ErrValidation, "t1 is not in the second semi")

	_, err = Advance(rounds, Ref{Round: 0, Pairing: 1}, "t3")
	require.NoError(t, err)
	assert.Equal(t, []Ref{{Round: 1, Pairing: 0}}, Playable(rounds))
	assert.Equal(t, []string{"t2", "t3"}, rounds[1].Participants)

	champion, err = Advance(rounds, Ref{Round: 1, Pairing: 0}, "t3")
	require.NoError(t, err)
	assert.Equal(t, "t3", champion)
	assert.Equal(t, "t3", Champion(rounds))

	t.Run("repeating the same result is harmless", func(t *testing.T) {
		champion, err := Advance(rounds, Ref{Round: 1, Pairing: 0}, "t3")
		require.NoError(t, err)
		assert.Equal(t, "t3", champion)
	})

	t.Run("a different winner is rejected", func(t *testing.T) {
		_, err := Advance(rounds, Ref{Round: 0, Pairing: 0}, "t1")
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("unknown pairing", func(t *testing.T) {
		_, err := Advance(rounds, Ref{Round: 4, Pairing: 0}, "t1")
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestOrder(t *testing.T) {
	one, two := 1, 2
	entrants := []Entrant{
		{TeamID: "late", Order: 3},
		{TeamID: "second-seed", Order: 2, Seed: &two},
		{TeamID: "early", Order: 0},
		{TeamID: "top-seed", Order: 1, Seed: &one},
	}
	assert.Equal(t, []string{"top-seed", "second-seed", "early", "late"}, Order(entrants))
}

func TestGroups(t *testing.T) {
	t.Run("snake distribution", func(t *testing.T) {
		groups, err := Groups(teams(8), 2)
		require.NoError(t, err)
		require.Len(t, groups, 2)
		assert.Equal(t, []string{"t1", "t4", "t5", "t8"}, groups[0])
		assert.Equal(t, []string{"t2", "t3", "t6", "t7"}, groups[1])
	})

	t.Run("derived group count", func(t *testing.T) {
		groups, err := Groups(teams(9), 0)
		require.NoError(t, err)
		assert.Len(t, groups, 3)
	})

	t.Run("not enough teams for the groups", func(t *testing.T) {
		_, err := Groups(teams(3), 2)
		assert.ErrorIs(t, err, apperr.ErrInsufficientTeams)
	})
}

func TestRoundRobin(t *testing.T) {
	fixtures := RoundRobin([]string{"a", "b", "c", "d"})
	assert.Len(t, fixtures, 6)
	assert.Equal(t, Fixture{Home: "a", Away: "b"}, fixtures[0])
	assert.Equal(t, Fixture{Home: "c", Away: "d"}, fixtures[5])
	assert.Empty(t, RoundRobin([]string{"solo"}))
}

func TestSeedFromGroups(t *testing.T) {
	tables := []standings.Table{
		{Name: "A", Rows: []standings.Row{
			{TeamID: "a1", Points: 9},
			{TeamID: "a2", Points: 4},
			{TeamID: "a3", Points: 1},
		}},
		{Name: "B", Rows: []standings.Row{
			{TeamID: "b1", Points: 7},
			{TeamID: "b2", Points: 6},
			{TeamID: "b3", Points: 0},
		}},
	}

	draw, err := SeedFromGroups(tables, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "b2", "b1", "a2"}, draw)

	rounds, err := Knockout(draw)
	require.NoError(t, err)
	assert.Equal(t, []string{"semi_final", "final"}, roundNames(rounds))

	t.Run("no qualifiers", func(t *testing.T) {
		_, err := SeedFromGroups(nil, 2)
		assert.ErrorIs(t, err, apperr.ErrInsufficientTeams)
	})
}
