package pubsub

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestLogOnlyClient(t *testing.T) {
	c := NewLogOnly()
	require.NoError(t, c.SendMessage(EventMatchCompleted, MatchCompleted{MatchID: "m1"}))

	err := c.SendMessage(EventMatchCompleted, make(chan int))
	assert.Error(t, err, "unencodable payloads are reported")
}

func TestProcessMessage(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	raw, err := msgpack.Marshal(AchievementUnlocked{UserID: "u1", AchievementID: "a1", Points: 10, UnlockedAt: at})
	require.NoError(t, err)

	var got AchievementUnlocked
	require.NoError(t, NewLogOnly().ProcessMessage(raw, &got))
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, 10, got.Points)
	assert.True(t, at.Equal(got.UnlockedAt))

	assert.Error(t, NewLogOnly().ProcessMessage([]byte{0xc1}, &got))
}

func TestMockPubSubClient(t *testing.T) {
	m := NewMock()
	require.NoError(t, m.SendMessage(EventTournamentUpdated, TournamentUpdated{TournamentID: "t1"}))

	boom := errors.New("boom")
	m.SendMessageFunc = func(topic EventType, data any) error { return boom }
	assert.ErrorIs(t, m.SendMessage(EventMatchCompleted, nil), boom)

	assert.Equal(t, []EventType{EventTournamentUpdated, EventMatchCompleted}, m.Topics())

	m.Reset()
	assert.Empty(t, m.Topics())
}
