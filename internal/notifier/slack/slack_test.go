package slack

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/arena/internal/achievement"
	"github.com/mauv0809/arena/internal/metrics"
	"github.com/mauv0809/arena/internal/pubsub"
	"github.com/mauv0809/arena/internal/standings"
	"github.com/mauv0809/arena/internal/tournament"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", metrics)

	_, _, err := notifier.sendMessage(slackapi.NewBlockMessage(), true)
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.SlackNotifSent())
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage(slackapi.NewSectionBlock(plain("hello"), nil, nil))
	_, _, err := notifier.sendMessage(message, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	_, _, err := notifier.sendMessage(slackapi.NewBlockMessage(), false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 1, metrics.SlackNotifFailed())
}

func TestSendMatchResult_CallsSender(t *testing.T) {
	calls := 0
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			calls++
			return "C123", "ts123", nil
		},
	}
	notifier := NewNotifierWithAPI(api, "C123", metrics.NewMock())

	require.NoError(t, notifier.SendMatchResult(pubsub.MatchCompleted{MatchID: "m1", Home: "a", Away: "b"}, false))
	require.NoError(t, notifier.SendAchievementUnlocked(pubsub.AchievementUnlocked{UserID: "u1"}, false))
	require.NoError(t, notifier.SendLeaderboard(nil, false))
	assert.Equal(t, 3, calls)
}

func TestFormatMatchResult(t *testing.T) {
	msg := formatMatchResult(pubsub.MatchCompleted{
		Sport:        "football",
		Home:         "lions",
		Away:         "tigers",
		HomeScore:    2,
		AwayScore:    1,
		WinnerID:     "lions",
		Season:       "2024-2025",
		TournamentID: "t1",
	})
	require.Len(t, msg.Blocks.BlockSet, 4, "Expected 4 blocks")

	header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	require.True(t, ok, "Block 0 should be a HeaderBlock")
	assert.Contains(t, header.Text.Text, "football")

	score, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok, "Block 1 should be a SectionBlock")
	assert.Equal(t, "lions 2 - 1 tigers", score.Text.Text)

	result, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, result.Text.Text, "lions won")

	ctxBlock, ok := msg.Blocks.BlockSet[3].(*slackapi.ContextBlock)
	require.True(t, ok, "Block 3 should be a ContextBlock")
	assert.Len(t, ctxBlock.ContextElements.Elements, 2)

	t.Run("draw", func(t *testing.T) {
		msg := formatMatchResult(pubsub.MatchCompleted{Home: "a", Away: "b", HomeScore: 1, AwayScore: 1})
		result := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
		assert.Equal(t, "Result: draw", result.Text.Text)
	})
}

func TestFormatAchievementUnlocked(t *testing.T) {
	msg := formatAchievementUnlocked(pubsub.AchievementUnlocked{
		UserID:          "u1",
		AchievementName: "Hat-trick Hero",
		Points:          25,
		MatchID:         "m1",
		UnlockedAt:      time.Date(2025, 3, 1, 15, 4, 0, 0, time.UTC),
	})
	require.Len(t, msg.Blocks.BlockSet, 3)
	section := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	assert.Equal(t, "*u1* unlocked *Hat-trick Hero* (+25 points)", section.Text.Text)
}

func TestFormatStandings(t *testing.T) {
	view := &tournament.StandingsView{
		TournamentID: "t1",
		Groups: []standings.Table{{
			Name: "A",
			Rows: []standings.Row{
				{TeamID: "a", Played: 2, Won: 2, GoalsFor: 4, GoalsAgainst: 1, Points: 6},
				{TeamID: "b", Played: 2, Lost: 2, GoalsFor: 1, GoalsAgainst: 4},
			},
		}},
	}
	msg := formatStandings("Club Cup", view)
	require.Len(t, msg.Blocks.BlockSet, 2)
	section := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	assert.Contains(t, section.Text.Text, "*Group A*")
	assert.Contains(t, section.Text.Text, "1. 🥇 a  P2 W2 D0 L0 GD+3 *6 pts*")
	assert.Contains(t, section.Text.Text, "2. 🥈 b  P2 W0 D0 L2 GD-3 *0 pts*")

	empty := formatStandings("Club Cup", nil)
	require.Len(t, empty.Blocks.BlockSet, 2)
}

func TestFormatLeaderboard(t *testing.T) {
	empty := formatLeaderboard(nil)
	require.Len(t, empty.Blocks.BlockSet, 2)

	msg := formatLeaderboard([]achievement.LeaderboardEntry{
		{UserID: "u1", Unlocked: 3, Points: 40},
		{UserID: "u2", Unlocked: 1, Points: 10},
	})
	require.Len(t, msg.Blocks.BlockSet, 3)
	first := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	assert.Equal(t, "1. 🥇 u1\n> Unlocked: 3 | Points: 40", first.Text.Text)
}
