package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/arena/internal/achievement"
	"github.com/mauv0809/arena/internal/metrics"
	"github.com/mauv0809/arena/internal/notifier"
	"github.com/mauv0809/arena/internal/pubsub"
	"github.com/mauv0809/arena/internal/standings"
	"github.com/mauv0809/arena/internal/tournament"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	return NewNotifierWithAPI(slack.New(token), channelID, metrics)
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendMatchResult(ev pubsub.MatchCompleted, dryRun bool) error {
	_, _, err := s.sendMessage(formatMatchResult(ev), dryRun)
	return err
}

func (s *Notifier) SendAchievementUnlocked(ev pubsub.AchievementUnlocked, dryRun bool) error {
	_, _, err := s.sendMessage(formatAchievementUnlocked(ev), dryRun)
	return err
}

func (s *Notifier) SendStandings(name string, view *tournament.StandingsView, dryRun bool) error {
	_, _, err := s.sendMessage(formatStandings(name, view), dryRun)
	return err
}

func (s *Notifier) SendLeaderboard(entries []achievement.LeaderboardEntry, dryRun bool) error {
	_, _, err := s.sendMessage(formatLeaderboard(entries), dryRun)
	return err
}

func plain(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject("plain_text", text, true, false)
}

func medal(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	}
	return ""
}

// formatMatchResult creates the Slack message for a finished match using Block Kit.
func formatMatchResult(ev pubsub.MatchCompleted) slack.Message {
	blocks := []slack.Block{
		slack.NewHeaderBlock(plain(fmt.Sprintf("🏁 Full time: %s", ev.Sport))),
		slack.NewSectionBlock(plain(fmt.Sprintf("%s %d - %d %s", ev.Home, ev.HomeScore, ev.AwayScore, ev.Away)), nil, nil),
	}

	result := "Result: draw"
	if ev.WinnerID != "" {
		result = fmt.Sprintf("Result: %s won! 🏆", ev.WinnerID)
	}
	blocks = append(blocks, slack.NewSectionBlock(plain(result), nil, nil))

	contextElements := []slack.MixedElement{plain(fmt.Sprintf("Season %s", ev.Season))}
	if ev.TournamentID != "" {
		contextElements = append(contextElements, plain(fmt.Sprintf("Tournament %s", ev.TournamentID)))
	}
	blocks = append(blocks, slack.NewContextBlock("", contextElements...))

	return slack.NewBlockMessage(blocks...)
}

func formatAchievementUnlocked(ev pubsub.AchievementUnlocked) slack.Message {
	text := fmt.Sprintf("*%s* unlocked *%s* (+%d points)", ev.UserID, ev.AchievementName, ev.Points)
	return slack.NewBlockMessage(
		slack.NewHeaderBlock(plain("🎖️ Achievement unlocked! 🎖️")),
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
		slack.NewContextBlock("", plain(fmt.Sprintf("Match %s • %s", ev.MatchID, ev.UnlockedAt.Format("Jan 2, 2006 at 3:04 PM")))),
	)
}

// formatStandings renders one section per group table.
func formatStandings(name string, view *tournament.StandingsView) slack.Message {
	blocks := []slack.Block{slack.NewHeaderBlock(plain(fmt.Sprintf("📊 %s standings", name)))}

	if view == nil || len(view.Groups) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(plain("No group tables yet."), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for _, table := range view.Groups {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Group %s*\n%s", table.Name, formatRows(table.Rows)), false, false),
			nil, nil,
		))
	}
	return slack.NewBlockMessage(blocks...)
}

func formatRows(rows []standings.Row) string {
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = fmt.Sprintf("%d. %s %s  P%d W%d D%d L%d GD%+d *%d pts*",
			i+1, medal(i+1), r.TeamID, r.Played, r.Won, r.Drawn, r.Lost, r.GoalDifference(), r.Points)
	}
	return strings.Join(lines, "\n")
}

// formatLeaderboard creates a Slack message to display the achievement leaderboard.
func formatLeaderboard(entries []achievement.LeaderboardEntry) slack.Message {
	blocks := []slack.Block{slack.NewHeaderBlock(plain("🏆 Achievement Leaderboard 🏆"))}

	if len(entries) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(plain("No achievements unlocked yet. Go play some matches!"), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for i, e := range entries {
		text := fmt.Sprintf("%d. %s %s\n> Unlocked: %d | Points: %d", i+1, medal(i+1), e.UserID, e.Unlocked, e.Points)
		blocks = append(blocks, slack.NewSectionBlock(plain(text), nil, nil))
	}
	return slack.NewBlockMessage(blocks...)
}
