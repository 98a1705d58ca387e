package processor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/arena/internal/achievement"
	"github.com/mauv0809/arena/internal/apperr"
	"github.com/mauv0809/arena/internal/database"
	"github.com/mauv0809/arena/internal/live"
	"github.com/mauv0809/arena/internal/match"
	"github.com/mauv0809/arena/internal/metrics"
	"github.com/mauv0809/arena/internal/performance"
	"github.com/mauv0809/arena/internal/pubsub"
)

// New creates a new Processor. season, when set, overrides the season
// derived from the completion date.
func New(
	db *sql.DB,
	matches match.Store,
	aggregator *performance.Aggregator,
	evaluator *achievement.Evaluator,
	results Results,
	pubsub pubsub.PubSubClient,
	live match.Broadcaster,
	notifier Notifier,
	metrics metrics.Metrics,
	season string,
) *Processor {
	return &Processor{
		db:         db,
		matches:    matches,
		aggregator: aggregator,
		evaluator:  evaluator,
		results:    results,
		pubsub:     pubsub,
		live:       live,
		notifier:   notifier,
		metrics:    metrics,
		season:     season,
		now:        time.Now,
	}
}

// WithClock replaces the processor clock, for tests.
func (p *Processor) WithClock(now func() time.Time) *Processor {
	p.now = now
	return p
}

// CompleteMatch finishes a live match. The score, the exactly-once
// completion marker, every player's seasonal performance, achievement
// progress and the tournament result are written in one transaction.
// Events and broadcasts go out only after commit. Completing a match twice
// returns the stored match with Duplicate set and no side effects.
func (p *Processor) CompleteMatch(ctx context.Context, id string, req CompleteRequest) (*Result, error) {
	start := time.Now()
	res := &Result{}

	err := database.WithTx(ctx, p.db, func(tx *sql.Tx) error {
		m, err := p.matches.Get(ctx, tx, id)
		if err != nil {
			return err
		}
		res.Match = m
		if m.Status == match.StatusCompleted {
			res.Duplicate = true
			return nil
		}
		if m.Status != match.StatusInProgress {
			return fmt.Errorf("match %s is %s: %w", m.ID, m.Status, apperr.ErrMatchNotLive)
		}

		var tiebreak match.Side
		if knockout(m) {
			if req.HomeScore == req.AwayScore && !req.PenaltyWinner.Valid() {
				return apperr.Validation("a drawn knockout match needs a penalty winner")
			}
			tiebreak = req.PenaltyWinner
		}

		now := p.now().UTC()
		first, err := p.matches.MarkCompleted(ctx, tx, m.ID, now)
		if err != nil {
			return err
		}
		if !first {
			res.Duplicate = true
			return nil
		}
		if _, err := match.Complete(m, req.HomeScore, req.AwayScore, tiebreak, now); err != nil {
			return err
		}
		if err := p.matches.Save(ctx, tx, m); err != nil {
			return err
		}

		res.Season = p.resolveSeason(req.Season, now)
		perfs, err := p.aggregator.Fold(ctx, tx, res.Season, contributions(m), now)
		if err != nil {
			return err
		}
		res.Performances = perfs

		defs, err := p.evaluator.Definitions(ctx, tx)
		if err != nil {
			return err
		}
		for _, stat := range m.PlayerStats {
			perf, ok := perfs[stat.PlayerID]
			if !ok {
				continue
			}
			unlocks, err := p.evaluator.Evaluate(ctx, tx, defs, achievement.Target{
				UserID:       stat.PlayerID,
				ClubID:       m.ClubID,
				MatchID:      m.ID,
				TournamentID: m.TournamentID,
			}, achievement.SnapshotFrom(perf, m.Sport, stat.Position), now)
			if err != nil {
				return err
			}
			res.Unlocks = append(res.Unlocks, unlocks...)
		}

		t, err := p.results.RecordResult(ctx, tx, m)
		if err != nil {
			return err
		}
		res.Tournament = t
		return nil
	})
	if err != nil {
		if errors.Is(err, apperr.ErrConcurrencyConflict) {
			p.metrics.IncConcurrencyConflicts()
		}
		return nil, err
	}

	if res.Duplicate {
		log.Info("Match already completed, skipping", "matchID", id)
		return res, nil
	}

	p.metrics.IncMatchesCompleted()
	p.metrics.ObserveCompletionDuration(time.Since(start).Seconds())
	if len(res.Unlocks) > 0 {
		p.metrics.IncAchievementsUnlocked(len(res.Unlocks))
	}
	log.Info("Completed match", "matchID", id, "score", fmt.Sprintf("%d-%d", res.Match.HomeScore, res.Match.AwayScore),
		"players", len(res.Performances), "unlocks", len(res.Unlocks))

	p.publish(res)
	return res, nil
}

// publish fans a committed completion out. Failures are logged; the
// completion itself has already been stored.
func (p *Processor) publish(res *Result) {
	m := res.Match
	if err := p.pubsub.SendMessage(pubsub.EventMatchCompleted, pubsub.MatchCompleted{
		MatchID:      m.ID,
		TournamentID: m.TournamentID,
		Sport:        m.Sport,
		Home:         m.Home.ID(),
		Away:         m.Away.ID(),
		HomeScore:    m.HomeScore,
		AwayScore:    m.AwayScore,
		WinnerID:     m.WinnerID(),
		Season:       res.Season,
		CompletedAt:  *m.CompletedAt,
	}); err != nil {
		log.Error("Failed to publish match completion", "matchID", m.ID, "error", err)
	}
	for _, u := range res.Unlocks {
		if err := p.pubsub.SendMessage(pubsub.EventAchievementUnlocked, pubsub.AchievementUnlocked{
			UserID:          u.UserID,
			AchievementID:   u.Achievement.ID,
			AchievementName: u.Achievement.Name,
			Points:          u.Achievement.Points,
			MatchID:         m.ID,
			UnlockedAt:      u.At,
		}); err != nil {
			log.Error("Failed to publish achievement unlock", "userID", u.UserID, "achievementID", u.Achievement.ID, "error", err)
		}
	}
	p.live.BroadcastToRoom(live.MatchRoom(m.ID), "match_completed", m)
	if res.Tournament != nil {
		p.results.Announce(res.Tournament, "result_recorded")
	}
}

func (p *Processor) resolveSeason(requested string, at time.Time) string {
	switch {
	case requested != "":
		return requested
	case p.season != "":
		return p.season
	}
	return performance.SeasonFor(at)
}

func knockout(m *match.Match) bool {
	return m.Round != nil && m.Round.Stage == match.StageKnockout
}

// contributions turns the player lines of a completed match into one
// contribution per player. Lines repeated for the same player are summed.
func contributions(m *match.Match) []performance.Contribution {
	var (
		out   []performance.Contribution
		index = map[string]int{}
	)
	for _, stat := range m.PlayerStats {
		if i, ok := index[stat.PlayerID]; ok {
			merge(&out[i].Stat, stat)
			continue
		}
		index[stat.PlayerID] = len(out)
		out = append(out, performance.Contribution{MatchID: m.ID, Stat: stat, Outcome: outcome(m, stat.Side)})
	}
	return out
}

func outcome(m *match.Match, side match.Side) performance.Outcome {
	switch m.Winner {
	case "":
		return performance.OutcomeDraw
	case side:
		return performance.OutcomeWin
	}
	return performance.OutcomeLoss
}

func merge(dst *match.PlayerStat, src match.PlayerStat) {
	dst.Goals += src.Goals
	dst.Assists += src.Assists
	dst.Saves += src.Saves
	dst.Tackles += src.Tackles
	dst.Passes += src.Passes
	dst.PassesCompleted += src.PassesCompleted
	dst.YellowCards += src.YellowCards
	dst.RedCards += src.RedCards
	dst.Fouls += src.Fouls
	dst.MinutesPlayed += src.MinutesPlayed
	if src.Rating > dst.Rating {
		dst.Rating = src.Rating
	}
	if dst.Position == "" {
		dst.Position = src.Position
	}
}

// HandleMatchCompleted sends the result notification for a pushed
// match-completed event, followed by the tournament tables when the match
// belongs to a tournament with groups.
func (p *Processor) HandleMatchCompleted(ctx context.Context, data []byte, dryRun bool) error {
	var ev pubsub.MatchCompleted
	if err := p.pubsub.ProcessMessage(data, &ev); err != nil {
		return apperr.Validation("decode match-completed event: %v", err)
	}
	log.Info("Handling match completion", "matchID", ev.MatchID, "dryRun", dryRun)
	if err := p.notifier.SendMatchResult(ev, dryRun); err != nil {
		return err
	}
	if ev.TournamentID == "" {
		return nil
	}
	t, err := p.results.Get(ctx, ev.TournamentID)
	if err != nil {
		return err
	}
	if len(t.Groups) == 0 {
		return nil
	}
	view, err := p.results.Standings(ctx, t.ID)
	if err != nil {
		return err
	}
	return p.notifier.SendStandings(t.Name, view, dryRun)
}

// HandleAchievementUnlocked sends the notification for a pushed
// achievement-unlocked event.
func (p *Processor) HandleAchievementUnlocked(_ context.Context, data []byte, dryRun bool) error {
	var ev pubsub.AchievementUnlocked
	if err := p.pubsub.ProcessMessage(data, &ev); err != nil {
		return apperr.Validation("decode achievement-unlocked event: %v", err)
	}
	log.Info("Handling achievement unlock", "userID", ev.UserID, "achievementID", ev.AchievementID, "dryRun", dryRun)
	return p.notifier.SendAchievementUnlocked(ev, dryRun)
}
