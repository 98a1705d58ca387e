package performance

import (
	"fmt"
	"time"

	"github.com/mauv0809/arena/internal/match"
)

// Contribution is what one completed match adds to a player's record.
type Contribution struct {
	MatchID string
	Stat    match.PlayerStat
	Outcome Outcome
}

// NewPerformance returns an empty seasonal record.
func NewPerformance(playerID, season string) *Performance {
	return &Performance{PlayerID: playerID, Season: season, Period: PeriodSeasonal}
}

// Apply adds a match contribution to the counters and records, then
// recomputes every derived rate.
func Apply(p *Performance, c Contribution, at time.Time) {
	s := c.Stat
	p.Matches.Total++
	switch c.Outcome {
	case OutcomeWin:
		p.Matches.Won++
	case OutcomeDraw:
		p.Matches.Drawn++
	default:
		p.Matches.Lost++
	}
	p.MinutesPlayed += s.MinutesPlayed
	p.Offensive.Goals += s.Goals
	p.Offensive.Assists += s.Assists
	p.Defensive.Tackles += s.Tackles
	p.Defensive.Saves += s.Saves
	p.Passing.Passes += s.Passes
	p.Passing.Completed += s.PassesCompleted
	p.Discipline.YellowCards += s.YellowCards
	p.Discipline.RedCards += s.RedCards
	p.Discipline.Fouls += s.Fouls
	if s.Rating > 0 {
		p.Rating.Sum += s.Rating
		p.Rating.Rated++
	}

	r := &p.Records
	r.BestGoalsInMatch = max(r.BestGoalsInMatch, s.Goals)
	r.BestRating = max(r.BestRating, s.Rating)
	if s.Goals > 0 {
		r.CurrentGoalStreak++
	} else {
		r.CurrentGoalStreak = 0
	}
	r.LongestGoalStreak = max(r.LongestGoalStreak, r.CurrentGoalStreak)
	if c.Outcome == OutcomeWin {
		r.CurrentWinStreak++
	} else {
		r.CurrentWinStreak = 0
	}
	r.LongestWinStreak = max(r.LongestWinStreak, r.CurrentWinStreak)

	p.LastMatchID = c.MatchID
	p.UpdatedAt = at
	Recompute(p)
}

// Recompute derives every rate from the cumulative counters.
func Recompute(p *Performance) {
	total := p.Matches.Total
	p.Offensive.GoalsPerMatch = ratio(p.Offensive.Goals, total)
	p.Offensive.AssistsPerMatch = ratio(p.Offensive.Assists, total)
	p.Defensive.TacklesPerMatch = ratio(p.Defensive.Tackles, total)
	p.Defensive.SavesPerMatch = ratio(p.Defensive.Saves, total)
	p.MinutesPerMatch = ratio(p.MinutesPlayed, total)
	p.WinPercentage = ratio(p.Matches.Won, total) * 100
	p.Passing.Accuracy = ratio(p.Passing.Completed, p.Passing.Passes) * 100
	if p.Rating.Rated > 0 {
		p.Rating.Average = p.Rating.Sum / float64(p.Rating.Rated)
	} else {
		p.Rating.Average = 0
	}
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

// SeasonFor names the season containing t. Seasons start on 1 August, so
// March 2025 is in "2024-2025" and September 2025 in "2025-2026".
func SeasonFor(t time.Time) string {
	start := t.Year()
	if t.Month() < time.August {
		start--
	}
	return fmt.Sprintf("%d-%d", start, start+1)
}
