package achievement

import (
	"time"

	"github.com/mauv0809/arena/internal/apperr"
	"github.com/mauv0809/arena/internal/performance"
)

type dimensionKind int

const (
	kindTotal dimensionKind = iota
	kindStreak
	kindPeak
	kindAverage
)

type dimension struct {
	name     string
	kind     dimensionKind
	required float64
	current  float64
}

// SnapshotFrom builds the evidence for a player out of their season
// document and the match they just played.
func SnapshotFrom(p *performance.Performance, sport, position string) Snapshot {
	return Snapshot{
		Goals:         p.Offensive.Goals,
		Assists:       p.Offensive.Assists,
		Saves:         p.Defensive.Saves,
		Tackles:       p.Defensive.Tackles,
		Passes:        p.Passing.Passes,
		Matches:       p.Matches.Total,
		Wins:          p.Matches.Won,
		Minutes:       p.MinutesPlayed,
		GoalStreak:    p.Records.LongestGoalStreak,
		WinStreak:     p.Records.LongestWinStreak,
		GoalsInMatch:  p.Records.BestGoalsInMatch,
		BestRating:    p.Records.BestRating,
		AverageRating: p.Rating.Average,
		PassAccuracy:  p.Passing.Accuracy,
		GoalsPerMatch: p.Offensive.GoalsPerMatch,
		Sport:         sport,
		Position:      position,
		Season:        p.Season,
	}
}

func dimensions(r Requirements, s Snapshot) []dimension {
	var out []dimension
	addInt := func(name string, kind dimensionKind, req *int, cur int) {
		if req != nil {
			out = append(out, dimension{name: name, kind: kind, required: float64(*req), current: float64(cur)})
		}
	}
	addFloat := func(name string, kind dimensionKind, req *float64, cur float64) {
		if req != nil {
			out = append(out, dimension{name: name, kind: kind, required: *req, current: cur})
		}
	}
	addInt("goals", kindTotal, r.Goals, s.Goals)
	addInt("assists", kindTotal, r.Assists, s.Assists)
	addInt("saves", kindTotal, r.Saves, s.Saves)
	addInt("tackles", kindTotal, r.Tackles, s.Tackles)
	addInt("passes", kindTotal, r.Passes, s.Passes)
	addInt("matches", kindTotal, r.Matches, s.Matches)
	addInt("wins", kindTotal, r.Wins, s.Wins)
	addInt("minutes", kindTotal, r.Minutes, s.Minutes)
	addInt("goalStreak", kindStreak, r.GoalStreak, s.GoalStreak)
	addInt("winStreak", kindStreak, r.WinStreak, s.WinStreak)
	addInt("goalsInMatch", kindPeak, r.GoalsInMatch, s.GoalsInMatch)
	addFloat("bestRating", kindPeak, r.BestRating, s.BestRating)
	addFloat("averageRating", kindAverage, r.AverageRating, s.AverageRating)
	addFloat("passAccuracy", kindAverage, r.PassAccuracy, s.PassAccuracy)
	addFloat("goalsPerMatch", kindAverage, r.GoalsPerMatch, s.GoalsPerMatch)
	return out
}

func categoricalMatch(r Requirements, s Snapshot) bool {
	if r.Sport != nil && *r.Sport != s.Sport {
		return false
	}
	if r.Position != nil && *r.Position != s.Position {
		return false
	}
	if r.Season != nil && *r.Season != s.Season {
		return false
	}
	return true
}

func (r Requirements) empty() bool {
	return len(dimensions(r, Snapshot{})) == 0 && r.Sport == nil && r.Position == nil && r.Season == nil
}

// Validate checks an achievement definition before it is stored.
func Validate(a *Achievement) error {
	if a.Name == "" {
		return apperr.Validation("achievement name is required")
	}
	switch a.Scope {
	case ScopeGlobal:
	case ScopeClub:
		if a.ClubID == "" {
			return apperr.Validation("club achievement %q needs a club id", a.Name)
		}
	case ScopePersonal:
		if a.UserID == "" {
			return apperr.Validation("personal achievement %q needs a user id", a.Name)
		}
	default:
		return apperr.Validation("unknown achievement scope %q", a.Scope)
	}
	switch a.ProgressType {
	case ProgressCumulative, ProgressConsecutive, ProgressBest, ProgressAverage:
	case "":
		a.ProgressType = ProgressCumulative
	default:
		return apperr.Validation("unknown progress type %q", a.ProgressType)
	}
	if a.Requirements.empty() {
		return apperr.Validation("achievement %q has no requirements", a.Name)
	}
	for _, d := range dimensions(a.Requirements, Snapshot{}) {
		if d.required <= 0 {
			return apperr.Validation("requirement %s must be positive", d.name)
		}
	}
	if a.ActiveFrom != nil && a.ActiveUntil != nil && a.ActiveUntil.Before(*a.ActiveFrom) {
		return apperr.Validation("achievement %q ends before it starts", a.Name)
	}
	if a.Points < 0 {
		return apperr.Validation("achievement points cannot be negative")
	}
	return nil
}

// Applies reports whether the achievement can be earned by the target at t.
func Applies(a Achievement, target Target, t time.Time) bool {
	if !a.Active {
		return false
	}
	if a.ActiveFrom != nil && t.Before(*a.ActiveFrom) {
		return false
	}
	if a.ActiveUntil != nil && t.After(*a.ActiveUntil) {
		return false
	}
	switch a.Scope {
	case ScopeGlobal:
		return true
	case ScopeClub:
		return a.ClubID != "" && a.ClubID == target.ClubID
	case ScopePersonal:
		return a.UserID != "" && a.UserID == target.UserID
	}
	return false
}

// CheckRequirements reports whether every requirement is met. Numeric
// requirements are thresholds, categorical ones must match exactly.
func CheckRequirements(r Requirements, s Snapshot) bool {
	if !categoricalMatch(r, s) {
		return false
	}
	for _, d := range dimensions(r, s) {
		if d.current < d.required {
			return false
		}
	}
	return true
}

// CalculateProgress computes partial credit according to the progress type.
func CalculateProgress(a Achievement, s Snapshot) Progress {
	dims := dimensions(a.Requirements, s)
	if len(dims) == 0 {
		if categoricalMatch(a.Requirements, s) {
			return Progress{Current: 1, Required: 1, Percentage: 100}
		}
		return Progress{Current: 0, Required: 1, Percentage: 0}
	}

	var p Progress
	switch a.ProgressType {
	case ProgressConsecutive, ProgressBest:
		want := kindStreak
		if a.ProgressType == ProgressBest {
			want = kindPeak
		}
		candidates := filter(dims, want)
		if len(candidates) == 0 {
			candidates = dims
		}
		best := candidates[0]
		for _, d := range candidates[1:] {
			if fraction(d) > fraction(best) {
				best = d
			}
		}
		p = Progress{Current: min(best.current, best.required), Required: best.required}
	case ProgressAverage:
		var sum float64
		for _, d := range dims {
			sum += fraction(d)
		}
		p = Progress{Current: sum / float64(len(dims)) * 100, Required: 100}
	default:
		for _, d := range dims {
			p.Current += min(max(d.current, 0), d.required)
			p.Required += d.required
		}
	}
	p.Percentage = percentage(p.Current, p.Required)
	if p.Percentage >= 100 && !categoricalMatch(a.Requirements, s) {
		p.Percentage = 99
	}
	return p
}

func filter(dims []dimension, kind dimensionKind) []dimension {
	var out []dimension
	for _, d := range dims {
		if d.kind == kind {
			out = append(out, d)
		}
	}
	return out
}

func fraction(d dimension) float64 {
	if d.required <= 0 {
		return 1
	}
	return min(max(d.current/d.required, 0), 1)
}

func percentage(cur, req float64) float64 {
	if req <= 0 {
		return 100
	}
	return min(max(cur/req*100, 0), 100)
}

// NewUserAchievement returns the locked starting state.
func NewUserAchievement(userID, achievementID string) *UserAchievement {
	return &UserAchievement{UserID: userID, AchievementID: achievementID, Status: StatusLocked}
}

// UpdateProgress records new progress. Progress never goes backwards and an
// unlocked achievement is left untouched. It reports whether anything
// changed.
func UpdateProgress(ua *UserAchievement, p Progress, matchID string, at time.Time) bool {
	if ua.Status == StatusUnlocked {
		return false
	}
	if p.Percentage < ua.Progress.Percentage {
		return false
	}
	if p == ua.Progress {
		return false
	}
	ua.Progress = p
	if p.Percentage > 0 {
		ua.Status = StatusInProgress
	}
	ua.UpdatedAt = at
	ua.ProgressHistory = append(ua.ProgressHistory, ProgressEntry{
		At: at, MatchID: matchID, Current: p.Current, Required: p.Required,
		Percentage: p.Percentage, Status: ua.Status,
	})
	return true
}

// Unlock marks the achievement as earned. It reports false if it already was.
func Unlock(ua *UserAchievement, p Progress, pc PerformanceContext, at time.Time) bool {
	if ua.Status == StatusUnlocked {
		return false
	}
	p.Current = max(p.Current, p.Required)
	p.Percentage = 100
	ua.Status = StatusUnlocked
	ua.Progress = p
	ua.UnlockedAt = &at
	ua.PerformanceContext = &pc
	ua.UpdatedAt = at
	ua.ProgressHistory = append(ua.ProgressHistory, ProgressEntry{
		At: at, MatchID: pc.MatchID, Current: p.Current, Required: p.Required,
		Percentage: p.Percentage, Status: StatusUnlocked,
	})
	return true
}
