package performance

import "time"

// PeriodSeasonal is the only aggregation period kept today.
const PeriodSeasonal = "seasonal"

// Outcome is a match result seen from one player's side.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeDraw Outcome = "draw"
	OutcomeLoss Outcome = "loss"
)

type MatchCounts struct {
	Total int `json:"total"`
	Won   int `json:"won"`
	Drawn int `json:"drawn"`
	Lost  int `json:"lost"`
}

type Offensive struct {
	Goals           int     `json:"goals"`
	Assists         int     `json:"assists"`
	GoalsPerMatch   float64 `json:"goalsPerMatch"`
	AssistsPerMatch float64 `json:"assistsPerMatch"`
}

type Defensive struct {
	Tackles         int     `json:"tackles"`
	Saves           int     `json:"saves"`
	TacklesPerMatch float64 `json:"tacklesPerMatch"`
	SavesPerMatch   float64 `json:"savesPerMatch"`
}

type Passing struct {
	Passes    int     `json:"passes"`
	Completed int     `json:"completed"`
	Accuracy  float64 `json:"accuracy"`
}

type Discipline struct {
	YellowCards int `json:"yellowCards"`
	RedCards    int `json:"redCards"`
	Fouls       int `json:"fouls"`
}

type Rating struct {
	Sum     float64 `json:"sum"`
	Rated   int     `json:"rated"`
	Average float64 `json:"average"`
}

// Records are per-match peaks and running streaks.
type Records struct {
	BestGoalsInMatch  int     `json:"bestGoalsInMatch"`
	BestRating        float64 `json:"bestRating"`
	CurrentGoalStreak int     `json:"currentGoalStreak"`
	LongestGoalStreak int     `json:"longestGoalStreak"`
	CurrentWinStreak  int     `json:"currentWinStreak"`
	LongestWinStreak  int     `json:"longestWinStreak"`
}

// Performance is one player's cumulative record for a season. Rates are
// always derived from the counters by Recompute.
type Performance struct {
	PlayerID        string      `json:"playerId"`
	Season          string      `json:"season"`
	Period          string      `json:"period"`
	Matches         MatchCounts `json:"matches"`
	MinutesPlayed   int         `json:"minutesPlayed"`
	MinutesPerMatch float64     `json:"minutesPerMatch"`
	WinPercentage   float64     `json:"winPercentage"`
	Offensive       Offensive   `json:"offensive"`
	Defensive       Defensive   `json:"defensive"`
	Passing         Passing     `json:"passing"`
	Discipline      Discipline  `json:"discipline"`
	Rating          Rating      `json:"rating"`
	Records         Records     `json:"records"`
	LastMatchID     string      `json:"lastMatchId,omitempty"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}
