package achievement

import "time"

// Scope limits who can earn an achievement.
type Scope string

const (
	ScopeGlobal   Scope = "global"
	ScopeClub     Scope = "club"
	ScopePersonal Scope = "personal"
)

// ProgressType decides how partial credit is computed.
type ProgressType string

const (
	ProgressCumulative  ProgressType = "cumulative"
	ProgressConsecutive ProgressType = "consecutive"
	ProgressBest        ProgressType = "best"
	ProgressAverage     ProgressType = "average"
)

// Status of a user's achievement.
type Status string

const (
	StatusLocked     Status = "locked"
	StatusInProgress Status = "in_progress"
	StatusUnlocked   Status = "unlocked"
)

// Requirements are the thresholds an achievement asks for. Nil fields are
// not required.
type Requirements struct {
	// Season totals.
	Goals   *int `json:"goals,omitempty"`
	Assists *int `json:"assists,omitempty"`
	Saves   *int `json:"saves,omitempty"`
	Tackles *int `json:"tackles,omitempty"`
	Passes  *int `json:"passes,omitempty"`
	Matches *int `json:"matches,omitempty"`
	Wins    *int `json:"wins,omitempty"`
	Minutes *int `json:"minutes,omitempty"`

	// Streaks.
	GoalStreak *int `json:"goalStreak,omitempty"`
	WinStreak  *int `json:"winStreak,omitempty"`

	// Single-match peaks.
	GoalsInMatch *int     `json:"goalsInMatch,omitempty"`
	BestRating   *float64 `json:"bestRating,omitempty"`

	// Season averages.
	AverageRating *float64 `json:"averageRating,omitempty"`
	PassAccuracy  *float64 `json:"passAccuracy,omitempty"`
	GoalsPerMatch *float64 `json:"goalsPerMatch,omitempty"`

	// Categorical.
	Sport    *string `json:"sport,omitempty"`
	Position *string `json:"position,omitempty"`
	Season   *string `json:"season,omitempty"`
}

// Achievement is a definition users can unlock.
type Achievement struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	Category     string       `json:"category,omitempty"`
	Scope        Scope        `json:"scope"`
	ClubID       string       `json:"clubId,omitempty"`
	UserID       string       `json:"userId,omitempty"`
	Active       bool         `json:"active"`
	ActiveFrom   *time.Time   `json:"activeFrom,omitempty"`
	ActiveUntil  *time.Time   `json:"activeUntil,omitempty"`
	ProgressType ProgressType `json:"progressType"`
	Points       int          `json:"points"`
	Requirements Requirements `json:"requirements"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// Snapshot is the evidence an achievement is judged against: the player's
// season record plus the context of the triggering match.
type Snapshot struct {
	Goals         int     `json:"goals"`
	Assists       int     `json:"assists"`
	Saves         int     `json:"saves"`
	Tackles       int     `json:"tackles"`
	Passes        int     `json:"passes"`
	Matches       int     `json:"matches"`
	Wins          int     `json:"wins"`
	Minutes       int     `json:"minutes"`
	GoalStreak    int     `json:"goalStreak"`
	WinStreak     int     `json:"winStreak"`
	GoalsInMatch  int     `json:"goalsInMatch"`
	BestRating    float64 `json:"bestRating"`
	AverageRating float64 `json:"averageRating"`
	PassAccuracy  float64 `json:"passAccuracy"`
	GoalsPerMatch float64 `json:"goalsPerMatch"`
	Sport         string  `json:"sport,omitempty"`
	Position      string  `json:"position,omitempty"`
	Season        string  `json:"season,omitempty"`
}

// Progress is partial credit towards an achievement.
type Progress struct {
	Current    float64 `json:"current"`
	Required   float64 `json:"required"`
	Percentage float64 `json:"percentage"`
}

// ProgressEntry is one line of the append-only progress log.
type ProgressEntry struct {
	At         time.Time `json:"at"`
	MatchID    string    `json:"matchId,omitempty"`
	Current    float64   `json:"current"`
	Required   float64   `json:"required"`
	Percentage float64   `json:"percentage"`
	Status     Status    `json:"status"`
}

// PerformanceContext records what triggered an unlock.
type PerformanceContext struct {
	MatchID      string   `json:"matchId"`
	TournamentID string   `json:"tournamentId,omitempty"`
	Snapshot     Snapshot `json:"snapshot"`
}

// UserAchievement is one user's state for one achievement.
type UserAchievement struct {
	UserID             string              `json:"userId"`
	AchievementID      string              `json:"achievementId"`
	Status             Status              `json:"status"`
	Progress           Progress            `json:"progress"`
	ProgressHistory    []ProgressEntry     `json:"progressHistory"`
	UnlockedAt         *time.Time          `json:"unlockedAt,omitempty"`
	PerformanceContext *PerformanceContext `json:"performanceContext,omitempty"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

// LeaderboardEntry ranks a user by unlocked achievements.
type LeaderboardEntry struct {
	UserID         string    `json:"userId"`
	Unlocked       int       `json:"unlocked"`
	Points         int       `json:"points"`
	LastUnlockedAt time.Time `json:"lastUnlockedAt"`
}

// Target identifies who is being evaluated and where.
type Target struct {
	UserID       string
	ClubID       string
	MatchID      string
	TournamentID string
}

// UnlockEvent is an achievement newly unlocked by an evaluation.
type UnlockEvent struct {
	UserID      string
	Achievement Achievement
	At          time.Time
}
