package match

import "time"

// Status is the lifecycle state of a match.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusPostponed  Status = "postponed"
)

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusPostponed
}

// Side identifies the home or away participant.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// Valid reports whether s is home or away.
func (s Side) Valid() bool {
	return s == SideHome || s == SideAway
}

// Participant is a team, or a single player in individual sports.
type Participant struct {
	TeamID   string `json:"teamId,omitempty"`
	PlayerID string `json:"playerId,omitempty"`
}

// ID returns whichever identity is set.
func (p Participant) ID() string {
	if p.TeamID != "" {
		return p.TeamID
	}
	return p.PlayerID
}

// Stage is the part of a tournament a match belongs to.
type Stage string

const (
	StageGroup    Stage = "group"
	StageKnockout Stage = "knockout"
)

// RoundRef locates a match inside its tournament.
type RoundRef struct {
	Stage     Stage  `json:"stage"`
	Group     string `json:"group,omitempty"`
	Fixture   int    `json:"fixture,omitempty"`
	Round     int    `json:"round,omitempty"`
	RoundName string `json:"roundName,omitempty"`
	Pairing   int    `json:"pairing,omitempty"`
}

// PlayerStat is one player's line for a single match.
type PlayerStat struct {
	PlayerID        string  `json:"playerId"`
	Side            Side    `json:"side"`
	Position        string  `json:"position,omitempty"`
	Goals           int     `json:"goals"`
	Assists         int     `json:"assists"`
	Saves           int     `json:"saves"`
	Tackles         int     `json:"tackles"`
	Passes          int     `json:"passes"`
	PassesCompleted int     `json:"passesCompleted"`
	YellowCards     int     `json:"yellowCards"`
	RedCards        int     `json:"redCards"`
	Fouls           int     `json:"fouls"`
	MinutesPlayed   int     `json:"minutesPlayed"`
	Rating          float64 `json:"rating,omitempty"`
}

// HighlightType is the kind of live event recorded in the highlight log.
type HighlightType string

const (
	HighlightGoal         HighlightType = "goal"
	HighlightYellowCard   HighlightType = "yellow_card"
	HighlightRedCard      HighlightType = "red_card"
	HighlightFoul         HighlightType = "foul"
	HighlightSubstitution HighlightType = "substitution"
)

// Highlight is one entry in the match event log.
type Highlight struct {
	ID         string        `json:"id"`
	Type       HighlightType `json:"type"`
	Minute     int           `json:"minute"`
	Side       Side          `json:"side"`
	PlayerID   string        `json:"playerId"`
	AssistID   string        `json:"assistId,omitempty"`
	PlayerInID string        `json:"playerInId,omitempty"`
	At         time.Time     `json:"at"`
}

// Match is the aggregate owning score, player stats and highlights.
type Match struct {
	ID           string       `json:"id"`
	TournamentID string       `json:"tournamentId,omitempty"`
	Round        *RoundRef    `json:"round,omitempty"`
	ClubID       string       `json:"clubId,omitempty"`
	Sport        string       `json:"sport"`
	Status       Status       `json:"status"`
	Home         Participant  `json:"home"`
	Away         Participant  `json:"away"`
	HomeScore    int          `json:"homeScore"`
	AwayScore    int          `json:"awayScore"`
	PlayerStats  []PlayerStat `json:"playerStats"`
	Highlights   []Highlight  `json:"highlights"`
	Winner       Side         `json:"winner,omitempty"`
	ScheduledAt  *time.Time   `json:"scheduledAt,omitempty"`
	StartedAt    *time.Time   `json:"startedAt,omitempty"`
	CompletedAt  *time.Time   `json:"completedAt,omitempty"`
	Version      int          `json:"version"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// WinnerID returns the participant id of the winning side, or "" for a draw.
func (m *Match) WinnerID() string {
	switch m.Winner {
	case SideHome:
		return m.Home.ID()
	case SideAway:
		return m.Away.ID()
	}
	return ""
}

// NewMatch is the input for creating a match.
type NewMatch struct {
	TournamentID string      `json:"tournamentId,omitempty"`
	Round        *RoundRef   `json:"round,omitempty"`
	ClubID       string      `json:"clubId,omitempty"`
	Sport        string      `json:"sport"`
	Home         Participant `json:"home"`
	Away         Participant `json:"away"`
	ScheduledAt  *time.Time  `json:"scheduledAt,omitempty"`
}

// EventType is the kind of live event sent by a caller.
type EventType string

const (
	EventGoal         EventType = "goal"
	EventCard         EventType = "card"
	EventFoul         EventType = "foul"
	EventSubstitution EventType = "substitution"
)

// CardType is yellow or red.
type CardType string

const (
	CardYellow CardType = "yellow"
	CardRed    CardType = "red"
)

// Event is a live event request.
type Event struct {
	Type       EventType `json:"type"`
	Side       Side      `json:"side"`
	PlayerID   string    `json:"playerId"`
	Minute     int       `json:"minute"`
	AssistID   string    `json:"assistId,omitempty"`
	Card       CardType  `json:"card,omitempty"`
	PlayerInID string    `json:"playerInId,omitempty"`
}

// StatUpdate overwrites the non-event fields of a player's line. Nil fields
// are left alone.
type StatUpdate struct {
	PlayerID        string   `json:"playerId"`
	Side            Side     `json:"side"`
	Position        *string  `json:"position,omitempty"`
	Saves           *int     `json:"saves,omitempty"`
	Tackles         *int     `json:"tackles,omitempty"`
	Passes          *int     `json:"passes,omitempty"`
	PassesCompleted *int     `json:"passesCompleted,omitempty"`
	MinutesPlayed   *int     `json:"minutesPlayed,omitempty"`
	Rating          *float64 `json:"rating,omitempty"`
}
