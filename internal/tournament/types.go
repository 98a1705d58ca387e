package tournament

import (
	"time"

	"github.com/mauv0809/arena/internal/bracket"
	"github.com/mauv0809/arena/internal/match"
	"github.com/mauv0809/arena/internal/standings"
)

type Format string

const (
	FormatKnockout      Format = "knockout"
	FormatLeague        Format = "league"
	FormatGroupKnockout Format = "group_knockout"
	FormatRoundRobin    Format = "round_robin"
	FormatSwiss         Format = "swiss"
)

func (f Format) Valid() bool {
	switch f {
	case FormatKnockout, FormatLeague, FormatGroupKnockout, FormatRoundRobin, FormatSwiss:
		return true
	}
	return false
}

type Status string

const (
	StatusUpcoming     Status = "upcoming"
	StatusRegistration Status = "registration"
	StatusInProgress   Status = "in_progress"
	StatusCompleted    Status = "completed"
	StatusCancelled    Status = "cancelled"
)

// Terminal reports whether the tournament can no longer change status.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type TeamStatus string

const (
	TeamRegistered TeamStatus = "registered"
	TeamConfirmed  TeamStatus = "confirmed"
	TeamWithdrawn  TeamStatus = "withdrawn"
)

// TeamEntry is a team's registration. Withdrawn entries are kept.
type TeamEntry struct {
	TeamID       string     `json:"teamId"`
	Status       TeamStatus `json:"status"`
	Seed         *int       `json:"seed,omitempty"`
	Order        int        `json:"order"`
	RegisteredAt time.Time  `json:"registeredAt"`
}

// GroupFixture is one round-robin meeting inside a group.
type GroupFixture struct {
	Index     int    `json:"index"`
	Home      string `json:"home"`
	Away      string `json:"away"`
	MatchID   string `json:"matchId,omitempty"`
	Played    bool   `json:"played"`
	HomeScore int    `json:"homeScore"`
	AwayScore int    `json:"awayScore"`
}

// Group holds members, fixtures and the table rebuilt from played fixtures.
type Group struct {
	Name      string          `json:"name"`
	Members   []string        `json:"members"`
	Fixtures  []GroupFixture  `json:"fixtures"`
	Standings []standings.Row `json:"standings"`
}

// Tournament is the aggregate owning registration, status and brackets.
type Tournament struct {
	ID                   string                `json:"id"`
	Name                 string                `json:"name"`
	Description          string                `json:"description,omitempty"`
	Sport                string                `json:"sport"`
	Format               Format                `json:"format"`
	Status               Status                `json:"status"`
	ClubID               string                `json:"clubId,omitempty"`
	StartDate            time.Time             `json:"startDate"`
	EndDate              time.Time             `json:"endDate"`
	RegistrationDeadline time.Time             `json:"registrationDeadline"`
	MaxTeams             int                   `json:"maxTeams"`
	MinTeams             int                   `json:"minTeams"`
	GroupCount           int                   `json:"groupCount,omitempty"`
	AdvancePerGroup      int                   `json:"advancePerGroup,omitempty"`
	Points               standings.PointsTable `json:"points"`
	Teams                []TeamEntry           `json:"teams"`
	Groups               []Group               `json:"groups"`
	KnockoutRounds       []bracket.Round       `json:"knockoutRounds"`
	ChampionID           string                `json:"championId,omitempty"`
	CreatedBy            string                `json:"createdBy,omitempty"`
	Version              int                   `json:"version"`
	CreatedAt            time.Time             `json:"createdAt"`
	UpdatedAt            time.Time             `json:"updatedAt"`
}

// NewTournament is the input for creating a tournament.
type NewTournament struct {
	Name                 string                 `json:"name"`
	Description          string                 `json:"description,omitempty"`
	Sport                string                 `json:"sport"`
	Format               Format                 `json:"format"`
	ClubID               string                 `json:"clubId,omitempty"`
	StartDate            time.Time              `json:"startDate"`
	EndDate              time.Time              `json:"endDate"`
	RegistrationDeadline time.Time              `json:"registrationDeadline"`
	MaxTeams             int                    `json:"maxTeams"`
	MinTeams             int                    `json:"minTeams"`
	GroupCount           int                    `json:"groupCount,omitempty"`
	AdvancePerGroup      int                    `json:"advancePerGroup,omitempty"`
	Points               *standings.PointsTable `json:"points,omitempty"`
	CreatedBy            string                 `json:"-"`
}

// Fixture is a meeting that needs a match record.
type Fixture struct {
	Ref  match.RoundRef
	Home string
	Away string
}

// Filter narrows List.
type Filter struct {
	Status Status
	ClubID string
}

// StandingsView is the per-group tables plus the overall aggregate.
type StandingsView struct {
	TournamentID string            `json:"tournamentId"`
	Groups       []standings.Table `json:"groups"`
	Overall      []standings.Row   `json:"overall"`
}
