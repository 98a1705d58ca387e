package tournament

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mauv0809/arena/internal/apperr"
	"github.com/mauv0809/arena/internal/bracket"
	"github.com/mauv0809/arena/internal/match"
	"github.com/mauv0809/arena/internal/standings"
)

var transitions = map[Status][]Status{
	StatusUpcoming:     {StatusRegistration, StatusInProgress, StatusCancelled},
	StatusRegistration: {StatusInProgress, StatusCancelled},
	StatusInProgress:   {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether from -> to is an allowed status edge.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// New builds an upcoming tournament from the create request.
func New(in NewTournament, points standings.PointsTable, now time.Time) (Tournament, error) {
	if in.Points != nil {
		points = *in.Points
	}
	t := Tournament{
		ID:                   uuid.NewString(),
		Name:                 in.Name,
		Description:          in.Description,
		Sport:                in.Sport,
		Format:               in.Format,
		Status:               StatusUpcoming,
		ClubID:               in.ClubID,
		StartDate:            in.StartDate,
		EndDate:              in.EndDate,
		RegistrationDeadline: in.RegistrationDeadline,
		MaxTeams:             in.MaxTeams,
		MinTeams:             in.MinTeams,
		GroupCount:           in.GroupCount,
		AdvancePerGroup:      in.AdvancePerGroup,
		Points:               points,
		Teams:                []TeamEntry{},
		Groups:               []Group{},
		KnockoutRounds:       []bracket.Round{},
		CreatedBy:            in.CreatedBy,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if t.MinTeams == 0 {
		t.MinTeams = 2
	}
	if err := Validate(&t); err != nil {
		return Tournament{}, err
	}
	return t, nil
}

// Validate checks the static invariants of a tournament.
func Validate(t *Tournament) error {
	switch {
	case t.Name == "":
		return apperr.Validation("tournament name is required")
	case t.Sport == "":
		return apperr.Validation("sport is required")
	case !t.Format.Valid():
		return apperr.Validation("unknown format %q", t.Format)
	case t.RegistrationDeadline.IsZero() || t.StartDate.IsZero() || t.EndDate.IsZero():
		return apperr.Validation("registration deadline, start and end dates are required")
	case !t.RegistrationDeadline.Before(t.StartDate):
		return apperr.Validation("registration deadline must be before the start date")
	case !t.StartDate.Before(t.EndDate):
		return apperr.Validation("start date must be before the end date")
	case t.MinTeams < 2:
		return apperr.Validation("at least two teams are required")
	case t.MaxTeams < t.MinTeams:
		return apperr.Validation("max teams %d is below min teams %d", t.MaxTeams, t.MinTeams)
	case t.GroupCount < 0 || t.AdvancePerGroup < 0:
		return apperr.Validation("group count and advance per group cannot be negative")
	}
	return nil
}

func (t *Tournament) entry(teamID string) *TeamEntry {
	for i := range t.Teams {
		if t.Teams[i].TeamID == teamID {
			return &t.Teams[i]
		}
	}
	return nil
}

// ActiveTeams counts entries that have not withdrawn.
func (t *Tournament) ActiveTeams() int {
	n := 0
	for _, e := range t.Teams {
		if e.Status != TeamWithdrawn {
			n++
		}
	}
	return n
}

// RegisterTeam appends a registered entry for teamID.
func RegisterTeam(t *Tournament, teamID string, seed *int, now time.Time) error {
	if teamID == "" {
		return apperr.Validation("team id is required")
	}
	if seed != nil && *seed < 1 {
		return apperr.Validation("seed must be positive")
	}
	if t.Status != StatusUpcoming && t.Status != StatusRegistration {
		return fmt.Errorf("%w: tournament is %s", apperr.ErrRegistrationClosed, t.Status)
	}
	if now.After(t.RegistrationDeadline) {
		return fmt.Errorf("%w: deadline was %s", apperr.ErrRegistrationClosed, t.RegistrationDeadline.Format(time.RFC3339))
	}
	if t.entry(teamID) != nil {
		return fmt.Errorf("%w: team %q", apperr.ErrDuplicateRegistration, teamID)
	}
	if len(t.Teams) >= t.MaxTeams {
		return fmt.Errorf("%w: %d of %d places taken", apperr.ErrTournamentFull, len(t.Teams), t.MaxTeams)
	}
	t.Teams = append(t.Teams, TeamEntry{
		TeamID:       teamID,
		Status:       TeamRegistered,
		Seed:         seed,
		Order:        len(t.Teams),
		RegisteredAt: now,
	})
	t.UpdatedAt = now
	return nil
}

// WithdrawTeam marks the entry withdrawn and keeps it for audit.
func WithdrawTeam(t *Tournament, teamID string, now time.Time) error {
	e := t.entry(teamID)
	if e == nil {
		return fmt.Errorf("%w: team %q", apperr.ErrNotRegistered, teamID)
	}
	e.Status = TeamWithdrawn
	t.UpdatedAt = now
	return nil
}

// ConfirmTeam moves a registered entry to confirmed.
func ConfirmTeam(t *Tournament, teamID string, now time.Time) error {
	e := t.entry(teamID)
	if e == nil || e.Status == TeamWithdrawn {
		return fmt.Errorf("%w: team %q", apperr.ErrNotRegistered, teamID)
	}
	e.Status = TeamConfirmed
	t.UpdatedAt = now
	return nil
}

// TransitionStatus moves the tournament along the status table. A rejected
// edge leaves the status untouched.
func TransitionStatus(t *Tournament, to Status, now time.Time) error {
	if !CanTransition(t.Status, to) {
		return apperr.Transition("tournament", t.Status, to)
	}
	t.Status = to
	t.UpdatedAt = now
	return nil
}

func (t *Tournament) confirmed() []bracket.Entrant {
	var out []bracket.Entrant
	for _, e := range t.Teams {
		if e.Status == TeamConfirmed {
			out = append(out, bracket.Entrant{TeamID: e.TeamID, Order: e.Order, Seed: e.Seed})
		}
	}
	return out
}

// HasBrackets reports whether groups or knockout rounds were generated.
func (t *Tournament) HasBrackets() bool {
	return len(t.Groups) > 0 || len(t.KnockoutRounds) > 0
}

// Started reports whether any result has been recorded. Pairings decided by
// a bye do not count.
func (t *Tournament) Started() bool {
	for _, g := range t.Groups {
		for _, f := range g.Fixtures {
			if f.Played {
				return true
			}
		}
	}
	for _, r := range t.KnockoutRounds {
		for _, p := range r.Pairings {
			if p.Decided() && !p.ViaBye {
				return true
			}
		}
	}
	return false
}

// GenerateBrackets builds groups or knockout rounds from the confirmed
// teams. It is a no-op, reporting false, when brackets exist and play has
// started, either in recorded results or in matchesStarted.
func GenerateBrackets(t *Tournament, matchesStarted bool, now time.Time) (bool, error) {
	if t.Status.Terminal() {
		return false, apperr.Validation("cannot generate brackets for a %s tournament", t.Status)
	}
	entrants := t.confirmed()
	if len(entrants) < t.MinTeams {
		return false, fmt.Errorf("%w: %d confirmed, %d required", apperr.ErrInsufficientTeams, len(entrants), t.MinTeams)
	}
	if t.HasBrackets() && (matchesStarted || t.Started()) {
		return false, nil
	}
	order := bracket.Order(entrants)

	var (
		groups []Group
		rounds []bracket.Round
	)
	switch t.Format {
	case FormatKnockout:
		var err error
		rounds, err = bracket.Knockout(order)
		if err != nil {
			return false, err
		}
	case FormatLeague, FormatRoundRobin:
		groups = []Group{newGroup(bracket.GroupName(0), order, t.Points)}
	case FormatGroupKnockout:
		members, err := bracket.Groups(order, t.GroupCount)
		if err != nil {
			return false, err
		}
		for i, m := range members {
			groups = append(groups, newGroup(bracket.GroupName(i), m, t.Points))
		}
	case FormatSwiss:
		return false, apperr.Validation("swiss format is not supported")
	default:
		return false, apperr.Validation("unknown format %q", t.Format)
	}

	if groups == nil {
		groups = []Group{}
	}
	if rounds == nil {
		rounds = []bracket.Round{}
	}
	t.Groups = groups
	t.KnockoutRounds = rounds
	t.ChampionID = ""
	t.UpdatedAt = now
	return true, nil
}

func newGroup(name string, members []string, pts standings.PointsTable) Group {
	g := Group{Name: name, Members: members, Fixtures: []GroupFixture{}}
	for i, f := range bracket.RoundRobin(members) {
		g.Fixtures = append(g.Fixtures, GroupFixture{Index: i, Home: f.Home, Away: f.Away})
	}
	g.Standings, _ = standings.Rebuild(members, nil, pts)
	return g
}

// Unscheduled lists fixtures whose teams are known but that have no match
// record yet.
func Unscheduled(t *Tournament) []Fixture {
	var out []Fixture
	for _, g := range t.Groups {
		for _, f := range g.Fixtures {
			if f.MatchID == "" && !f.Played {
				out = append(out, Fixture{
					Ref:  match.RoundRef{Stage: match.StageGroup, Group: g.Name, Fixture: f.Index},
					Home: f.Home,
					Away: f.Away,
				})
			}
		}
	}
	for _, r := range t.KnockoutRounds {
		for _, p := range r.Pairings {
			if p.Playable() && p.MatchID == "" {
				out = append(out, Fixture{
					Ref:  match.RoundRef{Stage: match.StageKnockout, Round: r.Index, RoundName: r.Name, Pairing: p.Index},
					Home: p.Home.TeamID,
					Away: p.Away.TeamID,
				})
			}
		}
	}
	return out
}

// AttachMatch links a scheduled match to its fixture.
func AttachMatch(t *Tournament, ref match.RoundRef, matchID string) error {
	switch ref.Stage {
	case match.StageGroup:
		f, err := t.groupFixture(ref)
		if err != nil {
			return err
		}
		f.MatchID = matchID
	case match.StageKnockout:
		p, err := t.pairing(ref)
		if err != nil {
			return err
		}
		p.MatchID = matchID
	default:
		return apperr.Validation("unknown stage %q", ref.Stage)
	}
	return nil
}

// DetachMatch unlinks matchID from its fixture so the fixture is listed by
// Unscheduled again. It reports false when the fixture already has a result
// or is linked to another match.
func DetachMatch(t *Tournament, ref match.RoundRef, matchID string) bool {
	switch ref.Stage {
	case match.StageGroup:
		f, err := t.groupFixture(ref)
		if err != nil || f.Played || f.MatchID != matchID {
			return false
		}
		f.MatchID = ""
	case match.StageKnockout:
		p, err := t.pairing(ref)
		if err != nil || p.Decided() || p.MatchID != matchID {
			return false
		}
		p.MatchID = ""
	default:
		return false
	}
	return true
}

func (t *Tournament) groupFixture(ref match.RoundRef) (*GroupFixture, error) {
	for gi := range t.Groups {
		g := &t.Groups[gi]
		if g.Name != ref.Group {
			continue
		}
		if ref.Fixture < 0 || ref.Fixture >= len(g.Fixtures) {
			return nil, apperr.Validation("fixture %d does not exist in group %s", ref.Fixture, g.Name)
		}
		return &g.Fixtures[ref.Fixture], nil
	}
	return nil, apperr.Validation("group %q does not exist", ref.Group)
}

func (t *Tournament) pairing(ref match.RoundRef) (*bracket.Pairing, error) {
	if ref.Round < 0 || ref.Round >= len(t.KnockoutRounds) {
		return nil, apperr.Validation("round %d does not exist", ref.Round)
	}
	r := &t.KnockoutRounds[ref.Round]
	if ref.Pairing < 0 || ref.Pairing >= len(r.Pairings) {
		return nil, apperr.Validation("pairing %d does not exist in %s", ref.Pairing, r.Name)
	}
	return &r.Pairings[ref.Pairing], nil
}

// Outcome is a completed match as the tournament records it.
type Outcome struct {
	MatchID   string
	Ref       match.RoundRef
	Home      string
	Away      string
	HomeScore int
	AwayScore int
	WinnerID  string
}

// RecordResult stores a completed match. Group results rebuild the group
// table; knockout results advance the winner. When the last group fixture
// of a group_knockout tournament is played the knockout stage is seeded
// from the group tables.
func RecordResult(t *Tournament, o Outcome, now time.Time) error {
	switch o.Ref.Stage {
	case match.StageGroup:
		if err := recordGroupResult(t, o); err != nil {
			return err
		}
	case match.StageKnockout:
		if o.WinnerID == "" {
			return apperr.Validation("knockout match %s needs a winner", o.MatchID)
		}
		p, err := t.pairing(o.Ref)
		if err != nil {
			return err
		}
		if p.MatchID != "" && o.MatchID != "" && p.MatchID != o.MatchID {
			return apperr.Validation("match %s does not belong to pairing %d", o.MatchID, o.Ref.Pairing)
		}
		if p.Away == nil || p.Home.TeamID != o.Home || p.Away.TeamID != o.Away {
			return apperr.Validation("match %s is %s v %s, which is not pairing %d of %s", o.MatchID, o.Home, o.Away, o.Ref.Pairing, o.Ref.RoundName)
		}
		champion, err := bracket.Advance(t.KnockoutRounds, bracket.Ref{Round: o.Ref.Round, Pairing: o.Ref.Pairing}, o.WinnerID)
		if err != nil {
			return err
		}
		if champion != "" {
			t.ChampionID = champion
		}
	default:
		return apperr.Validation("unknown stage %q", o.Ref.Stage)
	}
	t.UpdatedAt = now
	return nil
}

func recordGroupResult(t *Tournament, o Outcome) error {
	f, err := t.groupFixture(o.Ref)
	if err != nil {
		return err
	}
	if f.Home != o.Home || f.Away != o.Away {
		return apperr.Validation("match %s is %s v %s, fixture is %s v %s", o.MatchID, o.Home, o.Away, f.Home, f.Away)
	}
	if f.Played {
		if f.HomeScore == o.HomeScore && f.AwayScore == o.AwayScore {
			return nil
		}
		return apperr.Validation("fixture %s v %s already has a result", f.Home, f.Away)
	}
	f.Played = true
	f.HomeScore = o.HomeScore
	f.AwayScore = o.AwayScore
	if o.MatchID != "" {
		f.MatchID = o.MatchID
	}

	for gi := range t.Groups {
		if t.Groups[gi].Name == o.Ref.Group {
			g := &t.Groups[gi]
			rows, err := standings.Rebuild(g.Members, g.Results(), t.Points)
			if err != nil {
				return err
			}
			g.Standings = rows
		}
	}

	if !t.groupStageDone() {
		return nil
	}
	switch t.Format {
	case FormatLeague, FormatRoundRobin:
		if rows := t.Groups[0].Standings; len(rows) > 0 {
			t.ChampionID = rows[0].TeamID
		}
	case FormatGroupKnockout:
		if len(t.KnockoutRounds) > 0 {
			return nil
		}
		tables := make([]standings.Table, len(t.Groups))
		for i, g := range t.Groups {
			tables[i] = standings.Table{Name: g.Name, Rows: g.Standings}
		}
		draw, err := bracket.SeedFromGroups(tables, t.AdvancePerGroup)
		if err != nil {
			return err
		}
		rounds, err := bracket.Knockout(draw)
		if err != nil {
			return err
		}
		t.KnockoutRounds = rounds
	}
	return nil
}

// Results returns the played fixtures as standings input.
func (g Group) Results() []standings.Result {
	var out []standings.Result
	for _, f := range g.Fixtures {
		if f.Played {
			out = append(out, standings.Result{Home: f.Home, Away: f.Away, HomeScore: f.HomeScore, AwayScore: f.AwayScore})
		}
	}
	return out
}

func (t *Tournament) groupStageDone() bool {
	if len(t.Groups) == 0 {
		return false
	}
	for _, g := range t.Groups {
		for _, f := range g.Fixtures {
			if !f.Played {
				return false
			}
		}
	}
	return true
}
