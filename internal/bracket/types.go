package bracket

// SlotKind tells whether a bracket slot already holds a team.
type SlotKind string

const (
	SlotPending SlotKind = "pending"
	SlotTeam    SlotKind = "team"
)

// Source points at the pairing whose winner fills a pending slot.
type Source struct {
	Round   int `json:"round"`
	Pairing int `json:"pairing"`
}

// Slot is either a known team or a placeholder waiting on an earlier result.
type Slot struct {
	Kind   SlotKind `json:"kind"`
	TeamID string   `json:"teamId,omitempty"`
	From   *Source  `json:"from,omitempty"`
}

// Team returns a resolved slot.
func Team(id string) Slot {
	return Slot{Kind: SlotTeam, TeamID: id}
}

// Pending returns a slot fed by the winner of the given pairing.
func Pending(round, pairing int) Slot {
	return Slot{Kind: SlotPending, From: &Source{Round: round, Pairing: pairing}}
}

// Resolved reports whether the slot holds a team.
func (s Slot) Resolved() bool {
	return s.Kind == SlotTeam && s.TeamID != ""
}

// Pairing is one knockout tie. A bye pairing has no away slot and is decided
// as soon as its home slot resolves.
type Pairing struct {
	Index    int    `json:"index"`
	Home     Slot   `json:"home"`
	Away     *Slot  `json:"away,omitempty"`
	Bye      bool   `json:"bye,omitempty"`
	WinnerID string `json:"winnerId,omitempty"`
	ViaBye   bool   `json:"viaBye,omitempty"`
	MatchID  string `json:"matchId,omitempty"`
}

// Decided reports whether the pairing has a winner.
func (p Pairing) Decided() bool {
	return p.WinnerID != ""
}

// Playable reports whether both teams are known and no result exists yet.
func (p Pairing) Playable() bool {
	return !p.Bye && !p.Decided() && p.Home.Resolved() && p.Away != nil && p.Away.Resolved()
}

// Round is one knockout stage with its participant snapshot.
type Round struct {
	Index        int       `json:"index"`
	Name         string    `json:"name"`
	Pairings     []Pairing `json:"pairings"`
	Participants []string  `json:"participants"`
}

// Ref addresses a pairing inside a bracket.
type Ref struct {
	Round   int `json:"round"`
	Pairing int `json:"pairing"`
}

// Entrant is a confirmed team with its registration position and optional seed.
type Entrant struct {
	TeamID string
	Order  int
	Seed   *int
}

// Fixture is one round-robin meeting.
type Fixture struct {
	Home string `json:"home"`
	Away string `json:"away"`
}

// Qualifier is a team promoted out of a group stage.
type Qualifier struct {
	TeamID   string
	Group    string
	Position int
}
