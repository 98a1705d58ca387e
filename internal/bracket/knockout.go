package bracket

import (
	"fmt"
	"sort"

	"github.com/mauv0809/arena/internal/apperr"
)

// RoundName derives a round label from the number of teams entering it.
func RoundName(participants int) string {
	switch participants {
	case 2:
		return "final"
	case 4:
		return "semi_final"
	case 8:
		return "quarter_final"
	case 16:
		return "round_of_16"
	case 32:
		return "round_of_32"
	}
	return fmt.Sprintf("round_of_%d", participants)
}

// Order sorts entrants for the draw: explicitly seeded teams first by seed,
// then the rest in registration order.
func Order(entrants []Entrant) []string {
	sorted := make([]Entrant, len(entrants))
	copy(sorted, entrants)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		switch {
		case a.Seed != nil && b.Seed != nil:
			if *a.Seed != *b.Seed {
				return *a.Seed < *b.Seed
			}
			return a.Order < b.Order
		case a.Seed != nil:
			return true
		case b.Seed != nil:
			return false
		}
		return a.Order < b.Order
	})
	ids := make([]string, len(sorted))
	for i, e := range sorted {
		ids[i] = e.TeamID
	}
	return ids
}

// Knockout builds every round for the given draw order. The first round pairs
// teams consecutively. Later rounds are pending slots fed by earlier
// pairings. An odd team out gets an explicit bye.
func Knockout(teams []string) ([]Round, error) {
	if len(teams) < 2 {
		return nil, fmt.Errorf("%w: knockout needs at least 2 teams, got %d", apperr.ErrInsufficientTeams, len(teams))
	}
	seen := make(map[string]bool, len(teams))
	for _, id := range teams {
		if id == "" {
			return nil, apperr.Validation("empty team id in draw")
		}
		if seen[id] {
			return nil, apperr.Validation("team %q drawn twice", id)
		}
		seen[id] = true
	}

	first := Round{Index: 0, Name: RoundName(len(teams)), Participants: append([]string(nil), teams...)}
	for i := 0; i < len(teams); i += 2 {
		p := Pairing{Index: len(first.Pairings), Home: Team(teams[i])}
		if i+1 < len(teams) {
			away := Team(teams[i+1])
			p.Away = &away
		} else {
			p.Bye = true
		}
		first.Pairings = append(first.Pairings, p)
	}
	rounds := []Round{first}

	for prev := rounds[0]; len(prev.Pairings) > 1; prev = rounds[len(rounds)-1] {
		slots := len(prev.Pairings)
		next := Round{Index: prev.Index + 1, Name: RoundName(slots), Participants: []string{}}
		for j := 0; j < slots; j += 2 {
			p := Pairing{Index: len(next.Pairings), Home: Pending(prev.Index, j)}
			if j+1 < slots {
				away := Pending(prev.Index, j+1)
				p.Away = &away
			} else {
				p.Bye = true
			}
			next.Pairings = append(next.Pairings, p)
		}
		rounds = append(rounds, next)
	}

	for i, p := range rounds[0].Pairings {
		if p.Bye {
			if _, err := resolveBye(rounds, Ref{Round: 0, Pairing: i}); err != nil {
				return nil, err
			}
		}
	}
	return rounds, nil
}

// Advance records winnerID as the winner of the referenced pairing and moves
// it into the next round. It returns the champion once the final is decided.
func Advance(rounds []Round, ref Ref, winnerID string) (string, error) {
	p, err := pairingAt(rounds, ref)
	if err != nil {
		return "", err
	}
	if p.Bye {
		return "", apperr.Validation("pairing %d in %s is a bye", ref.Pairing, rounds[ref.Round].Name)
	}
	if !p.Home.Resolved() || p.Away == nil || !p.Away.Resolved() {
		return "", apperr.Validation("pairing %d in %s is not ready", ref.Pairing, rounds[ref.Round].Name)
	}
	if winnerID != p.Home.TeamID && winnerID != p.Away.TeamID {
		return "", apperr.Validation("team %q is not part of pairing %d in %s", winnerID, ref.Pairing, rounds[ref.Round].Name)
	}
	if p.Decided() {
		if p.WinnerID == winnerID {
			return Champion(rounds), nil
		}
		return "", apperr.Validation("pairing %d in %s already won by %q", ref.Pairing, rounds[ref.Round].Name, p.WinnerID)
	}
	p.WinnerID = winnerID
	return promote(rounds, ref, winnerID)
}

// promote writes the winner of ref into the slot that waits on it.
func promote(rounds []Round, ref Ref, winnerID string) (string, error) {
	if ref.Round == len(rounds)-1 {
		return winnerID, nil
	}
	next := &rounds[ref.Round+1]
	target := ref.Pairing / 2
	if target >= len(next.Pairings) {
		return "", fmt.Errorf("bracket is inconsistent: no slot for %s pairing %d", rounds[ref.Round].Name, ref.Pairing)
	}
	p := &next.Pairings[target]
	if ref.Pairing%2 == 0 {
		p.Home = Team(winnerID)
	} else if p.Away != nil {
		away := Team(winnerID)
		p.Away = &away
	}
	next.Participants = append(next.Participants, winnerID)

	if p.Bye {
		return resolveBye(rounds, Ref{Round: ref.Round + 1, Pairing: target})
	}
	return "", nil
}

func resolveBye(rounds []Round, ref Ref) (string, error) {
	p := &rounds[ref.Round].Pairings[ref.Pairing]
	if !p.Home.Resolved() {
		return "", nil
	}
	p.WinnerID = p.Home.TeamID
	p.ViaBye = true
	return promote(rounds, ref, p.WinnerID)
}

func pairingAt(rounds []Round, ref Ref) (*Pairing, error) {
	if ref.Round < 0 || ref.Round >= len(rounds) {
		return nil, apperr.Validation("round %d does not exist", ref.Round)
	}
	r := &rounds[ref.Round]
	if ref.Pairing < 0 || ref.Pairing >= len(r.Pairings) {
		return nil, apperr.Validation("pairing %d does not exist in %s", ref.Pairing, r.Name)
	}
	return &r.Pairings[ref.Pairing], nil
}

// Playable lists pairings whose teams are both known and still need a result.
func Playable(rounds []Round) []Ref {
	var refs []Ref
	for _, r := range rounds {
		for _, p := range r.Pairings {
			if p.Playable() {
				refs = append(refs, Ref{Round: r.Index, Pairing: p.Index})
			}
		}
	}
	return refs
}

// Champion returns the winner of the final, or "" while it is undecided.
func Champion(rounds []Round) string {
	if len(rounds) == 0 {
		return ""
	}
	final := rounds[len(rounds)-1]
	if len(final.Pairings) != 1 {
		return ""
	}
	return final.Pairings[0].WinnerID
}
