package bracket

import (
	"fmt"

	"github.com/mauv0809/arena/internal/apperr"
	"github.com/mauv0809/arena/internal/standings"
)

// DefaultGroupSize is used to derive a group count when none is configured.
const DefaultGroupSize = 4

// GroupName returns A, B, ... Z, then G27, G28 and so on.
func GroupName(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprintf("G%d", i+1)
}

// Groups spreads the draw order over count groups in snake order so that
// the strongest seeds end up in different groups. A count of zero derives
// one group per DefaultGroupSize teams.
func Groups(teams []string, count int) ([][]string, error) {
	if count <= 0 {
		count = (len(teams) + DefaultGroupSize - 1) / DefaultGroupSize
	}
	if count < 1 {
		count = 1
	}
	if len(teams) < 2*count {
		return nil, fmt.Errorf("%w: %d teams cannot fill %d groups of two", apperr.ErrInsufficientTeams, len(teams), count)
	}
	groups := make([][]string, count)
	for i, id := range teams {
		row, col := i/count, i%count
		if row%2 == 1 {
			col = count - 1 - col
		}
		groups[col] = append(groups[col], id)
	}
	return groups, nil
}

// RoundRobin returns one fixture for every pair of members.
func RoundRobin(members []string) []Fixture {
	var fixtures []Fixture
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			fixtures = append(fixtures, Fixture{Home: members[i], Away: members[j]})
		}
	}
	return fixtures
}

// SeedFromGroups promotes the top advance teams of each sorted group table
// into a knockout draw order. Qualifiers are ranked by finishing position,
// then by points, goal difference and goals scored. The ranking is folded
// so consecutive pairing meets best against worst, and same-group meetings
// in the first round are swapped away where possible.
func SeedFromGroups(tables []standings.Table, advance int) ([]string, error) {
	if advance <= 0 {
		advance = 2
	}
	var ranked []Qualifier
	for pos := 0; pos < advance; pos++ {
		var rows []standings.Row
		group := make(map[string]string)
		for _, tbl := range tables {
			if pos < len(tbl.Rows) {
				rows = append(rows, tbl.Rows[pos])
				group[tbl.Rows[pos].TeamID] = tbl.Name
			}
		}
		standings.Sort(rows)
		for _, r := range rows {
			ranked = append(ranked, Qualifier{TeamID: r.TeamID, Group: group[r.TeamID], Position: pos + 1})
		}
	}
	if len(ranked) < 2 {
		return nil, fmt.Errorf("%w: only %d qualifiers", apperr.ErrInsufficientTeams, len(ranked))
	}

	folded := make([]Qualifier, 0, len(ranked))
	for lo, hi := 0, len(ranked)-1; lo <= hi; lo, hi = lo+1, hi-1 {
		folded = append(folded, ranked[lo])
		if lo != hi {
			folded = append(folded, ranked[hi])
		}
	}
	separateGroups(folded)

	ids := make([]string, len(folded))
	for i, q := range folded {
		ids[i] = q.TeamID
	}
	return ids, nil
}

// separateGroups swaps the away side of a same-group first-round pairing
// with the away side of another pairing when that leaves both pairings
// between different groups.
func separateGroups(draw []Qualifier) {
	for i := 0; i+1 < len(draw); i += 2 {
		if draw[i].Group != draw[i+1].Group {
			continue
		}
		for j := 0; j+1 < len(draw); j += 2 {
			if j == i {
				continue
			}
			if draw[j].Group != draw[i+1].Group && draw[i].Group != draw[j+1].Group {
				draw[i+1], draw[j+1] = draw[j+1], draw[i+1]
				break
			}
		}
	}
}
