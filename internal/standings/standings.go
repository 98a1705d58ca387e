package standings

import (
	"context"
	"sort"

	"github.com/mauv0809/arena/internal/apperr"
	"golang.org/x/sync/errgroup"
)

// Apply folds a single result into rows and returns the updated table. The
// input slice is not modified. Teams missing from rows are appended.
func Apply(rows []Row, res Result, pts PointsTable) ([]Row, error) {
	if res.Home == "" || res.Away == "" {
		return nil, apperr.Validation("result needs both teams")
	}
	if res.Home == res.Away {
		return nil, apperr.Validation("team %q cannot play itself", res.Home)
	}
	if res.HomeScore < 0 || res.AwayScore < 0 {
		return nil, apperr.Validation("scores must not be negative")
	}

	out := make([]Row, len(rows))
	copy(out, rows)

	home := indexOf(out, res.Home)
	if home < 0 {
		out = append(out, Row{TeamID: res.Home})
		home = len(out) - 1
	}
	away := indexOf(out, res.Away)
	if away < 0 {
		out = append(out, Row{TeamID: res.Away})
		away = len(out) - 1
	}

	out[home] = credit(out[home], res.HomeScore, res.AwayScore, pts)
	out[away] = credit(out[away], res.AwayScore, res.HomeScore, pts)
	return out, nil
}

func credit(r Row, scored, conceded int, pts PointsTable) Row {
	r.Played++
	r.GoalsFor += scored
	r.GoalsAgainst += conceded
	switch {
	case scored > conceded:
		r.Won++
		r.Points += pts.Win
	case scored < conceded:
		r.Lost++
		r.Points += pts.Loss
	default:
		r.Drawn++
		r.Points += pts.Draw
	}
	return r
}

func indexOf(rows []Row, teamID string) int {
	for i, r := range rows {
		if r.TeamID == teamID {
			return i
		}
	}
	return -1
}

// Sort orders rows by points, then goal difference, then goals scored, all
// descending. Remaining ties keep their current order.
func Sort(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference() != b.GoalDifference() {
			return a.GoalDifference() > b.GoalDifference()
		}
		return a.GoalsFor > b.GoalsFor
	})
}

// Aggregate sums each team's counters across groups and returns a sorted
// overall table. Teams are first ordered by first appearance.
func Aggregate(groups [][]Row) []Row {
	var out []Row
	pos := make(map[string]int)
	for _, g := range groups {
		for _, r := range g {
			i, ok := pos[r.TeamID]
			if !ok {
				pos[r.TeamID] = len(out)
				out = append(out, Row{TeamID: r.TeamID})
				i = len(out) - 1
			}
			acc := &out[i]
			acc.Played += r.Played
			acc.Won += r.Won
			acc.Drawn += r.Drawn
			acc.Lost += r.Lost
			acc.GoalsFor += r.GoalsFor
			acc.GoalsAgainst += r.GoalsAgainst
			acc.Points += r.Points
		}
	}
	Sort(out)
	return out
}

// Rebuild computes a group table from scratch. Every member gets a row even
// if it has not played yet.
func Rebuild(members []string, results []Result, pts PointsTable) ([]Row, error) {
	rows := make([]Row, 0, len(members))
	for _, m := range members {
		rows = append(rows, Row{TeamID: m})
	}
	var err error
	for _, res := range results {
		rows, err = Apply(rows, res, pts)
		if err != nil {
			return nil, err
		}
	}
	Sort(rows)
	return rows, nil
}

// RebuildAll rebuilds every group concurrently. The output keeps the order
// of groups.
func RebuildAll(ctx context.Context, groups []Group, pts PointsTable) ([]Table, error) {
	tables := make([]Table, len(groups))
	g, ctx := errgroup.WithContext(ctx)
	for i, grp := range groups {
		i, grp := i, grp
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows, err := Rebuild(grp.Members, grp.Results, pts)
			if err != nil {
				return err
			}
			tables[i] = Table{Name: grp.Name, Rows: rows}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}
