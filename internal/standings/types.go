package standings

// Row is one team's line in a group table.
type Row struct {
	TeamID       string `json:"teamId"`
	Played       int    `json:"played"`
	Won          int    `json:"won"`
	Drawn        int    `json:"drawn"`
	Lost         int    `json:"lost"`
	GoalsFor     int    `json:"goalsFor"`
	GoalsAgainst int    `json:"goalsAgainst"`
	Points       int    `json:"points"`
}

// GoalDifference returns goals for minus goals against.
func (r Row) GoalDifference() int {
	return r.GoalsFor - r.GoalsAgainst
}

// PointsTable is the number of points awarded per outcome.
type PointsTable struct {
	Win  int `json:"win"`
	Draw int `json:"draw"`
	Loss int `json:"loss"`
}

// DefaultPoints awards 3 for a win, 1 for a draw and nothing for a loss.
var DefaultPoints = PointsTable{Win: 3, Draw: 1, Loss: 0}

// Result is the final score of one group fixture.
type Result struct {
	Home      string `json:"home"`
	Away      string `json:"away"`
	HomeScore int    `json:"homeScore"`
	AwayScore int    `json:"awayScore"`
}

// Group is the input to a parallel rebuild: the member order fixes the
// insertion order used for unresolved ties.
type Group struct {
	Name    string
	Members []string
	Results []Result
}

// Table is a rebuilt, sorted group table.
type Table struct {
	Name string `json:"name"`
	Rows []Row  `json:"rows"`
}
