package match

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mauv0809/arena/internal/apperr"
)

var transitions = map[Status][]Status{
	StatusScheduled:  {StatusInProgress, StatusCancelled, StatusPostponed},
	StatusInProgress: {StatusCompleted, StatusCancelled, StatusPostponed},
}

// CanTransition reports whether from -> to is an allowed edge.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Create validates input and returns a scheduled match.
func Create(in NewMatch, now time.Time) (Match, error) {
	if in.Sport == "" {
		return Match{}, apperr.Validation("sport is required")
	}
	if in.Home.ID() == "" || in.Away.ID() == "" {
		return Match{}, apperr.Validation("home and away are required")
	}
	if (in.Home.TeamID == "") != (in.Away.TeamID == "") {
		return Match{}, apperr.Validation("home and away must both be teams or both be players")
	}
	if in.Home.ID() == in.Away.ID() {
		return Match{}, apperr.Validation("%q cannot play itself", in.Home.ID())
	}
	return Match{
		ID:           uuid.NewString(),
		TournamentID: in.TournamentID,
		Round:        in.Round,
		ClubID:       in.ClubID,
		Sport:        in.Sport,
		Status:       StatusScheduled,
		Home:         in.Home,
		Away:         in.Away,
		PlayerStats:  []PlayerStat{},
		Highlights:   []Highlight{},
		ScheduledAt:  in.ScheduledAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func transition(m *Match, to Status, now time.Time) error {
	if !CanTransition(m.Status, to) {
		return apperr.Transition("match", m.Status, to)
	}
	m.Status = to
	m.UpdatedAt = now
	return nil
}

// Start moves a scheduled match to in_progress.
func Start(m *Match, now time.Time) error {
	if err := transition(m, StatusInProgress, now); err != nil {
		return err
	}
	m.StartedAt = &now
	return nil
}

// Cancel ends a match without a result.
func Cancel(m *Match, now time.Time) error {
	return transition(m, StatusCancelled, now)
}

// Postpone ends a match without a result; a replay is a new match.
func Postpone(m *Match, now time.Time) error {
	return transition(m, StatusPostponed, now)
}

func requireLive(m *Match) error {
	if m.Status != StatusInProgress {
		return fmt.Errorf("%w: match %s is %s", apperr.ErrMatchNotLive, m.ID, m.Status)
	}
	return nil
}

func validateActor(side Side, playerID string, minute int) error {
	if !side.Valid() {
		return apperr.Validation("side must be home or away")
	}
	if playerID == "" {
		return apperr.Validation("playerId is required")
	}
	if minute < 0 {
		return apperr.Validation("minute must not be negative")
	}
	return nil
}

// stat returns the player's line for side, creating an empty one if needed.
func stat(m *Match, side Side, playerID string) *PlayerStat {
	for i := range m.PlayerStats {
		if m.PlayerStats[i].PlayerID == playerID && m.PlayerStats[i].Side == side {
			return &m.PlayerStats[i]
		}
	}
	m.PlayerStats = append(m.PlayerStats, PlayerStat{PlayerID: playerID, Side: side})
	return &m.PlayerStats[len(m.PlayerStats)-1]
}

func record(m *Match, h Highlight, now time.Time) {
	h.ID = uuid.NewString()
	h.At = now
	m.Highlights = append(m.Highlights, h)
	m.UpdatedAt = now
}

// ApplyGoal adds a goal for side, credits the scorer and the optional
// assisting player, and logs a highlight.
func ApplyGoal(m *Match, side Side, playerID, assistID string, minute int, now time.Time) error {
	if err := requireLive(m); err != nil {
		return err
	}
	if err := validateActor(side, playerID, minute); err != nil {
		return err
	}
	if assistID == playerID {
		return apperr.Validation("a player cannot assist their own goal")
	}
	if side == SideHome {
		m.HomeScore++
	} else {
		m.AwayScore++
	}
	stat(m, side, playerID).Goals++
	if assistID != "" {
		stat(m, side, assistID).Assists++
	}
	record(m, Highlight{Type: HighlightGoal, Minute: minute, Side: side, PlayerID: playerID, AssistID: assistID}, now)
	return nil
}

// ApplyCard books a player and logs a highlight.
func ApplyCard(m *Match, side Side, playerID string, minute int, card CardType, now time.Time) error {
	if err := requireLive(m); err != nil {
		return err
	}
	if err := validateActor(side, playerID, minute); err != nil {
		return err
	}
	var kind HighlightType
	switch card {
	case CardYellow:
		stat(m, side, playerID).YellowCards++
		kind = HighlightYellowCard
	case CardRed:
		stat(m, side, playerID).RedCards++
		kind = HighlightRedCard
	default:
		return apperr.Validation("card must be yellow or red")
	}
	record(m, Highlight{Type: kind, Minute: minute, Side: side, PlayerID: playerID}, now)
	return nil
}

// ApplyFoul counts a foul against a player and logs a highlight.
func ApplyFoul(m *Match, side Side, playerID string, minute int, now time.Time) error {
	if err := requireLive(m); err != nil {
		return err
	}
	if err := validateActor(side, playerID, minute); err != nil {
		return err
	}
	stat(m, side, playerID).Fouls++
	record(m, Highlight{Type: HighlightFoul, Minute: minute, Side: side, PlayerID: playerID}, now)
	return nil
}

// ApplySubstitution only logs a highlight; no counters change.
func ApplySubstitution(m *Match, side Side, playerOut, playerIn string, minute int, now time.Time) error {
	if err := requireLive(m); err != nil {
		return err
	}
	if err := validateActor(side, playerOut, minute); err != nil {
		return err
	}
	if playerIn == "" {
		return apperr.Validation("playerInId is required")
	}
	if playerIn == playerOut {
		return apperr.Validation("a player cannot replace themselves")
	}
	record(m, Highlight{Type: HighlightSubstitution, Minute: minute, Side: side, PlayerID: playerOut, PlayerInID: playerIn}, now)
	return nil
}

// ApplyEvent dispatches a live event request to the matching operation.
func ApplyEvent(m *Match, ev Event, now time.Time) error {
	switch ev.Type {
	case EventGoal:
		return ApplyGoal(m, ev.Side, ev.PlayerID, ev.AssistID, ev.Minute, now)
	case EventCard:
		return ApplyCard(m, ev.Side, ev.PlayerID, ev.Minute, ev.Card, now)
	case EventFoul:
		return ApplyFoul(m, ev.Side, ev.PlayerID, ev.Minute, now)
	case EventSubstitution:
		return ApplySubstitution(m, ev.Side, ev.PlayerID, ev.PlayerInID, ev.Minute, now)
	}
	if err := requireLive(m); err != nil {
		return err
	}
	return apperr.Validation("unknown event type %q", ev.Type)
}

// SetPlayerStat overwrites the given fields of a player's line while the
// match is live.
func SetPlayerStat(m *Match, up StatUpdate, now time.Time) error {
	if err := requireLive(m); err != nil {
		return err
	}
	if err := validateActor(up.Side, up.PlayerID, 0); err != nil {
		return err
	}
	for _, v := range []*int{up.Saves, up.Tackles, up.Passes, up.PassesCompleted, up.MinutesPlayed} {
		if v != nil && *v < 0 {
			return apperr.Validation("stat values must not be negative")
		}
	}
	if up.Rating != nil && (*up.Rating < 0 || *up.Rating > 10) {
		return apperr.Validation("rating must be between 0 and 10")
	}
	s := stat(m, up.Side, up.PlayerID)
	if up.Passes != nil || up.PassesCompleted != nil {
		passes, completed := s.Passes, s.PassesCompleted
		if up.Passes != nil {
			passes = *up.Passes
		}
		if up.PassesCompleted != nil {
			completed = *up.PassesCompleted
		}
		if completed > passes {
			return apperr.Validation("completed passes cannot exceed passes")
		}
		s.Passes, s.PassesCompleted = passes, completed
	}
	if up.Position != nil {
		s.Position = *up.Position
	}
	if up.Saves != nil {
		s.Saves = *up.Saves
	}
	if up.Tackles != nil {
		s.Tackles = *up.Tackles
	}
	if up.MinutesPlayed != nil {
		s.MinutesPlayed = *up.MinutesPlayed
	}
	if up.Rating != nil {
		s.Rating = *up.Rating
	}
	m.UpdatedAt = now
	return nil
}

// Complete sets the final score and marks the match completed. The winner
// follows the score; on a level score the optional tiebreak side decides.
// Completing an already completed match changes nothing and reports true.
func Complete(m *Match, homeScore, awayScore int, tiebreak Side, now time.Time) (bool, error) {
	if m.Status == StatusCompleted {
		return true, nil
	}
	if err := requireLive(m); err != nil {
		return false, err
	}
	if homeScore < 0 || awayScore < 0 {
		return false, apperr.Validation("scores must not be negative")
	}
	if tiebreak != "" && !tiebreak.Valid() {
		return false, apperr.Validation("winner must be home or away")
	}
	m.HomeScore, m.AwayScore = homeScore, awayScore
	switch {
	case homeScore > awayScore:
		m.Winner = SideHome
	case awayScore > homeScore:
		m.Winner = SideAway
	default:
		m.Winner = tiebreak
	}
	if err := transition(m, StatusCompleted, now); err != nil {
		return false, err
	}
	m.CompletedAt = &now
	return false, nil
}
