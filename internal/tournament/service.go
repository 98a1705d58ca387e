package tournament

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/arena/internal/apperr"
	"github.com/mauv0809/arena/internal/database"
	"github.com/mauv0809/arena/internal/live"
	"github.com/mauv0809/arena/internal/match"
	"github.com/mauv0809/arena/internal/metrics"
	"github.com/mauv0809/arena/internal/pubsub"
	"github.com/mauv0809/arena/internal/standings"
)

// errUnchanged aborts an update without saving and without error.
var errUnchanged = errors.New("tournament unchanged")

// Service runs tournament operations as read, apply, compare-and-swap
// cycles and schedules the matches the brackets call for.
type Service struct {
	db        *sql.DB
	store     Store
	matches   match.Store
	publisher pubsub.PubSubClient
	live      match.Broadcaster
	metrics   metrics.Metrics
	points    standings.PointsTable
	now       func() time.Time
}

// NewService creates a tournament Service. points is used when a tournament
// is created without its own points table.
func NewService(db *sql.DB, store Store, matches match.Store, publisher pubsub.PubSubClient, live match.Broadcaster, m metrics.Metrics, points standings.PointsTable) *Service {
	return &Service{
		db:        db,
		store:     store,
		matches:   matches,
		publisher: publisher,
		live:      live,
		metrics:   m,
		points:    points,
		now:       time.Now,
	}
}

// WithClock replaces the service clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Create(ctx context.Context, in NewTournament) (*Tournament, error) {
	t, err := New(in, s.points, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, nil, &t); err != nil {
		return nil, err
	}
	log.Info("Created tournament", "tournamentID", t.ID, "name", t.Name, "format", t.Format)
	s.Announce(&t, "created")
	return &t, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Tournament, error) {
	return s.store.Get(ctx, nil, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]*Tournament, error) {
	return s.store.List(ctx, f)
}

func (s *Service) RegisterTeam(ctx context.Context, id, teamID string, seed *int) (*Tournament, error) {
	t, err := s.update(ctx, id, "team_registered", func(_ *sql.Tx, t *Tournament, now time.Time) error {
		return RegisterTeam(t, teamID, seed, now)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncTeamRegistrations()
	log.Info("Registered team", "tournamentID", id, "teamID", teamID)
	return t, nil
}

func (s *Service) WithdrawTeam(ctx context.Context, id, teamID string) (*Tournament, error) {
	return s.update(ctx, id, "team_withdrawn", func(_ *sql.Tx, t *Tournament, now time.Time) error {
		return WithdrawTeam(t, teamID, now)
	})
}

func (s *Service) ConfirmTeam(ctx context.Context, id, teamID string) (*Tournament, error) {
	return s.update(ctx, id, "team_confirmed", func(_ *sql.Tx, t *Tournament, now time.Time) error {
		return ConfirmTeam(t, teamID, now)
	})
}

// TransitionStatus moves the tournament to a new status. Cancelling a
// tournament also cancels its scheduled matches.
func (s *Service) TransitionStatus(ctx context.Context, id string, to Status) (*Tournament, error) {
	return s.update(ctx, id, "status_"+string(to), func(tx *sql.Tx, t *Tournament, now time.Time) error {
		if err := TransitionStatus(t, to, now); err != nil {
			return err
		}
		if to != StatusCancelled {
			return nil
		}
		ms, err := s.matches.ListByTournament(ctx, tx, t.ID)
		if err != nil {
			return err
		}
		for _, m := range ms {
			if m.Status != match.StatusScheduled {
				continue
			}
			if err := match.Cancel(m, now); err != nil {
				return err
			}
			if err := s.matches.Save(ctx, tx, m); err != nil {
				return err
			}
			log.Debug("Cancelled match of cancelled tournament", "tournamentID", t.ID, "matchID", m.ID)
		}
		return nil
	})
}

// CancelMatch ends a match without a result.
func (s *Service) CancelMatch(ctx context.Context, matchID string) (*match.Match, error) {
	return s.endMatch(ctx, matchID, "match_cancelled", match.Cancel)
}

// PostponeMatch ends a match without a result so it can be replayed.
func (s *Service) PostponeMatch(ctx context.Context, matchID string) (*match.Match, error) {
	return s.endMatch(ctx, matchID, "match_postponed", match.Postpone)
}

// endMatch applies end to the match. A tournament match is released from
// its fixture in the same transaction and a replay is scheduled in its
// place.
func (s *Service) endMatch(ctx context.Context, matchID, kind string, end func(*match.Match, time.Time) error) (*match.Match, error) {
	var (
		m *match.Match
		t *Tournament
	)
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		m, err = s.matches.Get(ctx, tx, matchID)
		if err != nil {
			return err
		}
		now := s.now().UTC()
		if err := end(m, now); err != nil {
			return err
		}
		if err := s.matches.Save(ctx, tx, m); err != nil {
			return err
		}
		if m.TournamentID == "" || m.Round == nil {
			return nil
		}
		t, err = s.store.Get(ctx, tx, m.TournamentID)
		if err != nil {
			return err
		}
		if t.Status.Terminal() || !DetachMatch(t, *m.Round, m.ID) {
			t = nil
			return nil
		}
		t.UpdatedAt = now
		if err := s.schedule(ctx, tx, t, now); err != nil {
			return err
		}
		return s.store.Save(ctx, tx, t)
	})
	if err != nil {
		if errors.Is(err, apperr.ErrConcurrencyConflict) {
			s.metrics.IncConcurrencyConflicts()
			log.Warn("Match changed concurrently", "matchID", matchID, "operation", kind)
		}
		return nil, err
	}
	log.Info("Ended match", "matchID", m.ID, "status", m.Status)
	s.live.BroadcastToRoom(live.MatchRoom(m.ID), kind, m)
	if t != nil {
		s.Announce(t, "match_rescheduled")
	}
	return m, nil
}

// GenerateBrackets builds the brackets and schedules their first matches.
// Regenerating before play starts cancels the matches scheduled for the
// previous draw.
func (s *Service) GenerateBrackets(ctx context.Context, id string) (*Tournament, error) {
	return s.update(ctx, id, "brackets_generated", func(tx *sql.Tx, t *Tournament, now time.Time) error {
		existing, err := s.matches.ListByTournament(ctx, tx, t.ID)
		if err != nil {
			return err
		}
		started := false
		for _, m := range existing {
			if m.Status == match.StatusInProgress || m.Status == match.StatusCompleted {
				started = true
			}
		}
		regenerated, err := GenerateBrackets(t, started, now)
		if err != nil {
			return err
		}
		if !regenerated {
			log.Info("Brackets already in play, leaving them untouched", "tournamentID", t.ID)
			return errUnchanged
		}
		for _, m := range existing {
			if m.Status != match.StatusScheduled {
				continue
			}
			if err := match.Cancel(m, now); err != nil {
				return err
			}
			if err := s.matches.Save(ctx, tx, m); err != nil {
				return err
			}
		}
		return nil
	})
}

// Standings rebuilds every group table in parallel and aggregates them.
func (s *Service) Standings(ctx context.Context, id string) (*StandingsView, error) {
	t, err := s.store.Get(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	groups := make([]standings.Group, len(t.Groups))
	for i, g := range t.Groups {
		groups[i] = standings.Group{Name: g.Name, Members: g.Members, Results: g.Results()}
	}
	tables, err := standings.RebuildAll(ctx, groups, t.Points)
	if err != nil {
		return nil, err
	}
	rows := make([][]standings.Row, len(tables))
	for i, tbl := range tables {
		rows[i] = tbl.Rows
	}
	return &StandingsView{TournamentID: t.ID, Groups: tables, Overall: standings.Aggregate(rows)}, nil
}

// RecordResult feeds a completed match into its tournament within the
// caller's transaction and schedules any matches it unlocks. It returns nil
// for matches outside a tournament and for tournaments that are already
// completed or cancelled.
func (s *Service) RecordResult(ctx context.Context, exec database.Executor, m *match.Match) (*Tournament, error) {
	if m.TournamentID == "" || m.Round == nil {
		return nil, nil
	}
	t, err := s.store.Get(ctx, exec, m.TournamentID)
	if err != nil {
		return nil, err
	}
	if t.Status.Terminal() {
		log.Info("Tournament is closed, result not recorded", "tournamentID", t.ID, "status", t.Status, "matchID", m.ID)
		return nil, nil
	}
	now := s.now().UTC()
	err = RecordResult(t, Outcome{
		MatchID:   m.ID,
		Ref:       *m.Round,
		Home:      m.Home.ID(),
		Away:      m.Away.ID(),
		HomeScore: m.HomeScore,
		AwayScore: m.AwayScore,
		WinnerID:  m.WinnerID(),
	}, now)
	if err != nil {
		return nil, err
	}
	if err := s.schedule(ctx, exec, t, now); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, exec, t); err != nil {
		return nil, err
	}
	log.Info("Recorded tournament result", "tournamentID", t.ID, "matchID", m.ID, "championID", t.ChampionID)
	return t, nil
}

// AdvanceLifecycle moves tournaments along with the calendar: upcoming or
// open tournaments with brackets start on their start date, running ones
// complete after their end date once every match is finished. It returns
// how many tournaments changed.
func (s *Service) AdvanceLifecycle(ctx context.Context, now time.Time) (int, error) {
	due, err := s.store.ListDue(ctx, now)
	if err != nil {
		return 0, err
	}
	changed := 0
	for _, d := range due {
		before := d.Status
		t, err := s.update(ctx, d.ID, "lifecycle", func(tx *sql.Tx, t *Tournament, at time.Time) error {
			switch t.Status {
			case StatusUpcoming, StatusRegistration:
				if now.Before(t.StartDate) || !t.HasBrackets() {
					return errUnchanged
				}
				return TransitionStatus(t, StatusInProgress, at)
			case StatusInProgress:
				if now.Before(t.EndDate) {
					return errUnchanged
				}
				ms, err := s.matches.ListByTournament(ctx, tx, t.ID)
				if err != nil {
					return err
				}
				for _, m := range ms {
					if !m.Status.Terminal() {
						return errUnchanged
					}
				}
				return TransitionStatus(t, StatusCompleted, at)
			}
			return errUnchanged
		})
		if err != nil {
			log.Error("Failed to advance tournament", "tournamentID", d.ID, "error", err)
			continue
		}
		if t.Status != before {
			log.Info("Advanced tournament", "tournamentID", t.ID, "from", before, "to", t.Status)
			changed++
		}
	}
	return changed, nil
}

// Announce publishes the new tournament state and pushes it to live
// subscribers. Publishing failures are logged.
func (s *Service) Announce(t *Tournament, reason string) {
	err := s.publisher.SendMessage(pubsub.EventTournamentUpdated, pubsub.TournamentUpdated{
		TournamentID: t.ID,
		Status:       string(t.Status),
		Version:      t.Version,
		ChampionID:   t.ChampionID,
		Reason:       reason,
	})
	if err != nil {
		log.Error("Failed to publish tournament update", "tournamentID", t.ID, "error", err)
	}
	s.live.BroadcastToRoom(live.TournamentRoom(t.ID), reason, t)
}

// schedule creates a match for every fixture that is ready to be played.
func (s *Service) schedule(ctx context.Context, exec database.Executor, t *Tournament, now time.Time) error {
	if t.Status.Terminal() {
		return nil
	}
	for _, fx := range Unscheduled(t) {
		ref := fx.Ref
		start := t.StartDate
		m, err := match.Create(match.NewMatch{
			TournamentID: t.ID,
			Round:        &ref,
			ClubID:       t.ClubID,
			Sport:        t.Sport,
			Home:         match.Participant{TeamID: fx.Home},
			Away:         match.Participant{TeamID: fx.Away},
			ScheduledAt:  &start,
		}, now)
		if err != nil {
			return err
		}
		if err := s.matches.Create(ctx, exec, &m); err != nil {
			return err
		}
		if err := AttachMatch(t, ref, m.ID); err != nil {
			return err
		}
		log.Debug("Scheduled tournament match", "tournamentID", t.ID, "matchID", m.ID, "stage", ref.Stage)
	}
	return nil
}

// update loads the tournament inside a transaction, applies fn, schedules
// new matches and saves with a version check. A conflict is returned to
// the caller.
func (s *Service) update(ctx context.Context, id, reason string, fn func(tx *sql.Tx, t *Tournament, now time.Time) error) (*Tournament, error) {
	var (
		out       *Tournament
		unchanged bool
	)
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		t, err := s.store.Get(ctx, tx, id)
		if err != nil {
			return err
		}
		out = t
		now := s.now().UTC()
		if err := fn(tx, t, now); err != nil {
			return err
		}
		if err := s.schedule(ctx, tx, t, now); err != nil {
			return err
		}
		return s.store.Save(ctx, tx, t)
	})
	if errors.Is(err, errUnchanged) {
		unchanged = true
		err = nil
	}
	if err != nil {
		if errors.Is(err, apperr.ErrConcurrencyConflict) {
			s.metrics.IncConcurrencyConflicts()
			log.Warn("Tournament changed concurrently", "tournamentID", id, "operation", reason)
		}
		return nil, err
	}
	if !unchanged {
		log.Debug("Tournament updated", "tournamentID", id, "operation", reason, "version", out.Version)
		s.Announce(out, reason)
	}
	return out, nil
}
