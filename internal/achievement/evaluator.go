package achievement

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/arena/internal/apperr"
	"github.com/mauv0809/arena/internal/database"
)

// Evaluator checks a player's evidence against achievement definitions and
// persists the resulting progress.
type Evaluator struct {
	store Store
}

func NewEvaluator(store Store) *Evaluator {
	return &Evaluator{store: store}
}

// Definitions loads the active definitions once so a completion can
// evaluate every player against the same set.
func (e *Evaluator) Definitions(ctx context.Context, exec database.Executor) ([]Achievement, error) {
	return e.store.ListActive(ctx, exec)
}

// Evaluate runs every applicable definition for target. Already unlocked
// achievements are skipped. It returns the achievements unlocked by this
// call.
func (e *Evaluator) Evaluate(ctx context.Context, exec database.Executor, defs []Achievement, target Target, snap Snapshot, at time.Time) ([]UnlockEvent, error) {
	var unlocked []UnlockEvent
	for _, a := range defs {
		if !Applies(a, target, at) {
			continue
		}
		ua, err := e.store.GetUser(ctx, exec, target.UserID, a.ID)
		if errors.Is(err, apperr.ErrNotFound) {
			ua = NewUserAchievement(target.UserID, a.ID)
		} else if err != nil {
			return nil, err
		}
		if ua.Status == StatusUnlocked {
			continue
		}

		progress := CalculateProgress(a, snap)
		var changed bool
		if CheckRequirements(a.Requirements, snap) {
			changed = Unlock(ua, progress, PerformanceContext{
				MatchID:      target.MatchID,
				TournamentID: target.TournamentID,
				Snapshot:     snap,
			}, at)
			unlocked = append(unlocked, UnlockEvent{UserID: target.UserID, Achievement: a, At: at})
			log.Info("Achievement unlocked", "userID", target.UserID, "achievementID", a.ID, "name", a.Name)
		} else {
			changed = UpdateProgress(ua, progress, target.MatchID, at)
		}
		if !changed {
			continue
		}
		if err := e.store.UpsertUser(ctx, exec, ua); err != nil {
			return nil, err
		}
	}
	return unlocked, nil
}
