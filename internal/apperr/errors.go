package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation            = errors.New("validation error")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrMatchNotLive          = errors.New("match is not live")
	ErrRegistrationClosed    = errors.New("registration is closed")
	ErrTournamentFull        = errors.New("tournament is full")
	ErrDuplicateRegistration = errors.New("team is already registered")
	ErrNotRegistered         = errors.New("team is not registered")
	ErrInsufficientTeams     = errors.New("not enough confirmed teams")
	ErrNotFound              = errors.New("not found")
	ErrConcurrencyConflict   = errors.New("concurrent modification")
)

// Validation wraps ErrValidation with a formatted reason.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound wraps ErrNotFound with the kind and id of the missing entity.
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

// Transition wraps ErrInvalidTransition with the rejected edge.
func Transition(kind string, from, to any) error {
	return fmt.Errorf("%w: %s %v -> %v", ErrInvalidTransition, kind, from, to)
}

// Code returns a stable machine-readable code for err, or "internal" when err
// is not one of the sentinel errors.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrMatchNotLive):
		return "match_not_live"
	case errors.Is(err, ErrRegistrationClosed):
		return "registration_closed"
	case errors.Is(err, ErrTournamentFull):
		return "tournament_full"
	case errors.Is(err, ErrDuplicateRegistration):
		return "duplicate_registration"
	case errors.Is(err, ErrNotRegistered):
		return "not_registered"
	case errors.Is(err, ErrInsufficientTeams):
		return "insufficient_teams"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConcurrencyConflict):
		return "concurrency_conflict"
	}
	return "internal"
}

// IsBusinessRule reports whether err is a rule violation the caller should
// see verbatim and not retry.
func IsBusinessRule(err error) bool {
	for _, target := range []error{
		ErrInvalidTransition, ErrMatchNotLive, ErrRegistrationClosed, ErrTournamentFull,
		ErrDuplicateRegistration, ErrNotRegistered, ErrInsufficientTeams,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
