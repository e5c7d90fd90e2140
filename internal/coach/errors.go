package coach

import (
	"errors"
	"fmt"

	"github.com/meutreino/skill/internal/catalog"
	"github.com/meutreino/skill/internal/plan"
	"github.com/meutreino/skill/internal/recovery"
	"github.com/meutreino/skill/internal/reminder"
)

// Kind is the user-facing classification of a failed turn.
type Kind string

const (
	NoActiveSession     Kind = "no_active_session"
	WorkoutNotFound     Kind = "workout_not_found"
	EmptyWorkout        Kind = "empty_workout"
	IdentityUnavailable Kind = "identity_unavailable"
	FetchFailed         Kind = "fetch_failed"
	InconsistentState   Kind = "inconsistent_state"
	NothingToResume     Kind = "nothing_to_resume"
	PermissionDenied    Kind = "permission_denied"
)

// Error is the only error type returned by controller operations.
type Error struct {
	Kind Kind
	Op   Operation
	// Workouts lists the valid workout names for WorkoutNotFound.
	Workouts []string
	// Subject is the workout the failure is about, if any.
	Subject string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of err, or "" if err did not come from a
// controller operation.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// classify maps a collaborator failure onto exactly one kind. Anything not
// recognised is an I/O failure the user can retry.
func classify(err error) Kind {
	switch {
	case errors.Is(err, recovery.ErrNoActiveSession):
		return NoActiveSession
	case errors.Is(err, recovery.ErrInconsistent):
		return InconsistentState
	case errors.Is(err, plan.ErrEmptyWorkout):
		return EmptyWorkout
	case errors.Is(err, catalog.ErrNoWorkouts):
		return WorkoutNotFound
	case errors.Is(err, reminder.ErrPermissionDenied):
		return PermissionDenied
	default:
		return FetchFailed
	}
}
