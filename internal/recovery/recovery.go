// Package recovery rebuilds a session from the persisted recovery tuple and
// a fresh catalog fetch when the in-memory state was lost between turns.
package recovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/meutreino/skill/internal/catalog"
	"github.com/meutreino/skill/internal/models"
	"github.com/meutreino/skill/internal/plan"
	"github.com/meutreino/skill/internal/session"
	"github.com/meutreino/skill/internal/statelist"
)

var (
	// ErrNoActiveSession is returned when nothing is persisted for the user.
	ErrNoActiveSession = errors.New("no workout in progress")
	// ErrInconsistent is returned when the persisted tuple cannot be placed
	// in the current workout definition.
	ErrInconsistent = errors.New("persisted session does not match workout definition")
)

// Catalog fetches workout definitions.
type Catalog interface {
	Workouts(ctx context.Context, email, workoutID string) ([]models.Workout, error)
}

// TupleReader reads the persisted tuple.
type TupleReader interface {
	Read(ctx context.Context, owner string) (session.RecoveryTuple, bool, error)
}

// Engine rebuilds sessions. It keeps no state of its own, so running it
// twice for the same stored tuple and definition yields equal sessions.
type Engine struct {
	tuples  TupleReader
	catalog Catalog
	log     *slog.Logger
}

// New creates a recovery engine.
func New(tuples TupleReader, c Catalog, log *slog.Logger) *Engine {
	return &Engine{tuples: tuples, catalog: c, log: log}
}

// Recover returns the session persisted for owner, whose catalog identity is
// email.
func (e *Engine) Recover(ctx context.Context, owner, email string) (*session.State, error) {
	t, ok, err := e.tuples.Read(ctx, owner)
	if errors.Is(err, statelist.ErrIncomplete) {
		return nil, fmt.Errorf("%w: %w", ErrInconsistent, err)
	}
	if err != nil {
		return nil, fmt.Errorf("reading state list: %w", err)
	}
	if !ok {
		return nil, ErrNoActiveSession
	}

	workouts, err := e.catalog.Workouts(ctx, email, t.WorkoutID)
	if errors.Is(err, catalog.ErrNoWorkouts) {
		return nil, fmt.Errorf("%w: workout %s no longer exists", ErrInconsistent, t.WorkoutID)
	}
	if err != nil {
		return nil, fmt.Errorf("refetching workout %s: %w", t.WorkoutID, err)
	}
	w, ok := pick(workouts, t.WorkoutID)
	if !ok {
		return nil, fmt.Errorf("%w: workout %s not returned by catalog", ErrInconsistent, t.WorkoutID)
	}

	p, err := plan.Build(w)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInconsistent, err)
	}

	idx := p.IndexOf(t.ExerciseName)
	if idx < 0 {
		return nil, fmt.Errorf("%w: exercise %q not in workout %s", ErrInconsistent, t.ExerciseName, t.WorkoutID)
	}
	pos := plan.Position{Exercise: idx, Set: t.Set}
	if !p.Valid(pos) {
		return nil, fmt.Errorf("%w: set %d of %q exceeds %d sets", ErrInconsistent, t.Set, t.ExerciseName, p.Exercises[idx].TotalSets)
	}

	s := session.New(w, p)
	s.Position = pos
	s.SkipMotivation = t.SkipMotivation

	e.log.Info("session recovered from state list",
		"user", owner, "workout", t.WorkoutID, "exercise", t.ExerciseName, "set", t.Set)
	return s, nil
}

func pick(workouts []models.Workout, id string) (models.Workout, bool) {
	for _, w := range workouts {
		if w.ID == id {
			return w, true
		}
	}
	return models.Workout{}, false
}
