// Package session holds the per-identity workout session state and the
// advance-interval transition.
package session

import (
	"github.com/meutreino/skill/internal/models"
	"github.com/meutreino/skill/internal/plan"
)

// Status is the coarse lifecycle state of an identity's session. A completed
// workout is reported by the completing turn and then sits in the held slot.
type Status int

const (
	NoSession Status = iota
	Active
	Held
)

func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case Held:
		return "held"
	default:
		return "no_session"
	}
}

// State is the current position of one workout session.
type State struct {
	WorkoutID      string        `json:"workout_id"`
	WorkoutName    string        `json:"workout_name"`
	Description    string        `json:"description"`
	AuthorName     string        `json:"author_name"`
	Plan           plan.Plan     `json:"plan"`
	Position       plan.Position `json:"position"`
	SkipMotivation bool          `json:"skip_motivation"`
}

// New starts a session at the first set of p.
func New(w models.Workout, p plan.Plan) *State {
	return &State{
		WorkoutID:      w.ID,
		WorkoutName:    w.Name,
		Description:    w.Description,
		AuthorName:     w.AuthorFirstName(),
		Plan:           p,
		Position:       p.Start(),
		SkipMotivation: !w.Motivation,
	}
}

// ExerciseIndex returns the index of the current exercise.
func (s *State) ExerciseIndex() int { return s.Position.Exercise }

// CurrentSet returns the 1-based set number within the current exercise.
func (s *State) CurrentSet() int { return s.Position.Set }

// Current returns the set unit the user is on.
func (s *State) Current() plan.SetUnit {
	u, _ := s.Plan.Unit(s.Position)
	return u
}

// Valid reports whether the position satisfies the plan bounds.
func (s *State) Valid() bool {
	return s != nil && s.Plan.Valid(s.Position)
}

// Tuple returns the recovery tuple for the current position.
func (s *State) Tuple() RecoveryTuple {
	return RecoveryTuple{
		WorkoutID:      s.WorkoutID,
		SkipMotivation: s.SkipMotivation,
		ExerciseName:   s.Current().ExerciseName,
		Set:            s.Position.Set,
	}
}

// Clone returns a copy that shares the immutable plan.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// Step describes one advance-interval transition.
type Step struct {
	From plan.Position `json:"from"`
	// Rested is the exercise whose rest interval starts now. It is read
	// before moving so the last set of an exercise rests with that
	// exercise's interval, not the next one's.
	Rested plan.Exercise `json:"rested"`
	// Next is the unit the user does after resting. Zero when Completed.
	Next plan.SetUnit `json:"next"`
	// Completed is set when the final set of the final exercise was just
	// finished.
	Completed bool `json:"completed"`
}

// Advance computes the transition out of the current set. It does not
// modify s; Apply commits it.
func (s *State) Advance() Step {
	step := Step{
		From:   s.Position,
		Rested: s.Plan.Exercises[s.Position.Exercise],
	}
	next, ok := s.Plan.Next(s.Position)
	if !ok {
		step.Completed = true
		return step
	}
	step.Next, _ = s.Plan.Unit(next)
	return step
}

// Apply moves s to the position reached by step. A completed step leaves the
// position on the final set.
func (s *State) Apply(step Step) {
	if step.Completed {
		return
	}
	s.Position = plan.Position{Exercise: step.Next.ExerciseIndex, Set: step.Next.SetNumber}
}
