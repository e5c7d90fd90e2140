package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meutreino/skill/internal/models"
	"github.com/meutreino/skill/internal/plan"
)

func newState(t *testing.T, w models.Workout) *State {
	t.Helper()
	p, err := plan.Build(w)
	require.NoError(t, err)
	return New(w, p)
}

func twoExercises() models.Workout {
	return models.Workout{
		ID:          "7",
		Name:        "B",
		Description: "Treino B",
		AuthorName:  "Maria Silva",
		Motivation:  true,
		Exercises: []models.Exercise{
			{Name: "E1", Reps: "10", Series: "2", Interval: "60"},
			{Name: "E2", Reps: "8", Series: "1", Interval: "45"},
		},
	}
}

func TestNewStartsAtFirstSet(t *testing.T) {
	s := newState(t, twoExercises())

	assert.Equal(t, 0, s.ExerciseIndex())
	assert.Equal(t, 1, s.CurrentSet())
	assert.False(t, s.SkipMotivation)
	assert.Equal(t, "Maria", s.AuthorName)
	assert.Equal(t, RecoveryTuple{WorkoutID: "7", ExerciseName: "E1", Set: 1}, s.Tuple())
}

func TestAdvanceSequence(t *testing.T) {
	s := newState(t, twoExercises())

	var completions []bool
	var positions []plan.Position
	for i := 0; i < 3; i++ {
		step := s.Advance()
		completions = append(completions, step.Completed)
		s.Apply(step)
		positions = append(positions, s.Position)
	}

	assert.Equal(t, []bool{false, false, true}, completions)
	assert.Equal(t, []plan.Position{{Exercise: 0, Set: 2}, {Exercise: 1, Set: 1}, {Exercise: 1, Set: 1}}, positions)
}

func TestAdvanceRestsWithFinishedExerciseInterval(t *testing.T) {
	s := newState(t, twoExercises())
	s.Apply(s.Advance())

	step := s.Advance()
	assert.Equal(t, "E1", step.Rested.Name)
	assert.Equal(t, 60, step.Rested.IntervalSeconds)
	assert.Equal(t, "E2", step.Next.ExerciseName)
	assert.True(t, step.Next.IsFinalSetOfFinalExercise)
}

func TestAdvanceDoesNotMutate(t *testing.T) {
	s := newState(t, twoExercises())
	_ = s.Advance()
	assert.Equal(t, plan.Position{Exercise: 0, Set: 1}, s.Position)
}

func TestSkipMotivationIsInverseOfMotivation(t *testing.T) {
	w := twoExercises()
	w.Motivation = false
	s := newState(t, w)
	assert.True(t, s.SkipMotivation)
	assert.True(t, s.Tuple().SkipMotivation)
}

func TestSlotStatus(t *testing.T) {
	s := newState(t, twoExercises())

	assert.Equal(t, NoSession, Slot{}.Status())
	assert.Equal(t, Active, Slot{Active: s}.Status())
	assert.Equal(t, Held, Slot{Held: s}.Status())
	assert.Equal(t, "held", Held.String())
	assert.Equal(t, "active", Active.String())
	assert.Equal(t, "no_session", NoSession.String())
	assert.Equal(t, "no_session", Status(99).String())
}

func TestRegistrySweep(t *testing.T) {
	r := NewRegistry()
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	r.Store("old", Slot{ReminderID: "a"})
	now = now.Add(time.Hour)
	r.Store("new", Slot{ReminderID: "b"})

	assert.Equal(t, 1, r.Sweep(30*time.Minute))
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, "b", r.Load("new").ReminderID)
	assert.Equal(t, Slot{}, r.Load("old"))
}

func TestRegistryLoadReturnsCopy(t *testing.T) {
	r := NewRegistry()
	r.Store("u", Slot{ReminderID: "a"})

	slot := r.Load("u")
	slot.ReminderID = "changed"

	assert.Equal(t, "a", r.Load("u").ReminderID)
}
