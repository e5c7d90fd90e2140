package recovery

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meutreino/skill/internal/catalog"
	"github.com/meutreino/skill/internal/litestore"
	"github.com/meutreino/skill/internal/models"
	"github.com/meutreino/skill/internal/plan"
	"github.com/meutreino/skill/internal/session"
	"github.com/meutreino/skill/internal/statelist"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

const email = "maria@example.com"

type fixedCatalog struct {
	workouts []models.Workout
	err      error
	calls    int
}

func (c *fixedCatalog) Workouts(_ context.Context, _, id string) ([]models.Workout, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	var out []models.Workout
	for _, w := range c.workouts {
		if id == "" || w.ID == id {
			out = append(out, w)
		}
	}
	if len(out) == 0 {
		return nil, catalog.ErrNoWorkouts
	}
	return out, nil
}

func workoutA() models.Workout {
	return models.Workout{
		ID:          "A",
		Name:        "A",
		Description: "Treino A",
		AuthorName:  "Maria Silva",
		AuthorEmail: email,
		Exercises: []models.Exercise{
			{Name: "Squat", Reps: "10", Series: "3", Interval: "90"},
			{Name: "Lunge", Reps: "8", Series: "2", Interval: "60"},
		},
	}
}

func setup(t *testing.T, c *fixedCatalog) (*Engine, *statelist.Adapter) {
	t.Helper()
	db, err := litestore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	adapter := statelist.New(db)
	return New(adapter, c, discard), adapter
}

func TestRecover(t *testing.T) {
	e, adapter := setup(t, &fixedCatalog{workouts: []models.Workout{workoutA()}})
	ctx := context.Background()
	require.NoError(t, adapter.Write(ctx, "alice", session.RecoveryTuple{WorkoutID: "A", SkipMotivation: true, ExerciseName: "Lunge", Set: 2}))

	s, err := e.Recover(ctx, "alice", email)
	require.NoError(t, err)

	assert.Equal(t, plan.Position{Exercise: 1, Set: 2}, s.Position)
	assert.True(t, s.SkipMotivation)
	assert.Equal(t, 1, s.Plan.TotalExercisesIndex)
	assert.Equal(t, "Treino A", s.Description)
}

func TestRecoverNothingPersisted(t *testing.T) {
	c := &fixedCatalog{workouts: []models.Workout{workoutA()}}
	e, adapter := setup(t, c)
	ctx := context.Background()

	_, err := e.Recover(ctx, "alice", email)
	assert.True(t, errors.Is(err, ErrNoActiveSession))

	require.NoError(t, adapter.Reset(ctx, "alice"))
	_, err = e.Recover(ctx, "alice", email)
	assert.True(t, errors.Is(err, ErrNoActiveSession), "an empty container means no session")
	assert.Equal(t, 0, c.calls, "catalog is not fetched without a tuple")
}

func TestRecoverInconsistent(t *testing.T) {
	tests := []struct {
		name  string
		tuple session.RecoveryTuple
	}{
		{"renamed exercise", session.RecoveryTuple{WorkoutID: "A", ExerciseName: "Deadlift", Set: 1}},
		{"set out of range", session.RecoveryTuple{WorkoutID: "A", ExerciseName: "Lunge", Set: 3}},
		{"deleted workout", session.RecoveryTuple{WorkoutID: "Z", ExerciseName: "Squat", Set: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, adapter := setup(t, &fixedCatalog{workouts: []models.Workout{workoutA()}})
			ctx := context.Background()
			require.NoError(t, adapter.Write(ctx, "alice", tt.tuple))

			_, err := e.Recover(ctx, "alice", email)
			assert.True(t, errors.Is(err, ErrInconsistent), "got %v", err)
		})
	}
}

func TestRecoverEmptiedWorkoutIsInconsistent(t *testing.T) {
	w := workoutA()
	w.Exercises = nil
	e, adapter := setup(t, &fixedCatalog{workouts: []models.Workout{w}})
	ctx := context.Background()
	require.NoError(t, adapter.Write(ctx, "alice", session.RecoveryTuple{WorkoutID: "A", ExerciseName: "Squat", Set: 1}))

	_, err := e.Recover(ctx, "alice", email)
	assert.True(t, errors.Is(err, ErrInconsistent))
	assert.True(t, errors.Is(err, plan.ErrEmptyWorkout))
}

func TestRecoverPartialWriteIsInconsistent(t *testing.T) {
	db, err := litestore.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	l, err := db.CreateList(ctx, "alice", statelist.DefaultListName)
	require.NoError(t, err)
	_, err = db.CreateItem(ctx, "alice", l.ID, "CURRENT_WORKOUT_ID=A")
	require.NoError(t, err)

	e := New(statelist.New(db), &fixedCatalog{workouts: []models.Workout{workoutA()}}, discard)
	_, err = e.Recover(ctx, "alice", email)
	assert.True(t, errors.Is(err, ErrInconsistent))
}

func TestRecoverPropagatesFetchErrors(t *testing.T) {
	e, adapter := setup(t, &fixedCatalog{err: catalog.ErrUnauthorized})
	ctx := context.Background()
	require.NoError(t, adapter.Write(ctx, "alice", session.RecoveryTuple{WorkoutID: "A", ExerciseName: "Squat", Set: 1}))

	_, err := e.Recover(ctx, "alice", email)
	assert.True(t, errors.Is(err, catalog.ErrUnauthorized))
	assert.False(t, errors.Is(err, ErrInconsistent))
}

func TestRecoverIsIdempotent(t *testing.T) {
	e, adapter := setup(t, &fixedCatalog{workouts: []models.Workout{workoutA()}})
	ctx := context.Background()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40
	properties := gopter.NewProperties(parameters)

	properties.Property("two recoveries yield equal sessions", prop.ForAll(
		func(exercise int, set int, skip bool) bool {
			w := workoutA()
			name := w.Exercises[exercise].Name
			if set > 2 && exercise == 1 {
				set = 2
			}
			tuple := session.RecoveryTuple{WorkoutID: "A", SkipMotivation: skip, ExerciseName: name, Set: set}
			if err := adapter.Write(ctx, "alice", tuple); err != nil {
				return false
			}
			first, err := e.Recover(ctx, "alice", email)
			if err != nil {
				return false
			}
			second, err := e.Recover(ctx, "alice", email)
			if err != nil {
				return false
			}
			return assert.ObjectsAreEqual(first, second) && first.Tuple() == tuple
		},
		gen.IntRange(0, 1),
		gen.IntRange(1, 3),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
