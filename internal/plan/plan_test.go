package plan

import (
	"errors"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meutreino/skill/internal/models"
)

func workoutWithSets(sets ...int) models.Workout {
	w := models.Workout{ID: "w1", Name: "A"}
	for i, s := range sets {
		w.Exercises = append(w.Exercises, models.Exercise{
			Name:     "E" + strconv.Itoa(i+1),
			Reps:     "10",
			Series:   models.Count(strconv.Itoa(s)),
			Interval: "60",
		})
	}
	return w
}

func TestBuild(t *testing.T) {
	w := models.Workout{
		ID:   "42",
		Name: "A",
		Exercises: []models.Exercise{
			{Name: " Squat ", Reps: "10", Series: "3", Interval: "90", HowTo: "Keep your back straight."},
			{Name: "Push-up", Reps: "12", Series: "2"},
		},
	}

	p, err := Build(w)
	require.NoError(t, err)

	assert.Equal(t, "42", p.WorkoutID)
	assert.Equal(t, 1, p.TotalExercisesIndex)
	require.Len(t, p.Exercises, 2)
	assert.Equal(t, Exercise{Name: "Squat", Reps: 10, TotalSets: 3, IntervalSeconds: 90, HowTo: "Keep your back straight."}, p.Exercises[0])
	assert.Equal(t, 0, p.Exercises[1].IntervalSeconds, "missing interval means no rest")
	assert.Equal(t, 5, p.TotalSets())
}

func TestBuildRejectsInvalidDefinitions(t *testing.T) {
	tests := []struct {
		name string
		w    models.Workout
	}{
		{"no exercises", models.Workout{Name: "A"}},
		{"empty name", models.Workout{Exercises: []models.Exercise{{Name: " ", Reps: "1", Series: "1"}}}},
		{"missing reps", models.Workout{Exercises: []models.Exercise{{Name: "Squat", Series: "3"}}}},
		{"zero sets", models.Workout{Exercises: []models.Exercise{{Name: "Squat", Reps: "10", Series: "0"}}}},
		{"non-numeric reps", models.Workout{Exercises: []models.Exercise{{Name: "Squat", Reps: "ten", Series: "3"}}}},
		{"negative interval", models.Workout{Exercises: []models.Exercise{{Name: "Squat", Reps: "10", Series: "3", Interval: "-5"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.w)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrEmptyWorkout), "got %v", err)
		})
	}
}

func TestNextWalksSetsThenExercises(t *testing.T) {
	p, err := Build(workoutWithSets(2, 1))
	require.NoError(t, err)

	pos := p.Start()
	assert.Equal(t, Position{0, 1}, pos)

	pos, ok := p.Next(pos)
	require.True(t, ok)
	assert.Equal(t, Position{0, 2}, pos)
	assert.False(t, p.IsFinal(pos))

	pos, ok = p.Next(pos)
	require.True(t, ok)
	assert.Equal(t, Position{1, 1}, pos)
	assert.True(t, p.IsFinal(pos))

	_, ok = p.Next(pos)
	assert.False(t, ok)
}

func TestUnitsMarkOnlyTheLastUnitFinal(t *testing.T) {
	p, err := Build(workoutWithSets(3, 2))
	require.NoError(t, err)

	units := p.Units()
	require.Len(t, units, 5)
	for i, u := range units[:4] {
		assert.False(t, u.IsFinalSetOfFinalExercise, "unit %d", i)
	}
	last := units[4]
	assert.True(t, last.IsFinalSetOfFinalExercise)
	assert.Equal(t, "E2", last.ExerciseName)
	assert.Equal(t, 2, last.SetNumber)
}

func TestIndexOfReturnsFirstMatch(t *testing.T) {
	p, err := Build(workoutWithSets(1, 1, 1))
	require.NoError(t, err)

	assert.Equal(t, 1, p.IndexOf("E2"))
	assert.Equal(t, -1, p.IndexOf("Lunge"))
}

func TestPlanProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("plan length matches exercise count", prop.ForAll(
		func(sets []int) bool {
			if len(sets) == 0 {
				return true
			}
			p, err := Build(workoutWithSets(sets...))
			if err != nil {
				return false
			}
			return len(p.Exercises) == len(sets) && p.TotalExercisesIndex == len(sets)-1
		},
		gen.SliceOf(gen.IntRange(1, 6)),
	))

	properties.Property("walking Next visits Units in order", prop.ForAll(
		func(sets []int) bool {
			if len(sets) == 0 {
				return true
			}
			p, err := Build(workoutWithSets(sets...))
			if err != nil {
				return false
			}
			units := p.Units()
			pos, ok := p.Start(), true
			for i := 0; ok; i++ {
				if i >= len(units) || p.Ordinal(pos) != i {
					return false
				}
				u, _ := p.Unit(pos)
				if u != units[i] {
					return false
				}
				pos, ok = p.Next(pos)
				if !ok && i != len(units)-1 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(1, 6)),
	))

	properties.TestingRun(t)
}
