// Package plan turns a catalog workout definition into an ordered, immutable
// exercise plan and walks it one set at a time.
//
// A position in the plan is the pair (exercise index, set number). The
// flattened sequence of set units returned by Units is the same walk that
// Next produces starting from Start, so callers may keep either form.
package plan

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/meutreino/skill/internal/models"
)

// ErrEmptyWorkout is returned when a definition has no exercises or an
// exercise is missing a required field.
var ErrEmptyWorkout = errors.New("workout has no valid exercises")

// Exercise is one exercise of a plan with its numeric fields parsed.
type Exercise struct {
	Name            string `json:"name"`
	Reps            int    `json:"reps"`
	TotalSets       int    `json:"total_sets"`
	IntervalSeconds int    `json:"interval_seconds"`
	HowTo           string `json:"how_to,omitempty"`
}

// Position identifies a set within a plan. Set is 1-based.
type Position struct {
	Exercise int `json:"exercise_index"`
	Set      int `json:"set"`
}

// SetUnit is one {exercise, set} step of the flattened plan.
type SetUnit struct {
	ExerciseName              string `json:"exercise_name"`
	Reps                      int    `json:"reps"`
	TotalSets                 int    `json:"total_sets"`
	IntervalSeconds           int    `json:"interval_seconds"`
	HowTo                     string `json:"how_to,omitempty"`
	ExerciseIndex             int    `json:"exercise_index"`
	SetNumber                 int    `json:"set_number"`
	IsFinalSetOfFinalExercise bool   `json:"is_final_set_of_final_exercise"`
}

// Plan is the ordered exercise list derived from a workout definition.
type Plan struct {
	WorkoutID           string     `json:"workout_id"`
	Exercises           []Exercise `json:"exercises"`
	TotalExercisesIndex int        `json:"total_exercises_index"`
}

// Build derives the plan for w. It is deterministic and side-effect free, so
// recovery can call it again on a re-fetched definition.
func Build(w models.Workout) (Plan, error) {
	if len(w.Exercises) == 0 {
		return Plan{}, fmt.Errorf("%w: %q has no exercises", ErrEmptyWorkout, w.Name)
	}

	exercises := make([]Exercise, 0, len(w.Exercises))
	for i, e := range w.Exercises {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return Plan{}, fmt.Errorf("%w: exercise %d has no name", ErrEmptyWorkout, i+1)
		}
		reps, err := positive(e.Reps)
		if err != nil {
			return Plan{}, fmt.Errorf("%w: %s reps: %v", ErrEmptyWorkout, name, err)
		}
		sets, err := positive(e.Series)
		if err != nil {
			return Plan{}, fmt.Errorf("%w: %s series: %v", ErrEmptyWorkout, name, err)
		}
		interval, err := seconds(e.Interval)
		if err != nil {
			return Plan{}, fmt.Errorf("%w: %s interval: %v", ErrEmptyWorkout, name, err)
		}
		exercises = append(exercises, Exercise{
			Name:            name,
			Reps:            reps,
			TotalSets:       sets,
			IntervalSeconds: interval,
			HowTo:           strings.TrimSpace(e.HowTo),
		})
	}

	return Plan{
		WorkoutID:           w.ID,
		Exercises:           exercises,
		TotalExercisesIndex: len(exercises) - 1,
	}, nil
}

func positive(c models.Count) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(string(c)))
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", string(c))
	}
	if n <= 0 {
		return 0, fmt.Errorf("%d is not positive", n)
	}
	return n, nil
}

// seconds parses an interval. A missing interval means no rest.
func seconds(c models.Count) (int, error) {
	s := strings.TrimSpace(string(c))
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("%d is negative", n)
	}
	return n, nil
}

// Start returns the first position of the plan.
func (p Plan) Start() Position {
	return Position{Exercise: 0, Set: 1}
}

// Valid reports whether pos addresses a set inside the plan.
func (p Plan) Valid(pos Position) bool {
	if pos.Exercise < 0 || pos.Exercise >= len(p.Exercises) {
		return false
	}
	return pos.Set >= 1 && pos.Set <= p.Exercises[pos.Exercise].TotalSets
}

// Next returns the position after pos. ok is false when pos is the final set
// of the final exercise.
func (p Plan) Next(pos Position) (next Position, ok bool) {
	if !p.Valid(pos) {
		return Position{}, false
	}
	if pos.Set < p.Exercises[pos.Exercise].TotalSets {
		return Position{Exercise: pos.Exercise, Set: pos.Set + 1}, true
	}
	if pos.Exercise >= p.TotalExercisesIndex {
		return Position{}, false
	}
	return Position{Exercise: pos.Exercise + 1, Set: 1}, true
}

// IsFinal reports whether pos is the final set of the final exercise.
func (p Plan) IsFinal(pos Position) bool {
	return p.Valid(pos) &&
		pos.Exercise == p.TotalExercisesIndex &&
		pos.Set == p.Exercises[pos.Exercise].TotalSets
}

// Unit returns the set unit at pos.
func (p Plan) Unit(pos Position) (SetUnit, bool) {
	if !p.Valid(pos) {
		return SetUnit{}, false
	}
	e := p.Exercises[pos.Exercise]
	return SetUnit{
		ExerciseName:              e.Name,
		Reps:                      e.Reps,
		TotalSets:                 e.TotalSets,
		IntervalSeconds:           e.IntervalSeconds,
		HowTo:                     e.HowTo,
		ExerciseIndex:             pos.Exercise,
		SetNumber:                 pos.Set,
		IsFinalSetOfFinalExercise: p.IsFinal(pos),
	}, true
}

// Units materializes the whole plan as a flat sequence of set units.
func (p Plan) Units() []SetUnit {
	units := make([]SetUnit, 0, p.TotalSets())
	for i, e := range p.Exercises {
		for s := 1; s <= e.TotalSets; s++ {
			u, _ := p.Unit(Position{Exercise: i, Set: s})
			units = append(units, u)
		}
	}
	return units
}

// Ordinal returns the index of pos in Units, or -1 if pos is not in the plan.
func (p Plan) Ordinal(pos Position) int {
	if !p.Valid(pos) {
		return -1
	}
	n := 0
	for i := 0; i < pos.Exercise; i++ {
		n += p.Exercises[i].TotalSets
	}
	return n + pos.Set - 1
}

// TotalSets returns the number of set units in the plan.
func (p Plan) TotalSets() int {
	n := 0
	for _, e := range p.Exercises {
		n += e.TotalSets
	}
	return n
}

// IndexOf returns the position of the first exercise named name, or -1.
func (p Plan) IndexOf(name string) int {
	for i, e := range p.Exercises {
		if e.Name == name {
			return i
		}
	}
	return -1
}
