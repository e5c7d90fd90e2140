package statelist

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/meutreino/skill/internal/session"
)

// Entry keys of the state list. The KEY=VALUE format is shared with
// entries written by earlier releases and must not change.
const (
	KeyWorkoutID      = "CURRENT_WORKOUT_ID"
	KeySkipMotivation = "SKIP_MOTIVATION"
	KeyExerciseName   = "CURRENT_EXERCISE_NAME"
	KeySet            = "CURRENT_SERIE"
)

// ErrIncomplete is returned when a state list names a workout but another
// expected entry is missing or unreadable.
var ErrIncomplete = errors.New("state list is incomplete")

// Encode returns the entries for t in write order.
func Encode(t session.RecoveryTuple) []string {
	return []string{
		KeyWorkoutID + "=" + t.WorkoutID,
		KeySkipMotivation + "=" + strconv.FormatBool(t.SkipMotivation),
		KeyExerciseName + "=" + t.ExerciseName,
		KeySet + "=" + strconv.Itoa(t.Set),
	}
}

// Decode parses entries written by Encode. ok is false when no workout id
// entry exists, meaning no session is in progress.
func Decode(values []string) (t session.RecoveryTuple, ok bool, err error) {
	fields := make(map[string]string, len(values))
	for _, v := range values {
		key, value, found := strings.Cut(v, "=")
		if !found {
			continue
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		if _, dup := fields[key]; !dup {
			fields[key] = value
		}
	}

	id, ok := fields[KeyWorkoutID]
	if !ok {
		return session.RecoveryTuple{}, false, nil
	}
	t.WorkoutID = strings.TrimSpace(id)
	if t.WorkoutID == "" {
		return session.RecoveryTuple{}, true, fmt.Errorf("%w: empty %s", ErrIncomplete, KeyWorkoutID)
	}

	skip, ok := fields[KeySkipMotivation]
	if !ok {
		return session.RecoveryTuple{}, true, fmt.Errorf("%w: missing %s", ErrIncomplete, KeySkipMotivation)
	}
	t.SkipMotivation, err = strconv.ParseBool(strings.ToLower(strings.TrimSpace(skip)))
	if err != nil {
		return session.RecoveryTuple{}, true, fmt.Errorf("%w: %s=%q", ErrIncomplete, KeySkipMotivation, skip)
	}

	name, ok := fields[KeyExerciseName]
	if !ok || name == "" {
		return session.RecoveryTuple{}, true, fmt.Errorf("%w: missing %s", ErrIncomplete, KeyExerciseName)
	}
	t.ExerciseName = name

	set, ok := fields[KeySet]
	if !ok {
		return session.RecoveryTuple{}, true, fmt.Errorf("%w: missing %s", ErrIncomplete, KeySet)
	}
	t.Set, err = strconv.Atoi(strings.TrimSpace(set))
	if err != nil || t.Set < 1 {
		return session.RecoveryTuple{}, true, fmt.Errorf("%w: %s=%q", ErrIncomplete, KeySet, set)
	}

	return t, true, nil
}
