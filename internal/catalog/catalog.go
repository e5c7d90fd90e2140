// Package catalog fetches workout definitions for an author from the
// workout content API or from a local YAML file.
package catalog

import (
	"errors"
	"sort"
	"strings"

	"github.com/meutreino/skill/internal/models"
)

var (
	// ErrNoWorkouts is returned when the author has no workouts matching the filter.
	ErrNoWorkouts = errors.New("no workouts found")
	// ErrUnauthorized is returned when the catalog rejects the read token.
	ErrUnauthorized = errors.New("catalog rejected credentials")
	// ErrFetch wraps transport and decoding failures.
	ErrFetch = errors.New("fetching workouts failed")
)

// FindByName returns the workout whose name matches name, ignoring case and
// surrounding space. The spoken name may include a "treino" prefix.
func FindByName(workouts []models.Workout, name string) (models.Workout, bool) {
	want := normalizeName(name)
	for _, w := range workouts {
		if normalizeName(w.Name) == want {
			return w, true
		}
	}
	return models.Workout{}, false
}

func normalizeName(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "TREINO ")
	return strings.TrimSpace(s)
}

// Names returns the workout names sorted alphabetically.
func Names(workouts []models.Workout) []string {
	names := make([]string, 0, len(workouts))
	for _, w := range workouts {
		names = append(names, w.Name)
	}
	sort.Strings(names)
	return names
}
