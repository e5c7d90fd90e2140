package catalog

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/meutreino/skill/internal/models"
)

// fileCatalog is the on-disk layout of a local catalog.
type fileCatalog struct {
	Workouts []models.Workout `yaml:"workouts"`
}

// File serves workouts from a YAML file loaded once at startup.
type File struct {
	workouts []models.Workout
}

// LoadFile reads a YAML catalog.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return ParseFile(data)
}

// ParseFile parses YAML catalog content.
func ParseFile(data []byte) (*File, error) {
	var fc fileCatalog
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing catalog file: %w", err)
	}
	for i, w := range fc.Workouts {
		if w.ID == "" {
			return nil, fmt.Errorf("catalog workout %d (%q) has no id", i+1, w.Name)
		}
	}
	return &File{workouts: fc.Workouts}, nil
}

// Workouts filters the file by author email and, when set, workout id.
func (f *File) Workouts(_ context.Context, email, workoutID string) ([]models.Workout, error) {
	var result []models.Workout
	for _, w := range f.workouts {
		if !strings.EqualFold(w.AuthorEmail, email) {
			continue
		}
		if workoutID != "" && w.ID != workoutID {
			continue
		}
		result = append(result, w)
	}
	if len(result) == 0 {
		return nil, ErrNoWorkouts
	}
	return result, nil
}

// All returns every workout in the file.
func (f *File) All() []models.Workout {
	return f.workouts
}
