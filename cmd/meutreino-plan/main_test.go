package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/meutreino/skill/internal/models"
)

func testWorkouts() []models.Workout {
	return []models.Workout{
		{ID: "1", Name: "Treino A", AuthorEmail: "ana@example.com", Exercises: []models.Exercise{
			{Name: "Agachamento", Reps: "12", Series: "2", Interval: "60"},
			{Name: "Remada", Reps: "10", Series: "1", Interval: "45"},
		}},
		{ID: "2", Name: "Treino B", AuthorEmail: "ana@example.com"},
		{ID: "3", Name: "Treino A", AuthorEmail: "bia@example.com"},
	}
}

// TestFilter verifies author and name filtering, including case-insensitive names.
func TestFilter(t *testing.T) {
	all := testWorkouts()
	if got := filter(all, "", ""); len(got) != 3 {
		t.Errorf("no filter: got %d workouts, want 3", len(got))
	}
	if got := filter(all, "ANA@example.com", ""); len(got) != 2 {
		t.Errorf("author filter: got %d workouts, want 2", len(got))
	}
	got := filter(all, "bia@example.com", "treino a")
	if len(got) != 1 || got[0].ID != "3" {
		t.Errorf("author+name filter = %+v, want workout 3", got)
	}
	if got := filter(all, "", "Treino Z"); got != nil {
		t.Errorf("unknown name = %+v, want nil", got)
	}
}

// TestPrintPlan verifies the flattened set list marks the final set.
func TestPrintPlan(t *testing.T) {
	var buf bytes.Buffer
	if err := printPlan(&buf, testWorkouts()[0]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"total sets: 3", "[1.1] Agachamento", "[1.2] Agachamento", "[2.1] Remada (final)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "[1.2] Agachamento (final)") {
		t.Errorf("non-final set marked final:\n%s", out)
	}
}

// TestPrintPlanInvalid verifies an empty workout reports its error.
func TestPrintPlanInvalid(t *testing.T) {
	var buf bytes.Buffer
	if err := printPlan(&buf, testWorkouts()[1]); err == nil {
		t.Error("expected error for workout without exercises")
	}
	if !strings.Contains(buf.String(), "invalid:") {
		t.Errorf("output = %q, want invalid line", buf.String())
	}
}
