package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/meutreino/skill/internal/catalog"
	"github.com/meutreino/skill/internal/models"
	"github.com/meutreino/skill/internal/plan"
)

func main() {
	catalogPath := flag.String("catalog", "", "path to a YAML workout catalog (required)")
	author := flag.String("author", "", "only workouts by this author email")
	workout := flag.String("workout", "", "only the workout with this name")
	flag.Parse()

	if *catalogPath == "" {
		fmt.Fprintln(os.Stderr, "usage: meutreino-plan -catalog FILE [-author EMAIL] [-workout NAME]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	file, err := catalog.LoadFile(*catalogPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	workouts := filter(file.All(), *author, *workout)
	if len(workouts) == 0 {
		fmt.Fprintln(os.Stderr, "no matching workouts")
		os.Exit(1)
	}

	failed := false
	for _, w := range workouts {
		if err := printPlan(os.Stdout, w); err != nil {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func filter(all []models.Workout, author, name string) []models.Workout {
	var result []models.Workout
	for _, w := range all {
		if author != "" && !strings.EqualFold(w.AuthorEmail, author) {
			continue
		}
		result = append(result, w)
	}
	if name == "" {
		return result
	}
	if w, ok := catalog.FindByName(result, name); ok {
		return []models.Workout{w}
	}
	return nil
}

// printPlan writes the plan of w, or the reason it cannot be run.
func printPlan(out io.Writer, w models.Workout) error {
	fmt.Fprintf(out, "%s (%s) by %s\n", w.Name, w.ID, w.AuthorEmail)

	p, err := plan.Build(w)
	if err != nil {
		fmt.Fprintf(out, "  invalid: %v\n\n", err)
		return err
	}

	for i, ex := range p.Exercises {
		fmt.Fprintf(out, "  %d. %s: %d x %d, rest %ds\n", i+1, ex.Name, ex.TotalSets, ex.Reps, ex.IntervalSeconds)
	}
	fmt.Fprintf(out, "  total sets: %d\n", p.TotalSets())
	for _, u := range p.Units() {
		marker := ""
		if u.IsFinalSetOfFinalExercise {
			marker = " (final)"
		}
		fmt.Fprintf(out, "    [%d.%d] %s%s\n", u.ExerciseIndex+1, u.SetNumber, u.ExerciseName, marker)
	}
	fmt.Fprintln(out)
	return nil
}
