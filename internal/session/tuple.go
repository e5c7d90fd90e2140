package session

// RecoveryTuple is the whole durable record of a session. Everything else is
// re-derived from a fresh catalog fetch.
type RecoveryTuple struct {
	WorkoutID      string `json:"workout_id"`
	SkipMotivation bool   `json:"skip_motivation"`
	ExerciseName   string `json:"exercise_name"`
	Set            int    `json:"set"`
}
