package coach

import (
	"github.com/meutreino/skill/internal/plan"
)

// Operation names a turn the dispatcher can route to the controller.
type Operation string

const (
	OpLaunch       Operation = "launch"
	OpStart        Operation = "start"
	OpInterval     Operation = "interval"
	OpResume       Operation = "resume"
	OpStop         Operation = "stop"
	OpEnd          Operation = "end"
	OpHelp         Operation = "help"
	OpSessionEnded Operation = "session-ended"
)

// Operations lists every routable operation.
var Operations = []Operation{OpLaunch, OpStart, OpInterval, OpResume, OpStop, OpEnd, OpHelp, OpSessionEnded}

// Permissions are the grants the user gave on the voice platform.
type Permissions struct {
	Lists     bool `json:"lists"`
	Reminders bool `json:"reminders"`
}

// Identity identifies the caller of a turn. UserID keys the session;
// Email keys the workout catalog.
type Identity struct {
	UserID      string      `json:"user_id"`
	Email       string      `json:"email"`
	Locale      string      `json:"locale,omitempty"`
	Permissions Permissions `json:"permissions"`
}

// Request is one inbound turn.
type Request struct {
	Identity
	WorkoutName string `json:"workout_name,omitempty"`
}

// PromptKind says which prompt a turn produced.
type PromptKind string

const (
	PromptWelcome  PromptKind = "welcome"
	PromptStarted  PromptKind = "started"
	PromptInterval PromptKind = "interval"
	PromptComplete PromptKind = "completed"
	PromptResumed  PromptKind = "resumed"
	PromptStopped  PromptKind = "stopped"
	PromptEnded    PromptKind = "ended"
	PromptHelp     PromptKind = "help"
	PromptSilent   PromptKind = "silent"
	PromptFailure  PromptKind = "failure"
)

// Prompt is what a turn returns to the voice platform.
type Prompt struct {
	Kind       PromptKind `json:"kind"`
	Speech     string     `json:"speech"`
	Reprompt   string     `json:"reprompt,omitempty"`
	EndSession bool       `json:"end_session"`
	Error      Kind       `json:"error,omitempty"`
	Data       any        `json:"data,omitempty"`
}

// Text is rendered speech.
type Text struct {
	Speech   string
	Reprompt string
}

// LaunchData populates the welcome prompt.
type LaunchData struct {
	FirstName string   `json:"first_name"`
	Workouts  []string `json:"workouts"`
	FirstTime bool     `json:"first_time"`
}

// StartData populates the workout-started prompt.
type StartData struct {
	WorkoutID   string       `json:"workout_id"`
	WorkoutName string       `json:"workout_name"`
	Description string       `json:"description"`
	First       plan.SetUnit `json:"first"`
	TotalSets   int          `json:"total_sets"`
	FirstTime   bool         `json:"first_time"`
}

// IntervalData populates the interval prompt and its reminder.
type IntervalData struct {
	WorkoutID      string        `json:"workout_id"`
	RestSeconds    int           `json:"rest_seconds"`
	Rested         plan.Exercise `json:"rested"`
	Next           plan.SetUnit  `json:"next"`
	Completed      bool          `json:"completed"`
	SkipMotivation bool          `json:"skip_motivation"`
	ReminderToken  string        `json:"reminder_token,omitempty"`
	Recovered      bool          `json:"recovered"`
}

// ResumeData populates the resumed prompt.
type ResumeData struct {
	WorkoutID string       `json:"workout_id"`
	Current   plan.SetUnit `json:"current"`
}

// FailureData populates a failure prompt.
type FailureData struct {
	Kind     Kind      `json:"kind"`
	Op       Operation `json:"op"`
	Subject  string    `json:"subject,omitempty"`
	Workouts []string  `json:"workouts,omitempty"`
}

// Renderer turns prompt data into speech. Implementations pick among
// phrasings, so the same data may render differently between calls.
type Renderer interface {
	Welcome(LaunchData) Text
	Started(StartData) Text
	Interval(IntervalData) Text
	// Reminder is the text spoken when the rest interval ends.
	Reminder(IntervalData) string
	Resumed(ResumeData) Text
	Stopped() Text
	Ended() Text
	Help() Text
	Failure(FailureData) Text
}
