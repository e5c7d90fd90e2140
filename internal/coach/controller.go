// Package coach is the turn controller: it runs one conversational turn
// against a user's workout session, persisting the recovery tuple and
// keeping exactly one rest reminder outstanding.
package coach

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/meutreino/skill/internal/catalog"
	"github.com/meutreino/skill/internal/plan"
	"github.com/meutreino/skill/internal/recovery"
	"github.com/meutreino/skill/internal/reminder"
	"github.com/meutreino/skill/internal/session"
	"github.com/meutreino/skill/internal/statelist"
)

// ErrUnknownOperation is returned by Dispatch for an operation it cannot route.
var ErrUnknownOperation = errors.New("unknown operation")

// Config wires a Controller to its collaborators.
type Config struct {
	Lists     statelist.Service
	Reminders reminder.Service
	Catalog   recovery.Catalog
	Renderer  Renderer
	// Locale is the locale reminders are created with. Defaults to pt-BR.
	Locale string
	// ListName overrides the state container name.
	ListName string
	// Registry is the in-memory session registry. A fresh one is created
	// when nil.
	Registry *session.Registry
	Log      *slog.Logger
}

// Controller runs turns. Dispatch serializes turns per user; the exported
// operations assume the caller does.
type Controller struct {
	sessions  *session.Registry
	state     *statelist.Adapter
	recovery  *recovery.Engine
	reminders *reminder.Scheduler
	catalog   recovery.Catalog
	render    Renderer
	log       *slog.Logger

	mu    sync.Mutex
	turns map[string]*sync.Mutex
}

// New creates a controller.
func New(cfg Config) *Controller {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	locale := cfg.Locale
	if locale == "" {
		locale = "pt-BR"
	}
	reg := cfg.Registry
	if reg == nil {
		reg = session.NewRegistry()
	}
	state := statelist.New(cfg.Lists)
	if cfg.ListName != "" {
		state = state.WithName(cfg.ListName)
	}
	return &Controller{
		sessions:  reg,
		state:     state,
		recovery:  recovery.New(state, cfg.Catalog, log),
		reminders: reminder.NewScheduler(cfg.Reminders, locale, log),
		catalog:   cfg.Catalog,
		render:    cfg.Renderer,
		log:       log,
		turns:     make(map[string]*sync.Mutex),
	}
}

// Dispatch runs op for req and always returns a prompt for the user. Failed
// turns come back as failure prompts; the error is only set for an unknown
// operation.
func (c *Controller) Dispatch(ctx context.Context, op Operation, req Request) (Prompt, error) {
	unlock := c.lock(req.UserID)
	defer unlock()

	var (
		p   Prompt
		err error
	)
	switch op {
	case OpLaunch:
		p, err = c.Launch(ctx, req.Identity)
	case OpStart:
		p, err = c.Start(ctx, req.Identity, req.WorkoutName)
	case OpInterval:
		p, err = c.AdvanceInterval(ctx, req.Identity)
	case OpResume:
		p, err = c.Resume(ctx, req.Identity)
	case OpStop:
		p, err = c.Stop(ctx, req.Identity)
	case OpEnd:
		p, err = c.End(ctx, req.Identity)
	case OpHelp:
		p = c.Help()
	case OpSessionEnded:
		p, err = c.SessionEnded(ctx, req.Identity)
	default:
		return Prompt{}, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}
	if err != nil {
		return c.failurePrompt(op, err), nil
	}
	return p, nil
}

func (c *Controller) lock(userID string) func() {
	c.mu.Lock()
	m, ok := c.turns[userID]
	if !ok {
		m = &sync.Mutex{}
		c.turns[userID] = m
	}
	c.mu.Unlock()
	m.Lock()
	return m.Unlock
}

// Launch greets the user and lists their workouts. An active session is
// moved to the held slot so it can be resumed.
func (c *Controller) Launch(ctx context.Context, id Identity) (Prompt, error) {
	if err := requireEmail(OpLaunch, id); err != nil {
		return Prompt{}, c.fail(OpLaunch, id, err)
	}
	slot := c.sessions.Load(id.UserID)

	workouts, err := c.catalog.Workouts(ctx, id.Email, "")
	if err != nil {
		return Prompt{}, c.fail(OpLaunch, id, err)
	}
	if len(workouts) == 0 {
		return Prompt{}, c.fail(OpLaunch, id, catalog.ErrNoWorkouts)
	}
	created, err := c.state.Ensure(ctx, id.UserID)
	if err != nil {
		return Prompt{}, c.fail(OpLaunch, id, err)
	}

	c.reminders.CancelOutstanding(ctx, id.UserID, slot.ReminderID)
	slot.ReminderID = ""
	if slot.Active != nil {
		slot.Held, slot.Active = slot.Active, nil
	}
	slot.Workouts = workouts
	slot.FirstTime = slot.FirstTime || created
	c.sessions.Store(id.UserID, slot)

	data := LaunchData{
		FirstName: workouts[0].AuthorFirstName(),
		Workouts:  catalog.Names(workouts),
		FirstTime: slot.FirstTime,
	}
	t := c.render.Welcome(data)
	return Prompt{Kind: PromptWelcome, Speech: t.Speech, Reprompt: t.Reprompt, Data: data}, nil
}

// Start begins workoutName at its first set, replacing any active or held
// session.
func (c *Controller) Start(ctx context.Context, id Identity, workoutName string) (Prompt, error) {
	if err := requireEmail(OpStart, id); err != nil {
		return Prompt{}, c.fail(OpStart, id, err)
	}
	slot := c.sessions.Load(id.UserID)

	workouts := slot.Workouts
	if len(workouts) == 0 {
		fetched, err := c.catalog.Workouts(ctx, id.Email, "")
		if err != nil {
			return Prompt{}, c.fail(OpStart, id, err)
		}
		workouts = fetched
	}
	w, ok := catalog.FindByName(workouts, workoutName)
	if !ok {
		return Prompt{}, c.fail(OpStart, id, &Error{
			Kind:     WorkoutNotFound,
			Subject:  workoutName,
			Workouts: catalog.Names(workouts),
		})
	}
	p, err := plan.Build(w)
	if err != nil {
		return Prompt{}, c.fail(OpStart, id, &Error{Kind: EmptyWorkout, Subject: w.Description, Err: err})
	}

	st := session.New(w, p)
	if err := c.state.Write(ctx, id.UserID, st.Tuple()); err != nil {
		return Prompt{}, c.fail(OpStart, id, fmt.Errorf("persisting session: %w", err))
	}
	c.reminders.CancelOutstanding(ctx, id.UserID, slot.ReminderID)
	c.sessions.Store(id.UserID, session.Slot{Active: st, Workouts: workouts})

	c.log.Info("workout started", "user", id.UserID, "workout", w.ID, "exercises", len(p.Exercises), "sets", p.TotalSets())

	data := StartData{
		WorkoutID:   w.ID,
		WorkoutName: w.Name,
		Description: w.Description,
		First:       st.Current(),
		TotalSets:   p.TotalSets(),
		FirstTime:   slot.FirstTime,
	}
	t := c.render.Started(data)
	return Prompt{Kind: PromptStarted, Speech: t.Speech, Reprompt: t.Reprompt, EndSession: true, Data: data}, nil
}

// AdvanceInterval records that the user finished the current set, schedules
// the end-of-rest reminder and moves to the next set. Finishing the final
// set completes the workout and leaves a held snapshot.
//
// The turn fails closed: if the reminder cannot be scheduled nothing is
// advanced or persisted, and if persisting fails the new reminder is
// cancelled again.
func (c *Controller) AdvanceInterval(ctx context.Context, id Identity) (Prompt, error) {
	if err := requireUser(OpInterval, id); err != nil {
		return Prompt{}, c.fail(OpInterval, id, err)
	}
	slot := c.sessions.Load(id.UserID)

	needsRecovery := !slot.Active.Valid()
	var st *session.State
	if needsRecovery {
		if id.Email == "" {
			return Prompt{}, c.fail(OpInterval, id, &Error{Kind: IdentityUnavailable})
		}
		recovered, err := c.recovery.Recover(ctx, id.UserID, id.Email)
		if err != nil {
			return Prompt{}, c.fail(OpInterval, id, err)
		}
		st = recovered
	} else {
		st = slot.Active.Clone()
	}

	step := st.Advance()
	data := IntervalData{
		WorkoutID:      st.WorkoutID,
		RestSeconds:    step.Rested.IntervalSeconds,
		Rested:         step.Rested,
		Next:           step.Next,
		Completed:      step.Completed,
		SkipMotivation: st.SkipMotivation,
		Recovered:      needsRecovery,
	}
	if !id.Permissions.Reminders {
		return Prompt{}, c.fail(OpInterval, id, reminder.ErrPermissionDenied)
	}

	c.reminders.CancelOutstanding(ctx, id.UserID, slot.ReminderID)
	slot.ReminderID = ""
	token, err := c.reminders.ScheduleRelative(ctx, id.UserID, id.Permissions.Reminders, data.RestSeconds, id.Locale, c.render.Reminder(data))
	if err != nil {
		c.sessions.Store(id.UserID, slot)
		return Prompt{}, c.fail(OpInterval, id, err)
	}
	data.ReminderToken = token

	next := st.Clone()
	next.Apply(step)
	if step.Completed {
		err = c.state.Reset(ctx, id.UserID)
	} else {
		err = c.state.Write(ctx, id.UserID, next.Tuple())
	}
	if err != nil {
		c.reminders.CancelOutstanding(ctx, id.UserID, token)
		c.sessions.Store(id.UserID, slot)
		return Prompt{}, c.fail(OpInterval, id, fmt.Errorf("persisting session: %w", err))
	}

	slot.ReminderID = token
	kind := PromptInterval
	if step.Completed {
		slot.Active, slot.Held = nil, next
		kind = PromptComplete
		c.log.Info("workout completed", "user", id.UserID, "workout", st.WorkoutID)
	} else {
		slot.Active, slot.Held = next, nil
	}
	c.sessions.Store(id.UserID, slot)

	t := c.render.Interval(data)
	return Prompt{Kind: kind, Speech: t.Speech, Reprompt: t.Reprompt, EndSession: true, Data: data}, nil
}

// Resume restores the held session.
func (c *Controller) Resume(ctx context.Context, id Identity) (Prompt, error) {
	if err := requireUser(OpResume, id); err != nil {
		return Prompt{}, c.fail(OpResume, id, err)
	}
	slot := c.sessions.Load(id.UserID)
	if slot.Held == nil {
		return Prompt{}, c.fail(OpResume, id, &Error{Kind: NothingToResume})
	}

	st := slot.Held
	if err := c.state.Write(ctx, id.UserID, st.Tuple()); err != nil {
		return Prompt{}, c.fail(OpResume, id, fmt.Errorf("persisting session: %w", err))
	}
	c.reminders.CancelOutstanding(ctx, id.UserID, slot.ReminderID)
	slot.Active, slot.Held, slot.ReminderID = st, nil, ""
	c.sessions.Store(id.UserID, slot)

	data := ResumeData{WorkoutID: st.WorkoutID, Current: st.Current()}
	t := c.render.Resumed(data)
	return Prompt{Kind: PromptResumed, Speech: t.Speech, Reprompt: t.Reprompt, EndSession: true, Data: data}, nil
}

// Stop pauses the session: the outstanding reminder is cancelled and the
// active session is held for a later resume. The persisted tuple stays.
func (c *Controller) Stop(ctx context.Context, id Identity) (Prompt, error) {
	if id.UserID == "" {
		return Prompt{}, c.fail(OpStop, id, &Error{Kind: IdentityUnavailable})
	}
	slot := c.sessions.Load(id.UserID)
	c.reminders.CancelOutstanding(ctx, id.UserID, slot.ReminderID)
	slot.ReminderID = ""
	if slot.Active != nil {
		slot.Held, slot.Active = slot.Active, nil
	}
	c.sessions.Store(id.UserID, slot)

	t := c.render.Stopped()
	return Prompt{Kind: PromptStopped, Speech: t.Speech, EndSession: true}, nil
}

// SessionEnded handles the platform closing the conversation. It holds the
// active session like Stop but leaves the reminder running.
func (c *Controller) SessionEnded(_ context.Context, id Identity) (Prompt, error) {
	if id.UserID == "" {
		return Prompt{Kind: PromptSilent, EndSession: true}, nil
	}
	slot := c.sessions.Load(id.UserID)
	if slot.Active != nil {
		slot.Held, slot.Active = slot.Active, nil
		c.sessions.Store(id.UserID, slot)
	}
	return Prompt{Kind: PromptSilent, EndSession: true}, nil
}

// End discards the session entirely, held snapshot included.
func (c *Controller) End(ctx context.Context, id Identity) (Prompt, error) {
	if err := requireUser(OpEnd, id); err != nil {
		return Prompt{}, c.fail(OpEnd, id, err)
	}
	slot := c.sessions.Load(id.UserID)
	active, err := c.inProgress(ctx, id.UserID, slot)
	if err != nil {
		return Prompt{}, c.fail(OpEnd, id, err)
	}

	c.reminders.CancelOutstanding(ctx, id.UserID, slot.ReminderID)
	slot.ReminderID = ""
	if !active && slot.Held == nil {
		c.sessions.Store(id.UserID, slot)
		return Prompt{}, c.fail(OpEnd, id, &Error{Kind: NoActiveSession})
	}
	if err := c.state.Clear(ctx, id.UserID); err != nil {
		c.sessions.Store(id.UserID, slot)
		return Prompt{}, c.fail(OpEnd, id, fmt.Errorf("clearing session: %w", err))
	}
	c.sessions.Store(id.UserID, session.Slot{Workouts: slot.Workouts})

	t := c.render.Ended()
	return Prompt{Kind: PromptEnded, Speech: t.Speech, EndSession: true}, nil
}

// Help explains how to use the skill.
func (c *Controller) Help() Prompt {
	t := c.render.Help()
	return Prompt{Kind: PromptHelp, Speech: t.Speech, Reprompt: t.Reprompt}
}

// Snapshot returns a copy of what is held in memory for userID.
func (c *Controller) Snapshot(userID string) session.Slot {
	return c.sessions.Load(userID)
}

// SweepIdle drops in-memory sessions idle for longer than maxIdle. Their
// next turn recovers from the state list.
func (c *Controller) SweepIdle(maxIdle time.Duration) int {
	return c.sessions.Sweep(maxIdle)
}

// inProgress is the single "a workout is in progress" predicate: a valid
// in-memory session, or a persisted tuple. A partial tuple counts.
func (c *Controller) inProgress(ctx context.Context, userID string, slot session.Slot) (bool, error) {
	if slot.Active.Valid() {
		return true, nil
	}
	_, ok, err := c.state.Read(ctx, userID)
	if errors.Is(err, statelist.ErrIncomplete) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading state list: %w", err)
	}
	return ok, nil
}

func requireUser(op Operation, id Identity) error {
	if id.UserID == "" || !id.Permissions.Lists {
		return &Error{Kind: IdentityUnavailable, Op: op}
	}
	return nil
}

func requireEmail(op Operation, id Identity) error {
	if err := requireUser(op, id); err != nil {
		return err
	}
	if id.Email == "" {
		return &Error{Kind: IdentityUnavailable, Op: op}
	}
	return nil
}

// fail classifies err, logs it at the level its kind deserves and returns
// the *Error handed to the caller.
func (c *Controller) fail(op Operation, id Identity, err error) error {
	var e *Error
	if !errors.As(err, &e) {
		e = &Error{Kind: classify(err), Err: err}
	}
	if e.Op == "" {
		e.Op = op
	}
	switch e.Kind {
	case InconsistentState:
		c.log.Error("persisted session does not match workout", "op", op, "user", id.UserID, "error", e.Err)
	case FetchFailed:
		c.log.Warn("turn failed", "op", op, "user", id.UserID, "error", e.Err)
	default:
		c.log.Debug("turn rejected", "op", op, "user", id.UserID, "kind", e.Kind)
	}
	return e
}

func (c *Controller) failurePrompt(op Operation, err error) Prompt {
	var e *Error
	if !errors.As(err, &e) {
		e = &Error{Kind: classify(err), Op: op, Err: err}
	}
	data := FailureData{Kind: e.Kind, Op: op, Subject: e.Subject, Workouts: e.Workouts}
	t := c.render.Failure(data)
	return Prompt{
		Kind:       PromptFailure,
		Speech:     t.Speech,
		Reprompt:   t.Reprompt,
		EndSession: t.Reprompt == "",
		Error:      e.Kind,
		Data:       data,
	}
}
