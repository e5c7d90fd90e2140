// Package reminder schedules the one-shot rest-interval notifications and
// delivers them when they come due.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/meutreino/skill/internal/models"
)

// ErrPermissionDenied is returned when the user has not granted reminder
// permission.
var ErrPermissionDenied = errors.New("reminder permission not granted")

// DefaultLabel is the title shown with every reminder.
const DefaultLabel = "Intervalo do Meu Treino"

// Service is the reminder backend.
type Service interface {
	CreateReminder(ctx context.Context, owner string, req models.ReminderRequest) (string, error)
	DeleteReminder(ctx context.Context, owner, token string) error
	PendingReminders(ctx context.Context, owner string) ([]models.Reminder, error)
}

// Scheduler keeps at most one outstanding reminder per caller: every
// schedule is preceded by a cancel of the previous token.
type Scheduler struct {
	svc           Service
	locale        string
	label         string
	cancelTimeout time.Duration
	log           *slog.Logger
}

// NewScheduler creates a scheduler that speaks in locale.
func NewScheduler(svc Service, locale string, log *slog.Logger) *Scheduler {
	return &Scheduler{
		svc:           svc,
		locale:        locale,
		label:         DefaultLabel,
		cancelTimeout: 3 * time.Second,
		log:           log,
	}
}

// CancelOutstanding deletes the reminder identified by token. An empty token
// means the token was lost with the in-memory session, so every pending
// reminder of owner is deleted instead. Unknown or already delivered
// reminders, timeouts and any other failure are ignored.
func (s *Scheduler) CancelOutstanding(ctx context.Context, owner, token string) {
	ctx, cancel := context.WithTimeout(ctx, s.cancelTimeout)
	defer cancel()
	if token != "" {
		s.delete(ctx, owner, token)
		return
	}
	pending, err := s.svc.PendingReminders(ctx, owner)
	if err != nil {
		s.log.Debug("pending reminders not listed", "user", owner, "reason", err)
		return
	}
	for _, r := range pending {
		s.delete(ctx, owner, r.Token)
	}
}

func (s *Scheduler) delete(ctx context.Context, owner, token string) {
	if err := s.svc.DeleteReminder(ctx, owner, token); err != nil {
		s.log.Debug("reminder not cancelled", "user", owner, "token", token, "reason", err)
	}
}

// ScheduleRelative creates a reminder due offsetSeconds from now carrying
// text and returns its token. An empty locale falls back to the scheduler's.
func (s *Scheduler) ScheduleRelative(ctx context.Context, owner string, granted bool, offsetSeconds int, locale, text string) (string, error) {
	if !granted {
		return "", ErrPermissionDenied
	}
	if locale == "" {
		locale = s.locale
	}
	token, err := s.svc.CreateReminder(ctx, owner, models.ReminderRequest{
		OffsetSeconds: offsetSeconds,
		Locale:        locale,
		Label:         s.label,
		Text:          text,
	})
	if err != nil {
		return "", fmt.Errorf("creating reminder: %w", err)
	}
	return token, nil
}
