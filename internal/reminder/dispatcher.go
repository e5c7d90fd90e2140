package reminder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/meutreino/skill/internal/models"
)

// Store lists due reminders and records delivery.
type Store interface {
	DueReminders(ctx context.Context, now time.Time, limit int) ([]models.Reminder, error)
	MarkDelivered(ctx context.Context, token string, at time.Time) error
}

// Notifier delivers one reminder to the user's device.
type Notifier interface {
	Notify(ctx context.Context, r models.Reminder) error
}

// Dispatcher polls the store and hands due reminders to a notifier.
type Dispatcher struct {
	store    Store
	notifier Notifier
	interval time.Duration
	batch    int
	log      *slog.Logger
	now      func() time.Time
}

// NewDispatcher creates a dispatcher polling every interval.
func NewDispatcher(store Store, notifier Notifier, interval time.Duration, log *slog.Logger) *Dispatcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &Dispatcher{
		store:    store,
		notifier: notifier,
		interval: interval,
		batch:    100,
		log:      log,
		now:      time.Now,
	}
}

// Run dispatches until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := d.DispatchDue(ctx); err != nil && ctx.Err() == nil {
				d.log.Warn("reminder dispatch failed", "error", err)
			}
		}
	}
}

// DispatchDue delivers every reminder due now and returns how many were
// delivered. A reminder whose notify fails stays pending for the next poll.
func (d *Dispatcher) DispatchDue(ctx context.Context) (int, error) {
	now := d.now()
	due, err := d.store.DueReminders(ctx, now, d.batch)
	if err != nil {
		return 0, err
	}
	delivered := 0
	for _, r := range due {
		if err := d.notifier.Notify(ctx, r); err != nil {
			d.log.Warn("reminder delivery failed", "token", r.Token, "user", r.Owner, "error", err)
			continue
		}
		if err := d.store.MarkDelivered(ctx, r.Token, now); err != nil {
			return delivered, err
		}
		delivered++
	}
	return delivered, nil
}

// LogNotifier writes reminders to the log. Used when no webhook is set.
type LogNotifier struct {
	Log *slog.Logger
}

// Notify implements Notifier.
func (n LogNotifier) Notify(_ context.Context, r models.Reminder) error {
	n.Log.Info("reminder due", "user", r.Owner, "token", r.Token, "locale", r.Locale, "text", r.Text)
	return nil
}

// WebhookNotifier POSTs each reminder as JSON to a URL.
type WebhookNotifier struct {
	url        string
	httpClient *http.Client
}

// NewWebhookNotifier creates a notifier posting to url.
func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify implements Notifier.
func (n *WebhookNotifier) Notify(ctx context.Context, r models.Reminder) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling reminder: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("posting reminder: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook failed (status %d): %s", resp.StatusCode, body)
	}
	return nil
}
