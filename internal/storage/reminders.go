package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meutreino/skill/internal/models"
)

// CreateReminder stores a reminder due OffsetSeconds from now and returns
// its token. The due time is computed by the database clock.
func (db *DB) CreateReminder(ctx context.Context, owner string, req models.ReminderRequest) (string, error) {
	token := uuid.NewString()
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO reminders (token, owner, due_at, locale, label, text)
		 VALUES ($1, $2, NOW() + make_interval(secs => $3), $4, $5, $6)`,
		token, owner, req.OffsetSeconds, req.Locale, req.Label, req.Text)
	if err != nil {
		return "", fmt.Errorf("inserting reminder: %w", err)
	}
	return token, nil
}

// DeleteReminder removes an undelivered reminder.
func (db *DB) DeleteReminder(ctx context.Context, owner, token string) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM reminders WHERE token = $1 AND owner = $2 AND delivered_at IS NULL`, token, owner)
	if err != nil {
		return fmt.Errorf("deleting reminder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("reminder %s: %w", token, models.ErrNotFound)
	}
	return nil
}

// DueReminders returns up to limit undelivered reminders due at or before now.
func (db *DB) DueReminders(ctx context.Context, now time.Time, limit int) ([]models.Reminder, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT token, owner, due_at, locale, label, text, created_at, delivered_at FROM reminders
		 WHERE delivered_at IS NULL AND due_at <= $1 ORDER BY due_at LIMIT $2`,
		now, limit)
	if err != nil {
		return nil, fmt.Errorf("querying due reminders: %w", err)
	}
	defer rows.Close()
	return scanReminders(rows)
}

// MarkDelivered records that a reminder was handed to the notifier.
func (db *DB) MarkDelivered(ctx context.Context, token string, at time.Time) error {
	_, err := db.Pool.Exec(ctx, `UPDATE reminders SET delivered_at = $2 WHERE token = $1`, token, at)
	if err != nil {
		return fmt.Errorf("marking reminder %s delivered: %w", token, err)
	}
	return nil
}

// PendingReminders returns the undelivered reminders of owner.
func (db *DB) PendingReminders(ctx context.Context, owner string) ([]models.Reminder, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT token, owner, due_at, locale, label, text, created_at, delivered_at FROM reminders
		 WHERE owner = $1 AND delivered_at IS NULL ORDER BY due_at`, owner)
	if err != nil {
		return nil, fmt.Errorf("querying pending reminders: %w", err)
	}
	defer rows.Close()
	return scanReminders(rows)
}

func scanReminders(rows pgx.Rows) ([]models.Reminder, error) {
	var result []models.Reminder
	for rows.Next() {
		var r models.Reminder
		if err := rows.Scan(&r.Token, &r.Owner, &r.DueAt, &r.Locale, &r.Label, &r.Text,
			&r.CreatedAt, &r.DeliveredAt); err != nil {
			return nil, fmt.Errorf("scanning reminder: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
