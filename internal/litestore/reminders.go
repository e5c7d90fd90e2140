package litestore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meutreino/skill/internal/models"
)

// CreateReminder stores a reminder due OffsetSeconds from now and returns
// its token.
func (d *DB) CreateReminder(ctx context.Context, owner string, req models.ReminderRequest) (string, error) {
	token := uuid.NewString()
	now := d.now()
	due := now + int64(req.OffsetSeconds)*1000
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO reminders (token, owner, due_at, locale, label, text, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		token, owner, due, req.Locale, req.Label, req.Text, now)
	if err != nil {
		return "", fmt.Errorf("inserting reminder: %w", err)
	}
	return token, nil
}

// DeleteReminder removes an undelivered reminder.
func (d *DB) DeleteReminder(ctx context.Context, owner, token string) error {
	res, err := d.db.ExecContext(ctx,
		`DELETE FROM reminders WHERE token = ? AND owner = ? AND delivered_at IS NULL`, token, owner)
	if err != nil {
		return fmt.Errorf("deleting reminder: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("reminder %s: %w", token, models.ErrNotFound)
	}
	return nil
}

// DueReminders returns up to limit undelivered reminders due at or before now.
func (d *DB) DueReminders(ctx context.Context, now time.Time, limit int) ([]models.Reminder, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT token, owner, due_at, locale, label, text, created_at FROM reminders
		 WHERE delivered_at IS NULL AND due_at <= ? ORDER BY due_at LIMIT ?`,
		now.UnixMilli(), limit)
	if err != nil {
		return nil, fmt.Errorf("querying due reminders: %w", err)
	}
	defer rows.Close()

	var result []models.Reminder
	for rows.Next() {
		var r models.Reminder
		var due, created int64
		if err := rows.Scan(&r.Token, &r.Owner, &due, &r.Locale, &r.Label, &r.Text, &created); err != nil {
			return nil, fmt.Errorf("scanning reminder: %w", err)
		}
		r.DueAt = time.UnixMilli(due).UTC()
		r.CreatedAt = time.UnixMilli(created).UTC()
		result = append(result, r)
	}
	return result, rows.Err()
}

// MarkDelivered records that a reminder was handed to the notifier.
func (d *DB) MarkDelivered(ctx context.Context, token string, at time.Time) error {
	_, err := d.db.ExecContext(ctx,
		`UPDATE reminders SET delivered_at = ? WHERE token = ?`, at.UnixMilli(), token)
	if err != nil {
		return fmt.Errorf("marking reminder delivered: %w", err)
	}
	return nil
}

// PendingReminders returns the undelivered reminders of owner.
func (d *DB) PendingReminders(ctx context.Context, owner string) ([]models.Reminder, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT token, due_at, locale, label, text, created_at FROM reminders
		 WHERE owner = ? AND delivered_at IS NULL ORDER BY due_at`, owner)
	if err != nil {
		return nil, fmt.Errorf("querying pending reminders: %w", err)
	}
	defer rows.Close()

	var result []models.Reminder
	for rows.Next() {
		r := models.Reminder{Owner: owner}
		var due, created int64
		if err := rows.Scan(&r.Token, &due, &r.Locale, &r.Label, &r.Text, &created); err != nil {
			return nil, fmt.Errorf("scanning reminder: %w", err)
		}
		r.DueAt = time.UnixMilli(due).UTC()
		r.CreatedAt = time.UnixMilli(created).UTC()
		result = append(result, r)
	}
	return result, rows.Err()
}
