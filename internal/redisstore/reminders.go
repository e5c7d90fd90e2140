package redisstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/meutreino/skill/internal/models"
)

// CreateReminder stores a reminder due OffsetSeconds from now and returns
// its token.
func (s *Store) CreateReminder(ctx context.Context, owner string, req models.ReminderRequest) (string, error) {
	token := uuid.NewString()
	now := s.now()
	due := now.Add(time.Duration(req.OffsetSeconds) * time.Second)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.reminderKey(token),
			"owner", owner,
			"due_at", due.UnixMilli(),
			"locale", req.Locale,
			"label", req.Label,
			"text", req.Text,
			"created_at", now.UnixMilli())
		pipe.ZAdd(ctx, s.dueKey(), redis.Z{Score: float64(due.UnixMilli()), Member: token})
		pipe.SAdd(ctx, s.ownerRemindersKey(owner), token)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("creating reminder: %w", err)
	}
	return token, nil
}

// DeleteReminder removes an undelivered reminder.
func (s *Store) DeleteReminder(ctx context.Context, owner, token string) error {
	got, err := s.rdb.HGet(ctx, s.reminderKey(token), "owner").Result()
	if errors.Is(err, redis.Nil) || (err == nil && got != owner) {
		return fmt.Errorf("reminder %s: %w", token, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("reading reminder: %w", err)
	}
	n, err := s.rdb.ZRem(ctx, s.dueKey(), token).Result()
	if err != nil {
		return fmt.Errorf("unscheduling reminder: %w", err)
	}
	if n == 0 {
		// Already delivered.
		return fmt.Errorf("reminder %s: %w", token, models.ErrNotFound)
	}
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.reminderKey(token))
		pipe.SRem(ctx, s.ownerRemindersKey(owner), token)
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting reminder: %w", err)
	}
	return nil
}

// DueReminders returns up to limit undelivered reminders due at or before now.
func (s *Store) DueReminders(ctx context.Context, now time.Time, limit int) ([]models.Reminder, error) {
	tokens, err := s.rdb.ZRangeByScore(ctx, s.dueKey(), &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.UnixMilli(), 10),
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("querying due reminders: %w", err)
	}
	return s.load(ctx, tokens)
}

// MarkDelivered records that a reminder was handed to the notifier. The
// record expires after DeliveredTTL.
func (s *Store) MarkDelivered(ctx context.Context, token string, at time.Time) error {
	owner, err := s.rdb.HGet(ctx, s.reminderKey(token), "owner").Result()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("reminder %s: %w", token, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("reading reminder: %w", err)
	}
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRem(ctx, s.dueKey(), token)
		pipe.SRem(ctx, s.ownerRemindersKey(owner), token)
		pipe.HSet(ctx, s.reminderKey(token), "delivered_at", at.UnixMilli())
		pipe.Expire(ctx, s.reminderKey(token), DeliveredTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("marking reminder %s delivered: %w", token, err)
	}
	return nil
}

// PendingReminders returns the undelivered reminders of owner, soonest first.
func (s *Store) PendingReminders(ctx context.Context, owner string) ([]models.Reminder, error) {
	tokens, err := s.rdb.SMembers(ctx, s.ownerRemindersKey(owner)).Result()
	if err != nil {
		return nil, fmt.Errorf("querying pending reminders: %w", err)
	}
	result, err := s.load(ctx, tokens)
	if err != nil {
		return nil, err
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DueAt.Before(result[j].DueAt) })
	return result, nil
}

func (s *Store) load(ctx context.Context, tokens []string) ([]models.Reminder, error) {
	result := make([]models.Reminder, 0, len(tokens))
	for _, token := range tokens {
		fields, err := s.rdb.HGetAll(ctx, s.reminderKey(token)).Result()
		if err != nil {
			return nil, fmt.Errorf("reading reminder %s: %w", token, err)
		}
		if len(fields) == 0 {
			continue
		}
		result = append(result, decodeReminder(token, fields))
	}
	return result, nil
}

func decodeReminder(token string, fields map[string]string) models.Reminder {
	r := models.Reminder{
		Token:     token,
		Owner:     fields["owner"],
		DueAt:     parseMillis(fields["due_at"]),
		Locale:    fields["locale"],
		Label:     fields["label"],
		Text:      fields["text"],
		CreatedAt: parseMillis(fields["created_at"]),
	}
	if v, ok := fields["delivered_at"]; ok {
		t := parseMillis(v)
		r.DeliveredAt = &t
	}
	return r
}
