package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/meutreino/skill/internal/models"
)

// ListsMetadata returns every list owned by owner, oldest first.
func (s *Store) ListsMetadata(ctx context.Context, owner string) ([]models.StateList, error) {
	ids, err := s.rdb.LRange(ctx, s.ownerListsKey(owner), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading list index: %w", err)
	}
	result := make([]models.StateList, 0, len(ids))
	for _, id := range ids {
		fields, err := s.rdb.HGetAll(ctx, s.listKey(id)).Result()
		if err != nil {
			return nil, fmt.Errorf("reading list %s: %w", id, err)
		}
		if len(fields) == 0 {
			// Index entry outlived its list.
			continue
		}
		result = append(result, models.StateList{
			ID:        id,
			Owner:     owner,
			Name:      fields["name"],
			State:     fields["state"],
			CreatedAt: parseMillis(fields["created_at"]),
		})
	}
	return result, nil
}

// CreateList creates an active list named name.
func (s *Store) CreateList(ctx context.Context, owner, name string) (models.StateList, error) {
	l := models.StateList{
		ID:        uuid.NewString(),
		Owner:     owner,
		Name:      name,
		State:     models.ListActive,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.listKey(l.ID),
			"owner", owner,
			"name", name,
			"state", l.State,
			"created_at", l.CreatedAt.UnixMilli())
		pipe.RPush(ctx, s.ownerListsKey(owner), l.ID)
		return nil
	})
	if err != nil {
		return models.StateList{}, fmt.Errorf("creating list: %w", err)
	}
	return l, nil
}

// DeleteList removes a list and its items.
func (s *Store) DeleteList(ctx context.Context, owner, listID string) error {
	if err := s.ownsList(ctx, owner, listID); err != nil {
		return err
	}
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.listKey(listID), s.itemsKey(listID))
		pipe.LRem(ctx, s.ownerListsKey(owner), 0, listID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting list: %w", err)
	}
	return nil
}

// CreateItem appends an active entry to a list.
func (s *Store) CreateItem(ctx context.Context, owner, listID, value string) (models.ListItem, error) {
	if err := s.ownsList(ctx, owner, listID); err != nil {
		return models.ListItem{}, err
	}
	it := models.ListItem{
		ID:        uuid.NewString(),
		ListID:    listID,
		Value:     value,
		Status:    models.ListActive,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	data, err := json.Marshal(it)
	if err != nil {
		return models.ListItem{}, fmt.Errorf("encoding list item: %w", err)
	}
	if err := s.rdb.RPush(ctx, s.itemsKey(listID), data).Err(); err != nil {
		return models.ListItem{}, fmt.Errorf("appending list item: %w", err)
	}
	return it, nil
}

// ListItems returns the entries of a list in creation order.
func (s *Store) ListItems(ctx context.Context, owner, listID string) ([]models.ListItem, error) {
	if err := s.ownsList(ctx, owner, listID); err != nil {
		return nil, err
	}
	raw, err := s.rdb.LRange(ctx, s.itemsKey(listID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading list items: %w", err)
	}
	result := make([]models.ListItem, 0, len(raw))
	for _, r := range raw {
		var it models.ListItem
		if err := json.Unmarshal([]byte(r), &it); err != nil {
			return nil, fmt.Errorf("decoding list item: %w", err)
		}
		result = append(result, it)
	}
	return result, nil
}

func (s *Store) ownsList(ctx context.Context, owner, listID string) error {
	got, err := s.rdb.HGet(ctx, s.listKey(listID), "owner").Result()
	if errors.Is(err, redis.Nil) || (err == nil && got != owner) {
		return fmt.Errorf("list %s: %w", listID, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("checking list: %w", err)
	}
	return nil
}

func parseMillis(s string) time.Time {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
