// Package redisstore is the Redis backend for the state lists and reminders.
//
// Layout, all under a configurable prefix:
//
//	<p>:lists:<owner>          LIST of list ids, oldest first
//	<p>:list:<id>              HASH owner, name, state, created_at
//	<p>:list:<id>:items        LIST of JSON-encoded items
//	<p>:reminder:<token>       HASH of the reminder fields
//	<p>:reminders:due          ZSET of undelivered tokens scored by due time (unix ms)
//	<p>:reminders:owner:<o>    SET of undelivered tokens of owner o
package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultPrefix is the key prefix used when none is configured.
const DefaultPrefix = "meutreino"

// DeliveredTTL is how long a delivered reminder is kept for inspection.
const DeliveredTTL = 24 * time.Hour

// Store keeps lists and reminders in Redis.
type Store struct {
	rdb    redis.Cmdable
	prefix string
	now    func() time.Time
}

// New returns a store using rdb. An empty prefix means DefaultPrefix.
func New(rdb redis.Cmdable, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{rdb: rdb, prefix: prefix, now: time.Now}
}

// Ping checks the Redis connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) ownerListsKey(owner string) string {
	return fmt.Sprintf("%s:lists:%s", s.prefix, owner)
}

func (s *Store) listKey(id string) string {
	return fmt.Sprintf("%s:list:%s", s.prefix, id)
}

func (s *Store) itemsKey(id string) string {
	return fmt.Sprintf("%s:list:%s:items", s.prefix, id)
}

func (s *Store) reminderKey(token string) string {
	return fmt.Sprintf("%s:reminder:%s", s.prefix, token)
}

func (s *Store) dueKey() string {
	return s.prefix + ":reminders:due"
}

func (s *Store) ownerRemindersKey(owner string) string {
	return fmt.Sprintf("%s:reminders:owner:%s", s.prefix, owner)
}
