package litestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meutreino/skill/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(filepath.Join(dir, "nested", "state.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(filepath.Join(dir, "nested"))
	assert.NoError(t, err)
}

func TestListLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	l, err := db.CreateList(ctx, "alice", "Meu_Treino_Internal")
	require.NoError(t, err)
	assert.Equal(t, models.ListActive, l.State)

	for _, v := range []string{"A=1", "B=2", "C=3"} {
		_, err := db.CreateItem(ctx, "alice", l.ID, v)
		require.NoError(t, err)
	}

	items, err := db.ListItems(ctx, "alice", l.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "A=1", items[0].Value)
	assert.Equal(t, "C=3", items[2].Value)

	lists, err := db.ListsMetadata(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, lists, 1)

	require.NoError(t, db.DeleteList(ctx, "alice", l.ID))

	lists, err = db.ListsMetadata(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, lists)

	_, err = db.ListItems(ctx, "alice", l.ID)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestListsAreScopedByOwner(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	l, err := db.CreateList(ctx, "alice", "x")
	require.NoError(t, err)

	lists, err := db.ListsMetadata(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, lists)

	err = db.DeleteList(ctx, "bob", l.ID)
	assert.True(t, errors.Is(err, models.ErrNotFound))

	_, err = db.CreateItem(ctx, "bob", l.ID, "A=1")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestReminderLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	db.now = func() int64 { return base.UnixMilli() }

	token, err := db.CreateReminder(ctx, "alice", models.ReminderRequest{OffsetSeconds: 90, Locale: "pt-BR", Text: "hi"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	due, err := db.DueReminders(ctx, base.Add(time.Minute), 10)
	require.NoError(t, err)
	assert.Empty(t, due, "not due yet")

	due, err = db.DueReminders(ctx, base.Add(90*time.Second), 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "alice", due[0].Owner)
	assert.Equal(t, base.Add(90*time.Second), due[0].DueAt)

	require.NoError(t, db.MarkDelivered(ctx, token, base.Add(90*time.Second)))

	due, err = db.DueReminders(ctx, base.Add(time.Hour), 10)
	require.NoError(t, err)
	assert.Empty(t, due)

	err = db.DeleteReminder(ctx, "alice", token)
	assert.True(t, errors.Is(err, models.ErrNotFound), "delivered reminders cannot be deleted")
}

func TestDeleteReminder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	token, err := db.CreateReminder(ctx, "alice", models.ReminderRequest{OffsetSeconds: 30})
	require.NoError(t, err)

	pending, err := db.PendingReminders(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	require.NoError(t, db.DeleteReminder(ctx, "alice", token))

	pending, err = db.PendingReminders(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, pending)
}
