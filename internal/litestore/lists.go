package litestore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meutreino/skill/internal/models"
)

func nowMillis() int64 { return time.Now().UnixMilli() }

// ListsMetadata returns every list owned by owner, oldest first.
func (d *DB) ListsMetadata(ctx context.Context, owner string) ([]models.StateList, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, name, state, created_at FROM lists WHERE owner = ? ORDER BY rowid`, owner)
	if err != nil {
		return nil, fmt.Errorf("querying lists: %w", err)
	}
	defer rows.Close()

	var result []models.StateList
	for rows.Next() {
		l := models.StateList{Owner: owner}
		var created int64
		if err := rows.Scan(&l.ID, &l.Name, &l.State, &created); err != nil {
			return nil, fmt.Errorf("scanning list: %w", err)
		}
		l.CreatedAt = time.UnixMilli(created).UTC()
		result = append(result, l)
	}
	return result, rows.Err()
}

// CreateList creates an active list named name.
func (d *DB) CreateList(ctx context.Context, owner, name string) (models.StateList, error) {
	l := models.StateList{
		ID:        uuid.NewString(),
		Owner:     owner,
		Name:      name,
		State:     models.ListActive,
		CreatedAt: time.UnixMilli(d.now()).UTC(),
	}
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO lists (id, owner, name, state, created_at) VALUES (?, ?, ?, ?, ?)`,
		l.ID, owner, name, l.State, l.CreatedAt.UnixMilli())
	if err != nil {
		return models.StateList{}, fmt.Errorf("inserting list: %w", err)
	}
	return l, nil
}

// DeleteList removes a list and its items.
func (d *DB) DeleteList(ctx context.Context, owner, listID string) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM lists WHERE id = ? AND owner = ?`, listID, owner)
	if err != nil {
		return fmt.Errorf("deleting list: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("list %s: %w", listID, models.ErrNotFound)
	}
	return nil
}

// CreateItem appends an active entry to a list.
func (d *DB) CreateItem(ctx context.Context, owner, listID, value string) (models.ListItem, error) {
	if err := d.ownsList(ctx, owner, listID); err != nil {
		return models.ListItem{}, err
	}
	it := models.ListItem{
		ID:        uuid.NewString(),
		ListID:    listID,
		Value:     value,
		Status:    models.ListActive,
		CreatedAt: time.UnixMilli(d.now()).UTC(),
	}
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO list_items (id, list_id, value, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		it.ID, listID, value, it.Status, it.CreatedAt.UnixMilli())
	if err != nil {
		return models.ListItem{}, fmt.Errorf("inserting list item: %w", err)
	}
	return it, nil
}

// ListItems returns the entries of a list in creation order.
func (d *DB) ListItems(ctx context.Context, owner, listID string) ([]models.ListItem, error) {
	if err := d.ownsList(ctx, owner, listID); err != nil {
		return nil, err
	}
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, value, status, created_at FROM list_items WHERE list_id = ? ORDER BY seq`, listID)
	if err != nil {
		return nil, fmt.Errorf("querying list items: %w", err)
	}
	defer rows.Close()

	var result []models.ListItem
	for rows.Next() {
		it := models.ListItem{ListID: listID}
		var created int64
		if err := rows.Scan(&it.ID, &it.Value, &it.Status, &created); err != nil {
			return nil, fmt.Errorf("scanning list item: %w", err)
		}
		it.CreatedAt = time.UnixMilli(created).UTC()
		result = append(result, it)
	}
	return result, rows.Err()
}

func (d *DB) ownsList(ctx context.Context, owner, listID string) error {
	var n int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM lists WHERE id = ? AND owner = ?`, listID, owner).Scan(&n)
	if err != nil {
		return fmt.Errorf("checking list: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("list %s: %w", listID, models.ErrNotFound)
	}
	return nil
}
