package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/meutreino/skill/internal/models"
)

// ListsMetadata returns every list owned by owner, oldest first.
func (db *DB) ListsMetadata(ctx context.Context, owner string) ([]models.StateList, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, state, created_at FROM state_lists WHERE owner = $1 ORDER BY seq`, owner)
	if err != nil {
		return nil, fmt.Errorf("querying lists: %w", err)
	}
	defer rows.Close()

	var result []models.StateList
	for rows.Next() {
		l := models.StateList{Owner: owner}
		if err := rows.Scan(&l.ID, &l.Name, &l.State, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning list: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

// CreateList creates an active list named name.
func (db *DB) CreateList(ctx context.Context, owner, name string) (models.StateList, error) {
	l := models.StateList{ID: uuid.NewString(), Owner: owner, Name: name, State: models.ListActive}
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO state_lists (id, owner, name, state) VALUES ($1, $2, $3, $4) RETURNING created_at`,
		l.ID, owner, name, l.State).Scan(&l.CreatedAt)
	if err != nil {
		return models.StateList{}, fmt.Errorf("inserting list: %w", err)
	}
	return l, nil
}

// DeleteList removes a list and, by cascade, its items.
func (db *DB) DeleteList(ctx context.Context, owner, listID string) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM state_lists WHERE id = $1 AND owner = $2`, listID, owner)
	if err != nil {
		return fmt.Errorf("deleting list: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("list %s: %w", listID, models.ErrNotFound)
	}
	return nil
}

// CreateItem appends an active entry to a list owned by owner.
func (db *DB) CreateItem(ctx context.Context, owner, listID, value string) (models.ListItem, error) {
	it := models.ListItem{ID: uuid.NewString(), ListID: listID, Value: value, Status: models.ListActive}
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO state_list_items (id, list_id, value, status)
		 SELECT $1, id, $3, $4 FROM state_lists WHERE id = $2 AND owner = $5
		 RETURNING created_at`,
		it.ID, listID, value, it.Status, owner).Scan(&it.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return models.ListItem{}, fmt.Errorf("list %s: %w", listID, models.ErrNotFound)
		}
		return models.ListItem{}, fmt.Errorf("inserting list item: %w", err)
	}
	return it, nil
}

// ListItems returns the entries of a list in creation order.
func (db *DB) ListItems(ctx context.Context, owner, listID string) ([]models.ListItem, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM state_lists WHERE id = $1 AND owner = $2)`, listID, owner).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking list: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("list %s: %w", listID, models.ErrNotFound)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT id, value, status, created_at FROM state_list_items WHERE list_id = $1 ORDER BY seq`, listID)
	if err != nil {
		return nil, fmt.Errorf("querying list items: %w", err)
	}
	defer rows.Close()

	var result []models.ListItem
	for rows.Next() {
		it := models.ListItem{ListID: listID}
		if err := rows.Scan(&it.ID, &it.Value, &it.Status, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning list item: %w", err)
		}
		result = append(result, it)
	}
	return result, rows.Err()
}
