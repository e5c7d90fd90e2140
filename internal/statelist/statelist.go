// Package statelist persists the session recovery tuple as KEY=VALUE entries
// in a named list owned by the user.
//
// Every write deletes the previous container, creates a fresh one and then
// adds one entry per field. A crash mid-write can leave an empty or partial
// list, which Read reports as ErrIncomplete, but a list never mixes entries
// from two different turns.
package statelist

import (
	"context"
	"fmt"

	"github.com/meutreino/skill/internal/models"
	"github.com/meutreino/skill/internal/session"
)

// DefaultListName is the container name used for session state.
const DefaultListName = "Meu_Treino_Internal"

// Service is the list storage consumed by the adapter.
type Service interface {
	ListsMetadata(ctx context.Context, owner string) ([]models.StateList, error)
	CreateList(ctx context.Context, owner, name string) (models.StateList, error)
	DeleteList(ctx context.Context, owner, listID string) error
	CreateItem(ctx context.Context, owner, listID, value string) (models.ListItem, error)
	ListItems(ctx context.Context, owner, listID string) ([]models.ListItem, error)
}

// Adapter reads and writes recovery tuples through a Service.
type Adapter struct {
	svc  Service
	name string
}

// New returns an adapter using the default list name.
func New(svc Service) *Adapter {
	return &Adapter{svc: svc, name: DefaultListName}
}

// WithName returns a copy of a that uses a different container name.
func (a *Adapter) WithName(name string) *Adapter {
	return &Adapter{svc: a.svc, name: name}
}

// find returns the ids of every container with the adapter's name.
func (a *Adapter) find(ctx context.Context, owner string) ([]string, error) {
	lists, err := a.svc.ListsMetadata(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("listing containers: %w", err)
	}
	var ids []string
	for _, l := range lists {
		if l.Name == a.name {
			ids = append(ids, l.ID)
		}
	}
	return ids, nil
}

// Ensure creates the container if it does not exist. created reports
// whether this was the first time.
func (a *Adapter) Ensure(ctx context.Context, owner string) (created bool, err error) {
	ids, err := a.find(ctx, owner)
	if err != nil {
		return false, err
	}
	if len(ids) > 0 {
		return false, nil
	}
	if _, err := a.svc.CreateList(ctx, owner, a.name); err != nil {
		return false, fmt.Errorf("creating container: %w", err)
	}
	return true, nil
}

// Write replaces the persisted tuple with t.
func (a *Adapter) Write(ctx context.Context, owner string, t session.RecoveryTuple) error {
	listID, err := a.recreate(ctx, owner)
	if err != nil {
		return err
	}
	for _, value := range Encode(t) {
		if _, err := a.svc.CreateItem(ctx, owner, listID, value); err != nil {
			return fmt.Errorf("creating entry: %w", err)
		}
	}
	return nil
}

// Reset leaves an empty container in place of the persisted tuple.
func (a *Adapter) Reset(ctx context.Context, owner string) error {
	_, err := a.recreate(ctx, owner)
	return err
}

func (a *Adapter) recreate(ctx context.Context, owner string) (string, error) {
	if err := a.Clear(ctx, owner); err != nil {
		return "", err
	}
	list, err := a.svc.CreateList(ctx, owner, a.name)
	if err != nil {
		return "", fmt.Errorf("creating container: %w", err)
	}
	return list.ID, nil
}

// Read returns the persisted tuple. ok is false when no session is stored.
func (a *Adapter) Read(ctx context.Context, owner string) (t session.RecoveryTuple, ok bool, err error) {
	ids, err := a.find(ctx, owner)
	if err != nil {
		return session.RecoveryTuple{}, false, err
	}
	if len(ids) == 0 {
		return session.RecoveryTuple{}, false, nil
	}
	items, err := a.svc.ListItems(ctx, owner, ids[0])
	if err != nil {
		return session.RecoveryTuple{}, false, fmt.Errorf("reading entries: %w", err)
	}
	values := make([]string, 0, len(items))
	for _, it := range items {
		if it.Status == "" || it.Status == models.ListActive {
			values = append(values, it.Value)
		}
	}
	return Decode(values)
}

// Clear removes every container with the adapter's name.
func (a *Adapter) Clear(ctx context.Context, owner string) error {
	ids, err := a.find(ctx, owner)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := a.svc.DeleteList(ctx, owner, id); err != nil {
			return fmt.Errorf("deleting container: %w", err)
		}
	}
	return nil
}
