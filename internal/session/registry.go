package session

import (
	"sync"
	"time"

	"github.com/meutreino/skill/internal/models"
)

// Slot is everything kept in memory for one identity between turns. Any of
// it may be lost at a turn boundary.
type Slot struct {
	Active *State
	Held   *State
	// Workouts caches the catalog listing fetched at launch.
	Workouts []models.Workout
	// ReminderID is the outstanding reminder token. It outlives Active when
	// the final interval is scheduled. Empty after memory loss, in which
	// case cancelling falls back to the owner's pending reminders.
	ReminderID string
	// FirstTime is set by launch when the state container had to be
	// created, and consumed by the next start.
	FirstTime bool
	UpdatedAt time.Time
}

// Status derives the lifecycle status of the slot.
func (s Slot) Status() Status {
	switch {
	case s.Active != nil:
		return Active
	case s.Held != nil:
		return Held
	default:
		return NoSession
	}
}

// Registry owns the in-memory slots keyed by identity.
type Registry struct {
	mu    sync.Mutex
	slots map[string]Slot
	now   func() time.Time
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{slots: make(map[string]Slot), now: time.Now}
}

// Load returns the slot for id. A missing slot is the zero Slot.
func (r *Registry) Load(id string) Slot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.slots[id]
}

// Store replaces the slot for id.
func (r *Registry) Store(id string, s Slot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.UpdatedAt = r.now()
	r.slots[id] = s
}

// Sweep drops slots not touched within maxIdle and returns how many were
// dropped. Sessions swept this way are rebuilt by recovery on the next turn.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-maxIdle)
	n := 0
	for id, s := range r.slots {
		if s.UpdatedAt.Before(cutoff) {
			delete(r.slots, id)
			n++
		}
	}
	return n
}

// Len returns the number of identities with a slot.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slots)
}
