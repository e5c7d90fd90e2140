package models

import "time"

// List states used by the list service.
const (
	ListActive    = "active"
	ListCompleted = "completed"
)

// StateList is a named list container owned by one identity.
type StateList struct {
	ID        string    `json:"list_id"`
	Owner     string    `json:"-"`
	Name      string    `json:"name"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
}

// ListItem is one string entry of a list container.
type ListItem struct {
	ID        string    `json:"id"`
	ListID    string    `json:"list_id"`
	Value     string    `json:"value"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
