package models

import "time"

// ReminderRequest asks for a one-shot notification due OffsetSeconds after
// the request is accepted.
type ReminderRequest struct {
	OffsetSeconds int    `json:"offset_seconds"`
	Locale        string `json:"locale"`
	Label         string `json:"label"`
	Text          string `json:"text"`
}

// Reminder is a scheduled notification as stored by a reminder backend.
type Reminder struct {
	Token       string     `json:"token"`
	Owner       string     `json:"owner"`
	DueAt       time.Time  `json:"due_at"`
	Locale      string     `json:"locale"`
	Label       string     `json:"label"`
	Text        string     `json:"text"`
	CreatedAt   time.Time  `json:"created_at"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}
