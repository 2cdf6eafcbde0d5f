package models

import "time"

// Completion states shared by priorities, topics and action items.
const (
	StatusPending      = "pending"
	StatusCompleted    = "completed"
	StatusNotCompleted = "not_completed"
)

// Item kinds, used by comments to address any item by (type, id).
const (
	ItemTypeAgenda   = "agenda_item"
	ItemTypePriority = "priority"
	ItemTypeTopic    = "topic"
	ItemTypeAction   = "action_item"
)

// AgendaItem is series-scoped: every instance of the series shows the
// same agenda, so editing one affects all future instance views.
type AgendaItem struct {
	ID          int64     `json:"id"`
	SeriesID    int64     `json:"series_id"`
	Title       string    `json:"title"`
	TimeMinutes *int      `json:"time_minutes,omitempty"`
	OrderIndex  int       `json:"order_index"`
	CreatedBy   int64     `json:"created_by"`
	AssignedTo  *int64    `json:"assigned_to,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Priority is instance-scoped and never carried to the next instance.
type Priority struct {
	ID               int64     `json:"id"`
	InstanceID       int64     `json:"instance_id"`
	Title            string    `json:"title"`
	Outcome          string    `json:"outcome"`
	Activities       string    `json:"activities"`
	OrderIndex       int       `json:"order_index"`
	AssignedTo       *int64    `json:"assigned_to,omitempty"`
	CompletionStatus string    `json:"completion_status"`
	CreatedAt        time.Time `json:"created_at"`
}

// Topic is instance-scoped discussion item; a fresh instance always
// starts with zero topics.
type Topic struct {
	ID               int64     `json:"id"`
	InstanceID       int64     `json:"instance_id"`
	Title            string    `json:"title"`
	Notes            string    `json:"notes,omitempty"`
	TimeMinutes      *int      `json:"time_minutes,omitempty"`
	OrderIndex       int       `json:"order_index"`
	AssignedTo       *int64    `json:"assigned_to,omitempty"`
	CompletionStatus string    `json:"completion_status"`
	CreatedAt        time.Time `json:"created_at"`
}

// ActionItem is series-scoped but displayed per instance through the
// activity window: visible while created before the period's end and
// not completed before the period's start.
type ActionItem struct {
	ID               int64      `json:"id"`
	SeriesID         int64      `json:"series_id"`
	Title            string     `json:"title"`
	Notes            string     `json:"notes,omitempty"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	AssignedTo       *int64     `json:"assigned_to,omitempty"`
	CompletionStatus string     `json:"completion_status"`
	OrderIndex       int        `json:"order_index"`
	CreatedAt        time.Time  `json:"created_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}
