package models

import "time"

// AgendaTemplate is a reusable named agenda a user can apply to seed a
// series' agenda items.
type AgendaTemplate struct {
	ID        int64                `json:"template_id"`
	Name      string               `json:"name"`
	CreatedBy int64                `json:"created_by"`
	CreatedAt time.Time            `json:"created_at"`
	Items     []AgendaTemplateItem `json:"items,omitempty"`
}

type AgendaTemplateItem struct {
	ID              int64  `json:"id"`
	TemplateID      int64  `json:"template_id"`
	Title           string `json:"title"`
	DurationMinutes *int   `json:"duration_minutes,omitempty"`
	OrderIndex      int    `json:"order_index"`
}
