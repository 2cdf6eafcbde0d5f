package models

import "time"

// Comment is a free-standing discussion entry attached to any item by
// (item_type, item_id).
type Comment struct {
	ID        int64     `json:"id"`
	ItemType  string    `json:"item_type"`
	ItemID    int64     `json:"item_id"`
	CreatedBy int64     `json:"created_by"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
}
