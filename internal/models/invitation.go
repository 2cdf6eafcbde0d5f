package models

import "time"

// Invitation states.
const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusRevoked  = "revoked"
)

// Invitation is an emailed invite into a team. Accepting one creates
// the team_members row and marks the invitation accepted.
type Invitation struct {
	ID        int64      `json:"id"`
	TeamID    int64      `json:"team_id"`
	Email     string     `json:"email"`
	InvitedBy int64      `json:"invited_by"`
	Status    string     `json:"status"`
	Token     string     `json:"-"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
