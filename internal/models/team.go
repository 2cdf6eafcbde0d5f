package models

import "time"

// Team roles. Admins may edit the team, manage invitations and change
// member roles; members may read and edit meeting content.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type Team struct {
	ID              int64     `json:"team_id"`
	Name            string    `json:"name"`
	AbbreviatedName string    `json:"abbreviated_name,omitempty"`
	CreatedBy       int64     `json:"created_by"`
	InviteCode      string    `json:"invite_code"`
	CreatedAt       time.Time `json:"created_at"`
}

// TeamMember links a user to a team. One row per (team_id, user_id).
type TeamMember struct {
	ID        int64     `json:"id"`
	TeamID    int64     `json:"team_id"`
	UserID    int64     `json:"user_id"`
	Role      string    `json:"role"`
	JoinedAt  time.Time `json:"joined_at"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Email     string    `json:"email,omitempty"`
}
