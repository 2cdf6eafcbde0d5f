package models

import "errors"

// Sentinel domain errors. Repositories and services return these
// (possibly wrapped); handlers map them to HTTP status codes.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrValidation        = errors.New("invalid input")
	ErrEmptyName         = errors.New("name must not be empty")
	ErrEmailTaken        = errors.New("email already registered")
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrNotMember         = errors.New("not a member of this team")
	ErrNotAdmin          = errors.New("admin role required")
	ErrAlreadyMember     = errors.New("user is already a team member")
	ErrInviteExpired     = errors.New("invitation has expired")
	ErrInviteRevoked     = errors.New("invitation has been revoked")
	ErrTokenExpired      = errors.New("token is expired or already used")
)

// ErrorResponse is the JSON error envelope returned by every handler.
type ErrorResponse struct {
	Error string `json:"error"`
}
