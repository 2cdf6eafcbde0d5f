package models

import "time"

// User is an account row. Password carries the bcrypt hash internally
// and is never serialized.
type User struct {
	ID            int64     `json:"user_id"`
	Email         string    `json:"email"`
	Password      string    `json:"-"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

// PasswordReset is a single-use reset token issued to an email address.
type PasswordReset struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
	UsedAt    *time.Time
}

// EmailVerification is a single-use address-confirmation token.
type EmailVerification struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
}
