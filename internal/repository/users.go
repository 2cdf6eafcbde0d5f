// Package repository holds the SQL data access layer. Every repository
// takes the *sql.DB handle at construction and returns domain models;
// missing rows map to models.ErrNotFound.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tacticalsync/tacticalsync/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u models.User) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (email, password, first_name, last_name, email_verified, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		u.Email, u.Password, u.FirstName, u.LastName, u.EmailVerified, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return res.LastInsertId()
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx,
		"SELECT user_id, email, password, first_name, last_name, email_verified, created_at FROM users WHERE email = ?",
		email)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx,
		"SELECT user_id, email, password, first_name, last_name, email_verified, created_at FROM users WHERE user_id = ?",
		id)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.EmailVerified, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, firstName, lastName string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE users SET first_name = ?, last_name = ? WHERE user_id = ?",
		firstName, lastName, id)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hashed string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET password = ? WHERE user_id = ?", hashed, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (r *UserRepository) MarkEmailVerified(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET email_verified = TRUE WHERE user_id = ?", id)
	if err != nil {
		return fmt.Errorf("mark email verified: %w", err)
	}
	return nil
}

// CreatePasswordReset stores a single-use reset token.
func (r *UserRepository) CreatePasswordReset(ctx context.Context, reset models.PasswordReset) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO password_resets (token, user_id, expires_at) VALUES (?, ?, ?)",
		reset.Token, reset.UserID, reset.ExpiresAt)
	if err != nil {
		return fmt.Errorf("insert password reset: %w", err)
	}
	return nil
}

func (r *UserRepository) GetPasswordReset(ctx context.Context, token string) (*models.PasswordReset, error) {
	var reset models.PasswordReset
	var usedAt sql.NullTime
	err := r.db.QueryRowContext(ctx,
		"SELECT token, user_id, expires_at, used_at FROM password_resets WHERE token = ?",
		token).Scan(&reset.Token, &reset.UserID, &reset.ExpiresAt, &usedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("query password reset: %w", err)
	}
	if usedAt.Valid {
		reset.UsedAt = &usedAt.Time
	}
	return &reset, nil
}

// MarkPasswordResetUsed consumes a token. The WHERE used_at IS NULL
// guard makes concurrent completions race to a single winner.
func (r *UserRepository) MarkPasswordResetUsed(ctx context.Context, token string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE password_resets SET used_at = ? WHERE token = ? AND used_at IS NULL",
		time.Now().UTC(), token)
	if err != nil {
		return fmt.Errorf("mark reset used: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrTokenExpired
	}
	return nil
}

func (r *UserRepository) CreateEmailVerification(ctx context.Context, v models.EmailVerification) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO email_verifications (token, user_id, expires_at) VALUES (?, ?, ?)",
		v.Token, v.UserID, v.ExpiresAt)
	if err != nil {
		return fmt.Errorf("insert email verification: %w", err)
	}
	return nil
}

func (r *UserRepository) GetEmailVerification(ctx context.Context, token string) (*models.EmailVerification, error) {
	var v models.EmailVerification
	err := r.db.QueryRowContext(ctx,
		"SELECT token, user_id, expires_at FROM email_verifications WHERE token = ?",
		token).Scan(&v.Token, &v.UserID, &v.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("query email verification: %w", err)
	}
	return &v, nil
}

func (r *UserRepository) DeleteEmailVerification(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM email_verifications WHERE token = ?", token)
	return err
}
