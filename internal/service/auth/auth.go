package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tacticalsync/tacticalsync/internal/logger"
	"github.com/tacticalsync/tacticalsync/internal/models"
)

const (
	tokenTTL          = 24 * time.Hour
	resetTTL          = time.Hour
	verificationTTL   = 48 * time.Hour
	minPasswordLength = 8
)

type UserRepository interface {
	Create(ctx context.Context, u models.User) (int64, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdatePassword(ctx context.Context, id int64, hashed string) error
	MarkEmailVerified(ctx context.Context, id int64) error
	CreatePasswordReset(ctx context.Context, reset models.PasswordReset) error
	GetPasswordReset(ctx context.Context, token string) (*models.PasswordReset, error)
	MarkPasswordResetUsed(ctx context.Context, token string) error
	CreateEmailVerification(ctx context.Context, v models.EmailVerification) error
	GetEmailVerification(ctx context.Context, token string) (*models.EmailVerification, error)
	DeleteEmailVerification(ctx context.Context, token string) error
}

// Service implements signup, login and the token-based email flows.
type Service struct {
	users     UserRepository
	jwtSecret []byte
	log       *logger.Logger
}

func NewService(users UserRepository, jwtSecret string, log *logger.Logger) *Service {
	return &Service{users: users, jwtSecret: []byte(jwtSecret), log: log}
}

type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Signup registers a user, issues an email-verification token and
// returns the new account with a session token. Verification mail
// delivery is out of scope; the token is logged for the operator.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*models.User, string, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", fmt.Errorf("%w: invalid email address", models.ErrValidation)
	}
	if len(req.Password) < minPasswordLength {
		return nil, "", fmt.Errorf("%w: password must be at least %d characters", models.ErrValidation, minPasswordLength)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", models.ErrEmailTaken
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Email:     email,
		Password:  string(hashed),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	}
	id, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, "", err
	}
	user.ID = id
	user.Password = ""

	verification := models.EmailVerification{
		Token:     uuid.NewString(),
		UserID:    id,
		ExpiresAt: time.Now().UTC().Add(verificationTTL),
	}
	if err := s.users.CreateEmailVerification(ctx, verification); err != nil {
		return nil, "", err
	}
	s.log.Info("verification token issued", "user_id", id, "token", verification.Token)

	token, err := s.generateJWT(email, id)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Login authenticates by email and password. Unknown email and wrong
// password collapse into one error so the endpoint does not leak which
// addresses exist.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, "", models.ErrInvalidCredential
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", models.ErrInvalidCredential
	}

	token, err := s.generateJWT(user.Email, user.ID)
	if err != nil {
		return nil, "", err
	}
	user.Password = ""
	return user, token, nil
}

// Me returns the account for an authenticated user id.
func (s *Service) Me(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

// VerifyEmail consumes a verification token.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	v, err := s.users.GetEmailVerification(ctx, token)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrTokenExpired
		}
		return err
	}
	if time.Now().UTC().After(v.ExpiresAt) {
		return models.ErrTokenExpired
	}
	if err := s.users.MarkEmailVerified(ctx, v.UserID); err != nil {
		return err
	}
	return s.users.DeleteEmailVerification(ctx, token)
}

// RequestPasswordReset issues a reset token for the address. A missing
// account is not an error: the response is identical either way.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.log.Info("password reset requested for unknown email")
			return nil
		}
		return err
	}

	reset := models.PasswordReset{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().UTC().Add(resetTTL),
	}
	if err := s.users.CreatePasswordReset(ctx, reset); err != nil {
		return err
	}
	s.log.Info("password reset token issued", "user_id", user.ID, "token", reset.Token)
	return nil
}

// CompletePasswordReset consumes a reset token exactly once; expired
// or reused tokens fail with ErrTokenExpired.
func (s *Service) CompletePasswordReset(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", models.ErrValidation, minPasswordLength)
	}
	reset, err := s.users.GetPasswordReset(ctx, token)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrTokenExpired
		}
		return err
	}
	if reset.UsedAt != nil || time.Now().UTC().After(reset.ExpiresAt) {
		return models.ErrTokenExpired
	}

	if err := s.users.MarkPasswordResetUsed(ctx, token); err != nil {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, reset.UserID, string(hashed))
}

func (s *Service) generateJWT(email string, userID int64) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email":   email,
		"user_id": userID,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	})
	return token.SignedString(s.jwtSecret)
}
