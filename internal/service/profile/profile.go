// Package profile exposes the signed-in user's account settings.
package profile

import (
	"context"
	"strings"

	"github.com/tacticalsync/tacticalsync/internal/logger"
	"github.com/tacticalsync/tacticalsync/internal/models"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, firstName, lastName string) error
}

type Service struct {
	users UserRepository
	log   *logger.Logger
}

func NewService(users UserRepository, log *logger.Logger) *Service {
	return &Service{users: users, log: log}
}

func (s *Service) Get(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

func (s *Service) Update(ctx context.Context, userID int64, firstName, lastName string) (*models.User, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" && lastName == "" {
		return nil, models.ErrEmptyName
	}
	if err := s.users.UpdateProfile(ctx, userID, firstName, lastName); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}
