// Package template manages reusable agenda templates, owned per user.
package template

import (
	"context"
	"strings"

	"github.com/tacticalsync/tacticalsync/internal/logger"
	"github.com/tacticalsync/tacticalsync/internal/models"
)

type TemplateRepository interface {
	Create(ctx context.Context, tpl models.AgendaTemplate) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.AgendaTemplate, error)
	ListForUser(ctx context.Context, userID int64) ([]models.AgendaTemplate, error)
	Update(ctx context.Context, tpl models.AgendaTemplate) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	templates TemplateRepository
	log       *logger.Logger
}

func NewService(templates TemplateRepository, log *logger.Logger) *Service {
	return &Service{templates: templates, log: log}
}

type ItemInput struct {
	Title           string `json:"title"`
	DurationMinutes *int   `json:"duration_minutes,omitempty"`
}

// Create stores a named template with its items in the given order.
// Empty template names and empty item titles are rejected.
func (s *Service) Create(ctx context.Context, userID int64, name string, items []ItemInput) (*models.AgendaTemplate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.ErrEmptyName
	}
	tpl := models.AgendaTemplate{Name: name, CreatedBy: userID}
	for _, in := range items {
		title := strings.TrimSpace(in.Title)
		if title == "" {
			return nil, models.ErrEmptyName
		}
		tpl.Items = append(tpl.Items, models.AgendaTemplateItem{Title: title, DurationMinutes: in.DurationMinutes})
	}

	id, err := s.templates.Create(ctx, tpl)
	if err != nil {
		return nil, err
	}
	s.log.Info("template created", "template_id", id, "user_id", userID, "items", len(tpl.Items))
	return s.templates.GetByID(ctx, id)
}

// Get returns one of the caller's templates.
func (s *Service) Get(ctx context.Context, userID, templateID int64) (*models.AgendaTemplate, error) {
	tpl, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if tpl.CreatedBy != userID {
		return nil, models.ErrNotFound
	}
	return tpl, nil
}

func (s *Service) List(ctx context.Context, userID int64) ([]models.AgendaTemplate, error) {
	return s.templates.ListForUser(ctx, userID)
}

// Update replaces the template's name and item set.
func (s *Service) Update(ctx context.Context, userID, templateID int64, name string, items []ItemInput) (*models.AgendaTemplate, error) {
	if _, err := s.Get(ctx, userID, templateID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.ErrEmptyName
	}

	tpl := models.AgendaTemplate{ID: templateID, Name: name, CreatedBy: userID}
	for _, in := range items {
		title := strings.TrimSpace(in.Title)
		if title == "" {
			return nil, models.ErrEmptyName
		}
		tpl.Items = append(tpl.Items, models.AgendaTemplateItem{Title: title, DurationMinutes: in.DurationMinutes})
	}
	if err := s.templates.Update(ctx, tpl); err != nil {
		return nil, err
	}
	return s.templates.GetByID(ctx, templateID)
}

func (s *Service) Delete(ctx context.Context, userID, templateID int64) error {
	if _, err := s.Get(ctx, userID, templateID); err != nil {
		return err
	}
	return s.templates.Delete(ctx, templateID)
}
