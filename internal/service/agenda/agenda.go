// Package agenda manages the series-scoped agenda: the item list every
// instance of a series shares, and its seeding from reusable
// templates.
package agenda

import (
	"context"
	"strings"

	"github.com/tacticalsync/tacticalsync/internal/logger"
	"github.com/tacticalsync/tacticalsync/internal/models"
	"github.com/tacticalsync/tacticalsync/internal/realtime"
)

type AgendaRepository interface {
	Create(ctx context.Context, item models.AgendaItem) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.AgendaItem, error)
	ListForSeries(ctx context.Context, seriesID int64) ([]models.AgendaItem, error)
	Update(ctx context.Context, id int64, title string, timeMinutes *int, assignedTo *int64) error
	Delete(ctx context.Context, id int64) error
	Reorder(ctx context.Context, seriesID int64, orderedIDs []int64) error
	InsertBatch(ctx context.Context, seriesID, createdBy int64, items []models.AgendaTemplateItem) error
}

type SeriesReader interface {
	GetByID(ctx context.Context, id int64) (*models.MeetingSeries, error)
}

type TemplateReader interface {
	GetByID(ctx context.Context, id int64) (*models.AgendaTemplate, error)
}

type MembershipChecker interface {
	GetMemberRole(ctx context.Context, teamID, userID int64) (string, error)
}

type Service struct {
	items     AgendaRepository
	series    SeriesReader
	templates TemplateReader
	members   MembershipChecker
	hub       *realtime.Hub
	log       *logger.Logger
}

func NewService(items AgendaRepository, series SeriesReader, templates TemplateReader,
	members MembershipChecker, hub *realtime.Hub, log *logger.Logger) *Service {
	return &Service{items: items, series: series, templates: templates, members: members, hub: hub, log: log}
}

// Create appends an item to the series agenda. Editing the agenda
// affects every future instance view; nothing is stored per instance.
func (s *Service) Create(ctx context.Context, userID, seriesID int64, title string, timeMinutes *int, assignedTo *int64) (*models.AgendaItem, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, models.ErrEmptyName
	}
	series, err := s.authorized(ctx, userID, seriesID)
	if err != nil {
		return nil, err
	}

	id, err := s.items.Create(ctx, models.AgendaItem{
		SeriesID:    seriesID,
		Title:       title,
		TimeMinutes: timeMinutes,
		CreatedBy:   userID,
		AssignedTo:  assignedTo,
	})
	if err != nil {
		return nil, err
	}
	s.hub.Publish(realtime.ChangeEvent{Entity: "agenda_item", Action: "created", TeamID: series.TeamID, SeriesID: seriesID, ItemID: id, ActorID: userID})
	return s.items.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, userID, seriesID int64) ([]models.AgendaItem, error) {
	if _, err := s.authorized(ctx, userID, seriesID); err != nil {
		return nil, err
	}
	return s.items.ListForSeries(ctx, seriesID)
}

func (s *Service) Update(ctx context.Context, userID, itemID int64, title string, timeMinutes *int, assignedTo *int64) (*models.AgendaItem, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, models.ErrEmptyName
	}
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	series, err := s.authorized(ctx, userID, item.SeriesID)
	if err != nil {
		return nil, err
	}
	if err := s.items.Update(ctx, itemID, title, timeMinutes, assignedTo); err != nil {
		return nil, err
	}
	s.hub.Publish(realtime.ChangeEvent{Entity: "agenda_item", Action: "updated", TeamID: series.TeamID, SeriesID: item.SeriesID, ItemID: itemID, ActorID: userID})
	return s.items.GetByID(ctx, itemID)
}

func (s *Service) Delete(ctx context.Context, userID, itemID int64) error {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	series, err := s.authorized(ctx, userID, item.SeriesID)
	if err != nil {
		return err
	}
	if err := s.items.Delete(ctx, itemID); err != nil {
		return err
	}
	s.hub.Publish(realtime.ChangeEvent{Entity: "agenda_item", Action: "deleted", TeamID: series.TeamID, SeriesID: item.SeriesID, ItemID: itemID, ActorID: userID})
	return nil
}

// Reorder replaces the display order with orderedIDs, atomically.
func (s *Service) Reorder(ctx context.Context, userID, seriesID int64, orderedIDs []int64) error {
	series, err := s.authorized(ctx, userID, seriesID)
	if err != nil {
		return err
	}
	if err := s.items.Reorder(ctx, seriesID, orderedIDs); err != nil {
		return err
	}
	s.hub.Publish(realtime.ChangeEvent{Entity: "agenda_item", Action: "reordered", TeamID: series.TeamID, SeriesID: seriesID, ActorID: userID})
	return nil
}

// ApplyTemplate appends a template's items to the series agenda in
// template order.
func (s *Service) ApplyTemplate(ctx context.Context, userID, seriesID, templateID int64) ([]models.AgendaItem, error) {
	series, err := s.authorized(ctx, userID, seriesID)
	if err != nil {
		return nil, err
	}
	tpl, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	// Templates are private to their owner.
	if tpl.CreatedBy != userID {
		return nil, models.ErrNotFound
	}
	if err := s.items.InsertBatch(ctx, seriesID, userID, tpl.Items); err != nil {
		return nil, err
	}
	s.hub.Publish(realtime.ChangeEvent{Entity: "agenda_item", Action: "created", TeamID: series.TeamID, SeriesID: seriesID, ActorID: userID})
	s.log.Info("template applied", "series_id", seriesID, "template_id", templateID, "items", len(tpl.Items))
	return s.items.ListForSeries(ctx, seriesID)
}

func (s *Service) authorized(ctx context.Context, userID, seriesID int64) (*models.MeetingSeries, error) {
	series, err := s.series.GetByID(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	if _, err := s.members.GetMemberRole(ctx, series.TeamID, userID); err != nil {
		return nil, err
	}
	return series, nil
}
