package items

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tacticalsync/tacticalsync/internal/models"
	"github.com/tacticalsync/tacticalsync/internal/realtime"
)

type ActionItemInput struct {
	Title      string     `json:"title"`
	Notes      string     `json:"notes"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	AssignedTo *int64     `json:"assigned_to,omitempty"`
}

// CreateActionItem records a follow-up against the series. It will
// appear on every instance whose activity window it falls into until
// completed.
func (s *Service) CreateActionItem(ctx context.Context, userID, seriesID int64, in ActionItemInput) (*models.ActionItem, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, models.ErrEmptyName
	}
	series, err := s.authorizedSeries(ctx, userID, seriesID)
	if err != nil {
		return nil, err
	}

	id, err := s.actions.Create(ctx, models.ActionItem{
		SeriesID:   seriesID,
		Title:      in.Title,
		Notes:      in.Notes,
		DueDate:    in.DueDate,
		AssignedTo: in.AssignedTo,
	})
	if err != nil {
		return nil, err
	}
	s.hub.Publish(realtime.ChangeEvent{Entity: "action_item", Action: "created", TeamID: series.TeamID, SeriesID: seriesID, ItemID: id, ActorID: userID})
	return s.actions.GetByID(ctx, id)
}

func (s *Service) ListActionItems(ctx context.Context, userID, seriesID int64) ([]models.ActionItem, error) {
	if _, err := s.authorizedSeries(ctx, userID, seriesID); err != nil {
		return nil, err
	}
	return s.actions.ListForSeries(ctx, seriesID)
}

func (s *Service) UpdateActionItem(ctx context.Context, userID, itemID int64, in ActionItemInput) (*models.ActionItem, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, models.ErrEmptyName
	}
	a, err := s.actions.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	series, err := s.authorizedSeries(ctx, userID, a.SeriesID)
	if err != nil {
		return nil, err
	}

	a.Title = in.Title
	a.Notes = in.Notes
	a.DueDate = in.DueDate
	a.AssignedTo = in.AssignedTo
	if err := s.actions.Update(ctx, *a); err != nil {
		return nil, err
	}
	s.hub.Publish(realtime.ChangeEvent{Entity: "action_item", Action: "updated", TeamID: series.TeamID, SeriesID: a.SeriesID, ItemID: itemID, ActorID: userID})
	return s.actions.GetByID(ctx, itemID)
}

// SetActionItemStatus transitions completion state. Completing stamps
// completed_at, which closes the item's activity window for later
// instances; reopening clears it.
func (s *Service) SetActionItemStatus(ctx context.Context, userID, itemID int64, status string) (*models.ActionItem, error) {
	if !validStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", models.ErrValidation, status)
	}
	a, err := s.actions.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	series, err := s.authorizedSeries(ctx, userID, a.SeriesID)
	if err != nil {
		return nil, err
	}
	if err := s.actions.SetCompletion(ctx, itemID, status); err != nil {
		return nil, err
	}
	s.hub.Publish(realtime.ChangeEvent{Entity: "action_item", Action: "updated", TeamID: series.TeamID, SeriesID: a.SeriesID, ItemID: itemID, ActorID: userID})
	return s.actions.GetByID(ctx, itemID)
}

func (s *Service) DeleteActionItem(ctx context.Context, userID, itemID int64) error {
	a, err := s.actions.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	series, err := s.authorizedSeries(ctx, userID, a.SeriesID)
	if err != nil {
		return err
	}
	if err := s.actions.Delete(ctx, itemID); err != nil {
		return err
	}
	s.hub.Publish(realtime.ChangeEvent{Entity: "action_item", Action: "deleted", TeamID: series.TeamID, SeriesID: a.SeriesID, ItemID: itemID, ActorID: userID})
	return nil
}

func (s *Service) ReorderActionItems(ctx context.Context, userID, seriesID int64, orderedIDs []int64) error {
	series, err := s.authorizedSeries(ctx, userID, seriesID)
	if err != nil {
		return err
	}
	if err := s.actions.Reorder(ctx, seriesID, orderedIDs); err != nil {
		return err
	}
	s.hub.Publish(realtime.ChangeEvent{Entity: "action_item", Action: "reordered", TeamID: series.TeamID, SeriesID: seriesID, ActorID: userID})
	return nil
}
