package items

import (
	"context"
	"fmt"
	"strings"

	"github.com/tacticalsync/tacticalsync/internal/models"
	"github.com/tacticalsync/tacticalsync/internal/realtime"
)

type PriorityInput struct {
	Title      string `json:"title"`
	Outcome    string `json:"outcome"`
	Activities string `json:"activities"`
	AssignedTo *int64 `json:"assigned_to,omitempty"`
}

func (s *Service) CreatePriority(ctx context.Context, userID, instanceID int64, in PriorityInput) (*models.Priority, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, models.ErrEmptyName
	}
	inst, series, err := s.authorizedInstance(ctx, userID, instanceID)
	if err != nil {
		return nil, err
	}

	id, err := s.prios.Create(ctx, models.Priority{
		InstanceID: instanceID,
		Title:      in.Title,
		Outcome:    in.Outcome,
		Activities: in.Activities,
		AssignedTo: in.AssignedTo,
	})
	if err != nil {
		return nil, err
	}
	s.hub.Publish(realtime.ChangeEvent{Entity: "priority", Action: "created", TeamID: series.TeamID, SeriesID: series.ID, InstanceID: inst.ID, ItemID: id, ActorID: userID})
	return s.prios.GetByID(ctx, id)
}

func (s *Service) ListPriorities(ctx context.Context, userID, instanceID int64) ([]models.Priority, error) {
	if _, _, err := s.authorizedInstance(ctx, userID, instanceID); err != nil {
		return nil, err
	}
	return s.prios.ListForInstance(ctx, instanceID)
}

func (s *Service) UpdatePriority(ctx context.Context, userID, priorityID int64, in PriorityInput, status string) (*models.Priority, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, models.ErrEmptyName
	}
	if !validStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", models.ErrValidation, status)
	}
	p, err := s.prios.GetByID(ctx, priorityID)
	if err != nil {
		return nil, err
	}
	_, series, err := s.authorizedInstance(ctx, userID, p.InstanceID)
	if err != nil {
		return nil, err
	}

	p.Title = in.Title
	p.Outcome = in.Outcome
	p.Activities = in.Activities
	p.AssignedTo = in.AssignedTo
	p.CompletionStatus = status
	if err := s.prios.Update(ctx, *p); err != nil {
		return nil, err
	}
	s.hub.Publish(realtime.ChangeEvent{Entity: "priority", Action: "updated", TeamID: series.TeamID, SeriesID: series.ID, InstanceID: p.InstanceID, ItemID: priorityID, ActorID: userID})
	return s.prios.GetByID(ctx, priorityID)
}

func (s *Service) DeletePriority(ctx context.Context, userID, priorityID int64) error {
	p, err := s.prios.GetByID(ctx, priorityID)
	if err != nil {
		return err
	}
	_, series, err := s.authorizedInstance(ctx, userID, p.InstanceID)
	if err != nil {
		return err
	}
	if err := s.prios.Delete(ctx, priorityID); err != nil {
		return err
	}
	s.hub.Publish(realtime.ChangeEvent{Entity: "priority", Action: "deleted", TeamID: series.TeamID, SeriesID: series.ID, InstanceID: p.InstanceID, ItemID: priorityID, ActorID: userID})
	return nil
}

func (s *Service) ReorderPriorities(ctx context.Context, userID, instanceID int64, orderedIDs []int64) error {
	inst, series, err := s.authorizedInstance(ctx, userID, instanceID)
	if err != nil {
		return err
	}
	if err := s.prios.Reorder(ctx, instanceID, orderedIDs); err != nil {
		return err
	}
	s.hub.Publish(realtime.ChangeEvent{Entity: "priority", Action: "reordered", TeamID: series.TeamID, SeriesID: series.ID, InstanceID: inst.ID, ActorID: userID})
	return nil
}
