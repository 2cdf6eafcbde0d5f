package items

import (
	"context"
	"fmt"
	"strings"

	"github.com/tacticalsync/tacticalsync/internal/models"
	"github.com/tacticalsync/tacticalsync/internal/realtime"
)

type TopicInput struct {
	Title       string `json:"title"`
	Notes       string `json:"notes"`
	TimeMinutes *int   `json:"time_minutes,omitempty"`
	AssignedTo  *int64 `json:"assigned_to,omitempty"`
}

// CreateTopic adds a discussion topic to one instance. Topics never
// carry over: the next instance starts with none.
func (s *Service) CreateTopic(ctx context.Context, userID, instanceID int64, in TopicInput) (*models.Topic, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, models.ErrEmptyName
	}
	inst, series, err := s.authorizedInstance(ctx, userID, instanceID)
	if err != nil {
		return nil, err
	}

	id, err := s.topics.Create(ctx, models.Topic{
		InstanceID:  instanceID,
		Title:       in.Title,
		Notes:       in.Notes,
		TimeMinutes: in.TimeMinutes,
		AssignedTo:  in.AssignedTo,
	})
	if err != nil {
		return nil, err
	}
	s.hub.Publish(realtime.ChangeEvent{Entity: "topic", Action: "created", TeamID: series.TeamID, SeriesID: series.ID, InstanceID: inst.ID, ItemID: id, ActorID: userID})
	return s.topics.GetByID(ctx, id)
}

func (s *Service) ListTopics(ctx context.Context, userID, instanceID int64) ([]models.Topic, error) {
	if _, _, err := s.authorizedInstance(ctx, userID, instanceID); err != nil {
		return nil, err
	}
	return s.topics.ListForInstance(ctx, instanceID)
}

func (s *Service) UpdateTopic(ctx context.Context, userID, topicID int64, in TopicInput, status string) (*models.Topic, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, models.ErrEmptyName
	}
	if !validStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", models.ErrValidation, status)
	}
	t, err := s.topics.GetByID(ctx, topicID)
	if err != nil {
		return nil, err
	}
	_, series, err := s.authorizedInstance(ctx, userID, t.InstanceID)
	if err != nil {
		return nil, err
	}

	t.Title = in.Title
	t.Notes = in.Notes
	t.TimeMinutes = in.TimeMinutes
	t.AssignedTo = in.AssignedTo
	t.CompletionStatus = status
	if err := s.topics.Update(ctx, *t); err != nil {
		return nil, err
	}
	s.hub.Publish(realtime.ChangeEvent{Entity: "topic", Action: "updated", TeamID: series.TeamID, SeriesID: series.ID, InstanceID: t.InstanceID, ItemID: topicID, ActorID: userID})
	return s.topics.GetByID(ctx, topicID)
}

func (s *Service) DeleteTopic(ctx context.Context, userID, topicID int64) error {
	t, err := s.topics.GetByID(ctx, topicID)
	if err != nil {
		return err
	}
	_, series, err := s.authorizedInstance(ctx, userID, t.InstanceID)
	if err != nil {
		return err
	}
	if err := s.topics.Delete(ctx, topicID); err != nil {
		return err
	}
	s.hub.Publish(realtime.ChangeEvent{Entity: "topic", Action: "deleted", TeamID: series.TeamID, SeriesID: series.ID, InstanceID: t.InstanceID, ItemID: topicID, ActorID: userID})
	return nil
}

func (s *Service) ReorderTopics(ctx context.Context, userID, instanceID int64, orderedIDs []int64) error {
	inst, series, err := s.authorizedInstance(ctx, userID, instanceID)
	if err != nil {
		return err
	}
	if err := s.topics.Reorder(ctx, instanceID, orderedIDs); err != nil {
		return err
	}
	s.hub.Publish(realtime.ChangeEvent{Entity: "topic", Action: "reordered", TeamID: series.TeamID, SeriesID: series.ID, InstanceID: inst.ID, ActorID: userID})
	return nil
}
