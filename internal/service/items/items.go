// Package items manages the per-meeting work records: instance-scoped
// priorities and topics, and series-scoped action items.
package items

import (
	"context"

	"github.com/tacticalsync/tacticalsync/internal/logger"
	"github.com/tacticalsync/tacticalsync/internal/models"
	"github.com/tacticalsync/tacticalsync/internal/realtime"
)

type PriorityRepository interface {
	Create(ctx context.Context, p models.Priority) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Priority, error)
	ListForInstance(ctx context.Context, instanceID int64) ([]models.Priority, error)
	Update(ctx context.Context, p models.Priority) error
	Delete(ctx context.Context, id int64) error
	Reorder(ctx context.Context, instanceID int64, orderedIDs []int64) error
}

type TopicRepository interface {
	Create(ctx context.Context, t models.Topic) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Topic, error)
	ListForInstance(ctx context.Context, instanceID int64) ([]models.Topic, error)
	Update(ctx context.Context, t models.Topic) error
	Delete(ctx context.Context, id int64) error
	Reorder(ctx context.Context, instanceID int64, orderedIDs []int64) error
}

type ActionItemRepository interface {
	Create(ctx context.Context, a models.ActionItem) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.ActionItem, error)
	ListForSeries(ctx context.Context, seriesID int64) ([]models.ActionItem, error)
	Update(ctx context.Context, a models.ActionItem) error
	SetCompletion(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
	Reorder(ctx context.Context, seriesID int64, orderedIDs []int64) error
}

type InstanceReader interface {
	GetByID(ctx context.Context, id int64) (*models.MeetingInstance, error)
}

type SeriesReader interface {
	GetByID(ctx context.Context, id int64) (*models.MeetingSeries, error)
}

type MembershipChecker interface {
	GetMemberRole(ctx context.Context, teamID, userID int64) (string, error)
}

type Service struct {
	prios     PriorityRepository
	topics    TopicRepository
	actions   ActionItemRepository
	instances InstanceReader
	series    SeriesReader
	members   MembershipChecker
	hub       *realtime.Hub
	log       *logger.Logger
}

func NewService(prios PriorityRepository, topics TopicRepository, actions ActionItemRepository,
	instances InstanceReader, series SeriesReader, members MembershipChecker,
	hub *realtime.Hub, log *logger.Logger) *Service {
	return &Service{
		prios:     prios,
		topics:    topics,
		actions:   actions,
		instances: instances,
		series:    series,
		members:   members,
		hub:       hub,
		log:       log,
	}
}

func validStatus(status string) bool {
	switch status {
	case models.StatusPending, models.StatusCompleted, models.StatusNotCompleted:
		return true
	}
	return false
}

// authorizedSeries checks the caller belongs to the series' team.
func (s *Service) authorizedSeries(ctx context.Context, userID, seriesID int64) (*models.MeetingSeries, error) {
	series, err := s.series.GetByID(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	if _, err := s.members.GetMemberRole(ctx, series.TeamID, userID); err != nil {
		return nil, err
	}
	return series, nil
}

// authorizedInstance walks instance -> series -> team membership.
func (s *Service) authorizedInstance(ctx context.Context, userID, instanceID int64) (*models.MeetingInstance, *models.MeetingSeries, error) {
	inst, err := s.instances.GetByID(ctx, instanceID)
	if err != nil {
		return nil, nil, err
	}
	series, err := s.authorizedSeries(ctx, userID, inst.SeriesID)
	if err != nil {
		return nil, nil, err
	}
	return inst, series, nil
}
