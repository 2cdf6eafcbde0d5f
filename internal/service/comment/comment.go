// Package comment manages discussion threads attached to items by
// (item_type, item_id).
package comment

import (
	"context"
	"fmt"
	"strings"

	"github.com/tacticalsync/tacticalsync/internal/logger"
	"github.com/tacticalsync/tacticalsync/internal/models"
)

type CommentRepository interface {
	Create(ctx context.Context, c models.Comment) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	ListForItem(ctx context.Context, itemType string, itemID int64) ([]models.Comment, error)
	Delete(ctx context.Context, id int64) error
}

type AgendaItemReader interface {
	GetByID(ctx context.Context, id int64) (*models.AgendaItem, error)
}

type PriorityReader interface {
	GetByID(ctx context.Context, id int64) (*models.Priority, error)
}

type TopicReader interface {
	GetByID(ctx context.Context, id int64) (*models.Topic, error)
}

type ActionItemReader interface {
	GetByID(ctx context.Context, id int64) (*models.ActionItem, error)
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
	comments  CommentRepository
	agenda    AgendaItemReader
	prios     PriorityReader
	topics    TopicReader
	actions   ActionItemReader
	instances InstanceReader
	series    SeriesReader
	members   MembershipChecker
	log       *logger.Logger
}

func NewService(comments CommentRepository, agenda AgendaItemReader, prios PriorityReader,
	topics TopicReader, actions ActionItemReader, instances InstanceReader,
	series SeriesReader, members MembershipChecker, log *logger.Logger) *Service {
	return &Service{
		comments:  comments,
		agenda:    agenda,
		prios:     prios,
		topics:    topics,
		actions:   actions,
		instances: instances,
		series:    series,
		members:   members,
		log:       log,
	}
}

// authorizedItem resolves the commented item to its team and checks
// the caller's membership. Priorities and topics walk through their
// instance; agenda and action items hang off the series directly.
func (s *Service) authorizedItem(ctx context.Context, userID int64, itemType string, itemID int64) error {
	var seriesID int64
	switch itemType {
	case models.ItemTypeAgenda:
		item, err := s.agenda.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		seriesID = item.SeriesID
	case models.ItemTypePriority:
		p, err := s.prios.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		inst, err := s.instances.GetByID(ctx, p.InstanceID)
		if err != nil {
			return err
		}
		seriesID = inst.SeriesID
	case models.ItemTypeTopic:
		tp, err := s.topics.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		inst, err := s.instances.GetByID(ctx, tp.InstanceID)
		if err != nil {
			return err
		}
		seriesID = inst.SeriesID
	case models.ItemTypeAction:
		a, err := s.actions.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		seriesID = a.SeriesID
	default:
		return fmt.Errorf("%w: unknown item type %q", models.ErrValidation, itemType)
	}

	series, err := s.series.GetByID(ctx, seriesID)
	if err != nil {
		return err
	}
	if _, err := s.members.GetMemberRole(ctx, series.TeamID, userID); err != nil {
		return err
	}
	return nil
}

func (s *Service) Create(ctx context.Context, userID int64, itemType string, itemID int64, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.ErrEmptyName
	}
	if err := s.authorizedItem(ctx, userID, itemType, itemID); err != nil {
		return nil, err
	}

	id, err := s.comments.Create(ctx, models.Comment{
		ItemType:  itemType,
		ItemID:    itemID,
		CreatedBy: userID,
		Content:   content,
	})
	if err != nil {
		return nil, err
	}
	return s.comments.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, userID int64, itemType string, itemID int64) ([]models.Comment, error) {
	if err := s.authorizedItem(ctx, userID, itemType, itemID); err != nil {
		return nil, err
	}
	return s.comments.ListForItem(ctx, itemType, itemID)
}

// Delete removes a comment. Only the author may delete their own.
func (s *Service) Delete(ctx context.Context, userID, commentID int64) error {
	c, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if c.CreatedBy != userID {
		return models.ErrNotAdmin
	}
	return s.comments.Delete(ctx, commentID)
}
