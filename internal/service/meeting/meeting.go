// Package meeting implements meeting series and their instances: the
// instance resolver that finds or creates the occurrence covering
// today, and the explicit carry-over policy applied when a series
// advances to its next period.
package meeting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tacticalsync/tacticalsync/internal/logger"
	"github.com/tacticalsync/tacticalsync/internal/models"
	"github.com/tacticalsync/tacticalsync/internal/period"
	"github.com/tacticalsync/tacticalsync/internal/realtime"
)

type SeriesRepository interface {
	Create(ctx context.Context, s models.MeetingSeries) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.MeetingSeries, error)
	ListForTeam(ctx context.Context, teamID int64) ([]models.MeetingSeries, error)
	Update(ctx context.Context, id int64, name, frequency string) error
	Delete(ctx context.Context, id int64) error
}

type InstanceRepository interface {
	Create(ctx context.Context, seriesID int64, startDate time.Time) (*models.MeetingInstance, bool, error)
	GetByID(ctx context.Context, id int64) (*models.MeetingInstance, error)
	ListForSeries(ctx context.Context, seriesID int64) ([]models.MeetingInstance, error)
	Latest(ctx context.Context, seriesID int64) (*models.MeetingInstance, error)
}

type MembershipChecker interface {
	GetMemberRole(ctx context.Context, teamID, userID int64) (string, error)
}

type AgendaReader interface {
	ListForSeries(ctx context.Context, seriesID int64) ([]models.AgendaItem, error)
}

type PriorityReader interface {
	ListForInstance(ctx context.Context, instanceID int64) ([]models.Priority, error)
}

type TopicReader interface {
	ListForInstance(ctx context.Context, instanceID int64) ([]models.Topic, error)
}

type ActionItemReader interface {
	ListForSeries(ctx context.Context, seriesID int64) ([]models.ActionItem, error)
}

// Service owns series and instance lifecycle.
type Service struct {
	series    SeriesRepository
	instances InstanceRepository
	members   MembershipChecker
	agenda    AgendaReader
	prios     PriorityReader
	topics    TopicReader
	actions   ActionItemReader
	hub       *realtime.Hub
	log       *logger.Logger

	// now is stubbed in tests.
	now func() time.Time
}

func NewService(series SeriesRepository, instances InstanceRepository, members MembershipChecker,
	agenda AgendaReader, prios PriorityReader, topics TopicReader, actions ActionItemReader,
	hub *realtime.Hub, log *logger.Logger) *Service {
	return &Service{
		series:    series,
		instances: instances,
		members:   members,
		agenda:    agenda,
		prios:     prios,
		topics:    topics,
		actions:   actions,
		hub:       hub,
		log:       log,
		now:       time.Now,
	}
}

// CreateSeries validates the name and cadence and creates the series.
func (s *Service) CreateSeries(ctx context.Context, userID, teamID int64, name, frequency string) (*models.MeetingSeries, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.ErrEmptyName
	}
	freq, err := period.ParseFrequency(frequency)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	if _, err := s.members.GetMemberRole(ctx, teamID, userID); err != nil {
		return nil, err
	}

	series := models.MeetingSeries{
		TeamID:    teamID,
		Name:      name,
		Frequency: freq.String(),
		CreatedBy: userID,
	}
	id, err := s.series.Create(ctx, series)
	if err != nil {
		return nil, err
	}
	series.ID = id

	s.hub.Publish(realtime.ChangeEvent{Entity: "series", Action: "created", TeamID: teamID, SeriesID: id, ActorID: userID})
	s.log.Info("series created", "series_id", id, "team_id", teamID, "frequency", freq)
	return &series, nil
}

func (s *Service) ListSeries(ctx context.Context, userID, teamID int64) ([]models.MeetingSeries, error) {
	if _, err := s.members.GetMemberRole(ctx, teamID, userID); err != nil {
		return nil, err
	}
	return s.series.ListForTeam(ctx, teamID)
}

func (s *Service) GetSeries(ctx context.Context, userID, seriesID int64) (*models.MeetingSeries, error) {
	return s.authorizedSeries(ctx, userID, seriesID)
}

// UpdateSeries renames a series and/or changes its cadence. Existing
// instances keep their dates; the new cadence applies from the next
// instance created.
func (s *Service) UpdateSeries(ctx context.Context, userID, seriesID int64, name, frequency string) (*models.MeetingSeries, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.ErrEmptyName
	}
	freq, err := period.ParseFrequency(frequency)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	series, err := s.authorizedSeries(ctx, userID, seriesID)
	if err != nil {
		return nil, err
	}
	if err := s.series.Update(ctx, seriesID, name, freq.String()); err != nil {
		return nil, err
	}
	s.hub.Publish(realtime.ChangeEvent{Entity: "series", Action: "updated", TeamID: series.TeamID, SeriesID: seriesID, ActorID: userID})
	return s.series.GetByID(ctx, seriesID)
}

func (s *Service) DeleteSeries(ctx context.Context, userID, seriesID int64) error {
	series, err := s.authorizedSeries(ctx, userID, seriesID)
	if err != nil {
		return err
	}
	if err := s.series.Delete(ctx, seriesID); err != nil {
		return err
	}
	s.hub.Publish(realtime.ChangeEvent{Entity: "series", Action: "deleted", TeamID: series.TeamID, SeriesID: seriesID, ActorID: userID})
	return nil
}

func (s *Service) ListInstances(ctx context.Context, userID, seriesID int64) ([]models.MeetingInstance, error) {
	if _, err := s.authorizedSeries(ctx, userID, seriesID); err != nil {
		return nil, err
	}
	return s.instances.ListForSeries(ctx, seriesID)
}

// authorizedSeries loads a series and checks the caller's membership
// in its team.
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
