package meeting

import (
	"context"
	"errors"
	"time"

	"github.com/tacticalsync/tacticalsync/internal/metrics"
	"github.com/tacticalsync/tacticalsync/internal/models"
	"github.com/tacticalsync/tacticalsync/internal/period"
	"github.com/tacticalsync/tacticalsync/internal/realtime"
)

// InstanceView is the full per-occurrence display model: the agenda
// shared by every instance of the series, the instance's own
// priorities and topics, and the action items falling inside the
// instance's activity window.
type InstanceView struct {
	Instance    models.MeetingInstance `json:"instance"`
	Label       string                 `json:"label"`
	PeriodStart string                 `json:"period_start"`
	PeriodEnd   string                 `json:"period_end"`
	AgendaItems []models.AgendaItem    `json:"agenda_items"`
	Priorities  []models.Priority      `json:"priorities"`
	Topics      []models.Topic         `json:"topics"`
	ActionItems []models.ActionItem    `json:"action_items"`
}

// Current resolves the instance covering today, creating it with the
// canonical period start when no existing instance qualifies.
// Resolution is idempotent; the unique (series_id, start_date) key
// collapses concurrent lazy creations into one row.
func (s *Service) Current(ctx context.Context, userID, seriesID int64) (*InstanceView, error) {
	series, err := s.authorizedSeries(ctx, userID, seriesID)
	if err != nil {
		return nil, err
	}
	freq, err := period.ParseFrequency(series.Frequency)
	if err != nil {
		return nil, err
	}

	existing, err := s.instances.ListForSeries(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	starts := make([]time.Time, len(existing))
	for i, inst := range existing {
		starts[i] = inst.StartDate
	}

	idx, start := period.ResolveCurrent(freq, starts, s.now())
	var inst *models.MeetingInstance
	if idx >= 0 {
		inst = &existing[idx]
	} else {
		created, fresh, err := s.instances.Create(ctx, seriesID, start)
		if err != nil {
			metrics.ObserveInstanceCreation("resolve", "error")
			return nil, err
		}
		inst = created
		if fresh {
			metrics.ObserveInstanceCreation("resolve", "created")
			s.hub.Publish(realtime.ChangeEvent{Entity: "instance", Action: "created", TeamID: series.TeamID, SeriesID: seriesID, InstanceID: created.ID, ActorID: userID})
			s.log.Info("instance created lazily", "series_id", seriesID, "start_date", start.Format("2006-01-02"))
		} else {
			metrics.ObserveInstanceCreation("resolve", "existing")
		}
	}
	return s.view(ctx, series, freq, inst)
}

// CreateNext materializes the instance following the latest one: the
// new start date is the latest start advanced by one period. The
// agenda carries forward because it is series-scoped; topics and
// priorities do not because they belong to exactly one instance. No
// copy or clear step exists for either. A concurrent CreateNext for
// the same series resolves to the same row.
func (s *Service) CreateNext(ctx context.Context, userID, seriesID int64) (*InstanceView, error) {
	series, err := s.authorizedSeries(ctx, userID, seriesID)
	if err != nil {
		return nil, err
	}
	freq, err := period.ParseFrequency(series.Frequency)
	if err != nil {
		return nil, err
	}

	var start time.Time
	latest, err := s.instances.Latest(ctx, seriesID)
	switch {
	case err == nil:
		start = freq.Next(latest.StartDate)
	case errors.Is(err, models.ErrNotFound):
		// First instance of the series: anchor on today's period.
		start = freq.Start(s.now())
	default:
		return nil, err
	}

	inst, fresh, err := s.instances.Create(ctx, seriesID, start)
	if err != nil {
		metrics.ObserveInstanceCreation("next", "error")
		return nil, err
	}
	if fresh {
		metrics.ObserveInstanceCreation("next", "created")
		s.hub.Publish(realtime.ChangeEvent{Entity: "instance", Action: "created", TeamID: series.TeamID, SeriesID: seriesID, InstanceID: inst.ID, ActorID: userID})
		s.log.Info("next instance created", "series_id", seriesID, "start_date", start.Format("2006-01-02"))
	} else {
		metrics.ObserveInstanceCreation("next", "existing")
	}
	return s.view(ctx, series, freq, inst)
}

// GetInstance returns the display model for one occurrence.
func (s *Service) GetInstance(ctx context.Context, userID, instanceID int64) (*InstanceView, error) {
	inst, err := s.instances.GetByID(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	series, err := s.authorizedSeries(ctx, userID, inst.SeriesID)
	if err != nil {
		return nil, err
	}
	freq, err := period.ParseFrequency(series.Frequency)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, series, freq, inst)
}

func (s *Service) view(ctx context.Context, series *models.MeetingSeries, freq period.Frequency, inst *models.MeetingInstance) (*InstanceView, error) {
	agenda, err := s.agenda.ListForSeries(ctx, series.ID)
	if err != nil {
		return nil, err
	}
	prios, err := s.prios.ListForInstance(ctx, inst.ID)
	if err != nil {
		return nil, err
	}
	topics, err := s.topics.ListForInstance(ctx, inst.ID)
	if err != nil {
		return nil, err
	}
	allActions, err := s.actions.ListForSeries(ctx, series.ID)
	if err != nil {
		return nil, err
	}

	// Activity-window filter: an open action item stays visible on
	// every following instance until it is completed.
	var actions []models.ActionItem
	for _, a := range allActions {
		if period.WindowContains(freq, inst.StartDate, a.CreatedAt, a.CompletedAt) {
			actions = append(actions, a)
		}
	}

	start := freq.Start(inst.StartDate)
	return &InstanceView{
		Instance:    *inst,
		Label:       freq.Label(start),
		PeriodStart: start.Format("2006-01-02"),
		PeriodEnd:   freq.End(start).Format("2006-01-02"),
		AgendaItems: agenda,
		Priorities:  prios,
		Topics:      topics,
		ActionItems: actions,
	}, nil
}
