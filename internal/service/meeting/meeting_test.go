package meeting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tacticalsync/tacticalsync/internal/logger"
	"github.com/tacticalsync/tacticalsync/internal/models"
	"github.com/tacticalsync/tacticalsync/internal/realtime"
)

// fakeStore is an in-memory stand-in for the repositories, close
// enough to the real key semantics that the carry-over behavior is
// observable through the service alone.
type fakeStore struct {
	series     map[int64]models.MeetingSeries
	instances  []models.MeetingInstance
	agenda     map[int64][]models.AgendaItem
	priorities map[int64][]models.Priority
	topics     map[int64][]models.Topic
	actions    map[int64][]models.ActionItem
	nextID     int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		series:     make(map[int64]models.MeetingSeries),
		agenda:     make(map[int64][]models.AgendaItem),
		priorities: make(map[int64][]models.Priority),
		topics:     make(map[int64][]models.Topic),
		actions:    make(map[int64][]models.ActionItem),
		nextID:     1,
	}
}

func (f *fakeStore) Create(ctx context.Context, s models.MeetingSeries) (int64, error) {
	id := f.nextID
	f.nextID++
	s.ID = id
	f.series[id] = s
	return id, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*models.MeetingSeries, error) {
	s, ok := f.series[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &s, nil
}

func (f *fakeStore) ListForTeam(ctx context.Context, teamID int64) ([]models.MeetingSeries, error) {
	var out []models.MeetingSeries
	for _, s := range f.series {
		if s.TeamID == teamID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) Update(ctx context.Context, id int64, name, frequency string) error {
	s, ok := f.series[id]
	if !ok {
		return models.ErrNotFound
	}
	s.Name, s.Frequency = name, frequency
	f.series[id] = s
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id int64) error {
	delete(f.series, id)
	return nil
}

type fakeInstances struct {
	store *fakeStore
}

// Create mirrors the unique (series_id, start_date) key: a second
// creation for the same period returns the first row.
func (f *fakeInstances) Create(ctx context.Context, seriesID int64, startDate time.Time) (*models.MeetingInstance, bool, error) {
	for i := range f.store.instances {
		inst := f.store.instances[i]
		if inst.SeriesID == seriesID && inst.StartDate.Equal(startDate) {
			return &inst, false, nil
		}
	}
	inst := models.MeetingInstance{
		ID:        f.store.nextID,
		SeriesID:  seriesID,
		StartDate: startDate,
		CreatedAt: time.Now(),
	}
	f.store.nextID++
	f.store.instances = append(f.store.instances, inst)
	return &inst, true, nil
}

func (f *fakeInstances) GetByID(ctx context.Context, id int64) (*models.MeetingInstance, error) {
	for i := range f.store.instances {
		if f.store.instances[i].ID == id {
			inst := f.store.instances[i]
			return &inst, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeInstances) ListForSeries(ctx context.Context, seriesID int64) ([]models.MeetingInstance, error) {
	var out []models.MeetingInstance
	for _, inst := range f.store.instances {
		if inst.SeriesID == seriesID {
			out = append(out, inst)
		}
	}
	return out, nil
}

func (f *fakeInstances) Latest(ctx context.Context, seriesID int64) (*models.MeetingInstance, error) {
	var latest *models.MeetingInstance
	for i := range f.store.instances {
		inst := f.store.instances[i]
		if inst.SeriesID != seriesID {
			continue
		}
		if latest == nil || inst.StartDate.After(latest.StartDate) {
			latest = &inst
		}
	}
	if latest == nil {
		return nil, models.ErrNotFound
	}
	return latest, nil
}

type fakeAgenda struct{ store *fakeStore }

func (f *fakeAgenda) ListForSeries(ctx context.Context, seriesID int64) ([]models.AgendaItem, error) {
	return f.store.agenda[seriesID], nil
}

type fakePriorities struct{ store *fakeStore }

func (f *fakePriorities) ListForInstance(ctx context.Context, instanceID int64) ([]models.Priority, error) {
	return f.store.priorities[instanceID], nil
}

type fakeTopics struct{ store *fakeStore }

func (f *fakeTopics) ListForInstance(ctx context.Context, instanceID int64) ([]models.Topic, error) {
	return f.store.topics[instanceID], nil
}

type fakeActions struct{ store *fakeStore }

func (f *fakeActions) ListForSeries(ctx context.Context, seriesID int64) ([]models.ActionItem, error) {
	return f.store.actions[seriesID], nil
}

type fakeMembers struct{}

func (fakeMembers) GetMemberRole(ctx context.Context, teamID, userID int64) (string, error) {
	return models.RoleMember, nil
}

func newTestService(t *testing.T, store *fakeStore, now time.Time) *Service {
	t.Helper()
	log := logger.New("test")
	svc := NewService(store, &fakeInstances{store}, fakeMembers{},
		&fakeAgenda{store}, &fakePriorities{store}, &fakeTopics{store}, &fakeActions{store},
		realtime.NewHub(log), log)
	svc.now = func() time.Time { return now }
	return svc
}

func mustCreateSeries(t *testing.T, svc *Service, frequency string) *models.MeetingSeries {
	t.Helper()
	series, err := svc.CreateSeries(context.Background(), 1, 1, "Weekly Tactical", frequency)
	require.NoError(t, err)
	return series
}

func TestCreateSeriesRejectsUnknownFrequency(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store, time.Now())

	_, err := svc.CreateSeries(context.Background(), 1, 1, "Ops", "fortnightly")
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestCreateSeriesRejectsEmptyName(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store, time.Now())

	_, err := svc.CreateSeries(context.Background(), 1, 1, "   ", "weekly")
	require.ErrorIs(t, err, models.ErrEmptyName)
}

func TestCurrentCreatesInstanceAtCanonicalStart(t *testing.T) {
	// Wednesday; the weekly period starts the preceding Monday.
	now := time.Date(2025, time.November, 19, 15, 30, 0, 0, time.UTC)
	store := newFakeStore()
	svc := newTestService(t, store, now)
	series := mustCreateSeries(t, svc, "weekly")

	view, err := svc.Current(context.Background(), 1, series.ID)
	require.NoError(t, err)
	require.Equal(t, "2025-11-17", view.PeriodStart)
	require.Equal(t, "2025-11-23", view.PeriodEnd)
	require.Equal(t, "Week 47 (11/17 - 11/23)", view.Label)
	require.Len(t, store.instances, 1)
}

func TestCurrentIsIdempotent(t *testing.T) {
	now := time.Date(2025, time.November, 19, 9, 0, 0, 0, time.UTC)
	store := newFakeStore()
	svc := newTestService(t, store, now)
	series := mustCreateSeries(t, svc, "weekly")

	first, err := svc.Current(context.Background(), 1, series.ID)
	require.NoError(t, err)
	second, err := svc.Current(context.Background(), 1, series.ID)
	require.NoError(t, err)

	require.Equal(t, first.Instance.ID, second.Instance.ID)
	require.Len(t, store.instances, 1)
}

func TestCreateNextCarriesAgendaButNotTopicsOrPriorities(t *testing.T) {
	now := time.Date(2025, time.November, 19, 9, 0, 0, 0, time.UTC)
	store := newFakeStore()
	svc := newTestService(t, store, now)
	series := mustCreateSeries(t, svc, "weekly")

	first, err := svc.Current(context.Background(), 1, series.ID)
	require.NoError(t, err)

	store.agenda[series.ID] = []models.AgendaItem{
		{ID: 11, SeriesID: series.ID, Title: "Check-in"},
		{ID: 12, SeriesID: series.ID, Title: "Metrics review"},
		{ID: 13, SeriesID: series.ID, Title: "Blockers"},
	}
	store.topics[first.Instance.ID] = []models.Topic{
		{ID: 21, InstanceID: first.Instance.ID, Title: "Q4 launch"},
		{ID: 22, InstanceID: first.Instance.ID, Title: "Hiring"},
		{ID: 23, InstanceID: first.Instance.ID, Title: "Oncall handoff"},
	}
	store.priorities[first.Instance.ID] = []models.Priority{
		{ID: 31, InstanceID: first.Instance.ID, Title: "Ship importer"},
	}

	next, err := svc.CreateNext(context.Background(), 1, series.ID)
	require.NoError(t, err)
	require.Equal(t, "2025-11-24", next.PeriodStart)

	// The agenda is series-scoped and shows up unchanged; topics and
	// priorities belong to the first instance only.
	require.Len(t, next.AgendaItems, 3)
	require.Empty(t, next.Topics)
	require.Empty(t, next.Priorities)

	// The first instance is untouched.
	again, err := svc.GetInstance(context.Background(), 1, first.Instance.ID)
	require.NoError(t, err)
	require.Len(t, again.Topics, 3)
	require.Len(t, again.Priorities, 1)
}

func TestCreateNextAdvancesFromLatest(t *testing.T) {
	now := time.Date(2025, time.November, 19, 9, 0, 0, 0, time.UTC)
	store := newFakeStore()
	svc := newTestService(t, store, now)
	series := mustCreateSeries(t, svc, "weekly")

	_, err := svc.Current(context.Background(), 1, series.ID)
	require.NoError(t, err)

	first, err := svc.CreateNext(context.Background(), 1, series.ID)
	require.NoError(t, err)
	second, err := svc.CreateNext(context.Background(), 1, series.ID)
	require.NoError(t, err)

	// Each call advances one period past the then-latest instance.
	require.Equal(t, first.Instance.StartDate.AddDate(0, 0, 7), second.Instance.StartDate)
	require.Len(t, store.instances, 3)
}

func TestCreateNextWithoutInstancesAnchorsOnToday(t *testing.T) {
	now := time.Date(2025, time.November, 19, 9, 0, 0, 0, time.UTC)
	store := newFakeStore()
	svc := newTestService(t, store, now)
	series := mustCreateSeries(t, svc, "weekly")

	view, err := svc.CreateNext(context.Background(), 1, series.ID)
	require.NoError(t, err)
	require.Equal(t, "2025-11-17", view.PeriodStart)
}

func TestActionItemActivityWindow(t *testing.T) {
	now := time.Date(2025, time.November, 19, 9, 0, 0, 0, time.UTC)
	store := newFakeStore()
	svc := newTestService(t, store, now)
	series := mustCreateSeries(t, svc, "weekly")

	first, err := svc.Current(context.Background(), 1, series.ID)
	require.NoError(t, err)

	doneInFirst := time.Date(2025, time.November, 20, 16, 0, 0, 0, time.UTC)
	store.actions[series.ID] = []models.ActionItem{
		// Open: follows the series onto every later instance.
		{ID: 41, SeriesID: series.ID, Title: "Write postmortem",
			CompletionStatus: models.StatusPending,
			CreatedAt:        time.Date(2025, time.November, 18, 10, 0, 0, 0, time.UTC)},
		// Completed during the first week: shown there, gone after.
		{ID: 42, SeriesID: series.ID, Title: "Rotate credentials",
			CompletionStatus: models.StatusCompleted,
			CreatedAt:        time.Date(2025, time.November, 18, 10, 0, 0, 0, time.UTC),
			CompletedAt:      &doneInFirst},
		// Created after the first week ended: not visible there.
		{ID: 43, SeriesID: series.ID, Title: "Plan offsite",
			CompletionStatus: models.StatusPending,
			CreatedAt:        time.Date(2025, time.November, 25, 10, 0, 0, 0, time.UTC)},
	}

	firstView, err := svc.GetInstance(context.Background(), 1, first.Instance.ID)
	require.NoError(t, err)
	ids := actionIDs(firstView.ActionItems)
	require.Equal(t, []int64{41, 42}, ids)

	next, err := svc.CreateNext(context.Background(), 1, series.ID)
	require.NoError(t, err)
	require.Equal(t, []int64{41, 43}, actionIDs(next.ActionItems))
}

func actionIDs(items []models.ActionItem) []int64 {
	out := make([]int64, 0, len(items))
	for _, a := range items {
		out = append(out, a.ID)
	}
	return out
}

func TestUpdateSeriesRejectsUnknownFrequency(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store, time.Now())
	series := mustCreateSeries(t, svc, "weekly")

	_, err := svc.UpdateSeries(context.Background(), 1, series.ID, "Ops", "sometimes")
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestUpdateSeriesChangesCadenceForward(t *testing.T) {
	now := time.Date(2025, time.November, 19, 9, 0, 0, 0, time.UTC)
	store := newFakeStore()
	svc := newTestService(t, store, now)
	series := mustCreateSeries(t, svc, "weekly")

	first, err := svc.Current(context.Background(), 1, series.ID)
	require.NoError(t, err)
	require.Equal(t, "2025-11-17", first.PeriodStart)

	_, err = svc.UpdateSeries(context.Background(), 1, series.ID, "Weekly Tactical", "monthly")
	require.NoError(t, err)

	// The existing instance keeps its date; the next one follows the
	// new cadence from the latest start.
	next, err := svc.CreateNext(context.Background(), 1, series.ID)
	require.NoError(t, err)
	require.Equal(t, "2025-12-01", next.PeriodStart)
}
