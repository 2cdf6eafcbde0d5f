package agenda

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tacticalsync/tacticalsync/internal/logger"
	"github.com/tacticalsync/tacticalsync/internal/models"
	"github.com/tacticalsync/tacticalsync/internal/realtime"
)

type fakeAgendaRepo struct {
	items  map[int64]*models.AgendaItem
	nextID int64
}

func newFakeAgendaRepo() *fakeAgendaRepo {
	return &fakeAgendaRepo{items: make(map[int64]*models.AgendaItem), nextID: 1}
}

func (f *fakeAgendaRepo) Create(ctx context.Context, item models.AgendaItem) (int64, error) {
	item.ID = f.nextID
	item.OrderIndex = f.countForSeries(item.SeriesID)
	f.nextID++
	f.items[item.ID] = &item
	return item.ID, nil
}

func (f *fakeAgendaRepo) countForSeries(seriesID int64) int {
	n := 0
	for _, it := range f.items {
		if it.SeriesID == seriesID {
			n++
		}
	}
	return n
}

func (f *fakeAgendaRepo) GetByID(ctx context.Context, id int64) (*models.AgendaItem, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *it
	return &copied, nil
}

func (f *fakeAgendaRepo) ListForSeries(ctx context.Context, seriesID int64) ([]models.AgendaItem, error) {
	var out []models.AgendaItem
	for _, it := range f.items {
		if it.SeriesID == seriesID {
			out = append(out, *it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (f *fakeAgendaRepo) Update(ctx context.Context, id int64, title string, timeMinutes *int, assignedTo *int64) error {
	it, ok := f.items[id]
	if !ok {
		return models.ErrNotFound
	}
	it.Title, it.TimeMinutes, it.AssignedTo = title, timeMinutes, assignedTo
	return nil
}

func (f *fakeAgendaRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

// Reorder applies all-or-nothing, like the transactional SQL version,
// and requires the list to cover the whole series.
func (f *fakeAgendaRepo) Reorder(ctx context.Context, seriesID int64, orderedIDs []int64) error {
	if len(orderedIDs) != f.countForSeries(seriesID) {
		return models.ErrValidation
	}
	for _, id := range orderedIDs {
		it, ok := f.items[id]
		if !ok || it.SeriesID != seriesID {
			return models.ErrNotFound
		}
	}
	for idx, id := range orderedIDs {
		f.items[id].OrderIndex = idx
	}
	return nil
}

func (f *fakeAgendaRepo) InsertBatch(ctx context.Context, seriesID, createdBy int64, items []models.AgendaTemplateItem) error {
	base := 0
	for _, it := range f.items {
		if it.SeriesID == seriesID && it.OrderIndex >= base {
			base = it.OrderIndex + 1
		}
	}
	for i, tplItem := range items {
		f.items[f.nextID] = &models.AgendaItem{
			ID:          f.nextID,
			SeriesID:    seriesID,
			Title:       tplItem.Title,
			TimeMinutes: tplItem.DurationMinutes,
			OrderIndex:  base + i,
			CreatedBy:   createdBy,
		}
		f.nextID++
	}
	return nil
}

type fakeSeries struct{}

func (fakeSeries) GetByID(ctx context.Context, id int64) (*models.MeetingSeries, error) {
	if id != 7 {
		return nil, models.ErrNotFound
	}
	return &models.MeetingSeries{ID: 7, TeamID: 1, Name: "Weekly Tactical", Frequency: "weekly"}, nil
}

type fakeTemplates struct {
	tpl *models.AgendaTemplate
}

func (f *fakeTemplates) GetByID(ctx context.Context, id int64) (*models.AgendaTemplate, error) {
	if f.tpl == nil || f.tpl.ID != id {
		return nil, models.ErrNotFound
	}
	return f.tpl, nil
}

type allowAll struct{}

func (allowAll) GetMemberRole(ctx context.Context, teamID, userID int64) (string, error) {
	return models.RoleMember, nil
}

func newTestService(repo *fakeAgendaRepo, templates *fakeTemplates) *Service {
	log := logger.New("test")
	return NewService(repo, fakeSeries{}, templates, allowAll{}, realtime.NewHub(log), log)
}

func TestCreateRejectsEmptyTitle(t *testing.T) {
	svc := newTestService(newFakeAgendaRepo(), &fakeTemplates{})

	_, err := svc.Create(context.Background(), 1, 7, "  ", nil, nil)
	require.ErrorIs(t, err, models.ErrEmptyName)
}

func TestCreateAppendsInOrder(t *testing.T) {
	repo := newFakeAgendaRepo()
	svc := newTestService(repo, &fakeTemplates{})

	for _, title := range []string{"Check-in", "Metrics", "Blockers"} {
		_, err := svc.Create(context.Background(), 1, 7, title, nil, nil)
		require.NoError(t, err)
	}

	list, err := svc.List(context.Background(), 1, 7)
	require.NoError(t, err)
	require.Equal(t, []string{"Check-in", "Metrics", "Blockers"}, titles(list))
}

func TestReorderRejectsForeignItem(t *testing.T) {
	repo := newFakeAgendaRepo()
	svc := newTestService(repo, &fakeTemplates{})

	a, err := svc.Create(context.Background(), 1, 7, "Check-in", nil, nil)
	require.NoError(t, err)
	b, err := svc.Create(context.Background(), 1, 7, "Metrics", nil, nil)
	require.NoError(t, err)

	err = svc.Reorder(context.Background(), 1, 7, []int64{b.ID, 999})
	require.ErrorIs(t, err, models.ErrNotFound)

	// The failed reorder left the order untouched.
	list, err := svc.List(context.Background(), 1, 7)
	require.NoError(t, err)
	require.Equal(t, []int64{a.ID, b.ID}, ids(list))

	require.NoError(t, svc.Reorder(context.Background(), 1, 7, []int64{b.ID, a.ID}))
	list, err = svc.List(context.Background(), 1, 7)
	require.NoError(t, err)
	require.Equal(t, []int64{b.ID, a.ID}, ids(list))
}

func TestApplyTemplateAppendsInTemplateOrder(t *testing.T) {
	repo := newFakeAgendaRepo()
	ten := 10
	templates := &fakeTemplates{tpl: &models.AgendaTemplate{
		ID:        3,
		Name:      "Standard tactical",
		CreatedBy: 1,
		Items: []models.AgendaTemplateItem{
			{Title: "Check-in", DurationMinutes: &ten},
			{Title: "Metrics review"},
			{Title: "Blockers"},
		},
	}}
	svc := newTestService(repo, templates)

	_, err := svc.Create(context.Background(), 1, 7, "Opening note", nil, nil)
	require.NoError(t, err)

	list, err := svc.ApplyTemplate(context.Background(), 1, 7, 3)
	require.NoError(t, err)
	require.Equal(t, []string{"Opening note", "Check-in", "Metrics review", "Blockers"}, titles(list))
	require.Equal(t, &ten, list[1].TimeMinutes)
}

func TestApplyTemplateOwnedByAnotherUser(t *testing.T) {
	repo := newFakeAgendaRepo()
	templates := &fakeTemplates{tpl: &models.AgendaTemplate{
		ID:        3,
		Name:      "Private checklist",
		CreatedBy: 99,
		Items:     []models.AgendaTemplateItem{{Title: "Confidential step"}},
	}}
	svc := newTestService(repo, templates)

	_, err := svc.ApplyTemplate(context.Background(), 2, 7, 3)
	require.ErrorIs(t, err, models.ErrNotFound)

	// Nothing leaked into the agenda.
	list, err := svc.List(context.Background(), 2, 7)
	require.NoError(t, err)
	require.Empty(t, list)
}

func titles(items []models.AgendaItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func ids(items []models.AgendaItem) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}
