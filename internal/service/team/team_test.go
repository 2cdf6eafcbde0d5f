package team

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tacticalsync/tacticalsync/internal/logger"
	"github.com/tacticalsync/tacticalsync/internal/models"
	"github.com/tacticalsync/tacticalsync/internal/realtime"
)

type fakeTeams struct {
	teams   map[int64]models.Team
	members map[int64]map[int64]string
	nextID  int64
}

func newFakeTeams() *fakeTeams {
	return &fakeTeams{
		teams:   make(map[int64]models.Team),
		members: make(map[int64]map[int64]string),
		nextID:  1,
	}
}

func (f *fakeTeams) Create(ctx context.Context, t models.Team) (int64, error) {
	id := f.nextID
	f.nextID++
	t.ID = id
	f.teams[id] = t
	f.members[id] = map[int64]string{t.CreatedBy: models.RoleAdmin}
	return id, nil
}

func (f *fakeTeams) GetByID(ctx context.Context, id int64) (*models.Team, error) {
	t, ok := f.teams[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &t, nil
}

func (f *fakeTeams) GetByInviteCode(ctx context.Context, code string) (*models.Team, error) {
	for _, t := range f.teams {
		if t.InviteCode == code {
			return &t, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeTeams) ListForUser(ctx context.Context, userID int64) ([]models.Team, error) {
	var out []models.Team
	for id, roles := range f.members {
		if _, ok := roles[userID]; ok {
			out = append(out, f.teams[id])
		}
	}
	return out, nil
}

func (f *fakeTeams) Update(ctx context.Context, id int64, name, abbreviatedName string) error {
	t, ok := f.teams[id]
	if !ok {
		return models.ErrNotFound
	}
	t.Name, t.AbbreviatedName = name, abbreviatedName
	f.teams[id] = t
	return nil
}

func (f *fakeTeams) Delete(ctx context.Context, id int64) error {
	delete(f.teams, id)
	delete(f.members, id)
	return nil
}

func (f *fakeTeams) AddMember(ctx context.Context, teamID, userID int64, role string) error {
	roles, ok := f.members[teamID]
	if !ok {
		return models.ErrNotFound
	}
	if _, exists := roles[userID]; exists {
		return models.ErrAlreadyMember
	}
	roles[userID] = role
	return nil
}

func (f *fakeTeams) GetMemberRole(ctx context.Context, teamID, userID int64) (string, error) {
	role, ok := f.members[teamID][userID]
	if !ok {
		return "", models.ErrNotMember
	}
	return role, nil
}

func (f *fakeTeams) ListMembers(ctx context.Context, teamID int64) ([]models.TeamMember, error) {
	var out []models.TeamMember
	for userID, role := range f.members[teamID] {
		out = append(out, models.TeamMember{TeamID: teamID, UserID: userID, Role: role})
	}
	return out, nil
}

func (f *fakeTeams) UpdateMemberRole(ctx context.Context, teamID, userID int64, role string) error {
	if _, ok := f.members[teamID][userID]; !ok {
		return models.ErrNotFound
	}
	f.members[teamID][userID] = role
	return nil
}

func (f *fakeTeams) RemoveMember(ctx context.Context, teamID, userID int64) error {
	if _, ok := f.members[teamID][userID]; !ok {
		return models.ErrNotFound
	}
	delete(f.members[teamID], userID)
	return nil
}

type fakeTeamUsers struct {
	users map[int64]*models.User
}

func (f *fakeTeamUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return u, nil
}

type fakeInvites struct {
	invites map[int64]*models.Invitation
	nextID  int64
}

func newFakeInvites() *fakeInvites {
	return &fakeInvites{invites: make(map[int64]*models.Invitation), nextID: 1}
}

func (f *fakeInvites) Create(ctx context.Context, inv models.Invitation) (int64, error) {
	inv.ID = f.nextID
	f.nextID++
	f.invites[inv.ID] = &inv
	return inv.ID, nil
}

func (f *fakeInvites) GetByID(ctx context.Context, id int64) (*models.Invitation, error) {
	inv, ok := f.invites[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *inv
	return &copied, nil
}

func (f *fakeInvites) GetByToken(ctx context.Context, token string) (*models.Invitation, error) {
	for _, inv := range f.invites {
		if inv.Token == token {
			copied := *inv
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeInvites) ListForTeam(ctx context.Context, teamID int64) ([]models.Invitation, error) {
	var out []models.Invitation
	for _, inv := range f.invites {
		if inv.TeamID == teamID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (f *fakeInvites) UpdateStatus(ctx context.Context, id int64, from, to string) error {
	inv, ok := f.invites[id]
	if !ok || inv.Status != from {
		return models.ErrNotFound
	}
	inv.Status = to
	return nil
}

type fixture struct {
	svc     *Service
	teams   *fakeTeams
	users   *fakeTeamUsers
	invites *fakeInvites
}

func newFixture() *fixture {
	log := logger.New("test")
	teams := newFakeTeams()
	users := &fakeTeamUsers{users: map[int64]*models.User{
		1: {ID: 1, Email: "admin@example.com"},
		2: {ID: 2, Email: "member@example.com"},
		3: {ID: 3, Email: "other@example.com"},
	}}
	invites := newFakeInvites()
	return &fixture{
		svc:     NewService(teams, users, invites, realtime.NewHub(log), log),
		teams:   teams,
		users:   users,
		invites: invites,
	}
}

func TestCreateRejectsWhitespaceName(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Create(context.Background(), 1, "   \t", "")
	require.ErrorIs(t, err, models.ErrEmptyName)
	require.Empty(t, f.teams.teams)
}

func TestCreateMakesCallerAdmin(t *testing.T) {
	f := newFixture()
	team, err := f.svc.Create(context.Background(), 1, "Platform", "PLT")
	require.NoError(t, err)
	require.NotEmpty(t, team.InviteCode)

	role, err := f.teams.GetMemberRole(context.Background(), team.ID, 1)
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, role)
}

func TestUpdateRequiresAdmin(t *testing.T) {
	f := newFixture()
	team, err := f.svc.Create(context.Background(), 1, "Platform", "")
	require.NoError(t, err)
	require.NoError(t, f.teams.AddMember(context.Background(), team.ID, 2, models.RoleMember))

	_, err = f.svc.Update(context.Background(), 2, team.ID, "Renamed", "")
	require.ErrorIs(t, err, models.ErrNotAdmin)

	_, err = f.svc.Update(context.Background(), 3, team.ID, "Renamed", "")
	require.ErrorIs(t, err, models.ErrNotMember)
}

func TestRemoveMemberSelfLeave(t *testing.T) {
	f := newFixture()
	team, err := f.svc.Create(context.Background(), 1, "Platform", "")
	require.NoError(t, err)
	require.NoError(t, f.teams.AddMember(context.Background(), team.ID, 2, models.RoleMember))

	// A member cannot remove someone else but may leave.
	require.ErrorIs(t, f.svc.RemoveMember(context.Background(), 2, team.ID, 1), models.ErrNotAdmin)
	require.NoError(t, f.svc.RemoveMember(context.Background(), 2, team.ID, 2))

	_, err = f.teams.GetMemberRole(context.Background(), team.ID, 2)
	require.ErrorIs(t, err, models.ErrNotMember)
}

func TestJoinByCode(t *testing.T) {
	f := newFixture()
	team, err := f.svc.Create(context.Background(), 1, "Platform", "")
	require.NoError(t, err)

	joined, err := f.svc.JoinByCode(context.Background(), 2, team.InviteCode)
	require.NoError(t, err)
	require.Equal(t, team.ID, joined.ID)

	_, err = f.svc.JoinByCode(context.Background(), 3, "bogus-code")
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestInviteFlow(t *testing.T) {
	f := newFixture()
	team, err := f.svc.Create(context.Background(), 1, "Platform", "")
	require.NoError(t, err)

	inv, err := f.svc.Invite(context.Background(), 1, team.ID, "Member@Example.com")
	require.NoError(t, err)
	require.Equal(t, "member@example.com", inv.Email)
	require.Equal(t, models.InviteStatusPending, inv.Status)

	// The wrong account cannot accept.
	_, err = f.svc.Accept(context.Background(), 3, inv.Token)
	require.ErrorIs(t, err, models.ErrNotMember)

	joined, err := f.svc.Accept(context.Background(), 2, inv.Token)
	require.NoError(t, err)
	require.Equal(t, team.ID, joined.ID)

	role, err := f.teams.GetMemberRole(context.Background(), team.ID, 2)
	require.NoError(t, err)
	require.Equal(t, models.RoleMember, role)

	// Accepting twice fails: the invitation is consumed.
	_, err = f.svc.Accept(context.Background(), 2, inv.Token)
	require.ErrorIs(t, err, models.ErrInviteExpired)
}

func TestInviteRequiresAdmin(t *testing.T) {
	f := newFixture()
	team, err := f.svc.Create(context.Background(), 1, "Platform", "")
	require.NoError(t, err)
	require.NoError(t, f.teams.AddMember(context.Background(), team.ID, 2, models.RoleMember))

	_, err = f.svc.Invite(context.Background(), 2, team.ID, "other@example.com")
	require.ErrorIs(t, err, models.ErrNotAdmin)
}

func TestInviteRejectsBadEmail(t *testing.T) {
	f := newFixture()
	team, err := f.svc.Create(context.Background(), 1, "Platform", "")
	require.NoError(t, err)

	_, err = f.svc.Invite(context.Background(), 1, team.ID, "not an address")
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestAcceptExpiredInvitation(t *testing.T) {
	f := newFixture()
	team, err := f.svc.Create(context.Background(), 1, "Platform", "")
	require.NoError(t, err)

	past := time.Now().UTC().Add(-time.Hour)
	_, err = f.invites.Create(context.Background(), models.Invitation{
		TeamID:    team.ID,
		Email:     "member@example.com",
		InvitedBy: 1,
		Status:    models.InviteStatusPending,
		Token:     "stale-token",
		ExpiresAt: &past,
	})
	require.NoError(t, err)

	_, err = f.svc.Accept(context.Background(), 2, "stale-token")
	require.ErrorIs(t, err, models.ErrInviteExpired)
}

func TestRevokedInvitationCannotBeAccepted(t *testing.T) {
	f := newFixture()
	team, err := f.svc.Create(context.Background(), 1, "Platform", "")
	require.NoError(t, err)

	inv, err := f.svc.Invite(context.Background(), 1, team.ID, "member@example.com")
	require.NoError(t, err)
	require.NoError(t, f.svc.Revoke(context.Background(), 1, inv.ID))

	_, err = f.svc.Accept(context.Background(), 2, inv.Token)
	require.ErrorIs(t, err, models.ErrInviteRevoked)
}
