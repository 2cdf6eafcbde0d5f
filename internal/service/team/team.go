package team

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tacticalsync/tacticalsync/internal/logger"
	"github.com/tacticalsync/tacticalsync/internal/models"
	"github.com/tacticalsync/tacticalsync/internal/realtime"
)

type TeamRepository interface {
	Create(ctx context.Context, t models.Team) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Team, error)
	GetByInviteCode(ctx context.Context, code string) (*models.Team, error)
	ListForUser(ctx context.Context, userID int64) ([]models.Team, error)
	Update(ctx context.Context, id int64, name, abbreviatedName string) error
	Delete(ctx context.Context, id int64) error
	AddMember(ctx context.Context, teamID, userID int64, role string) error
	GetMemberRole(ctx context.Context, teamID, userID int64) (string, error)
	ListMembers(ctx context.Context, teamID int64) ([]models.TeamMember, error)
	UpdateMemberRole(ctx context.Context, teamID, userID int64, role string) error
	RemoveMember(ctx context.Context, teamID, userID int64) error
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type InvitationRepository interface {
	Create(ctx context.Context, inv models.Invitation) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Invitation, error)
	GetByToken(ctx context.Context, token string) (*models.Invitation, error)
	ListForTeam(ctx context.Context, teamID int64) ([]models.Invitation, error)
	UpdateStatus(ctx context.Context, id int64, from, to string) error
}

// Service manages teams, memberships and invitations.
type Service struct {
	teams   TeamRepository
	users   UserRepository
	invites InvitationRepository
	hub     *realtime.Hub
	log     *logger.Logger
}

func NewService(teams TeamRepository, users UserRepository, invites InvitationRepository, hub *realtime.Hub, log *logger.Logger) *Service {
	return &Service{teams: teams, users: users, invites: invites, hub: hub, log: log}
}

// Create makes a team with the caller as its admin. Whitespace-only
// names are rejected before any row is written.
func (s *Service) Create(ctx context.Context, userID int64, name, abbreviatedName string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.ErrEmptyName
	}

	t := models.Team{
		Name:            name,
		AbbreviatedName: strings.TrimSpace(abbreviatedName),
		CreatedBy:       userID,
		InviteCode:      uuid.NewString(),
	}
	id, err := s.teams.Create(ctx, t)
	if err != nil {
		return nil, err
	}
	t.ID = id

	s.log.Info("team created", "team_id", id, "user_id", userID)
	return &t, nil
}

func (s *Service) ListMine(ctx context.Context, userID int64) ([]models.Team, error) {
	return s.teams.ListForUser(ctx, userID)
}

// Get returns a team the caller belongs to.
func (s *Service) Get(ctx context.Context, userID, teamID int64) (*models.Team, error) {
	if _, err := s.teams.GetMemberRole(ctx, teamID, userID); err != nil {
		return nil, err
	}
	return s.teams.GetByID(ctx, teamID)
}

func (s *Service) Update(ctx context.Context, userID, teamID int64, name, abbreviatedName string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.ErrEmptyName
	}
	if err := s.requireAdmin(ctx, teamID, userID); err != nil {
		return nil, err
	}
	if err := s.teams.Update(ctx, teamID, name, strings.TrimSpace(abbreviatedName)); err != nil {
		return nil, err
	}
	s.hub.Publish(realtime.ChangeEvent{Entity: "team", Action: "updated", TeamID: teamID, ActorID: userID})
	return s.teams.GetByID(ctx, teamID)
}

func (s *Service) Delete(ctx context.Context, userID, teamID int64) error {
	if err := s.requireAdmin(ctx, teamID, userID); err != nil {
		return err
	}
	if err := s.teams.Delete(ctx, teamID); err != nil {
		return err
	}
	s.log.Info("team deleted", "team_id", teamID, "user_id", userID)
	return nil
}

func (s *Service) Members(ctx context.Context, userID, teamID int64) ([]models.TeamMember, error) {
	if _, err := s.teams.GetMemberRole(ctx, teamID, userID); err != nil {
		return nil, err
	}
	return s.teams.ListMembers(ctx, teamID)
}

func (s *Service) UpdateMemberRole(ctx context.Context, actorID, teamID, memberUserID int64, role string) error {
	if role != models.RoleAdmin && role != models.RoleMember {
		return fmt.Errorf("%w: unknown role %q", models.ErrValidation, role)
	}
	if err := s.requireAdmin(ctx, teamID, actorID); err != nil {
		return err
	}
	if err := s.teams.UpdateMemberRole(ctx, teamID, memberUserID, role); err != nil {
		return err
	}
	s.hub.Publish(realtime.ChangeEvent{Entity: "team_member", Action: "updated", TeamID: teamID, ItemID: memberUserID, ActorID: actorID})
	return nil
}

// RemoveMember drops a membership: admins may remove anyone, a member
// only themselves (leaving the team).
func (s *Service) RemoveMember(ctx context.Context, actorID, teamID, memberUserID int64) error {
	if actorID != memberUserID {
		if err := s.requireAdmin(ctx, teamID, actorID); err != nil {
			return err
		}
	} else if _, err := s.teams.GetMemberRole(ctx, teamID, actorID); err != nil {
		return err
	}
	if err := s.teams.RemoveMember(ctx, teamID, memberUserID); err != nil {
		return err
	}
	s.hub.Publish(realtime.ChangeEvent{Entity: "team_member", Action: "deleted", TeamID: teamID, ItemID: memberUserID, ActorID: actorID})
	return nil
}

// JoinByCode adds the caller to the team behind an invite code.
func (s *Service) JoinByCode(ctx context.Context, userID int64, code string) (*models.Team, error) {
	t, err := s.teams.GetByInviteCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.teams.AddMember(ctx, t.ID, userID, models.RoleMember); err != nil {
		return nil, err
	}
	s.hub.Publish(realtime.ChangeEvent{Entity: "team_member", Action: "created", TeamID: t.ID, ItemID: userID, ActorID: userID})
	s.log.Info("user joined team", "team_id", t.ID, "user_id", userID)
	return t, nil
}

func (s *Service) requireAdmin(ctx context.Context, teamID, userID int64) error {
	role, err := s.teams.GetMemberRole(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if role != models.RoleAdmin {
		return models.ErrNotAdmin
	}
	return nil
}
