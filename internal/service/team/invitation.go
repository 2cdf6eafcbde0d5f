package team

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tacticalsync/tacticalsync/internal/models"
	"github.com/tacticalsync/tacticalsync/internal/realtime"
)

const invitationTTL = 7 * 24 * time.Hour

// Invite issues a pending invitation to an email address. Admin only.
// Mail delivery is out of scope; the token is logged for the operator.
func (s *Service) Invite(ctx context.Context, actorID, teamID int64, email string) (*models.Invitation, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", models.ErrValidation)
	}
	if err := s.requireAdmin(ctx, teamID, actorID); err != nil {
		return nil, err
	}

	expires := time.Now().UTC().Add(invitationTTL)
	inv := models.Invitation{
		TeamID:    teamID,
		Email:     email,
		InvitedBy: actorID,
		Status:    models.InviteStatusPending,
		Token:     uuid.NewString(),
		ExpiresAt: &expires,
	}
	id, err := s.invites.Create(ctx, inv)
	if err != nil {
		return nil, err
	}
	inv.ID = id

	s.log.Info("invitation issued", "team_id", teamID, "invitation_id", id, "token", inv.Token)
	return &inv, nil
}

func (s *Service) Invitations(ctx context.Context, actorID, teamID int64) ([]models.Invitation, error) {
	if err := s.requireAdmin(ctx, teamID, actorID); err != nil {
		return nil, err
	}
	return s.invites.ListForTeam(ctx, teamID)
}

// Revoke cancels a pending invitation. Already-accepted or
// already-revoked invitations are not transitioned again.
func (s *Service) Revoke(ctx context.Context, actorID, invitationID int64) error {
	inv, err := s.invites.GetByID(ctx, invitationID)
	if err != nil {
		return err
	}
	if err := s.requireAdmin(ctx, inv.TeamID, actorID); err != nil {
		return err
	}
	if err := s.invites.UpdateStatus(ctx, invitationID, models.InviteStatusPending, models.InviteStatusRevoked); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrInviteRevoked
		}
		return err
	}
	s.hub.Publish(realtime.ChangeEvent{Entity: "invitation", Action: "updated", TeamID: inv.TeamID, ItemID: invitationID, ActorID: actorID})
	return nil
}

// Accept turns a pending invitation into a membership. The accepting
// account's email must match the invited address.
func (s *Service) Accept(ctx context.Context, userID int64, token string) (*models.Team, error) {
	inv, err := s.invites.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	switch inv.Status {
	case models.InviteStatusRevoked:
		return nil, models.ErrInviteRevoked
	case models.InviteStatusAccepted:
		return nil, models.ErrInviteExpired
	}
	if inv.ExpiresAt != nil && time.Now().UTC().After(*inv.ExpiresAt) {
		return nil, models.ErrInviteExpired
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(user.Email, inv.Email) {
		return nil, models.ErrNotMember
	}

	if err := s.invites.UpdateStatus(ctx, inv.ID, models.InviteStatusPending, models.InviteStatusAccepted); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInviteExpired
		}
		return nil, err
	}
	if err := s.teams.AddMember(ctx, inv.TeamID, userID, models.RoleMember); err != nil && !errors.Is(err, models.ErrAlreadyMember) {
		return nil, err
	}

	s.hub.Publish(realtime.ChangeEvent{Entity: "team_member", Action: "created", TeamID: inv.TeamID, ItemID: userID, ActorID: userID})
	return s.teams.GetByID(ctx, inv.TeamID)
}
