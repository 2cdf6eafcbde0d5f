package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tacticalsync/tacticalsync/internal/models"
)

type InvitationRepository struct {
	db *sql.DB
}

func NewInvitationRepository(db *sql.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

func (r *InvitationRepository) Create(ctx context.Context, inv models.Invitation) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO invitations (team_id, email, invited_by, status, token, expires_at, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		inv.TeamID, inv.Email, inv.InvitedBy, models.InviteStatusPending, inv.Token, inv.ExpiresAt, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("insert invitation: %w", err)
	}
	return res.LastInsertId()
}

func (r *InvitationRepository) GetByID(ctx context.Context, id int64) (*models.Invitation, error) {
	return r.getOne(ctx,
		"SELECT id, team_id, email, invited_by, status, token, expires_at, created_at FROM invitations WHERE id = ?", id)
}

func (r *InvitationRepository) GetByToken(ctx context.Context, token string) (*models.Invitation, error) {
	return r.getOne(ctx,
		"SELECT id, team_id, email, invited_by, status, token, expires_at, created_at FROM invitations WHERE token = ?", token)
}

func (r *InvitationRepository) getOne(ctx context.Context, query string, arg interface{}) (*models.Invitation, error) {
	var inv models.Invitation
	var expires sql.NullTime
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&inv.ID, &inv.TeamID, &inv.Email, &inv.InvitedBy, &inv.Status, &inv.Token, &expires, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("query invitation: %w", err)
	}
	inv.ExpiresAt = timePtrOf(expires)
	return &inv, nil
}

func (r *InvitationRepository) ListForTeam(ctx context.Context, teamID int64) ([]models.Invitation, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, team_id, email, invited_by, status, token, expires_at, created_at FROM invitations WHERE team_id = ? ORDER BY created_at DESC",
		teamID)
	if err != nil {
		return nil, fmt.Errorf("query invitations: %w", err)
	}
	defer rows.Close()

	var list []models.Invitation
	for rows.Next() {
		var inv models.Invitation
		var expires sql.NullTime
		if err := rows.Scan(&inv.ID, &inv.TeamID, &inv.Email, &inv.InvitedBy, &inv.Status, &inv.Token, &expires, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		inv.ExpiresAt = timePtrOf(expires)
		list = append(list, inv)
	}
	return list, rows.Err()
}

// UpdateStatus transitions an invitation out of pending. The WHERE
// status guard keeps accept/revoke races from double-transitioning.
func (r *InvitationRepository) UpdateStatus(ctx context.Context, id int64, from, to string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE invitations SET status = ? WHERE id = ? AND status = ?", to, id, from)
	if err != nil {
		return fmt.Errorf("update invitation status: %w", err)
	}
	return requireRow(res)
}
