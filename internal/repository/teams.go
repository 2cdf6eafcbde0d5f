package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tacticalsync/tacticalsync/internal/database"
	"github.com/tacticalsync/tacticalsync/internal/models"
)

type TeamRepository struct {
	db *sql.DB
}

func NewTeamRepository(db *sql.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create inserts the team and its creator's admin membership in one
// transaction.
func (r *TeamRepository) Create(ctx context.Context, t models.Team) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		"INSERT INTO teams (name, abbreviated_name, created_by, invite_code, created_at) VALUES (?, ?, ?, ?, ?)",
		t.Name, t.AbbreviatedName, t.CreatedBy, t.InviteCode, now)
	if err != nil {
		return 0, fmt.Errorf("insert team: %w", err)
	}
	teamID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO team_members (team_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)",
		teamID, t.CreatedBy, models.RoleAdmin, now)
	if err != nil {
		return 0, fmt.Errorf("insert creator membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return teamID, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (*models.Team, error) {
	return r.getOne(ctx,
		"SELECT team_id, name, abbreviated_name, created_by, invite_code, created_at FROM teams WHERE team_id = ?", id)
}

func (r *TeamRepository) GetByInviteCode(ctx context.Context, code string) (*models.Team, error) {
	return r.getOne(ctx,
		"SELECT team_id, name, abbreviated_name, created_by, invite_code, created_at FROM teams WHERE invite_code = ?", code)
}

func (r *TeamRepository) getOne(ctx context.Context, query string, arg interface{}) (*models.Team, error) {
	var t models.Team
	var abbrev sql.NullString
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&t.ID, &t.Name, &abbrev, &t.CreatedBy, &t.InviteCode, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("query team: %w", err)
	}
	t.AbbreviatedName = abbrev.String
	return &t, nil
}

// ListForUser returns all teams the user belongs to, most recent first.
func (r *TeamRepository) ListForUser(ctx context.Context, userID int64) ([]models.Team, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.team_id, t.name, t.abbreviated_name, t.created_by, t.invite_code, t.created_at
		FROM teams t
		JOIN team_members tm ON tm.team_id = t.team_id
		WHERE tm.user_id = ?
		ORDER BY t.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query teams: %w", err)
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var t models.Team
		var abbrev sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &abbrev, &t.CreatedBy, &t.InviteCode, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		t.AbbreviatedName = abbrev.String
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (r *TeamRepository) Update(ctx context.Context, id int64, name, abbreviatedName string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE teams SET name = ?, abbreviated_name = ? WHERE team_id = ?",
		name, abbreviatedName, id)
	if err != nil {
		return fmt.Errorf("update team: %w", err)
	}
	return requireRow(res)
}

// Delete removes the team; memberships, series, instances and items
// go with it via the schema's cascading foreign keys.
func (r *TeamRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM teams WHERE team_id = ?", id)
	if err != nil {
		return fmt.Errorf("delete team: %w", err)
	}
	return requireRow(res)
}

// AddMember inserts a membership. The unique (team_id, user_id) key
// turns a duplicate join into models.ErrAlreadyMember.
func (r *TeamRepository) AddMember(ctx context.Context, teamID, userID int64, role string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO team_members (team_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)",
		teamID, userID, role, time.Now().UTC())
	if err != nil {
		if database.IsDuplicate(err) {
			return models.ErrAlreadyMember
		}
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

// GetMemberRole returns the user's role in the team, or
// models.ErrNotMember if no membership row exists.
func (r *TeamRepository) GetMemberRole(ctx context.Context, teamID, userID int64) (string, error) {
	var role string
	err := r.db.QueryRowContext(ctx,
		"SELECT role FROM team_members WHERE team_id = ? AND user_id = ?",
		teamID, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", models.ErrNotMember
		}
		return "", fmt.Errorf("query member role: %w", err)
	}
	return role, nil
}

func (r *TeamRepository) ListMembers(ctx context.Context, teamID int64) ([]models.TeamMember, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT tm.id, tm.team_id, tm.user_id, tm.role, tm.joined_at, u.first_name, u.last_name, u.email
		FROM team_members tm
		JOIN users u ON u.user_id = tm.user_id
		WHERE tm.team_id = ?
		ORDER BY tm.joined_at`, teamID)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	var members []models.TeamMember
	for rows.Next() {
		var m models.TeamMember
		if err := rows.Scan(&m.ID, &m.TeamID, &m.UserID, &m.Role, &m.JoinedAt, &m.FirstName, &m.LastName, &m.Email); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *TeamRepository) UpdateMemberRole(ctx context.Context, teamID, userID int64, role string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE team_members SET role = ? WHERE team_id = ? AND user_id = ?",
		role, teamID, userID)
	if err != nil {
		return fmt.Errorf("update member role: %w", err)
	}
	return requireRow(res)
}

func (r *TeamRepository) RemoveMember(ctx context.Context, teamID, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM team_members WHERE team_id = ? AND user_id = ?", teamID, userID)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	return requireRow(res)
}

// requireRow converts a zero-rows-affected result into ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}
