package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tacticalsync/tacticalsync/internal/models"
)

type SeriesRepository struct {
	db *sql.DB
}

func NewSeriesRepository(db *sql.DB) *SeriesRepository {
	return &SeriesRepository{db: db}
}

func (r *SeriesRepository) Create(ctx context.Context, s models.MeetingSeries) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO meeting_series (team_id, name, frequency, created_by, created_at) VALUES (?, ?, ?, ?, ?)",
		s.TeamID, s.Name, s.Frequency, s.CreatedBy, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("insert series: %w", err)
	}
	return res.LastInsertId()
}

func (r *SeriesRepository) GetByID(ctx context.Context, id int64) (*models.MeetingSeries, error) {
	var s models.MeetingSeries
	err := r.db.QueryRowContext(ctx,
		"SELECT series_id, team_id, name, frequency, created_by, created_at FROM meeting_series WHERE series_id = ?",
		id).Scan(&s.ID, &s.TeamID, &s.Name, &s.Frequency, &s.CreatedBy, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("query series: %w", err)
	}
	return &s, nil
}

func (r *SeriesRepository) ListForTeam(ctx context.Context, teamID int64) ([]models.MeetingSeries, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT series_id, team_id, name, frequency, created_by, created_at FROM meeting_series WHERE team_id = ? ORDER BY created_at",
		teamID)
	if err != nil {
		return nil, fmt.Errorf("query series list: %w", err)
	}
	defer rows.Close()

	var list []models.MeetingSeries
	for rows.Next() {
		var s models.MeetingSeries
		if err := rows.Scan(&s.ID, &s.TeamID, &s.Name, &s.Frequency, &s.CreatedBy, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Update changes name and cadence. A frequency change only affects
// instances created afterwards; existing instances keep their dates.
func (r *SeriesRepository) Update(ctx context.Context, id int64, name, frequency string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE meeting_series SET name = ?, frequency = ? WHERE series_id = ?",
		name, frequency, id)
	if err != nil {
		return fmt.Errorf("update series: %w", err)
	}
	return requireRow(res)
}

func (r *SeriesRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM meeting_series WHERE series_id = ?", id)
	if err != nil {
		return fmt.Errorf("delete series: %w", err)
	}
	return requireRow(res)
}
