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

type InstanceRepository struct {
	db *sql.DB
}

func NewInstanceRepository(db *sql.DB) *InstanceRepository {
	return &InstanceRepository{db: db}
}

// Create inserts an instance. The unique (series_id, start_date) key
// makes concurrent creations of the same period race to a single row;
// on the duplicate the existing instance is fetched and returned, so
// creation is idempotent from the caller's point of view.
func (r *InstanceRepository) Create(ctx context.Context, seriesID int64, startDate time.Time) (*models.MeetingInstance, bool, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO meeting_instances (series_id, start_date, created_at) VALUES (?, ?, ?)",
		seriesID, startDate, time.Now().UTC())
	if err != nil {
		if database.IsDuplicate(err) {
			existing, gerr := r.GetBySeriesAndStart(ctx, seriesID, startDate)
			if gerr != nil {
				return nil, false, gerr
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("insert instance: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, false, err
	}
	return &models.MeetingInstance{ID: id, SeriesID: seriesID, StartDate: startDate}, true, nil
}

func (r *InstanceRepository) GetByID(ctx context.Context, id int64) (*models.MeetingInstance, error) {
	var inst models.MeetingInstance
	err := r.db.QueryRowContext(ctx,
		"SELECT instance_id, series_id, start_date, created_at FROM meeting_instances WHERE instance_id = ?",
		id).Scan(&inst.ID, &inst.SeriesID, &inst.StartDate, &inst.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("query instance: %w", err)
	}
	return &inst, nil
}

func (r *InstanceRepository) GetBySeriesAndStart(ctx context.Context, seriesID int64, startDate time.Time) (*models.MeetingInstance, error) {
	var inst models.MeetingInstance
	err := r.db.QueryRowContext(ctx,
		"SELECT instance_id, series_id, start_date, created_at FROM meeting_instances WHERE series_id = ? AND start_date = ?",
		seriesID, startDate).Scan(&inst.ID, &inst.SeriesID, &inst.StartDate, &inst.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("query instance: %w", err)
	}
	return &inst, nil
}

// ListForSeries returns all instances of a series, newest start first.
func (r *InstanceRepository) ListForSeries(ctx context.Context, seriesID int64) ([]models.MeetingInstance, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT instance_id, series_id, start_date, created_at FROM meeting_instances WHERE series_id = ? ORDER BY start_date DESC",
		seriesID)
	if err != nil {
		return nil, fmt.Errorf("query instances: %w", err)
	}
	defer rows.Close()

	var list []models.MeetingInstance
	for rows.Next() {
		var inst models.MeetingInstance
		if err := rows.Scan(&inst.ID, &inst.SeriesID, &inst.StartDate, &inst.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan instance: %w", err)
		}
		list = append(list, inst)
	}
	return list, rows.Err()
}

// Latest returns the most recently started instance of a series.
func (r *InstanceRepository) Latest(ctx context.Context, seriesID int64) (*models.MeetingInstance, error) {
	var inst models.MeetingInstance
	err := r.db.QueryRowContext(ctx,
		"SELECT instance_id, series_id, start_date, created_at FROM meeting_instances WHERE series_id = ? ORDER BY start_date DESC LIMIT 1",
		seriesID).Scan(&inst.ID, &inst.SeriesID, &inst.StartDate, &inst.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("query latest instance: %w", err)
	}
	return &inst, nil
}
