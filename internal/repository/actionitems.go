package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tacticalsync/tacticalsync/internal/models"
)

type ActionItemRepository struct {
	db *sql.DB
}

func NewActionItemRepository(db *sql.DB) *ActionItemRepository {
	return &ActionItemRepository{db: db}
}

func (r *ActionItemRepository) Create(ctx context.Context, a models.ActionItem) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO action_items (series_id, title, notes, due_date, assigned_to, completion_status, order_index, created_at)
		SELECT ?, ?, ?, ?, ?, ?, COALESCE(MAX(order_index) + 1, 0), ?
		FROM action_items WHERE series_id = ?`,
		a.SeriesID, a.Title, a.Notes, a.DueDate, a.AssignedTo, models.StatusPending, time.Now().UTC(), a.SeriesID)
	if err != nil {
		return 0, fmt.Errorf("insert action item: %w", err)
	}
	return res.LastInsertId()
}

func (r *ActionItemRepository) GetByID(ctx context.Context, id int64) (*models.ActionItem, error) {
	var a models.ActionItem
	var notes sql.NullString
	var due, completed sql.NullTime
	var assigned sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		"SELECT id, series_id, title, notes, due_date, assigned_to, completion_status, order_index, created_at, completed_at FROM action_items WHERE id = ?",
		id).Scan(&a.ID, &a.SeriesID, &a.Title, &notes, &due, &assigned, &a.CompletionStatus, &a.OrderIndex, &a.CreatedAt, &completed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("query action item: %w", err)
	}
	a.Notes = notes.String
	a.DueDate = timePtrOf(due)
	a.CompletedAt = timePtrOf(completed)
	a.AssignedTo = int64Ptr(assigned)
	return &a, nil
}

// ListForSeries returns every action item of the series in display
// order; the per-instance activity-window filter is applied by the
// service on top of this.
func (r *ActionItemRepository) ListForSeries(ctx context.Context, seriesID int64) ([]models.ActionItem, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, series_id, title, notes, due_date, assigned_to, completion_status, order_index, created_at, completed_at FROM action_items WHERE series_id = ? ORDER BY order_index",
		seriesID)
	if err != nil {
		return nil, fmt.Errorf("query action items: %w", err)
	}
	defer rows.Close()

	var list []models.ActionItem
	for rows.Next() {
		var a models.ActionItem
		var notes sql.NullString
		var due, completed sql.NullTime
		var assigned sql.NullInt64
		if err := rows.Scan(&a.ID, &a.SeriesID, &a.Title, &notes, &due, &assigned, &a.CompletionStatus, &a.OrderIndex, &a.CreatedAt, &completed); err != nil {
			return nil, fmt.Errorf("scan action item: %w", err)
		}
		a.Notes = notes.String
		a.DueDate = timePtrOf(due)
		a.CompletedAt = timePtrOf(completed)
		a.AssignedTo = int64Ptr(assigned)
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *ActionItemRepository) Update(ctx context.Context, a models.ActionItem) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE action_items SET title = ?, notes = ?, due_date = ?, assigned_to = ? WHERE id = ?",
		a.Title, a.Notes, a.DueDate, a.AssignedTo, a.ID)
	if err != nil {
		return fmt.Errorf("update action item: %w", err)
	}
	return requireRow(res)
}

// SetCompletion records the status change; completed_at is set when
// moving to completed and cleared when reopening, which is what the
// activity-window display rule keys on.
func (r *ActionItemRepository) SetCompletion(ctx context.Context, id int64, status string) error {
	var completedAt *time.Time
	if status == models.StatusCompleted {
		now := time.Now().UTC()
		completedAt = &now
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE action_items SET completion_status = ?, completed_at = ? WHERE id = ?",
		status, completedAt, id)
	if err != nil {
		return fmt.Errorf("set action item completion: %w", err)
	}
	return requireRow(res)
}

func (r *ActionItemRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM action_items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete action item: %w", err)
	}
	return requireRow(res)
}

// Reorder requires the id list to cover every action item of the
// series so the resulting order stays dense.
func (r *ActionItemRepository) Reorder(ctx context.Context, seriesID int64, orderedIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var total int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM action_items WHERE series_id = ?", seriesID).Scan(&total); err != nil {
		return fmt.Errorf("count action items: %w", err)
	}
	if total != len(orderedIDs) {
		return fmt.Errorf("%w: reorder must list all %d action items, got %d", models.ErrValidation, total, len(orderedIDs))
	}

	for idx, id := range orderedIDs {
		res, err := tx.ExecContext(ctx,
			"UPDATE action_items SET order_index = ? WHERE id = ? AND series_id = ?",
			idx, id, seriesID)
		if err != nil {
			return fmt.Errorf("reorder action item %d: %w", id, err)
		}
		if err := requireRow(res); err != nil {
			return fmt.Errorf("action item %d not in series %d: %w", id, seriesID, err)
		}
	}
	return tx.Commit()
}

func timePtrOf(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
