package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tacticalsync/tacticalsync/internal/models"
)

type AgendaRepository struct {
	db *sql.DB
}

func NewAgendaRepository(db *sql.DB) *AgendaRepository {
	return &AgendaRepository{db: db}
}

// Create appends an agenda item at the end of the series' list.
func (r *AgendaRepository) Create(ctx context.Context, item models.AgendaItem) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO agenda_items (series_id, title, time_minutes, order_index, created_by, assigned_to, created_at)
		SELECT ?, ?, ?, COALESCE(MAX(order_index) + 1, 0), ?, ?, ?
		FROM agenda_items WHERE series_id = ?`,
		item.SeriesID, item.Title, item.TimeMinutes, item.CreatedBy, item.AssignedTo, time.Now().UTC(), item.SeriesID)
	if err != nil {
		return 0, fmt.Errorf("insert agenda item: %w", err)
	}
	return res.LastInsertId()
}

func (r *AgendaRepository) GetByID(ctx context.Context, id int64) (*models.AgendaItem, error) {
	var item models.AgendaItem
	var minutes sql.NullInt64
	var assigned sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		"SELECT id, series_id, title, time_minutes, order_index, created_by, assigned_to, created_at FROM agenda_items WHERE id = ?",
		id).Scan(&item.ID, &item.SeriesID, &item.Title, &minutes, &item.OrderIndex, &item.CreatedBy, &assigned, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("query agenda item: %w", err)
	}
	item.TimeMinutes = intPtr(minutes)
	item.AssignedTo = int64Ptr(assigned)
	return &item, nil
}

// ListForSeries returns the series agenda in display order.
func (r *AgendaRepository) ListForSeries(ctx context.Context, seriesID int64) ([]models.AgendaItem, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, series_id, title, time_minutes, order_index, created_by, assigned_to, created_at FROM agenda_items WHERE series_id = ? ORDER BY order_index",
		seriesID)
	if err != nil {
		return nil, fmt.Errorf("query agenda items: %w", err)
	}
	defer rows.Close()

	var items []models.AgendaItem
	for rows.Next() {
		var item models.AgendaItem
		var minutes, assigned sql.NullInt64
		if err := rows.Scan(&item.ID, &item.SeriesID, &item.Title, &minutes, &item.OrderIndex, &item.CreatedBy, &assigned, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan agenda item: %w", err)
		}
		item.TimeMinutes = intPtr(minutes)
		item.AssignedTo = int64Ptr(assigned)
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *AgendaRepository) Update(ctx context.Context, id int64, title string, timeMinutes *int, assignedTo *int64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE agenda_items SET title = ?, time_minutes = ?, assigned_to = ? WHERE id = ?",
		title, timeMinutes, assignedTo, id)
	if err != nil {
		return fmt.Errorf("update agenda item: %w", err)
	}
	return requireRow(res)
}

func (r *AgendaRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM agenda_items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete agenda item: %w", err)
	}
	return requireRow(res)
}

// Reorder rewrites order_index for the whole series in one
// transaction, so concurrent reorders cannot interleave into a torn
// order: last committed transaction wins wholesale. The id list must
// cover every item of the series, otherwise omitted rows would keep
// their old indices and the order would no longer be dense.
func (r *AgendaRepository) Reorder(ctx context.Context, seriesID int64, orderedIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var total int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM agenda_items WHERE series_id = ?", seriesID).Scan(&total); err != nil {
		return fmt.Errorf("count agenda items: %w", err)
	}
	if total != len(orderedIDs) {
		return fmt.Errorf("%w: reorder must list all %d agenda items, got %d", models.ErrValidation, total, len(orderedIDs))
	}

	for idx, id := range orderedIDs {
		res, err := tx.ExecContext(ctx,
			"UPDATE agenda_items SET order_index = ? WHERE id = ? AND series_id = ?",
			idx, id, seriesID)
		if err != nil {
			return fmt.Errorf("reorder agenda item %d: %w", id, err)
		}
		if err := requireRow(res); err != nil {
			return fmt.Errorf("agenda item %d not in series %d: %w", id, seriesID, err)
		}
	}
	return tx.Commit()
}

// InsertBatch appends items (from a template) after the current end of
// the agenda, preserving the given relative order.
func (r *AgendaRepository) InsertBatch(ctx context.Context, seriesID, createdBy int64, items []models.AgendaTemplateItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var base sql.NullInt64
	if err := tx.QueryRowContext(ctx,
		"SELECT MAX(order_index) + 1 FROM agenda_items WHERE series_id = ?", seriesID).Scan(&base); err != nil {
		return fmt.Errorf("next order index: %w", err)
	}

	now := time.Now().UTC()
	for i, item := range items {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO agenda_items (series_id, title, time_minutes, order_index, created_by, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			seriesID, item.Title, item.DurationMinutes, base.Int64+int64(i), createdBy, now)
		if err != nil {
			return fmt.Errorf("insert templated agenda item: %w", err)
		}
	}
	return tx.Commit()
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
