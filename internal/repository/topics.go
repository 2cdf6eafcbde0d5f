package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tacticalsync/tacticalsync/internal/models"
)

type TopicRepository struct {
	db *sql.DB
}

func NewTopicRepository(db *sql.DB) *TopicRepository {
	return &TopicRepository{db: db}
}

func (r *TopicRepository) Create(ctx context.Context, t models.Topic) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO topics (instance_id, title, notes, time_minutes, order_index, assigned_to, completion_status, created_at)
		SELECT ?, ?, ?, ?, COALESCE(MAX(order_index) + 1, 0), ?, ?, ?
		FROM topics WHERE instance_id = ?`,
		t.InstanceID, t.Title, t.Notes, t.TimeMinutes, t.AssignedTo, models.StatusPending, time.Now().UTC(), t.InstanceID)
	if err != nil {
		return 0, fmt.Errorf("insert topic: %w", err)
	}
	return res.LastInsertId()
}

func (r *TopicRepository) GetByID(ctx context.Context, id int64) (*models.Topic, error) {
	var t models.Topic
	var minutes, assigned sql.NullInt64
	var notes sql.NullString
	err := r.db.QueryRowContext(ctx,
		"SELECT id, instance_id, title, notes, time_minutes, order_index, assigned_to, completion_status, created_at FROM topics WHERE id = ?",
		id).Scan(&t.ID, &t.InstanceID, &t.Title, &notes, &minutes, &t.OrderIndex, &assigned, &t.CompletionStatus, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("query topic: %w", err)
	}
	t.Notes = notes.String
	t.TimeMinutes = intPtr(minutes)
	t.AssignedTo = int64Ptr(assigned)
	return &t, nil
}

func (r *TopicRepository) ListForInstance(ctx context.Context, instanceID int64) ([]models.Topic, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, instance_id, title, notes, time_minutes, order_index, assigned_to, completion_status, created_at FROM topics WHERE instance_id = ? ORDER BY order_index",
		instanceID)
	if err != nil {
		return nil, fmt.Errorf("query topics: %w", err)
	}
	defer rows.Close()

	var list []models.Topic
	for rows.Next() {
		var t models.Topic
		var minutes, assigned sql.NullInt64
		var notes sql.NullString
		if err := rows.Scan(&t.ID, &t.InstanceID, &t.Title, &notes, &minutes, &t.OrderIndex, &assigned, &t.CompletionStatus, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		t.Notes = notes.String
		t.TimeMinutes = intPtr(minutes)
		t.AssignedTo = int64Ptr(assigned)
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *TopicRepository) Update(ctx context.Context, t models.Topic) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE topics SET title = ?, notes = ?, time_minutes = ?, assigned_to = ?, completion_status = ? WHERE id = ?",
		t.Title, t.Notes, t.TimeMinutes, t.AssignedTo, t.CompletionStatus, t.ID)
	if err != nil {
		return fmt.Errorf("update topic: %w", err)
	}
	return requireRow(res)
}

func (r *TopicRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM topics WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}
	return requireRow(res)
}

// Reorder requires the id list to cover every topic of the instance
// so the resulting order stays dense.
func (r *TopicRepository) Reorder(ctx context.Context, instanceID int64, orderedIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var total int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM topics WHERE instance_id = ?", instanceID).Scan(&total); err != nil {
		return fmt.Errorf("count topics: %w", err)
	}
	if total != len(orderedIDs) {
		return fmt.Errorf("%w: reorder must list all %d topics, got %d", models.ErrValidation, total, len(orderedIDs))
	}

	for idx, id := range orderedIDs {
		res, err := tx.ExecContext(ctx,
			"UPDATE topics SET order_index = ? WHERE id = ? AND instance_id = ?",
			idx, id, instanceID)
		if err != nil {
			return fmt.Errorf("reorder topic %d: %w", id, err)
		}
		if err := requireRow(res); err != nil {
			return fmt.Errorf("topic %d not in instance %d: %w", id, instanceID, err)
		}
	}
	return tx.Commit()
}
