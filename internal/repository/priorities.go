package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tacticalsync/tacticalsync/internal/models"
)

type PriorityRepository struct {
	db *sql.DB
}

func NewPriorityRepository(db *sql.DB) *PriorityRepository {
	return &PriorityRepository{db: db}
}

func (r *PriorityRepository) Create(ctx context.Context, p models.Priority) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO priorities (instance_id, title, outcome, activities, order_index, assigned_to, completion_status, created_at)
		SELECT ?, ?, ?, ?, COALESCE(MAX(order_index) + 1, 0), ?, ?, ?
		FROM priorities WHERE instance_id = ?`,
		p.InstanceID, p.Title, p.Outcome, p.Activities, p.AssignedTo, models.StatusPending, time.Now().UTC(), p.InstanceID)
	if err != nil {
		return 0, fmt.Errorf("insert priority: %w", err)
	}
	return res.LastInsertId()
}

func (r *PriorityRepository) GetByID(ctx context.Context, id int64) (*models.Priority, error) {
	var p models.Priority
	var assigned sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		"SELECT id, instance_id, title, outcome, activities, order_index, assigned_to, completion_status, created_at FROM priorities WHERE id = ?",
		id).Scan(&p.ID, &p.InstanceID, &p.Title, &p.Outcome, &p.Activities, &p.OrderIndex, &assigned, &p.CompletionStatus, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("query priority: %w", err)
	}
	p.AssignedTo = int64Ptr(assigned)
	return &p, nil
}

func (r *PriorityRepository) ListForInstance(ctx context.Context, instanceID int64) ([]models.Priority, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, instance_id, title, outcome, activities, order_index, assigned_to, completion_status, created_at FROM priorities WHERE instance_id = ? ORDER BY order_index",
		instanceID)
	if err != nil {
		return nil, fmt.Errorf("query priorities: %w", err)
	}
	defer rows.Close()

	var list []models.Priority
	for rows.Next() {
		var p models.Priority
		var assigned sql.NullInt64
		if err := rows.Scan(&p.ID, &p.InstanceID, &p.Title, &p.Outcome, &p.Activities, &p.OrderIndex, &assigned, &p.CompletionStatus, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan priority: %w", err)
		}
		p.AssignedTo = int64Ptr(assigned)
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PriorityRepository) Update(ctx context.Context, p models.Priority) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE priorities SET title = ?, outcome = ?, activities = ?, assigned_to = ?, completion_status = ? WHERE id = ?",
		p.Title, p.Outcome, p.Activities, p.AssignedTo, p.CompletionStatus, p.ID)
	if err != nil {
		return fmt.Errorf("update priority: %w", err)
	}
	return requireRow(res)
}

func (r *PriorityRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM priorities WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete priority: %w", err)
	}
	return requireRow(res)
}

// Reorder rewrites the instance's priority order in one transaction.
// The id list must cover every priority of the instance so the order
// stays dense.
func (r *PriorityRepository) Reorder(ctx context.Context, instanceID int64, orderedIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var total int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM priorities WHERE instance_id = ?", instanceID).Scan(&total); err != nil {
		return fmt.Errorf("count priorities: %w", err)
	}
	if total != len(orderedIDs) {
		return fmt.Errorf("%w: reorder must list all %d priorities, got %d", models.ErrValidation, total, len(orderedIDs))
	}

	for idx, id := range orderedIDs {
		res, err := tx.ExecContext(ctx,
			"UPDATE priorities SET order_index = ? WHERE id = ? AND instance_id = ?",
			idx, id, instanceID)
		if err != nil {
			return fmt.Errorf("reorder priority %d: %w", id, err)
		}
		if err := requireRow(res); err != nil {
			return fmt.Errorf("priority %d not in instance %d: %w", id, instanceID, err)
		}
	}
	return tx.Commit()
}
