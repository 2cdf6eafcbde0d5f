package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tacticalsync/tacticalsync/internal/models"
)

type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, c models.Comment) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO comments (item_type, item_id, created_by, content, created_at) VALUES (?, ?, ?, ?, ?)",
		c.ItemType, c.ItemID, c.CreatedBy, c.Content, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("insert comment: %w", err)
	}
	return res.LastInsertId()
}

func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	var c models.Comment
	err := r.db.QueryRowContext(ctx,
		"SELECT id, item_type, item_id, created_by, content, created_at FROM comments WHERE id = ?",
		id).Scan(&c.ID, &c.ItemType, &c.ItemID, &c.CreatedBy, &c.Content, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("query comment: %w", err)
	}
	return &c, nil
}

// ListForItem returns the thread on one item, oldest first, with the
// author's name joined in for display.
func (r *CommentRepository) ListForItem(ctx context.Context, itemType string, itemID int64) ([]models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.item_type, c.item_id, c.created_by, c.content, c.created_at, u.first_name, u.last_name
		FROM comments c
		JOIN users u ON u.user_id = c.created_by
		WHERE c.item_type = ? AND c.item_id = ?
		ORDER BY c.created_at`, itemType, itemID)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	var list []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.ItemType, &c.ItemID, &c.CreatedBy, &c.Content, &c.CreatedAt, &c.FirstName, &c.LastName); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM comments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return requireRow(res)
}
