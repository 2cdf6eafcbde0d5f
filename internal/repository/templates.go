package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tacticalsync/tacticalsync/internal/models"
)

type TemplateRepository struct {
	db *sql.DB
}

func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// Create inserts the template and its items in one transaction.
// order_index follows the given item order.
func (r *TemplateRepository) Create(ctx context.Context, tpl models.AgendaTemplate) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO agenda_templates (name, created_by, created_at) VALUES (?, ?, ?)",
		tpl.Name, tpl.CreatedBy, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("insert template: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for i, item := range tpl.Items {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO agenda_template_items (template_id, title, duration_minutes, order_index) VALUES (?, ?, ?, ?)",
			id, item.Title, item.DurationMinutes, i)
		if err != nil {
			return 0, fmt.Errorf("insert template item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return id, nil
}

// GetByID returns the template with its items sorted by order_index,
// regardless of insertion order.
func (r *TemplateRepository) GetByID(ctx context.Context, id int64) (*models.AgendaTemplate, error) {
	var tpl models.AgendaTemplate
	err := r.db.QueryRowContext(ctx,
		"SELECT template_id, name, created_by, created_at FROM agenda_templates WHERE template_id = ?",
		id).Scan(&tpl.ID, &tpl.Name, &tpl.CreatedBy, &tpl.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("query template: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT id, template_id, title, duration_minutes, order_index FROM agenda_template_items WHERE template_id = ? ORDER BY order_index",
		id)
	if err != nil {
		return nil, fmt.Errorf("query template items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.AgendaTemplateItem
		var minutes sql.NullInt64
		if err := rows.Scan(&item.ID, &item.TemplateID, &item.Title, &minutes, &item.OrderIndex); err != nil {
			return nil, fmt.Errorf("scan template item: %w", err)
		}
		item.DurationMinutes = intPtr(minutes)
		tpl.Items = append(tpl.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *TemplateRepository) ListForUser(ctx context.Context, userID int64) ([]models.AgendaTemplate, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT template_id, name, created_by, created_at FROM agenda_templates WHERE created_by = ? ORDER BY created_at DESC",
		userID)
	if err != nil {
		return nil, fmt.Errorf("query templates: %w", err)
	}
	defer rows.Close()

	var list []models.AgendaTemplate
	for rows.Next() {
		var tpl models.AgendaTemplate
		if err := rows.Scan(&tpl.ID, &tpl.Name, &tpl.CreatedBy, &tpl.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		list = append(list, tpl)
	}
	return list, rows.Err()
}

// Update replaces the template name and its full item set.
func (r *TemplateRepository) Update(ctx context.Context, tpl models.AgendaTemplate) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE agenda_templates SET name = ? WHERE template_id = ?", tpl.Name, tpl.ID)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	if err := requireRow(res); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM agenda_template_items WHERE template_id = ?", tpl.ID); err != nil {
		return fmt.Errorf("clear template items: %w", err)
	}
	for i, item := range tpl.Items {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO agenda_template_items (template_id, title, duration_minutes, order_index) VALUES (?, ?, ?, ?)",
			tpl.ID, item.Title, item.DurationMinutes, i)
		if err != nil {
			return fmt.Errorf("insert template item: %w", err)
		}
	}
	return tx.Commit()
}

func (r *TemplateRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM agenda_templates WHERE template_id = ?", id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return requireRow(res)
}
