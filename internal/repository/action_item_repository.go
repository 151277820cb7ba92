package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campuswell/scheduling-api/internal/models"
	appErrors "github.com/campuswell/scheduling-api/pkg/errors"
)

// ActionItemRepository persists appointment action items.
//
// Backing table:
//
//	action_items(id uuid pk, appointment_id uuid references appointments(id)
//	  on delete cascade, text text, completed bool, position int,
//	  created_at timestamptz, updated_at timestamptz)
type ActionItemRepository struct {
	db *sqlx.DB
}

// NewActionItemRepository constructs an action item repository.
func NewActionItemRepository(db *sqlx.DB) *ActionItemRepository {
	return &ActionItemRepository{db: db}
}

// CreateItem appends an item to the end of the appointment's ordered list.
func (r *ActionItemRepository) CreateItem(ctx context.Context, item *models.ActionItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	const query = `INSERT INTO action_items (id, appointment_id, text, completed, position, created_at, updated_at)
SELECT $1, $2, $3, $4, COALESCE(MAX(position), 0) + 1, $5, $6
FROM action_items WHERE appointment_id = $2
RETURNING position`
	if err := r.db.GetContext(ctx, &item.Position, query, item.ID, item.AppointmentID, item.Text, item.Completed, item.CreatedAt, item.UpdatedAt); err != nil {
		return fmt.Errorf("create action item: %w", err)
	}
	return nil
}

// GetItem fetches an action item by id.
func (r *ActionItemRepository) GetItem(ctx context.Context, id string) (*models.ActionItem, error) {
	const query = `SELECT id, appointment_id, text, completed, position, created_at, updated_at
FROM action_items WHERE id = $1`
	var item models.ActionItem
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("get action item: %w", err)
	}
	return &item, nil
}

// UpdateItem persists text and completion changes.
func (r *ActionItemRepository) UpdateItem(ctx context.Context, item *models.ActionItem) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE action_items SET text = :text, completed = :completed, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, item)
	if err != nil {
		return fmt.Errorf("update action item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update action item: %w", err)
	}
	if affected == 0 {
		return appErrors.ErrNotFound
	}
	return nil
}

// DeleteItem removes an action item.
func (r *ActionItemRepository) DeleteItem(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM action_items WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete action item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete action item: %w", err)
	}
	if affected == 0 {
		return appErrors.ErrNotFound
	}
	return nil
}

// ListItems returns the appointment's items in list order.
func (r *ActionItemRepository) ListItems(ctx context.Context, appointmentID string) ([]models.ActionItem, error) {
	const query = `SELECT id, appointment_id, text, completed, position, created_at, updated_at
FROM action_items WHERE appointment_id = $1 ORDER BY position ASC`
	items := []models.ActionItem{}
	if err := r.db.SelectContext(ctx, &items, query, appointmentID); err != nil {
		return nil, fmt.Errorf("list action items: %w", err)
	}
	return items, nil
}
