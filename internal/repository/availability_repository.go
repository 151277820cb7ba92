package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campuswell/scheduling-api/internal/models"
	"github.com/campuswell/scheduling-api/pkg/dates"
	appErrors "github.com/campuswell/scheduling-api/pkg/errors"
)

// AvailabilityRepository persists counsellor availability slots.
//
// Backing table:
//
//	availability_slots(id uuid pk, counsellor_id text, slot_date date,
//	  start_minute int, created_at timestamptz,
//	  unique(counsellor_id, slot_date, start_minute))
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository constructs an availability repository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// Publish inserts a slot, relying on the unique constraint to reject
// duplicates for the same counsellor, date and time.
func (r *AvailabilityRepository) Publish(ctx context.Context, counsellorID, dateKey string, start dates.TimeOfDay) (*models.AvailabilitySlot, error) {
	slot := models.AvailabilitySlot{
		ID:           uuid.NewString(),
		CounsellorID: counsellorID,
		Date:         dateKey,
		Start:        start,
		CreatedAt:    time.Now().UTC(),
	}

	const query = `INSERT INTO availability_slots (id, counsellor_id, slot_date, start_minute, created_at)
VALUES ($1, $2, $3::date, $4, $5)
ON CONFLICT (counsellor_id, slot_date, start_minute) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query, slot.ID, slot.CounsellorID, slot.Date, slot.Start, slot.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("publish slot: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("publish slot: %w", err)
	}
	if affected == 0 {
		return nil, appErrors.ErrDuplicateSlot
	}
	return &slot, nil
}

// Withdraw removes a slot from the counsellor's calendar.
func (r *AvailabilityRepository) Withdraw(ctx context.Context, counsellorID, dateKey string, start dates.TimeOfDay) error {
	const query = `DELETE FROM availability_slots
WHERE counsellor_id = $1 AND slot_date = $2::date AND start_minute = $3`
	res, err := r.db.ExecContext(ctx, query, counsellorID, dateKey, start)
	if err != nil {
		return fmt.Errorf("withdraw slot: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("withdraw slot: %w", err)
	}
	if affected == 0 {
		return appErrors.ErrSlotNotFound
	}
	return nil
}

// SlotsFor returns the counsellor's published slots for a date, ordered by
// time of day.
func (r *AvailabilityRepository) SlotsFor(ctx context.Context, counsellorID, dateKey string) ([]models.AvailabilitySlot, error) {
	const query = `SELECT id, counsellor_id, to_char(slot_date, 'YYYY-MM-DD') AS slot_date, start_minute, created_at
FROM availability_slots
WHERE counsellor_id = $1 AND slot_date = $2::date
ORDER BY start_minute ASC`
	slots := []models.AvailabilitySlot{}
	if err := r.db.SelectContext(ctx, &slots, query, counsellorID, dateKey); err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}
