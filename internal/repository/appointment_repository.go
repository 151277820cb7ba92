package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campuswell/scheduling-api/internal/models"
	"github.com/campuswell/scheduling-api/pkg/dates"
	appErrors "github.com/campuswell/scheduling-api/pkg/errors"
)

const appointmentColumns = `id, student_id, counsellor_id, to_char(slot_date, 'YYYY-MM-DD') AS slot_date, start_minute, status, notes, summary, created_at, updated_at`

// AppointmentRepository persists appointment records.
//
// Backing table:
//
//	appointments(id uuid pk, student_id text, counsellor_id text,
//	  slot_date date, start_minute int, status text, notes text,
//	  summary text null, created_at timestamptz, updated_at timestamptz)
type AppointmentRepository struct {
	db *sqlx.DB
}

// NewAppointmentRepository constructs an appointment repository.
func NewAppointmentRepository(db *sqlx.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// Create inserts an appointment record.
func (r *AppointmentRepository) Create(ctx context.Context, appt *models.Appointment) error {
	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = now
	}
	appt.UpdatedAt = now

	const query = `INSERT INTO appointments (id, student_id, counsellor_id, slot_date, start_minute, status, notes, summary, created_at, updated_at)
VALUES (:id, :student_id, :counsellor_id, :slot_date, :start_minute, :status, :notes, :summary, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, appt); err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	return nil
}

// GetByID fetches an appointment together with its action items.
func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE id = $1`, appointmentColumns)
	var appt models.Appointment
	if err := r.db.GetContext(ctx, &appt, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}

	const itemsQuery = `SELECT id, appointment_id, text, completed, position, created_at, updated_at
FROM action_items WHERE appointment_id = $1 ORDER BY position ASC`
	items := []models.ActionItem{}
	if err := r.db.SelectContext(ctx, &items, itemsQuery, id); err != nil {
		return nil, fmt.Errorf("get appointment items: %w", err)
	}
	if len(items) > 0 {
		appt.ActionItems = items
	}
	return &appt, nil
}

// List returns appointments matching the filter, newest first, plus the total
// count before pagination.
func (r *AppointmentRepository) List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.StudentID != "" {
		where = append(where, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.CounsellorID != "" {
		where = append(where, fmt.Sprintf("counsellor_id = $%d", len(args)+1))
		args = append(args, filter.CounsellorID)
	}
	if filter.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.FromDate != "" {
		where = append(where, fmt.Sprintf("slot_date >= $%d::date", len(args)+1))
		args = append(args, filter.FromDate)
	}
	if filter.ToDate != "" {
		where = append(where, fmt.Sprintf("slot_date <= $%d::date", len(args)+1))
		args = append(args, filter.ToDate)
	}
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE %s
ORDER BY slot_date DESC, start_minute DESC, id ASC LIMIT %d OFFSET %d`, appointmentColumns, whereClause, size, offset)
	appointments := []models.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list appointments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM appointments WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}
	return appointments, total, nil
}

// ListByStatus returns every appointment in the given status.
func (r *AppointmentRepository) ListByStatus(ctx context.Context, status models.AppointmentStatus) ([]models.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE status = $1`, appointmentColumns)
	appointments := []models.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, status); err != nil {
		return nil, fmt.Errorf("list appointments by status: %w", err)
	}
	return appointments, nil
}

// UpdateStatusIf performs a compare-and-set status update, reporting whether
// the row was still in the expected source status.
func (r *AppointmentRepository) UpdateStatusIf(ctx context.Context, id string, from, to models.AppointmentStatus) (bool, error) {
	const query = `UPDATE appointments SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	res, err := r.db.ExecContext(ctx, query, to, time.Now().UTC(), id, from)
	if err != nil {
		return false, fmt.Errorf("update appointment status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update appointment status: %w", err)
	}
	return affected > 0, nil
}

// SetSummary records the counsellor's post-session summary.
func (r *AppointmentRepository) SetSummary(ctx context.Context, id, summary string) error {
	const query = `UPDATE appointments SET summary = $1, updated_at = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, summary, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set appointment summary: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set appointment summary: %w", err)
	}
	if affected == 0 {
		return appErrors.ErrNotFound
	}
	return nil
}

// ExistsActive reports whether a pending or upcoming appointment occupies the
// given counsellor slot.
func (r *AppointmentRepository) ExistsActive(ctx context.Context, counsellorID, dateKey string, start dates.TimeOfDay) (bool, error) {
	const query = `SELECT EXISTS (
SELECT 1 FROM appointments
WHERE counsellor_id = $1 AND slot_date = $2::date AND start_minute = $3 AND status IN ('PENDING', 'UPCOMING'))`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, counsellorID, dateKey, start); err != nil {
		return false, fmt.Errorf("check active appointment: %w", err)
	}
	return exists, nil
}
