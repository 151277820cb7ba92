package service

import (
	"context"

	"github.com/campuswell/scheduling-api/internal/models"
	"github.com/campuswell/scheduling-api/pkg/dates"
)

// AvailabilityStore is the full contract a store driver provides for the
// counsellor calendar. Both the in-memory store and the Postgres repository
// satisfy it; individual services consume narrower slices of it.
type AvailabilityStore interface {
	Publish(ctx context.Context, counsellorID, dateKey string, start dates.TimeOfDay) (*models.AvailabilitySlot, error)
	Withdraw(ctx context.Context, counsellorID, dateKey string, start dates.TimeOfDay) error
	SlotsFor(ctx context.Context, counsellorID, dateKey string) ([]models.AvailabilitySlot, error)
}

// AppointmentStore is the full contract a store driver provides for
// appointments and their action items.
type AppointmentStore interface {
	Create(ctx context.Context, appt *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, int, error)
	ListByStatus(ctx context.Context, status models.AppointmentStatus) ([]models.Appointment, error)
	UpdateStatusIf(ctx context.Context, id string, from, to models.AppointmentStatus) (bool, error)
	SetSummary(ctx context.Context, id, summary string) error
	ExistsActive(ctx context.Context, counsellorID, dateKey string, start dates.TimeOfDay) (bool, error)

	CreateItem(ctx context.Context, item *models.ActionItem) error
	GetItem(ctx context.Context, id string) (*models.ActionItem, error)
	UpdateItem(ctx context.Context, item *models.ActionItem) error
	DeleteItem(ctx context.Context, id string) error
	ListItems(ctx context.Context, appointmentID string) ([]models.ActionItem, error)
}
