package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/campuswell/scheduling-api/internal/models"
)

type lifecycleAppointmentStore interface {
	ListByStatus(ctx context.Context, status models.AppointmentStatus) ([]models.Appointment, error)
	UpdateStatusIf(ctx context.Context, id string, from, to models.AppointmentStatus) (bool, error)
}

// LifecycleService owns the automatic completion sweep: upcoming appointments
// whose start instant has passed become completed. Caller-driven transitions
// live in BookingService; the sweep is the only writer of completed.
type LifecycleService struct {
	appointments lifecycleAppointmentStore
	metrics      *MetricsService
	logger       *zap.Logger
	loc          *time.Location
	now          func() time.Time
}

// NewLifecycleService constructs the service. A nil location defaults to UTC.
func NewLifecycleService(appointments lifecycleAppointmentStore, metrics *MetricsService, loc *time.Location, logger *zap.Logger) *LifecycleService {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LifecycleService{
		appointments: appointments,
		metrics:      metrics,
		logger:       logger,
		loc:          loc,
		now:          time.Now,
	}
}

// SweepDue returns the appointments from the given set that are due for
// completion at the given instant. It is a pure function of its inputs;
// records that are not upcoming or whose date or time cannot be resolved are
// skipped.
func SweepDue(now time.Time, loc *time.Location, appointments []models.Appointment) []models.Appointment {
	if loc == nil {
		loc = time.UTC
	}
	due := make([]models.Appointment, 0)
	for _, appt := range appointments {
		if appt.Status != models.StatusUpcoming {
			continue
		}
		startAt, err := appt.StartAt(loc)
		if err != nil {
			continue
		}
		if !startAt.After(now) {
			due = append(due, appt)
		}
	}
	return due
}

// Sweep performs one pass: list upcoming appointments, resolve which have
// started, and complete each with a compare-and-set so a racing cancellation
// always wins. A failure on one record never aborts the pass.
func (s *LifecycleService) Sweep(ctx context.Context) error {
	started := s.now()

	upcoming, err := s.appointments.ListByStatus(ctx, models.StatusUpcoming)
	if err != nil {
		s.metrics.RecordSweep(s.now().Sub(started), 0, 1)
		return err
	}

	var completions, failures int
	for _, appt := range SweepDue(started, s.loc, upcoming) {
		changed, err := s.appointments.UpdateStatusIf(ctx, appt.ID, models.StatusUpcoming, models.StatusCompleted)
		if err != nil {
			failures++
			s.logger.Error("sweep failed to complete appointment",
				zap.String("appointment_id", appt.ID),
				zap.Error(err),
			)
			continue
		}
		if !changed {
			// Cancelled between the list and the write; leave it alone.
			continue
		}
		completions++
	}

	s.metrics.RecordSweep(s.now().Sub(started), completions, failures)
	if completions > 0 || failures > 0 {
		s.logger.Info("sweep pass finished",
			zap.Int("completions", completions),
			zap.Int("failures", failures),
			zap.Int("upcoming", len(upcoming)),
		)
	}
	return nil
}
