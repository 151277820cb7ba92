package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campuswell/scheduling-api/internal/dto"
	"github.com/campuswell/scheduling-api/internal/models"
	"github.com/campuswell/scheduling-api/pkg/dates"
	appErrors "github.com/campuswell/scheduling-api/pkg/errors"
)

type bookingAppointmentStore interface {
	Create(ctx context.Context, appt *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	UpdateStatusIf(ctx context.Context, id string, from, to models.AppointmentStatus) (bool, error)
}

// counsellorLocks hands out one mutex per counsellor so booking attempts for
// the same calendar serialize while unrelated calendars proceed in parallel.
type counsellorLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newCounsellorLocks() *counsellorLocks {
	return &counsellorLocks{locks: make(map[string]*sync.Mutex)}
}

func (c *counsellorLocks) lock(counsellorID string) *sync.Mutex {
	c.mu.Lock()
	l, ok := c.locks[counsellorID]
	if !ok {
		l = &sync.Mutex{}
		c.locks[counsellorID] = l
	}
	c.mu.Unlock()
	l.Lock()
	return l
}

// BookingService orchestrates the booking flow and caller-driven lifecycle
// transitions. The check-then-mutate sequence in Book runs under a
// per-counsellor exclusive section so two concurrent attempts for the same
// slot can never both succeed.
type BookingService struct {
	appointments bookingAppointmentStore
	slots        availabilityStore
	cache        *CacheService
	metrics      *MetricsService
	validator    *validator.Validate
	logger       *zap.Logger
	locks        *counsellorLocks
	now          func() time.Time
}

// NewBookingService constructs the service.
func NewBookingService(appointments bookingAppointmentStore, slots availabilityStore, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *BookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{
		appointments: appointments,
		slots:        slots,
		cache:        cache,
		metrics:      metrics,
		validator:    validate,
		logger:       logger,
		locks:        newCounsellorLocks(),
		now:          time.Now,
	}
}

// Book creates an appointment against an open slot and consumes the slot in
// the same critical section. Student bookings land in upcoming, or in pending
// when the student asks for counsellor confirmation first. Counsellor-created
// appointments are always upcoming.
func (s *BookingService) Book(ctx context.Context, claims *models.JWTClaims, req dto.BookAppointmentRequest) (*models.Appointment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	studentID, counsellorID, status, err := resolveBookingParties(claims, req)
	if err != nil {
		return nil, err
	}

	day, start, err := parseSlot(req.Date, req.Time)
	if err != nil {
		return nil, err
	}
	if dates.IsPast(day, s.now()) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cannot book a past date")
	}
	dateKey := dates.Key(day)

	lock := s.locks.lock(counsellorID)
	defer lock.Unlock()

	open, err := s.slots.SlotsFor(ctx, counsellorID, dateKey)
	if err != nil {
		s.metrics.RecordBooking("error")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability")
	}
	available := false
	for _, slot := range open {
		if slot.Start == start {
			available = true
			break
		}
	}
	if !available {
		s.metrics.RecordBooking("slot_unavailable")
		return nil, appErrors.ErrSlotUnavailable
	}

	if err := s.slots.Withdraw(ctx, counsellorID, dateKey, start); err != nil {
		if appErrors.HasCode(err, appErrors.ErrSlotNotFound) {
			s.metrics.RecordBooking("slot_unavailable")
			return nil, appErrors.ErrSlotUnavailable
		}
		s.metrics.RecordBooking("error")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reserve slot")
	}

	appt := &models.Appointment{
		StudentID:    studentID,
		CounsellorID: counsellorID,
		Date:         dateKey,
		Start:        start,
		Status:       status,
		Notes:        req.Notes,
	}
	if err := s.appointments.Create(ctx, appt); err != nil {
		// Put the consumed slot back so the failure leaves no partial state.
		if _, pubErr := s.slots.Publish(ctx, counsellorID, dateKey, start); pubErr != nil {
			s.logger.Error("failed to restore slot after booking failure",
				zap.String("counsellor_id", counsellorID),
				zap.String("date", dateKey),
				zap.String("time", start.String()),
				zap.Error(pubErr),
			)
		}
		s.metrics.RecordBooking("error")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create appointment")
	}

	s.cache.Invalidate(ctx, availabilityCacheKey(counsellorID, dateKey))
	s.metrics.RecordBooking(strings.ToLower(string(status)))
	s.logger.Info("appointment booked",
		zap.String("appointment_id", appt.ID),
		zap.String("student_id", studentID),
		zap.String("counsellor_id", counsellorID),
		zap.String("date", dateKey),
		zap.String("time", start.String()),
		zap.String("status", string(status)),
	)
	return appt, nil
}

// Transition applies a caller action (accept, decline, cancel) to an
// appointment. Decline and cancel return the consumed slot to the calendar.
func (s *BookingService) Transition(ctx context.Context, claims *models.JWTClaims, id string, action models.AppointmentAction) (*models.Appointment, error) {
	appt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authorizeTransition(claims, appt, action); err != nil {
		return nil, err
	}

	to, ok := models.NextStatus(appt.Status, action)
	if !ok {
		if action == models.ActionCancel {
			return nil, appErrors.ErrNotCancellable
		}
		return nil, appErrors.ErrInvalidTransition
	}

	changed, err := s.appointments.UpdateStatusIf(ctx, id, appt.Status, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update appointment status")
	}
	if !changed {
		// Someone else moved the record first; report against its real state.
		if action == models.ActionCancel {
			return nil, appErrors.ErrNotCancellable
		}
		return nil, appErrors.ErrInvalidTransition
	}

	if to == models.StatusDeclined || to == models.StatusCancelled {
		s.restoreSlot(ctx, appt)
	}

	appt.Status = to
	s.logger.Info("appointment transitioned",
		zap.String("appointment_id", id),
		zap.String("action", string(action)),
		zap.String("status", string(to)),
	)
	return appt, nil
}

// restoreSlot re-publishes the slot consumed by a declined or cancelled
// appointment. A duplicate means the counsellor already re-opened it by hand.
func (s *BookingService) restoreSlot(ctx context.Context, appt *models.Appointment) {
	if _, err := s.slots.Publish(ctx, appt.CounsellorID, appt.Date, appt.Start); err != nil {
		if !appErrors.HasCode(err, appErrors.ErrDuplicateSlot) {
			s.logger.Error("failed to restore slot",
				zap.String("appointment_id", appt.ID),
				zap.String("counsellor_id", appt.CounsellorID),
				zap.String("date", appt.Date),
				zap.Error(err),
			)
		}
		return
	}
	s.cache.Invalidate(ctx, availabilityCacheKey(appt.CounsellorID, appt.Date))
}

// resolveBookingParties fills in the identity-implied side of the booking and
// picks the initial status.
func resolveBookingParties(claims *models.JWTClaims, req dto.BookAppointmentRequest) (studentID, counsellorID string, status models.AppointmentStatus, err error) {
	switch claims.Role {
	case models.RoleStudent:
		if req.CounsellorID == "" {
			return "", "", "", appErrors.Clone(appErrors.ErrValidation, "counsellor_id is required")
		}
		status = models.StatusUpcoming
		if req.Request {
			status = models.StatusPending
		}
		return claims.UserID, req.CounsellorID, status, nil
	case models.RoleCounsellor:
		if req.StudentID == "" {
			return "", "", "", appErrors.Clone(appErrors.ErrValidation, "student_id is required")
		}
		return req.StudentID, claims.UserID, models.StatusUpcoming, nil
	case models.RoleAdmin:
		if req.StudentID == "" || req.CounsellorID == "" {
			return "", "", "", appErrors.Clone(appErrors.ErrValidation, "student_id and counsellor_id are required")
		}
		status = models.StatusUpcoming
		if req.Request {
			status = models.StatusPending
		}
		return req.StudentID, req.CounsellorID, status, nil
	default:
		return "", "", "", appErrors.ErrForbidden
	}
}

// authorizeTransition enforces who may apply which action. Accept and decline
// belong to the appointment's counsellor; cancel to its student. Admins may
// apply any action.
func authorizeTransition(claims *models.JWTClaims, appt *models.Appointment, action models.AppointmentAction) error {
	if claims.Role == models.RoleAdmin {
		return nil
	}
	switch action {
	case models.ActionAccept, models.ActionDecline:
		if claims.Role == models.RoleCounsellor && claims.UserID == appt.CounsellorID {
			return nil
		}
	case models.ActionCancel:
		if claims.Role == models.RoleStudent && claims.UserID == appt.StudentID {
			return nil
		}
	}
	return appErrors.ErrForbidden
}
