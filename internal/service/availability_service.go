package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campuswell/scheduling-api/internal/dto"
	"github.com/campuswell/scheduling-api/internal/models"
	"github.com/campuswell/scheduling-api/pkg/dates"
	appErrors "github.com/campuswell/scheduling-api/pkg/errors"
)

type availabilityStore interface {
	Publish(ctx context.Context, counsellorID, dateKey string, start dates.TimeOfDay) (*models.AvailabilitySlot, error)
	Withdraw(ctx context.Context, counsellorID, dateKey string, start dates.TimeOfDay) error
	SlotsFor(ctx context.Context, counsellorID, dateKey string) ([]models.AvailabilitySlot, error)
}

type availabilityAppointmentReader interface {
	ExistsActive(ctx context.Context, counsellorID, dateKey string, start dates.TimeOfDay) (bool, error)
}

// AvailabilityService manages a counsellor's published calendar.
type AvailabilityService struct {
	slots        availabilityStore
	appointments availabilityAppointmentReader
	cache        *CacheService
	validator    *validator.Validate
	logger       *zap.Logger
	now          func() time.Time
}

// NewAvailabilityService constructs the service.
func NewAvailabilityService(slots availabilityStore, appointments availabilityAppointmentReader, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{
		slots:        slots,
		appointments: appointments,
		cache:        cache,
		validator:    validate,
		logger:       logger,
		now:          time.Now,
	}
}

func availabilityCacheKey(counsellorID, dateKey string) string {
	return fmt.Sprintf("availability:%s:%s", counsellorID, dateKey)
}

// Publish adds an open slot to the counsellor's calendar. Slots on past dates
// are rejected since nobody could ever book them.
func (s *AvailabilityService) Publish(ctx context.Context, counsellorID string, req dto.PublishSlotRequest) (*models.AvailabilitySlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	day, start, err := parseSlot(req.Date, req.Time)
	if err != nil {
		return nil, err
	}
	if dates.IsPast(day, s.now()) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cannot publish a slot on a past date")
	}

	slot, err := s.slots.Publish(ctx, counsellorID, dates.Key(day), start)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, availabilityCacheKey(counsellorID, slot.Date))
	s.logger.Info("slot published",
		zap.String("counsellor_id", counsellorID),
		zap.String("date", slot.Date),
		zap.String("time", slot.Start.String()),
	)
	return slot, nil
}

// PublishWeek publishes the same time across the Monday-to-Sunday span
// containing the given date. Days where the slot already exists are skipped so
// the operation stays idempotent; past days are skipped silently.
func (s *AvailabilityService) PublishWeek(ctx context.Context, counsellorID string, req dto.PublishSlotRequest) ([]models.AvailabilitySlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	day, start, err := parseSlot(req.Date, req.Time)
	if err != nil {
		return nil, err
	}

	weekStart, _ := dates.WeekRange(day)
	now := s.now()
	published := make([]models.AvailabilitySlot, 0, 7)
	for i := 0; i < 7; i++ {
		cell := weekStart.AddDate(0, 0, i)
		if dates.IsPast(cell, now) {
			continue
		}
		slot, err := s.slots.Publish(ctx, counsellorID, dates.Key(cell), start)
		if err != nil {
			if appErrors.HasCode(err, appErrors.ErrDuplicateSlot) {
				continue
			}
			return published, err
		}
		s.cache.Invalidate(ctx, availabilityCacheKey(counsellorID, slot.Date))
		published = append(published, *slot)
	}
	return published, nil
}

// Withdraw removes an open slot. A slot backing a pending or upcoming
// appointment cannot be withdrawn; the appointment has to be declined or
// cancelled first.
func (s *AvailabilityService) Withdraw(ctx context.Context, counsellorID string, req dto.WithdrawSlotRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	day, start, err := parseSlot(req.Date, req.Time)
	if err != nil {
		return err
	}
	dateKey := dates.Key(day)

	booked, err := s.appointments.ExistsActive(ctx, counsellorID, dateKey, start)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slot usage")
	}
	if booked {
		return appErrors.ErrSlotBooked
	}

	if err := s.slots.Withdraw(ctx, counsellorID, dateKey, start); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, availabilityCacheKey(counsellorID, dateKey))
	s.logger.Info("slot withdrawn",
		zap.String("counsellor_id", counsellorID),
		zap.String("date", dateKey),
		zap.String("time", start.String()),
	)
	return nil
}

// SlotsFor returns the counsellor's open slots for a date in ascending time
// order, serving from cache when possible.
func (s *AvailabilityService) SlotsFor(ctx context.Context, counsellorID, date string) (*dto.DayAvailabilityResponse, error) {
	day, err := dates.ParseKey(date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date, expected YYYY-MM-DD")
	}
	dateKey := dates.Key(day)

	cacheKey := availabilityCacheKey(counsellorID, dateKey)
	var cached dto.DayAvailabilityResponse
	if s.cache.Get(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	slots, err := s.slots.SlotsFor(ctx, counsellorID, dateKey)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability")
	}

	resp := &dto.DayAvailabilityResponse{
		CounsellorID: counsellorID,
		Date:         dateKey,
		Slots:        make([]string, 0, len(slots)),
	}
	for _, slot := range slots {
		resp.Slots = append(resp.Slots, slot.Start.String())
	}

	s.cache.Set(ctx, cacheKey, resp)
	return resp, nil
}

// parseSlot validates the wire representation of a (date, time) pair.
func parseSlot(date, tod string) (time.Time, dates.TimeOfDay, error) {
	day, err := dates.ParseKey(date)
	if err != nil {
		return time.Time{}, 0, appErrors.Clone(appErrors.ErrValidation, "invalid date, expected YYYY-MM-DD")
	}
	start, err := dates.ParseTimeOfDay(tod)
	if err != nil {
		return time.Time{}, 0, appErrors.Clone(appErrors.ErrValidation, "invalid time of day")
	}
	return day, start, nil
}
