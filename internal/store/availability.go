// Package store provides the in-memory store driver. It is the single source
// of truth in development and tests; the sqlx repositories in
// internal/repository implement the same contracts against Postgres.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/campuswell/scheduling-api/internal/models"
	"github.com/campuswell/scheduling-api/pkg/dates"
	appErrors "github.com/campuswell/scheduling-api/pkg/errors"
)

// Availability keeps each counsellor's published slots keyed by date.
// Slots for a date are held in ascending time order with no duplicates.
type Availability struct {
	mu        sync.RWMutex
	calendars map[string]map[string][]models.AvailabilitySlot
}

// NewAvailability constructs an empty availability store.
func NewAvailability() *Availability {
	return &Availability{calendars: make(map[string]map[string][]models.AvailabilitySlot)}
}

// Publish adds a slot to the counsellor's calendar for the given date key.
func (s *Availability) Publish(ctx context.Context, counsellorID, dateKey string, start dates.TimeOfDay) (*models.AvailabilitySlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	calendar, ok := s.calendars[counsellorID]
	if !ok {
		calendar = make(map[string][]models.AvailabilitySlot)
		s.calendars[counsellorID] = calendar
	}

	slots := calendar[dateKey]
	for _, slot := range slots {
		if slot.Start == start {
			return nil, appErrors.ErrDuplicateSlot
		}
	}

	slot := models.AvailabilitySlot{
		ID:           uuid.NewString(),
		CounsellorID: counsellorID,
		Date:         dateKey,
		Start:        start,
		CreatedAt:    time.Now().UTC(),
	}
	slots = append(slots, slot)
	sort.Slice(slots, func(i, j int) bool { return slots[i].Start < slots[j].Start })
	calendar[dateKey] = slots

	return &slot, nil
}

// Withdraw removes a slot from the counsellor's calendar.
func (s *Availability) Withdraw(ctx context.Context, counsellorID, dateKey string, start dates.TimeOfDay) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots := s.calendars[counsellorID][dateKey]
	for i, slot := range slots {
		if slot.Start == start {
			s.calendars[counsellorID][dateKey] = append(slots[:i], slots[i+1:]...)
			return nil
		}
	}
	return appErrors.ErrSlotNotFound
}

// SlotsFor returns the counsellor's open slots for a date in ascending time
// order. A date with nothing published yields an empty slice.
func (s *Availability) SlotsFor(ctx context.Context, counsellorID, dateKey string) ([]models.AvailabilitySlot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slots := s.calendars[counsellorID][dateKey]
	out := make([]models.AvailabilitySlot, len(slots))
	copy(out, slots)
	return out, nil
}
