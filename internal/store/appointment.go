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

// Appointments holds appointment records and their action items. Status
// writes go through UpdateStatusIf so concurrent writers never clobber a
// terminal state.
type Appointments struct {
	mu    sync.RWMutex
	byID  map[string]*models.Appointment
	items map[string][]models.ActionItem
}

// NewAppointments constructs an empty appointment store.
func NewAppointments() *Appointments {
	return &Appointments{
		byID:  make(map[string]*models.Appointment),
		items: make(map[string][]models.ActionItem),
	}
}

// Create stores a new appointment, assigning identifier and timestamps.
func (s *Appointments) Create(ctx context.Context, appt *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = now
	}
	appt.UpdatedAt = now

	stored := *appt
	stored.ActionItems = nil
	s.byID[appt.ID] = &stored
	return nil
}

// GetByID returns a copy of the appointment with its action items attached.
func (s *Appointments) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	appt, ok := s.byID[id]
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	out := *appt
	out.ActionItems = copyItems(s.items[id])
	return &out, nil
}

// List returns appointments matching the filter, newest first, with the total
// count before pagination.
func (s *Appointments) List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.Appointment, 0, len(s.byID))
	for _, appt := range s.byID {
		if filter.StudentID != "" && appt.StudentID != filter.StudentID {
			continue
		}
		if filter.CounsellorID != "" && appt.CounsellorID != filter.CounsellorID {
			continue
		}
		if filter.Status != "" && appt.Status != filter.Status {
			continue
		}
		if filter.FromDate != "" && appt.Date < filter.FromDate {
			continue
		}
		if filter.ToDate != "" && appt.Date > filter.ToDate {
			continue
		}
		out := *appt
		out.ActionItems = copyItems(s.items[appt.ID])
		matched = append(matched, out)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Date != matched[j].Date {
			return matched[i].Date > matched[j].Date
		}
		if matched[i].Start != matched[j].Start {
			return matched[i].Start > matched[j].Start
		}
		return matched[i].ID < matched[j].ID
	})

	total := len(matched)
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	lo := (page - 1) * size
	if lo >= total {
		return []models.Appointment{}, total, nil
	}
	hi := lo + size
	if hi > total {
		hi = total
	}
	return matched[lo:hi], total, nil
}

// ListByStatus returns all appointments in the given status.
func (s *Appointments) ListByStatus(ctx context.Context, status models.AppointmentStatus) ([]models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Appointment, 0)
	for _, appt := range s.byID {
		if appt.Status == status {
			out = append(out, *appt)
		}
	}
	return out, nil
}

// UpdateStatusIf atomically moves the appointment from one status to another.
// It reports false without mutating when the record is no longer in the
// expected source status.
func (s *Appointments) UpdateStatusIf(ctx context.Context, id string, from, to models.AppointmentStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt, ok := s.byID[id]
	if !ok {
		return false, appErrors.ErrNotFound
	}
	if appt.Status != from {
		return false, nil
	}
	appt.Status = to
	appt.UpdatedAt = time.Now().UTC()
	return true, nil
}

// SetSummary records the counsellor's post-session summary.
func (s *Appointments) SetSummary(ctx context.Context, id, summary string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt, ok := s.byID[id]
	if !ok {
		return appErrors.ErrNotFound
	}
	appt.Summary = &summary
	appt.UpdatedAt = time.Now().UTC()
	return nil
}

// ExistsActive reports whether a pending or upcoming appointment occupies the
// given counsellor slot.
func (s *Appointments) ExistsActive(ctx context.Context, counsellorID, dateKey string, start dates.TimeOfDay) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, appt := range s.byID {
		if appt.CounsellorID != counsellorID || appt.Date != dateKey || appt.Start != start {
			continue
		}
		if appt.Status == models.StatusPending || appt.Status == models.StatusUpcoming {
			return true, nil
		}
	}
	return false, nil
}

func copyItems(items []models.ActionItem) []models.ActionItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]models.ActionItem, len(items))
	copy(out, items)
	return out
}
