package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/campuswell/scheduling-api/internal/models"
	appErrors "github.com/campuswell/scheduling-api/pkg/errors"
)

// CreateItem appends an action item to the appointment's ordered list.
func (s *Appointments) CreateItem(ctx context.Context, item *models.ActionItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[item.AppointmentID]; !ok {
		return appErrors.ErrNotFound
	}

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	item.Position = len(s.items[item.AppointmentID]) + 1

	s.items[item.AppointmentID] = append(s.items[item.AppointmentID], *item)
	return nil
}

// GetItem returns an action item by id.
func (s *Appointments) GetItem(ctx context.Context, id string) (*models.ActionItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, items := range s.items {
		for _, item := range items {
			if item.ID == id {
				out := item
				return &out, nil
			}
		}
	}
	return nil, appErrors.ErrNotFound
}

// UpdateItem replaces the stored copy of the item.
func (s *Appointments) UpdateItem(ctx context.Context, item *models.ActionItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.items[item.AppointmentID]
	for i := range items {
		if items[i].ID == item.ID {
			item.UpdatedAt = time.Now().UTC()
			item.Position = items[i].Position
			item.CreatedAt = items[i].CreatedAt
			items[i] = *item
			return nil
		}
	}
	return appErrors.ErrNotFound
}

// DeleteItem removes an action item.
func (s *Appointments) DeleteItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for apptID, items := range s.items {
		for i, item := range items {
			if item.ID == id {
				s.items[apptID] = append(items[:i], items[i+1:]...)
				return nil
			}
		}
	}
	return appErrors.ErrNotFound
}

// ListItems returns the appointment's action items in creation order.
func (s *Appointments) ListItems(ctx context.Context, appointmentID string) ([]models.ActionItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.byID[appointmentID]; !ok {
		return nil, appErrors.ErrNotFound
	}
	return copyItems(s.items[appointmentID]), nil
}
