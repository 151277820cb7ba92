package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuswell/scheduling-api/internal/dto"
	"github.com/campuswell/scheduling-api/internal/models"
	appErrors "github.com/campuswell/scheduling-api/pkg/errors"
)

type availabilityServiceMock struct {
	publishErr  error
	withdrawErr error
	slots       *dto.DayAvailabilityResponse
	weekSlots   []models.AvailabilitySlot
	weekCalled  bool
}

func (m *availabilityServiceMock) Publish(ctx context.Context, counsellorID string, req dto.PublishSlotRequest) (*models.AvailabilitySlot, error) {
	if m.publishErr != nil {
		return nil, m.publishErr
	}
	return &models.AvailabilitySlot{ID: "slot1", CounsellorID: counsellorID, Date: req.Date}, nil
}

func (m *availabilityServiceMock) PublishWeek(ctx context.Context, counsellorID string, req dto.PublishSlotRequest) ([]models.AvailabilitySlot, error) {
	m.weekCalled = true
	return m.weekSlots, nil
}

func (m *availabilityServiceMock) Withdraw(ctx context.Context, counsellorID string, req dto.WithdrawSlotRequest) error {
	return m.withdrawErr
}

func (m *availabilityServiceMock) SlotsFor(ctx context.Context, counsellorID, date string) (*dto.DayAvailabilityResponse, error) {
	return m.slots, nil
}

func TestAvailabilityHandlerPublish(t *testing.T) {
	mock := &availabilityServiceMock{}
	handler := NewAvailabilityHandler(mock)

	c, w := newTestContext(t, http.MethodPost, "/availability", dto.PublishSlotRequest{Date: "2025-06-01", Time: "09:00"})
	handler.Publish(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.False(t, mock.weekCalled)
}

func TestAvailabilityHandlerPublishWeek(t *testing.T) {
	mock := &availabilityServiceMock{}
	handler := NewAvailabilityHandler(mock)

	c, w := newTestContext(t, http.MethodPost, "/availability?week=true", dto.PublishSlotRequest{Date: "2025-06-01", Time: "09:00"})
	handler.Publish(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, mock.weekCalled)
}

func TestAvailabilityHandlerPublishDuplicate(t *testing.T) {
	handler := NewAvailabilityHandler(&availabilityServiceMock{publishErr: appErrors.ErrDuplicateSlot})

	c, w := newTestContext(t, http.MethodPost, "/availability", dto.PublishSlotRequest{Date: "2025-06-01", Time: "09:00"})
	handler.Publish(c)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "DUPLICATE_SLOT")
}

func TestAvailabilityHandlerWithdrawBooked(t *testing.T) {
	handler := NewAvailabilityHandler(&availabilityServiceMock{withdrawErr: appErrors.ErrSlotBooked})

	c, w := newTestContext(t, http.MethodDelete, "/availability", dto.WithdrawSlotRequest{Date: "2025-06-01", Time: "09:00"})
	handler.Withdraw(c)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "SLOT_BOOKED")
}

func TestAvailabilityHandlerSlotsFor(t *testing.T) {
	handler := NewAvailabilityHandler(&availabilityServiceMock{slots: &dto.DayAvailabilityResponse{
		CounsellorID: "c1", Date: "2025-06-01", Slots: []string{"09:00", "10:00"},
	}})

	c, w := newTestContext(t, http.MethodGet, "/availability/c1?date=2025-06-01", nil)
	c.Params = gin.Params{{Key: "counsellorId", Value: "c1"}}
	handler.SlotsFor(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"slots":["09:00","10:00"]`)
}

func TestAvailabilityHandlerSlotsForMissingDate(t *testing.T) {
	handler := NewAvailabilityHandler(&availabilityServiceMock{})

	c, w := newTestContext(t, http.MethodGet, "/availability/c1", nil)
	c.Params = gin.Params{{Key: "counsellorId", Value: "c1"}}
	handler.SlotsFor(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
