package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campuswell/scheduling-api/internal/dto"
	"github.com/campuswell/scheduling-api/internal/models"
	"github.com/campuswell/scheduling-api/internal/store"
	"github.com/campuswell/scheduling-api/pkg/dates"
	appErrors "github.com/campuswell/scheduling-api/pkg/errors"
)

func newAvailabilityFixture(t *testing.T) (*AvailabilityService, *store.Availability, *store.Appointments) {
	t.Helper()
	slots := store.NewAvailability()
	appointments := store.NewAppointments()
	cache := NewCacheService(nil, nil, 0, zap.NewNop())
	svc := NewAvailabilityService(slots, appointments, cache, nil, zap.NewNop())
	return svc, slots, appointments
}

func TestPublishAndList(t *testing.T) {
	svc, _, _ := newAvailabilityFixture(t)
	date := futureDateKey(5)

	// Published out of order and across the 12-hour boundary; listing must
	// come back in numeric time order.
	for _, tod := range []string{"02:00 PM", "9:00 AM", "10:00"} {
		_, err := svc.Publish(context.Background(), "c1", dto.PublishSlotRequest{Date: date, Time: tod})
		require.NoError(t, err)
	}

	day, err := svc.SlotsFor(context.Background(), "c1", date)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00", "14:00"}, day.Slots)
}

func TestPublishDuplicate(t *testing.T) {
	svc, _, _ := newAvailabilityFixture(t)
	date := futureDateKey(5)

	_, err := svc.Publish(context.Background(), "c1", dto.PublishSlotRequest{Date: date, Time: "09:00"})
	require.NoError(t, err)

	// Same minute in 12-hour form is still the same slot.
	_, err = svc.Publish(context.Background(), "c1", dto.PublishSlotRequest{Date: date, Time: "9:00 AM"})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrDuplicateSlot))
}

func TestPublishPastDateRejected(t *testing.T) {
	svc, _, _ := newAvailabilityFixture(t)
	past := dates.Key(time.Now().AddDate(0, 0, -1))

	_, err := svc.Publish(context.Background(), "c1", dto.PublishSlotRequest{Date: past, Time: "09:00"})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}

func TestWithdraw(t *testing.T) {
	svc, _, _ := newAvailabilityFixture(t)
	date := futureDateKey(5)

	_, err := svc.Publish(context.Background(), "c1", dto.PublishSlotRequest{Date: date, Time: "09:00"})
	require.NoError(t, err)

	require.NoError(t, svc.Withdraw(context.Background(), "c1", dto.WithdrawSlotRequest{Date: date, Time: "09:00"}))

	err = svc.Withdraw(context.Background(), "c1", dto.WithdrawSlotRequest{Date: date, Time: "09:00"})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrSlotNotFound))
}

func TestWithdrawBookedSlotRefused(t *testing.T) {
	svc, _, appointments := newAvailabilityFixture(t)
	date := futureDateKey(5)

	_, err := svc.Publish(context.Background(), "c1", dto.PublishSlotRequest{Date: date, Time: "09:00"})
	require.NoError(t, err)

	err = appointments.Create(context.Background(), &models.Appointment{
		StudentID:    "s1",
		CounsellorID: "c1",
		Date:         date,
		Start:        mustTime(t, "09:00"),
		Status:       models.StatusUpcoming,
	})
	require.NoError(t, err)

	err = svc.Withdraw(context.Background(), "c1", dto.WithdrawSlotRequest{Date: date, Time: "09:00"})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrSlotBooked))
}

func TestSlotsForEmpty(t *testing.T) {
	svc, _, _ := newAvailabilityFixture(t)

	day, err := svc.SlotsFor(context.Background(), "c1", futureDateKey(5))
	require.NoError(t, err)
	assert.Empty(t, day.Slots)
}

func TestPublishWeek(t *testing.T) {
	svc, _, _ := newAvailabilityFixture(t)
	anchor := time.Now().AddDate(0, 0, 14)
	weekStart, _ := dates.WeekRange(anchor)

	published, err := svc.PublishWeek(context.Background(), "c1", dto.PublishSlotRequest{
		Date: dates.Key(anchor),
		Time: "09:00",
	})
	require.NoError(t, err)
	require.Len(t, published, 7)

	for i := 0; i < 7; i++ {
		day, err := svc.SlotsFor(context.Background(), "c1", dates.Key(weekStart.AddDate(0, 0, i)))
		require.NoError(t, err)
		assert.Equal(t, []string{"09:00"}, day.Slots)
	}

	// Re-running skips the existing slots instead of failing.
	published, err = svc.PublishWeek(context.Background(), "c1", dto.PublishSlotRequest{
		Date: dates.Key(anchor),
		Time: "09:00",
	})
	require.NoError(t, err)
	assert.Empty(t, published)
}

func TestSlotsForInvalidDate(t *testing.T) {
	svc, _, _ := newAvailabilityFixture(t)

	_, err := svc.SlotsFor(context.Background(), "c1", "12-03-2025")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}
