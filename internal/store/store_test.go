package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuswell/scheduling-api/internal/models"
	"github.com/campuswell/scheduling-api/pkg/dates"
	appErrors "github.com/campuswell/scheduling-api/pkg/errors"
)

func mustTime(t *testing.T, s string) dates.TimeOfDay {
	t.Helper()
	tod, err := dates.ParseTimeOfDay(s)
	require.NoError(t, err)
	return tod
}

func TestAvailabilityPublishKeepsSortedOrder(t *testing.T) {
	s := NewAvailability()
	ctx := context.Background()

	for _, raw := range []string{"10:00", "09:00", "14:30"} {
		_, err := s.Publish(ctx, "c-1", "2025-03-10", mustTime(t, raw))
		require.NoError(t, err)
	}

	slots, err := s.SlotsFor(ctx, "c-1", "2025-03-10")
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, "09:00", slots[0].Start.String())
	assert.Equal(t, "10:00", slots[1].Start.String())
	assert.Equal(t, "14:30", slots[2].Start.String())
}

func TestAvailabilityPublishDuplicate(t *testing.T) {
	s := NewAvailability()
	ctx := context.Background()

	_, err := s.Publish(ctx, "c-1", "2025-03-10", mustTime(t, "09:00"))
	require.NoError(t, err)
	_, err = s.Publish(ctx, "c-1", "2025-03-10", mustTime(t, "09:00"))
	assert.True(t, appErrors.HasCode(err, appErrors.ErrDuplicateSlot))

	// Same time on a different date or for a different counsellor is fine.
	_, err = s.Publish(ctx, "c-1", "2025-03-11", mustTime(t, "09:00"))
	assert.NoError(t, err)
	_, err = s.Publish(ctx, "c-2", "2025-03-10", mustTime(t, "09:00"))
	assert.NoError(t, err)
}

func TestAvailabilityWithdrawRoundTrip(t *testing.T) {
	s := NewAvailability()
	ctx := context.Background()

	_, err := s.Publish(ctx, "c-1", "2025-03-10", mustTime(t, "09:00"))
	require.NoError(t, err)
	_, err = s.Publish(ctx, "c-1", "2025-03-10", mustTime(t, "10:00"))
	require.NoError(t, err)

	require.NoError(t, s.Withdraw(ctx, "c-1", "2025-03-10", mustTime(t, "10:00")))

	slots, err := s.SlotsFor(ctx, "c-1", "2025-03-10")
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "09:00", slots[0].Start.String())

	err = s.Withdraw(ctx, "c-1", "2025-03-10", mustTime(t, "10:00"))
	assert.True(t, appErrors.HasCode(err, appErrors.ErrSlotNotFound))
}

func TestAvailabilitySlotsForEmpty(t *testing.T) {
	s := NewAvailability()
	slots, err := s.SlotsFor(context.Background(), "c-1", "2025-03-10")
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func newAppointment(t *testing.T, status models.AppointmentStatus) *models.Appointment {
	t.Helper()
	return &models.Appointment{
		StudentID:    "s-1",
		CounsellorID: "c-1",
		Date:         "2025-03-10",
		Start:        mustTime(t, "09:00"),
		Status:       status,
		Notes:        "first session",
	}
}

func TestAppointmentsCreateAndGet(t *testing.T) {
	s := NewAppointments()
	ctx := context.Background()

	appt := newAppointment(t, models.StatusUpcoming)
	require.NoError(t, s.Create(ctx, appt))
	require.NotEmpty(t, appt.ID)

	got, err := s.GetByID(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusUpcoming, got.Status)
	assert.Equal(t, "first session", got.Notes)

	_, err = s.GetByID(ctx, "missing")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}

func TestAppointmentsUpdateStatusIf(t *testing.T) {
	s := NewAppointments()
	ctx := context.Background()

	appt := newAppointment(t, models.StatusUpcoming)
	require.NoError(t, s.Create(ctx, appt))

	ok, err := s.UpdateStatusIf(ctx, appt.ID, models.StatusUpcoming, models.StatusCancelled)
	require.NoError(t, err)
	assert.True(t, ok)

	// A sweep racing the cancellation sees the status has moved and backs off.
	ok, err = s.UpdateStatusIf(ctx, appt.ID, models.StatusUpcoming, models.StatusCompleted)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := s.GetByID(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)
}

func TestAppointmentsListFilterAndPaginate(t *testing.T) {
	s := NewAppointments()
	ctx := context.Background()

	for _, day := range []string{"2025-03-10", "2025-03-11", "2025-03-12"} {
		appt := newAppointment(t, models.StatusUpcoming)
		appt.Date = day
		require.NoError(t, s.Create(ctx, appt))
	}
	other := newAppointment(t, models.StatusPending)
	other.StudentID = "s-2"
	require.NoError(t, s.Create(ctx, other))

	list, total, err := s.List(ctx, models.AppointmentFilter{StudentID: "s-1"})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, list, 3)
	assert.Equal(t, "2025-03-12", list[0].Date, "newest first")

	list, total, err = s.List(ctx, models.AppointmentFilter{StudentID: "s-1", Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, list, 1)

	list, _, err = s.List(ctx, models.AppointmentFilter{Status: models.StatusPending})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "s-2", list[0].StudentID)

	list, _, err = s.List(ctx, models.AppointmentFilter{FromDate: "2025-03-11", ToDate: "2025-03-11"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2025-03-11", list[0].Date)
}

func TestAppointmentsExistsActive(t *testing.T) {
	s := NewAppointments()
	ctx := context.Background()

	appt := newAppointment(t, models.StatusUpcoming)
	require.NoError(t, s.Create(ctx, appt))

	active, err := s.ExistsActive(ctx, "c-1", "2025-03-10", mustTime(t, "09:00"))
	require.NoError(t, err)
	assert.True(t, active)

	active, err = s.ExistsActive(ctx, "c-1", "2025-03-10", mustTime(t, "10:00"))
	require.NoError(t, err)
	assert.False(t, active)

	ok, err := s.UpdateStatusIf(ctx, appt.ID, models.StatusUpcoming, models.StatusCancelled)
	require.NoError(t, err)
	require.True(t, ok)

	active, err = s.ExistsActive(ctx, "c-1", "2025-03-10", mustTime(t, "09:00"))
	require.NoError(t, err)
	assert.False(t, active, "terminal appointments do not hold the slot")
}

func TestActionItemsLifecycle(t *testing.T) {
	s := NewAppointments()
	ctx := context.Background()

	appt := newAppointment(t, models.StatusCompleted)
	require.NoError(t, s.Create(ctx, appt))

	first := &models.ActionItem{AppointmentID: appt.ID, Text: "breathing exercise"}
	second := &models.ActionItem{AppointmentID: appt.ID, Text: "journal daily"}
	require.NoError(t, s.CreateItem(ctx, first))
	require.NoError(t, s.CreateItem(ctx, second))
	assert.Equal(t, 1, first.Position)
	assert.Equal(t, 2, second.Position)

	items, err := s.ListItems(ctx, appt.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "breathing exercise", items[0].Text)

	second.Completed = true
	require.NoError(t, s.UpdateItem(ctx, second))
	got, err := s.GetItem(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)

	require.NoError(t, s.DeleteItem(ctx, first.ID))
	items, err = s.ListItems(ctx, appt.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	err = s.CreateItem(ctx, &models.ActionItem{AppointmentID: "missing", Text: "x"})
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}
