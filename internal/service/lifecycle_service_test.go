package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campuswell/scheduling-api/internal/models"
	"github.com/campuswell/scheduling-api/internal/store"
	"github.com/campuswell/scheduling-api/pkg/dates"
)

func mustTime(t *testing.T, s string) dates.TimeOfDay {
	t.Helper()
	tod, err := dates.ParseTimeOfDay(s)
	require.NoError(t, err)
	return tod
}

func TestSweepDue(t *testing.T) {
	now := time.Date(2025, time.March, 12, 10, 30, 0, 0, time.UTC)
	appointments := []models.Appointment{
		{ID: "past", Status: models.StatusUpcoming, Date: "2025-03-12", Start: mustTime(t, "09:00")},
		{ID: "exact", Status: models.StatusUpcoming, Date: "2025-03-12", Start: mustTime(t, "10:30")},
		{ID: "future", Status: models.StatusUpcoming, Date: "2025-03-12", Start: mustTime(t, "11:00")},
		{ID: "tomorrow", Status: models.StatusUpcoming, Date: "2025-03-13", Start: mustTime(t, "09:00")},
		{ID: "pending", Status: models.StatusPending, Date: "2025-03-12", Start: mustTime(t, "08:00")},
		{ID: "cancelled", Status: models.StatusCancelled, Date: "2025-03-12", Start: mustTime(t, "08:00")},
		{ID: "malformed", Status: models.StatusUpcoming, Date: "not-a-date", Start: mustTime(t, "08:00")},
	}

	due := SweepDue(now, time.UTC, appointments)

	ids := make([]string, 0, len(due))
	for _, appt := range due {
		ids = append(ids, appt.ID)
	}
	assert.ElementsMatch(t, []string{"past", "exact"}, ids)
}

func seedAppointment(t *testing.T, appointments *store.Appointments, id, date, tod string, status models.AppointmentStatus) {
	t.Helper()
	err := appointments.Create(context.Background(), &models.Appointment{
		ID:           id,
		StudentID:    "s1",
		CounsellorID: "c1",
		Date:         date,
		Start:        mustTime(t, tod),
		Status:       status,
	})
	require.NoError(t, err)
}

func TestSweepCompletesElapsed(t *testing.T) {
	appointments := store.NewAppointments()
	seedAppointment(t, appointments, "a1", "2025-03-12", "09:00", models.StatusUpcoming)
	seedAppointment(t, appointments, "a2", "2025-03-12", "12:00", models.StatusUpcoming)

	svc := NewLifecycleService(appointments, nil, time.UTC, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC) }

	require.NoError(t, svc.Sweep(context.Background()))

	a1, err := appointments.GetByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, a1.Status)

	a2, err := appointments.GetByID(context.Background(), "a2")
	require.NoError(t, err)
	assert.Equal(t, models.StatusUpcoming, a2.Status)
}

func TestSweepIdempotent(t *testing.T) {
	appointments := store.NewAppointments()
	seedAppointment(t, appointments, "a1", "2025-03-12", "09:00", models.StatusUpcoming)

	svc := NewLifecycleService(appointments, nil, time.UTC, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC) }

	require.NoError(t, svc.Sweep(context.Background()))
	require.NoError(t, svc.Sweep(context.Background()))

	a1, err := appointments.GetByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, a1.Status)
}

// staleLifecycleStore hands the sweep a listing that is already out of date:
// the record was cancelled after the list was taken, so the compare-and-set
// must refuse the completion write.
type staleLifecycleStore struct {
	listed   []models.Appointment
	attempts int
}

func (s *staleLifecycleStore) ListByStatus(ctx context.Context, status models.AppointmentStatus) ([]models.Appointment, error) {
	return s.listed, nil
}

func (s *staleLifecycleStore) UpdateStatusIf(ctx context.Context, id string, from, to models.AppointmentStatus) (bool, error) {
	s.attempts++
	return false, nil
}

func TestSweepNeverOverwritesCancellation(t *testing.T) {
	stale := &staleLifecycleStore{listed: []models.Appointment{
		{ID: "a1", Status: models.StatusUpcoming, Date: "2025-03-12", Start: mustTime(t, "09:00")},
	}}

	svc := NewLifecycleService(stale, nil, time.UTC, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC) }

	require.NoError(t, svc.Sweep(context.Background()))
	assert.Equal(t, 1, stale.attempts)
}
