package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campuswell/scheduling-api/internal/dto"
	"github.com/campuswell/scheduling-api/internal/models"
	"github.com/campuswell/scheduling-api/internal/store"
	appErrors "github.com/campuswell/scheduling-api/pkg/errors"
)

func newActionItemFixture(t *testing.T) (*ActionItemService, *store.Appointments) {
	t.Helper()
	appointments := store.NewAppointments()
	seedAppointment(t, appointments, "a1", "2025-03-12", "09:00", models.StatusCompleted)
	return NewActionItemService(appointments, nil, zap.NewNop()), appointments
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestActionItemCreate(t *testing.T) {
	svc, _ := newActionItemFixture(t)

	first, err := svc.Create(context.Background(), counsellorClaims("c1"), "a1", dto.CreateActionItemRequest{Text: "practice breathing"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Position)
	assert.False(t, first.Completed)

	second, err := svc.Create(context.Background(), counsellorClaims("c1"), "a1", dto.CreateActionItemRequest{Text: "keep a journal"})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Position)

	items, err := svc.List(context.Background(), studentClaims("s1"), "a1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "practice breathing", items[0].Text)
}

func TestActionItemCreateForbidden(t *testing.T) {
	svc, _ := newActionItemFixture(t)

	_, err := svc.Create(context.Background(), studentClaims("s1"), "a1", dto.CreateActionItemRequest{Text: "nope"})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden))

	_, err = svc.Create(context.Background(), counsellorClaims("other"), "a1", dto.CreateActionItemRequest{Text: "nope"})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden))
}

func TestActionItemCompletionToggle(t *testing.T) {
	svc, _ := newActionItemFixture(t)

	item, err := svc.Create(context.Background(), counsellorClaims("c1"), "a1", dto.CreateActionItemRequest{Text: "practice breathing"})
	require.NoError(t, err)

	// The owning student may toggle completion.
	updated, err := svc.Update(context.Background(), studentClaims("s1"), item.ID, dto.UpdateActionItemRequest{Completed: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Completed)

	// But not edit the text.
	_, err = svc.Update(context.Background(), studentClaims("s1"), item.ID, dto.UpdateActionItemRequest{Text: strPtr("changed")})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden))

	// A stranger may do neither.
	_, err = svc.Update(context.Background(), studentClaims("stranger"), item.ID, dto.UpdateActionItemRequest{Completed: boolPtr(false)})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden))
}

func TestActionItemTextEdit(t *testing.T) {
	svc, _ := newActionItemFixture(t)

	item, err := svc.Create(context.Background(), counsellorClaims("c1"), "a1", dto.CreateActionItemRequest{Text: "old"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), counsellorClaims("c1"), item.ID, dto.UpdateActionItemRequest{Text: strPtr("new")})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Text)
	assert.Equal(t, item.Position, updated.Position)
}

func TestActionItemEmptyUpdateRejected(t *testing.T) {
	svc, _ := newActionItemFixture(t)

	item, err := svc.Create(context.Background(), counsellorClaims("c1"), "a1", dto.CreateActionItemRequest{Text: "x"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), counsellorClaims("c1"), item.ID, dto.UpdateActionItemRequest{})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}

func TestActionItemDelete(t *testing.T) {
	svc, _ := newActionItemFixture(t)

	item, err := svc.Create(context.Background(), counsellorClaims("c1"), "a1", dto.CreateActionItemRequest{Text: "x"})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), studentClaims("s1"), item.ID)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden))

	require.NoError(t, svc.Delete(context.Background(), counsellorClaims("c1"), item.ID))

	err = svc.Delete(context.Background(), counsellorClaims("c1"), item.ID)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}
