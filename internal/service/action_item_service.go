package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campuswell/scheduling-api/internal/dto"
	"github.com/campuswell/scheduling-api/internal/models"
	appErrors "github.com/campuswell/scheduling-api/pkg/errors"
)

type actionItemStore interface {
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	CreateItem(ctx context.Context, item *models.ActionItem) error
	GetItem(ctx context.Context, id string) (*models.ActionItem, error)
	UpdateItem(ctx context.Context, item *models.ActionItem) error
	DeleteItem(ctx context.Context, id string) error
	ListItems(ctx context.Context, appointmentID string) ([]models.ActionItem, error)
}

// ActionItemService manages the per-appointment action item list. Creation,
// text edits, and deletion belong to the counsellor; the completion flag may
// also be toggled by the owning student.
type ActionItemService struct {
	store     actionItemStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewActionItemService constructs the service.
func NewActionItemService(store actionItemStore, validate *validator.Validate, logger *zap.Logger) *ActionItemService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActionItemService{store: store, validator: validate, logger: logger}
}

// Create appends a new item to an appointment.
func (s *ActionItemService) Create(ctx context.Context, claims *models.JWTClaims, appointmentID string, req dto.CreateActionItemRequest) (*models.ActionItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	appt, err := s.store.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !isAppointmentCounsellor(claims, appt) {
		return nil, appErrors.ErrForbidden
	}

	item := &models.ActionItem{
		AppointmentID: appointmentID,
		Text:          req.Text,
	}
	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info("action item created",
		zap.String("appointment_id", appointmentID),
		zap.String("action_item_id", item.ID),
	)
	return item, nil
}

// Update edits an item. Text edits require the counsellor; the completion
// flag may be set by the counsellor or the owning student.
func (s *ActionItemService) Update(ctx context.Context, claims *models.JWTClaims, id string, req dto.UpdateActionItemRequest) (*models.ActionItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if req.Text == nil && req.Completed == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "nothing to update")
	}

	item, err := s.store.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	appt, err := s.store.GetByID(ctx, item.AppointmentID)
	if err != nil {
		return nil, err
	}

	if req.Text != nil && !isAppointmentCounsellor(claims, appt) {
		return nil, appErrors.ErrForbidden
	}
	if req.Completed != nil && !canViewAppointment(claims, appt) {
		return nil, appErrors.ErrForbidden
	}

	if req.Text != nil {
		item.Text = *req.Text
	}
	if req.Completed != nil {
		item.Completed = *req.Completed
	}
	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an item.
func (s *ActionItemService) Delete(ctx context.Context, claims *models.JWTClaims, id string) error {
	item, err := s.store.GetItem(ctx, id)
	if err != nil {
		return err
	}
	appt, err := s.store.GetByID(ctx, item.AppointmentID)
	if err != nil {
		return err
	}
	if !isAppointmentCounsellor(claims, appt) {
		return appErrors.ErrForbidden
	}
	return s.store.DeleteItem(ctx, id)
}

// List returns an appointment's items in order.
func (s *ActionItemService) List(ctx context.Context, claims *models.JWTClaims, appointmentID string) ([]models.ActionItem, error) {
	appt, err := s.store.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !canViewAppointment(claims, appt) {
		return nil, appErrors.ErrForbidden
	}
	return s.store.ListItems(ctx, appointmentID)
}

func isAppointmentCounsellor(claims *models.JWTClaims, appt *models.Appointment) bool {
	if claims.Role == models.RoleAdmin {
		return true
	}
	return claims.Role == models.RoleCounsellor && claims.UserID == appt.CounsellorID
}
