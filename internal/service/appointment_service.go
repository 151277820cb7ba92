package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campuswell/scheduling-api/internal/dto"
	"github.com/campuswell/scheduling-api/internal/models"
	appErrors "github.com/campuswell/scheduling-api/pkg/errors"
)

type appointmentStore interface {
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, int, error)
	SetSummary(ctx context.Context, id, summary string) error
}

// AppointmentService serves appointment reads and the counsellor's
// post-session summary. All access is scoped to the caller's identity.
type AppointmentService struct {
	store     appointmentStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAppointmentService constructs the service.
func NewAppointmentService(store appointmentStore, validate *validator.Validate, logger *zap.Logger) *AppointmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AppointmentService{store: store, validator: validate, logger: logger}
}

// List returns the caller's appointments. Students see only their own,
// counsellors only their calendar; admins may filter freely.
func (s *AppointmentService) List(ctx context.Context, claims *models.JWTClaims, query dto.AppointmentListQuery) (*dto.AppointmentListResponse, error) {
	filter := models.AppointmentFilter{
		StudentID:    query.StudentID,
		CounsellorID: query.CounsellorID,
		FromDate:     query.FromDate,
		ToDate:       query.ToDate,
		Page:         query.Page,
		PageSize:     query.PageSize,
	}
	if query.Status != "" {
		status := models.AppointmentStatus(query.Status)
		if !status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown status filter")
		}
		filter.Status = status
	}

	switch claims.Role {
	case models.RoleStudent:
		filter.StudentID = claims.UserID
	case models.RoleCounsellor:
		filter.CounsellorID = claims.UserID
	case models.RoleAdmin:
	default:
		return nil, appErrors.ErrForbidden
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	appointments, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list appointments")
	}

	return &dto.AppointmentListResponse{
		Appointments: appointments,
		Pagination: models.Pagination{
			Page:       filter.Page,
			PageSize:   filter.PageSize,
			TotalCount: total,
		},
	}, nil
}

// Get returns one appointment. Only its participants and admins may see it.
func (s *AppointmentService) Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.Appointment, error) {
	appt, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canViewAppointment(claims, appt) {
		return nil, appErrors.ErrForbidden
	}
	return appt, nil
}

// SetSummary records the counsellor's post-session summary. Only the
// appointment's counsellor may write it, only once the session is completed,
// and only once.
func (s *AppointmentService) SetSummary(ctx context.Context, claims *models.JWTClaims, id string, req dto.SummaryRequest) (*models.Appointment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	appt, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if claims.Role != models.RoleAdmin && (claims.Role != models.RoleCounsellor || claims.UserID != appt.CounsellorID) {
		return nil, appErrors.ErrForbidden
	}
	if appt.Status != models.StatusCompleted {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "summary can only be written on a completed appointment")
	}
	if appt.Summary != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "summary has already been written")
	}

	if err := s.store.SetSummary(ctx, id, req.Summary); err != nil {
		return nil, err
	}
	appt.Summary = &req.Summary
	s.logger.Info("summary recorded", zap.String("appointment_id", id))
	return appt, nil
}

func canViewAppointment(claims *models.JWTClaims, appt *models.Appointment) bool {
	if claims.Role == models.RoleAdmin {
		return true
	}
	return claims.UserID == appt.StudentID || claims.UserID == appt.CounsellorID
}
