package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuswell/scheduling-api/internal/dto"
	"github.com/campuswell/scheduling-api/internal/models"
	"github.com/campuswell/scheduling-api/internal/service"
	appErrors "github.com/campuswell/scheduling-api/pkg/errors"
	"github.com/campuswell/scheduling-api/pkg/response"
)

type bookingService interface {
	Book(ctx context.Context, claims *models.JWTClaims, req dto.BookAppointmentRequest) (*models.Appointment, error)
	Transition(ctx context.Context, claims *models.JWTClaims, id string, action models.AppointmentAction) (*models.Appointment, error)
}

type appointmentReadService interface {
	List(ctx context.Context, claims *models.JWTClaims, query dto.AppointmentListQuery) (*dto.AppointmentListResponse, error)
	Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.Appointment, error)
	SetSummary(ctx context.Context, claims *models.JWTClaims, id string, req dto.SummaryRequest) (*models.Appointment, error)
}

type exportService interface {
	Appointments(ctx context.Context, claims *models.JWTClaims, query dto.AppointmentListQuery, format service.ExportFormat) (*service.ExportResult, error)
}

// AppointmentHandler exposes the appointment endpoints.
type AppointmentHandler struct {
	booking      bookingService
	appointments appointmentReadService
	exports      exportService
}

// NewAppointmentHandler builds a new handler. Exports may be nil when the
// export surface is disabled.
func NewAppointmentHandler(booking bookingService, appointments appointmentReadService, exports exportService) *AppointmentHandler {
	return &AppointmentHandler{booking: booking, appointments: appointments, exports: exports}
}

// Book godoc
// @Summary Book an appointment against an open slot
// @Tags Appointments
// @Accept json
// @Produce json
// @Param payload body dto.BookAppointmentRequest true "Booking payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /appointments [post]
func (h *AppointmentHandler) Book(c *gin.Context) {
	var req dto.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid booking payload"))
		return
	}

	appt, err := h.booking.Book(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, appt)
}

// List godoc
// @Summary List the caller's appointments
// @Tags Appointments
// @Produce json
// @Param status query string false "Status filter"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /appointments [get]
func (h *AppointmentHandler) List(c *gin.Context) {
	var query dto.AppointmentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}

	list, err := h.appointments.List(c.Request.Context(), claimsFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list.Appointments, &list.Pagination)
}

// Get godoc
// @Summary Get one appointment
// @Tags Appointments
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Envelope
// @Router /appointments/{id} [get]
func (h *AppointmentHandler) Get(c *gin.Context) {
	appt, err := h.appointments.Get(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, appt, nil)
}

// Transition godoc
// @Summary Apply a lifecycle action (accept, decline, cancel)
// @Tags Appointments
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param payload body dto.TransitionRequest true "Action payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /appointments/{id} [patch]
func (h *AppointmentHandler) Transition(c *gin.Context) {
	var req dto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid action payload"))
		return
	}

	appt, err := h.booking.Transition(c.Request.Context(), claimsFromContext(c), c.Param("id"), req.Action)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, appt, nil)
}

// SetSummary godoc
// @Summary Write the post-session summary
// @Tags Appointments
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param payload body dto.SummaryRequest true "Summary payload"
// @Success 200 {object} response.Envelope
// @Router /appointments/{id}/summary [put]
func (h *AppointmentHandler) SetSummary(c *gin.Context) {
	var req dto.SummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid summary payload"))
		return
	}

	appt, err := h.appointments.SetSummary(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, appt, nil)
}

// Export godoc
// @Summary Export the caller's appointments
// @Tags Appointments
// @Produce text/csv
// @Produce application/pdf
// @Param format query string true "csv or pdf"
// @Success 200 {file} file
// @Router /appointments/export [get]
func (h *AppointmentHandler) Export(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled"))
		return
	}
	var query dto.AppointmentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}

	result, err := h.exports.Appointments(c.Request.Context(), claimsFromContext(c), query, service.ExportFormat(c.Query("format")))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
