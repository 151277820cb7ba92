package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuswell/scheduling-api/internal/dto"
	"github.com/campuswell/scheduling-api/internal/models"
	appErrors "github.com/campuswell/scheduling-api/pkg/errors"
	"github.com/campuswell/scheduling-api/pkg/response"
)

type availabilityService interface {
	Publish(ctx context.Context, counsellorID string, req dto.PublishSlotRequest) (*models.AvailabilitySlot, error)
	PublishWeek(ctx context.Context, counsellorID string, req dto.PublishSlotRequest) ([]models.AvailabilitySlot, error)
	Withdraw(ctx context.Context, counsellorID string, req dto.WithdrawSlotRequest) error
	SlotsFor(ctx context.Context, counsellorID, date string) (*dto.DayAvailabilityResponse, error)
}

// AvailabilityHandler exposes the counsellor calendar endpoints.
type AvailabilityHandler struct {
	service availabilityService
}

// NewAvailabilityHandler builds a new handler.
func NewAvailabilityHandler(service availabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

// Publish godoc
// @Summary Publish an open slot
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body dto.PublishSlotRequest true "Slot payload"
// @Param week query bool false "Publish the same time across the whole week"
// @Success 201 {object} response.Envelope
// @Router /availability [post]
func (h *AvailabilityHandler) Publish(c *gin.Context) {
	var req dto.PublishSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid slot payload"))
		return
	}
	claims := claimsFromContext(c)

	if c.Query("week") == "true" {
		slots, err := h.service.PublishWeek(c.Request.Context(), claims.UserID, req)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Created(c, slots)
		return
	}

	slot, err := h.service.Publish(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slot)
}

// Withdraw godoc
// @Summary Withdraw an open slot
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body dto.WithdrawSlotRequest true "Slot payload"
// @Success 204
// @Router /availability [delete]
func (h *AvailabilityHandler) Withdraw(c *gin.Context) {
	var req dto.WithdrawSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid slot payload"))
		return
	}
	claims := claimsFromContext(c)

	if err := h.service.Withdraw(c.Request.Context(), claims.UserID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SlotsFor godoc
// @Summary List a counsellor's open slots for a date
// @Tags Availability
// @Produce json
// @Param counsellorId path string true "Counsellor ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /availability/{counsellorId} [get]
func (h *AvailabilityHandler) SlotsFor(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date query parameter is required"))
		return
	}

	day, err := h.service.SlotsFor(c.Request.Context(), c.Param("counsellorId"), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, day, nil)
}
