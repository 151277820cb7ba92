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

type actionItemService interface {
	Create(ctx context.Context, claims *models.JWTClaims, appointmentID string, req dto.CreateActionItemRequest) (*models.ActionItem, error)
	Update(ctx context.Context, claims *models.JWTClaims, id string, req dto.UpdateActionItemRequest) (*models.ActionItem, error)
	Delete(ctx context.Context, claims *models.JWTClaims, id string) error
	List(ctx context.Context, claims *models.JWTClaims, appointmentID string) ([]models.ActionItem, error)
}

// ActionItemHandler exposes the per-appointment action item endpoints.
type ActionItemHandler struct {
	service actionItemService
}

// NewActionItemHandler builds a new handler.
func NewActionItemHandler(service actionItemService) *ActionItemHandler {
	return &ActionItemHandler{service: service}
}

// Create godoc
// @Summary Add an action item to an appointment
// @Tags ActionItems
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param payload body dto.CreateActionItemRequest true "Action item payload"
// @Success 201 {object} response.Envelope
// @Router /appointments/{id}/action-items [post]
func (h *ActionItemHandler) Create(c *gin.Context) {
	var req dto.CreateActionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid action item payload"))
		return
	}

	item, err := h.service.Create(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// List godoc
// @Summary List an appointment's action items
// @Tags ActionItems
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Envelope
// @Router /appointments/{id}/action-items [get]
func (h *ActionItemHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Update godoc
// @Summary Edit an action item or toggle its completion
// @Tags ActionItems
// @Accept json
// @Produce json
// @Param id path string true "Action item ID"
// @Param payload body dto.UpdateActionItemRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Router /action-items/{id} [patch]
func (h *ActionItemHandler) Update(c *gin.Context) {
	var req dto.UpdateActionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid action item payload"))
		return
	}

	item, err := h.service.Update(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Delete an action item
// @Tags ActionItems
// @Param id path string true "Action item ID"
// @Success 204
// @Router /action-items/{id} [delete]
func (h *ActionItemHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), claimsFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
