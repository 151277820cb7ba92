package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/campuswell/scheduling-api/internal/middleware"
	"github.com/campuswell/scheduling-api/internal/models"
	"github.com/campuswell/scheduling-api/internal/service"
)

// Handlers bundles the HTTP handlers mounted under the API prefix. The
// observability endpoints (health, ready, metrics) are mounted unprefixed and
// unauthenticated by the caller.
type Handlers struct {
	Availability *AvailabilityHandler
	Appointments *AppointmentHandler
	ActionItems  *ActionItemHandler
}

// RegisterRoutes mounts the API surface under the given prefix. Every
// scheduling route requires a valid token; role gates are the coarse filter
// and the services enforce record-level ownership.
func RegisterRoutes(r *gin.Engine, prefix string, identity *service.IdentityService, h Handlers) {
	api := r.Group(prefix)
	api.Use(middleware.JWT(identity))

	counsellor := middleware.RequireRoles(models.RoleCounsellor, models.RoleAdmin)
	anyRole := middleware.RequireRoles(models.RoleStudent, models.RoleCounsellor, models.RoleAdmin)

	api.GET("/availability/:counsellorId", anyRole, h.Availability.SlotsFor)
	api.POST("/availability", counsellor, h.Availability.Publish)
	api.DELETE("/availability", counsellor, h.Availability.Withdraw)

	api.GET("/appointments", anyRole, h.Appointments.List)
	api.POST("/appointments", anyRole, h.Appointments.Book)
	api.GET("/appointments/export", anyRole, h.Appointments.Export)
	api.GET("/appointments/:id", anyRole, h.Appointments.Get)
	api.PATCH("/appointments/:id", anyRole, h.Appointments.Transition)
	api.PUT("/appointments/:id/summary", counsellor, h.Appointments.SetSummary)

	api.GET("/appointments/:id/action-items", anyRole, h.ActionItems.List)
	api.POST("/appointments/:id/action-items", counsellor, h.ActionItems.Create)
	api.PATCH("/action-items/:id", anyRole, h.ActionItems.Update)
	api.DELETE("/action-items/:id", counsellor, h.ActionItems.Delete)
}
