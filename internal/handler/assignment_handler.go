package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/urbanly-services/provider-dashboard/internal/application"
	"github.com/urbanly-services/provider-dashboard/internal/common/auth"
	"github.com/urbanly-services/provider-dashboard/internal/common/middleware"
	"github.com/urbanly-services/provider-dashboard/internal/common/response"
)

// AssignmentHandler handles HTTP requests for provider assignment.
type AssignmentHandler struct {
	service *application.AssignmentService
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(service *application.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: service}
}

// RegisterRoutes registers all assignment routes on the given router group.
func (h *AssignmentHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	staff := middleware.RequireRole(auth.RoleOwner, auth.RoleDispatcher, auth.RoleProvider)

	bookings := r.Group("/api/v1/bookings")
	bookings.Use(authMW, staff)
	{
		bookings.GET("/:id/eligible-providers", h.ListEligibleProviders)
		bookings.POST("/:id/assign", h.Assign)
	}
}

// ListEligibleProviders handles GET /api/v1/bookings/:id/eligible-providers.
func (h *AssignmentHandler) ListEligibleProviders(c *gin.Context) {
	businessID, bookingID, ok := scopedBookingID(c)
	if !ok {
		return
	}

	result, err := h.service.ResolveEligibleProviders(c.Request.Context(), businessID, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Assign handles POST /api/v1/bookings/:id/assign. A null or omitted
// provider_id clears the current assignment.
func (h *AssignmentHandler) Assign(c *gin.Context) {
	businessID, bookingID, ok := scopedBookingID(c)
	if !ok {
		return
	}
	role, _ := middleware.GetUserRole(c)

	var req application.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Assign(c.Request.Context(), businessID, bookingID, req.ProviderID, role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
