package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/urbanly-services/provider-dashboard/internal/application"
	"github.com/urbanly-services/provider-dashboard/internal/common/auth"
	"github.com/urbanly-services/provider-dashboard/internal/common/middleware"
	"github.com/urbanly-services/provider-dashboard/internal/common/response"
	bookingDomain "github.com/urbanly-services/provider-dashboard/internal/domain/booking"
)

// BookingHandler handles HTTP requests for booking lifecycle operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	staff := middleware.RequireRole(auth.RoleOwner, auth.RoleDispatcher, auth.RoleProvider)

	bookings := r.Group("/api/v1/bookings")
	bookings.Use(authMW, staff)
	{
		bookings.GET("", h.ListSchedule)
		bookings.GET("/summary", h.GetSummary)
		bookings.GET("/:id", h.GetBooking)
		bookings.POST("/:id/confirm", h.ConfirmBooking)
		bookings.POST("/:id/decline", h.DeclineBooking)
		bookings.POST("/:id/start", h.StartBooking)
		bookings.POST("/:id/complete", h.CompleteBooking)
		bookings.POST("/:id/no-show", h.MarkNoShow)
	}
}

// ListSchedule handles GET /api/v1/bookings?bucket=present|future|past.
func (h *BookingHandler) ListSchedule(c *gin.Context) {
	businessID, ok := middleware.GetBusinessID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	bucket := bookingDomain.Bucket(c.DefaultQuery("bucket", string(bookingDomain.BucketPresent)))
	switch bucket {
	case bookingDomain.BucketPresent, bookingDomain.BucketFuture, bookingDomain.BucketPast:
	default:
		response.BadRequest(c, "invalid bucket")
		return
	}

	page, limit := parsePagination(c)

	result, err := h.service.ListSchedule(c.Request.Context(), businessID, bucket, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetSummary handles GET /api/v1/bookings/summary (active/closed counts).
func (h *BookingHandler) GetSummary(c *gin.Context) {
	businessID, ok := middleware.GetBusinessID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.GetSummary(c.Request.Context(), businessID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	businessID, bookingID, ok := scopedBookingID(c)
	if !ok {
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), businessID, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ConfirmBooking handles POST /api/v1/bookings/:id/confirm.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	h.transition(c, h.service.ConfirmBooking)
}

// DeclineBooking handles POST /api/v1/bookings/:id/decline.
func (h *BookingHandler) DeclineBooking(c *gin.Context) {
	businessID, bookingID, ok := scopedBookingID(c)
	if !ok {
		return
	}
	role, _ := middleware.GetUserRole(c)

	var req application.DeclineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.DeclineBooking(c.Request.Context(), businessID, bookingID, role, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// StartBooking handles POST /api/v1/bookings/:id/start.
func (h *BookingHandler) StartBooking(c *gin.Context) {
	h.transition(c, h.service.StartBooking)
}

// CompleteBooking handles POST /api/v1/bookings/:id/complete.
func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	h.transition(c, h.service.CompleteBooking)
}

// MarkNoShow handles POST /api/v1/bookings/:id/no-show.
func (h *BookingHandler) MarkNoShow(c *gin.Context) {
	h.transition(c, h.service.MarkNoShow)
}

type transitionFunc func(ctx context.Context, businessID, bookingID uuid.UUID, role auth.Role) (*application.BookingDTO, error)

func (h *BookingHandler) transition(c *gin.Context, op transitionFunc) {
	businessID, bookingID, ok := scopedBookingID(c)
	if !ok {
		return
	}
	role, _ := middleware.GetUserRole(c)

	result, err := op(c.Request.Context(), businessID, bookingID, role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// scopedBookingID extracts the business scope and booking ID, writing the
// error response itself when either is missing.
func scopedBookingID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	businessID, ok := middleware.GetBusinessID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, uuid.Nil, false
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return uuid.Nil, uuid.Nil, false
	}
	return businessID, bookingID, true
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}
