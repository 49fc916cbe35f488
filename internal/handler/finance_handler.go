package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/urbanly-services/provider-dashboard/internal/application"
	"github.com/urbanly-services/provider-dashboard/internal/common/auth"
	"github.com/urbanly-services/provider-dashboard/internal/common/middleware"
	"github.com/urbanly-services/provider-dashboard/internal/common/response"
)

// FinanceHandler handles HTTP requests for earnings, balance and payouts.
type FinanceHandler struct {
	service *application.FinanceService
}

// NewFinanceHandler creates a new FinanceHandler.
func NewFinanceHandler(service *application.FinanceService) *FinanceHandler {
	return &FinanceHandler{service: service}
}

// RegisterRoutes registers all finance routes on the given router group.
func (h *FinanceHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	staff := middleware.RequireRole(auth.RoleOwner, auth.RoleDispatcher, auth.RoleProvider)

	finance := r.Group("/api/v1/finance")
	finance.Use(authMW, staff)
	{
		finance.GET("/earnings", h.GetEarnings)
		finance.GET("/balance", h.GetBalance)
		finance.GET("/payouts", h.ListPayouts)
		finance.POST("/payouts", h.RequestPayout)
	}
}

// GetEarnings handles GET /api/v1/finance/earnings?start=YYYY-MM-DD&end=YYYY-MM-DD.
// Defaults to the current calendar month.
func (h *FinanceHandler) GetEarnings(c *gin.Context) {
	businessID, ok := middleware.GetBusinessID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	now := time.Now().UTC()
	defaultStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	start, err := parseDateQuery(c, "start", defaultStart)
	if err != nil {
		response.BadRequest(c, "invalid start date, expected YYYY-MM-DD")
		return
	}
	end, err := parseDateQuery(c, "end", time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC))
	if err != nil {
		response.BadRequest(c, "invalid end date, expected YYYY-MM-DD")
		return
	}

	result, err := h.service.GetEarnings(c.Request.Context(), businessID, start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetBalance handles GET /api/v1/finance/balance.
func (h *FinanceHandler) GetBalance(c *gin.Context) {
	businessID, ok := middleware.GetBusinessID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.GetBalance(c.Request.Context(), businessID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// RequestPayout handles POST /api/v1/finance/payouts.
func (h *FinanceHandler) RequestPayout(c *gin.Context) {
	businessID, ok := middleware.GetBusinessID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	role, _ := middleware.GetUserRole(c)

	var req application.PayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.RequestPayout(c.Request.Context(), businessID, role, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListPayouts handles GET /api/v1/finance/payouts.
func (h *FinanceHandler) ListPayouts(c *gin.Context) {
	businessID, ok := middleware.GetBusinessID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.ListPayouts(c.Request.Context(), businessID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

func parseDateQuery(c *gin.Context, name string, fallback time.Time) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return time.Parse(time.DateOnly, raw)
}
