package handler

import (
	"github.com/gin-gonic/gin"

	reportapp "github.com/pulsetronic/backend/internal/application/report"
)

// DashboardHandler handles the admin dashboard endpoints
type DashboardHandler struct {
	BaseHandler
	dashboard *reportapp.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboard *reportapp.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// GetStats returns the operational counters for the dashboard header.
// All counters are gathered concurrently; any store failure fails the
// whole call.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	stats, err := h.dashboard.GetStats(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

// GetCharts returns the status distribution and trailing seven day
// timeline series for the dashboard charts
func (h *DashboardHandler) GetCharts(c *gin.Context) {
	charts, err := h.dashboard.GetCharts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, charts)
}
