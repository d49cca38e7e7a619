package handlers

import (
	"net/http"

	"github.com/charterhub/roster-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type DashboardHandler struct {
	balanceService *services.BalanceService
	logger         *logrus.Logger
}

func NewDashboardHandler(balanceService *services.BalanceService, logger *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{
		balanceService: balanceService,
		logger:         logger,
	}
}

// GetDashboard returns the dashboard projection for the active trip
// GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	view, err := h.balanceService.DashboardForActiveTrip()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetTripDashboard returns the dashboard projection for a specific trip
// GET /api/v1/trips/:id/dashboard
func (h *DashboardHandler) GetTripDashboard(c *gin.Context) {
	tripID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.balanceService.Dashboard(tripID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
