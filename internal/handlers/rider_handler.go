package handlers

import (
	"net/http"

	"github.com/charterhub/roster-backend/internal/models"
	"github.com/charterhub/roster-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type RiderHandler struct {
	riderService *services.RiderService
	logger       *logrus.Logger
}

func NewRiderHandler(riderService *services.RiderService, logger *logrus.Logger) *RiderHandler {
	return &RiderHandler{
		riderService: riderService,
		logger:       logger,
	}
}

// AddRider creates a rider and seats them on the active trip
// POST /api/v1/riders
func (h *RiderHandler) AddRider(c *gin.Context) {
	var req models.AddRiderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.riderService.AddRider(&req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"rider_id": result.Rider.ID,
		"trip_id":  result.TripRider.TripID,
		"seats":    result.TripRider.Seats,
	}).Info("Rider added to active trip")
	c.JSON(http.StatusCreated, result)
}

// ListRiders retrieves all riders
// GET /api/v1/riders
func (h *RiderHandler) ListRiders(c *gin.Context) {
	riders, err := h.riderService.ListRiders()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, riders)
}

// GetRider retrieves a rider with contacts and medical note
// GET /api/v1/riders/:id
func (h *RiderHandler) GetRider(c *gin.Context) {
	riderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.riderService.GetRider(riderID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// EditRider updates a rider's profile and, when roster fields are present,
// the rider's association with the active trip.
// PUT /api/v1/riders/:id
func (h *RiderHandler) EditRider(c *gin.Context) {
	riderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.EditRiderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.riderService.EditRider(riderID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeleteRider removes a rider that has no recorded payments
// DELETE /api/v1/riders/:id
func (h *RiderHandler) DeleteRider(c *gin.Context) {
	riderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.riderService.DeleteRider(riderID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.WithField("rider_id", riderID).Info("Rider deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Rider deleted"})
}

// DeleteRiderCompletely removes a rider along with contacts, medical notes,
// payments and trip associations, in strict dependency order.
// DELETE /api/v1/riders/:id/complete
func (h *RiderHandler) DeleteRiderCompletely(c *gin.Context) {
	riderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.riderService.DeleteRiderCompletely(riderID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.WithField("rider_id", riderID).Info("Rider completely removed")
	c.JSON(http.StatusOK, gin.H{"message": "Rider and all dependent records deleted"})
}
