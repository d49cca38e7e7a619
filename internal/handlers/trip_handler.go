package handlers

import (
	"net/http"
	"strconv"

	"github.com/charterhub/roster-backend/internal/apperrors"
	"github.com/charterhub/roster-backend/internal/models"
	"github.com/charterhub/roster-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type TripHandler struct {
	tripService  *services.TripService
	riderService *services.RiderService
	logger       *logrus.Logger
}

func NewTripHandler(tripService *services.TripService, riderService *services.RiderService, logger *logrus.Logger) *TripHandler {
	return &TripHandler{
		tripService:  tripService,
		riderService: riderService,
		logger:       logger,
	}
}

// parseIDParam parses a numeric path parameter
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   string(apperrors.KindValidation),
			"message": name + " must be a positive integer",
		})
		return 0, false
	}
	return id, true
}

// CreateTrip creates a new trip
// POST /api/v1/trips
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req models.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	trip, err := h.tripService.CreateTrip(&req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"trip_id": trip.ID,
		"name":    trip.Name,
	}).Info("Trip created")
	c.JSON(http.StatusCreated, trip)
}

// ListTrips retrieves all trips
// GET /api/v1/trips
func (h *TripHandler) ListTrips(c *gin.Context) {
	trips, err := h.tripService.ListTrips()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

// GetTrip retrieves a trip by id
// GET /api/v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	tripID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	trip, err := h.tripService.GetTrip(tripID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// GetActiveTrip retrieves the currently active trip
// GET /api/v1/trips/active
func (h *TripHandler) GetActiveTrip(c *gin.Context) {
	trip, err := h.tripService.GetActiveTrip()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// ActivateTrip makes a trip the single active trip
// POST /api/v1/trips/:id/activate
func (h *TripHandler) ActivateTrip(c *gin.Context) {
	tripID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	trip, err := h.tripService.ActivateTrip(tripID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.WithField("trip_id", trip.ID).Info("Trip activated")
	c.JSON(http.StatusOK, trip)
}

// UpdateTrip applies a partial update to a trip. Changing cost_per_seat
// recalculates every rider balance on the trip.
// PUT /api/v1/trips/:id
func (h *TripHandler) UpdateTrip(c *gin.Context) {
	tripID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	trip, err := h.tripService.UpdateTrip(tripID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// DeleteTrip removes a trip and its associations and payments
// DELETE /api/v1/trips/:id
func (h *TripHandler) DeleteTrip(c *gin.Context) {
	tripID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.tripService.DeleteTrip(tripID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.WithField("trip_id", tripID).Info("Trip deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Trip deleted"})
}

// AddRiders adds existing riders to a trip in one batch. Each entry succeeds
// or fails independently; failures never abort the batch.
// POST /api/v1/trips/:id/riders
func (h *TripHandler) AddRiders(c *gin.Context) {
	tripID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.AddRidersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.tripService.AddRidersToTrip(tripID, req.Riders)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"trip_id":  tripID,
		"added":    len(result.Added),
		"failures": len(result.Failures),
	}).Info("Batch rider add completed")
	c.JSON(http.StatusOK, result)
}

// RemoveRider removes a rider from a trip without touching the rider record
// DELETE /api/v1/trips/:id/riders/:riderID
func (h *TripHandler) RemoveRider(c *gin.Context) {
	tripID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	riderID, ok := parseIDParam(c, "riderID")
	if !ok {
		return
	}

	if err := h.riderService.RemoveRiderFromTrip(riderID, tripID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rider removed from trip"})
}
