package handlers

import (
	"net/http"
	"strconv"

	"github.com/charterhub/roster-backend/internal/models"
	"github.com/charterhub/roster-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
	logger         *logrus.Logger
}

func NewPaymentHandler(paymentService *services.PaymentService, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// AddPayment records a payment against the active trip
// POST /api/v1/payments
func (h *PaymentHandler) AddPayment(c *gin.Context) {
	var req models.AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.paymentService.AddPayment(&req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"payment_id": result.Payment.ID,
		"rider_id":   result.Payment.RiderID,
		"trip_id":    result.Payment.TripID,
		"amount":     result.Payment.Amount,
	}).Info("Payment recorded")
	c.JSON(http.StatusCreated, result)
}

// GetPayment retrieves a payment by id
// GET /api/v1/payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	paymentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	payment, err := h.paymentService.GetPayment(paymentID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// ListRiderPayments retrieves a rider's payments. With a trip_id query the
// listing is scoped to that trip; otherwise it is scoped to the active trip.
// GET /api/v1/riders/:id/payments
func (h *PaymentHandler) ListRiderPayments(c *gin.Context) {
	riderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var (
		payments []models.Payment
		err      error
	)
	if tripParam := c.Query("trip_id"); tripParam != "" {
		tripID, parseErr := strconv.ParseInt(tripParam, 10, 64)
		if parseErr != nil || tripID < 1 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "validation_error",
				"message": "trip_id must be a positive integer",
			})
			return
		}
		payments, err = h.paymentService.ListPayments(riderID, tripID)
	} else {
		payments, err = h.paymentService.ListPaymentsForActiveTrip(riderID)
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// EditPayment applies a partial update to a payment
// PUT /api/v1/payments/:id
func (h *PaymentHandler) EditPayment(c *gin.Context) {
	paymentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.EditPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	payment, err := h.paymentService.EditPayment(paymentID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// DeletePayment removes a payment
// DELETE /api/v1/payments/:id
func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	paymentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.paymentService.DeletePayment(paymentID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.WithField("payment_id", paymentID).Info("Payment deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Payment deleted"})
}
