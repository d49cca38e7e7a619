package services

import (
	"time"

	"github.com/charterhub/roster-backend/internal/apperrors"
	"github.com/charterhub/roster-backend/internal/models"
	"github.com/charterhub/roster-backend/pkg/notify"
	"github.com/sirupsen/logrus"
)

// PaymentService handles the payment lifecycle. Payments are always tagged
// with the trip active at the time of creation, and a receipt is dispatched
// asynchronously after each successful add.
type PaymentService struct {
	payments PaymentStore
	trips    TripStore
	riders   RiderStore
	notifier notify.ReceiptSender
	logger   *logrus.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(payments PaymentStore, trips TripStore, riders RiderStore, notifier notify.ReceiptSender, logger *logrus.Logger) *PaymentService {
	return &PaymentService{
		payments: payments,
		trips:    trips,
		riders:   riders,
		notifier: notifier,
		logger:   logger,
	}
}

// AddPaymentResult is the outcome of recording a payment
type AddPaymentResult struct {
	Payment      *models.Payment `json:"payment"`
	RunningTotal float64         `json:"running_total"`
}

// AddPayment records a payment against the active trip and dispatches a
// receipt. The receipt is fire-and-forget: its failure is logged and never
// rolls back or fails the payment.
func (s *PaymentService) AddPayment(req *models.AddPaymentRequest) (*AddPaymentResult, error) {
	if req.Amount <= 0 {
		return nil, apperrors.Validation("amount must be positive")
	}
	paidOn, err := req.ParsePaidOn()
	if err != nil {
		return nil, apperrors.Validation("%s", err.Error())
	}

	tripID, err := s.trips.GetActiveTripID()
	if err != nil {
		return nil, err
	}

	rider, err := s.riders.GetByID(req.RiderID)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		RiderID: rider.ID,
		TripID:  tripID,
		PaidOn:  paidOn,
		Amount:  req.Amount,
	}
	if err := s.payments.Create(payment); err != nil {
		return nil, err
	}

	runningTotal, err := s.payments.SumForRiderAndTrip(rider.ID, tripID)
	if err != nil {
		// The payment is already committed; fall back to the amount alone
		// rather than failing the operation.
		s.logger.WithError(err).Warn("failed to compute running total for receipt")
		runningTotal = payment.Amount
	}

	go s.dispatchReceipt(rider, payment, runningTotal)

	return &AddPaymentResult{Payment: payment, RunningTotal: runningTotal}, nil
}

func (s *PaymentService) dispatchReceipt(rider *models.Rider, payment *models.Payment, runningTotal float64) {
	err := s.notifier.SendReceipt(notify.Receipt{
		RiderID:      rider.ID,
		RiderName:    rider.FullName(),
		Email:        rider.Email,
		Date:         payment.PaidOn,
		Amount:       payment.Amount,
		RunningTotal: runningTotal,
	})
	if err != nil {
		notifierErr := apperrors.Notifier(err, "receipt dispatch failed")
		s.logger.WithError(notifierErr).WithFields(logrus.Fields{
			"rider_id":   rider.ID,
			"payment_id": payment.ID,
		}).Error("Receipt could not be delivered; payment is unaffected")
	}
}

// GetPayment retrieves a payment by id
func (s *PaymentService) GetPayment(paymentID int64) (*models.Payment, error) {
	return s.payments.GetByID(paymentID)
}

// ListPayments retrieves a rider's payments on a trip
func (s *PaymentService) ListPayments(riderID, tripID int64) ([]models.Payment, error) {
	return s.payments.ListForRiderAndTrip(riderID, tripID)
}

// ListPaymentsForActiveTrip retrieves a rider's payments on the active trip
func (s *PaymentService) ListPaymentsForActiveTrip(riderID int64) ([]models.Payment, error) {
	tripID, err := s.trips.GetActiveTripID()
	if err != nil {
		return nil, err
	}
	return s.payments.ListForRiderAndTrip(riderID, tripID)
}

// EditPayment applies the non-nil fields of req to the payment
func (s *PaymentService) EditPayment(paymentID int64, req *models.EditPaymentRequest) (*models.Payment, error) {
	payment, err := s.payments.GetByID(paymentID)
	if err != nil {
		return nil, err
	}

	if req.Amount != nil {
		if *req.Amount <= 0 {
			return nil, apperrors.Validation("amount must be positive")
		}
		payment.Amount = *req.Amount
	}
	if req.PaidOn != nil {
		paidOn, err := time.Parse(models.DateLayout, *req.PaidOn)
		if err != nil {
			return nil, apperrors.Validation("paid_on must be formatted as YYYY-MM-DD")
		}
		payment.PaidOn = paidOn
	}

	if err := s.payments.Update(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// DeletePayment removes a payment. Confirmation is a caller concern; this
// component accepts the delete as given.
func (s *PaymentService) DeletePayment(paymentID int64) error {
	return s.payments.Delete(paymentID)
}
