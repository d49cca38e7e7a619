package services

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charterhub/roster-backend/internal/apperrors"
	"github.com/charterhub/roster-backend/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func paymentFixture(t *testing.T) (*PaymentService, *fakeTripStore, *fakeRiderStore, *fakePaymentStore, *fakeNotifier) {
	t.Helper()

	trips := newFakeTripStore()
	trips.add(&models.Trip{Name: "Fall Charter", CostOfRental: 1000, CostPerSeat: 100, TotalSeats: 10})
	trips.activeID = 1

	riders := newFakeRiderStore()
	riders.add(&models.Rider{FirstName: "Ana", LastName: "Silva", Email: "ana@example.com"})

	payments := newFakePaymentStore()
	notifier := newFakeNotifier()
	svc := NewPaymentService(payments, trips, riders, notifier, testLogger())
	return svc, trips, riders, payments, notifier
}

func waitForReceipt(t *testing.T, notifier *fakeNotifier) {
	t.Helper()
	select {
	case <-notifier.done:
	case <-time.After(2 * time.Second):
		t.Fatal("receipt was never dispatched")
	}
}

func TestAddPayment(t *testing.T) {
	svc, _, _, _, notifier := paymentFixture(t)

	result, err := svc.AddPayment(&models.AddPaymentRequest{RiderID: 1, Amount: 150, PaidOn: "2026-05-01"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.Payment.RiderID)
	assert.Equal(t, int64(1), result.Payment.TripID)
	assert.Equal(t, 150.0, result.Payment.Amount)
	assert.Equal(t, 150.0, result.RunningTotal)

	// The payment is visible immediately through the listing path.
	payments, err := svc.ListPayments(1, 1)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, 150.0, payments[0].Amount)

	waitForReceipt(t, notifier)
	sent := notifier.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "Ana Silva", sent[0].RiderName)
	assert.Equal(t, "ana@example.com", sent[0].Email)
	assert.Equal(t, 150.0, sent[0].Amount)
	assert.Equal(t, 150.0, sent[0].RunningTotal)
}

func TestAddPayment_RunningTotalAccumulates(t *testing.T) {
	svc, _, _, payments, notifier := paymentFixture(t)
	payments.payments = append(payments.payments, models.Payment{ID: 99, RiderID: 1, TripID: 1, Amount: 50})
	payments.nextID = 100

	result, err := svc.AddPayment(&models.AddPaymentRequest{RiderID: 1, Amount: 100, PaidOn: "2026-05-02"})
	require.NoError(t, err)
	assert.Equal(t, 150.0, result.RunningTotal)

	waitForReceipt(t, notifier)
	sent := notifier.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, 150.0, sent[0].RunningTotal)
}

func TestAddPayment_RejectsNonPositiveAmount(t *testing.T) {
	svc, _, _, payments, notifier := paymentFixture(t)

	for _, amount := range []float64{0, -5} {
		_, err := svc.AddPayment(&models.AddPaymentRequest{RiderID: 1, Amount: amount, PaidOn: "2026-05-01"})
		require.Error(t, err)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	}

	assert.Empty(t, payments.payments)
	assert.Empty(t, notifier.sent())
}

func TestAddPayment_RejectsBadDate(t *testing.T) {
	svc, _, _, payments, _ := paymentFixture(t)

	_, err := svc.AddPayment(&models.AddPaymentRequest{RiderID: 1, Amount: 50, PaidOn: "05/01/2026"})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Empty(t, payments.payments)
}

func TestAddPayment_NoActiveTrip(t *testing.T) {
	svc, trips, _, payments, _ := paymentFixture(t)
	trips.activeID = 0

	_, err := svc.AddPayment(&models.AddPaymentRequest{RiderID: 1, Amount: 50, PaidOn: "2026-05-01"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNoActiveTrip))
	assert.Empty(t, payments.payments)
}

func TestAddPayment_RiderNotFound(t *testing.T) {
	svc, _, _, payments, _ := paymentFixture(t)

	_, err := svc.AddPayment(&models.AddPaymentRequest{RiderID: 999, Amount: 50, PaidOn: "2026-05-01"})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Empty(t, payments.payments)
}

func TestAddPayment_NotifierFailureDoesNotFailPayment(t *testing.T) {
	svc, _, _, _, notifier := paymentFixture(t)
	notifier.err = errors.New("mail API unreachable")

	result, err := svc.AddPayment(&models.AddPaymentRequest{RiderID: 1, Amount: 75, PaidOn: "2026-05-01"})
	require.NoError(t, err)
	assert.Equal(t, 75.0, result.RunningTotal)

	waitForReceipt(t, notifier)

	// The payment stands even though the receipt could not be delivered.
	payments, err := svc.ListPayments(1, 1)
	require.NoError(t, err)
	assert.Len(t, payments, 1)
}

func TestAddPayment_SumFailureFallsBackToAmount(t *testing.T) {
	svc, _, _, payments, notifier := paymentFixture(t)
	payments.payments = append(payments.payments, models.Payment{ID: 99, RiderID: 1, TripID: 1, Amount: 50})
	payments.nextID = 100
	payments.sumErr = errors.New("query timeout")

	result, err := svc.AddPayment(&models.AddPaymentRequest{RiderID: 1, Amount: 100, PaidOn: "2026-05-02"})
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.RunningTotal)

	waitForReceipt(t, notifier)
}

func TestEditPayment(t *testing.T) {
	svc, _, _, payments, _ := paymentFixture(t)
	payments.payments = append(payments.payments, models.Payment{ID: 7, RiderID: 1, TripID: 1, Amount: 50})

	amount := 80.0
	paidOn := "2026-05-03"
	updated, err := svc.EditPayment(7, &models.EditPaymentRequest{Amount: &amount, PaidOn: &paidOn})
	require.NoError(t, err)
	assert.Equal(t, 80.0, updated.Amount)
	assert.Equal(t, time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC), updated.PaidOn)
}

func TestEditPayment_RejectsNonPositiveAmount(t *testing.T) {
	svc, _, _, payments, _ := paymentFixture(t)
	payments.payments = append(payments.payments, models.Payment{ID: 7, RiderID: 1, TripID: 1, Amount: 50})

	amount := 0.0
	_, err := svc.EditPayment(7, &models.EditPaymentRequest{Amount: &amount})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	// The stored payment is untouched.
	payment, err := svc.GetPayment(7)
	require.NoError(t, err)
	assert.Equal(t, 50.0, payment.Amount)
}

func TestListPaymentsForActiveTrip_NoActiveTrip(t *testing.T) {
	svc, trips, _, _, _ := paymentFixture(t)
	trips.activeID = 0

	_, err := svc.ListPaymentsForActiveTrip(1)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNoActiveTrip))
}

func TestDeletePayment_NotFound(t *testing.T) {
	svc, _, _, _, _ := paymentFixture(t)

	err := svc.DeletePayment(42)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}
