package database

import (
	"github.com/charterhub/roster-backend/internal/apperrors"
	"github.com/charterhub/roster-backend/internal/models"
)

// PaymentRepository handles database operations for payments
type PaymentRepository struct {
	db DB
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `id, rider_id, trip_id, paid_on, amount, created_at, updated_at`

// Create inserts a new payment
func (r *PaymentRepository) Create(payment *models.Payment) error {
	query := `
		INSERT INTO payments (rider_id, trip_id, paid_on, amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		query,
		payment.RiderID, payment.TripID, payment.PaidOn, payment.Amount,
	).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		return storeErr(err, "rider or trip not found", "payment references missing rider or trip", "failed to create payment")
	}
	return nil
}

// GetByID retrieves a payment by ID
func (r *PaymentRepository) GetByID(paymentID int64) (*models.Payment, error) {
	payment := &models.Payment{}
	err := r.db.Get(payment, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, paymentID)
	if err != nil {
		return nil, storeErr(err, "payment not found", "payment conflict", "failed to fetch payment")
	}
	return payment, nil
}

// Update updates a payment's amount and date
func (r *PaymentRepository) Update(payment *models.Payment) error {
	query := `
		UPDATE payments
		SET paid_on = $2, amount = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(query, payment.ID, payment.PaidOn, payment.Amount).Scan(&payment.UpdatedAt)
	if err != nil {
		return storeErr(err, "payment not found", "payment conflict", "failed to update payment")
	}
	return nil
}

// Delete removes a payment by ID
func (r *PaymentRepository) Delete(paymentID int64) error {
	result, err := r.db.Exec(`DELETE FROM payments WHERE id = $1`, paymentID)
	if err != nil {
		return apperrors.Database(err, "failed to delete payment")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Database(err, "failed to delete payment")
	}
	if rows == 0 {
		return apperrors.NotFound("payment not found")
	}
	return nil
}

// ListForRiderAndTrip retrieves a rider's payments on one trip, oldest first
func (r *PaymentRepository) ListForRiderAndTrip(riderID, tripID int64) ([]models.Payment, error) {
	payments := []models.Payment{}
	err := r.db.Select(&payments, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE rider_id = $1 AND trip_id = $2
		ORDER BY paid_on, id`, riderID, tripID)
	if err != nil {
		return nil, apperrors.Database(err, "failed to list payments")
	}
	return payments, nil
}

// SumForRiderAndTrip returns the total collected from a rider on one trip.
// The sum is coalesced to zero in SQL so a rider with no payments reports 0,
// never NULL.
func (r *PaymentRepository) SumForRiderAndTrip(riderID, tripID int64) (float64, error) {
	var total float64
	err := r.db.QueryRow(`
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE rider_id = $1 AND trip_id = $2`, riderID, tripID).Scan(&total)
	if err != nil {
		return 0, apperrors.Database(err, "failed to sum payments")
	}
	return total, nil
}
