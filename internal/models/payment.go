package models

import (
	"errors"
	"time"
)

// Payment represents one collection from a rider, always tagged with the trip
// that was active when the payment was recorded.
type Payment struct {
	ID        int64     `json:"id" db:"id"`
	RiderID   int64     `json:"rider_id" db:"rider_id"`
	TripID    int64     `json:"trip_id" db:"trip_id"`
	PaidOn    time.Time `json:"paid_on" db:"paid_on"`
	Amount    float64   `json:"amount" db:"amount"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// AddPaymentRequest represents the request to record a payment for a rider
type AddPaymentRequest struct {
	RiderID int64   `json:"rider_id" binding:"required"`
	Amount  float64 `json:"amount" binding:"required"`
	PaidOn  string  `json:"paid_on" binding:"required"`
}

// EditPaymentRequest represents the request to update a payment. Nil fields
// are left unchanged.
type EditPaymentRequest struct {
	Amount *float64 `json:"amount,omitempty"`
	PaidOn *string  `json:"paid_on,omitempty"`
}

// ParsePaidOn parses the payment date of an add request
func (r *AddPaymentRequest) ParsePaidOn() (time.Time, error) {
	t, err := time.Parse(DateLayout, r.PaidOn)
	if err != nil {
		return time.Time{}, errors.New("paid_on must be formatted as YYYY-MM-DD")
	}
	return t, nil
}
