package models

import "time"

// TripRider records a rider's seat count and balance for one specific trip.
// A given (trip, rider) pair appears at most once.
type TripRider struct {
	TripID           int64     `json:"trip_id" db:"trip_id"`
	RiderID          int64     `json:"rider_id" db:"rider_id"`
	Seats            int       `json:"seats" db:"seats"`
	Balance          float64   `json:"balance" db:"balance"`
	InstructionsSent bool      `json:"instructions_sent" db:"instructions_sent"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// TripRiderUpsert carries the association fields of an EditRiderRequest.
// Nil fields are left unchanged on update and defaulted on insert.
type TripRiderUpsert struct {
	Seats            *int
	Balance          *float64
	InstructionsSent *bool
}
