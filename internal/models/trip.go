package models

import (
	"errors"
	"time"
)

// DateLayout is the wire format for trip and payment dates.
const DateLayout = "2006-01-02"

// Trip represents one bus-rental event with its own cost and seat parameters.
type Trip struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	StartDate    time.Time `json:"start_date" db:"start_date"`
	EndDate      time.Time `json:"end_date" db:"end_date"`
	CostOfRental float64   `json:"cost_of_rental" db:"cost_of_rental"`
	CostPerSeat  float64   `json:"cost_per_seat" db:"cost_per_seat"`
	TotalSeats   int       `json:"total_seats" db:"total_seats"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// CreateTripRequest represents the request to create a trip
type CreateTripRequest struct {
	Name         string  `json:"name" binding:"required"`
	StartDate    string  `json:"start_date" binding:"required"`
	EndDate      string  `json:"end_date" binding:"required"`
	CostOfRental float64 `json:"cost_of_rental"`
	CostPerSeat  float64 `json:"cost_per_seat"`
	TotalSeats   int     `json:"total_seats" binding:"required"`
}

// UpdateTripRequest represents the request to update a trip. Nil fields are
// left unchanged.
type UpdateTripRequest struct {
	Name         *string  `json:"name,omitempty"`
	StartDate    *string  `json:"start_date,omitempty"`
	EndDate      *string  `json:"end_date,omitempty"`
	CostOfRental *float64 `json:"cost_of_rental,omitempty"`
	CostPerSeat  *float64 `json:"cost_per_seat,omitempty"`
	TotalSeats   *int     `json:"total_seats,omitempty"`
}

// AddRidersRequest represents the batch request to add existing riders to a trip
type AddRidersRequest struct {
	Riders []AddRiderEntry `json:"riders" binding:"required,min=1"`
}

// AddRiderEntry is one entry of an AddRidersRequest
type AddRiderEntry struct {
	RiderID int64 `json:"rider_id" binding:"required"`
	Seats   int   `json:"seats" binding:"required,min=1"`
}

// ParseTripDates parses the start and end dates of a create request
func (r *CreateTripRequest) ParseTripDates() (start, end time.Time, err error) {
	start, err = time.Parse(DateLayout, r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("start_date must be formatted as YYYY-MM-DD")
	}
	end, err = time.Parse(DateLayout, r.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("end_date must be formatted as YYYY-MM-DD")
	}
	return start, end, nil
}
