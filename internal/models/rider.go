package models

import "time"

// Rider represents a person who may ride on one or more trips. A rider is
// trip-independent: the same rider can belong to multiple trips over time.
type Rider struct {
	ID         int64     `json:"id" db:"id"`
	FirstName  string    `json:"first_name" db:"first_name"`
	LastName   string    `json:"last_name" db:"last_name"`
	Email      string    `json:"email" db:"email"`
	Phone      string    `json:"phone" db:"phone"`
	AltPhone   *string   `json:"alt_phone,omitempty" db:"alt_phone"`
	Address    string    `json:"address" db:"address"`
	City       string    `json:"city" db:"city"`
	PostalCode string    `json:"postal_code" db:"postal_code"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// FullName returns the rider's display name
func (r *Rider) FullName() string {
	if r.FirstName == "" {
		return r.LastName
	}
	return r.FirstName + " " + r.LastName
}

// EmergencyContact is a satellite record of a rider. A rider carries at most
// two contacts; the limit is enforced by the rider lifecycle service.
type EmergencyContact struct {
	ID           int64  `json:"id" db:"id"`
	RiderID      int64  `json:"rider_id" db:"rider_id"`
	Name         string `json:"name" db:"name"`
	Phone        string `json:"phone" db:"phone"`
	Relationship string `json:"relationship" db:"relationship"`
}

// MedicalNote is an optional satellite record of a rider (at most one).
type MedicalNote struct {
	ID      int64  `json:"id" db:"id"`
	RiderID int64  `json:"rider_id" db:"rider_id"`
	Notes   string `json:"notes" db:"notes"`
}

// RiderInfo carries the rider profile fields shared by create and edit requests
type RiderInfo struct {
	FirstName  string  `json:"first_name" binding:"required"`
	LastName   string  `json:"last_name" binding:"required"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	AltPhone   *string `json:"alt_phone,omitempty"`
	Address    string  `json:"address"`
	City       string  `json:"city"`
	PostalCode string  `json:"postal_code"`
}

// EmergencyContactInput is the inbound shape of an emergency contact
type EmergencyContactInput struct {
	Name         string `json:"name" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	Relationship string `json:"relationship"`
}

// AddRiderRequest represents the request to create a rider on the active trip
type AddRiderRequest struct {
	RiderInfo
	Seats             int                     `json:"seats" binding:"required,min=1"`
	EmergencyContacts []EmergencyContactInput `json:"emergency_contacts,omitempty"`
	MedicalNotes      *string                 `json:"medical_notes,omitempty"`
}

// EditRiderRequest represents the request to update a rider. Profile fields are
// applied to the rider row; seat, balance and instructions fields are upserted
// onto the rider's association with the currently active trip.
type EditRiderRequest struct {
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	AltPhone   *string `json:"alt_phone,omitempty"`
	Address    *string `json:"address,omitempty"`
	City       *string `json:"city,omitempty"`
	PostalCode *string `json:"postal_code,omitempty"`

	Seats            *int     `json:"seats,omitempty"`
	Balance          *float64 `json:"balance,omitempty"`
	InstructionsSent *bool    `json:"instructions_sent,omitempty"`

	EmergencyContacts []EmergencyContactInput `json:"emergency_contacts,omitempty"`
	MedicalNotes      *string                 `json:"medical_notes,omitempty"`
}

// HasRosterFields reports whether the edit touches the active-trip association
func (r *EditRiderRequest) HasRosterFields() bool {
	return r.Seats != nil || r.Balance != nil || r.InstructionsSent != nil
}
