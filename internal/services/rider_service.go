package services

import (
	"strings"

	"github.com/charterhub/roster-backend/internal/apperrors"
	"github.com/charterhub/roster-backend/internal/models"
	"github.com/charterhub/roster-backend/pkg/validator"
)

// maxEmergencyContacts is the per-rider contact limit
const maxEmergencyContacts = 2

// RiderService handles the rider lifecycle: creation on the active trip,
// edits, removal from trips, and the two deletion paths.
type RiderService struct {
	riders     RiderStore
	trips      TripStore
	tripRiders TripRiderStore
	contacts   ContactStore
	phones     *validator.PhoneValidator
}

// NewRiderService creates a new RiderService
func NewRiderService(riders RiderStore, trips TripStore, tripRiders TripRiderStore, contacts ContactStore) *RiderService {
	return &RiderService{
		riders:     riders,
		trips:      trips,
		tripRiders: tripRiders,
		contacts:   contacts,
		phones:     validator.NewPhoneValidator(),
	}
}

// AddRiderResult is the outcome of creating a rider on the active trip
type AddRiderResult struct {
	Rider     *models.Rider     `json:"rider"`
	TripRider *models.TripRider `json:"trip_rider"`
}

// AddRider creates a rider and seats them on the currently active trip as a
// single logical transaction. Fails with NoActiveTrip when no trip is active;
// no rider row is created in that case.
func (s *RiderService) AddRider(req *models.AddRiderRequest) (*AddRiderResult, error) {
	if err := s.validateRiderInput(req); err != nil {
		return nil, err
	}

	trip, err := s.trips.GetActive()
	if err != nil {
		return nil, err
	}

	rider := &models.Rider{
		FirstName:  strings.TrimSpace(req.FirstName),
		LastName:   strings.TrimSpace(req.LastName),
		Email:      strings.TrimSpace(req.Email),
		Phone:      req.Phone,
		AltPhone:   req.AltPhone,
		Address:    req.Address,
		City:       req.City,
		PostalCode: req.PostalCode,
	}

	contacts := make([]models.EmergencyContact, 0, len(req.EmergencyContacts))
	for _, c := range req.EmergencyContacts {
		contacts = append(contacts, models.EmergencyContact{
			Name:         c.Name,
			Phone:        c.Phone,
			Relationship: c.Relationship,
		})
	}

	balance := float64(req.Seats) * trip.CostPerSeat
	tripRider, err := s.riders.CreateWithAssociation(rider, trip.ID, req.Seats, balance, contacts, req.MedicalNotes)
	if err != nil {
		return nil, err
	}

	return &AddRiderResult{Rider: rider, TripRider: tripRider}, nil
}

func (s *RiderService) validateRiderInput(req *models.AddRiderRequest) error {
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return apperrors.Validation("rider name must not be empty")
	}
	if req.Seats < 1 {
		return apperrors.Validation("seats must be at least 1")
	}
	if len(req.EmergencyContacts) > maxEmergencyContacts {
		return apperrors.Validation("a rider can have at most %d emergency contacts", maxEmergencyContacts)
	}
	if req.Phone != "" {
		sanitized, err := s.phones.Validate(req.Phone)
		if err != nil {
			return apperrors.Validation("invalid phone number: %s", err.Error())
		}
		req.Phone = sanitized
	}
	return nil
}

// RiderDetail is a rider with satellite records
type RiderDetail struct {
	Rider             *models.Rider             `json:"rider"`
	EmergencyContacts []models.EmergencyContact `json:"emergency_contacts"`
	MedicalNote       *models.MedicalNote       `json:"medical_note,omitempty"`
}

// GetRider retrieves a rider together with contacts and medical note
func (s *RiderService) GetRider(riderID int64) (*RiderDetail, error) {
	rider, err := s.riders.GetByID(riderID)
	if err != nil {
		return nil, err
	}

	contacts, err := s.contacts.ListContacts(riderID)
	if err != nil {
		return nil, err
	}

	detail := &RiderDetail{Rider: rider, EmergencyContacts: contacts}
	notes, err := s.contacts.ListMedicalNotesByRiders([]int64{riderID})
	if err != nil {
		return nil, err
	}
	if note, ok := notes[riderID]; ok {
		detail.MedicalNote = &note
	}
	return detail, nil
}

// ListRiders retrieves all riders
func (s *RiderService) ListRiders() ([]models.Rider, error) {
	return s.riders.List()
}

// EditRiderResult is the outcome of an edit: the updated rider and, when
// roster fields were supplied, the upserted active-trip association.
type EditRiderResult struct {
	Rider     *models.Rider     `json:"rider"`
	TripRider *models.TripRider `json:"trip_rider,omitempty"`
}

// EditRider updates a rider's profile and, when seat/balance/instructions
// fields are supplied, upserts the association with the currently active
// trip: the row is created if the rider is not on the active roster yet.
func (s *RiderService) EditRider(riderID int64, req *models.EditRiderRequest) (*EditRiderResult, error) {
	rider, err := s.riders.GetByID(riderID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		if strings.TrimSpace(*req.FirstName) == "" {
			return nil, apperrors.Validation("rider name must not be empty")
		}
		rider.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		if strings.TrimSpace(*req.LastName) == "" {
			return nil, apperrors.Validation("rider name must not be empty")
		}
		rider.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		rider.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		phone := *req.Phone
		if phone != "" {
			sanitized, err := s.phones.Validate(phone)
			if err != nil {
				return nil, apperrors.Validation("invalid phone number: %s", err.Error())
			}
			phone = sanitized
		}
		rider.Phone = phone
	}
	if req.AltPhone != nil {
		rider.AltPhone = req.AltPhone
	}
	if req.Address != nil {
		rider.Address = *req.Address
	}
	if req.City != nil {
		rider.City = *req.City
	}
	if req.PostalCode != nil {
		rider.PostalCode = *req.PostalCode
	}
	if req.Seats != nil && *req.Seats < 1 {
		return nil, apperrors.Validation("seats must be at least 1")
	}
	if len(req.EmergencyContacts) > maxEmergencyContacts {
		return nil, apperrors.Validation("a rider can have at most %d emergency contacts", maxEmergencyContacts)
	}

	if err := s.riders.Update(rider); err != nil {
		return nil, err
	}

	if req.EmergencyContacts != nil {
		contacts := make([]models.EmergencyContact, 0, len(req.EmergencyContacts))
		for _, c := range req.EmergencyContacts {
			contacts = append(contacts, models.EmergencyContact{
				Name:         c.Name,
				Phone:        c.Phone,
				Relationship: c.Relationship,
			})
		}
		if err := s.contacts.ReplaceContacts(riderID, contacts); err != nil {
			return nil, err
		}
	}
	if req.MedicalNotes != nil {
		if err := s.contacts.UpsertMedicalNote(riderID, *req.MedicalNotes); err != nil {
			return nil, err
		}
	}

	result := &EditRiderResult{Rider: rider}
	if req.HasRosterFields() {
		trip, err := s.trips.GetActive()
		if err != nil {
			return nil, err
		}
		tr, err := s.tripRiders.Upsert(trip.ID, riderID, models.TripRiderUpsert{
			Seats:            req.Seats,
			Balance:          req.Balance,
			InstructionsSent: req.InstructionsSent,
		}, trip.CostPerSeat)
		if err != nil {
			return nil, err
		}
		result.TripRider = tr
	}
	return result, nil
}

// RemoveRiderFromTrip deletes only the (trip, rider) association. The rider
// and any other trips' associations survive.
func (s *RiderService) RemoveRiderFromTrip(riderID, tripID int64) error {
	return s.tripRiders.Delete(tripID, riderID)
}

// DeleteRider removes a rider via the simple path. A rider with any recorded
// payment is rejected with a Conflict; callers must use DeleteRiderCompletely.
func (s *RiderService) DeleteRider(riderID int64) error {
	if _, err := s.riders.GetByID(riderID); err != nil {
		return err
	}

	count, err := s.riders.CountPayments(riderID)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.Conflict("rider has recorded payments; use complete removal instead")
	}

	return s.riders.Delete(riderID)
}

// DeleteRiderCompletely removes the rider and everything that depends on it,
// in strict dependency order. The chain aborts on the first failure.
func (s *RiderService) DeleteRiderCompletely(riderID int64) error {
	if _, err := s.riders.GetByID(riderID); err != nil {
		return err
	}
	return s.riders.DeleteCompletely(riderID)
}
