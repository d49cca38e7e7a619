package services

import (
	"strings"
	"time"

	"github.com/charterhub/roster-backend/internal/apperrors"
	"github.com/charterhub/roster-backend/internal/models"
)

// TripService handles the trip lifecycle: creation, the single-active-trip
// invariant, and roster composition.
type TripService struct {
	trips      TripStore
	riders     RiderStore
	tripRiders TripRiderStore
	contacts   ContactStore
}

// NewTripService creates a new TripService
func NewTripService(trips TripStore, riders RiderStore, tripRiders TripRiderStore, contacts ContactStore) *TripService {
	return &TripService{
		trips:      trips,
		riders:     riders,
		tripRiders: tripRiders,
		contacts:   contacts,
	}
}

// CreateTrip validates and creates a trip. Nothing is written when
// validation fails.
func (s *TripService) CreateTrip(req *models.CreateTripRequest) (*models.Trip, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.Validation("trip name must not be empty")
	}

	start, end, err := req.ParseTripDates()
	if err != nil {
		return nil, apperrors.Validation("%s", err.Error())
	}
	if end.Before(start) {
		return nil, apperrors.Validation("end_date must not be before start_date")
	}

	if req.CostOfRental < 0 {
		return nil, apperrors.Validation("cost_of_rental must not be negative")
	}
	if req.CostPerSeat < 0 {
		return nil, apperrors.Validation("cost_per_seat must not be negative")
	}
	if req.TotalSeats < 1 {
		return nil, apperrors.Validation("total_seats must be a positive integer")
	}

	trip := &models.Trip{
		Name:         name,
		StartDate:    start,
		EndDate:      end,
		CostOfRental: req.CostOfRental,
		CostPerSeat:  req.CostPerSeat,
		TotalSeats:   req.TotalSeats,
	}
	if err := s.trips.Create(trip); err != nil {
		return nil, err
	}
	return trip, nil
}

// GetTrip retrieves a trip by id
func (s *TripService) GetTrip(tripID int64) (*models.Trip, error) {
	return s.trips.GetByID(tripID)
}

// ListTrips retrieves all trips
func (s *TripService) ListTrips() ([]models.Trip, error) {
	return s.trips.List()
}

// GetActiveTrip returns the currently active trip
func (s *TripService) GetActiveTrip() (*models.Trip, error) {
	return s.trips.GetActive()
}

// ActivateTrip makes the given trip the single active trip. The previous
// active trip is superseded atomically.
func (s *TripService) ActivateTrip(tripID int64) (*models.Trip, error) {
	if err := s.trips.Activate(tripID); err != nil {
		return nil, err
	}
	return s.trips.GetByID(tripID)
}

// UpdateTrip applies the non-nil fields of req to the trip. A cost_per_seat
// change recalculates every association balance in the same transaction.
func (s *TripService) UpdateTrip(tripID int64, req *models.UpdateTripRequest) (*models.Trip, error) {
	trip, err := s.trips.GetByID(tripID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.Validation("trip name must not be empty")
		}
		trip.Name = name
	}
	if req.StartDate != nil {
		start, err := time.Parse(models.DateLayout, *req.StartDate)
		if err != nil {
			return nil, apperrors.Validation("start_date must be formatted as YYYY-MM-DD")
		}
		trip.StartDate = start
	}
	if req.EndDate != nil {
		end, err := time.Parse(models.DateLayout, *req.EndDate)
		if err != nil {
			return nil, apperrors.Validation("end_date must be formatted as YYYY-MM-DD")
		}
		trip.EndDate = end
	}
	if trip.EndDate.Before(trip.StartDate) {
		return nil, apperrors.Validation("end_date must not be before start_date")
	}
	if req.CostOfRental != nil {
		if *req.CostOfRental < 0 {
			return nil, apperrors.Validation("cost_of_rental must not be negative")
		}
		trip.CostOfRental = *req.CostOfRental
	}

	recalc := false
	if req.CostPerSeat != nil {
		if *req.CostPerSeat < 0 {
			return nil, apperrors.Validation("cost_per_seat must not be negative")
		}
		recalc = *req.CostPerSeat != trip.CostPerSeat
		trip.CostPerSeat = *req.CostPerSeat
	}
	if req.TotalSeats != nil {
		if *req.TotalSeats < 1 {
			return nil, apperrors.Validation("total_seats must be a positive integer")
		}
		trip.TotalSeats = *req.TotalSeats
	}

	if err := s.trips.Update(trip, recalc); err != nil {
		return nil, err
	}
	return trip, nil
}

// DeleteTrip removes a trip with its payments and associations
func (s *TripService) DeleteTrip(tripID int64) error {
	return s.trips.Delete(tripID)
}

// AddRiderFailure reports one rejected entry of a batch add
type AddRiderFailure struct {
	RiderID int64  `json:"rider_id"`
	Reason  string `json:"reason"`
}

// AddRidersResult is the outcome of a batch add: successfully created
// associations plus the entries that were skipped.
type AddRidersResult struct {
	Added    []models.TripRider `json:"added"`
	Failures []AddRiderFailure  `json:"failures"`
}

// AddRidersToTrip associates existing riders with a trip. Entries that fail
// validation are skipped and reported; they never abort the batch.
func (s *TripService) AddRidersToTrip(tripID int64, entries []models.AddRiderEntry) (*AddRidersResult, error) {
	trip, err := s.trips.GetByID(tripID)
	if err != nil {
		return nil, err
	}

	result := &AddRidersResult{
		Added:    []models.TripRider{},
		Failures: []AddRiderFailure{},
	}

	for _, entry := range entries {
		if entry.Seats < 1 {
			result.Failures = append(result.Failures, AddRiderFailure{
				RiderID: entry.RiderID,
				Reason:  "seats must be at least 1",
			})
			continue
		}

		if _, err := s.riders.GetByID(entry.RiderID); err != nil {
			result.Failures = append(result.Failures, AddRiderFailure{
				RiderID: entry.RiderID,
				Reason:  "rider not found",
			})
			continue
		}

		exists, err := s.tripRiders.Exists(tripID, entry.RiderID)
		if err != nil {
			return nil, err
		}
		if exists {
			result.Failures = append(result.Failures, AddRiderFailure{
				RiderID: entry.RiderID,
				Reason:  "rider already on trip",
			})
			continue
		}

		tr := &models.TripRider{
			TripID:  tripID,
			RiderID: entry.RiderID,
			Seats:   entry.Seats,
			Balance: float64(entry.Seats) * trip.CostPerSeat,
		}
		if err := s.tripRiders.Create(tr); err != nil {
			// A concurrent insert can still race the existence check; report
			// the conflict like any other per-entry failure.
			if apperrors.IsConflict(err) {
				result.Failures = append(result.Failures, AddRiderFailure{
					RiderID: entry.RiderID,
					Reason:  "rider already on trip",
				})
				continue
			}
			return nil, err
		}
		result.Added = append(result.Added, *tr)
	}

	return result, nil
}

// GetRoster returns every rider on the trip with emergency contacts and
// medical notes, for export and printing.
func (s *TripService) GetRoster(tripID int64) (*models.RosterView, error) {
	trip, err := s.trips.GetByID(tripID)
	if err != nil {
		return nil, err
	}

	rows, err := s.tripRiders.ListRoster(tripID)
	if err != nil {
		return nil, err
	}

	riderIDs := make([]int64, 0, len(rows))
	for _, row := range rows {
		riderIDs = append(riderIDs, row.ID)
	}

	view := &models.RosterView{Trip: trip, Entries: []models.RosterEntry{}}
	if len(riderIDs) == 0 {
		return view, nil
	}

	contacts, err := s.contacts.ListContactsByRiders(riderIDs)
	if err != nil {
		return nil, err
	}
	notes, err := s.contacts.ListMedicalNotesByRiders(riderIDs)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		entry := models.RosterEntry{
			Rider:             row.Rider,
			Seats:             row.Seats,
			InstructionsSent:  row.InstructionsSent,
			EmergencyContacts: contacts[row.ID],
		}
		if note, ok := notes[row.ID]; ok {
			n := note
			entry.MedicalNote = &n
		}
		view.Entries = append(view.Entries, entry)
	}
	return view, nil
}
