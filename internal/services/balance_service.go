package services

import (
	"github.com/charterhub/roster-backend/internal/models"
)

// BalanceService derives per-rider and trip-level money and seat aggregates.
// Everything it returns is recomputed on every read; nothing is stored.
type BalanceService struct {
	trips    TripStore
	balances BalanceStore
}

// NewBalanceService creates a new BalanceService
func NewBalanceService(trips TripStore, balances BalanceStore) *BalanceService {
	return &BalanceService{trips: trips, balances: balances}
}

// Dashboard builds the dashboard projection for a trip
func (s *BalanceService) Dashboard(tripID int64) (*models.DashboardView, error) {
	trip, err := s.trips.GetByID(tripID)
	if err != nil {
		return nil, err
	}
	return s.build(trip)
}

// DashboardForActiveTrip builds the dashboard projection for the currently
// active trip.
func (s *BalanceService) DashboardForActiveTrip() (*models.DashboardView, error) {
	trip, err := s.trips.GetActive()
	if err != nil {
		return nil, err
	}
	return s.build(trip)
}

func (s *BalanceService) build(trip *models.Trip) (*models.DashboardView, error) {
	rows, err := s.balances.ListRiderBalances(trip.ID)
	if err != nil {
		return nil, err
	}

	view := &models.DashboardView{
		Trip:   trip,
		Riders: make([]models.RiderBalance, 0, len(rows)),
	}
	for _, row := range rows {
		row.RemainingBalance = row.Balance - row.Collected
		view.Riders = append(view.Riders, row)
		view.Totals.TotalCollected += row.Collected
		view.Totals.ReservedSeats += row.Seats
	}
	view.Totals.RemainingFunds = trip.CostOfRental - view.Totals.TotalCollected
	view.Totals.RemainingSeats = trip.TotalSeats - view.Totals.ReservedSeats
	return view, nil
}
