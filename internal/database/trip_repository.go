package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/charterhub/roster-backend/internal/apperrors"
	"github.com/charterhub/roster-backend/internal/models"
)

// TripRepository handles database operations for trips and the active-trip
// pointer. The pointer is a single-row table, so at most one trip can be
// active no matter how activations interleave.
type TripRepository struct {
	db DB
}

// NewTripRepository creates a new TripRepository
func NewTripRepository(db DB) *TripRepository {
	return &TripRepository{db: db}
}

const tripColumns = `
	t.id, t.name, t.start_date, t.end_date, t.cost_of_rental, t.cost_per_seat,
	t.total_seats, (a.trip_id IS NOT NULL) AS is_active, t.created_at, t.updated_at`

// Create inserts a new trip
func (r *TripRepository) Create(trip *models.Trip) error {
	query := `
		INSERT INTO trips (name, start_date, end_date, cost_of_rental, cost_per_seat, total_seats)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		query,
		trip.Name, trip.StartDate, trip.EndDate,
		trip.CostOfRental, trip.CostPerSeat, trip.TotalSeats,
	).Scan(&trip.ID, &trip.CreatedAt, &trip.UpdatedAt)
	if err != nil {
		return apperrors.Database(err, "failed to create trip")
	}
	return nil
}

// GetByID retrieves a trip by ID
func (r *TripRepository) GetByID(tripID int64) (*models.Trip, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM trips t
		LEFT JOIN active_trip a ON a.trip_id = t.id
		WHERE t.id = $1`, tripColumns)

	trip := &models.Trip{}
	if err := r.db.Get(trip, query, tripID); err != nil {
		return nil, storeErr(err, "trip not found", "trip conflict", "failed to fetch trip")
	}
	return trip, nil
}

// List retrieves all trips, most recent first
func (r *TripRepository) List() ([]models.Trip, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM trips t
		LEFT JOIN active_trip a ON a.trip_id = t.id
		ORDER BY t.start_date DESC, t.id DESC`, tripColumns)

	trips := []models.Trip{}
	if err := r.db.Select(&trips, query); err != nil {
		return nil, apperrors.Database(err, "failed to list trips")
	}
	return trips, nil
}

// Update updates a trip. When recalcBalances is true the balances of every
// association are reset to seats * cost_per_seat in the same transaction.
func (r *TripRepository) Update(trip *models.Trip, recalcBalances bool) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return apperrors.Database(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	query := `
		UPDATE trips
		SET name = $2, start_date = $3, end_date = $4, cost_of_rental = $5,
			cost_per_seat = $6, total_seats = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err = tx.QueryRow(
		query,
		trip.ID, trip.Name, trip.StartDate, trip.EndDate,
		trip.CostOfRental, trip.CostPerSeat, trip.TotalSeats,
	).Scan(&trip.UpdatedAt)
	if err != nil {
		return storeErr(err, "trip not found", "trip conflict", "failed to update trip")
	}

	if recalcBalances {
		_, err = tx.Exec(`
			UPDATE trip_riders
			SET balance = seats * $2, updated_at = NOW()
			WHERE trip_id = $1`, trip.ID, trip.CostPerSeat)
		if err != nil {
			return apperrors.Database(err, "failed to recalculate balances")
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Database(err, "failed to commit trip update")
	}
	return nil
}

// Delete removes a trip together with its payments and associations, in
// dependency order, and clears the active pointer if it referenced the trip.
func (r *TripRepository) Delete(tripID int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return apperrors.Database(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM payments WHERE trip_id = $1`, tripID); err != nil {
		return apperrors.Database(err, "failed to delete trip payments")
	}
	if _, err := tx.Exec(`DELETE FROM trip_riders WHERE trip_id = $1`, tripID); err != nil {
		return apperrors.Database(err, "failed to delete trip associations")
	}
	if _, err := tx.Exec(`UPDATE active_trip SET trip_id = NULL WHERE trip_id = $1`, tripID); err != nil {
		return apperrors.Database(err, "failed to clear active trip pointer")
	}

	result, err := tx.Exec(`DELETE FROM trips WHERE id = $1`, tripID)
	if err != nil {
		return apperrors.Database(err, "failed to delete trip")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Database(err, "failed to delete trip")
	}
	if rows == 0 {
		return apperrors.NotFound("trip not found")
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Database(err, "failed to commit trip delete")
	}
	return nil
}

// Activate points the active-trip singleton at the given trip. The previous
// active trip, if any, is superseded in the same transaction.
func (r *TripRepository) Activate(tripID int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return apperrors.Database(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRow(`SELECT 1 FROM trips WHERE id = $1`, tripID).Scan(&exists); err != nil {
		return storeErr(err, "trip not found", "trip conflict", "failed to verify trip")
	}

	_, err = tx.Exec(`
		INSERT INTO active_trip (id, trip_id) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET trip_id = EXCLUDED.trip_id`, tripID)
	if err != nil {
		return apperrors.Database(err, "failed to set active trip")
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Database(err, "failed to commit trip activation")
	}
	return nil
}

// GetActiveTripID returns the id of the currently active trip. A NoActiveTrip
// error is returned when the pointer is unset.
func (r *TripRepository) GetActiveTripID() (int64, error) {
	var tripID sql.NullInt64
	err := r.db.QueryRow(`SELECT trip_id FROM active_trip WHERE id = 1`).Scan(&tripID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperrors.NoActiveTrip("no trip has been activated")
		}
		return 0, apperrors.Database(err, "failed to fetch active trip pointer")
	}
	if !tripID.Valid {
		return 0, apperrors.NoActiveTrip("no trip is currently active")
	}
	return tripID.Int64, nil
}

// GetActive returns the currently active trip
func (r *TripRepository) GetActive() (*models.Trip, error) {
	tripID, err := r.GetActiveTripID()
	if err != nil {
		return nil, err
	}
	return r.GetByID(tripID)
}
