package database

import (
	"github.com/charterhub/roster-backend/internal/apperrors"
	"github.com/charterhub/roster-backend/internal/models"
)

// TripRiderRepository handles database operations for the trip_riders
// association table.
type TripRiderRepository struct {
	db DB
}

// NewTripRiderRepository creates a new TripRiderRepository
func NewTripRiderRepository(db DB) *TripRiderRepository {
	return &TripRiderRepository{db: db}
}

// Create inserts a new association. A duplicate (trip, rider) pair is
// reported as a Conflict without mutating state.
func (r *TripRiderRepository) Create(tr *models.TripRider) error {
	query := `
		INSERT INTO trip_riders (trip_id, rider_id, seats, balance, instructions_sent)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(
		query,
		tr.TripID, tr.RiderID, tr.Seats, tr.Balance, tr.InstructionsSent,
	).Scan(&tr.CreatedAt, &tr.UpdatedAt)
	if err != nil {
		return storeErr(err, "trip or rider not found", "rider already on trip", "failed to create trip association")
	}
	return nil
}

// Get retrieves an association by its composite key
func (r *TripRiderRepository) Get(tripID, riderID int64) (*models.TripRider, error) {
	tr := &models.TripRider{}
	err := r.db.Get(tr, `
		SELECT trip_id, rider_id, seats, balance, instructions_sent, created_at, updated_at
		FROM trip_riders
		WHERE trip_id = $1 AND rider_id = $2`, tripID, riderID)
	if err != nil {
		return nil, storeErr(err, "rider is not on this trip", "association conflict", "failed to fetch trip association")
	}
	return tr, nil
}

// Exists reports whether a (trip, rider) association exists
func (r *TripRiderRepository) Exists(tripID, riderID int64) (bool, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM trip_riders WHERE trip_id = $1 AND rider_id = $2`,
		tripID, riderID).Scan(&count)
	if err != nil {
		return false, apperrors.Database(err, "failed to check trip association")
	}
	return count > 0, nil
}

// Upsert applies roster fields to the association for (tripID, riderID),
// creating it when absent. On insert, missing seats default to 1 and a
// missing balance defaults to seats * costPerSeat; a seat change without an
// explicit balance re-derives the balance from the trip's cost per seat.
func (r *TripRiderRepository) Upsert(tripID, riderID int64, fields models.TripRiderUpsert, costPerSeat float64) (*models.TripRider, error) {
	seats := 1
	if fields.Seats != nil {
		seats = *fields.Seats
	}
	balance := float64(seats) * costPerSeat
	if fields.Balance != nil {
		balance = *fields.Balance
	}
	instructionsSent := false
	if fields.InstructionsSent != nil {
		instructionsSent = *fields.InstructionsSent
	}

	query := `
		INSERT INTO trip_riders (trip_id, rider_id, seats, balance, instructions_sent)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (trip_id, rider_id) DO UPDATE SET
			seats = CASE WHEN $6 THEN EXCLUDED.seats ELSE trip_riders.seats END,
			balance = CASE
				WHEN $7 THEN EXCLUDED.balance
				WHEN $6 THEN EXCLUDED.seats * $9
				ELSE trip_riders.balance END,
			instructions_sent = CASE WHEN $8 THEN EXCLUDED.instructions_sent ELSE trip_riders.instructions_sent END,
			updated_at = NOW()
		RETURNING trip_id, rider_id, seats, balance, instructions_sent, created_at, updated_at`

	tr := &models.TripRider{}
	err := r.db.QueryRow(
		query,
		tripID, riderID, seats, balance, instructionsSent,
		fields.Seats != nil, fields.Balance != nil, fields.InstructionsSent != nil,
		costPerSeat,
	).Scan(
		&tr.TripID, &tr.RiderID, &tr.Seats, &tr.Balance,
		&tr.InstructionsSent, &tr.CreatedAt, &tr.UpdatedAt,
	)
	if err != nil {
		return nil, storeErr(err, "trip or rider not found", "association conflict", "failed to upsert trip association")
	}
	return tr, nil
}

// Delete removes a single association. The rider and its other trips survive.
func (r *TripRiderRepository) Delete(tripID, riderID int64) error {
	result, err := r.db.Exec(`
		DELETE FROM trip_riders WHERE trip_id = $1 AND rider_id = $2`, tripID, riderID)
	if err != nil {
		return apperrors.Database(err, "failed to remove rider from trip")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Database(err, "failed to remove rider from trip")
	}
	if rows == 0 {
		return apperrors.NotFound("rider is not on this trip")
	}
	return nil
}

// RosterRow is one rider on a trip with association fields, used to build
// roster views.
type RosterRow struct {
	models.Rider
	Seats            int  `db:"seats"`
	InstructionsSent bool `db:"instructions_sent"`
}

// ListRoster retrieves all riders on a trip with their seat counts
func (r *TripRiderRepository) ListRoster(tripID int64) ([]RosterRow, error) {
	rows := []RosterRow{}
	err := r.db.Select(&rows, `
		SELECT r.id, r.first_name, r.last_name, r.email, r.phone, r.alt_phone,
			   r.address, r.city, r.postal_code, r.created_at, r.updated_at,
			   tr.seats, tr.instructions_sent
		FROM trip_riders tr
		JOIN riders r ON r.id = tr.rider_id
		WHERE tr.trip_id = $1
		ORDER BY r.last_name, r.first_name`, tripID)
	if err != nil {
		return nil, apperrors.Database(err, "failed to list trip roster")
	}
	return rows, nil
}
