package database

import (
	"github.com/charterhub/roster-backend/internal/apperrors"
	"github.com/charterhub/roster-backend/internal/models"
	"github.com/jmoiron/sqlx"
)

// RiderRepository handles database operations for riders and their satellite
// records. Multi-step writes run inside a single transaction so a failure
// leaves no partial rider.
type RiderRepository struct {
	db DB
}

// NewRiderRepository creates a new RiderRepository
func NewRiderRepository(db DB) *RiderRepository {
	return &RiderRepository{db: db}
}

const riderColumns = `
	id, first_name, last_name, email, phone, alt_phone, address, city,
	postal_code, created_at, updated_at`

// CreateWithAssociation inserts a rider, its satellite records, and its
// association with the given trip as one atomic operation.
func (r *RiderRepository) CreateWithAssociation(
	rider *models.Rider,
	tripID int64,
	seats int,
	balance float64,
	contacts []models.EmergencyContact,
	medicalNotes *string,
) (*models.TripRider, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, apperrors.Database(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	query := `
		INSERT INTO riders (first_name, last_name, email, phone, alt_phone, address, city, postal_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err = tx.QueryRow(
		query,
		rider.FirstName, rider.LastName, rider.Email, rider.Phone,
		rider.AltPhone, rider.Address, rider.City, rider.PostalCode,
	).Scan(&rider.ID, &rider.CreatedAt, &rider.UpdatedAt)
	if err != nil {
		return nil, apperrors.Database(err, "failed to create rider")
	}

	tripRider := &models.TripRider{
		TripID:  tripID,
		RiderID: rider.ID,
		Seats:   seats,
		Balance: balance,
	}
	err = tx.QueryRow(`
		INSERT INTO trip_riders (trip_id, rider_id, seats, balance)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		tripID, rider.ID, seats, balance,
	).Scan(&tripRider.CreatedAt, &tripRider.UpdatedAt)
	if err != nil {
		return nil, storeErr(err, "trip not found", "rider already on trip", "failed to create trip association")
	}

	for i := range contacts {
		contacts[i].RiderID = rider.ID
		err = tx.QueryRow(`
			INSERT INTO emergency_contacts (rider_id, name, phone, relationship)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			rider.ID, contacts[i].Name, contacts[i].Phone, contacts[i].Relationship,
		).Scan(&contacts[i].ID)
		if err != nil {
			return nil, apperrors.Database(err, "failed to create emergency contact")
		}
	}

	if medicalNotes != nil && *medicalNotes != "" {
		if _, err := tx.Exec(`
			INSERT INTO medical_notes (rider_id, notes) VALUES ($1, $2)`,
			rider.ID, *medicalNotes); err != nil {
			return nil, apperrors.Database(err, "failed to create medical note")
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.Database(err, "failed to commit rider creation")
	}
	return tripRider, nil
}

// GetByID retrieves a rider by ID
func (r *RiderRepository) GetByID(riderID int64) (*models.Rider, error) {
	rider := &models.Rider{}
	err := r.db.Get(rider, `SELECT `+riderColumns+` FROM riders WHERE id = $1`, riderID)
	if err != nil {
		return nil, storeErr(err, "rider not found", "rider conflict", "failed to fetch rider")
	}
	return rider, nil
}

// List retrieves all riders ordered by name
func (r *RiderRepository) List() ([]models.Rider, error) {
	riders := []models.Rider{}
	err := r.db.Select(&riders, `SELECT `+riderColumns+` FROM riders ORDER BY last_name, first_name`)
	if err != nil {
		return nil, apperrors.Database(err, "failed to list riders")
	}
	return riders, nil
}

// Update updates a rider's profile fields
func (r *RiderRepository) Update(rider *models.Rider) error {
	query := `
		UPDATE riders
		SET first_name = $2, last_name = $3, email = $4, phone = $5, alt_phone = $6,
			address = $7, city = $8, postal_code = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(
		query,
		rider.ID, rider.FirstName, rider.LastName, rider.Email, rider.Phone,
		rider.AltPhone, rider.Address, rider.City, rider.PostalCode,
	).Scan(&rider.UpdatedAt)
	if err != nil {
		return storeErr(err, "rider not found", "rider conflict", "failed to update rider")
	}
	return nil
}

// CountPayments returns the number of payments recorded for a rider across
// all trips. Used by the simple-delete guard.
func (r *RiderRepository) CountPayments(riderID int64) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM payments WHERE rider_id = $1`, riderID).Scan(&count)
	if err != nil {
		return 0, apperrors.Database(err, "failed to count rider payments")
	}
	return count, nil
}

// Delete removes a rider that has no payments, together with its satellite
// records and trip associations. Callers enforce the payment guard first; the
// delete itself re-checks nothing and will fail on the foreign key if a
// payment slipped in.
func (r *RiderRepository) Delete(riderID int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return apperrors.Database(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if err := r.deleteDependents(tx, riderID, false); err != nil {
		return err
	}
	if err := r.deleteRiderRow(tx, riderID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Database(err, "failed to commit rider delete")
	}
	return nil
}

// DeleteCompletely removes everything the rider owns in strict dependency
// order: emergency contacts, medical notes, payments, trip associations, then
// the rider row. Any failure aborts the whole chain.
func (r *RiderRepository) DeleteCompletely(riderID int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return apperrors.Database(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if err := r.deleteDependents(tx, riderID, true); err != nil {
		return err
	}
	if err := r.deleteRiderRow(tx, riderID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Database(err, "failed to commit rider delete")
	}
	return nil
}

func (r *RiderRepository) deleteDependents(tx *sqlx.Tx, riderID int64, includePayments bool) error {
	if _, err := tx.Exec(`DELETE FROM emergency_contacts WHERE rider_id = $1`, riderID); err != nil {
		return apperrors.Database(err, "failed to delete emergency contacts")
	}
	if _, err := tx.Exec(`DELETE FROM medical_notes WHERE rider_id = $1`, riderID); err != nil {
		return apperrors.Database(err, "failed to delete medical notes")
	}
	if includePayments {
		if _, err := tx.Exec(`DELETE FROM payments WHERE rider_id = $1`, riderID); err != nil {
			return apperrors.Database(err, "failed to delete payments")
		}
	}
	if _, err := tx.Exec(`DELETE FROM trip_riders WHERE rider_id = $1`, riderID); err != nil {
		return apperrors.Database(err, "failed to delete trip associations")
	}
	return nil
}

func (r *RiderRepository) deleteRiderRow(tx *sqlx.Tx, riderID int64) error {
	result, err := tx.Exec(`DELETE FROM riders WHERE id = $1`, riderID)
	if err != nil {
		return storeErr(err, "rider not found", "rider still referenced", "failed to delete rider")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Database(err, "failed to delete rider")
	}
	if rows == 0 {
		return apperrors.NotFound("rider not found")
	}
	return nil
}
