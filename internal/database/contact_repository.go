package database

import (
	"github.com/charterhub/roster-backend/internal/apperrors"
	"github.com/charterhub/roster-backend/internal/models"
	"github.com/lib/pq"
)

// ContactRepository handles database operations for emergency contacts and
// medical notes.
type ContactRepository struct {
	db DB
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// ReplaceContacts swaps a rider's emergency contacts for the given set
func (r *ContactRepository) ReplaceContacts(riderID int64, contacts []models.EmergencyContact) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return apperrors.Database(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM emergency_contacts WHERE rider_id = $1`, riderID); err != nil {
		return apperrors.Database(err, "failed to clear emergency contacts")
	}

	for i := range contacts {
		contacts[i].RiderID = riderID
		err := tx.QueryRow(`
			INSERT INTO emergency_contacts (rider_id, name, phone, relationship)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			riderID, contacts[i].Name, contacts[i].Phone, contacts[i].Relationship,
		).Scan(&contacts[i].ID)
		if err != nil {
			return storeErr(err, "rider not found", "contact references missing rider", "failed to create emergency contact")
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Database(err, "failed to commit contact replacement")
	}
	return nil
}

// ListContactsByRiders retrieves emergency contacts for a set of riders,
// keyed by rider id.
func (r *ContactRepository) ListContactsByRiders(riderIDs []int64) (map[int64][]models.EmergencyContact, error) {
	contacts := []models.EmergencyContact{}
	err := r.db.Select(&contacts, `
		SELECT id, rider_id, name, phone, relationship
		FROM emergency_contacts
		WHERE rider_id = ANY($1)
		ORDER BY rider_id, id`, pq.Array(riderIDs))
	if err != nil {
		return nil, apperrors.Database(err, "failed to list emergency contacts")
	}

	byRider := make(map[int64][]models.EmergencyContact, len(riderIDs))
	for _, c := range contacts {
		byRider[c.RiderID] = append(byRider[c.RiderID], c)
	}
	return byRider, nil
}

// ListContacts retrieves one rider's emergency contacts
func (r *ContactRepository) ListContacts(riderID int64) ([]models.EmergencyContact, error) {
	byRider, err := r.ListContactsByRiders([]int64{riderID})
	if err != nil {
		return nil, err
	}
	return byRider[riderID], nil
}

// UpsertMedicalNote sets or clears a rider's medical note. An empty notes
// string removes the record.
func (r *ContactRepository) UpsertMedicalNote(riderID int64, notes string) error {
	if notes == "" {
		if _, err := r.db.Exec(`DELETE FROM medical_notes WHERE rider_id = $1`, riderID); err != nil {
			return apperrors.Database(err, "failed to clear medical note")
		}
		return nil
	}

	_, err := r.db.Exec(`
		INSERT INTO medical_notes (rider_id, notes) VALUES ($1, $2)
		ON CONFLICT (rider_id) DO UPDATE SET notes = EXCLUDED.notes`, riderID, notes)
	if err != nil {
		return storeErr(err, "rider not found", "note references missing rider", "failed to upsert medical note")
	}
	return nil
}

// ListMedicalNotesByRiders retrieves medical notes for a set of riders,
// keyed by rider id.
func (r *ContactRepository) ListMedicalNotesByRiders(riderIDs []int64) (map[int64]models.MedicalNote, error) {
	notes := []models.MedicalNote{}
	err := r.db.Select(&notes, `
		SELECT id, rider_id, notes
		FROM medical_notes
		WHERE rider_id = ANY($1)`, pq.Array(riderIDs))
	if err != nil {
		return nil, apperrors.Database(err, "failed to list medical notes")
	}

	byRider := make(map[int64]models.MedicalNote, len(notes))
	for _, n := range notes {
		byRider[n.RiderID] = n
	}
	return byRider, nil
}
