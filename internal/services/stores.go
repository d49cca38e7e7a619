package services

import (
	"github.com/charterhub/roster-backend/internal/database"
	"github.com/charterhub/roster-backend/internal/models"
)

// Store interfaces consumed by the lifecycle services. The database package
// provides the production implementations; tests substitute fakes.

// TripStore is the trip slice of the ledger store
type TripStore interface {
	Create(trip *models.Trip) error
	GetByID(tripID int64) (*models.Trip, error)
	List() ([]models.Trip, error)
	Update(trip *models.Trip, recalcBalances bool) error
	Delete(tripID int64) error
	Activate(tripID int64) error
	GetActiveTripID() (int64, error)
	GetActive() (*models.Trip, error)
}

// RiderStore is the rider slice of the ledger store
type RiderStore interface {
	CreateWithAssociation(rider *models.Rider, tripID int64, seats int, balance float64,
		contacts []models.EmergencyContact, medicalNotes *string) (*models.TripRider, error)
	GetByID(riderID int64) (*models.Rider, error)
	List() ([]models.Rider, error)
	Update(rider *models.Rider) error
	CountPayments(riderID int64) (int, error)
	Delete(riderID int64) error
	DeleteCompletely(riderID int64) error
}

// TripRiderStore is the association slice of the ledger store
type TripRiderStore interface {
	Create(tr *models.TripRider) error
	Get(tripID, riderID int64) (*models.TripRider, error)
	Exists(tripID, riderID int64) (bool, error)
	Upsert(tripID, riderID int64, fields models.TripRiderUpsert, costPerSeat float64) (*models.TripRider, error)
	Delete(tripID, riderID int64) error
	ListRoster(tripID int64) ([]database.RosterRow, error)
}

// PaymentStore is the payment slice of the ledger store
type PaymentStore interface {
	Create(payment *models.Payment) error
	GetByID(paymentID int64) (*models.Payment, error)
	Update(payment *models.Payment) error
	Delete(paymentID int64) error
	ListForRiderAndTrip(riderID, tripID int64) ([]models.Payment, error)
	SumForRiderAndTrip(riderID, tripID int64) (float64, error)
}

// ContactStore is the satellite-record slice of the ledger store
type ContactStore interface {
	ReplaceContacts(riderID int64, contacts []models.EmergencyContact) error
	ListContacts(riderID int64) ([]models.EmergencyContact, error)
	ListContactsByRiders(riderIDs []int64) (map[int64][]models.EmergencyContact, error)
	UpsertMedicalNote(riderID int64, notes string) error
	ListMedicalNotesByRiders(riderIDs []int64) (map[int64]models.MedicalNote, error)
}

// BalanceStore is the read-only aggregate slice of the ledger store
type BalanceStore interface {
	ListRiderBalances(tripID int64) ([]models.RiderBalance, error)
}

// AdminUserStore is the credential slice of the ledger store
type AdminUserStore interface {
	GetByUsername(username string) (*models.AdminUser, error)
	Create(user *models.AdminUser) error
}
