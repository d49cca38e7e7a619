package database

import (
	"github.com/charterhub/roster-backend/internal/apperrors"
	"github.com/charterhub/roster-backend/internal/models"
)

// BalanceRepository reads the per-rider payment aggregates the balance
// calculator derives from. It never writes.
type BalanceRepository struct {
	db DB
}

// NewBalanceRepository creates a new BalanceRepository
func NewBalanceRepository(db DB) *BalanceRepository {
	return &BalanceRepository{db: db}
}

// ListRiderBalances returns one row per rider on the trip with the collected
// amount already summed. The SUM over zero payment rows is COALESCEd to zero
// so arithmetic downstream never sees NULL.
func (r *BalanceRepository) ListRiderBalances(tripID int64) ([]models.RiderBalance, error) {
	rows := []models.RiderBalance{}
	err := r.db.Select(&rows, `
		SELECT r.id AS rider_id, r.first_name, r.last_name,
			   tr.seats, tr.balance,
			   COALESCE(SUM(p.amount), 0) AS collected
		FROM trip_riders tr
		JOIN riders r ON r.id = tr.rider_id
		LEFT JOIN payments p ON p.rider_id = tr.rider_id AND p.trip_id = tr.trip_id
		WHERE tr.trip_id = $1
		GROUP BY r.id, r.first_name, r.last_name, tr.seats, tr.balance
		ORDER BY r.last_name, r.first_name`, tripID)
	if err != nil {
		return nil, apperrors.Database(err, "failed to list rider balances")
	}
	return rows, nil
}
