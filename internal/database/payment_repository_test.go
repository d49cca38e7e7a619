package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/charterhub/roster-backend/internal/apperrors"
	"github.com/charterhub/roster-backend/internal/models"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepository(db)

	now := time.Now()
	paidOn := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO payments`).
		WithArgs(int64(3), int64(1), paidOn, 150.0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(42), now, now))

	payment := &models.Payment{RiderID: 3, TripID: 1, PaidOn: paidOn, Amount: 150}
	require.NoError(t, repo.Create(payment))
	assert.Equal(t, int64(42), payment.ID)
}

func TestPaymentRepository_Create_MissingRider(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepository(db)

	mock.ExpectQuery(`INSERT INTO payments`).
		WillReturnError(&pq.Error{Code: "23503"})

	payment := &models.Payment{RiderID: 999, TripID: 1, PaidOn: time.Now(), Amount: 50}
	err := repo.Create(payment)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestPaymentRepository_SumForRiderAndTrip_NoPayments(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepository(db)

	// COALESCE guarantees the scan sees 0, never NULL
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\)`).
		WithArgs(int64(3), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0.0))

	total, err := repo.SumForRiderAndTrip(3, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, total)
}

func TestPaymentRepository_SumForRiderAndTrip(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepository(db)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\)`).
		WithArgs(int64(3), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(150.0))

	total, err := repo.SumForRiderAndTrip(3, 1)
	require.NoError(t, err)
	assert.Equal(t, 150.0, total)
}

func TestPaymentRepository_Delete_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepository(db)

	mock.ExpectExec(`DELETE FROM payments WHERE id = \$1`).
		WithArgs(int64(77)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(77)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestPaymentRepository_ListForRiderAndTrip(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT id, rider_id, trip_id, paid_on, amount, created_at, updated_at`).
		WithArgs(int64(3), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "rider_id", "trip_id", "paid_on", "amount", "created_at", "updated_at"}).
			AddRow(int64(1), int64(3), int64(1), now, 50.0, now, now).
			AddRow(int64(2), int64(3), int64(1), now, 100.0, now, now))

	payments, err := repo.ListForRiderAndTrip(3, 1)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, 50.0, payments[0].Amount)
	assert.Equal(t, 100.0, payments[1].Amount)
}
