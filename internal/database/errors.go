package database

import (
	"database/sql"
	"errors"

	"github.com/charterhub/roster-backend/internal/apperrors"
	"github.com/lib/pq"
)

// Postgres error codes we branch on
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// storeErr translates a driver error into an application error kind.
// sql.ErrNoRows becomes NotFound, constraint violations become Conflict,
// anything else is a DatabaseError.
func storeErr(err error, notFoundMsg, conflictMsg, failMsg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound("%s", notFoundMsg)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation, pqForeignKeyViolation:
			return apperrors.Conflict("%s", conflictMsg)
		}
	}
	return apperrors.Database(err, "%s", failMsg)
}
