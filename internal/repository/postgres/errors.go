package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"agencydesk-backend/internal/domain"
)

// uniqueViolation is the Postgres error code for a unique constraint breach.
// The unique index on email is what serializes two concurrent writers racing
// on the same identity.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// mapLookupErr translates driver-level lookup errors into the domain
// taxonomy.
func mapLookupErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}
