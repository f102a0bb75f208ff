package postgres

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isDuplicateProfile reports an insert of a user id that already has a profile.
func isDuplicateProfile(err error) bool {
	return pgErrorCode(err) == pgerrcode.UniqueViolation
}

// isMissingProfile reports a progress record written for a user without a
// profile row.
func isMissingProfile(err error) bool {
	return pgErrorCode(err) == pgerrcode.ForeignKeyViolation
}
