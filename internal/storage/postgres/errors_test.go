package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPgErrorMapping(t *testing.T) {
	duplicate := fmt.Errorf("insert profile: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation})
	missing := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}
	other := &pgconn.PgError{Code: pgerrcode.NotNullViolation}

	assert.True(t, isDuplicateProfile(duplicate))
	assert.False(t, isDuplicateProfile(missing))
	assert.True(t, isMissingProfile(missing))
	assert.False(t, isMissingProfile(duplicate))

	assert.False(t, isDuplicateProfile(other))
	assert.False(t, isMissingProfile(other))
	assert.False(t, isDuplicateProfile(errors.New("conn refused")))
	assert.Empty(t, pgErrorCode(nil))
}
