package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/Rrens/sop-assistant/internal/domain"
)

func TestConstraintClassification(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, isUniqueViolation(unique))
	assert.False(t, isForeignKeyViolation(unique))
	assert.True(t, isForeignKeyViolation(fk))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}

func TestLockSessionError_DeletedSessionIsNotNotFound(t *testing.T) {
	err := lockSessionError(uuid.New(), pgx.ErrNoRows)

	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.NotErrorIs(t, err, domain.ErrNotFound)

	other := lockSessionError(uuid.New(), errors.New("conn reset"))
	assert.Contains(t, other.Error(), "failed to lock session")
}
