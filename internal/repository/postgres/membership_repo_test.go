package postgres

import (
	"errors"
	"fmt"
	"testing"

	"go-clubmatch-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestActiveConflict(t *testing.T) {
	t.Run("unique violation maps to already active", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: uniqueViolation, ConstraintName: "memberships_one_active"}
		assert.ErrorIs(t, activeConflict(pgErr), domain.ErrAlreadyActive)
	})

	t.Run("wrapped unique violation still maps", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: uniqueViolation}
		assert.ErrorIs(t, activeConflict(fmt.Errorf("activate: %w", pgErr)), domain.ErrAlreadyActive)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		err := errors.New("connection reset")
		assert.Equal(t, err, activeConflict(err))

		pgErr := &pgconn.PgError{Code: "40001"} // serialization failure
		assert.Equal(t, error(pgErr), activeConflict(pgErr))
	})
}
