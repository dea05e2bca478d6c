package persistence_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"inkfeed/internal/core"
	"inkfeed/internal/persistence"
)

func TestTranslateErrorNil(t *testing.T) {
	t.Parallel()

	require.NoError(t, persistence.TranslateError(nil))
}

func TestTranslateErrorUniqueViolation(t *testing.T) {
	t.Parallel()

	err := persistence.TranslateError(&pgconn.PgError{
		Code:           "23505",
		ConstraintName: "idx_follows_pair",
	})

	require.ErrorIs(t, err, core.ErrConflict)
	require.Contains(t, err.Error(), "idx_follows_pair")
}

func TestTranslateErrorWrappedUniqueViolation(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("create follow: %w", &pgconn.PgError{Code: "23505"})

	require.ErrorIs(t, persistence.TranslateError(wrapped), core.ErrConflict)
}

func TestTranslateErrorDuplicatedKey(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, persistence.TranslateError(gorm.ErrDuplicatedKey), core.ErrConflict)
}

func TestTranslateErrorRecordNotFound(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, persistence.TranslateError(gorm.ErrRecordNotFound), core.ErrNotFound)
}

func TestTranslateErrorPassthrough(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset")

	require.Equal(t, boom, persistence.TranslateError(boom))
}
