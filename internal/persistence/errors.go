package persistence

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"inkfeed/internal/core"
)

const pgUniqueViolation = "23505"

// TranslateError maps storage-level failures onto the core taxonomy.
// Unique-constraint violations become ErrConflict: concurrent duplicate
// mutations (double like, duplicate follow edge, slug collision) are
// resolved by the store's constraints, never by read-then-write.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", core.ErrConflict, pgErr.ConstraintName)
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: duplicate key", core.ErrConflict)
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.ErrNotFound
	}

	return err
}
