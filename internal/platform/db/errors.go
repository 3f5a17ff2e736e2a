package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgconn"

	"github.com/almacen-erp/almacen-erp/internal/shared"
)

// WrapQueryErr wraps a failed read query. Postgres protocol errors are
// mapped onto shared.ErrStoreUnavailable so callers can report the store as
// the failing collaborator instead of masking it with zero-valued reports.
func WrapQueryErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w: %s (%s)", op, shared.ErrStoreUnavailable, pgErr.Message, pgErr.Code)
	}
	return fmt.Errorf("%s: %w", op, err)
}
