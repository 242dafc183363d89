package pgxconn

import (
	"errors"
	"fmt"

	"github.com/jackc/pgconn"

	"github.com/villekah/pg-promise/pgtask"
)

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgExceptionRaised     = "P0001"
	pgStatementCanceled   = "57014"
)

// mapError maps pgconn errors onto the engine's sentinel errors.
// Unrecognized errors pass through.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	e := &pgconn.PgError{}
	if errors.As(err, &e) {
		switch e.Code {
		case pgForeignKeyViolation, pgUniqueViolation:
			return fmt.Errorf("%w: %s - %s", pgtask.ErrConstrained, e.Message, e.Detail)
		case pgExceptionRaised:
			return fmt.Errorf("%w: %s - %s", pgtask.ErrException, e.Message, e.Detail)
		case pgStatementCanceled:
			return fmt.Errorf("%w: %s - %s", pgtask.ErrCanceled, e.Message, e.Detail)
		}
	}
	return err
}
