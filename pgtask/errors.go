package pgtask

import (
	"errors"
	"fmt"

	"github.com/villekah/pg-promise/monitor"
)

var (
	// ErrNoConnection is returned when a query is attempted on a context
	// that has no bound connection handle. The driver is never contacted.
	ErrNoConnection = errors.New("connection is not open")

	// ErrInvalidMask rejects masks outside [1,6] and the contradictory
	// One|Many combination.
	ErrInvalidMask = errors.New("invalid result mask")

	// ErrNoBody is returned when a task or transaction is started
	// without a runnable body.
	ErrNoBody = errors.New("a task body is required")

	// ErrFormat wraps failures preparing the query text.
	ErrFormat = errors.New("query formatting failed")

	// Result-shape errors, one per shaping branch.
	ErrNoData         = errors.New("no data returned from the query")
	ErrMultiple       = errors.New("multiple rows were not expected")
	ErrUnexpectedData = errors.New("no data was expected from the query")

	// Sentinels that driver implementations map backend errors onto.
	ErrConstrained = errors.New("violates constraints")
	ErrException   = errors.New("exception raised")
	ErrCanceled    = monitor.NewWarning("statement canceled")
	ErrBadConn     = monitor.NewWarning("bad connection")
)

// CommandError reports a begin/commit/rollback command (or its
// savepoint variant) that itself failed against the driver.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("transaction command %q failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
