package monitor

import "errors"

// NewWarning returns an error that reports true from IsWarning.
// Warnings mark benign conditions (no rows, canceled statements) that
// callers may want to treat differently from real failures.
// No two errors created with NewWarning compare equal with Is.
func NewWarning(warn string) error {
	return &warnError{
		msg: warn,
		err: errWarning,
	}
}

// sentinel tested for by IsWarning via errors.Is
var errWarning = errors.New("")

// IsWarning returns true if any error in the chain is a warning.
func IsWarning(err error) bool {
	return errors.Is(err, errWarning)
}

type warnError struct {
	msg string
	err error
}

func (e *warnError) Error() string {
	return e.msg
}

func (e *warnError) Unwrap() error {
	return e.err
}
