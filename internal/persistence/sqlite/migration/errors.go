package migration

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidVersion is returned when a registered version is not numeric.
	ErrInvalidVersion = errors.New("migration: version is not numeric")
	// ErrDuplicateVersion is returned when two steps declare the same version.
	ErrDuplicateVersion = errors.New("migration: duplicate version")
	// ErrSequenceGap is returned when the registered versions are not continuous.
	ErrSequenceGap = errors.New("migration: gap in version sequence")
	// ErrEmptyMigration is returned when a step carries no SQL statements.
	ErrEmptyMigration = errors.New("migration: no SQL statements")
	// ErrUnknownApplied is returned when the database records a version this
	// binary does not know, usually an old binary against a newer database.
	ErrUnknownApplied = errors.New("migration: applied version has no registered migration")
)

// Error carries the failing version and operation alongside the cause.
type Error struct {
	Version   string
	Operation string
	Err       error
}

func (e *Error) Error() string {
	if e.Version != "" {
		return fmt.Sprintf("migration %s: %s: %v", e.Version, e.Operation, e.Err)
	}
	return fmt.Sprintf("migration: %s: %v", e.Operation, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(version, operation string, err error) *Error {
	return &Error{Version: version, Operation: operation, Err: err}
}
