package persistence

import "errors"

var (
	ErrNotFound            = errors.New("record not found")
	ErrDuplicate           = errors.New("duplicate record")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrForeignKeyViolation = errors.New("foreign key violation")
)

// DuplicateError carries the logical field whose identity key is already
// reserved (email, cpf, nome). It matches ErrDuplicate under errors.Is.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return "duplicate record: " + e.Field + " already registered"
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}
