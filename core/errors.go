package core

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrAuthenticationFailed = errors.New("invalid email or password")
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

func (err ValidationError) Unwrap() error { return err.Err }

// Constraint kinds
const (
	ConstraintUnique     = "unique"
	ConstraintForeignKey = "foreign_key"
	ConstraintNotNull    = "not_null"
	ConstraintCheck      = "check"
)

// ConstraintError reports a uniqueness, foreign-key, not-null or check rule refused by the store on write.
// Field is the offending column when the store names it (empty for foreign keys).
type ConstraintError struct {
	Kind  string
	Table string
	Field string
	Err   error
}

func (err *ConstraintError) Error() string {
	switch {
	case err.Kind == ConstraintUnique && err.Field != "":
		return fmt.Sprintf("a %s with this %s already exists", err.Table, err.Field)
	case err.Kind == ConstraintForeignKey:
		return "referenced record does not exist"
	case err.Field != "":
		return fmt.Sprintf("invalid value for %s", err.Field)
	default:
		return "constraint violation"
	}
}

func (err *ConstraintError) Unwrap() error { return err.Err }

// IsConstraintViolation reports whether err (or its cause) is a *ConstraintError, and returns it.
func IsConstraintViolation(err error) (*ConstraintError, bool) {
	var cErr *ConstraintError
	if errors.As(err, &cErr) {
		return cErr, true
	}
	return nil, false
}

// StoreUnavailableError means the store could not be opened, reached or initialized.
type StoreUnavailableError struct {
	Err error
}

func NewStoreUnavailableError(err error) error {
	return &StoreUnavailableError{Err: err}
}

func (err *StoreUnavailableError) Error() string {
	return "store unavailable: " + err.Err.Error()
}

func (err *StoreUnavailableError) Unwrap() error { return err.Err }

func IsStoreUnavailable(err error) bool {
	var sErr *StoreUnavailableError
	return errors.As(err, &sErr)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
