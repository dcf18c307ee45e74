package bitorm

import (
	"errors"

	"github.com/tinywasm/fmt"
)

// ErrNotFound is returned when ReadOne() finds no matching row.
var ErrNotFound = errors.New("record not found")

// ErrValidation is returned when validate() finds a mismatch.
var ErrValidation = errors.New("validation error")

// ErrEmptyTable is returned when TableName() returns an empty string.
var ErrEmptyTable = errors.New("empty table name")

// ErrNoTxSupport is returned by DB.Tx() when the executor does not implement TxExecutor.
var ErrNoTxSupport = errors.New("transaction not supported")

// ErrUnsupportedAction is returned by a Compiler for an Action it cannot render.
var ErrUnsupportedAction = errors.New("unsupported action")

// ValidationError ties a validation failure to a field.
// It matches both ErrValidation and the underlying cause with errors.Is.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", ErrValidation.Error(), e.Err)
	}
	return fmt.Sprintf("%s: field %s: %v", ErrValidation.Error(), e.Field, e.Err)
}

func (e *ValidationError) Unwrap() []error { return []error{ErrValidation, e.Err} }
