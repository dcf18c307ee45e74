package bitstring

import (
	"errors"

	"github.com/tinywasm/fmt"
)

var (
	// ErrMalformedLiteral is returned when text contains characters outside the
	// binary or hex alphabet.
	ErrMalformedLiteral = errors.New("malformed bit string literal")

	// ErrLengthMismatch is returned when a bit count differs from the length the
	// caller requires.
	ErrLengthMismatch = errors.New("bit string length mismatch")

	// ErrUnrepresentableEncoding is returned by Hex when the length is not a
	// multiple of 4. Use Bin instead.
	ErrUnrepresentableEncoding = errors.New("bit string length not representable as hex")
)

// LiteralError reports the first offending character of a malformed literal.
//
// errors.Is(err, ErrMalformedLiteral) holds for every LiteralError.
type LiteralError struct {
	Input    string
	Pos      int
	Alphabet string
}

func (e *LiteralError) Error() string {
	return fmt.Sprintf("%s: invalid %s digit at position %d in '%s'", ErrMalformedLiteral.Error(), e.Alphabet, e.Pos, e.Input)
}

func (e *LiteralError) Unwrap() error { return ErrMalformedLiteral }

// LengthError reports a bit count that violates a declared length.
//
// errors.Is(err, ErrLengthMismatch) holds for every LengthError.
type LengthError struct {
	Expected int
	Actual   int
	// Max is set when Expected is an upper bound (varying columns).
	Max bool
}

func (e *LengthError) Error() string {
	if e.Max {
		return fmt.Sprintf("%s: expected at most %d bits, got %d", ErrLengthMismatch.Error(), e.Expected, e.Actual)
	}
	return fmt.Sprintf("%s: expected %d bits, got %d", ErrLengthMismatch.Error(), e.Expected, e.Actual)
}

func (e *LengthError) Unwrap() error { return ErrLengthMismatch }
