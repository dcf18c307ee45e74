// Package predicate defines the set-relationship predicates that can be
// evaluated against a bit string column, and compiles them into PostgreSQL
// boolean expressions.
package predicate

import (
	"errors"

	"github.com/tinywasm/bitorm/bitstring"
	"github.com/tinywasm/fmt"
)

// Op names a bitwise relationship between a stored value L and an operand M.
type Op int

const (
	// MatchAny holds when L AND M has a set bit.
	MatchAny Op = iota + 1
	// MatchEither holds when L OR M has a set bit. With an all-zero M it
	// requires L itself to have a set bit.
	MatchEither
	// MatchDiffering holds when L XOR M has a set bit.
	MatchDiffering
	// IsSupersetOf holds when every bit of a non-zero M is set in L.
	IsSupersetOf
	// IsSubsetOf holds when every bit of a non-zero L is set in M.
	IsSubsetOf
	// Intersects is MatchAny under its set-theoretic name.
	Intersects
	// IsDisjointFrom holds when L AND M has no set bit.
	IsDisjointFrom
)

var opNames = [...]string{
	MatchAny:       "and",
	MatchEither:    "or",
	MatchDiffering: "xor",
	IsSupersetOf:   "superset",
	IsSubsetOf:     "subset",
	Intersects:     "intersects",
	IsDisjointFrom: "disjoint",
}

// Ops lists every defined Op in declaration order.
var Ops = []Op{MatchAny, MatchEither, MatchDiffering, IsSupersetOf, IsSubsetOf, Intersects, IsDisjointFrom}

func (o Op) String() string {
	if o.valid() {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

func (o Op) valid() bool {
	return o >= MatchAny && o <= IsDisjointFrom
}

// ParseOp maps a lookup name such as "superset" to its Op.
func ParseOp(name string) (Op, error) {
	for _, o := range Ops {
		if opNames[o] == name {
			return o, nil
		}
	}
	return 0, &UnsupportedError{Name: name}
}

var (
	// ErrUnsupportedPredicate is returned for an Op with no fragment.
	ErrUnsupportedPredicate = errors.New("unsupported bit string predicate")

	// ErrOperandLengthMismatch is returned when the column and operand
	// lengths are statically known to differ.
	ErrOperandLengthMismatch = errors.New("bit string operand length mismatch")

	// ErrEmptyColumn is returned when no column reference is given.
	ErrEmptyColumn = errors.New("empty column reference")
)

// UnsupportedError reports an unknown predicate name or Op.
type UnsupportedError struct {
	Name string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnsupportedPredicate.Error(), e.Name)
}

func (e *UnsupportedError) Unwrap() error { return ErrUnsupportedPredicate }

// LengthMismatchError carries the two lengths behind ErrOperandLengthMismatch.
type LengthMismatchError struct {
	Column  int
	Operand int
	Varying bool
}

func (e *LengthMismatchError) Error() string {
	if e.Varying {
		return fmt.Sprintf("%s: operand has %d bits, column holds at most %d", ErrOperandLengthMismatch.Error(), e.Operand, e.Column)
	}
	return fmt.Sprintf("%s: operand has %d bits, column has %d", ErrOperandLengthMismatch.Error(), e.Operand, e.Column)
}

func (e *LengthMismatchError) Unwrap() error { return ErrOperandLengthMismatch }

// Predicate pairs an Op with its literal operand.
type Predicate struct {
	Op      Op
	Operand bitstring.Bits
}

func (p Predicate) String() string {
	return p.Op.String() + " " + p.Operand.String()
}

// New returns a Predicate for op, validating op.
func New(op Op, operand bitstring.Bits) (Predicate, error) {
	if !op.valid() {
		return Predicate{}, &UnsupportedError{Name: op.String()}
	}
	return Predicate{Op: op, Operand: operand}, nil
}

// MatchAnyOf returns a MatchAny predicate on m.
func MatchAnyOf(m bitstring.Bits) Predicate { return Predicate{Op: MatchAny, Operand: m} }

// MatchEitherOf returns a MatchEither predicate on m.
func MatchEitherOf(m bitstring.Bits) Predicate { return Predicate{Op: MatchEither, Operand: m} }

// MatchDifferingOf returns a MatchDiffering predicate on m.
func MatchDifferingOf(m bitstring.Bits) Predicate { return Predicate{Op: MatchDiffering, Operand: m} }

// SupersetOf matches values that have every bit of m set.
func SupersetOf(m bitstring.Bits) Predicate { return Predicate{Op: IsSupersetOf, Operand: m} }

// SubsetOf matches non-zero values whose set bits all lie within m.
func SubsetOf(m bitstring.Bits) Predicate { return Predicate{Op: IsSubsetOf, Operand: m} }

// IntersectsWith matches values sharing at least one set bit with m.
func IntersectsWith(m bitstring.Bits) Predicate { return Predicate{Op: Intersects, Operand: m} }

// DisjointFrom matches values sharing no set bit with m.
func DisjointFrom(m bitstring.Bits) Predicate     { return Predicate{Op: IsDisjointFrom, Operand: m} }
