package predicate

import (
	"github.com/tinywasm/bitorm/bitstring"
)

// Evaluate applies p to a stored value with the same truth table the
// compiled SQL has. A NULL value never matches. Operands of a different
// length than a non-NULL value are an error, as they are in PostgreSQL.
// The one exception is MatchEither with an all-zero operand against a
// varying value: the compiled SQL skips the OR and only asks whether the
// stored value has a set bit, so any operand length is accepted there.
func Evaluate(l bitstring.NullBits, p Predicate) (bool, error) {
	if !p.Op.valid() {
		return false, &UnsupportedError{Name: p.Op.String()}
	}
	if !l.Valid {
		return false, nil
	}
	m := p.Operand
	if p.Op == MatchEither && m.IsZero() && l.Bits.Varying() {
		return !l.Bits.IsZero(), nil
	}
	if l.Bits.Len() != m.Len() {
		return false, &LengthMismatchError{Column: l.Bits.Len(), Operand: m.Len()}
	}

	switch p.Op {
	case MatchAny, Intersects:
		return anySet(l.Bits.And(m))
	case MatchEither:
		return anySet(l.Bits.Or(m))
	case MatchDiffering:
		return anySet(l.Bits.Xor(m))
	case IsSupersetOf:
		// M AND NOT L
		missing, err := m.AndNot(l.Bits)
		if err != nil {
			return false, err
		}
		return missing.IsZero() && !m.IsZero(), nil
	case IsSubsetOf:
		extra, err := l.Bits.AndNot(m)
		if err != nil {
			return false, err
		}
		return extra.IsZero() && !l.Bits.IsZero(), nil
	case IsDisjointFrom:
		set, err := anySet(l.Bits.And(m))
		return !set && err == nil, err
	}
	return false, &UnsupportedError{Name: p.Op.String()}
}

func anySet(b bitstring.Bits, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	return !b.IsZero(), nil
}
