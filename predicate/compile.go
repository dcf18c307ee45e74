package predicate

import (
	"strings"
)

// Column is a compiled column reference. Name is spliced into the fragment
// verbatim and must come from the query builder, never from user input.
type Column struct {
	Name string
	// Size is the declared bit length; 0 means unknown.
	Size int
	// Varying marks VARBIT(Size) columns, where Size is an upper bound.
	Varying bool
}

// Fragment is a boolean SQL expression plus the parameters its
// placeholders refer to, in order of appearance.
type Fragment struct {
	SQL  string
	Args []any
}

// setBit is the needle position() searches for: a result > 0 means the
// haystack has at least one set bit.
const setBit = "B'1'"

// Compile renders p as a PostgreSQL boolean expression over col.
//
// The operand is embedded as a typed bit string constant produced by
// Bits.SQLLiteral, so Args is always empty. Every fragment evaluates to NULL
// when the column is NULL, so NULL rows never satisfy a predicate, including
// IsDisjointFrom.
func Compile(col Column, p Predicate) (Fragment, error) {
	if col.Name == "" {
		return Fragment{}, ErrEmptyColumn
	}
	if !p.Op.valid() {
		return Fragment{}, &UnsupportedError{Name: p.Op.String()}
	}
	if err := checkLength(col, p); err != nil {
		return Fragment{}, err
	}

	l := col.Name
	m := p.Operand.SQLLiteral()

	var sql string
	switch p.Op {
	case MatchAny, Intersects:
		sql = hasSetBit("(" + l + " & " + m + ")")
	case MatchEither:
		// L | 0 is L; skip the operator so the zero mask cannot trip a
		// length check on VARBIT columns.
		if p.Operand.IsZero() {
			sql = hasSetBit(l)
		} else {
			sql = hasSetBit("(" + l + " | " + m + ")")
		}
	case MatchDiffering:
		sql = hasSetBit("(" + l + " # " + m + ")")
	case IsSupersetOf:
		sql = "(" + noSetBit("(~"+l+" & "+m+")") + " AND " + hasSetBit(m) + ")"
	case IsSubsetOf:
		sql = "(" + noSetBit("(~"+m+" & "+l+")") + " AND " + hasSetBit(l) + ")"
	case IsDisjointFrom:
		sql = noSetBit("(" + l + " & " + m + ")")
	default:
		return Fragment{}, &UnsupportedError{Name: p.Op.String()}
	}
	return Fragment{SQL: sql}, nil
}

func checkLength(col Column, p Predicate) error {
	if col.Size <= 0 {
		return nil
	}
	n := p.Operand.Len()
	if col.Varying {
		if n > col.Size {
			return &LengthMismatchError{Column: col.Size, Operand: n, Varying: true}
		}
		return nil
	}
	if n != col.Size {
		return &LengthMismatchError{Column: col.Size, Operand: n}
	}
	return nil
}

func hasSetBit(expr string) string {
	return position(expr) + " > 0"
}

func noSetBit(expr string) string {
	return position(expr) + " = 0"
}

func position(expr string) string {
	var sb strings.Builder
	sb.WriteString("position(")
	sb.WriteString(setBit)
	sb.WriteString(" IN ")
	sb.WriteString(expr)
	sb.WriteString(")")
	return sb.String()
}
