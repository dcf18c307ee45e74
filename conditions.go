package bitorm

import (
	"github.com/tinywasm/bitorm/bitstring"
	"github.com/tinywasm/bitorm/predicate"
)

// Condition represents a filter for a query.
// It is a sealed value type constructed via helper functions.
type Condition struct {
	field    string
	operator string
	value    any
	logic    string
	op       predicate.Op // non-zero for bit string predicates
}

func (c Condition) Field() string    { return c.field }
func (c Condition) Operator() string { return c.operator }
func (c Condition) Value() any       { return c.value }
func (c Condition) Logic() string    { return c.logic }

// Predicate returns the bit string predicate behind c, if any.
func (c Condition) Predicate() (predicate.Predicate, bool) {
	if c.op == 0 {
		return predicate.Predicate{}, false
	}
	mask, _ := c.value.(bitstring.Bits)
	return predicate.Predicate{Op: c.op, Operand: mask}, true
}

func cond(field, operator string, value any) Condition {
	return Condition{
		field:    field,
		operator: operator,
		value:    value,
		logic:    "AND",
	}
}

// Eq creates a condition for checking equality.
func Eq(field string, value any) Condition { return cond(field, "=", value) }

// Neq creates a condition for checking inequality.
func Neq(field string, value any) Condition { return cond(field, "!=", value) }

// Gt creates a condition for checking if a value is greater than another.
func Gt(field string, value any) Condition { return cond(field, ">", value) }

// Gte creates a condition for checking if a value is greater than or equal to another.
func Gte(field string, value any) Condition { return cond(field, ">=", value) }

// Lt creates a condition for checking if a value is less than another.
func Lt(field string, value any) Condition { return cond(field, "<", value) }

// Lte creates a condition for checking if a value is less than or equal to another.
func Lte(field string, value any) Condition { return cond(field, "<=", value) }

// Like creates a condition for checking if a value matches a pattern.
func Like(field string, value any) Condition { return cond(field, "LIKE", value) }

// In matches rows where field equals one of values. With no values it
// matches nothing.
func In(field string, values ...any) Condition { return cond(field, "IN", values) }

// IsNull matches rows where field is NULL.
func IsNull(field string) Condition { return cond(field, "IS NULL", nil) }

// IsNotNull matches rows where field is not NULL.
func IsNotNull(field string) Condition { return cond(field, "IS NOT NULL", nil) }

// Or creates a condition with OR logic.
func Or(c Condition) Condition {
	c.logic = "OR"
	return c
}

// Bits creates a bit string predicate condition on field. The operator
// reported by Operator() is the predicate's lookup name ("and", "superset", ...).
func Bits(field string, op predicate.Op, mask bitstring.Bits) Condition {
	c := cond(field, op.String(), mask)
	c.op = op
	return c
}

// BitsAnd matches rows sharing at least one set bit with mask.
func BitsAnd(field string, mask bitstring.Bits) Condition {
	return Bits(field, predicate.MatchAny, mask)
}

// BitsOr matches rows where field OR mask has a set bit; a zero mask
// matches rows with any set bit.
func BitsOr(field string, mask bitstring.Bits) Condition {
	return Bits(field, predicate.MatchEither, mask)
}

// BitsXor matches rows differing from mask in at least one bit.
func BitsXor(field string, mask bitstring.Bits) Condition {
	return Bits(field, predicate.MatchDiffering, mask)
}

// BitsSuperset matches rows having every bit of a non-zero mask set.
func BitsSuperset(field string, mask bitstring.Bits) Condition {
	return Bits(field, predicate.IsSupersetOf, mask)
}

// BitsSubset matches rows with at least one set bit, all of them inside mask.
func BitsSubset(field string, mask bitstring.Bits) Condition {
	return Bits(field, predicate.IsSubsetOf, mask)
}

// BitsIntersects matches rows sharing at least one set bit with mask.
func BitsIntersects(field string, mask bitstring.Bits) Condition {
	return Bits(field, predicate.Intersects, mask)
}

// BitsDisjoint matches rows sharing no set bit with mask.
func BitsDisjoint(field string, mask bitstring.Bits) Condition {
	return Bits(field, predicate.IsDisjointFrom, mask)
}
