package bitorm

import (
	"strconv"

	"github.com/tinywasm/bitorm/bitstring"
	"github.com/tinywasm/bitorm/predicate"
)

// FieldType represents the abstract storage type of a model field.
type FieldType int

const (
	TypeText FieldType = iota
	TypeInt64
	TypeFloat64
	TypeBool
	TypeBlob
	TypeBits // BIT(n) or VARBIT(n), see Field.Size and Field.Varying
)

// Constraint is a bitmask of column-level constraints.
// ConstraintNone = 0 is defined separately to avoid shifting iota off-by-one.
type Constraint int

const ConstraintNone Constraint = 0

const (
	ConstraintPK            Constraint = 1 << iota // 1: Primary Key
	ConstraintUnique                               // 2: UNIQUE
	ConstraintNotNull                              // 4: NOT NULL
	ConstraintAutoIncrement                        // 8: SERIAL / AUTOINCREMENT
)

// Field describes a single column in a model's schema.
// Schema() and Values() MUST always be in the same field order.
type Field struct {
	Name        string
	Type        FieldType
	Constraints Constraint
	Ref         string // FK: target table name. Empty = no FK.
	RefColumn   string // FK: target column. Empty = auto-detect PK of Ref table.

	// Size is the bit length of a TypeBits field: exact for BIT, maximum
	// for VARBIT. 0 leaves the length unconstrained.
	Size    int
	Varying bool
	// Default is a bit string literal ("0x.." or binary digits) used by
	// DefaultBits. Empty = derive from Size/Constraints.
	Default string
}

// ColumnType returns the PostgreSQL column type for f.
func ColumnType(f Field) string {
	switch f.Type {
	case TypeInt64:
		return "BIGINT"
	case TypeFloat64:
		return "DOUBLE PRECISION"
	case TypeBool:
		return "BOOLEAN"
	case TypeBlob:
		return "BYTEA"
	case TypeBits:
		base := "BIT"
		if f.Varying {
			base = "VARBIT"
		}
		if f.Size > 0 {
			return base + "(" + strconv.Itoa(f.Size) + ")"
		}
		return base
	}
	return "TEXT"
}

// DefaultBits returns the value a TypeBits field takes when none is given.
//
// An explicit Default wins. Otherwise a nullable field defaults to NULL, a
// sized fixed-length field to Size zero bits, and anything else to a single
// zero bit.
func DefaultBits(f Field) (bitstring.NullBits, error) {
	if f.Default != "" {
		b, err := bitstring.Parse(f.Default)
		if err != nil {
			return bitstring.NullBits{}, &ValidationError{Field: f.Name, Err: err}
		}
		if err := checkBitsLength(f, b); err != nil {
			return bitstring.NullBits{}, err
		}
		return bitstring.NullBits{Bits: b, Valid: true}, nil
	}
	if f.Constraints&ConstraintNotNull == 0 {
		return bitstring.NullBits{}, nil
	}
	if f.Size > 0 && !f.Varying {
		return bitstring.NullBits{Bits: bitstring.Zeros(f.Size), Valid: true}, nil
	}
	return bitstring.NullBits{Bits: bitstring.Zeros(1), Valid: true}, nil
}

// column describes f to the predicate compiler.
func column(f Field) predicate.Column {
	if f.Name == "" {
		return predicate.Column{}
	}
	c := predicate.Column{Name: quoteIdent(f.Name)}
	if f.Type == TypeBits {
		c.Size = f.Size
		c.Varying = f.Varying
	}
	return c
}

func checkBitsLength(f Field, b bitstring.Bits) error {
	if f.Size <= 0 {
		return nil
	}
	var err error
	if f.Varying {
		_, err = b.WithMaxLength(f.Size)
	} else {
		_, err = b.WithLength(f.Size)
	}
	if err != nil {
		return &ValidationError{Field: f.Name, Err: err}
	}
	return nil
}
