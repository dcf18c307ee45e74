package bitorm

import (
	"github.com/tinywasm/fmt"

	"github.com/tinywasm/bitorm/bitstring"
)

// validate checks m before action runs. values are the column values that
// will be written; they are ignored for reads and deletes.
func validate(action Action, m Model, values []any) error {
	if m.TableName() == "" {
		return ErrEmptyTable
	}

	if action == ActionCreate || action == ActionUpdate {
		schema := m.Schema()
		if len(schema) != len(values) {
			return &ValidationError{Err: fmt.Err("schema and values length mismatch")}
		}
		for i, f := range schema {
			if f.Type != TypeBits {
				continue
			}
			if err := validateBits(f, values[i]); err != nil {
				return err
			}
		}
	}

	return nil
}

// validateBits applies the field's length policy: exactly Size bits for BIT,
// at most Size bits for VARBIT.
func validateBits(f Field, v any) error {
	switch b := v.(type) {
	case bitstring.Bits:
		return checkBitsLength(f, b)
	case *bitstring.Bits:
		if b == nil {
			return checkNull(f)
		}
		return checkBitsLength(f, *b)
	case bitstring.NullBits:
		if !b.Valid {
			return checkNull(f)
		}
		return checkBitsLength(f, b.Bits)
	case nil:
		return checkNull(f)
	}
	return &ValidationError{Field: f.Name, Err: fmt.Err("value is not a bit string")}
}

// withDefaults returns values with every unset bit string replaced by its
// field's default. An unset value is NULL, a nil *Bits, or an empty Bits in
// a sized fixed-length field. values itself is not modified.
func withDefaults(schema []Field, values []any) ([]any, error) {
	if len(schema) != len(values) {
		return values, nil
	}
	var out []any
	for i, f := range schema {
		if f.Type != TypeBits || !unsetBits(f, values[i]) {
			continue
		}
		def, err := DefaultBits(f)
		if err != nil {
			return nil, err
		}
		if !def.Valid {
			continue
		}
		if out == nil {
			out = append([]any(nil), values...)
		}
		out[i] = def
	}
	if out == nil {
		return values, nil
	}
	return out, nil
}

func unsetBits(f Field, v any) bool {
	switch b := v.(type) {
	case nil:
		return true
	case bitstring.NullBits:
		return !b.Valid
	case *bitstring.Bits:
		return b == nil
	case bitstring.Bits:
		return b.Len() == 0 && f.Size > 0 && !f.Varying
	}
	return false
}

func checkNull(f Field) error {
	if f.Constraints&ConstraintNotNull != 0 {
		return &ValidationError{Field: f.Name, Err: fmt.Err("NULL in NOT NULL column")}
	}
	return nil
}
