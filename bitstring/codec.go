package bitstring

import (
	"database/sql/driver"
	"errors"

	gojson "github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/tinywasm/fmt"
)

var errScanNull = errors.New("bitstring: cannot scan NULL into Bits, use NullBits")

// Value implements driver.Valuer. Lengths that are a multiple of 4 are sent
// as "X<hex>", everything else as plain binary digits; PostgreSQL's bit input
// function accepts both.
func (b Bits) Value() (driver.Value, error) {
	if b.n > 0 {
		if h, err := b.Hex(); err == nil {
			return "X" + h, nil
		}
	}
	return b.Bin(), nil
}

// Scan implements sql.Scanner for the text form PostgreSQL returns for
// BIT and VARBIT columns.
func (b *Bits) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		return errScanNull
	case string:
		return b.scanText(v)
	case []byte:
		return b.scanText(string(v))
	case Bits:
		*b = v
		return nil
	}
	return fmt.Err("bitstring:", "unsupported Scan source type")
}

func (b *Bits) scanText(s string) error {
	// bit_out never prefixes, but "X.." is what Value emits.
	if len(s) > 0 && (s[0] == 'X' || s[0] == 'x') {
		s = "0x" + s[1:]
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// ScanBits implements pgtype.BitsScanner.
func (b *Bits) ScanBits(v pgtype.Bits) error {
	if !v.Valid {
		return errScanNull
	}
	d, err := FromBytes(v.Bytes, int(v.Len))
	if err != nil {
		return err
	}
	*b = d
	return nil
}

// BitsValue implements pgtype.BitsValuer.
func (b Bits) BitsValue() (pgtype.Bits, error) {
	return pgtype.Bits{Bytes: b.Bytes(), Len: int32(b.n), Valid: true}, nil
}

// MarshalText implements encoding.TextMarshaler using String.
func (b Bits) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using Parse.
func (b *Bits) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// NullBits is a Bits that may be NULL.
type NullBits struct {
	Bits  Bits
	Valid bool
}

// Value implements driver.Valuer.
func (n NullBits) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Bits.Value()
}

// Scan implements sql.Scanner.
func (n *NullBits) Scan(src any) error {
	if src == nil {
		n.Bits, n.Valid = Bits{}, false
		return nil
	}
	if err := n.Bits.Scan(src); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// ScanBits implements pgtype.BitsScanner.
func (n *NullBits) ScanBits(v pgtype.Bits) error {
	if !v.Valid {
		n.Bits, n.Valid = Bits{}, false
		return nil
	}
	if err := n.Bits.ScanBits(v); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// BitsValue implements pgtype.BitsValuer.
func (n NullBits) BitsValue() (pgtype.Bits, error) {
	if !n.Valid {
		return pgtype.Bits{}, nil
	}
	return n.Bits.BitsValue()
}

// MarshalJSON encodes NULL as null and anything else as its String form.
func (n NullBits) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return gojson.Marshal(n.Bits.String())
}

// UnmarshalJSON accepts null or a string understood by Parse.
func (n *NullBits) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		n.Bits, n.Valid = Bits{}, false
		return nil
	}
	var s string
	if err := gojson.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	n.Bits, n.Valid = v, true
	return nil
}

// HexField converts bit strings at an API boundary, where payloads carry
// plain hex digits. A non-zero Length makes Decode reject payloads of any
// other bit count.
type HexField struct {
	Length int
}

// Encode returns the hex digits of b.
func (f HexField) Encode(b Bits) (string, error) {
	return b.Hex()
}

// Decode parses hex digits and applies the length check.
func (f HexField) Decode(s string) (Bits, error) {
	b, err := FromHex(s)
	if err != nil {
		return Bits{}, err
	}
	if f.Length > 0 {
		return b.WithLength(f.Length)
	}
	return b, nil
}
