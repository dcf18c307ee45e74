package bitstring

import (
	"strings"
)

const hexDigits = "0123456789abcdef"

// FromBin parses binary digits, optionally prefixed with "0b". The length of
// the result is the number of digits.
func FromBin(s string) (Bits, error) {
	digits := trimPrefix(s, "0b", "0B")
	b := Zeros(len(digits))
	for i := 0; i < len(digits); i++ {
		switch digits[i] {
		case '0':
		case '1':
			b.set.Set(uint(i))
		default:
			return Bits{}, &LiteralError{Input: s, Pos: i + len(s) - len(digits), Alphabet: "binary"}
		}
	}
	return b, nil
}

// FromHex parses hex digits of either case, optionally prefixed with "0x".
// Each digit contributes four bits.
func FromHex(s string) (Bits, error) {
	digits := trimPrefix(s, "0x", "0X")
	b := Zeros(len(digits) * 4)
	for i := 0; i < len(digits); i++ {
		v, ok := nibble(digits[i])
		if !ok {
			return Bits{}, &LiteralError{Input: s, Pos: i + len(s) - len(digits), Alphabet: "hex"}
		}
		for j := 0; j < 4; j++ {
			if v&(8>>j) != 0 {
				b.set.Set(uint(i*4 + j))
			}
		}
	}
	return b, nil
}

// Parse reads a "0x"-prefixed string as hex and anything else as binary.
func Parse(s string) (Bits, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return FromHex(s)
	}
	return FromBin(s)
}

// MustParse is like Parse but panics on malformed input. It is meant for
// literals known at compile time.
func MustParse(s string) Bits {
	b, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return b
}

// ParseFixed parses s and requires exactly n bits.
func ParseFixed(s string, n int) (Bits, error) {
	b, err := Parse(s)
	if err != nil {
		return Bits{}, err
	}
	return b.WithLength(n)
}

// ParseVarying parses s and requires at most max bits.
func ParseVarying(s string, max int) (Bits, error) {
	b, err := Parse(s)
	if err != nil {
		return Bits{}, err
	}
	return b.WithMaxLength(max)
}

// Bin returns exactly Len() binary digits without prefix.
func (b Bits) Bin() string {
	var sb strings.Builder
	sb.Grow(b.n)
	for i := 0; i < b.n; i++ {
		if b.set.Test(uint(i)) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Hex returns Len()/4 lowercase hex digits without prefix. It fails with
// ErrUnrepresentableEncoding unless Len() is a multiple of 4.
func (b Bits) Hex() (string, error) {
	if b.n%4 != 0 {
		return "", ErrUnrepresentableEncoding
	}
	var sb strings.Builder
	sb.Grow(b.n / 4)
	for i := 0; i < b.n; i += 4 {
		var v byte
		for j := 0; j < 4; j++ {
			if b.set.Test(uint(i + j)) {
				v |= 8 >> j
			}
		}
		sb.WriteByte(hexDigits[v])
	}
	return sb.String(), nil
}

// String returns "0x" followed by hex digits when the length allows it,
// otherwise "0b" followed by binary digits. Parse accepts both forms.
func (b Bits) String() string {
	if b.n > 0 {
		if h, err := b.Hex(); err == nil {
			return "0x" + h
		}
	}
	return "0b" + b.Bin()
}

// SQLLiteral returns b as a PostgreSQL bit string constant: X'..' when the
// length is a non-zero multiple of 4, B'..' otherwise. The output only ever
// contains [0-9a-f] or [01] between the quotes.
func (b Bits) SQLLiteral() string {
	if b.n > 0 {
		if h, err := b.Hex(); err == nil {
			return "X'" + h + "'"
		}
	}
	return "B'" + b.Bin() + "'"
}

func trimPrefix(s string, prefixes ...string) string {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return s[len(p):]
		}
	}
	return s
}

func nibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
