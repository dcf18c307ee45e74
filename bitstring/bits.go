// Package bitstring implements an immutable bit string value that maps onto
// PostgreSQL BIT(n) and VARBIT(n) columns.
//
// Bits are addressed most-significant first: index 0 is the leftmost bit of
// the printed form, so Bin() of MustParse("0b0011") is "0011" and At(2) is
// true.
package bitstring

import (
	"github.com/bits-and-blooms/bitset"
)

// Bits is an immutable sequence of bits.
//
// The zero value is the empty, fixed-length bit string. Bits values may be
// copied and shared freely; no method mutates the receiver.
type Bits struct {
	set     *bitset.BitSet
	n       int
	varying bool
}

// Zeros returns a fixed-length bit string of n clear bits.
func Zeros(n int) Bits {
	if n < 0 {
		n = 0
	}
	return Bits{set: bitset.New(uint(n)), n: n}
}

// FromBools builds a bit string from individual bits, leftmost first.
func FromBools(v ...bool) Bits {
	b := Zeros(len(v))
	for i, on := range v {
		if on {
			b.set.Set(uint(i))
		}
	}
	return b
}

// FromBytes decodes n bits packed most-significant first into buf, the
// layout used by the PostgreSQL binary wire format. Padding bits past n in
// the last byte must be zero.
func FromBytes(buf []byte, n int) (Bits, error) {
	if n < 0 || n > len(buf)*8 {
		return Bits{}, &LengthError{Expected: len(buf) * 8, Actual: n, Max: true}
	}
	b := Zeros(n)
	for i := 0; i < len(buf)*8; i++ {
		if buf[i/8]&(0x80>>(i%8)) == 0 {
			continue
		}
		if i >= n {
			return Bits{}, &LiteralError{Input: "<binary>", Pos: i, Alphabet: "padding"}
		}
		b.set.Set(uint(i))
	}
	return b, nil
}

// Len returns the number of bits.
func (b Bits) Len() int { return b.n }

// Varying reports whether b was validated against a maximum length
// (VARBIT) rather than an exact one (BIT).
func (b Bits) Varying() bool { return b.varying }

// At returns the bit at index i. Out of range indexes read as clear.
func (b Bits) At(i int) bool {
	if i < 0 || i >= b.n {
		return false
	}
	return b.set.Test(uint(i))
}

// IsZero reports whether no bit is set. The empty bit string is zero.
func (b Bits) IsZero() bool {
	return b.n == 0 || b.set.None()
}

// Count returns the number of set bits.
func (b Bits) Count() int {
	if b.n == 0 {
		return 0
	}
	return int(b.set.Count())
}

// Bytes returns the bits packed most-significant first. The result is a
// fresh slice of (Len()+7)/8 bytes; trailing pad bits are zero.
func (b Bits) Bytes() []byte {
	out := make([]byte, (b.n+7)/8)
	for i := 0; i < b.n; i++ {
		if b.set.Test(uint(i)) {
			out[i/8] |= 0x80 >> (i % 8)
		}
	}
	return out
}

// Equal reports whether b and o have the same length and the same bits.
// The varying flag is not compared.
func (b Bits) Equal(o Bits) bool {
	if b.n != o.n {
		return false
	}
	if b.n == 0 {
		return true
	}
	return b.set.Equal(o.set)
}

// WithLength returns b marked fixed-length after checking it has exactly n
// bits.
func (b Bits) WithLength(n int) (Bits, error) {
	if b.n != n {
		return Bits{}, &LengthError{Expected: n, Actual: b.n}
	}
	b.varying = false
	return b, nil
}

// WithMaxLength returns b marked varying after checking it has at most max
// bits.
func (b Bits) WithMaxLength(max int) (Bits, error) {
	if b.n > max {
		return Bits{}, &LengthError{Expected: max, Actual: b.n, Max: true}
	}
	b.varying = true
	return b, nil
}

// And returns the bitwise AND of b and o.
func (b Bits) And(o Bits) (Bits, error) {
	if err := sameLength(b, o); err != nil {
		return Bits{}, err
	}
	return b.derive(b.bitset().Intersection(o.bitset())), nil
}

// Or returns the bitwise OR of b and o.
func (b Bits) Or(o Bits) (Bits, error) {
	if err := sameLength(b, o); err != nil {
		return Bits{}, err
	}
	return b.derive(b.bitset().Union(o.bitset())), nil
}

// Xor returns the bitwise exclusive OR of b and o.
func (b Bits) Xor(o Bits) (Bits, error) {
	if err := sameLength(b, o); err != nil {
		return Bits{}, err
	}
	return b.derive(b.bitset().SymmetricDifference(o.bitset())), nil
}

// AndNot returns b AND NOT o: the bits set in b that are clear in o.
func (b Bits) AndNot(o Bits) (Bits, error) {
	if err := sameLength(b, o); err != nil {
		return Bits{}, err
	}
	return b.derive(b.bitset().Difference(o.bitset())), nil
}

// Not returns the complement of b over its own length.
func (b Bits) Not() Bits {
	if b.n == 0 {
		return b
	}
	return b.derive(b.bitset().Complement())
}

func (b Bits) bitset() *bitset.BitSet {
	if b.set == nil {
		return bitset.New(uint(b.n))
	}
	return b.set
}

func (b Bits) derive(s *bitset.BitSet) Bits {
	return Bits{set: s, n: b.n, varying: b.varying}
}

func sameLength(a, b Bits) error {
	if a.n != b.n {
		return &LengthError{Expected: a.n, Actual: b.n}
	}
	return nil
}
