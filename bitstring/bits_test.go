package bitstring

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomBits(r *rand.Rand, n int) Bits {
	v := make([]bool, n)
	for i := range v {
		v[i] = r.Intn(2) == 1
	}
	return FromBools(v...)
}

func TestBinaryRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for n := 0; n <= 70; n++ {
		b := randomBits(r, n)
		got, err := FromBin(b.Bin())
		require.NoError(t, err)
		assert.True(t, b.Equal(got), "length %d: %s", n, b.Bin())
		assert.Len(t, b.Bin(), n)
	}
}

func TestHexRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for n := 0; n <= 128; n += 4 {
		b := randomBits(r, n)
		h, err := b.Hex()
		require.NoError(t, err)
		assert.Len(t, h, n/4)

		got, err := FromHex(h)
		require.NoError(t, err)
		assert.True(t, b.Equal(got), "length %d: %s", n, h)

		prefixed, err := FromHex("0x" + h)
		require.NoError(t, err)
		assert.True(t, b.Equal(prefixed))
	}
}

func TestHexRejectsPartialNibble(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5, 7, 9, 13} {
		_, err := Zeros(n).Hex()
		assert.ErrorIs(t, err, ErrUnrepresentableEncoding, "length %d", n)
	}
}

func TestEqualIsLengthSensitive(t *testing.T) {
	assert.False(t, Zeros(4).Equal(Zeros(8)))
	assert.False(t, MustParse("0b0001").Equal(MustParse("0b00010000")))
	assert.True(t, Zeros(8).Equal(MustParse("0x00")))
	assert.True(t, Bits{}.Equal(Zeros(0)))
}

func TestEqualIgnoresVarying(t *testing.T) {
	v, err := MustParse("0b101").WithMaxLength(8)
	require.NoError(t, err)
	assert.True(t, v.Varying())
	assert.True(t, v.Equal(MustParse("0b101")))
}

func TestParse(t *testing.T) {
	tests := []struct {
		in  string
		bin string
	}{
		{"", ""},
		{"0b", ""},
		{"0x", ""},
		{"0", "0"},
		{"0b00110011", "00110011"},
		{"00110011", "00110011"},
		{"0x33", "00110011"},
		{"0XaF", "10101111"},
		{"0x0f0", "000011110000"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			b, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.bin, b.Bin())
			assert.Equal(t, len(tt.bin), b.Len())
		})
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		in  string
		pos int
	}{
		{"0b0120", 4},
		{"10 1", 2},
		{"0xfg", 3},
		{"0x-1", 2},
		{"abc", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := Parse(tt.in)
			require.ErrorIs(t, err, ErrMalformedLiteral)

			var le *LiteralError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, tt.pos, le.Pos)
		})
	}
	assert.Panics(t, func() { MustParse("2") })
}

func TestLengthChecks(t *testing.T) {
	b, err := ParseFixed("0x0f", 8)
	require.NoError(t, err)
	assert.False(t, b.Varying())

	_, err = ParseFixed("0x0f", 12)
	var le *LengthError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 12, le.Expected)
	assert.Equal(t, 8, le.Actual)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	v, err := ParseVarying("0b101", 3)
	require.NoError(t, err)
	assert.True(t, v.Varying())

	_, err = ParseVarying("0b1010", 3)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = ParseFixed("0b2", 1)
	assert.ErrorIs(t, err, ErrMalformedLiteral)
}

func TestBitwise(t *testing.T) {
	a := MustParse("0b00001111")
	b := MustParse("0b00110011")

	and, err := a.And(b)
	require.NoError(t, err)
	assert.Equal(t, "00000011", and.Bin())

	or, err := a.Or(b)
	require.NoError(t, err)
	assert.Equal(t, "00111111", or.Bin())

	xor, err := a.Xor(b)
	require.NoError(t, err)
	assert.Equal(t, "00111100", xor.Bin())

	andNot, err := a.AndNot(b)
	require.NoError(t, err)
	assert.Equal(t, "00001100", andNot.Bin())

	assert.Equal(t, "11110000", a.Not().Bin())
	assert.Equal(t, "", Bits{}.Not().Bin())

	// operands are untouched
	assert.Equal(t, "00001111", a.Bin())
	assert.Equal(t, "00110011", b.Bin())

	_, err = a.And(Zeros(4))
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestAccessors(t *testing.T) {
	b := MustParse("0b1010000001")
	assert.Equal(t, 10, b.Len())
	assert.True(t, b.At(0))
	assert.False(t, b.At(1))
	assert.True(t, b.At(9))
	assert.False(t, b.At(10))
	assert.False(t, b.At(-1))
	assert.Equal(t, 3, b.Count())
	assert.False(t, b.IsZero())
	assert.True(t, Zeros(9).IsZero())
	assert.True(t, Bits{}.IsZero())
	assert.Equal(t, []byte{0xa0, 0x40}, b.Bytes())

	out := b.Bytes()
	out[0] = 0
	assert.Equal(t, []byte{0xa0, 0x40}, b.Bytes(), "Bytes must return a copy")
}

func TestFromBytes(t *testing.T) {
	b, err := FromBytes([]byte{0xa0, 0x40}, 10)
	require.NoError(t, err)
	assert.Equal(t, "1010000001", b.Bin())

	_, err = FromBytes([]byte{0xff}, 9)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = FromBytes([]byte{0x01}, 4)
	assert.ErrorIs(t, err, ErrMalformedLiteral)

	empty, err := FromBytes(nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
}

func TestStringAndLiteral(t *testing.T) {
	tests := []struct {
		in      string
		str     string
		literal string
	}{
		{"0b", "0b", "B''"},
		{"0b101", "0b101", "B'101'"},
		{"0b00110011", "0x33", "X'33'"},
		{"0xDEAD", "0xdead", "X'dead'"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			b := MustParse(tt.in)
			assert.Equal(t, tt.str, b.String())
			assert.Equal(t, tt.literal, b.SQLLiteral())
			assert.True(t, b.Equal(MustParse(b.String())))
		})
	}
}
