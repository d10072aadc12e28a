// Package bigint implements the arbitrary-precision unsigned integer
// arithmetic used by the RSA decryption engine.
//
// A Uint is immutable: every operation allocates its result, so values may
// be shared freely between goroutines. The arithmetic is NOT constant-time.
package bigint

import (
	"encoding/hex"
	"errors"
	"math/bits"
)

const (
	limbBits  = 32
	limbBytes = limbBits / 8
	limbMask  = 1<<limbBits - 1
)

var (
	// ErrValueTooLarge indicates a value does not fit in the requested width.
	ErrValueTooLarge = errors.New("bigint: value too large for width")

	// ErrDivisionByZero indicates a reduction by a zero modulus.
	ErrDivisionByZero = errors.New("bigint: division by zero")
)

// Uint is an arbitrary-precision unsigned integer.
// The zero value represents 0.
type Uint struct {
	// limbs holds the value little-endian, with no high zero limbs.
	limbs []uint32
}

// Zero returns a Uint equal to 0.
func Zero() *Uint {
	return &Uint{}
}

// One returns a Uint equal to 1.
func One() *Uint {
	return &Uint{limbs: []uint32{1}}
}

// FromUint64 returns a Uint equal to v.
func FromUint64(v uint64) *Uint {
	return newUint([]uint32{uint32(v), uint32(v >> limbBits)})
}

// FromBigEndianBytes interprets b as a big-endian unsigned integer.
// Leading zero bytes are ignored.
func FromBigEndianBytes(b []byte) *Uint {
	limbs := make([]uint32, (len(b)+limbBytes-1)/limbBytes)
	for i := 0; i < len(b); i++ {
		// byte i counted from the least-significant end
		v := b[len(b)-1-i]
		limbs[i/limbBytes] |= uint32(v) << (8 * (i % limbBytes))
	}
	return newUint(limbs)
}

// newUint takes ownership of limbs and trims high zero limbs.
func newUint(limbs []uint32) *Uint {
	return &Uint{limbs: normalize(limbs)}
}

func normalize(limbs []uint32) []uint32 {
	n := len(limbs)
	for n > 0 && limbs[n-1] == 0 {
		n--
	}
	return limbs[:n]
}

// ToBigEndianBytes renders x as exactly width bytes, left-zero-padded.
func (x *Uint) ToBigEndianBytes(width int) ([]byte, error) {
	if width < 0 {
		return nil, ErrValueTooLarge
	}
	if x.ByteLen() > width {
		return nil, ErrValueTooLarge
	}
	out := make([]byte, width)
	for i, limb := range x.limbs {
		for j := 0; j < limbBytes; j++ {
			pos := width - 1 - (i*limbBytes + j)
			if pos < 0 {
				break
			}
			out[pos] = byte(limb >> (8 * j))
		}
	}
	return out, nil
}

// Bytes returns the minimal big-endian encoding of x. Zero encodes as an
// empty slice.
func (x *Uint) Bytes() []byte {
	b, _ := x.ToBigEndianBytes(x.ByteLen())
	return b
}

// String returns x in hexadecimal without a prefix.
func (x *Uint) String() string {
	if x.IsZero() {
		return "0"
	}
	s := hex.EncodeToString(x.Bytes())
	if s[0] == '0' {
		s = s[1:]
	}
	return s
}

// IsZero reports whether x == 0.
func (x *Uint) IsZero() bool {
	return len(x.limbs) == 0
}

// IsOdd reports whether the lowest bit of x is set.
func (x *Uint) IsOdd() bool {
	return len(x.limbs) > 0 && x.limbs[0]&1 == 1
}

// BitLen returns the number of significant bits in x. BitLen of 0 is 0.
func (x *Uint) BitLen() int {
	n := len(x.limbs)
	if n == 0 {
		return 0
	}
	return (n-1)*limbBits + bits.Len32(x.limbs[n-1])
}

// ByteLen returns ceil(BitLen/8).
func (x *Uint) ByteLen() int {
	return (x.BitLen() + 7) / 8
}

// Bit returns the value of bit i of x. Bits beyond BitLen are 0.
func (x *Uint) Bit(i int) uint {
	if i < 0 {
		return 0
	}
	w := i / limbBits
	if w >= len(x.limbs) {
		return 0
	}
	return uint(x.limbs[w]>>(i%limbBits)) & 1
}

// Cmp compares x and y and returns -1, 0 or +1.
func (x *Uint) Cmp(y *Uint) int {
	return cmpLimbs(x.limbs, y.limbs)
}

func cmpLimbs(a, b []uint32) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := len(a) - 1; i >= 0; i-- {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// Less reports whether x < y.
func (x *Uint) Less(y *Uint) bool {
	return x.Cmp(y) < 0
}
