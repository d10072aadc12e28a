package bigint

import "math/bits"

// Mul returns x * y using schoolbook multiplication.
func Mul(x, y *Uint) *Uint {
	if x.IsZero() || y.IsZero() {
		return Zero()
	}
	a, b := x.limbs, y.limbs
	z := make([]uint32, len(a)+len(b))
	for i, ai := range a {
		if ai == 0 {
			continue
		}
		var carry uint64
		for j, bj := range b {
			// (2^32-1)^2 + 2*(2^32-1) == 2^64-1, so t never overflows
			t := uint64(ai)*uint64(bj) + uint64(z[i+j]) + carry
			z[i+j] = uint32(t)
			carry = t >> limbBits
		}
		z[i+len(b)] = uint32(carry)
	}
	return newUint(z)
}

// Rem returns x mod m. It fails with ErrDivisionByZero when m == 0.
func Rem(x, m *Uint) (*Uint, error) {
	if m.IsZero() {
		return nil, ErrDivisionByZero
	}
	if x.Cmp(m) < 0 {
		return x, nil
	}
	if len(m.limbs) == 1 {
		return newUint([]uint32{remLimb(x.limbs, m.limbs[0])}), nil
	}
	return newUint(remLimbs(x.limbs, m.limbs)), nil
}

// remLimb divides u by a single limb and returns the remainder.
func remLimb(u []uint32, v uint32) uint32 {
	var r uint64
	for i := len(u) - 1; i >= 0; i-- {
		r = (r<<limbBits | uint64(u[i])) % uint64(v)
	}
	return uint32(r)
}

// remLimbs computes u mod v with Knuth's algorithm D (TAOCP vol. 2, 4.3.1).
// It requires len(v) >= 2, a non-zero top limb in v and len(u) >= len(v).
// The quotient is not kept.
func remLimbs(u, v []uint32) []uint32 {
	m, n := len(u), len(v)

	// D1: normalize so the top bit of the divisor is set. Go defines
	// x>>32 == 0 for uint32, so s == 0 needs no special case.
	s := uint(bits.LeadingZeros32(v[n-1]))
	vn := make([]uint32, n)
	for i := n - 1; i > 0; i-- {
		vn[i] = v[i]<<s | v[i-1]>>(limbBits-s)
	}
	vn[0] = v[0] << s

	un := make([]uint32, m+1)
	un[m] = u[m-1] >> (limbBits - s)
	for i := m - 1; i > 0; i-- {
		un[i] = u[i]<<s | u[i-1]>>(limbBits-s)
	}
	un[0] = u[0] << s

	const base = 1 << limbBits
	vTop, vNext := uint64(vn[n-1]), uint64(vn[n-2])

	for j := m - n; j >= 0; j-- {
		// D3: estimate the quotient digit.
		num := uint64(un[j+n])<<limbBits | uint64(un[j+n-1])
		qhat := num / vTop
		rhat := num - qhat*vTop
		// qhat >= base is checked first so the product below cannot overflow.
		for qhat >= base || qhat*vNext > (rhat<<limbBits|uint64(un[j+n-2])) {
			qhat--
			rhat += vTop
			if rhat >= base {
				break
			}
		}

		// D4: multiply and subtract.
		var carry, borrow uint64
		for i := 0; i < n; i++ {
			p := qhat*uint64(vn[i]) + carry
			carry = p >> limbBits
			t := uint64(un[i+j]) - (p & limbMask) - borrow
			un[i+j] = uint32(t)
			borrow = t >> 63
		}
		t := uint64(un[j+n]) - carry - borrow
		un[j+n] = uint32(t)

		// D6: the estimate was one too large; add the divisor back.
		if t>>63 != 0 {
			var c uint64
			for i := 0; i < n; i++ {
				sum := uint64(un[i+j]) + uint64(vn[i]) + c
				un[i+j] = uint32(sum)
				c = sum >> limbBits
			}
			un[j+n] += uint32(c)
		}
	}

	// D8: unnormalize the remainder.
	r := make([]uint32, n)
	for i := 0; i < n-1; i++ {
		r[i] = un[i]>>s | un[i+1]<<(limbBits-s)
	}
	r[n-1] = un[n-1]>>s | un[n]<<(limbBits-s)
	return r
}
