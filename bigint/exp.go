package bigint

// ModPow computes base^exponent mod modulus.
//
// The exponent is processed from its least-significant bit: the accumulator
// is multiplied by the running base on set bits and the running base is
// squared every step. Both products are reduced immediately so no
// intermediate exceeds twice the modulus width.
//
// ModPow fails with ErrDivisionByZero when modulus == 0 and returns 0 when
// modulus == 1. Running time depends on the exponent's bit pattern.
func ModPow(base, exponent, modulus *Uint) (*Uint, error) {
	if modulus.IsZero() {
		return nil, ErrDivisionByZero
	}
	if modulus.Cmp(One()) == 0 {
		return Zero(), nil
	}

	b, err := Rem(base, modulus)
	if err != nil {
		return nil, err
	}
	result := One()

	n := exponent.BitLen()
	for i := 0; i < n; i++ {
		if exponent.Bit(i) == 1 {
			if result, err = Rem(Mul(result, b), modulus); err != nil {
				return nil, err
			}
		}
		// the final squaring would be discarded
		if i == n-1 {
			break
		}
		if b, err = Rem(Mul(b, b), modulus); err != nil {
			return nil, err
		}
	}
	return result, nil
}
