// Package core provides parameters and key validation for pwdecrypt.
package core

import (
	"errors"
	"fmt"

	"github.com/BackendStack21/pwdecrypt-go/bigint"
)

// Key size limits. MinModulusBits is a sanity floor, not a strength guarantee.
const (
	// MinModulusBits requires the modulus to exceed 2^16.
	MinModulusBits = 17
	// MaxModulusBits bounds the cost of a single decryption.
	MaxModulusBits = 16384
	// RecommendedModulusBits is the size below which startup logs a warning.
	RecommendedModulusBits = 2048
)

// PKCS#1 v1.5 encryption block (type 2) layout: 0x00 || 0x02 || PS || 0x00 || M.
const (
	BlockLeadByte  = 0x00
	BlockTypeByte  = 0x02
	MinPaddingLen  = 8
	PaddingStart   = 2
	MinTerminator  = PaddingStart + MinPaddingLen
	HeaderOverhead = MinTerminator + 1
)

// Positional layout of the RSAPrivateKey INTEGER sequence:
// version, n, e, d, p, q.
const (
	KeyIntegerCount      = 6
	ModulusIndex         = 1
	PrivateExponentIndex = 3
)

// ValidateKeyParams checks the invariants every key must satisfy before use:
// n is odd, 2^16 < n, bitlen(n) <= MaxModulusBits and 0 < d < n.
func ValidateKeyParams(n, d *bigint.Uint) error {
	if n == nil || d == nil {
		return errors.New("modulus and private exponent are required")
	}
	bits := n.BitLen()
	if bits < MinModulusBits {
		return fmt.Errorf("modulus too small: %d bits", bits)
	}
	if bits > MaxModulusBits {
		return fmt.Errorf("modulus too large: %d bits exceeds %d", bits, MaxModulusBits)
	}
	if !n.IsOdd() {
		return errors.New("modulus must be odd")
	}
	if d.IsZero() {
		return errors.New("private exponent must be positive")
	}
	if d.Cmp(n) >= 0 {
		return errors.New("private exponent must be less than modulus")
	}
	return nil
}

// MaxMessageLength returns the longest payload a PKCS#1 v1.5 block of
// byteLength bytes can carry, or 0 if the block cannot hold any message.
func MaxMessageLength(byteLength int) int {
	if byteLength < HeaderOverhead {
		return 0
	}
	return byteLength - HeaderOverhead
}
