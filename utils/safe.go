// Package utils provides utility functions for pwdecrypt.
// This file contains bounds-checked length reads and slice access helpers
// used when walking untrusted DER input.

package utils

import (
	"errors"
	"math"
)

// Maximum allowed lengths for attacker- or operator-supplied data.
const (
	// MaxLengthOctets is the maximum number of octets in a DER long-form length.
	MaxLengthOctets = 4

	// MaxKeyBlobSize is the maximum accepted size of a decoded private key blob.
	MaxKeyBlobSize = 64 * 1024 // 64KB
)

var (
	// ErrOverflow indicates an integer overflow occurred.
	ErrOverflow = errors.New("integer overflow")

	// ErrExceedsLimit indicates a value exceeds the allowed limit.
	ErrExceedsLimit = errors.New("value exceeds allowed limit")

	// ErrInvalidLength indicates an invalid length value.
	ErrInvalidLength = errors.New("invalid length")
)

// CheckLength validates that length is within [0, maxAllowed].
func CheckLength(length, maxAllowed int) error {
	if length < 0 {
		return ErrInvalidLength
	}
	if length > maxAllowed {
		return ErrExceedsLimit
	}
	return nil
}

// SafeReadLength reads an octets-wide big-endian length from data at offset,
// validates it against maxAllowed, and returns the value with the offset just
// past the length field.
func SafeReadLength(data []byte, offset, octets, maxAllowed int) (length int, newOffset int, err error) {
	if octets <= 0 || octets > MaxLengthOctets {
		return 0, offset, ErrInvalidLength
	}
	if err := ValidateSliceAccess(data, offset, octets); err != nil {
		return 0, offset, errors.New("truncated length field")
	}
	var raw uint64
	for i := 0; i < octets; i++ {
		raw = raw<<8 | uint64(data[offset+i])
	}
	if raw > math.MaxInt32 {
		return 0, offset, ErrOverflow
	}
	if raw > uint64(maxAllowed) {
		return 0, offset, ErrExceedsLimit
	}
	return int(raw), offset + octets, nil
}

// ValidateSliceAccess checks that accessing data[offset:offset+size] is safe.
func ValidateSliceAccess(data []byte, offset, size int) error {
	if offset < 0 || size < 0 {
		return ErrInvalidLength
	}
	if offset+size < offset { // overflow check
		return ErrOverflow
	}
	if offset+size > len(data) {
		return errors.New("slice access out of bounds")
	}
	return nil
}
