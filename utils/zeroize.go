package utils

import (
	"runtime"
)

// Zeroize overwrites a byte slice with zeros.
// This is used to clear decrypted padding blocks from memory.
// Uses runtime.KeepAlive to prevent compiler optimization from eliminating the stores.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
