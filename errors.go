package pwdecrypt

import "errors"

// PublicMessage is the single failure message surfaced to end users,
// whatever the underlying error.
const PublicMessage = "decryption failed"

// Startup errors. Both abort process initialization.
var (
	// ErrKeyDecode indicates the configured key is missing or not valid base64/PEM.
	ErrKeyDecode = errors.New("rsa private key decode error")

	// ErrKeyParse indicates the decoded key does not yield a usable modulus and exponent.
	ErrKeyParse = errors.New("rsa private key parse error")
)

// Per-request errors. They are returned unwrapped and must never reach
// logs visible to unauthenticated actors.
var (
	// ErrInvalidCiphertextEncoding indicates the ciphertext is not valid base64.
	ErrInvalidCiphertextEncoding = errors.New("invalid ciphertext encoding")

	// ErrCiphertextLengthMismatch indicates the ciphertext is not exactly the key width.
	ErrCiphertextLengthMismatch = errors.New("ciphertext length mismatch")

	// ErrCiphertextOutOfRange indicates the ciphertext integer is not below the modulus.
	ErrCiphertextOutOfRange = errors.New("ciphertext out of range")

	// ErrDecryptionFailed covers every padding and payload failure.
	ErrDecryptionFailed = errors.New("decryption failed")
)

var requestErrors = []error{
	ErrInvalidCiphertextEncoding,
	ErrCiphertextLengthMismatch,
	ErrCiphertextOutOfRange,
	ErrDecryptionFailed,
}

// IsRequestError reports whether err is one of the per-request failures.
func IsRequestError(err error) bool {
	for _, target := range requestErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsStartupError reports whether err is a key decode or parse failure.
func IsStartupError(err error) bool {
	return errors.Is(err, ErrKeyDecode) || errors.Is(err, ErrKeyParse)
}
