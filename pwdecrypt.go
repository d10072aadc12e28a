// Package pwdecrypt recovers passwords that a browser frontend encrypts with
// a well-known RSA public key (PKCS#1 v1.5, base64 on the wire).
//
// The module is split the way the work is split: bigint does the
// arbitrary-precision arithmetic, der pulls the modulus and private
// exponent out of the configured private key, and pkcs1 runs the
// per-request decryption and padding checks.
//
// WARNING: the arithmetic and padding checks are not constant-time.
// Callers must collapse every per-request error into PublicMessage.
package pwdecrypt

// Version of the pwdecrypt Go implementation.
const Version = "1.0.0"

// API summary:
//
// Key loading:
//   - der.ParseBase64(key) - Decode and parse a base64 PKCS#8 or PKCS#1 key
//   - der.ParsePrivateKey(der) - Parse raw DER bytes into KeyMaterial
//   - config.FromEnv() - Read AUTH_RSA_PRIVATE_KEY once at startup
//
// Decryption:
//   - pkcs1.NewDecryptor(key, opts...) - Build a decryptor around KeyMaterial
//   - (*pkcs1.Decryptor).Decrypt(cipherBase64) - Recover the UTF-8 plaintext
//
// Errors:
//   - IsRequestError(err) - Distinguish per-request failures from startup ones
//   - PublicMessage - The only message end users should ever see
