// Package pkcs1 implements RSA PKCS#1 v1.5 (block type 2) decryption of
// base64 ciphertexts under a fixed private key.
//
// A Decryptor is immutable after construction and may be shared by any
// number of goroutines. Every call works on its own intermediates.
//
// Failures are returned as the bare sentinel errors from the root package.
// None of them carry detail about which check rejected the ciphertext, and
// callers should collapse them all into pwdecrypt.PublicMessage.
package pkcs1

import (
	"encoding/base64"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/oops"

	pwdecrypt "github.com/BackendStack21/pwdecrypt-go"
	"github.com/BackendStack21/pwdecrypt-go/bigint"
	"github.com/BackendStack21/pwdecrypt-go/der"
	"github.com/BackendStack21/pwdecrypt-go/utils"
)

// Decryptor recovers plaintext passwords encrypted under one RSA key.
type Decryptor struct {
	key *pwdecrypt.KeyMaterial
	log zerolog.Logger
}

// Option configures a Decryptor.
type Option func(*Decryptor)

// WithLogger attaches a logger. Only a generic debug event is emitted per
// rejected ciphertext.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Decryptor) {
		d.log = l
	}
}

// NewDecryptor returns a Decryptor for key.
func NewDecryptor(key *pwdecrypt.KeyMaterial, opts ...Option) (*Decryptor, error) {
	if key == nil {
		return nil, oops.
			In("pkcs1").
			Errorf("%w: no key material", pwdecrypt.ErrKeyParse)
	}
	d := &Decryptor{
		key: key,
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// NewDecryptorFromBase64 parses a base64 (or PEM) private key and returns a
// Decryptor for it.
func NewDecryptorFromBase64(key string, opts ...Option) (*Decryptor, error) {
	km, err := der.ParseBase64(key)
	if err != nil {
		return nil, err
	}
	return NewDecryptor(km, opts...)
}

// Key returns the key material the Decryptor was built with.
func (d *Decryptor) Key() *pwdecrypt.KeyMaterial {
	return d.key
}

// KeySize returns the ciphertext width in bytes.
func (d *Decryptor) KeySize() int {
	return d.key.ByteLength()
}

// Decrypt decodes cipherBase64 (standard alphabet, padded) and returns the
// UTF-8 message it carries.
func (d *Decryptor) Decrypt(cipherBase64 string) (string, error) {
	ct, err := base64.StdEncoding.DecodeString(strings.TrimSpace(cipherBase64))
	if err != nil {
		return "", d.reject(pwdecrypt.ErrInvalidCiphertextEncoding)
	}
	msg, err := d.DecryptBlock(ct)
	if err != nil {
		return "", err
	}
	s := string(msg)
	utils.Zeroize(msg)
	return s, nil
}

// DecryptBlock decrypts one raw ciphertext of exactly KeySize bytes and
// returns the unpadded message. The message is guaranteed to be valid UTF-8.
func (d *Decryptor) DecryptBlock(ciphertext []byte) ([]byte, error) {
	k := d.key.ByteLength()
	if len(ciphertext) != k {
		return nil, d.reject(pwdecrypt.ErrCiphertextLengthMismatch)
	}

	c := bigint.FromBigEndianBytes(ciphertext)
	if c.Cmp(d.key.Modulus()) >= 0 {
		return nil, d.reject(pwdecrypt.ErrCiphertextOutOfRange)
	}

	m, err := bigint.ModPow(c, d.key.PrivateExponent(), d.key.Modulus())
	if err != nil {
		return nil, d.reject(pwdecrypt.ErrDecryptionFailed)
	}
	em, err := m.ToBigEndianBytes(k)
	if err != nil {
		return nil, d.reject(pwdecrypt.ErrDecryptionFailed)
	}
	defer utils.Zeroize(em)

	msg, err := unpad(em)
	if err != nil {
		return nil, d.reject(err)
	}
	out := make([]byte, len(msg))
	copy(out, msg)
	return out, nil
}

func (d *Decryptor) reject(err error) error {
	d.log.Debug().Msg("ciphertext rejected")
	return err
}
