package pwdecrypt

import (
	"encoding/hex"

	"github.com/samber/oops"

	"github.com/BackendStack21/pwdecrypt-go/bigint"
	"github.com/BackendStack21/pwdecrypt-go/core"
	"github.com/BackendStack21/pwdecrypt-go/utils"
)

// DomainKeyFingerprint separates key fingerprints from other SHA3 uses.
const DomainKeyFingerprint = "pwdecrypt-key-fingerprint-v1"

// KeyMaterial is the RSA private key data needed for decryption.
// It is immutable once constructed and safe for concurrent use.
type KeyMaterial struct {
	modulus         *bigint.Uint
	privateExponent *bigint.Uint
	byteLength      int
}

// NewKeyMaterial validates n and d and returns the KeyMaterial for them.
// Invariant violations are reported as ErrKeyParse.
func NewKeyMaterial(n, d *bigint.Uint) (*KeyMaterial, error) {
	if err := core.ValidateKeyParams(n, d); err != nil {
		return nil, oops.
			In("keymaterial").
			Errorf("%w: %v", ErrKeyParse, err)
	}
	return &KeyMaterial{
		modulus:         n,
		privateExponent: d,
		byteLength:      n.ByteLen(),
	}, nil
}

// Modulus returns n.
func (k *KeyMaterial) Modulus() *bigint.Uint { return k.modulus }

// PrivateExponent returns d.
func (k *KeyMaterial) PrivateExponent() *bigint.Uint { return k.privateExponent }

// ByteLength returns ceil(bitlen(n)/8), the width of every ciphertext and
// encoded message.
func (k *KeyMaterial) ByteLength() int { return k.byteLength }

// Bits returns the bit length of the modulus.
func (k *KeyMaterial) Bits() int { return k.modulus.BitLen() }

// Fingerprint returns a hex SHA3-256 digest of the modulus, suitable for
// logs. It never depends on the private exponent.
func (k *KeyMaterial) Fingerprint() string {
	n, _ := k.modulus.ToBigEndianBytes(k.byteLength)
	return hex.EncodeToString(utils.HashWithDomain(DomainKeyFingerprint, n))
}
