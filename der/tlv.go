// Package der extracts RSA key material from DER-encoded private keys with
// a minimal hand-written tag/length/value walker.
//
// It is not an ASN.1 parser. It understands just enough structure to find
// the RSAPrivateKey SEQUENCE and then collects its INTEGER elements by
// position.
package der

import (
	"github.com/samber/oops"

	pwdecrypt "github.com/BackendStack21/pwdecrypt-go"
	"github.com/BackendStack21/pwdecrypt-go/bigint"
	"github.com/BackendStack21/pwdecrypt-go/utils"
)

// ASN.1 universal tags used by PKCS#1 and PKCS#8 private keys.
const (
	TagInteger     = 0x02
	TagOctetString = 0x04
	TagOID         = 0x06
	TagSequence    = 0x30
)

// node describes one element discovered while scanning.
type node struct {
	tag         byte
	length      int
	valueOffset int
}

func (n node) end() int {
	return n.valueOffset + n.length
}

// readNode decodes the element whose tag byte sits at data[offset].
// Short-form lengths (< 0x80) are taken directly. Long-form lengths give the
// count of following length octets, read big-endian. Indefinite lengths,
// lengths wider than 4 octets and values running past the input fail.
func readNode(data []byte, offset int) (node, error) {
	if err := utils.ValidateSliceAccess(data, offset, 2); err != nil {
		return node{}, oops.
			In("der").
			With("offset", offset).
			Errorf("%w: truncated element header", pwdecrypt.ErrKeyParse)
	}
	tag := data[offset]
	lb := data[offset+1]
	pos := offset + 2

	var length int
	if lb < 0x80 {
		length = int(lb)
	} else {
		octets := int(lb & 0x7f)
		if octets == 0 {
			return node{}, oops.
				In("der").
				With("offset", offset).
				Errorf("%w: indefinite length", pwdecrypt.ErrKeyParse)
		}
		var err error
		length, pos, err = utils.SafeReadLength(data, pos, octets, utils.MaxKeyBlobSize)
		if err != nil {
			return node{}, oops.
				In("der").
				With("offset", offset).
				Errorf("%w: length field: %v", pwdecrypt.ErrKeyParse, err)
		}
	}

	if err := utils.ValidateSliceAccess(data, pos, length); err != nil {
		return node{}, oops.
			In("der").
			With("offset", offset).
			With("length", length).
			Errorf("%w: element runs past end of input", pwdecrypt.ErrKeyParse)
	}
	return node{tag: tag, length: length, valueOffset: pos}, nil
}

// ScanIntegers walks data linearly looking for INTEGER tag bytes and
// collects up to max values in the order encountered. Leading 0x00 sign
// padding is stripped and the rest read as an unsigned big-endian integer.
// Scanning resumes after each integer's value, so bytes inside a collected
// integer are never mistaken for tags.
func ScanIntegers(data []byte, max int) ([]*bigint.Uint, error) {
	ints := make([]*bigint.Uint, 0, max)
	for i := 0; i < len(data) && len(ints) < max; {
		if data[i] != TagInteger {
			i++
			continue
		}
		n, err := readNode(data, i)
		if err != nil {
			return nil, err
		}
		value := data[n.valueOffset:n.end()]
		for len(value) > 0 && value[0] == 0x00 {
			value = value[1:]
		}
		ints = append(ints, bigint.FromBigEndianBytes(value))
		i = n.end()
	}
	return ints, nil
}
