package der

import (
	"bytes"
	"encoding/base64"
	"encoding/pem"
	"strings"

	"github.com/samber/oops"

	pwdecrypt "github.com/BackendStack21/pwdecrypt-go"
	"github.com/BackendStack21/pwdecrypt-go/core"
	"github.com/BackendStack21/pwdecrypt-go/utils"
)

// oidRSAEncryption is the DER encoding of OID 1.2.840.113549.1.1.1.
var oidRSAEncryption = []byte{TagOID, 0x09, 0x2a, 0x86, 0x48, 0x86, 0xf7, 0x0d, 0x01, 0x01, 0x01}

const pemPrefix = "-----BEGIN"

// DecodeKeyBlob turns a configured key string into DER bytes. It accepts
// plain base64 (line breaks and spaces allowed) or a PEM block of type
// PRIVATE KEY or RSA PRIVATE KEY.
func DecodeKeyBlob(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, oops.
			In("der").
			Errorf("%w: key is empty", pwdecrypt.ErrKeyDecode)
	}

	if strings.HasPrefix(s, pemPrefix) {
		block, _ := pem.Decode([]byte(s))
		if block == nil {
			return nil, oops.
				In("der").
				Errorf("%w: malformed PEM block", pwdecrypt.ErrKeyDecode)
		}
		if block.Type != "PRIVATE KEY" && block.Type != "RSA PRIVATE KEY" {
			return nil, oops.
				In("der").
				With("pem_type", block.Type).
				Errorf("%w: unexpected PEM block type", pwdecrypt.ErrKeyDecode)
		}
		return checkBlobSize(block.Bytes)
	}

	raw, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(s), ""))
	if err != nil {
		return nil, oops.
			In("der").
			Errorf("%w: %v", pwdecrypt.ErrKeyDecode, err)
	}
	return checkBlobSize(raw)
}

func checkBlobSize(raw []byte) ([]byte, error) {
	if err := utils.CheckLength(len(raw), utils.MaxKeyBlobSize); err != nil {
		return nil, oops.
			In("der").
			With("size", len(raw)).
			Errorf("%w: %v", pwdecrypt.ErrKeyDecode, err)
	}
	return raw, nil
}

// ParseBase64 decodes a configured key string and parses it.
func ParseBase64(s string) (*pwdecrypt.KeyMaterial, error) {
	raw, err := DecodeKeyBlob(s)
	if err != nil {
		return nil, err
	}
	return ParsePrivateKey(raw)
}

// ParsePrivateKey extracts the modulus and private exponent from a DER
// private key. By the fixed RSAPrivateKey layout (version, n, e, d, p, q)
// integer[1] is n and integer[3] is d.
func ParsePrivateKey(der []byte) (*pwdecrypt.KeyMaterial, error) {
	body, err := rsaPrivateKeyBody(der)
	if err != nil {
		return nil, err
	}

	ints, err := ScanIntegers(body, core.KeyIntegerCount)
	if err != nil {
		return nil, err
	}
	if len(ints) < core.KeyIntegerCount {
		return nil, oops.
			In("der").
			With("integers", len(ints)).
			Errorf("%w: found %d INTEGER elements, need %d", pwdecrypt.ErrKeyParse, len(ints), core.KeyIntegerCount)
	}

	return pwdecrypt.NewKeyMaterial(ints[core.ModulusIndex], ints[core.PrivateExponentIndex])
}

// rsaPrivateKeyBody returns the bytes the integer scan should run over.
//
// For a PKCS#8 PrivateKeyInfo
//
//	SEQUENCE { INTEGER version, SEQUENCE algorithm, OCTET STRING privateKey }
//
// it descends into the OCTET STRING. The RSAPrivateKey SEQUENCE found there
// (or at the top level for PKCS#1 input) is then stripped of its header so
// the scan starts at its first INTEGER. Input that is not a SEQUENCE at all
// is returned unchanged.
func rsaPrivateKeyBody(der []byte) ([]byte, error) {
	outer, err := readNode(der, 0)
	if err != nil || outer.tag != TagSequence {
		return der, nil
	}
	content := der[outer.valueOffset:outer.end()]

	inner, ok, err := privateKeyInfoPayload(content)
	if err != nil {
		return nil, err
	}
	if !ok {
		return content, nil
	}

	seq, err := readNode(inner, 0)
	if err != nil || seq.tag != TagSequence {
		return nil, oops.
			In("der").
			Errorf("%w: PKCS#8 payload is not an RSAPrivateKey SEQUENCE", pwdecrypt.ErrKeyParse)
	}
	return inner[seq.valueOffset:seq.end()], nil
}

// privateKeyInfoPayload reports whether content is the body of a PKCS#8
// PrivateKeyInfo and, if so, returns the OCTET STRING payload.
func privateKeyInfoPayload(content []byte) ([]byte, bool, error) {
	version, err := readNode(content, 0)
	if err != nil || version.tag != TagInteger {
		return nil, false, nil
	}
	alg, err := readNode(content, version.end())
	if err != nil || alg.tag != TagSequence {
		// PKCS#1 RSAPrivateKey: INTEGER version is followed by INTEGER n.
		return nil, false, nil
	}
	if !bytes.HasPrefix(content[alg.valueOffset:alg.end()], oidRSAEncryption) {
		return nil, false, oops.
			In("der").
			Errorf("%w: PKCS#8 algorithm is not rsaEncryption", pwdecrypt.ErrKeyParse)
	}
	payload, err := readNode(content, alg.end())
	if err != nil || payload.tag != TagOctetString {
		return nil, false, oops.
			In("der").
			Errorf("%w: PKCS#8 privateKey is not an OCTET STRING", pwdecrypt.ErrKeyParse)
	}
	return content[payload.valueOffset:payload.end()], true, nil
}
