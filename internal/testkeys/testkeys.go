// Package testkeys holds the fixed 512-bit key pair the frontend ships with,
// plus a textbook RSA encryptor used as a test oracle. Nothing here is used
// outside tests.
package testkeys

import (
	"math/big"
)

// PKCS8Base64 is the default AUTH_RSA_PRIVATE_KEY value: a PKCS#8
// PrivateKeyInfo wrapping a 512-bit RSAPrivateKey.
const PKCS8Base64 = "MIIBVQIBADANBgkqhkiG9w0BAQEFAASCAT8wggE7AgEAAkEAznV2Bi0zIX61NC3zSx8U6lJXbtru325pRV4Wt0aJXGxy6LMTsfxIye1ip+f2WnxrkYfk/X8YZ6FWNQPaAX/iRwIDAQABAkEAk/VcAusrpIqA5Ac2P5Tj0VX3cOuXmyouaVcXonr7f+6y2YTjLQuAnkcfKKocQI/juIRQBFQIqqW/m1nmz1wGeQIhAO8XaA/KxzOIgU0l/4lm0A2Wne6RokJ9HLs1YpOzIUmVAiEA3Q9DQrpAlIuiT1yWAGSxA9RxcjUM/1kdVLTkv0avXWsCIE0X8woEjK7lOSwzMG6RpEx9YHdopjViOj1zPVH61KTxAiBmv/dlhqkJ4rV46fIXELZur0pj6WC3N7a4brR8a+CLLQIhAMQyerWl2cPNVtE/8tkziHKbwW3ZUiBXU24wFxedT9iV"

// PKCS1Base64 is the RSAPrivateKey carried inside PKCS8Base64.
const PKCS1Base64 = "MIIBOwIBAAJBAM51dgYtMyF+tTQt80sfFOpSV27a7t9uaUVeFrdGiVxscuizE7H8SMntYqfn9lp8a5GH5P1/GGehVjUD2gF/4kcCAwEAAQJBAJP1XALrK6SKgOQHNj+U49FV93Drl5sqLmlXF6J6+3/ustmE4y0LgJ5HHyiqHECP47iEUARUCKqlv5tZ5s9cBnkCIQDvF2gPyscziIFNJf+JZtANlp3ukaJCfRy7NWKTsyFJlQIhAN0PQ0K6QJSLok9clgBksQPUcXI1DP9ZHVS05L9Gr11rAiBNF/MKBIyu5TksMzBukaRMfWB3aKY1Yjo9cz1R+tSk8QIgZr/3ZYapCeK1eOnyFxC2bq9KY+lgtze2uG60fGvgiy0CIQDEMnq1pdnDzVbRP/LZM4hym8Ft2VIgV1NuMBcXnU/YlQ=="

// ModulusHex, PublicExponent and PrivateExponentHex are the key's numbers.
const (
	ModulusHex         = "ce7576062d33217eb5342df34b1f14ea52576edaeedf6e69455e16b746895c6c72e8b313b1fc48c9ed62a7e7f65a7c6b9187e4fd7f1867a1563503da017fe247"
	PublicExponent     = 65537
	PrivateExponentHex = "93f55c02eb2ba48a80e407363f94e3d155f770eb979b2a2e695717a27afb7feeb2d984e32d0b809e471f28aa1c408fe3b88450045408aaa5bf9b59e6cf5c0679"
)

// ByteLength is the width of every ciphertext for this key.
const ByteLength = 64

// ModulusBase64 is the modulus as exactly ByteLength big-endian bytes.
const ModulusBase64 = "znV2Bi0zIX61NC3zSx8U6lJXbtru325pRV4Wt0aJXGxy6LMTsfxIye1ip+f2WnxrkYfk/X8YZ6FWNQPaAX/iRw=="

// TenwhysCiphertext is "Tenwhys123" encrypted under the key with a padding
// string of 51 bytes of 0x5a.
const TenwhysCiphertext = "AccZ4ryHdkVQFWP9zew8th3bYI1cvl2qUJYjjDHlvQlcN8g3MKlI9ItJBJVnUdaKd/UcITBIDIhsnSp/Dv6qcw=="

// Modulus returns n as a big.Int.
func Modulus() *big.Int {
	n, _ := new(big.Int).SetString(ModulusHex, 16)
	return n
}

// PrivateExponent returns d as a big.Int.
func PrivateExponent() *big.Int {
	d, _ := new(big.Int).SetString(PrivateExponentHex, 16)
	return d
}

// EncryptBlock raises em to the public exponent modulo n and returns the
// result as ByteLength bytes. em is used as-is, so callers control padding.
func EncryptBlock(em []byte) []byte {
	return RawEncrypt(Modulus(), big.NewInt(PublicExponent), em)
}

// RawEncrypt computes em^e mod n rendered at the modulus width.
func RawEncrypt(n, e *big.Int, em []byte) []byte {
	c := new(big.Int).Exp(new(big.Int).SetBytes(em), e, n)
	return c.FillBytes(make([]byte, (n.BitLen()+7)/8))
}

// EncodeMessage builds 0x00 || 0x02 || ps || 0x00 || msg.
func EncodeMessage(ps, msg []byte) []byte {
	em := make([]byte, 0, 3+len(ps)+len(msg))
	em = append(em, 0x00, 0x02)
	em = append(em, ps...)
	em = append(em, 0x00)
	return append(em, msg...)
}
