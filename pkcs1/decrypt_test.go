package pkcs1

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"math/big"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	pwdecrypt "github.com/BackendStack21/pwdecrypt-go"
	"github.com/BackendStack21/pwdecrypt-go/bigint"
	"github.com/BackendStack21/pwdecrypt-go/internal/testkeys"
)

const printable = " !\"#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`abcdefghijklmnopqrstuvwxyz{|}~"

func defaultDecryptor(t testing.TB) *Decryptor {
	t.Helper()
	d, err := NewDecryptorFromBase64(testkeys.PKCS8Base64)
	if err != nil {
		t.Fatalf("NewDecryptorFromBase64 failed: %v", err)
	}
	return d
}

func decryptorFor(t testing.TB, key *rsa.PrivateKey) *Decryptor {
	t.Helper()
	km, err := pwdecrypt.NewKeyMaterial(
		bigint.FromBigEndianBytes(key.N.Bytes()),
		bigint.FromBigEndianBytes(key.D.Bytes()),
	)
	if err != nil {
		t.Fatal(err)
	}
	d, err := NewDecryptor(km)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

// nonZeroPadding returns n random bytes with no 0x00.
func nonZeroPadding(t testing.TB, n int) []byte {
	t.Helper()
	ps := make([]byte, n)
	if _, err := rand.Read(ps); err != nil {
		t.Fatal(err)
	}
	for i := range ps {
		if ps[i] == 0 {
			ps[i] = 0x5a
		}
	}
	return ps
}

func randomPrintable(t testing.TB, n int) string {
	t.Helper()
	idx := make([]byte, n)
	if _, err := rand.Read(idx); err != nil {
		t.Fatal(err)
	}
	out := make([]byte, n)
	for i, b := range idx {
		out[i] = printable[int(b)%len(printable)]
	}
	return string(out)
}

// encryptDefault pads msg with ps to the default key width and encrypts it.
func encryptDefault(ps, msg []byte) string {
	return base64.StdEncoding.EncodeToString(testkeys.EncryptBlock(testkeys.EncodeMessage(ps, msg)))
}

func TestDecrypt_FixedVector(t *testing.T) {
	d := defaultDecryptor(t)
	got, err := d.Decrypt(testkeys.TenwhysCiphertext)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if got != "Tenwhys123" {
		t.Errorf("Decrypt = %q, want %q", got, "Tenwhys123")
	}
}

func TestDecrypt_RoundTripDefaultKey(t *testing.T) {
	d := defaultDecryptor(t)
	k := d.KeySize()
	if k != testkeys.ByteLength {
		t.Fatalf("KeySize = %d, want %d", k, testkeys.ByteLength)
	}

	for n := 1; n <= k-11; n++ {
		msg := randomPrintable(t, n)
		ct := encryptDefault(nonZeroPadding(t, k-3-n), []byte(msg))
		got, err := d.Decrypt(ct)
		if err != nil {
			t.Fatalf("len %d: Decrypt failed: %v", n, err)
		}
		if got != msg {
			t.Fatalf("len %d: got %q, want %q", n, got, msg)
		}
	}
}

// Ciphertexts from crypto/rsa must decrypt to the same plaintext.
func TestDecrypt_RoundTripCryptoRSA(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatal(err)
	}
	d := decryptorFor(t, key)

	for n := 1; n <= 64; n++ {
		msg := randomPrintable(t, n)
		ct, err := rsa.EncryptPKCS1v15(rand.Reader, &key.PublicKey, []byte(msg))
		if err != nil {
			t.Fatal(err)
		}
		got, err := d.Decrypt(base64.StdEncoding.EncodeToString(ct))
		if err != nil {
			t.Fatalf("len %d: Decrypt failed: %v", n, err)
		}
		if got != msg {
			t.Fatalf("len %d: got %q, want %q", n, got, msg)
		}
	}
}

func TestDecrypt_UTF8Payload(t *testing.T) {
	d := defaultDecryptor(t)
	msg := "pässwörd-密码"
	ct := encryptDefault(nonZeroPadding(t, d.KeySize()-3-len(msg)), []byte(msg))
	got, err := d.Decrypt(ct)
	if err != nil {
		t.Fatal(err)
	}
	if got != msg {
		t.Errorf("got %q, want %q", got, msg)
	}
}

func TestDecrypt_Deterministic(t *testing.T) {
	d := defaultDecryptor(t)
	for i := 0; i < 3; i++ {
		got, err := d.Decrypt(testkeys.TenwhysCiphertext)
		if err != nil || got != "Tenwhys123" {
			t.Fatalf("run %d: got %q, %v", i, got, err)
		}
	}

	bad := base64.StdEncoding.EncodeToString(make([]byte, d.KeySize()-1))
	for i := 0; i < 3; i++ {
		if _, err := d.Decrypt(bad); err != pwdecrypt.ErrCiphertextLengthMismatch {
			t.Fatalf("run %d: got %v, want ErrCiphertextLengthMismatch", i, err)
		}
	}
}

func TestDecrypt_MinimumPadding(t *testing.T) {
	d := defaultDecryptor(t)
	k := d.KeySize()

	msg := strings.Repeat("a", k-11)
	got, err := d.Decrypt(encryptDefault(nonZeroPadding(t, 8), []byte(msg)))
	if err != nil {
		t.Fatalf("PS of 8 should decrypt: %v", err)
	}
	if got != msg {
		t.Errorf("got %q, want %q", got, msg)
	}

	for ps := 0; ps < 8; ps++ {
		msg := bytes.Repeat([]byte{'a'}, k-3-ps)
		_, err := d.Decrypt(encryptDefault(nonZeroPadding(t, ps), msg))
		if err != pwdecrypt.ErrDecryptionFailed {
			t.Errorf("PS of %d: got %v, want ErrDecryptionFailed", ps, err)
		}
	}
}

func TestDecrypt_EmptyPayload(t *testing.T) {
	d := defaultDecryptor(t)
	got, err := d.Decrypt(encryptDefault(nonZeroPadding(t, d.KeySize()-3), nil))
	if err != nil {
		t.Fatalf("empty payload should decrypt: %v", err)
	}
	if got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestDecrypt_LengthMismatch(t *testing.T) {
	d := defaultDecryptor(t)
	k := d.KeySize()
	for _, n := range []int{0, 1, k - 1, k + 1, 2 * k} {
		ct := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x01}, n))
		if _, err := d.Decrypt(ct); err != pwdecrypt.ErrCiphertextLengthMismatch {
			t.Errorf("length %d: got %v, want ErrCiphertextLengthMismatch", n, err)
		}
	}
}

func TestDecrypt_EmptyString(t *testing.T) {
	d := defaultDecryptor(t)
	if _, err := d.Decrypt(""); err != pwdecrypt.ErrCiphertextLengthMismatch {
		t.Errorf("Decrypt(\"\") = %v, want ErrCiphertextLengthMismatch", err)
	}
}

func TestDecrypt_OutOfRange(t *testing.T) {
	d := defaultDecryptor(t)

	if _, err := d.Decrypt(testkeys.ModulusBase64); err != pwdecrypt.ErrCiphertextOutOfRange {
		t.Errorf("c == n: got %v, want ErrCiphertextOutOfRange", err)
	}

	above := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0xff}, d.KeySize()))
	if _, err := d.Decrypt(above); err != pwdecrypt.ErrCiphertextOutOfRange {
		t.Errorf("c > n: got %v, want ErrCiphertextOutOfRange", err)
	}

	nMinus1 := new(big.Int).Sub(testkeys.Modulus(), big.NewInt(1))
	ct := base64.StdEncoding.EncodeToString(nMinus1.FillBytes(make([]byte, d.KeySize())))
	if _, err := d.Decrypt(ct); errors.Is(err, pwdecrypt.ErrCiphertextOutOfRange) {
		t.Error("c == n-1 must pass the range check")
	}
}

func TestDecrypt_InvalidBase64(t *testing.T) {
	d := defaultDecryptor(t)
	for _, s := range []string{"not base64!", "AAA", "A===", "-_-_"} {
		if _, err := d.Decrypt(s); err != pwdecrypt.ErrInvalidCiphertextEncoding {
			t.Errorf("Decrypt(%q) = %v, want ErrInvalidCiphertextEncoding", s, err)
		}
	}
}

func TestDecrypt_SurroundingWhitespace(t *testing.T) {
	d := defaultDecryptor(t)
	got, err := d.Decrypt("  " + testkeys.TenwhysCiphertext + "\n")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Tenwhys123" {
		t.Errorf("got %q", got)
	}
}

func TestDecrypt_BadBlockHeader(t *testing.T) {
	d := defaultDecryptor(t)
	k := d.KeySize()

	em := testkeys.EncodeMessage(nonZeroPadding(t, k-3-4), []byte("pass"))
	em[1] = 0x01
	ct := base64.StdEncoding.EncodeToString(testkeys.EncryptBlock(em))
	if _, err := d.Decrypt(ct); err != pwdecrypt.ErrDecryptionFailed {
		t.Errorf("EM[1] = 0x01: got %v, want ErrDecryptionFailed", err)
	}

	em = testkeys.EncodeMessage(nonZeroPadding(t, k-3-4), []byte("pass"))
	em[0] = 0x01
	ct = base64.StdEncoding.EncodeToString(testkeys.EncryptBlock(em))
	if _, err := d.Decrypt(ct); err != pwdecrypt.ErrDecryptionFailed {
		t.Errorf("EM[0] = 0x01: got %v, want ErrDecryptionFailed", err)
	}
}

func TestDecrypt_NoTerminator(t *testing.T) {
	d := defaultDecryptor(t)
	em := append([]byte{0x00, 0x02}, nonZeroPadding(t, d.KeySize()-2)...)
	ct := base64.StdEncoding.EncodeToString(testkeys.EncryptBlock(em))
	if _, err := d.Decrypt(ct); err != pwdecrypt.ErrDecryptionFailed {
		t.Errorf("got %v, want ErrDecryptionFailed", err)
	}
}

func TestDecrypt_InvalidUTF8(t *testing.T) {
	d := defaultDecryptor(t)
	msg := []byte{0xff, 0xfe, 'a'}
	ct := encryptDefault(nonZeroPadding(t, d.KeySize()-3-len(msg)), msg)
	if _, err := d.Decrypt(ct); err != pwdecrypt.ErrDecryptionFailed {
		t.Errorf("got %v, want ErrDecryptionFailed", err)
	}
}

func TestDecrypt_ErrorsAreRequestErrors(t *testing.T) {
	d := defaultDecryptor(t)
	inputs := []string{
		"",
		"!!",
		testkeys.ModulusBase64,
		base64.StdEncoding.EncodeToString(make([]byte, d.KeySize())),
	}
	for _, s := range inputs {
		_, err := d.Decrypt(s)
		if err == nil {
			t.Errorf("Decrypt(%q) unexpectedly succeeded", s)
			continue
		}
		if !pwdecrypt.IsRequestError(err) {
			t.Errorf("Decrypt(%q) = %v, not a request error", s, err)
		}
	}
}

func TestDecryptBlock(t *testing.T) {
	d := defaultDecryptor(t)
	ct, _ := base64.StdEncoding.DecodeString(testkeys.TenwhysCiphertext)
	msg, err := d.DecryptBlock(ct)
	if err != nil {
		t.Fatal(err)
	}
	if string(msg) != "Tenwhys123" {
		t.Errorf("DecryptBlock = %q", msg)
	}

	if _, err := d.DecryptBlock(ct[1:]); err != pwdecrypt.ErrCiphertextLengthMismatch {
		t.Errorf("short block: got %v", err)
	}
	if _, err := d.DecryptBlock(nil); err != pwdecrypt.ErrCiphertextLengthMismatch {
		t.Errorf("nil block: got %v", err)
	}
}

func TestDecrypt_Concurrent(t *testing.T) {
	d := defaultDecryptor(t)
	bad := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0xff}, d.KeySize()))

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				got, err := d.Decrypt(testkeys.TenwhysCiphertext)
				if err != nil || got != "Tenwhys123" {
					errs <- errors.New("concurrent decrypt returned wrong result")
				}
				return
			}
			if _, err := d.Decrypt(bad); err != pwdecrypt.ErrCiphertextOutOfRange {
				errs <- errors.New("concurrent decrypt returned wrong error")
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestNewDecryptor_NilKey(t *testing.T) {
	_, err := NewDecryptor(nil)
	if !errors.Is(err, pwdecrypt.ErrKeyParse) {
		t.Errorf("NewDecryptor(nil) = %v, want ErrKeyParse", err)
	}
}

func TestNewDecryptorFromBase64_BadKey(t *testing.T) {
	_, err := NewDecryptorFromBase64("")
	if !errors.Is(err, pwdecrypt.ErrKeyDecode) {
		t.Errorf("empty key: got %v, want ErrKeyDecode", err)
	}
	_, err = NewDecryptorFromBase64(base64.StdEncoding.EncodeToString([]byte{0x30, 0x00}))
	if !errors.Is(err, pwdecrypt.ErrKeyParse) {
		t.Errorf("empty sequence: got %v, want ErrKeyParse", err)
	}
}

func TestDecryptor_Key(t *testing.T) {
	d := defaultDecryptor(t)
	if d.Key().Modulus().String() != testkeys.ModulusHex {
		t.Error("Key() returned a different modulus")
	}
}

func TestWithLogger_NoSensitiveData(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	km := defaultDecryptor(t).Key()
	d, err := NewDecryptor(km, WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := d.Decrypt(testkeys.TenwhysCiphertext); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("successful decrypt logged: %s", buf.String())
	}

	msg := []byte{0xff}
	ct := encryptDefault(nonZeroPadding(t, d.KeySize()-4), msg)
	if _, err := d.Decrypt(ct); err == nil {
		t.Fatal("expected failure")
	}
	out := buf.String()
	if !strings.Contains(out, "ciphertext rejected") {
		t.Errorf("expected rejection event, got %q", out)
	}
	if strings.Contains(out, ct) || strings.Contains(out, "utf") || strings.Contains(out, "padding") {
		t.Errorf("log leaks detail: %q", out)
	}
}
