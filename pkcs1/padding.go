package pkcs1

import (
	"bytes"
	"unicode/utf8"

	pwdecrypt "github.com/BackendStack21/pwdecrypt-go"
	"github.com/BackendStack21/pwdecrypt-go/core"
)

// unpad validates a type 2 encryption block
//
//	0x00 || 0x02 || PS || 0x00 || M
//
// and returns M as a subslice of em. PS must be at least eight bytes, so the
// terminator sits at index 10 or later. Every failure is ErrDecryptionFailed.
func unpad(em []byte) ([]byte, error) {
	if len(em) < core.HeaderOverhead {
		return nil, pwdecrypt.ErrDecryptionFailed
	}
	if em[0] != core.BlockLeadByte || em[1] != core.BlockTypeByte {
		return nil, pwdecrypt.ErrDecryptionFailed
	}

	i := bytes.IndexByte(em[core.PaddingStart:], 0x00)
	if i < 0 {
		return nil, pwdecrypt.ErrDecryptionFailed
	}
	sep := core.PaddingStart + i
	if sep < core.MinTerminator {
		return nil, pwdecrypt.ErrDecryptionFailed
	}

	msg := em[sep+1:]
	if !utf8.Valid(msg) {
		return nil, pwdecrypt.ErrDecryptionFailed
	}
	return msg, nil
}
