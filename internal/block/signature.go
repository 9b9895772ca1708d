package block

import (
	"bytes"

	"github.com/javi11/rarextract/internal/rarerr"
)

// Signature identifies which archive format version a file's magic bytes
// declare.
type Signature int

const (
	SignatureRAR5 Signature = iota
	SignatureRAR4
)

var (
	sigRAR5 = []byte{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x01, 0x00}
	sigRAR4 = []byte{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x00}
)

// ParseSignature recognizes the RAR5 or RAR4 magic at the start of input.
func ParseSignature(input []byte) (rest []byte, sig Signature, err error) {
	if len(input) >= len(sigRAR5) && bytes.Equal(input[:len(sigRAR5)], sigRAR5) {
		return input[len(sigRAR5):], SignatureRAR5, nil
	}
	if len(input) >= len(sigRAR4) && bytes.Equal(input[:len(sigRAR4)], sigRAR4) {
		return input[len(sigRAR4):], SignatureRAR4, nil
	}
	if len(input) < len(sigRAR5) {
		return nil, 0, rarerr.ErrIncomplete
	}
	return nil, 0, rarerr.ErrParseFailed
}
