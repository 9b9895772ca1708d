// Package varint implements the 7-bit continuation-byte variable-length integer
// encoding used throughout the RAR5 block format.
package varint

import (
	"fmt"

	"github.com/javi11/rarextract/internal/rarerr"
)

// maxBytes is the longest an encoding may be; an encoding that runs on to an
// 11th byte is malformed rather than incomplete.
const maxBytes = 10

// Decode reads a VarInt from the front of b, returning the value and the
// number of bytes consumed. It returns rarerr.ErrIncomplete if b ends before a
// terminating byte (high bit clear) is found, or a wrapped rarerr.ErrParseFailed
// if the encoding runs past maxBytes.
func Decode(b []byte) (value uint64, n int, err error) {
	for i := 0; i < len(b); i++ {
		if i >= maxBytes {
			return 0, 0, fmt.Errorf("%w: varint exceeds %d bytes", rarerr.ErrParseFailed, maxBytes)
		}
		c := b[i]
		value |= uint64(c&0x7F) << uint(7*i)
		if c&0x80 == 0 {
			return value, i + 1, nil
		}
	}
	return 0, 0, rarerr.ErrIncomplete
}

// Encode returns the canonical (shortest) VarInt encoding of v.
func Encode(v uint64) []byte {
	out := make([]byte, 0, 1)
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
			continue
		}
		out = append(out, b)
		return out
	}
}
