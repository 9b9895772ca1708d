// Package aesreader implements the AES-256-CBC streaming decrypt reader that
// sits between a (possibly multi-volume) ciphertext source and the file
// writer sink. Key derivation and the block-boundary residue/seek handling
// follow the pattern used by javi11/rardecode's rarextract example and its
// Go port in javi11/altmount's internal/encryption/aes package.
package aesreader

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"

	"github.com/javi11/rarextract/internal/block"
	"github.com/javi11/rarextract/internal/rarerr"
)

const blockSize = aes.BlockSize // 16

// DeriveKey runs PBKDF2-HMAC-SHA256 with iterations = 1 << kdfCountExponent,
// producing the 32-byte AES-256 key.
func DeriveKey(passphrase string, salt [16]byte, kdfCountExponent uint8) []byte {
	iterations := 1 << kdfCountExponent
	return pbkdf2.Key([]byte(passphrase), salt[:], iterations, 32, sha256.New)
}

// Reader decrypts an AES-256-CBC ciphertext stream, with no padding (the
// member's unpacked size truncates the final block). If the member is not
// encrypted, wrap with Passthrough instead.
type Reader struct {
	src io.Reader

	key    []byte
	origIV [blockSize]byte
	cbc    cipher.BlockMode

	residue []byte // decrypted plaintext not yet returned to the caller
	eof     bool

	seeker io.ReadSeeker // non-nil only when src also supports Seek
}

// NewReader constructs a streaming decrypt reader from a source byte stream,
// the caller's passphrase, and the member's FileEncryption record.
func NewReader(src io.Reader, passphrase string, fe block.FileEncryption) (*Reader, error) {
	if fe.Version != block.EncryptionAES256 {
		return nil, fmt.Errorf("%w: encryption version %v", rarerr.ErrUnsupportedEncryptionVersion, fe.Version)
	}

	key := DeriveKey(passphrase, fe.Salt, fe.KDFCountExponent)
	cb, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rarerr.ErrDecryptFailed, err)
	}

	r := &Reader{
		src:    src,
		key:    key,
		origIV: fe.IV,
		cbc:    cipher.NewCBCDecrypter(cb, fe.IV[:]),
	}
	if sk, ok := src.(io.ReadSeeker); ok {
		r.seeker = sk
	}
	return r, nil
}

// Passthrough wraps a source stream for an unencrypted member so callers can
// treat encrypted and plain members uniformly.
func Passthrough(src io.Reader) io.Reader { return src }

// Read decrypts enough ciphertext to fill at least one AES block into p when
// possible, draining the residue buffer first.
func (r *Reader) Read(p []byte) (int, error) {
	if len(r.residue) == 0 && !r.eof {
		if err := r.fill(); err != nil {
			return 0, err
		}
	}
	if len(r.residue) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.residue)
	r.residue = r.residue[n:]
	return n, nil
}

// fill reads and decrypts one chunk (a multiple of the AES block size) of
// ciphertext into the residue buffer.
func (r *Reader) fill() error {
	const chunkBlocks = 64
	buf := make([]byte, blockSize*chunkBlocks)
	n, err := io.ReadFull(r.src, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return fmt.Errorf("%w: %v", rarerr.ErrDecryptFailed, err)
	}
	if n == 0 {
		r.eof = true
		return nil
	}
	if n%blockSize != 0 {
		return fmt.Errorf("%w: ciphertext ended mid-block", rarerr.ErrTruncated)
	}
	r.cbc.CryptBlocks(buf[:n], buf[:n])
	r.residue = buf[:n]
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		r.eof = true
	}
	return nil
}

// Seek repositions the reader to logical plaintext offset L, per the
// format's block-0-special-case: block index b = L/16; for b == 0 the
// original IV is reused directly (no preceding ciphertext block exists to
// re-derive it from), otherwise the source is re-sought to the start of
// block b-1 and that ciphertext becomes the new IV. Requires the wrapped
// source to implement io.Seeker.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	if whence != io.SeekStart {
		return 0, fmt.Errorf("%w: only io.SeekStart is supported", rarerr.ErrDecryptFailed)
	}
	if r.seeker == nil {
		return 0, fmt.Errorf("%w: underlying source is not seekable", rarerr.ErrDecryptFailed)
	}
	if offset < 0 {
		return 0, fmt.Errorf("%w: negative seek offset %d", rarerr.ErrDecryptFailed, offset)
	}

	b := offset / blockSize
	intra := offset % blockSize

	var iv [blockSize]byte
	if b == 0 {
		iv = r.origIV
		if _, err := r.seeker.Seek(0, io.SeekStart); err != nil {
			return 0, fmt.Errorf("%w: %v", rarerr.ErrDecryptFailed, err)
		}
	} else {
		if _, err := r.seeker.Seek((b-1)*blockSize, io.SeekStart); err != nil {
			return 0, fmt.Errorf("%w: %v", rarerr.ErrDecryptFailed, err)
		}
		if _, err := io.ReadFull(r.seeker, iv[:]); err != nil {
			return 0, fmt.Errorf("%w: reading IV block: %v", rarerr.ErrDecryptFailed, err)
		}
	}

	cb, err := aes.NewCipher(r.key)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", rarerr.ErrDecryptFailed, err)
	}
	r.cbc = cipher.NewCBCDecrypter(cb, iv[:])
	r.residue = nil
	r.eof = false

	if b != 0 {
		if _, err := r.seeker.Seek(b*blockSize, io.SeekStart); err != nil {
			return 0, fmt.Errorf("%w: %v", rarerr.ErrDecryptFailed, err)
		}
	}

	if intra > 0 {
		discard := make([]byte, intra)
		if _, err := io.ReadFull(r, discard); err != nil {
			return 0, fmt.Errorf("%w: discarding intra-block offset: %v", rarerr.ErrDecryptFailed, err)
		}
	}

	return offset, nil
}
