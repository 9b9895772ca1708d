// Package rarerr holds the sentinel errors shared by every internal package and
// re-exported by the root rarextract package. It exists as a separate leaf package
// so that internal parsers can return these errors without importing the root
// package (which imports them), which would create an import cycle.
package rarerr

import "errors"

var (
	// ErrIncomplete signals that a parser needs more bytes than the current
	// window holds; it never escapes to a caller of the root package.
	ErrIncomplete = errors.New("rarextract: incomplete")

	// ErrTruncated means the underlying source ended while a structure was
	// still expected.
	ErrTruncated = errors.New("rarextract: truncated")

	// ErrParseFailed means a block or sub-record did not conform to the
	// format.
	ErrParseFailed = errors.New("rarextract: parse failed")

	// ErrWrongType means a block parser was handed a block of a type it does
	// not accept. Internal; used to terminate scan loops.
	ErrWrongType = errors.New("rarextract: wrong block type")

	// ErrUnsupportedCompression means a member uses a compression method
	// other than Save/stored.
	ErrUnsupportedCompression = errors.New("rarextract: unsupported compression method")

	// ErrUnsupportedEncryptionVersion means the FileEncryption record names a
	// cipher other than AES-256.
	ErrUnsupportedEncryptionVersion = errors.New("rarextract: unsupported encryption version")

	// ErrUnsupportedRAR4 means the signature identifies a RAR4 archive.
	ErrUnsupportedRAR4 = errors.New("rarextract: RAR4 archives are not supported")

	// ErrDecryptFailed means the cipher rejected input or produced fewer
	// bytes than required at EOF.
	ErrDecryptFailed = errors.New("rarextract: decryption failed")

	// ErrVolumeNameMalformed means the current path does not follow the
	// <stem><N>.rar scheme needed to derive a successor volume name.
	ErrVolumeNameMalformed = errors.New("rarextract: volume name does not match <stem><N>.rar")

	// ErrVolumeMismatch means the next volume's signature, archive block, or
	// file block does not continue the current member.
	ErrVolumeMismatch = errors.New("rarextract: next volume does not continue current member")

	// ErrCapacityReached signals that a sink has received its declared
	// unpacked size. Recovered by the orchestrator pump loop; never surfaced.
	ErrCapacityReached = errors.New("rarextract: sink capacity reached")
)
