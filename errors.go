package rarextract

import "github.com/javi11/rarextract/internal/rarerr"

// Sentinel errors callers can match with errors.Is. They are re-exported
// from the internal error taxonomy so the public surface never imports
// internal packages directly.
var (
	ErrIncomplete                   = rarerr.ErrIncomplete
	ErrTruncated                    = rarerr.ErrTruncated
	ErrParseFailed                  = rarerr.ErrParseFailed
	ErrUnsupportedCompression       = rarerr.ErrUnsupportedCompression
	ErrUnsupportedEncryptionVersion = rarerr.ErrUnsupportedEncryptionVersion
	ErrUnsupportedRAR4              = rarerr.ErrUnsupportedRAR4
	ErrDecryptFailed                = rarerr.ErrDecryptFailed
	ErrVolumeNameMalformed          = rarerr.ErrVolumeNameMalformed
	ErrVolumeMismatch               = rarerr.ErrVolumeMismatch
)
