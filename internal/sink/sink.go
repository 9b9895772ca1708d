// Package sink writes a member's decrypted plaintext to its destination file,
// bounding total output at the member's declared unpacked size.
package sink

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/javi11/rarextract/internal/rarerr"
)

const fileCreateFlags = os.O_CREATE | os.O_TRUNC | os.O_WRONLY

// Writer bounds writes to a declared capacity, discarding the portion of a
// write past the boundary and failing with rarerr.ErrCapacityReached on any
// subsequent non-empty write once the capacity is already exhausted (rather
// than silently accepting a zero-byte write past the end, as the format's
// own framing would imply).
//
// A write that straddles the boundary still reports (len(p), nil): Write
// absorbs the discarded tail itself rather than reporting it unwritten, so
// io.Copy/io.CopyBuffer never sees nr > nw and synthesizes io.ErrShortWrite
// out from under the capacity bound. A cipher block's decrypted plaintext
// routinely overruns a member's declared unpacked size by up to one AES
// block, and that overrun must be absorbed silently, not surfaced as a copy
// error.
type Writer struct {
	dst       io.Writer
	remaining int64
}

// NewWriter wraps dst, capping total bytes accepted at capacity.
func NewWriter(dst io.Writer, capacity uint64) *Writer {
	return &Writer{dst: dst, remaining: int64(capacity)}
}

// Write implements io.Writer with the capacity bound described above.
func (w *Writer) Write(p []byte) (int, error) {
	if w.remaining <= 0 {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, rarerr.ErrCapacityReached
	}
	toWrite := p
	if int64(len(toWrite)) > w.remaining {
		toWrite = toWrite[:w.remaining]
	}
	n, err := w.dst.Write(toWrite)
	w.remaining -= int64(n)
	if err != nil {
		return n, err
	}
	return len(p), nil
}

// CreateFile opens (creating parent directories as needed) the destination
// path on fs for a regular file member, truncating any existing content.
func CreateFile(fs afero.Fs, path string, mode uint32) (afero.File, error) {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating parent directory %s: %w", dir, err)
	}
	f, err := fs.OpenFile(path, fileCreateFlags, fileMode(mode))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return f, nil
}

// EnsureDir creates a directory member's path, including its parents.
func EnsureDir(fs afero.Fs, path string) error {
	return fs.MkdirAll(path, 0o755)
}

// fileMode reduces the archive's raw attributes field to a usable Unix
// permission mode, defaulting to 0644 when the stored attributes carry no
// meaningful Unix mode bits (e.g. Windows attribute values).
func fileMode(attrs uint32) fs.FileMode {
	const unixModeMask = 0o7777
	if m := attrs & unixModeMask; m != 0 {
		return fs.FileMode(m)
	}
	return 0o644
}

// Pump copies src into a capacity-bounded Writer wrapping dst, until src is
// exhausted or the capacity is reached.
func Pump(dst io.Writer, capacity uint64, src io.Reader) (int64, error) {
	w := NewWriter(dst, capacity)
	return io.Copy(w, src)
}
