// Package volume reassembles a file member's data area across the sequence
// of RAR5 volumes it spans, presenting the concatenation as a single
// io.Reader. Chain holds at most one continuation volume open at a time and
// opens the next one lazily, only once the current one's data area is
// exhausted; the first volume's handle belongs to the caller and stays open.
package volume

import (
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/javi11/rarextract/internal/block"
	"github.com/javi11/rarextract/internal/rarerr"
	"github.com/javi11/rarextract/internal/streamio"
)

// Logger is the logging surface Chain logs continuation-volume scans to,
// matching the root package's own Logger shape so callers can pass their
// injected logger straight through.
type Logger interface {
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	WithFields(fields logrus.Fields) *logrus.Entry
}

var defaultLogger Logger = logrus.StandardLogger()

// trailingNumberRe captures the decimal run immediately preceding the
// ".rar" suffix, case-insensitive, along with everything before it.
var trailingNumberRe = regexp.MustCompile(`(?i)^(.*?)(\d+)(\.rar)$`)

// NextPath computes the successor volume's physical path by incrementing the
// trailing decimal number immediately before ".rar", preserving its
// zero-padded width. It fails with rarerr.ErrVolumeNameMalformed if path does
// not end in a digit run followed by ".rar".
func NextPath(path string) (string, error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	m := trailingNumberRe.FindStringSubmatch(base)
	if m == nil {
		return "", fmt.Errorf("%w: %q has no trailing volume number", rarerr.ErrVolumeNameMalformed, base)
	}
	prefix, numStr, suffix := m[1], m[2], m[3]

	n, err := strconv.ParseUint(numStr, 10, 64)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", rarerr.ErrVolumeNameMalformed, base, err)
	}
	next := strconv.FormatUint(n+1, 10)
	for len(next) < len(numStr) {
		next = "0" + next
	}

	return filepath.Join(dir, prefix+next+suffix), nil
}

// Chain is a lazily-opening logical concatenation of a member's data area
// across one or more volumes.
type Chain struct {
	fs     afero.Fs
	logger Logger

	cur   io.Reader
	curC  io.Closer
	left  int64
	cont  bool
	path  string
	name  []byte
	nextN uint64
}

// New wraps the current volume's already-positioned data-area reader (owned
// by the caller; Chain does not close it) as the head of the chain. A nil
// logger falls back to logrus.StandardLogger().
func New(fs afero.Fs, path string, r io.Reader, dataAreaSize uint64, continuesToNext bool, memberName []byte, logger Logger) *Chain {
	if logger == nil {
		logger = defaultLogger
	}
	return &Chain{
		fs:     fs,
		logger: logger,
		cur:    r,
		left:   int64(dataAreaSize),
		cont:   continuesToNext,
		path:   path,
		name:   append([]byte(nil), memberName...),
		nextN:  1,
	}
}

// Read implements io.Reader, transparently crossing volume boundaries.
func (c *Chain) Read(p []byte) (int, error) {
	for {
		if c.left > 0 {
			if int64(len(p)) > c.left {
				p = p[:c.left]
			}
			n, err := c.cur.Read(p)
			c.left -= int64(n)
			if n > 0 {
				return n, nil
			}
			if err != nil && err != io.EOF {
				return 0, err
			}
			if c.left > 0 {
				return 0, fmt.Errorf("%w: volume ended before its data area was exhausted", rarerr.ErrTruncated)
			}
		}
		if !c.cont {
			return 0, io.EOF
		}
		if err := c.advance(); err != nil {
			return 0, err
		}
	}
}

// Close releases the currently open volume handle, if Chain itself opened
// one (the first volume is owned by the caller of New).
func (c *Chain) Close() error {
	if c.curC != nil {
		err := c.curC.Close()
		c.curC = nil
		return err
	}
	return nil
}

func (c *Chain) advance() error {
	if c.curC != nil {
		_ = c.curC.Close()
		c.curC = nil
	}

	nextPath, err := NextPath(c.path)
	if err != nil {
		return err
	}

	c.logger.WithFields(logrus.Fields{
		"path":      nextPath,
		"blockType": "volume-continuation",
	}).Debug("opening continuation volume")

	f, err := c.fs.Open(nextPath)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %v", rarerr.ErrVolumeMismatch, nextPath, err)
	}

	sr := streamio.New(f)

	if _, sig, err := streamio.RunParser(sr, block.ParseSignature); err != nil {
		_ = f.Close()
		return err
	} else if sig != block.SignatureRAR5 {
		_ = f.Close()
		return fmt.Errorf("%w: %s is not a RAR5 volume", rarerr.ErrVolumeMismatch, nextPath)
	}

	ab, err := streamio.RunParser(sr, block.ParseArchiveBlock)
	if err != nil {
		_ = f.Close()
		return err
	}
	if ab.VolumeNumber != c.nextN {
		_ = f.Close()
		return fmt.Errorf("%w: %s has volume_number %d, expected %d", rarerr.ErrVolumeMismatch, nextPath, ab.VolumeNumber, c.nextN)
	}

	fb, err := streamio.RunParser(sr, block.ParseFileBlock)
	if err != nil {
		_ = f.Close()
		return err
	}
	if string(fb.Name) != string(c.name) {
		_ = f.Close()
		return fmt.Errorf("%w: %s continues member %q, expected %q", rarerr.ErrVolumeMismatch, nextPath, fb.Name, c.name)
	}
	if !fb.Header.Flags.DataContinuesFromPrev {
		_ = f.Close()
		return fmt.Errorf("%w: %s is missing data-continues-from-prev", rarerr.ErrVolumeMismatch, nextPath)
	}

	c.path = nextPath
	c.cur = sr.Unwrap()
	c.curC = f
	c.left = int64(fb.Header.DataAreaSize)
	c.cont = fb.Header.Flags.DataContinuesToNext
	c.nextN++
	return nil
}
