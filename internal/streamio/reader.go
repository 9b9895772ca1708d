// Package streamio presents a peek/consume window over a byte source with a
// forward-seek and a generic parser-driving helper, per the buffered stream
// reader component of the RAR5 parser.
package streamio

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/javi11/rarextract/internal/rarerr"
)

const defaultChunk = 8192

// Parser is a pure function over the current peek window: it returns the
// unconsumed remainder, the decoded value, and an error. Returning
// rarerr.ErrIncomplete asks Reader.RunParser to refill and retry.
type Parser[T any] func(window []byte) (rest []byte, value T, err error)

// Reader wraps an io.Reader with a peek/consume/forward-seek contract.
type Reader struct {
	src   io.Reader
	buf   []byte
	chunk int
	pos   int64 // logical stream offset of everything consumed so far
}

// New wraps src with the default refill chunk size.
func New(src io.Reader) *Reader {
	return &Reader{src: src, chunk: defaultChunk}
}

// Peek returns the currently buffered prefix. The returned slice is only
// valid until the next Consume/fill call.
func (r *Reader) Peek() []byte {
	return r.buf
}

// Consume advances the logical position by n bytes from the front of the
// current window. n must not exceed len(r.Peek()).
func (r *Reader) Consume(n int) {
	if n < 0 || n > len(r.buf) {
		panic("streamio: consume out of range")
	}
	r.buf = r.buf[n:]
	r.pos += int64(n)
}

// Offset reports the logical stream position of everything consumed so far,
// for use in scan-progress logging.
func (r *Reader) Offset() int64 {
	return r.pos
}

// fill reads one more chunk from src into buf, returning the number of bytes
// added. A non-nil error is only io.EOF or a genuine read failure.
func (r *Reader) fill() (int, error) {
	tmp := make([]byte, r.chunk)
	n, err := r.src.Read(tmp)
	if n > 0 {
		r.buf = append(r.buf, tmp[:n]...)
	}
	return n, err
}

// ForwardSeek advances the logical position by n bytes, reading and
// discarding as necessary. It fails with rarerr.ErrTruncated if the source
// ends before n bytes have been consumed.
func (r *Reader) ForwardSeek(n int64) error {
	if n < 0 {
		panic("streamio: negative forward seek")
	}
	if int64(len(r.buf)) >= n {
		r.Consume(int(n))
		return nil
	}
	skipped := int64(len(r.buf))
	n -= skipped
	r.buf = nil
	if _, err := io.CopyN(io.Discard, r.src, n); err != nil {
		r.pos += skipped
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return rarerr.ErrTruncated
		}
		return err
	}
	r.pos += skipped + n
	return nil
}

// Unwrap returns an io.Reader over everything not yet consumed: the buffered
// prefix followed by the underlying source. After the last header has been
// parsed with RunParser, this is the block's data area. r must not be used
// again afterwards; ownership of the remaining bytes passes to the returned
// reader.
func (r *Reader) Unwrap() io.Reader {
	return io.MultiReader(bytes.NewReader(r.buf), r.src)
}

// BoundedReader returns an io.Reader over exactly the next n bytes of the
// stream. Unlike Unwrap, r remains usable afterwards: bytes are drained from
// the buffered window and refilled from src as any other read would, so
// parsing can resume on r once the bounded reader has been read to EOF.
func (r *Reader) BoundedReader(n int64) io.Reader {
	return &boundedReader{r: r, left: n}
}

type boundedReader struct {
	r    *Reader
	left int64
}

func (b *boundedReader) Read(p []byte) (int, error) {
	if b.left <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > b.left {
		p = p[:b.left]
	}
	if len(b.r.buf) == 0 {
		n, err := b.r.fill()
		if n == 0 {
			if err != nil && !errors.Is(err, io.EOF) {
				return 0, err
			}
			return 0, io.EOF
		}
	}
	n := copy(p, b.r.buf)
	b.r.Consume(n)
	b.left -= int64(n)
	return n, nil
}

// RunParser executes p against the current window, refilling on
// rarerr.ErrIncomplete and surfacing rarerr.ErrTruncated if the source is
// exhausted, or a wrapped rarerr.ErrParseFailed for any other parser error.
// rarerr.ErrWrongType from p passes through unwrapped so callers can
// distinguish it with errors.Is.
func RunParser[T any](r *Reader, p Parser[T]) (T, error) {
	for {
		rest, val, err := p(r.Peek())
		switch {
		case err == nil:
			consumed := len(r.Peek()) - len(rest)
			r.Consume(consumed)
			return val, nil
		case errors.Is(err, rarerr.ErrIncomplete):
			n, ferr := r.fill()
			if n == 0 {
				var zero T
				if ferr != nil && !errors.Is(ferr, io.EOF) {
					return zero, ferr
				}
				return zero, rarerr.ErrTruncated
			}
		case errors.Is(err, rarerr.ErrWrongType):
			var zero T
			return zero, err
		default:
			var zero T
			return zero, fmt.Errorf("%w: %v", rarerr.ErrParseFailed, err)
		}
	}
}
