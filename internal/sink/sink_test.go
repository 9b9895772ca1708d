package sink

import (
	"bytes"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javi11/rarextract/internal/rarerr"
)

func TestWriterTruncatesAtCapacity(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 5)

	// io.Writer's contract requires n == len(p) whenever err == nil; Write
	// must report the full 11 bytes accepted even though only 5 reach dst.
	n, err := w.Write([]byte("hello world"))
	require.NoError(t, err)
	assert.Equal(t, 11, n)
	assert.Equal(t, "hello", buf.String())
}

func TestWriterErrorsPastCapacity(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 3)

	_, err := w.Write([]byte("abc"))
	require.NoError(t, err)

	_, err = w.Write([]byte("d"))
	assert.ErrorIs(t, err, rarerr.ErrCapacityReached)
}

func TestWriterOverflowingWriteDoesNotShortWrite(t *testing.T) {
	// Reproduces a decrypted AES-CBC plaintext chunk overrunning a member's
	// declared unpacked size by less than one block: io.CopyBuffer must
	// complete without synthesizing io.ErrShortWrite.
	var buf bytes.Buffer
	src := bytes.NewReader([]byte("0123456789")) // 10 bytes, capacity 7
	w := NewWriter(&buf, 7)

	n, err := io.CopyBuffer(w, src, make([]byte, 4))
	require.NoError(t, err)
	assert.Equal(t, int64(10), n, "CopyBuffer reports bytes read from src, including the absorbed overflow")
	assert.Equal(t, "0123456", buf.String())
}

func TestPumpExactSize(t *testing.T) {
	var buf bytes.Buffer
	src := bytes.NewReader([]byte("0123456789"))

	n, err := Pump(&buf, 10, src)
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)
	assert.Equal(t, "0123456789", buf.String())
}

func TestPumpSrcShorterThanCapacity(t *testing.T) {
	var buf bytes.Buffer
	src := bytes.NewReader([]byte("abc"))

	n, err := Pump(&buf, 100, src)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, "abc", buf.String())
}

func TestCreateFileMakesParentDirs(t *testing.T) {
	fs := afero.NewMemMapFs()

	f, err := CreateFile(fs, "/a/b/c/out.txt", 0)
	require.NoError(t, err)
	_, err = f.Write([]byte("data"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	got, err := afero.ReadFile(fs, "/a/b/c/out.txt")
	require.NoError(t, err)
	assert.Equal(t, "data", string(got))
}

func TestEnsureDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, EnsureDir(fs, "/x/y/z"))

	info, err := fs.Stat("/x/y/z")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

var _ io.Writer = (*Writer)(nil)
