package aesreader

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javi11/rarextract/internal/block"
)

func encryptFixture(t *testing.T, plaintext []byte, passphrase string, fe block.FileEncryption) []byte {
	t.Helper()
	key := DeriveKey(passphrase, fe.Salt, fe.KDFCountExponent)
	cb, err := aes.NewCipher(key)
	require.NoError(t, err)
	require.Zero(t, len(plaintext)%aes.BlockSize, "fixture plaintext must be block-aligned")

	enc := cipher.NewCBCEncrypter(cb, fe.IV[:])
	ciphertext := make([]byte, len(plaintext))
	enc.CryptBlocks(ciphertext, plaintext)
	return ciphertext
}

func testEncryption() block.FileEncryption {
	var fe block.FileEncryption
	fe.Version = block.EncryptionAES256
	fe.KDFCountExponent = 4 // small exponent; this is a test, not production KDF cost
	for i := range fe.Salt {
		fe.Salt[i] = byte(i)
	}
	for i := range fe.IV {
		fe.IV[i] = byte(0x10 + i)
	}
	return fe
}

func TestReaderDecryptsFullStream(t *testing.T) {
	fe := testEncryption()
	plaintext := bytes.Repeat([]byte("0123456789ABCDEF"), 4) // 64 bytes, 4 blocks
	ciphertext := encryptFixture(t, plaintext, "test", fe)

	r, err := NewReader(bytes.NewReader(ciphertext), "test", fe)
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestReaderSeekZeroMatchesFreshRead(t *testing.T) {
	fe := testEncryption()
	plaintext := bytes.Repeat([]byte("0123456789ABCDEF"), 4)
	ciphertext := encryptFixture(t, plaintext, "test", fe)

	fresh, err := NewReader(bytes.NewReader(ciphertext), "test", fe)
	require.NoError(t, err)
	wantAll, err := io.ReadAll(fresh)
	require.NoError(t, err)

	seekable, err := NewReader(bytes.NewReader(ciphertext), "test", fe)
	require.NoError(t, err)
	_, err = seekable.Seek(0, io.SeekStart)
	require.NoError(t, err)
	gotAll, err := io.ReadAll(seekable)
	require.NoError(t, err)

	assert.Equal(t, wantAll, gotAll)
}

func TestReaderSeekMidBlockBoundary(t *testing.T) {
	fe := testEncryption()
	plaintext := bytes.Repeat([]byte("0123456789ABCDEF"), 4) // 4 blocks of 16
	ciphertext := encryptFixture(t, plaintext, "test", fe)

	r, err := NewReader(bytes.NewReader(ciphertext), "test", fe)
	require.NoError(t, err)

	// Seek into the third block (offset 32) plus 5 bytes in.
	const target = 32 + 5
	_, err = r.Seek(target, io.SeekStart)
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, plaintext[target:], got)
}

func TestReaderSeekRequiresSeekableSource(t *testing.T) {
	fe := testEncryption()
	plaintext := bytes.Repeat([]byte("0123456789ABCDEF"), 2)
	ciphertext := encryptFixture(t, plaintext, "test", fe)

	r, err := NewReader(struct{ io.Reader }{bytes.NewReader(ciphertext)}, "test", fe)
	require.NoError(t, err)

	_, err = r.Seek(0, io.SeekStart)
	assert.Error(t, err)
}
