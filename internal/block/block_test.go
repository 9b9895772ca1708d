package block

import (
	"testing"
	"time"

	"github.com/javi11/rarextract/internal/rarerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSignature(t *testing.T) {
	rar5 := []byte{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x01, 0x00, 0xAA}
	rest, sig, err := ParseSignature(rar5)
	require.NoError(t, err)
	assert.Equal(t, SignatureRAR5, sig)
	assert.Equal(t, []byte{0xAA}, rest)

	rar4 := []byte{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x00, 0xBB}
	rest, sig, err = ParseSignature(rar4)
	require.NoError(t, err)
	assert.Equal(t, SignatureRAR4, sig)
	assert.Equal(t, []byte{0xBB}, rest)

	_, _, err = ParseSignature([]byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07})
	assert.ErrorIs(t, err, rarerr.ErrParseFailed)

	_, _, err = ParseSignature([]byte{0x52, 0x61, 0x72})
	assert.ErrorIs(t, err, rarerr.ErrIncomplete)
}

func TestParseArchiveBlock(t *testing.T) {
	input := []byte{
		0xF3, 0xE1, 0x82, 0xEB, // CRC
		0x0B,                   // header size = 11
		0x01,                   // type = MainArchive
		0x05,                   // flags: extra-area | skip-if-unknown
		0x07,                   // extra-area size = 7
		0x00,                   // archive flags = 0
		0x06, 0x01, 0x01, 0x80, 0x80, 0x80, 0x00, // 7 bytes of locator extra data
	}

	rest, ab, err := ParseArchiveBlock(input)
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.Equal(t, uint32(0xF3E182EB), ab.Header.CRC)
	assert.Equal(t, uint64(11), ab.Header.Size)
	assert.Equal(t, TypeMainArchive, ab.Header.Type)
	assert.True(t, ab.Header.Flags.ExtraArea)
	assert.True(t, ab.Header.Flags.SkipIfUnknown)
	assert.Equal(t, uint64(7), ab.Header.ExtraAreaSize)
	assert.False(t, ab.Flags.Multivolume)
	assert.False(t, ab.Flags.VolumeNumberPresent)
	assert.Equal(t, uint64(0), ab.VolumeNumber)
}

func TestParseArchiveBlockWrongType(t *testing.T) {
	input := []byte{
		0x00, 0x00, 0x00, 0x00,
		0x02, // header size
		0x05, // type = EndArchive, not MainArchive
		0x00,
	}
	_, _, err := ParseArchiveBlock(input)
	assert.ErrorIs(t, err, rarerr.ErrWrongType)
}

func TestParseFileTimeExtraRecord(t *testing.T) {
	// size=10, type=0x03 (FileTime), body: flags=0x02 (modification, Windows
	// FILETIME), followed by an 8-byte little-endian FILETIME tick count.
	body := []byte{0x02, 0x9D, 0xA1, 0xE3, 0x8C, 0xB5, 0x44, 0xD2, 0x01}
	ft, err := parseFileTime(body)
	require.NoError(t, err)
	require.NotNil(t, ft.Modification)
	assert.Nil(t, ft.Creation)
	assert.Nil(t, ft.Access)
	assert.Equal(t, time.Date(2016, 11, 22, 11, 42, 49, 0, time.UTC), *ft.Modification)
}

func TestParseExtraAreaFileTime(t *testing.T) {
	record := []byte{0x0A, 0x03, 0x02, 0x9D, 0xA1, 0xE3, 0x8C, 0xB5, 0x44, 0xD2, 0x01}
	ea, err := ParseExtraArea(record)
	require.NoError(t, err)
	require.NotNil(t, ea.FileTime)
	require.NotNil(t, ea.FileTime.Modification)
	assert.Equal(t, time.Date(2016, 11, 22, 11, 42, 49, 0, time.UTC), *ea.FileTime.Modification)
}

func TestParseExtraAreaUnknownTypeSkipped(t *testing.T) {
	record := []byte{0x03, 0x7F, 0xAB, 0xCD}
	ea, err := ParseExtraArea(record)
	require.NoError(t, err)
	assert.Nil(t, ea.FileTime)
	assert.Nil(t, ea.FileEncryption)
}

func TestParseFileEncryptionRecord(t *testing.T) {
	input := []byte{0x00, 0x00, 0x0F}
	input = append(input, make([]byte, 16)...) // salt
	input = append(input, make([]byte, 16)...) // iv
	fe, err := parseFileEncryption(input)
	require.NoError(t, err)
	assert.Equal(t, EncryptionAES256, fe.Version)
	assert.Equal(t, uint8(0x0F), fe.KDFCountExponent)
	assert.False(t, fe.Flags.PasswordCheckPresent)
	assert.False(t, fe.HasPasswordCheck)
}

func TestParseFileBlockDirectory(t *testing.T) {
	name := []byte("dir")
	body := []byte{
		0x02,            // type = File
		0x00,            // flags = 0 (no extra/data area)
		0x01,            // file flags = IsDirectory
		0x00,            // unpacked size = 0
		0x00,            // attributes = 0
		0x00,            // compression descriptor = 0 (Save)
		0x01,            // creation OS = Unix
		byte(len(name)), // name length
	}
	body = append(body, name...)
	// Size only needs to cover the type and flags fields (ParseCommonHeader
	// rejects anything shorter); ParseFileBlock itself walks the body
	// field-by-field.
	input := []byte{0x00, 0x00, 0x00, 0x00, byte(len(body) - 1)}
	input = append(input, body...)

	fb, rest, err := parseFileBlockForTest(t, input)
	_ = rest
	require.NoError(t, err)
	assert.True(t, fb.Flags.IsDirectory)
	assert.Equal(t, OSUnix, fb.CreationOS)
	assert.Equal(t, "dir", string(fb.Name))
	assert.Equal(t, MethodSave, fb.Compression.Method)
}

// parseFileBlockForTest tolerates the fact that CommonHeader.Size is a
// declared, not necessarily byte-exact, framing value in this hand-built
// fixture; it only exercises ParseFileBlock's field decoding.
func parseFileBlockForTest(t *testing.T, input []byte) (FileBlock, []byte, error) {
	t.Helper()
	rest, fb, err := ParseFileBlock(input)
	return fb, rest, err
}

func TestParseEndBlockLastVolumeInverted(t *testing.T) {
	input := []byte{
		0x00, 0x00, 0x00, 0x00, // CRC
		0x03, // header size: type + flags + payload
		0x05, // type = EndArchive
		0x00, // flags = 0
		0x00, // payload varint: bit0 clear -> LastVolume = true
	}
	rest, eb, err := ParseEndBlock(input)
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.True(t, eb.LastVolume)

	input[len(input)-1] = 0x01 // bit0 set -> LastVolume = false
	_, eb, err = ParseEndBlock(input)
	require.NoError(t, err)
	assert.False(t, eb.LastVolume)
}

func TestParseEndBlockWrongType(t *testing.T) {
	input := []byte{
		0x00, 0x00, 0x00, 0x00,
		0x03, // header size: type + flags + payload
		0x01, // type = MainArchive, not EndArchive
		0x00,
		0x00,
	}
	_, _, err := ParseEndBlock(input)
	assert.ErrorIs(t, err, rarerr.ErrWrongType)
}

func TestCompressionDescriptor(t *testing.T) {
	// exponent=3, method=Normal(3), solid=1, version=1
	raw := uint64(3) | uint64(3)<<4 | uint64(1)<<8 | uint64(1)<<9
	c := parseCompression(raw)
	assert.Equal(t, uint8(3), c.DictionaryExponent)
	assert.Equal(t, MethodNormal, c.Method)
	assert.True(t, c.Solid)
	assert.Equal(t, uint16(1), c.FormatVersion)
	assert.Equal(t, uint32(128<<3), c.DictionarySize())
}
