package varint_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/javi11/rarextract/internal/rarerr"
	"github.com/javi11/rarextract/internal/varint"
)

func TestDecodeScenarios(t *testing.T) {
	cases := []struct {
		name    string
		in      []byte
		want    uint64
		wantN   int
		wantErr error
	}{
		{"single byte", []byte{0x01}, 1, 1, nil},
		{"two bytes", []byte{0xFF, 0x01}, 0xFF, 2, nil},
		{"three bytes", []byte{0xFF, 0xFF, 0x00}, 0x3FFF, 3, nil},
		{"truncated", []byte{0xFF, 0xFF}, 0, 0, rarerr.ErrIncomplete},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, n, err := varint.Decode(tc.in)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
			require.Equal(t, tc.wantN, n)
		})
	}
}

func TestDecodeTooLong(t *testing.T) {
	buf := make([]byte, 11)
	for i := range buf {
		buf[i] = 0xFF
	}
	_, _, err := varint.Decode(buf)
	require.Error(t, err)
	require.True(t, errors.Is(err, rarerr.ErrParseFailed))
}

func TestRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 0x7F, 0x80, 0xFF, 0x3FFF, 1 << 20, 1<<63 - 1, 1 << 62}
	for _, v := range values {
		enc := varint.Encode(v)
		got, n, err := varint.Decode(enc)
		require.NoError(t, err)
		require.Equal(t, v, got)
		require.Equal(t, len(enc), n)
	}
}

func TestEncodeCanonicalNoTrailingZero(t *testing.T) {
	enc := varint.Encode(0)
	require.Equal(t, []byte{0x00}, enc)
}
