package block

import (
	"github.com/javi11/rarextract/internal/rarerr"
	"github.com/javi11/rarextract/internal/varint"
)

// EndBlock is the type-5 (EndArchive) block.
type EndBlock struct {
	Header CommonHeader
	// LastVolume is true when bit 0 of the block's VarInt payload is unset
	// (the flag is inverted relative to the raw bit, per the format).
	LastVolume bool
}

// ParseEndBlock parses a CommonHeader and rejects it with
// rarerr.ErrWrongType, without consuming input, if it is not an EndArchive
// block.
func ParseEndBlock(input []byte) (rest []byte, eb EndBlock, err error) {
	rest, h, err := ParseCommonHeader(input)
	if err != nil {
		return nil, EndBlock{}, err
	}
	if h.Type != TypeEndArchive {
		return nil, EndBlock{}, rarerr.ErrWrongType
	}

	v, n, err := varint.Decode(rest)
	if err != nil {
		return nil, EndBlock{}, err
	}
	rest = rest[n:]

	eb = EndBlock{Header: h, LastVolume: v&1 == 0}

	if h.Flags.ExtraArea {
		if uint64(len(rest)) < h.ExtraAreaSize {
			return nil, EndBlock{}, rarerr.ErrIncomplete
		}
		rest = rest[h.ExtraAreaSize:]
	}

	return rest, eb, nil
}
