// Package block implements the RAR5 block-level parsers: the common framing
// header shared by every block, and the typed bodies (archive, file, end) plus
// their extra-area sub-records.
//
// Every parser here is a pure function over a byte slice, consuming exactly as
// much as it decodes and returning the remainder, per the buffered stream
// reader's run_parser contract (internal/streamio). None of them perform I/O.
package block

import (
	"encoding/binary"
	"fmt"

	"github.com/javi11/rarextract/internal/rarerr"
	"github.com/javi11/rarextract/internal/varint"
)

// Type identifies a block's kind, per the common header's type field.
type Type uint8

const (
	TypeUnknown Type = iota
	TypeMainArchive
	TypeFile
	TypeService
	TypeEncryption
	TypeEndArchive
)

func typeFromVarint(v uint64) Type {
	switch v {
	case 1:
		return TypeMainArchive
	case 2:
		return TypeFile
	case 3:
		return TypeService
	case 4:
		return TypeEncryption
	case 5:
		return TypeEndArchive
	default:
		return TypeUnknown
	}
}

// HeaderFlags are the common header's bitfield, decoded once at parse time.
type HeaderFlags struct {
	ExtraArea              bool
	DataArea               bool
	SkipIfUnknown          bool
	DataContinuesFromPrev  bool
	DataContinuesToNext    bool
	DependsOnPreceding     bool
	PreserveOnModify       bool
}

func headerFlagsFromVarint(v uint64) HeaderFlags {
	return HeaderFlags{
		ExtraArea:             v&(1<<0) != 0,
		DataArea:              v&(1<<1) != 0,
		SkipIfUnknown:         v&(1<<2) != 0,
		DataContinuesFromPrev: v&(1<<3) != 0,
		DataContinuesToNext:   v&(1<<4) != 0,
		DependsOnPreceding:    v&(1<<5) != 0,
		PreserveOnModify:      v&(1<<6) != 0,
	}
}

// CommonHeader is the framing header that precedes every block.
type CommonHeader struct {
	CRC           uint32
	Size          uint64
	Type          Type
	RawType       uint64
	Flags         HeaderFlags
	ExtraAreaSize uint64
	DataAreaSize  uint64

	// BodyRemaining is the number of header-proper bytes (of the Size field's
	// count) that remain after Type/Flags/ExtraAreaSize/DataAreaSize have been
	// read. Size also counts the extra area, so a generic, type-agnostic skip
	// of an unrecognized block consumes exactly BodyRemaining + DataAreaSize
	// more bytes.
	BodyRemaining int64
}

// ParseCommonHeader decodes the CRC, header size, type, flags, and the
// optional extra-area/data-area size fields. It does not consume the header
// body, the extra area, or the data area themselves.
func ParseCommonHeader(input []byte) (rest []byte, h CommonHeader, err error) {
	if len(input) < 4 {
		return nil, CommonHeader{}, rarerr.ErrIncomplete
	}
	crc := binary.BigEndian.Uint32(input[:4])
	cur := input[4:]

	size, n, err := varint.Decode(cur)
	if err != nil {
		return nil, CommonHeader{}, err
	}
	cur = cur[n:]
	sizeFieldEnd := len(cur) // bytes remaining right after the size field

	typ, n, err := varint.Decode(cur)
	if err != nil {
		return nil, CommonHeader{}, err
	}
	cur = cur[n:]

	flagsRaw, n, err := varint.Decode(cur)
	if err != nil {
		return nil, CommonHeader{}, err
	}
	cur = cur[n:]

	h = CommonHeader{
		CRC:     crc,
		Size:    size,
		RawType: typ,
		Type:    typeFromVarint(typ),
		Flags:   headerFlagsFromVarint(flagsRaw),
	}

	if h.Flags.ExtraArea {
		v, n, err := varint.Decode(cur)
		if err != nil {
			return nil, CommonHeader{}, err
		}
		cur = cur[n:]
		h.ExtraAreaSize = v
	}
	if h.Flags.DataArea {
		v, n, err := varint.Decode(cur)
		if err != nil {
			return nil, CommonHeader{}, err
		}
		cur = cur[n:]
		h.DataAreaSize = v
	}

	consumedAfterSize := int64(sizeFieldEnd - len(cur))
	h.BodyRemaining = int64(h.Size) - consumedAfterSize
	if h.BodyRemaining < 0 {
		return nil, CommonHeader{}, fmt.Errorf("%w: header size %d shorter than its own fields", rarerr.ErrParseFailed, h.Size)
	}

	return cur, h, nil
}
