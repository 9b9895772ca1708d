package block

import (
	"encoding/binary"

	"github.com/javi11/rarextract/internal/rarerr"
	"github.com/javi11/rarextract/internal/varint"
)

// OSTag is the creation-OS tag recorded in a FileBlock.
type OSTag int

const (
	OSWindows OSTag = iota
	OSUnix
	OSUnknown
)

func osTagFromVarint(v uint64) OSTag {
	switch v {
	case 0:
		return OSWindows
	case 1:
		return OSUnix
	default:
		return OSUnknown
	}
}

// FileFlags are a FileBlock's bitfield.
type FileFlags struct {
	IsDirectory bool
	HasMTime    bool
	HasCRC      bool
	UnknownSize bool
}

func fileFlagsFromVarint(v uint64) FileFlags {
	return FileFlags{
		IsDirectory: v&(1<<0) != 0,
		HasMTime:    v&(1<<1) != 0,
		HasCRC:      v&(1<<2) != 0,
		UnknownSize: v&(1<<3) != 0,
	}
}

// FileBlock is a type-2 (File) or type-3 (Service) block.
type FileBlock struct {
	Header       CommonHeader
	Flags        FileFlags
	UnpackedSize uint64
	Attributes   uint64
	MTime        uint32 // Unix seconds; zero if Flags.HasMTime is false.
	CRC32        uint32
	HasCRC32     bool
	Compression  Compression
	CreationOS   OSTag
	Name         []byte
	Extra        ExtraArea
}

// ParseFileBlock parses a CommonHeader and rejects it with
// rarerr.ErrWrongType, without consuming input, if it is not a File or
// Service block.
func ParseFileBlock(input []byte) (rest []byte, fb FileBlock, err error) {
	rest, h, err := ParseCommonHeader(input)
	if err != nil {
		return nil, FileBlock{}, err
	}
	if h.Type != TypeFile && h.Type != TypeService {
		return nil, FileBlock{}, rarerr.ErrWrongType
	}

	flagsRaw, n, err := varint.Decode(rest)
	if err != nil {
		return nil, FileBlock{}, err
	}
	rest = rest[n:]
	flags := fileFlagsFromVarint(flagsRaw)

	unpackedSize, n, err := varint.Decode(rest)
	if err != nil {
		return nil, FileBlock{}, err
	}
	rest = rest[n:]

	attrs, n, err := varint.Decode(rest)
	if err != nil {
		return nil, FileBlock{}, err
	}
	rest = rest[n:]

	fb = FileBlock{Header: h, Flags: flags, UnpackedSize: unpackedSize, Attributes: attrs}

	if flags.HasMTime {
		if len(rest) < 4 {
			return nil, FileBlock{}, rarerr.ErrIncomplete
		}
		fb.MTime = binary.BigEndian.Uint32(rest[:4])
		rest = rest[4:]
	}
	if flags.HasCRC {
		if len(rest) < 4 {
			return nil, FileBlock{}, rarerr.ErrIncomplete
		}
		fb.CRC32 = binary.BigEndian.Uint32(rest[:4])
		fb.HasCRC32 = true
		rest = rest[4:]
	}

	compRaw, n, err := varint.Decode(rest)
	if err != nil {
		return nil, FileBlock{}, err
	}
	rest = rest[n:]
	fb.Compression = parseCompression(compRaw)

	osRaw, n, err := varint.Decode(rest)
	if err != nil {
		return nil, FileBlock{}, err
	}
	rest = rest[n:]
	fb.CreationOS = osTagFromVarint(osRaw)

	nameLen, n, err := varint.Decode(rest)
	if err != nil {
		return nil, FileBlock{}, err
	}
	rest = rest[n:]
	if uint64(len(rest)) < nameLen {
		return nil, FileBlock{}, rarerr.ErrIncomplete
	}
	fb.Name = append([]byte(nil), rest[:nameLen]...)
	rest = rest[nameLen:]

	if h.Flags.ExtraArea {
		if uint64(len(rest)) < h.ExtraAreaSize {
			return nil, FileBlock{}, rarerr.ErrIncomplete
		}
		extraBytes := rest[:h.ExtraAreaSize]
		rest = rest[h.ExtraAreaSize:]
		extra, err := ParseExtraArea(extraBytes)
		if err != nil {
			return nil, FileBlock{}, err
		}
		fb.Extra = extra
	}

	return rest, fb, nil
}
