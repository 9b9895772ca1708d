package block

import (
	"github.com/javi11/rarextract/internal/rarerr"
	"github.com/javi11/rarextract/internal/varint"
)

// ArchiveFlags are the MainArchive block's bitfield.
type ArchiveFlags struct {
	Multivolume         bool
	VolumeNumberPresent bool
	Solid               bool
	Recovery            bool
	Locked              bool
}

func archiveFlagsFromVarint(v uint64) ArchiveFlags {
	return ArchiveFlags{
		Multivolume:         v&(1<<0) != 0,
		VolumeNumberPresent: v&(1<<1) != 0,
		Solid:               v&(1<<2) != 0,
		Recovery:            v&(1<<3) != 0,
		Locked:              v&(1<<4) != 0,
	}
}

// ArchiveBlock is the type-1 MainArchive block.
type ArchiveBlock struct {
	Header       CommonHeader
	Flags        ArchiveFlags
	VolumeNumber uint64
}

// ParseArchiveBlock parses a CommonHeader and rejects it with
// rarerr.ErrWrongType, without consuming input, if it is not a MainArchive
// block.
func ParseArchiveBlock(input []byte) (rest []byte, ab ArchiveBlock, err error) {
	rest, h, err := ParseCommonHeader(input)
	if err != nil {
		return nil, ArchiveBlock{}, err
	}
	if h.Type != TypeMainArchive {
		return nil, ArchiveBlock{}, rarerr.ErrWrongType
	}

	flagsRaw, n, err := varint.Decode(rest)
	if err != nil {
		return nil, ArchiveBlock{}, err
	}
	rest = rest[n:]
	ab = ArchiveBlock{Header: h, Flags: archiveFlagsFromVarint(flagsRaw)}

	if ab.Flags.VolumeNumberPresent {
		vn, n, err := varint.Decode(rest)
		if err != nil {
			return nil, ArchiveBlock{}, err
		}
		rest = rest[n:]
		ab.VolumeNumber = vn
	}

	if h.Flags.ExtraArea {
		if uint64(len(rest)) < h.ExtraAreaSize {
			return nil, ArchiveBlock{}, rarerr.ErrIncomplete
		}
		// Archive-level extra area carries locator data this library does
		// not need to interpret; skip it.
		rest = rest[h.ExtraAreaSize:]
	}

	return rest, ab, nil
}
