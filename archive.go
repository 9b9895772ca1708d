package rarextract

import (
	"time"

	"github.com/javi11/rarextract/internal/block"
)

// Method identifies the compression method a member was stored with. This
// library only ever produces MethodSave members (stored, uncompressed);
// anything else surfaces as ErrUnsupportedCompression during extraction, but
// Parse still reports it for inspection.
type Method int

const (
	MethodSave Method = iota
	MethodFastest
	MethodFast
	MethodNormal
	MethodGood
	MethodBest
	MethodUnknown
)

func methodFromBlock(m block.Method) Method {
	switch m {
	case block.MethodSave:
		return MethodSave
	case block.MethodFastest:
		return MethodFastest
	case block.MethodFast:
		return MethodFast
	case block.MethodNormal:
		return MethodNormal
	case block.MethodGood:
		return MethodGood
	case block.MethodBest:
		return MethodBest
	default:
		return MethodUnknown
	}
}

// OSTag identifies the operating system a member's creation-OS tag declares.
type OSTag int

const (
	OSWindows OSTag = iota
	OSUnix
	OSUnknown
)

func osTagFromBlock(t block.OSTag) OSTag {
	switch t {
	case block.OSWindows:
		return OSWindows
	case block.OSUnix:
		return OSUnix
	default:
		return OSUnknown
	}
}

// FileHeader describes one member recorded in an Archive.
type FileHeader struct {
	Name           string
	IsDirectory    bool
	UnpackedSize   uint64
	Attributes     uint64
	ModTime        time.Time
	HasModTime     bool
	CRC32          uint32
	HasCRC32       bool
	Method         Method
	DictionarySize uint32
	CreationOS     OSTag
	Encrypted      bool
}

// Archive is the result of parsing (and optionally extracting) a RAR5
// archive. It is built once from the root volume and holds no live I/O state
// once returned.
type Archive struct {
	Path string
	// Files lists every member encountered while scanning the root volume,
	// in on-disk order, including directory members.
	Files []FileHeader
	// QuickOpen is the reserved "QO" pseudo-member's header, if the archive
	// carried one, recorded separately rather than in Files.
	QuickOpen *FileHeader
}
