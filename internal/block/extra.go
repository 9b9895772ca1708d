package block

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/javi11/rarextract/internal/rarerr"
	"github.com/javi11/rarextract/internal/timeconv"
	"github.com/javi11/rarextract/internal/varint"
)

const (
	extraTypeFileEncryption = 0x01
	extraTypeFileTime       = 0x03
)

// ExtraArea aggregates the sub-records this library understands from a
// FileBlock's extra area. Unknown sub-record types are silently skipped.
type ExtraArea struct {
	FileTime       *FileTime
	FileEncryption *FileEncryption
}

// ParseExtraArea iterates the size-prefixed typed records packed into a
// bounded extra-area byte slice (already isolated by the caller using the
// common header's extra-area-size field).
func ParseExtraArea(input []byte) (ExtraArea, error) {
	var ea ExtraArea
	rest := input
	for len(rest) > 0 {
		size, n, err := varint.Decode(rest)
		if err != nil {
			return ExtraArea{}, fmt.Errorf("%w: extra-area record size: %v", rarerr.ErrParseFailed, err)
		}
		rest = rest[n:]

		recType, n, err := varint.Decode(rest)
		if err != nil {
			return ExtraArea{}, fmt.Errorf("%w: extra-area record type: %v", rarerr.ErrParseFailed, err)
		}
		rest = rest[n:]

		if size == 0 {
			return ExtraArea{}, fmt.Errorf("%w: extra-area record with zero size", rarerr.ErrParseFailed)
		}
		bodyLen := size - 1
		if uint64(len(rest)) < bodyLen {
			return ExtraArea{}, fmt.Errorf("%w: extra-area record body truncated", rarerr.ErrParseFailed)
		}
		body := rest[:bodyLen]
		rest = rest[bodyLen:]

		switch recType {
		case extraTypeFileEncryption:
			if fe, ferr := parseFileEncryption(body); ferr == nil {
				ea.FileEncryption = &fe
			}
		case extraTypeFileTime:
			if ft, ferr := parseFileTime(body); ferr == nil {
				ea.FileTime = &ft
			}
		default:
			// Unknown sub-record type; skip.
		}
	}
	return ea, nil
}

// FileEncryptionVersion names the cipher a FileEncryption record declares.
type FileEncryptionVersion int

const (
	EncryptionAES256 FileEncryptionVersion = iota
	EncryptionUnknown
)

func encryptionVersionFromVarint(v uint64) FileEncryptionVersion {
	if v == 0 {
		return EncryptionAES256
	}
	return EncryptionUnknown
}

// FileEncryptionFlags are a FileEncryption record's bitfield.
type FileEncryptionFlags struct {
	PasswordCheckPresent bool
	TweakedCRC           bool
}

// FileEncryption is the 0x01 extra-area sub-record.
type FileEncryption struct {
	Version          FileEncryptionVersion
	Flags            FileEncryptionFlags
	KDFCountExponent uint8
	Salt             [16]byte
	IV               [16]byte
	PasswordCheck    [12]byte
	HasPasswordCheck bool
}

func parseFileEncryption(input []byte) (FileEncryption, error) {
	version, n, err := varint.Decode(input)
	if err != nil {
		return FileEncryption{}, err
	}
	input = input[n:]

	flagsRaw, n, err := varint.Decode(input)
	if err != nil {
		return FileEncryption{}, err
	}
	input = input[n:]

	if len(input) < 1+16+16 {
		return FileEncryption{}, fmt.Errorf("%w: file-encryption record truncated", rarerr.ErrParseFailed)
	}
	fe := FileEncryption{
		Version: encryptionVersionFromVarint(version),
		Flags: FileEncryptionFlags{
			PasswordCheckPresent: flagsRaw&(1<<0) != 0,
			TweakedCRC:           flagsRaw&(1<<1) != 0,
		},
		KDFCountExponent: input[0],
	}
	input = input[1:]
	copy(fe.Salt[:], input[:16])
	input = input[16:]
	copy(fe.IV[:], input[:16])
	input = input[16:]

	if fe.Flags.PasswordCheckPresent {
		if len(input) < 12 {
			return FileEncryption{}, fmt.Errorf("%w: password-check material truncated", rarerr.ErrParseFailed)
		}
		copy(fe.PasswordCheck[:], input[:12])
		fe.HasPasswordCheck = true
	}
	return fe, nil
}

// FileTime is the 0x03 extra-area sub-record.
type FileTime struct {
	Modification *time.Time
	Creation     *time.Time
	Access       *time.Time
}

func parseFileTime(input []byte) (FileTime, error) {
	flagsRaw, n, err := varint.Decode(input)
	if err != nil {
		return FileTime{}, err
	}
	input = input[n:]

	unixTime := flagsRaw&(1<<0) != 0
	var ft FileTime

	readIfPresent := func(present bool, dst **time.Time) bool {
		if !present {
			return true
		}
		t, remaining, ok := readTimestamp(input, unixTime)
		if !ok {
			// Missing or invalid timestamps yield an absent attribute rather
			// than a parse failure; stop reading further fields since we no
			// longer know where they would start.
			return false
		}
		*dst = t
		input = remaining
		return true
	}

	if !readIfPresent(flagsRaw&(1<<1) != 0, &ft.Modification) {
		return ft, nil
	}
	if !readIfPresent(flagsRaw&(1<<2) != 0, &ft.Creation) {
		return ft, nil
	}
	readIfPresent(flagsRaw&(1<<3) != 0, &ft.Access)

	return ft, nil
}

func readTimestamp(input []byte, unixTime bool) (*time.Time, []byte, bool) {
	if unixTime {
		if len(input) < 4 {
			return nil, input, false
		}
		sec := binary.LittleEndian.Uint32(input[:4])
		t := timeconv.FromUnixSeconds(int64(sec))
		return &t, input[4:], true
	}
	if len(input) < 8 {
		return nil, input, false
	}
	ticks := binary.LittleEndian.Uint64(input[:8])
	t := timeconv.FromWindowsFileTime(ticks)
	return &t, input[8:], true
}
