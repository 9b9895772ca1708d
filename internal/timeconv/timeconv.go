// Package timeconv converts the two timestamp encodings the RAR5 format uses
// (Unix 32-bit seconds and Windows FILETIME) to time.Time.
package timeconv

import "time"

// windowsEpochDeltaSeconds is the number of seconds between the Windows
// FILETIME epoch (1601-01-01) and the Unix epoch (1970-01-01).
const windowsEpochDeltaSeconds = 11644473600

// windowsTicksPerSecond is the number of 100ns FILETIME ticks in one second.
const windowsTicksPerSecond = 10_000_000

// FromUnixSeconds converts Unix seconds to UTC time.Time.
func FromUnixSeconds(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

// FromWindowsFileTime converts a little-endian-decoded Windows FILETIME tick
// count (100ns units since 1601-01-01) to UTC time.Time.
func FromWindowsFileTime(ticks uint64) time.Time {
	sec := int64(ticks/windowsTicksPerSecond) - windowsEpochDeltaSeconds
	return time.Unix(sec, 0).UTC()
}
