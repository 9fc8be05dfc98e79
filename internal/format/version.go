// internal/format/version.go
package format

import (
	"fmt"
	"io"
	"time"
)

// Version is the archive format version written by pg_dump
type Version struct {
	Major, Minor, Patch uint8
}

// Format versions that changed the layout of a field group
var (
	Version1_10 = Version{1, 10, 0} // database name and version strings always present
	Version1_11 = Version{1, 11, 0} // TOC entries carry an explicit section
	Version1_14 = Version{1, 14, 0} // TOC entries carry the table access method
	Version1_15 = Version{1, 15, 0} // compression stored as a single algorithm byte
)

// Supported version window, inclusive on both ends
var (
	minSupportedVersion = Version{1, 10, 0}
	maxSupportedVersion = Version{1, 15, 0}
)

// SupportedVersions returns the oldest and newest versions ReadHeader accepts
func SupportedVersions() (oldest, newest Version) {
	return minSupportedVersion, maxSupportedVersion
}

// Compare returns -1, 0 or +1 comparing v to o lexicographically
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		return cmpUint8(v.Major, o.Major)
	case v.Minor != o.Minor:
		return cmpUint8(v.Minor, o.Minor)
	default:
		return cmpUint8(v.Patch, o.Patch)
	}
}

func cmpUint8(a, b uint8) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Less reports whether v sorts before o
func (v Version) Less(o Version) bool {
	return v.Compare(o) < 0
}

// AtLeast reports whether v is o or newer
func (v Version) AtLeast(o Version) bool {
	return v.Compare(o) >= 0
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// SupportedVersion reports whether v is inside the supported window
func SupportedVersion(v Version) bool {
	return v.AtLeast(minSupportedVersion) && !maxSupportedVersion.Less(v)
}

// Compression identifies the algorithm used for every data block of an archive
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionLZ4
	CompressionZSTD
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// CompressionMethod is the archive-wide compression. Level is informational
// and only set for gzip.
type CompressionMethod struct {
	Algorithm Compression
	Level     int64
}

func (m CompressionMethod) String() string {
	if m.Algorithm == CompressionGzip {
		return fmt.Sprintf("gzip(%d)", m.Level)
	}
	return m.Algorithm.String()
}

// decodeCompression reads the compression field in the layout used by v
func decodeCompression(cfg Config, r io.Reader, v Version) (CompressionMethod, error) {
	if v.AtLeast(Version1_15) {
		return readCompressionByte(cfg, r)
	}
	return readCompressionLevel(cfg, r)
}

// readCompressionByte decodes the single algorithm byte used since 1.15
func readCompressionByte(cfg Config, r io.Reader) (CompressionMethod, error) {
	b, err := cfg.ReadUint8(r)
	if err != nil {
		return CompressionMethod{}, err
	}
	switch Compression(b) {
	case CompressionNone, CompressionGzip, CompressionLZ4, CompressionZSTD:
		return CompressionMethod{Algorithm: Compression(b)}, nil
	default:
		return CompressionMethod{}, fmt.Errorf("%w: %d", ErrInvalidCompressionMethod, b)
	}
}

// readCompressionLevel decodes the zlib level integer used before 1.15.
// Zero means uncompressed; any other value, including the -1 default level
// sentinel, is gzip at that level.
func readCompressionLevel(cfg Config, r io.Reader) (CompressionMethod, error) {
	level, err := cfg.ReadInt(r)
	if err != nil {
		return CompressionMethod{}, err
	}
	if level == 0 {
		return CompressionMethod{Algorithm: CompressionNone}, nil
	}
	return CompressionMethod{Algorithm: CompressionGzip, Level: level}, nil
}

// decodeTimestamp reads the seven struct tm fields pg_dump writes for the
// archive creation time: sec, min, hour, mday, mon, year-1900, isdst.
//
// The month is 0-indexed (0 = January) as in struct tm. The daylight saving
// flag is read and discarded. The result is a wall-clock time in UTC since
// the archive does not record a zone.
func decodeTimestamp(cfg Config, r io.Reader) (time.Time, error) {
	var fields [7]int64
	for i := range fields {
		v, err := cfg.ReadInt(r)
		if err != nil {
			return time.Time{}, err
		}
		fields[i] = v
	}
	sec, minute, hour, mday, mon, year := fields[0], fields[1], fields[2], fields[3], fields[4], fields[5]+1900

	if sec < 0 || sec > 59 || minute < 0 || minute > 59 || hour < 0 || hour > 23 {
		return time.Time{}, fmt.Errorf("%w: time %02d:%02d:%02d", ErrInvalidTimestamp, hour, minute, sec)
	}
	if mon < 0 || mon > 11 {
		return time.Time{}, fmt.Errorf("%w: month %d", ErrInvalidTimestamp, mon)
	}
	if year < 1 || year > 9999 {
		return time.Time{}, fmt.Errorf("%w: year %d", ErrInvalidTimestamp, year)
	}
	month := time.Month(mon + 1)
	if mday < 1 || mday > int64(daysIn(month, int(year))) {
		return time.Time{}, fmt.Errorf("%w: day %d of %s %d", ErrInvalidTimestamp, mday, month, year)
	}

	return time.Date(int(year), month, int(mday), int(hour), int(minute), int(sec), 0, time.UTC), nil
}

func daysIn(m time.Month, year int) int {
	// Day 0 of the next month is the last day of m
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
