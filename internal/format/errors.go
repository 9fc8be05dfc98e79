// internal/format/errors.go
package format

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAnArchive is returned when the PGDMP signature is missing
	ErrNotAnArchive = errors.New("not a pg_dump archive")

	// ErrUnsupportedVersion is returned for archive versions outside the supported window
	ErrUnsupportedVersion = errors.New("unsupported archive version")

	// ErrWrongFormat is returned when the archive is not in custom format
	ErrWrongFormat = errors.New("archive is not in custom format")

	// ErrTruncated is returned when the stream ends in the middle of a field
	ErrTruncated = errors.New("truncated archive")

	// ErrConfigUnset is returned when an integer or offset is read before
	// int_size/offset_size are known
	ErrConfigUnset = errors.New("integer or offset size not configured")

	// ErrInvalidLength is returned for negative or oversized length values
	ErrInvalidLength = errors.New("invalid length")

	// ErrInvalidEncoding is returned for strings that are not valid UTF-8
	ErrInvalidEncoding = errors.New("invalid string encoding")

	// ErrInvalidID is returned when a numeric id or oid cannot be parsed
	ErrInvalidID = errors.New("invalid id")

	// ErrInvalidTag is returned for unknown offset tags
	ErrInvalidTag = errors.New("invalid offset tag")

	// ErrInvalidCompressionMethod is returned for unknown compression bytes
	ErrInvalidCompressionMethod = errors.New("invalid compression method")

	// ErrInvalidBlockType is returned when a data block has an unknown type tag
	ErrInvalidBlockType = errors.New("invalid block type")

	// ErrInvalidTimestamp is returned when the creation date is not a valid calendar date
	ErrInvalidTimestamp = errors.New("invalid timestamp")

	// ErrInvalidSection is returned for unknown TOC section codes
	ErrInvalidSection = errors.New("invalid section")

	// ErrReservedFlag is returned when the reserved TOC flag is set
	ErrReservedFlag = errors.New("reserved flag is set")

	// ErrNoDataPresent is returned when an entry has no directly addressable data
	ErrNoDataPresent = errors.New("no data present")

	// ErrBlobNotSupported is returned for large object data blocks
	ErrBlobNotSupported = errors.New("blob data is not supported")

	// ErrCompressionMethodNotSupported is returned when no decoder exists for the archive compression
	ErrCompressionMethodNotSupported = errors.New("compression method not supported")
)

// UnsupportedVersionError carries the version that was rejected.
type UnsupportedVersionError struct {
	Version Version
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("%v %s (supported %s to %s)",
		ErrUnsupportedVersion, e.Version, minSupportedVersion, maxSupportedVersion)
}

// Is makes errors.Is(err, ErrUnsupportedVersion) match.
func (e *UnsupportedVersionError) Is(target error) bool {
	return target == ErrUnsupportedVersion
}

// FieldError identifies the header or TOC field that failed to decode.
// EntryID is only meaningful when HasID is true, i.e. once the entry id
// itself has been read.
type FieldError struct {
	Field   string
	EntryID ID
	HasID   bool
	Err     error
}

func (e *FieldError) Error() string {
	if e.HasID {
		return fmt.Sprintf("toc entry %d: read %s: %v", e.EntryID, e.Field, e.Err)
	}
	return fmt.Sprintf("read %s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// truncated maps short reads onto ErrTruncated while keeping the io error.
func truncated(err error) error {
	return fmt.Errorf("%w: %w", ErrTruncated, err)
}
