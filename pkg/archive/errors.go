// pkg/archive/errors.go
package archive

import (
	"errors"

	"github.com/creativeyann17/go-pgarchive/internal/format"
)

// Decode errors; match with errors.Is.
var (
	ErrNotAnArchive                  = format.ErrNotAnArchive
	ErrUnsupportedVersion            = format.ErrUnsupportedVersion
	ErrWrongFormat                   = format.ErrWrongFormat
	ErrTruncated                     = format.ErrTruncated
	ErrConfigUnset                   = format.ErrConfigUnset
	ErrInvalidLength                 = format.ErrInvalidLength
	ErrInvalidEncoding               = format.ErrInvalidEncoding
	ErrInvalidID                     = format.ErrInvalidID
	ErrInvalidTag                    = format.ErrInvalidTag
	ErrInvalidCompressionMethod      = format.ErrInvalidCompressionMethod
	ErrInvalidBlockType              = format.ErrInvalidBlockType
	ErrInvalidTimestamp              = format.ErrInvalidTimestamp
	ErrInvalidSection                = format.ErrInvalidSection
	ErrReservedFlag                  = format.ErrReservedFlag
	ErrNoDataPresent                 = format.ErrNoDataPresent
	ErrBlobNotSupported              = format.ErrBlobNotSupported
	ErrCompressionMethodNotSupported = format.ErrCompressionMethodNotSupported
)

var (
	// ErrPathRequired is returned when OpenFile is called without a path
	ErrPathRequired = errors.New("archive path is required")

	// ErrPlainSQL is returned for plain-text dumps, which are restored with psql
	ErrPlainSQL = errors.New("plain SQL dump, not a custom-format archive")

	// ErrEntryNotFound is returned when no TOC entry matches a lookup
	ErrEntryNotFound = errors.New("toc entry not found")
)

// Typed errors carrying decode context
type (
	FieldError              = format.FieldError
	UnsupportedVersionError = format.UnsupportedVersionError
)
