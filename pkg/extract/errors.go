// pkg/extract/errors.go
package extract

import "errors"

var (
	// ErrInputRequired is returned when input path is not specified
	ErrInputRequired = errors.New("input archive path is required")

	// ErrFileExists is returned when output file exists and overwrite is false
	ErrFileExists = errors.New("file exists (use --overwrite to replace)")

	// ErrUnknownFormat is returned for an output format other than tsv or copy
	ErrUnknownFormat = errors.New("unknown output format")

	// ErrUnsafePath is returned when an entry's output path would leave the output directory
	ErrUnsafePath = errors.New("output path escapes output directory")
)
