// pkg/tabledata/errors.go
package tabledata

import "errors"

var (
	// ErrTableRequired is returned when no table name is given
	ErrTableRequired = errors.New("table name is required")

	// ErrTableNotFound is returned when the archive has no data entry for the table
	ErrTableNotFound = errors.New("table data not found in archive")

	// ErrNotCopyStatement is returned when a data entry's copy statement is not a COPY
	ErrNotCopyStatement = errors.New("not a COPY statement")

	// ErrNoColumnList is returned when a COPY statement names no columns
	ErrNoColumnList = errors.New("COPY statement has no column list")

	// ErrColumnCount is returned when a row has a different number of fields than columns
	ErrColumnCount = errors.New("column count mismatch")

	// ErrInvalidEscape is returned for a backslash at the end of a field
	ErrInvalidEscape = errors.New("invalid escape sequence")
)
