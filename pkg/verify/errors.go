// pkg/verify/errors.go
package verify

import "errors"

var (
	// ErrInputRequired is returned when input path is not specified
	ErrInputRequired = errors.New("input path is required")

	// ErrUnknownDigest is returned for a digest name other than blake3 or xxhash
	ErrUnknownDigest = errors.New("unknown digest algorithm")
)
