// pkg/verify/options.go
package verify

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/creativeyann17/go-pgarchive/pkg/archive"
	"github.com/creativeyann17/go-pgarchive/pkg/pgarchive"
)

// Digest names the hash computed over each decompressed data block
type Digest string

const (
	DigestBLAKE3 Digest = "blake3"
	DigestXXHash Digest = "xxhash"
	DigestNone   Digest = "none"
)

// Options configures the verify operation
type Options struct {
	// InputPath is the archive file to verify (required)
	InputPath string

	// Digest selects the hash over decompressed data
	// Default: blake3
	Digest Digest

	// Filter restricts which entries are verified
	Filter pgarchive.FilterOptions

	// MaxThreads is the number of data blocks decoded in parallel
	// Default: runtime.NumCPU()
	MaxThreads int

	// MemoryLimit caps the in-memory spool for wrapped archives
	// Default: archive.DefaultMemoryLimit
	MemoryLimit int64

	// Verbose enables detailed logging during verification
	Verbose bool

	// Quiet suppresses all output except errors
	Quiet bool
}

// DefaultOptions returns options with sensible defaults
func DefaultOptions() *Options {
	return &Options{
		Digest:      DigestBLAKE3,
		MaxThreads:  runtime.NumCPU(),
		MemoryLimit: archive.DefaultMemoryLimit,
	}
}

// Validate checks if options are valid
func (o *Options) Validate() error {
	if o.InputPath == "" {
		return ErrInputRequired
	}
	o.Digest = Digest(strings.ToLower(string(o.Digest)))
	switch o.Digest {
	case "":
		o.Digest = DigestBLAKE3
	case DigestBLAKE3, DigestXXHash, DigestNone:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownDigest, o.Digest)
	}
	if o.MaxThreads <= 0 {
		o.MaxThreads = runtime.NumCPU()
	}
	if o.MemoryLimit == 0 {
		o.MemoryLimit = archive.DefaultMemoryLimit
	}
	if o.Quiet {
		o.Verbose = false
	}
	return nil
}
