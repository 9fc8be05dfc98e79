// pkg/extract/options.go
package extract

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/creativeyann17/go-pgarchive/pkg/archive"
	"github.com/creativeyann17/go-pgarchive/pkg/pgarchive"
)

// Format selects how table rows are written
type Format string

const (
	// FormatTSV writes decoded rows, tab separated, quoting fields that need it
	FormatTSV Format = "tsv"
	// FormatCopy writes the COPY text exactly as stored in the archive
	FormatCopy Format = "copy"
)

// Extension returns the file extension for the format
func (f Format) Extension() string {
	return "." + string(f)
}

// Options configures the extraction behavior
type Options struct {
	// Input archive path
	InputPath string

	// Output directory path
	OutputPath string

	// Format of the written files
	// Default: tsv
	Format Format

	// Header writes the column names as the first line (tsv only)
	Header bool

	// Null is written for NULL values (tsv only)
	Null string

	// Filter restricts which tables are extracted
	Filter pgarchive.FilterOptions

	// Maximum number of tables extracted concurrently
	// Default: runtime.NumCPU()
	MaxThreads int

	// MemoryLimit caps the in-memory spool for wrapped archives
	// Default: archive.DefaultMemoryLimit
	MemoryLimit int64

	// Verbose enables detailed logging
	Verbose bool

	// Quiet suppresses all output except errors
	Quiet bool

	// Overwrite existing files without prompting
	Overwrite bool
}

// DefaultOptions returns options with sensible defaults
func DefaultOptions() *Options {
	return &Options{
		OutputPath:  ".",
		Format:      FormatTSV,
		MaxThreads:  runtime.NumCPU(),
		MemoryLimit: archive.DefaultMemoryLimit,
	}
}

// Validate checks if options are valid
func (o *Options) Validate() error {
	if o.InputPath == "" {
		return ErrInputRequired
	}
	if o.OutputPath == "" {
		o.OutputPath = "."
	}
	o.Format = Format(strings.ToLower(string(o.Format)))
	switch o.Format {
	case "":
		o.Format = FormatTSV
	case FormatTSV, FormatCopy:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, o.Format)
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
