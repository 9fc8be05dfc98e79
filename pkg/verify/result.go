// pkg/verify/result.go
package verify

import (
	"fmt"
	"time"

	"github.com/creativeyann17/go-pgarchive/pkg/archive"
	"github.com/creativeyann17/go-pgarchive/pkg/pgarchive"
)

// Result contains comprehensive verification results
type Result struct {
	// Archive metadata
	ArchivePath string
	Container   archive.ContainerFormat
	ArchiveSize uint64 // size after unwrapping
	Spooled     bool

	Version       archive.Version
	Compression   archive.CompressionMethod
	CreatedAt     time.Time
	DatabaseName  string
	ServerVersion string
	DumpVersion   string
	Digest        Digest

	// TOC statistics
	TocEntries  int // all entries in the TOC
	DataEntries int // entries selected for verification

	// Data integrity
	EntriesVerified int
	EntriesSkipped  int
	CorruptEntries  int
	StoredSize      uint64 // chunk payload bytes as stored
	DataSize        uint64 // bytes after decompression

	// Entry details, in TOC order
	Entries []EntryInfo

	// Errors encountered during verification
	Errors []error
}

// EntryInfo describes one verified data block
type EntryInfo struct {
	ID         archive.ID
	Name       string // namespace/tag
	Desc       string
	Offset     archive.Offset
	StoredSize uint64
	DataSize   uint64
	Chunks     int
	Digest     string // hex, empty when skipped or failed
	Skipped    string // reason the block was not decoded
	Error      error
}

// IsValid returns true if every selected block decoded cleanly
func (r *Result) IsValid() bool {
	return len(r.Errors) == 0 && r.CorruptEntries == 0
}

// Success returns true if verification completed without critical errors
func (r *Result) Success() bool {
	return r.IsValid()
}

// GetEntriesTotal returns selected entries (interface method)
func (r *Result) GetEntriesTotal() int {
	return r.DataEntries
}

// GetEntriesProcessed returns verified entries (interface method)
func (r *Result) GetEntriesProcessed() int {
	return r.EntriesVerified
}

// GetErrors returns the error list (interface method)
func (r *Result) GetErrors() []error {
	return r.Errors
}

// GetDataSize returns decompressed size (interface method)
func (r *Result) GetDataSize() uint64 {
	return r.DataSize
}

// GetStoredSize returns stored size (interface method)
func (r *Result) GetStoredSize() uint64 {
	return r.StoredSize
}

// CompressionRatio returns stored size as a percentage of data size
func (r *Result) CompressionRatio() float64 {
	if r.DataSize == 0 {
		return 0
	}
	return float64(r.StoredSize) / float64(r.DataSize) * 100
}

// Summary returns a human-readable summary of the verification result
func (r *Result) Summary() string {
	status := "VALID"
	if !r.IsValid() {
		status = "INVALID"
	}

	s := fmt.Sprintf("Archive: %s [%s]\n", r.ArchivePath, status)
	s += fmt.Sprintf("Format:  %s, version %s\n", r.Container, r.Version)
	s += fmt.Sprintf("Size:    %s\n", pgarchive.FormatSize(r.ArchiveSize))
	s += fmt.Sprintf("Compression: %s\n", r.Compression)
	if r.DatabaseName != "" {
		s += fmt.Sprintf("Database: %s (server %s, pg_dump %s)\n", r.DatabaseName, r.ServerVersion, r.DumpVersion)
	}
	if !r.CreatedAt.IsZero() {
		s += fmt.Sprintf("Created: %s\n", r.CreatedAt.Format(time.RFC3339))
	}
	s += fmt.Sprintf("Entries: %d (%d with data)\n", r.TocEntries, r.DataEntries)

	s += "\nData Integrity:\n"
	s += fmt.Sprintf("  Entries Verified: %d/%d\n", r.EntriesVerified, r.DataEntries)
	if r.EntriesSkipped > 0 {
		s += fmt.Sprintf("  Entries Skipped:  %d\n", r.EntriesSkipped)
	}
	if r.CorruptEntries > 0 {
		s += fmt.Sprintf("  Corrupt Entries:  %d\n", r.CorruptEntries)
	}
	if r.DataSize > 0 {
		s += fmt.Sprintf("  Stored:   %s\n", pgarchive.FormatSize(r.StoredSize))
		s += fmt.Sprintf("  Data:     %s (%.1f%% ratio)\n", pgarchive.FormatSize(r.DataSize), r.CompressionRatio())
	}

	if len(r.Errors) > 0 {
		s += fmt.Sprintf("\nErrors (%d):\n", len(r.Errors))
		for i, err := range r.Errors {
			if i >= 10 {
				s += fmt.Sprintf("  ... and %d more errors\n", len(r.Errors)-10)
				break
			}
			s += fmt.Sprintf("  - %v\n", err)
		}
	}

	return s
}
