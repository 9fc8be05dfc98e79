// pkg/extract/result.go
package extract

// Result contains statistics about the extraction
type Result struct {
	// Number of table data entries selected
	EntriesTotal int

	// Number of tables written
	EntriesProcessed int

	// Tables without addressable data
	EntriesSkipped int

	// Rows written (tsv only)
	RowsWritten uint64

	// Chunk payload bytes read from the archive
	StoredSize uint64

	// Bytes written to output files
	WrittenSize uint64

	// Output files, in TOC order
	Files []string

	// List of errors encountered (non-fatal)
	Errors []error
}

// Success returns true if all tables were written without errors
func (r *Result) Success() bool {
	return len(r.Errors) == 0 && r.EntriesProcessed+r.EntriesSkipped == r.EntriesTotal
}

// GetEntriesTotal returns selected entries (interface method)
func (r *Result) GetEntriesTotal() int {
	return r.EntriesTotal
}

// GetEntriesProcessed returns written entries (interface method)
func (r *Result) GetEntriesProcessed() int {
	return r.EntriesProcessed
}

// GetErrors returns the error list (interface method)
func (r *Result) GetErrors() []error {
	return r.Errors
}

// GetDataSize returns written size (interface method)
func (r *Result) GetDataSize() uint64 {
	return r.WrittenSize
}

// GetStoredSize returns stored size (interface method)
func (r *Result) GetStoredSize() uint64 {
	return r.StoredSize
}
