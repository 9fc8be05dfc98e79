// pkg/pgarchive/helpers.go
package pgarchive

import (
	"fmt"
	"path/filepath"
	"strings"
)

// OperationType indicates which archive walk produced a result
type OperationType string

const (
	OperationVerify  OperationType = "verify"
	OperationExtract OperationType = "extract"
)

// ProgressEvent is a generic progress event shared by verify and extract
type ProgressEvent struct {
	Type         EventType
	EntryName    string
	Current      int64
	Total        int64
	CurrentBytes uint64
	TotalBytes   uint64
	Chunks       int // chunks of the data block read so far
}

// EventType indicates the type of progress event
type EventType int

const (
	EventStart EventType = iota
	EventEntryStart
	EventEntryProgress
	EventEntryComplete
	EventComplete
	EventError
)

// Result is the common view of verify and extract results
type Result interface {
	GetEntriesTotal() int
	GetEntriesProcessed() int
	GetErrors() []error
	GetDataSize() uint64
	GetStoredSize() uint64
	Success() bool
}

// FormatSummary formats a result into a human-readable summary string
func FormatSummary(result Result, operation OperationType) string {
	var sb strings.Builder

	errors := result.GetErrors()
	if len(errors) > 0 {
		fmt.Fprintf(&sb, "Completed with %d errors:\n", len(errors))
		for _, e := range errors {
			fmt.Fprintf(&sb, "  - %v\n", e)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Summary:\n")
	fmt.Fprintf(&sb, "  Entries processed: %d / %d\n", result.GetEntriesProcessed(), result.GetEntriesTotal())
	fmt.Fprintf(&sb, "  Stored size:       %s\n", FormatSize(result.GetStoredSize()))
	switch operation {
	case OperationExtract:
		fmt.Fprintf(&sb, "  Written size:      %s\n", FormatSize(result.GetDataSize()))
	default:
		fmt.Fprintf(&sb, "  Data size:         %s\n", FormatSize(result.GetDataSize()))
	}
	if result.GetDataSize() > 0 {
		ratio := float64(result.GetStoredSize()) / float64(result.GetDataSize()) * 100
		fmt.Fprintf(&sb, "  Ratio:             %.1f%%\n", ratio)
	}

	return sb.String()
}

// FormatSize formats bytes into human-readable string
func FormatSize(bytes uint64) string {
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
		TB = 1024 * GB
	)

	switch {
	case bytes >= TB:
		return fmt.Sprintf("%.2f TB", float64(bytes)/float64(TB))
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// TruncateLeft truncates a name from the left to fit maxLen, preserving its last element
func TruncateLeft(name string, maxLen int) string {
	if len(name) <= maxLen {
		return name
	}

	base := filepath.Base(name)
	if len(base) >= maxLen-3 {
		return "..." + base[len(base)-(maxLen-3):]
	}

	return "..." + name[len(name)-(maxLen-3):]
}
