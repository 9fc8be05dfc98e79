// cmd/pgarchive/memory.go

package main

import (
	"github.com/spf13/cobra"

	"github.com/creativeyann17/go-pgarchive/pkg/archive"
)

// spoolMemoryLimit resolves the --memory-limit flag (MB). Zero picks an
// eighth of system RAM, capped at archive.DefaultMemoryLimit; negative
// always spools wrapped archives to disk.
func spoolMemoryLimit(flagMB int64) int64 {
	switch {
	case flagMB > 0:
		return flagMB << 20
	case flagMB < 0:
		return -1
	}

	totalKB, err := getTotalSystemMemory()
	if err != nil || totalKB == 0 {
		return archive.DefaultMemoryLimit
	}
	limit := int64(totalKB/8) << 10
	return min(limit, archive.DefaultMemoryLimit)
}

func addMemoryLimitFlag(cmd *cobra.Command, target *int64) {
	cmd.Flags().Int64Var(target, "memory-limit", 0,
		"Max MB of a gzip/xz/zstd wrapped archive kept in memory (0 = auto, -1 = always use a temp file)")
}
