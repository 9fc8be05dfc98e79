// cmd/pgarchive/info_cmd.go

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/creativeyann17/go-pgarchive/pkg/archive"
	"github.com/creativeyann17/go-pgarchive/pkg/pgarchive"
)

func init() {
	rootCmd.AddCommand(infoCmd())
}

func infoCmd() *cobra.Command {
	var inputPath string
	var memoryLimitMB int64

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show archive header information",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := archive.OpenFile(inputPath, archive.WithMemoryLimit(spoolMemoryLimit(memoryLimitMB)))
			if err != nil {
				return err
			}
			defer f.Close()

			cfg := f.Config()
			fmt.Printf("Archive:        %s\n", f.Path)
			fmt.Printf("Container:      %s\n", f.Container)
			fmt.Printf("Size:           %s\n", pgarchive.FormatSize(uint64(f.Size)))
			if f.Spooled {
				fmt.Printf("Spooled:        temporary file\n")
			}
			fmt.Printf("Format version: %s (int size %d, offset size %d)\n", f.Version, cfg.IntSize, cfg.OffsetSize)
			fmt.Printf("Compression:    %s\n", f.Compression)
			fmt.Printf("Created:        %s\n", f.CreatedAt.Format(time.RFC3339))
			fmt.Printf("Database:       %s\n", f.DatabaseName)
			fmt.Printf("Server version: %s\n", f.ServerVersion)
			fmt.Printf("pg_dump:        %s\n", f.DumpVersion)

			counts := map[archive.Section]int{}
			withData := 0
			for i := range f.Entries {
				e := &f.Entries[i]
				counts[e.Section]++
				if e.Offset.HasData() {
					withData++
				}
			}
			fmt.Printf("TOC entries:    %d (%d with data)\n", len(f.Entries), withData)
			for _, s := range []archive.Section{archive.SectionPreData, archive.SectionData, archive.SectionPostData, archive.SectionNone} {
				if counts[s] > 0 {
					fmt.Printf("  %-12s  %d\n", s, counts[s])
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input archive file (required)")
	addMemoryLimitFlag(cmd, &memoryLimitMB)

	_ = cmd.MarkFlagRequired("input")

	return cmd
}
