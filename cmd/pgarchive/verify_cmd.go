// cmd/pgarchive/verify_cmd.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"

	"github.com/creativeyann17/go-pgarchive/pkg/pgarchive"
	"github.com/creativeyann17/go-pgarchive/pkg/verify"
)

func init() {
	rootCmd.AddCommand(verifyCmd())
}

func verifyCmd() *cobra.Command {
	var inputPath string
	var digest string
	var threads int
	var memoryLimitMB int64
	var filters filterFlags
	var verbose bool
	var quiet bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify archive integrity",
		Long: `Verify the integrity of a custom-format archive.

Every data block is walked to its terminator and decompressed; the sizes and
a digest of the decompressed data are reported per entry with --verbose.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			filterOpts, err := filters.options()
			if err != nil {
				return err
			}

			opts := &verify.Options{
				InputPath:   inputPath,
				Digest:      verify.Digest(digest),
				Filter:      filterOpts,
				MaxThreads:  threads,
				MemoryLimit: spoolMemoryLimit(memoryLimitMB),
				Verbose:     verbose,
				Quiet:       quiet,
			}

			if err := opts.Validate(); err != nil {
				return err
			}

			// Logging helper
			log := func(format string, args ...interface{}) {
				if !quiet {
					fmt.Printf(format+"\n", args...)
				}
			}

			log("Verifying archive: %s", inputPath)
			log("Digest: %s", opts.Digest)
			log("")

			var progressCb verify.ProgressCallback
			var progress *mpb.Progress
			if !quiet && !verbose {
				progressCb, progress = pgarchive.ProgressBarCallback()
			}

			// Perform verification
			result, err := verify.Verify(opts, progressCb)

			if progress != nil {
				progress.Wait()
			}

			if err != nil && result == nil {
				return err
			}

			if verbose {
				for _, info := range result.Entries {
					switch {
					case info.Error != nil:
						fmt.Printf("  %-40s FAILED: %v\n", info.Name, info.Error)
					case info.Skipped != "":
						fmt.Printf("  %-40s skipped (%s)\n", info.Name, info.Skipped)
					default:
						fmt.Printf("  %-40s %10s -> %10s  %3d chunks  %s\n", info.Name,
							pgarchive.FormatSize(info.StoredSize), pgarchive.FormatSize(info.DataSize), info.Chunks, info.Digest)
					}
				}
			}

			// Print summary
			if !quiet {
				fmt.Println()
				fmt.Print(result.Summary())
			}

			// Return error if invalid
			if !result.IsValid() {
				return fmt.Errorf("archive verification failed")
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input archive file (required)")
	cmd.Flags().StringVar(&digest, "digest", string(verify.DigestBLAKE3), "Digest of decompressed data: blake3, xxhash or none")
	cmd.Flags().IntVarP(&threads, "threads", "t", 0, "Blocks verified in parallel (0 = number of CPUs)")
	filters.register(cmd, true)
	addMemoryLimitFlag(cmd, &memoryLimitMB)
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Show detailed output")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Minimal output (overrides verbose)")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}
