// cmd/pgarchive/extract_cmd.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"

	"github.com/creativeyann17/go-pgarchive/pkg/extract"
	"github.com/creativeyann17/go-pgarchive/pkg/pgarchive"
)

func init() {
	rootCmd.AddCommand(extractCmd())
}

func extractCmd() *cobra.Command {
	var inputPath, outputPath string
	var formatName string
	var header bool
	var null string
	var threads int
	var memoryLimitMB int64
	var filters filterFlags
	var verbose bool
	var quiet bool
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Write table data to files",
		Long: `Write the data of every selected table to <output>/<namespace>/<table>.<format>.

Formats: tsv (decoded rows, tab separated) or copy (COPY text as stored).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			filterOpts, err := filters.options()
			if err != nil {
				return err
			}

			// Prepare options
			opts := &extract.Options{
				InputPath:   inputPath,
				OutputPath:  outputPath,
				Format:      extract.Format(formatName),
				Header:      header,
				Null:        null,
				Filter:      filterOpts,
				MaxThreads:  threads,
				MemoryLimit: spoolMemoryLimit(memoryLimitMB),
				Verbose:     verbose,
				Quiet:       quiet,
				Overwrite:   overwrite,
			}

			// Validate and set defaults
			if err := opts.Validate(); err != nil {
				return err
			}

			// Logging helper
			log := func(format string, args ...interface{}) {
				if !quiet {
					fmt.Printf(format+"\n", args...)
				}
			}

			log("Starting extraction...")
			log("  Input:       %s", opts.InputPath)
			log("  Output:      %s", opts.OutputPath)
			log("  Format:      %s", opts.Format)
			log("  Threads:     %d", opts.MaxThreads)
			if overwrite {
				log("  Mode:        OVERWRITE (replacing existing files)")
			}
			log("")

			// Create progress callback and progress container
			var progressCb extract.ProgressCallback
			var progress *mpb.Progress

			if !quiet && !verbose {
				progressCb, progress = pgarchive.ProgressBarCallback()
			} else if verbose {
				progressCb = func(event extract.ProgressEvent) {
					switch event.Type {
					case pgarchive.EventEntryComplete:
						fmt.Printf("  %s (%s)\n", event.EntryName, pgarchive.FormatSize(event.TotalBytes))
					case pgarchive.EventError:
						fmt.Printf("  %s FAILED\n", event.EntryName)
					}
				}
			}

			// Perform extraction
			result, err := extract.Extract(opts, progressCb)

			// Wait for progress bars to finish rendering
			if progress != nil {
				progress.Wait()
			}

			if err != nil {
				return err
			}

			// Final report
			if !quiet {
				fmt.Println()
				fmt.Print(pgarchive.FormatSummary(result, pgarchive.OperationExtract))
				if result.RowsWritten > 0 {
					fmt.Printf("  Rows written:      %d\n", result.RowsWritten)
				}
				if result.EntriesSkipped > 0 {
					fmt.Printf("  Without data:      %d\n", result.EntriesSkipped)
				}
			}

			if len(result.Errors) > 0 {
				return fmt.Errorf("finished with %d errors", len(result.Errors))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input archive file (required)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", ".", "Output directory")
	cmd.Flags().StringVarP(&formatName, "format", "f", string(extract.FormatTSV), "Output format: tsv or copy")
	cmd.Flags().BoolVar(&header, "header", false, "Write column names as the first line (tsv)")
	cmd.Flags().StringVar(&null, "null", "", "Text written for NULL values (tsv)")
	cmd.Flags().IntVarP(&threads, "threads", "t", 0, "Tables extracted in parallel (0 = number of CPUs)")
	filters.register(cmd, false)
	addMemoryLimitFlag(cmd, &memoryLimitMB)
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Show detailed output")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Minimal output (overrides verbose)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing files")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}
