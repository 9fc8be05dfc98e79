// cmd/pgarchive/cat_cmd.go

package main

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/creativeyann17/go-pgarchive/pkg/archive"
	"github.com/creativeyann17/go-pgarchive/pkg/tabledata"
)

func init() {
	rootCmd.AddCommand(catCmd())
}

func catCmd() *cobra.Command {
	var inputPath string
	var memoryLimitMB int64
	var header bool
	var raw bool
	var null string

	cmd := &cobra.Command{
		Use:   "cat <table>",
		Short: "Print the rows of a table",
		Long: `Print the rows of one table to stdout, tab separated.

The table may be schema qualified ("public.pizza"). Use --raw to print the
COPY text exactly as stored in the archive.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := args[0]

			f, err := archive.OpenFile(inputPath, archive.WithMemoryLimit(spoolMemoryLimit(memoryLimitMB)))
			if err != nil {
				return err
			}
			defer f.Close()

			w := bufio.NewWriterSize(os.Stdout, 64<<10)
			defer w.Flush()

			if raw {
				namespace, tag := tabledata.SplitQualified(table)
				e, ok := f.FindQualified(archive.SectionData, archive.DescTableData, namespace, tag)
				if !ok {
					return fmt.Errorf("%w: %s", tabledata.ErrTableNotFound, table)
				}
				rc, err := f.OpenData(e)
				if err != nil {
					return err
				}
				defer rc.Close()
				_, err = io.Copy(w, rc)
				return err
			}

			r, err := tabledata.Open(f, table)
			if err != nil {
				return err
			}
			defer r.Close()

			cw := csv.NewWriter(w)
			cw.Comma = '\t'
			if header {
				if err := cw.Write(r.Columns()); err != nil {
					return err
				}
			}
			for {
				row, err := r.Next()
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return err
				}
				if err := cw.Write(row.Strings(null)); err != nil {
					return err
				}
			}
			cw.Flush()
			return cw.Error()
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input archive file (required)")
	cmd.Flags().BoolVar(&header, "header", false, "Print column names first")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print COPY text as stored")
	cmd.Flags().StringVar(&null, "null", "", "Text printed for NULL values")
	addMemoryLimitFlag(cmd, &memoryLimitMB)

	_ = cmd.MarkFlagRequired("input")

	return cmd
}
