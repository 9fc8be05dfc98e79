// cmd/pgarchive/main.go

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:     "pgarchive",
	Short:   "pgarchive - read PostgreSQL custom-format dumps without pg_restore",
	Long:    "pgarchive inspects pg_dump -Fc archives: list the table of contents, stream table data, extract and verify.",
	Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
	// Command errors are printed once by main
	SilenceErrors: true,
	SilenceUsage:  true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
