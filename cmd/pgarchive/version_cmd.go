// cmd/pgarchive/version_cmd.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/creativeyann17/go-pgarchive/pkg/archive"
)

func init() {
	rootCmd.AddCommand(versionCmd())
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pgarchive %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
			oldest, newest := archive.SupportedVersions()
			fmt.Printf("archive versions: %s to %s\n", oldest, newest)
		},
	}
}
