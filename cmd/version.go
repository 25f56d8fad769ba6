// =============================================================================
// Catalog Sync - Version Command
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Build information, overridden at link time:
//
//	go build -ldflags "-X github.com/mallorcart/catalog-sync/cmd.Version=1.2.0"
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("catalogsync %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
