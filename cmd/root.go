// =============================================================================
// Catalog Sync - Root Command
// =============================================================================
//
// Root of the Cobra CLI. Subcommands:
//   catalogsync build      - ingest, reconcile and export the catalogs
//   catalogsync validate   - check sources and columns without writing
//   catalogsync version    - print version information
//
// The root command owns the global flags (--config, --verbose) and the
// logger construction shared by the subcommands.
//
// =============================================================================

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// cfgFile is the path to the YAML configuration file; a missing file runs
// on compiled defaults plus environment variables.
var cfgFile string

// verbose raises the log level to debug.
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "catalogsync",
	Short: "Reconcile inventory exports into per-center storefront catalogs",
	Long: `Catalog Sync ingests the inventory system's tabular exports (spreadsheets
or delimited text of uncertain encoding, delimiter and column naming),
reconciles articles, per-warehouse stock and supplier names into one record
per article per distribution center, applies the locally curated barcode and
image overrides, and writes one Articulos.csv per center.

Outputs are only rewritten when their content actually changed, so repeated
runs against unchanged inputs touch nothing.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the CLI. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"catalog.yaml",
		"Path to the configuration file",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug output",
	)
}

// newLogger builds the run logger: text or JSON handler, debug level when
// --verbose is set.
func newLogger(format string) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
