// =============================================================================
// Catalog Sync - Validate Command
// =============================================================================
//
// The 'validate' command runs the ingestion half of the pipeline — format
// detection, table recovery and column resolution — against the configured
// sources without reconciling or writing anything. It is the quick check to
// run after the upstream system changes its export format.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mallorcart/catalog-sync/internal/config"
	"github.com/mallorcart/catalog-sync/internal/override"
	"github.com/mallorcart/catalog-sync/internal/resolve"
	"github.com/mallorcart/catalog-sync/internal/source"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that sources parse and required columns resolve, without writing",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate()
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogFormat)
	loader := source.NewLoader(resolve.New(cfg.ExtraAliases), log)

	fmt.Println("=== Catalog Sync: validate ===")

	articles, err := loader.Articles(cfg.ArticlesFile)
	if err != nil {
		return fmt.Errorf("articles source: %w", err)
	}
	fmt.Printf("  articles:  %s (%d rows)\n", cfg.ArticlesFile, len(articles))

	stock, err := loader.Stock(cfg.StockFile)
	if err != nil {
		return fmt.Errorf("stock source: %w", err)
	}
	fmt.Printf("  stock:     %s (%d rows)\n", cfg.StockFile, len(stock))

	if cfg.SuppliersFile == "" {
		fmt.Println("  suppliers: not configured")
	} else if _, statErr := os.Stat(cfg.SuppliersFile); os.IsNotExist(statErr) {
		fmt.Printf("  suppliers: %s (absent, tolerated)\n", cfg.SuppliersFile)
	} else {
		suppliers, err := loader.Suppliers(cfg.SuppliersFile)
		if err != nil {
			return fmt.Errorf("suppliers source: %w", err)
		}
		fmt.Printf("  suppliers: %s (%d rows)\n", cfg.SuppliersFile, len(suppliers))
	}

	overrides := override.LoadDir(cfg.OverridesDir, cfg.Centers, log)
	for _, c := range cfg.Centers {
		ean, images := overrides.ForCenter(c.Slug)
		fmt.Printf("  overrides[%s]: %d ean, %d images\n", c.Slug, len(ean), len(images))
	}

	fmt.Println("OK")
	return nil
}
