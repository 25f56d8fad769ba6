// =============================================================================
// Catalog Sync - Build Command
// =============================================================================
//
// The 'build' command runs the whole pipeline, in a fixed order so output
// generation is deterministic for identical inputs:
//
//   1. Load configuration (file + environment + defaults)
//   2. Ingest the three sources: articles, stock, suppliers
//   3. Read each center's previous output (curated-field carry-forward)
//   4. Load the per-center override maps
//   5. Reconcile into one catalog per center
//   6. Export each center, writing only files whose content changed
//
// Structural failures — an unreadable required source, unresolvable required
// columns — abort before any output is written; the process then exits
// non-zero. Cell-level data problems are repaired in place and never abort.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mallorcart/catalog-sync/internal/catalog"
	"github.com/mallorcart/catalog-sync/internal/config"
	"github.com/mallorcart/catalog-sync/internal/export"
	"github.com/mallorcart/catalog-sync/internal/override"
	"github.com/mallorcart/catalog-sync/internal/reconcile"
	"github.com/mallorcart/catalog-sync/internal/resolve"
	"github.com/mallorcart/catalog-sync/internal/source"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Ingest, reconcile and export the per-center catalogs",
	Long: `The build command reads the articles, stock and suppliers exports, merges
them into one record per article per center, applies barcode and image
overrides, and writes <output>/<slug>/Articulos.csv for every configured
center.

A center file is only rewritten when its content changed; the command exits
zero whether or not anything was written, and non-zero only when a required
source cannot be read or is missing required columns.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild()
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild() error {
	started := time.Now()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogFormat).With("run", uuid.NewString())

	loader := source.NewLoader(resolve.New(cfg.ExtraAliases), log)

	articles, err := loader.Articles(cfg.ArticlesFile)
	if err != nil {
		return fmt.Errorf("articles source: %w", err)
	}
	stock, err := loader.Stock(cfg.StockFile)
	if err != nil {
		return fmt.Errorf("stock source: %w", err)
	}

	// The suppliers source only enriches names resolved by code; like the
	// other inputs it must parse when present, but absence is tolerated.
	var suppliers []source.SupplierRow
	if cfg.SuppliersFile != "" {
		if _, statErr := os.Stat(cfg.SuppliersFile); os.IsNotExist(statErr) {
			log.Warn("suppliers file absent, names resolve from article rows only",
				"path", cfg.SuppliersFile)
		} else {
			suppliers, err = loader.Suppliers(cfg.SuppliersFile)
			if err != nil {
				return fmt.Errorf("suppliers source: %w", err)
			}
		}
	}

	exporter := export.NewExporter(cfg.OutputDir, cfg.IncludeImages, log)
	prior := make(map[string]map[string]catalog.Prior, len(cfg.Centers))
	for _, c := range cfg.Centers {
		prior[c.Slug] = exporter.ReadPrior(c)
	}

	overrides := override.LoadDir(cfg.OverridesDir, cfg.Centers, log)

	catalogs := reconcile.Build(cfg.Centers, reconcile.Inputs{
		Articles:  articles,
		Stock:     stock,
		Suppliers: suppliers,
		Overrides: overrides,
		Prior:     prior,
	}, log)

	changed := 0
	for _, cat := range catalogs {
		wrote, err := exporter.Export(cat)
		if err != nil {
			return fmt.Errorf("export %s: %w", cat.Center.Slug, err)
		}
		if wrote {
			changed++
			log.Info("catalog updated", "center", cat.Center.Slug, "articles", len(cat.Records))
		} else {
			log.Info("catalog unchanged", "center", cat.Center.Slug, "articles", len(cat.Records))
		}
	}

	log.Info("build complete",
		"articles", len(articles),
		"centers", len(catalogs),
		"updated", changed,
		"elapsed", time.Since(started).Round(time.Millisecond))
	return nil
}
