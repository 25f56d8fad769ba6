// =============================================================================
// Catalog Sync - Configuration Module
// =============================================================================
//
// Run configuration is an explicit immutable struct handed down the call
// chain; nothing in the pipeline reads module-level state. Values layer in
// increasing precedence:
//
//   1. compiled defaults (the standard import paths and four-center set)
//   2. the YAML config file, when present
//   3. CATALOG_* environment variables
//
// The file is optional: a missing config file runs on defaults, a malformed
// one is an error. Centers and alias extensions are file-only; the scalar
// paths and toggles can also come from the environment.
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"dario.cat/mergo"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/mallorcart/catalog-sync/internal/catalog"
)

// envPrefix namespaces the environment overlay: CATALOG_ARTICLES_FILE etc.
const envPrefix = "catalog"

// Config is the full run configuration.
type Config struct {
	// Source files, role-fixed but path-configurable. The suppliers file is
	// optional at run time: configured-but-absent degrades to an empty
	// supplier index with a warning.
	ArticlesFile  string `yaml:"articles_file" envconfig:"ARTICLES_FILE"`
	StockFile     string `yaml:"stock_file" envconfig:"STOCK_FILE"`
	SuppliersFile string `yaml:"suppliers_file" envconfig:"SUPPLIERS_FILE"`

	// OutputDir is the root under which <slug>/Articulos.csv is written.
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`

	// OverridesDir holds ean/<slug>.json and images/<slug>.json.
	OverridesDir string `yaml:"overrides_dir" envconfig:"OVERRIDES_DIR"`

	// IncludeImages adds the ImagenURL column to the output schema.
	IncludeImages bool `yaml:"include_images" envconfig:"INCLUDE_IMAGES"`

	// LogFormat selects the slog handler: "text" or "json".
	LogFormat string `yaml:"log_format" envconfig:"LOG_FORMAT"`

	// Centers enumerates the exported distribution centers. Warehouse codes
	// outside this set are excluded from stock aggregation.
	Centers []catalog.Center `yaml:"centers" ignored:"true"`

	// ExtraAliases extends the column resolver's alias table, keyed by
	// canonical field name (e.g. "NumeroArticulo").
	ExtraAliases map[string][]string `yaml:"extra_aliases" ignored:"true"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		ArticlesFile:  "imports/base_articulos.csv",
		StockFile:     "imports/stock_por_almacen.csv",
		SuppliersFile: "imports/lista_proveedores.csv",
		OutputDir:     ".",
		OverridesDir:  "overrides",
		LogFormat:     "text",
		Centers:       catalog.DefaultCenters(),
	}
}

// Load builds the effective configuration from the optional YAML file at
// path, the environment and the defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// No file: defaults plus environment.
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	defaults := Default()
	if err := mergo.Merge(&cfg, defaults); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.ArticlesFile == "" {
		return fmt.Errorf("articles_file must be set")
	}
	if c.StockFile == "" {
		return fmt.Errorf("stock_file must be set")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must be set")
	}
	if len(c.Centers) == 0 {
		return fmt.Errorf("at least one center must be configured")
	}

	ids := make(map[int]bool, len(c.Centers))
	slugs := make(map[string]bool, len(c.Centers))
	for _, center := range c.Centers {
		if center.Slug == "" {
			return fmt.Errorf("center %d has no slug", center.ID)
		}
		if ids[center.ID] {
			return fmt.Errorf("duplicate center id %d", center.ID)
		}
		if slugs[center.Slug] {
			return fmt.Errorf("duplicate center slug %q", center.Slug)
		}
		ids[center.ID] = true
		slugs[center.Slug] = true
	}
	return nil
}
