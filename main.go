// =============================================================================
// Catalog Sync - Main Entry Point
// =============================================================================
//
// Batch tool that reconciles the inventory system's heterogeneous exports
// into one Articulos.csv per distribution center.
//
// USAGE:
//   catalogsync build       - Run the full ingest/reconcile/export pipeline
//   catalogsync validate    - Check sources and columns without writing
//   catalogsync version     - Print version information
//
// ARCHITECTURE:
//   cmd/        - CLI command definitions (Cobra)
//   internal/   - core pipeline: table recovery, column resolution, source
//                 loading, reconciliation, per-center export
//   pkg/        - shared utilities
//
// =============================================================================

package main

import (
	"github.com/mallorcart/catalog-sync/cmd"
)

func main() {
	cmd.Execute()
}
