// Package catalog provides a SQLite-backed registry of item type codes.
//
// The catalog maps Go model type names (ProductModel) to the item type
// codes the host persistence layer knows them by (Product). It serves two
// consumers:
//   - flexsearch.TypeResolver, through Catalog.ResolveType
//   - query documents, which name types as strings, through Catalog.Lookup
//
// # Ordering
//
// Every registration takes the next value of a logical sequence. List
// orders by type_name COLLATE BINARY so output is identical across runs.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package catalog
