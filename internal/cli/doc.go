// Package cli holds the shared pieces of quiver's command line: global
// flags, argument parsing and result rendering.
//
// # Output Formats
//
// Printer renders results in one of three formats selected by --output:
//   - table: go-pretty tables with colored headers (the default)
//   - json: indented JSON
//   - yaml: block-style YAML preserving parameter order
//
// Parameter tables are ordered maps; both JSON and YAML keep their
// declaration order.
package cli
