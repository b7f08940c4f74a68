// Package internaldefs holds the metric names, help strings and bucket bounds
// shared by the Prometheus and OTel exporters.
//
// Changes here affect every exporter at once.
//
// # What this package must NOT do
//
//   - Import any exporter package.
//   - Perform I/O.
package internaldefs
