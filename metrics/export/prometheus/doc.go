// Package prometheus exposes goSignin engine metrics through
// github.com/prometheus/client_golang.
//
// [PrometheusExporter] implements prometheus.Collector and builds const metrics from
// [goSignin.Engine.MetricsSnapshot] on each scrape. Counter names are
// gosignin_*_total; each engine operation has a gosignin_*_latency_seconds
// histogram.
//
// # What this package must NOT do
//
//   - Register metrics in the global Prometheus registry; callers register the
//     PrometheusExporter or mount [PrometheusExporter.Handler].
//   - Mutate engine state.
package prometheus
