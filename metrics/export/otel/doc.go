// Package otel provides OpenTelemetry metric exporter bindings for goSignin
// counters and latency histograms.
//
// [NewOTelExporter] registers an Int64ObservableCounter for each engine counter
// and, per latency histogram, one Int64ObservableGauge per cumulative bucket
// plus count and approximate sum gauges. A single callback reads
// [goSignin.Engine.MetricsSnapshot] on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider. Callers supply the Meter.
//   - Mutate engine state.
package otel
