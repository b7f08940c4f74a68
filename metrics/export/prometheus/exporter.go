package prometheus

import (
	"net/http"

	goSignin "github.com/MrEthical07/goSignin"
	"github.com/MrEthical07/goSignin/metrics/export/internaldefs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metricsSource interface {
	MetricsSnapshot() goSignin.MetricsSnapshot
	AuditDropped() uint64
	DiagnosticsDropped() uint64
}

// PrometheusExporter is a [prometheus.Collector] that reads the engine snapshot on
// every scrape.
type PrometheusExporter struct {
	source     metricsSource
	counters   []*prometheus.Desc
	histograms []*prometheus.Desc
	audit      *prometheus.Desc
	diag       *prometheus.Desc
}

var _ prometheus.Collector = (*PrometheusExporter)(nil)

// NewPrometheusExporter creates a collector that reads from engine.
func NewPrometheusExporter(engine *goSignin.Engine) *PrometheusExporter {
	return NewPrometheusExporterFromSource(engine)
}

// NewPrometheusExporterFromSource creates a collector over any snapshot source.
func NewPrometheusExporterFromSource(source metricsSource) *PrometheusExporter {
	e := &PrometheusExporter{
		source:     source,
		counters:   make([]*prometheus.Desc, len(internaldefs.CounterDefs)),
		histograms: make([]*prometheus.Desc, len(internaldefs.HistogramDefs)),
		audit:      prometheus.NewDesc("gosignin_audit_dropped_total", "Dropped audit events due to dispatcher backpressure.", nil, nil),
		diag:       prometheus.NewDesc("gosignin_diagnostic_dropped_total", "Dropped diagnostic artifacts due to recorder backpressure.", nil, nil),
	}
	for i, def := range internaldefs.CounterDefs {
		e.counters[i] = prometheus.NewDesc(def.Name, def.Help, nil, nil)
	}
	for i, def := range internaldefs.HistogramDefs {
		e.histograms[i] = prometheus.NewDesc(def.Name, def.Help, nil, nil)
	}
	return e
}

func (e *PrometheusExporter) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range e.counters {
		ch <- d
	}
	for _, d := range e.histograms {
		ch <- d
	}
	ch <- e.audit
	ch <- e.diag
}

// Collect emits nothing when the engine's metrics are disabled.
func (e *PrometheusExporter) Collect(ch chan<- prometheus.Metric) {
	if e == nil || e.source == nil {
		return
	}

	snapshot := e.source.MetricsSnapshot()
	if len(snapshot.Counters) == 0 && len(snapshot.Histograms) == 0 {
		return
	}

	for i, def := range internaldefs.CounterDefs {
		ch <- prometheus.MustNewConstMetric(e.counters[i], prometheus.CounterValue, float64(snapshot.Counters[def.ID]))
	}

	for i, def := range internaldefs.HistogramDefs {
		raw, ok := snapshot.Histograms[def.ID]
		if !ok {
			continue
		}
		nonCumulative := internaldefs.NormalizeBuckets(raw)
		cumulative := internaldefs.CumulativeBuckets(nonCumulative)
		buckets := make(map[float64]uint64, len(internaldefs.HistogramUpperBounds))
		for j, le := range internaldefs.HistogramUpperBounds {
			buckets[le] = cumulative[j]
		}
		ch <- prometheus.MustNewConstHistogram(
			e.histograms[i],
			cumulative[len(cumulative)-1],
			internaldefs.ApproxSum(nonCumulative),
			buckets,
		)
	}

	ch <- prometheus.MustNewConstMetric(e.audit, prometheus.CounterValue, float64(e.source.AuditDropped()))
	ch <- prometheus.MustNewConstMetric(e.diag, prometheus.CounterValue, float64(e.source.DiagnosticsDropped()))
}

// Handler returns a /metrics handler over a private registry holding only e.
func (e *PrometheusExporter) Handler() http.Handler {
	registry := prometheus.NewRegistry()
	registry.MustRegister(e)
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
