package otel

import (
	"context"
	"sync"
	"testing"

	goSignin "github.com/MrEthical07/goSignin"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

type fakeSource struct {
	mu       sync.RWMutex
	snapshot goSignin.MetricsSnapshot
	dropped  uint64
	diag     uint64
}

func (f *fakeSource) MetricsSnapshot() goSignin.MetricsSnapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := goSignin.MetricsSnapshot{
		Counters:   make(map[goSignin.MetricID]uint64, len(f.snapshot.Counters)),
		Histograms: make(map[goSignin.MetricID][]uint64, len(f.snapshot.Histograms)),
	}
	for k, v := range f.snapshot.Counters {
		out.Counters[k] = v
	}
	for k, buckets := range f.snapshot.Histograms {
		next := make([]uint64, len(buckets))
		copy(next, buckets)
		out.Histograms[k] = next
	}
	return out
}

func (f *fakeSource) AuditDropped() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.dropped
}

func (f *fakeSource) DiagnosticsDropped() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.diag
}

func findMetric(rm metricdata.ResourceMetrics, name string) (metricdata.Metrics, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}
	return metricdata.Metrics{}, false
}

func TestExporterRegistersAndCollects(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("gosignin-test")

	src := &fakeSource{
		snapshot: goSignin.MetricsSnapshot{
			Counters: map[goSignin.MetricID]uint64{
				goSignin.MetricLoginAuthenticated: 3,
			},
			Histograms: map[goSignin.MetricID][]uint64{
				goSignin.MetricSubmitChallengeLatency: {1, 1, 1, 1, 1, 1, 1, 1},
			},
		},
		dropped: 1,
		diag:    2,
	}

	exp, err := NewOTelExporterFromSource(meter, src)
	if err != nil {
		t.Fatalf("NewOTelExporterFromSource failed: %v", err)
	}
	defer func() {
		if err := exp.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(rm.ScopeMetrics) == 0 {
		t.Fatal("expected collected metrics, got none")
	}

	m, ok := findMetric(rm, "gosignin_login_authenticated_total")
	if !ok {
		t.Fatal("missing gosignin_login_authenticated_total")
	}
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok || len(sum.DataPoints) != 1 || sum.DataPoints[0].Value != 3 {
		t.Fatalf("unexpected login counter data: %#v", m.Data)
	}

	m, ok = findMetric(rm, "gosignin_submit_challenge_latency_seconds_count")
	if !ok {
		t.Fatal("missing histogram count gauge")
	}
	gauge, ok := m.Data.(metricdata.Gauge[int64])
	if !ok || len(gauge.DataPoints) != 1 || gauge.DataPoints[0].Value != 8 {
		t.Fatalf("unexpected histogram count data: %#v", m.Data)
	}

	m, ok = findMetric(rm, "gosignin_diagnostic_dropped_total")
	if !ok {
		t.Fatal("missing diagnostic dropped counter")
	}
	sum, ok = m.Data.(metricdata.Sum[int64])
	if !ok || len(sum.DataPoints) != 1 || sum.DataPoints[0].Value != 2 {
		t.Fatalf("unexpected diagnostic dropped data: %#v", m.Data)
	}
}

func TestExporterRejectsNilSource(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("gosignin-test")

	if _, err := NewOTelExporterFromSource(meter, nil); err == nil {
		t.Fatal("expected error for nil source")
	}
}

func TestExporterConcurrentCollectNoPanic(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("gosignin-test")

	src := &fakeSource{
		snapshot: goSignin.MetricsSnapshot{
			Counters: map[goSignin.MetricID]uint64{
				goSignin.MetricLoginAuthenticated: 1,
			},
			Histograms: map[goSignin.MetricID][]uint64{
				goSignin.MetricSubmitChallengeLatency: {1, 0, 0, 0, 0, 0, 0, 0},
			},
		},
	}

	exp, err := NewOTelExporterFromSource(meter, src)
	if err != nil {
		t.Fatalf("NewOTelExporterFromSource failed: %v", err)
	}
	defer func() {
		if err := exp.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(v uint64) {
			defer wg.Done()
			src.mu.Lock()
			src.snapshot.Counters[goSignin.MetricLoginAuthenticated] = v
			src.mu.Unlock()

			var rm metricdata.ResourceMetrics
			_ = reader.Collect(context.Background(), &rm)
		}(uint64(i + 1))
	}
	wg.Wait()
}
