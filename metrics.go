package goSignin

import (
	"sync/atomic"
	"time"
)

// MetricID identifies one engine counter or latency histogram.
type MetricID uint16

const (
	// MetricLoginAuthenticated counts BeginLogin calls that ended in a session.
	MetricLoginAuthenticated MetricID = iota
	// MetricLoginTfaRequired counts BeginLogin calls that stopped at a second factor.
	MetricLoginTfaRequired
	// MetricLoginFailure counts BeginLogin calls that ended in a fatal outcome.
	MetricLoginFailure
	MetricLoginRateLimited
	MetricInvalidCredentials
	MetricCaptchaRequired
	MetricChallengeSuccess
	// MetricChallengeRetry counts wrong/empty codes, denied prompts and timeouts.
	MetricChallengeRetry
	MetricChallengeFallback
	MetricChallengeFailure
	MetricMethodChanged
	MetricMethodChangeFailure
	MetricResendSuccess
	MetricResendFailure
	MetricResendOffered
	MetricParsingError
	MetricConnectionError
	MetricContinuationRejected
	MetricDiagnosticRecorded
	MetricBeginLoginLatency
	MetricSubmitChallengeLatency
	MetricChangeMethodLatency
	MetricResendCodeLatency
	metricIDCount
)

// LatencyMetrics lists the histogram-backed ids in export order.
var LatencyMetrics = []MetricID{
	MetricBeginLoginLatency,
	MetricSubmitChallengeLatency,
	MetricChangeMethodLatency,
	MetricResendCodeLatency,
}

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds lock-free counters and fixed-bucket latency histograms.
// A nil or disabled Metrics ignores every write.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time copy of every counter and histogram.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records d in the histogram for id. Ids that are not latency
// metrics are ignored.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || id >= metricIDCount {
		return
	}
	if !isLatencyMetric(id) {
		return
	}

	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies the current values. Disabled metrics yield empty maps.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, len(LatencyMetrics)),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		if isLatencyMetric(id) {
			continue
		}
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		for _, id := range LatencyMetrics {
			buckets := make([]uint64, histBucketCount)
			for i := 0; i < histBucketCount; i++ {
				buckets[i] = atomic.LoadUint64(&m.histograms[id].buckets[i])
			}
			s.Histograms[id] = buckets
		}
	}

	return s
}

func isLatencyMetric(id MetricID) bool {
	return id >= MetricBeginLoginLatency && id < metricIDCount
}

// Upstream sign-in steps are much slower than local work, so buckets span
// 50ms to 10s.
func bucketIndex(d time.Duration) int {
	ms := d.Milliseconds()

	switch {
	case ms <= 50:
		return 0
	case ms <= 100:
		return 1
	case ms <= 250:
		return 2
	case ms <= 500:
		return 3
	case ms <= 1000:
		return 4
	case ms <= 2500:
		return 5
	case ms <= 10000:
		return 6
	default:
		return 7
	}
}
