package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "recipefeed"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once             sync.Once
	fetchDuration    *prom.HistogramVec
	outcomes         *prom.CounterVec
	cacheWrites      *prom.CounterVec
	cacheReads       *prom.CounterVec
	fallbackHits     *prom.CounterVec
	online           prom.Gauge
	retries          *prom.CounterVec
	retriesExhausted *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.fetchDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of fetch requests from Loading to the terminal outcome",
			Buckets:   prom.DefBuckets,
		}, []string{"kind"})
		pr.outcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_outcomes_total",
			Help:      "Terminal fetch outcomes by kind",
		}, []string{"kind", "outcome"})
		pr.cacheWrites = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "cache_writes_total",
			Help:      "Write-through cache writes by result",
		}, []string{"kind", "result"})
		pr.cacheReads = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "cache_reads_total",
			Help:      "Cache reads by result",
		}, []string{"kind", "result"})
		pr.fallbackHits = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "cache_fallback_hits_total",
			Help:      "Cached payloads delivered after a failed fetch",
		}, []string{"kind"})
		pr.online = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "connectivity_online",
			Help:      "1 when the connectivity oracle reports online",
		})
		pr.retries = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_retries_total",
			Help:      "Refresh re-issues after an error outcome",
		}, []string{"kind"})
		pr.retriesExhausted = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_retry_exhausted_total",
			Help:      "Refresh cycles that ran out of retries",
		}, []string{"kind"})
		reg.MustRegister(pr.fetchDuration, pr.outcomes, pr.cacheWrites, pr.cacheReads, pr.fallbackHits, pr.online, pr.retries, pr.retriesExhausted)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveFetchDuration(kind string, d time.Duration) {
	if p == nil || p.fetchDuration == nil {
		return
	}
	p.fetchDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncOutcome(kind string, outcome OutcomeLabel) {
	if p == nil || p.outcomes == nil {
		return
	}
	p.outcomes.WithLabelValues(kind, string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncCacheWrite(kind string, result ResultLabel) {
	if p == nil || p.cacheWrites == nil {
		return
	}
	p.cacheWrites.WithLabelValues(kind, string(result)).Inc()
}

func (p *PrometheusRecorder) IncCacheRead(kind string, result ResultLabel) {
	if p == nil || p.cacheReads == nil {
		return
	}
	p.cacheReads.WithLabelValues(kind, string(result)).Inc()
}

func (p *PrometheusRecorder) IncFallbackHit(kind string) {
	if p == nil || p.fallbackHits == nil {
		return
	}
	p.fallbackHits.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) SetOnline(online bool) {
	if p == nil || p.online == nil {
		return
	}
	v := 0.0
	if online {
		v = 1
	}
	p.online.Set(v)
}

func (p *PrometheusRecorder) IncRefreshRetry(kind string) {
	if p == nil || p.retries == nil {
		return
	}
	p.retries.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncRefreshRetryExhausted(kind string) {
	if p == nil || p.retriesExhausted == nil {
		return
	}
	p.retriesExhausted.WithLabelValues(kind).Inc()
}
