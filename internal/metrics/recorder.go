package metrics

import "time"

// OutcomeLabel enumerates terminal fetch results for counters.
type OutcomeLabel string

const (
	OutcomeSuccess        OutcomeLabel = "success"
	OutcomeError          OutcomeLabel = "error"
	OutcomeOffline        OutcomeLabel = "offline"
	OutcomeTransportFault OutcomeLabel = "transport_fault"
)

// ResultLabel enumerates cache operation results.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
	ResultHit     ResultLabel = "hit"
	ResultMiss    ResultLabel = "miss"
)

// Recorder defines observability hooks for fetches, the cache and
// connectivity. Kind labels are dataset kind names.
type Recorder interface {
	ObserveFetchDuration(kind string, d time.Duration)
	IncOutcome(kind string, outcome OutcomeLabel)
	IncCacheWrite(kind string, result ResultLabel)
	IncCacheRead(kind string, result ResultLabel)
	IncFallbackHit(kind string)
	SetOnline(online bool)
	IncRefreshRetry(kind string)
	IncRefreshRetryExhausted(kind string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveFetchDuration(string, time.Duration) {}
func (NoopRecorder) IncOutcome(string, OutcomeLabel)            {}
func (NoopRecorder) IncCacheWrite(string, ResultLabel)          {}
func (NoopRecorder) IncCacheRead(string, ResultLabel)           {}
func (NoopRecorder) IncFallbackHit(string)                      {}
func (NoopRecorder) SetOnline(bool)                             {}
func (NoopRecorder) IncRefreshRetry(string)                     {}
func (NoopRecorder) IncRefreshRetryExhausted(string)            {}
