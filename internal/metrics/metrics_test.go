package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveFetchDuration("recipes", 150*time.Millisecond)
	pr.IncOutcome("recipes", OutcomeSuccess)
	pr.IncCacheWrite("recipes", ResultSuccess)
	pr.IncCacheRead("joke", ResultMiss)
	pr.IncFallbackHit("search")
	pr.SetOnline(true)
	pr.IncRefreshRetry("recipes")
	pr.IncRefreshRetryExhausted("recipes")

	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	require.True(t, names["recipefeed_fetch_outcomes_total"])
	require.True(t, names["recipefeed_cache_fallback_hits_total"])
	require.True(t, names["recipefeed_connectivity_online"])
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.IncOutcome("recipes", OutcomeError)
	pr.SetOnline(false)
	pr.ObserveFetchDuration("recipes", time.Second)
}

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncOutcome("recipes", OutcomeOffline)
	r.IncCacheRead("recipes", ResultHit)
}

func TestHTTPHandlerServesRegistry(t *testing.T) {
	reg := NewRegistry()
	NewPrometheusRecorder(reg).IncOutcome("joke", OutcomeTransportFault)

	srv := httptest.NewServer(HTTPHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), `recipefeed_fetch_outcomes_total{kind="joke",outcome="transport_fault"} 1`))
	require.True(t, strings.Contains(string(body), "go_goroutines"))
}
