// Package metrics provides observability hooks for the fetch pipeline.
//
// Components receive a Recorder and default to NoopRecorder, so metrics can
// be switched on by injecting a PrometheusRecorder without touching call sites:
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	pipeline := fetch.NewPipeline(kind, client, slot, oracle, fetch.WithRecorder(rec))
//	mux.Handle("/metrics", metrics.HTTPHandler(reg))
//
// PrometheusRecorder methods are safe on a nil receiver.
package metrics
