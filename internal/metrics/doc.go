// Package metrics records generation metrics for codex.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so the one-shot CLI pays nothing for metrics. The preview
// server swaps in a PrometheusRecorder and exposes its registry on /metrics:
//
//	reg := prometheus.NewRegistry()
//	gen := generator.New(generator.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//	router.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
