package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "codex"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration      *prom.HistogramVec
	generationDuration prom.Histogram
	stageResults       *prom.CounterVec
	generationOutcome  *prom.CounterVec
	filesProcessed     prom.Counter
	filesSkipped       *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
// A nil registry gets a private one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual generation stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		generationDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Total duration of a generation run",
			Buckets:   prom.DefBuckets,
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		generationOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "generation_outcomes_total",
			Help:      "Generation runs by final status",
		}, []string{"result"}),
		filesProcessed: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "files_processed_total",
			Help:      "Markdown files merged into the documentation tree",
		}),
		filesSkipped: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "files_skipped_total",
			Help:      "Markdown files excluded from the documentation tree",
		}, []string{"reason"}),
	}
	reg.MustRegister(pr.stageDuration, pr.generationDuration, pr.stageResults,
		pr.generationOutcome, pr.filesProcessed, pr.filesSkipped)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveGenerationDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.generationDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncGenerationOutcome(result ResultLabel) {
	if p == nil {
		return
	}
	p.generationOutcome.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncFileProcessed() {
	if p == nil {
		return
	}
	p.filesProcessed.Inc()
}

func (p *PrometheusRecorder) IncFileSkipped(reason SkipReason) {
	if p == nil {
		return
	}
	p.filesSkipped.WithLabelValues(string(reason)).Inc()
}
