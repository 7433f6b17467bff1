package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
)

// SkipReason says why a markdown file contributed nothing to the tree.
type SkipReason string

const (
	SkipUnreadable SkipReason = "unreadable"
	SkipMetadata   SkipReason = "metadata"
)

// Recorder defines observability hooks for generation runs.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveGenerationDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncGenerationOutcome(result ResultLabel)
	IncFileProcessed()
	IncFileSkipped(reason SkipReason)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveGenerationDuration(time.Duration)    {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncGenerationOutcome(ResultLabel)           {}
func (NoopRecorder) IncFileProcessed()                          {}
func (NoopRecorder) IncFileSkipped(SkipReason)                  {}
