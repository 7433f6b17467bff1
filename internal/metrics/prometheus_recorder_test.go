package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveStageDuration("assemble", 150*time.Millisecond)
	pr.ObserveGenerationDuration(500 * time.Millisecond)
	pr.IncStageResult("assemble", ResultSuccess)
	pr.IncGenerationOutcome(ResultSuccess)
	pr.IncFileProcessed()
	pr.IncFileProcessed()
	pr.IncFileSkipped(SkipMetadata)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)

	values := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			if c := m.GetCounter(); c != nil {
				key := mf.GetName()
				for _, lp := range m.GetLabel() {
					key += "/" + lp.GetValue()
				}
				values[key] = c.GetValue()
			}
		}
	}
	assert.InDelta(t, 2, values["codex_files_processed_total"], 0)
	assert.InDelta(t, 1, values["codex_files_skipped_total/metadata"], 0)
	assert.InDelta(t, 1, values["codex_generation_outcomes_total/success"], 0)
}

func TestPrometheusRecorder_NilReceiverIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.IncFileProcessed()
		pr.IncFileSkipped(SkipUnreadable)
		pr.ObserveGenerationDuration(time.Second)
	})
}

func TestHTTPHandler_ServesRegistry(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncFileProcessed()

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "codex_files_processed_total 1")
}

func TestNoopRecorder_SatisfiesRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncFileSkipped(SkipMetadata)
	r.ObserveStageDuration("render", time.Millisecond)
}
