package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveStageDuration("compute", 20*time.Millisecond)
	pr.ObserveBuildDuration(50 * time.Millisecond)
	pr.IncStageResult("compute", ResultSuccess)
	pr.IncStageResult("compute", ResultSuccess)
	pr.IncBuildOutcome(OutcomeSuccess)
	pr.SetPages(12)
	pr.SetBlocks(30)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 7)

	byName := map[string]*dto.MetricFamily{}
	for _, f := range families {
		byName[f.GetName()] = f
	}
	assert.InDelta(t, 2, byName["sitemapper_stage_results_total"].GetMetric()[0].GetCounter().GetValue(), 0)
	assert.InDelta(t, 1, byName["sitemapper_build_outcomes_total"].GetMetric()[0].GetCounter().GetValue(), 0)
	assert.InDelta(t, 12, byName["sitemapper_pages"].GetMetric()[0].GetGauge().GetValue(), 0)
	assert.InDelta(t, 30, byName["sitemapper_blocks"].GetMetric()[0].GetGauge().GetValue(), 0)
	assert.Positive(t, byName["sitemapper_last_success_timestamp_seconds"].GetMetric()[0].GetGauge().GetValue())
	assert.Equal(t, uint64(1), byName["sitemapper_stage_duration_seconds"].GetMetric()[0].GetHistogram().GetSampleCount())
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.ObserveStageDuration("x", time.Second)
	pr.ObserveBuildDuration(time.Second)
	pr.IncStageResult("x", ResultFatal)
	pr.IncBuildOutcome(OutcomeFailed)
	pr.SetPages(1)
	pr.SetBlocks(1)
	assert.Nil(t, pr.Registry())
	assert.NoError(t, pr.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")))
}

func TestWriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.SetPages(3)
	pr.IncBuildOutcome(OutcomeSkipped)

	path := filepath.Join(t.TempDir(), "metrics", "sitemapper.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, "sitemapper_pages 3"), text)
	assert.Contains(t, text, `sitemapper_build_outcomes_total{outcome="skipped"} 1`)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("x", time.Second)
	r.IncBuildOutcome(OutcomeSuccess)
	r.SetPages(1)
}
