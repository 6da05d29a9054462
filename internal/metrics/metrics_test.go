package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"EmojiStory-App/internal/domain/model"
)

func TestGenerationMetrics(t *testing.T) {
	m := NewGenerationMetrics(prometheus.NewRegistry())

	m.RecordRun(model.StateComplete, "")
	m.RecordRun(model.StateFailed, model.StateGeneratingImage)
	m.RecordRun(model.StateFailed, model.StateGeneratingImage)
	m.RecordValidationRejected()
	m.ObserveStage(model.StateGeneratingText, 1500*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("complete")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.runs.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("rejected")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.stageFailures.WithLabelValues("generating_image")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.stageDuration))
}

func TestGenerationMetrics_NilSafe(t *testing.T) {
	var m *GenerationMetrics
	assert.NotPanics(t, func() {
		m.RecordRun(model.StateComplete, "")
		m.ObserveStage(model.StatePersisting, time.Second)
		m.RecordValidationRejected()
	})
}
