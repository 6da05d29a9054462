package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"EmojiStory-App/internal/domain/model"
)

// GenerationMetrics は生成パイプラインのメトリクス
type GenerationMetrics struct {
	runs          *prometheus.CounterVec
	stageFailures *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
}

// NewGenerationMetrics はregistererにメトリクスを登録する（nilの場合はDefaultRegisterer）
func NewGenerationMetrics(registerer prometheus.Registerer) *GenerationMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &GenerationMetrics{
		runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "emoji_story_generation_runs_total",
				Help: "Total number of story generation runs, partitioned by outcome.",
			},
			[]string{"outcome"},
		),
		stageFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "emoji_story_generation_stage_failures_total",
				Help: "Total number of pipeline failures, partitioned by stage.",
			},
			[]string{"stage"},
		),
		stageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "emoji_story_generation_stage_duration_seconds",
				Help:    "Latency of each pipeline stage.",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
			},
			[]string{"stage"},
		),
	}
}

// ObserveStage は段階の所要時間を記録する
func (m *GenerationMetrics) ObserveStage(stage model.GenerationState, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(string(stage)).Observe(d.Seconds())
}

// RecordRun は終端状態を記録する。失敗時は段階別の失敗数も加算する
func (m *GenerationMetrics) RecordRun(state, failedStage model.GenerationState) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(string(state)).Inc()
	if state == model.StateFailed && failedStage != "" {
		m.stageFailures.WithLabelValues(string(failedStage)).Inc()
	}
}

// RecordValidationRejected は検証で止められた送信を記録する
func (m *GenerationMetrics) RecordValidationRejected() {
	if m == nil {
		return
	}
	m.runs.WithLabelValues("rejected").Inc()
}
