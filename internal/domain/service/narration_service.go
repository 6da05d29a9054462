package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"EmojiStory-App/internal/domain/model"
)

// NarrationState は読み上げトグルの状態
type NarrationState string

const (
	NarrationIdle     NarrationState = "idle"
	NarrationSpeaking NarrationState = "speaking"
)

// DefaultNarrationRate は読み上げ速度の倍率
const DefaultNarrationRate = 0.9

// Speaker はプラットフォームの音声合成機能
// Speakは読み上げが終わるかctxがキャンセルされるまでブロックする
type Speaker interface {
	Speak(ctx context.Context, text string, rate float64) error
}

// NarrationStatus は現在の読み上げ状態
type NarrationStatus struct {
	State   NarrationState `json:"state"`
	StoryID string         `json:"story_id,omitempty"`
}

// NarrationService はIdle/Speakingの2状態を明示的なStart/Stopで遷移させる
type NarrationService interface {
	Start(story *model.StoryRecord) NarrationStatus
	Stop() NarrationStatus
	Toggle(story *model.StoryRecord) NarrationStatus
	Status() NarrationStatus
}

type narrationService struct {
	speaker Speaker
	rate    float64
	logger  *zap.Logger

	mu      sync.Mutex
	state   NarrationState
	storyID string
	cancel  context.CancelFunc
	runID   uint64
}

// NewNarrationService は新しいNarrationServiceを作成
func NewNarrationService(speaker Speaker, rate float64, logger *zap.Logger) NarrationService {
	if rate <= 0 {
		rate = DefaultNarrationRate
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &narrationService{
		speaker: speaker,
		rate:    rate,
		logger:  logger.Named("narration"),
		state:   NarrationIdle,
	}
}

// NarrationText は読み上げるテキスト（タイトル. 本文）
func NarrationText(story *model.StoryRecord) string {
	return fmt.Sprintf("%s. %s", story.Title, story.Content)
}

// Start は読み上げを開始する。読み上げ中の場合は中断してから開始する
func (s *narrationService) Start(story *model.StoryRecord) NarrationStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	s.runID++
	runID := s.runID
	s.state = NarrationSpeaking
	s.storyID = story.ID
	s.cancel = cancel

	text := NarrationText(story)
	s.logger.Info("🔊 読み上げ開始", zap.String("story_id", story.ID), zap.Float64("rate", s.rate))

	go func() {
		err := s.speaker.Speak(ctx, text, s.rate)
		if err != nil && !errors.Is(ctx.Err(), context.Canceled) {
			s.logger.Warn("⚠️ 読み上げに失敗", zap.String("story_id", story.ID), zap.Error(err))
		}
		s.finish(runID)
	}()

	return s.statusLocked()
}

// Stop は読み上げを中断してIdleに戻す
func (s *narrationService) Stop() NarrationStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	return s.statusLocked()
}

// Toggle は読み上げ中なら停止、Idleなら開始する
func (s *narrationService) Toggle(story *model.StoryRecord) NarrationStatus {
	s.mu.Lock()
	speaking := s.state == NarrationSpeaking
	s.mu.Unlock()

	if speaking {
		return s.Stop()
	}
	return s.Start(story)
}

func (s *narrationService) Status() NarrationStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

// finish は読み上げが自然に終わった場合にIdleに戻す（既に別の実行に置き換わっていれば何もしない）
func (s *narrationService) finish(runID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.runID != runID || s.state != NarrationSpeaking {
		return
	}
	s.cancel()
	s.cancel = nil
	s.state = NarrationIdle
	s.storyID = ""
	s.logger.Info("✅ 読み上げ終了")
}

func (s *narrationService) stopLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.state == NarrationSpeaking {
		s.logger.Info("⏹️ 読み上げ停止", zap.String("story_id", s.storyID))
	}
	s.state = NarrationIdle
	s.storyID = ""
}

func (s *narrationService) statusLocked() NarrationStatus {
	return NarrationStatus{State: s.state, StoryID: s.storyID}
}
