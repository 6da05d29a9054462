package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"EmojiStory-App/internal/domain/model"
	"EmojiStory-App/internal/domain/repository"
	"EmojiStory-App/internal/domain/service"
	"EmojiStory-App/internal/metrics"
)

// GenerationObserver はパイプラインの進捗を受け取る（セッションが実装する）
type GenerationObserver interface {
	// OnStateChange は状態遷移のたびに呼ばれる
	OnStateChange(state model.GenerationState)
	// OnTextGenerated はテキスト段階の成功時に呼ばれる
	OnTextGenerated(story *model.StoryText, emojis string)
	// OnCoverGenerated は画像段階の成功時に呼ばれる
	OnCoverGenerated(cover *model.Cover)
}

type noopObserver struct{}

func (noopObserver) OnStateChange(model.GenerationState)      {}
func (noopObserver) OnTextGenerated(*model.StoryText, string) {}
func (noopObserver) OnCoverGenerated(*model.Cover)            {}

type StoryGenerationUseCase interface {
	// Generate は絵文字から物語と表紙を生成して保存し、保存済みの物語を返す
	// 検証エラーは*model.ValidationError、段階の失敗は*model.GenerationErrorで返す
	Generate(ctx context.Context, emojis []string, observer GenerationObserver) (*model.GeneratedStory, error)
}

// GenerationLimits は送信可能な絵文字数の範囲
type GenerationLimits struct {
	MinEmojis int
	MaxEmojis int
}

// storyGenerationUseCaseImpl はStoryGenerationUseCaseの実装
type storyGenerationUseCaseImpl struct {
	textRepo    repository.StoryGenerationRepository
	coverRepo   repository.CoverImageRepository
	persistence service.StoryPersistenceService
	runRepo     repository.GenerationRunRepository
	metrics     *metrics.GenerationMetrics
	limits      GenerationLimits
	now         func() time.Time
	logger      *zap.Logger
}

// NewStoryGenerationUseCase は新しいStoryGenerationUseCaseを作成
// runRepoとmetricsはnilでもよい
func NewStoryGenerationUseCase(
	textRepo repository.StoryGenerationRepository,
	coverRepo repository.CoverImageRepository,
	persistence service.StoryPersistenceService,
	runRepo repository.GenerationRunRepository,
	m *metrics.GenerationMetrics,
	limits GenerationLimits,
	logger *zap.Logger,
) StoryGenerationUseCase {
	if limits.MinEmojis <= 0 {
		limits.MinEmojis = model.DefaultMinEmojis
	}
	if limits.MaxEmojis <= 0 {
		limits.MaxEmojis = model.DefaultMaxEmojis
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &storyGenerationUseCaseImpl{
		textRepo:    textRepo,
		coverRepo:   coverRepo,
		persistence: persistence,
		runRepo:     runRepo,
		metrics:     m,
		limits:      limits,
		now:         time.Now,
		logger:      logger.Named("generation"),
	}
}

// Generate はValidating → GeneratingText → GeneratingImage → Persisting → Completeの順に実行する
func (u *storyGenerationUseCaseImpl) Generate(ctx context.Context, emojis []string, observer GenerationObserver) (*model.GeneratedStory, error) {
	if observer == nil {
		observer = noopObserver{}
	}

	observer.OnStateChange(model.StateValidating)
	filled := model.FilledEmojis(emojis)
	if err := u.validate(filled); err != nil {
		observer.OnStateChange(model.StateIdle)
		u.metrics.RecordValidationRejected()
		return nil, err
	}

	joined := model.JoinEmojis(filled)
	run := &model.GenerationRun{
		RunID:     uuid.New().String(),
		Emojis:    joined,
		StartedAt: u.now(),
	}
	log := u.logger.With(zap.String("run_id", run.RunID), zap.String("emojis", joined))
	log.Info("🚀 物語生成パイプライン開始")

	fail := func(stage model.GenerationState, err error) (*model.GeneratedStory, error) {
		genErr := &model.GenerationError{Stage: stage, Err: err}
		log.Error("❌ 物語生成パイプライン失敗", zap.String("stage", string(stage)), zap.Error(err))
		observer.OnStateChange(model.StateFailed)
		run.State = model.StateFailed
		run.FailedStage = stage
		run.Error = err.Error()
		u.finish(ctx, run)
		return nil, genErr
	}

	// Step 1: テキスト生成
	observer.OnStateChange(model.StateGeneratingText)
	started := u.now()
	story, err := u.textRepo.GenerateStory(ctx, filled)
	u.metrics.ObserveStage(model.StateGeneratingText, u.now().Sub(started))
	if err != nil {
		return fail(model.StateGeneratingText, err)
	}
	if story == nil {
		return fail(model.StateGeneratingText, fmt.Errorf("%w: 空の結果", model.ErrStoryGenerationFailed))
	}
	run.Title = story.Title
	observer.OnTextGenerated(story, joined)
	log.Info("✅ テキスト生成完了", zap.String("title", story.Title))

	// Step 2: 表紙画像生成
	observer.OnStateChange(model.StateGeneratingImage)
	started = u.now()
	cover, err := u.coverRepo.GenerateCover(ctx, story.Title, story.OpeningLine())
	u.metrics.ObserveStage(model.StateGeneratingImage, u.now().Sub(started))
	if err != nil {
		return fail(model.StateGeneratingImage, err)
	}
	if cover == nil || (!cover.HasData() && cover.URL == "") {
		return fail(model.StateGeneratingImage, fmt.Errorf("%w: 画像が返されませんでした", model.ErrImageGenerationFailed))
	}
	observer.OnCoverGenerated(cover)
	log.Info("✅ 表紙画像生成完了", zap.Bool("has_data", cover.HasData()))

	// Step 3: アップロードと保存
	observer.OnStateChange(model.StatePersisting)
	started = u.now()
	coverURL, err := u.persistence.Persist(ctx, story, joined, cover)
	u.metrics.ObserveStage(model.StatePersisting, u.now().Sub(started))
	if err != nil {
		return fail(model.StatePersisting, err)
	}

	result := &model.GeneratedStory{
		Title:    story.Title,
		Content:  story.Content,
		CoverURL: coverURL,
		Emojis:   joined,
	}
	observer.OnStateChange(model.StateComplete)
	run.State = model.StateComplete
	run.CoverURL = coverURL
	u.finish(ctx, run)

	log.Info("💾 物語を保存しました", zap.String("title", result.Title), zap.String("cover_url", coverURL))
	return result, nil
}

func (u *storyGenerationUseCaseImpl) validate(filled []string) error {
	if len(filled) < u.limits.MinEmojis {
		return &model.ValidationError{
			Field:   "emojis",
			Message: fmt.Sprintf("Please add at least %d emojis to generate a story!", u.limits.MinEmojis),
		}
	}
	if len(filled) > u.limits.MaxEmojis {
		return &model.ValidationError{
			Field:   "emojis",
			Message: fmt.Sprintf("You can use up to %d emojis in a story!", u.limits.MaxEmojis),
		}
	}
	return nil
}

// finish は終端状態をメトリクスと実行ログに記録する（記録の失敗は実行結果に影響しない）
func (u *storyGenerationUseCaseImpl) finish(ctx context.Context, run *model.GenerationRun) {
	run.FinishedAt = u.now()
	u.metrics.RecordRun(run.State, run.FailedStage)

	if u.runRepo == nil {
		return
	}
	if err := u.runRepo.Save(ctx, run); err != nil {
		u.logger.Warn("⚠️ 実行ログの保存に失敗", zap.String("run_id", run.RunID), zap.Error(err))
	}
}

// IsValidationError はエラーが送信前の検証エラーかどうかを判定する
func IsValidationError(err error) (*model.ValidationError, bool) {
	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr, true
	}
	return nil, false
}
