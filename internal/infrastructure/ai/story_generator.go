package ai

import (
	"EmojiStory-App/internal/domain/helper"
	"EmojiStory-App/internal/domain/model"
	"EmojiStory-App/internal/domain/repository"
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// StoryPromptConfig は物語プロンプトと生成パラメータの設定
type StoryPromptConfig struct {
	WordCount       int
	Temperature     float32
	MaxOutputTokens int
}

// storyGenerator はTextModelを使用してStoryGenerationRepositoryを実装
type storyGenerator struct {
	model  TextModel
	cfg    StoryPromptConfig
	logger *zap.Logger
}

// NewStoryGenerator は新しいstoryGeneratorインスタンスを作成
func NewStoryGenerator(model TextModel, cfg StoryPromptConfig, logger *zap.Logger) repository.StoryGenerationRepository {
	if cfg.WordCount <= 0 {
		cfg.WordCount = 350
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = 500
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &storyGenerator{
		model:  model,
		cfg:    cfg,
		logger: logger.Named("story_generator"),
	}
}

// GenerateStory は絵文字から物語のタイトルと本文を生成する
func (g *storyGenerator) GenerateStory(ctx context.Context, emojis []string) (*model.StoryText, error) {
	if len(emojis) == 0 {
		return nil, fmt.Errorf("%w: 絵文字が指定されていません", model.ErrStoryGenerationFailed)
	}

	prompt := g.buildStoryPrompt(emojis)
	g.logger.Info("🤖 物語を生成中...",
		zap.String("provider", g.model.Name()),
		zap.String("emojis", model.JoinEmojis(emojis)))

	raw, err := g.model.GenerateJSON(ctx, prompt, GenerationParams{
		Temperature:     g.cfg.Temperature,
		MaxOutputTokens: g.cfg.MaxOutputTokens,
		RequiredFields:  []string{"title", "content"},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrStoryGenerationFailed, err)
	}

	story, err := helper.ExtractStoryText(raw)
	if err != nil {
		g.logger.Warn("⚠️ モデル出力の解析に失敗", zap.Int("raw_length", len(raw)), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", model.ErrStoryGenerationFailed, err)
	}

	g.logger.Info("✅ 物語生成完了", zap.String("title", story.Title), zap.Int("content_length", len(story.Content)))
	return story, nil
}

// buildStoryPrompt は物語生成用プロンプトを構築
func (g *storyGenerator) buildStoryPrompt(emojis []string) string {
	return fmt.Sprintf(`write a nice story. (nearly %d words) based on these emojis: %s.
Make it meaningful with a moral and twist in the end. Please choose a genre, such as science fiction, fantasy, or adventure, and craft a tale that incorporates all of the emojis in a creative and meaningful way. Be creative and try different genres and names from different cultures.
Return only a JSON object with exactly two string fields, "title" and "content", without any backticks or markdown formatting.`,
		g.cfg.WordCount,
		strings.Join(emojis, " "))
}
