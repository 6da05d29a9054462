package image

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"EmojiStory-App/internal/domain/model"
	"EmojiStory-App/internal/domain/repository"
)

const defaultGeminiImageModel = "gemini-2.0-flash-preview-image-generation"

// ContentGenerator は*genai.Modelsが満たすインターフェース
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// geminiCoverGenerator はGeminiの画像モデルで表紙を生成する
type geminiCoverGenerator struct {
	models ContentGenerator
	model  string
}

// NewGeminiCoverGenerator は新しいgeminiCoverGeneratorを作成
func NewGeminiCoverGenerator(models ContentGenerator, imageModel string) repository.CoverImageRepository {
	if imageModel == "" {
		imageModel = defaultGeminiImageModel
	}
	return &geminiCoverGenerator{
		models: models,
		model:  imageModel,
	}
}

// NewGenAIClient はGemini APIバックエンドのgenaiクライアントを作成
func NewGenAIClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genaiクライアントの初期化に失敗: %w", err)
	}
	return client, nil
}

// GenerateCover はレスポンス中の最初のインライン画像を返す
func (g *geminiCoverGenerator) GenerateCover(ctx context.Context, title, openingLine string) (*model.Cover, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: BuildCoverPrompt(title, openingLine)}},
		},
	}
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}

	resp, err := g.models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("%w: Gemini API呼び出しエラー: %w", model.ErrImageGenerationFailed, err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("%w: 有効な候補がありません", model.ErrImageGenerationFailed)
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			mimeType := part.InlineData.MIMEType
			if mimeType == "" {
				mimeType = model.DefaultCoverMime
			}
			return &model.Cover{Data: part.InlineData.Data, MimeType: mimeType}, nil
		}
	}
	return nil, fmt.Errorf("%w: 画像データが含まれていません", model.ErrImageGenerationFailed)
}
