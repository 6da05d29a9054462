package image

import (
	"context"
	"fmt"
	"net/http"

	"EmojiStory-App/internal/domain/repository"
)

// CoverGeneratorConfig は画像プロバイダの選択と接続設定
type CoverGeneratorConfig struct {
	Provider string

	WorkerURL   string
	WorkerModel string

	FunctionURL string

	RunwareAPIKey string
	RunwareURL    string
	RunwareModel  string

	GeminiAPIKey     string
	GeminiImageModel string
}

// NewCoverImageRepository は設定に応じたCoverImageRepositoryを作成
func NewCoverImageRepository(ctx context.Context, cfg CoverGeneratorConfig, httpClient *http.Client) (repository.CoverImageRepository, error) {
	switch cfg.Provider {
	case "", "worker":
		return NewWorkerCoverGenerator(cfg.WorkerURL, cfg.WorkerModel, httpClient), nil
	case "function":
		if cfg.FunctionURL == "" {
			return nil, fmt.Errorf("IMAGE_FUNCTION_URLが設定されていません")
		}
		return NewFunctionCoverGenerator(cfg.FunctionURL, httpClient), nil
	case "runware":
		if cfg.RunwareAPIKey == "" {
			return nil, fmt.Errorf("RUNWARE_API_KEYが設定されていません")
		}
		return NewRunwareClient(cfg.RunwareAPIKey, cfg.RunwareURL, cfg.RunwareModel, httpClient), nil
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEYが設定されていません")
		}
		client, err := NewGenAIClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		return NewGeminiCoverGenerator(client.Models, cfg.GeminiImageModel), nil
	default:
		return nil, fmt.Errorf("未対応の画像プロバイダ: %s", cfg.Provider)
	}
}
