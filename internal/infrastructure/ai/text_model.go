package ai

import (
	"context"
	"fmt"
	"net/http"
)

// TextModel はJSONを返すよう指示されたテキスト生成モデル
type TextModel interface {
	// GenerateJSON はプロンプトを送り、モデルが返した生のテキストを返す
	GenerateJSON(ctx context.Context, prompt string, params GenerationParams) (string, error)
	// Name はログ用のプロバイダ名
	Name() string
}

// GenerationParams はテキスト生成の設定
type GenerationParams struct {
	Temperature     float32
	MaxOutputTokens int
	// RequiredFields は出力スキーマで必須とする文字列フィールド
	RequiredFields []string
}

// TextModelConfig はプロバイダ選択と各プロバイダの接続設定
type TextModelConfig struct {
	Provider string

	GeminiAPIKey  string
	GeminiBaseURL string
	GeminiModel   string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	OllamaURL   string
	OllamaModel string
}

// NewTextModel は設定に応じたTextModelを作成
func NewTextModel(cfg TextModelConfig, httpClient *http.Client) (TextModel, error) {
	switch cfg.Provider {
	case "", "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEYが設定されていません")
		}
		return NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.GeminiModel, httpClient), nil
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEYが設定されていません")
		}
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, httpClient), nil
	case "ollama":
		return NewOllamaClient(cfg.OllamaURL, cfg.OllamaModel, httpClient)
	default:
		return nil, fmt.Errorf("未対応のテキストプロバイダ: %s", cfg.Provider)
	}
}
