package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "llama3.1"
)

// OllamaClient はローカルのOllamaサーバーを使うテキストモデル
type OllamaClient struct {
	client *api.Client
	model  string
}

// NewOllamaClient は新しいOllamaClientを作成
func NewOllamaClient(baseURL, model string, httpClient *http.Client) (*OllamaClient, error) {
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	// api.NewClientは /v1 なしのURLを要求する
	baseURL = strings.TrimSuffix(strings.TrimSuffix(baseURL, "/"), "/v1")
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("OllamaのURLが不正です: %w", err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if model == "" {
		model = defaultOllamaModel
	}
	return &OllamaClient{
		client: api.NewClient(parsedURL, httpClient),
		model:  model,
	}, nil
}

// Name はプロバイダ名を返す
func (c *OllamaClient) Name() string {
	return "ollama"
}

// GenerateJSON はJSONスキーマをformatに指定して生成する
func (c *OllamaClient) GenerateJSON(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	format, err := buildJSONSchema(params.RequiredFields)
	if err != nil {
		return "", fmt.Errorf("スキーマの作成に失敗: %w", err)
	}

	stream := false
	req := &api.ChatRequest{
		Model: c.model,
		Messages: []api.Message{
			{Role: "system", Content: storytellerSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Stream: &stream,
		Format: format,
		Options: map[string]interface{}{
			"temperature": params.Temperature,
			"num_predict": params.MaxOutputTokens,
		},
	}

	var content strings.Builder
	err = c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("Ollama API呼び出しエラー: %w", err)
	}
	if content.Len() == 0 {
		return "", fmt.Errorf("Ollamaから空のレスポンスが返りました")
	}
	return content.String(), nil
}

// buildJSONSchema は必須文字列フィールドを持つJSON Schemaを作る
func buildJSONSchema(fields []string) (json.RawMessage, error) {
	if len(fields) == 0 {
		return json.RawMessage(`"json"`), nil
	}
	props := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		props[f] = map[string]string{"type": "string"}
	}
	return json.Marshal(map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   fields,
	})
}
