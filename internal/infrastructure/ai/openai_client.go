package ai

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = "gpt-4"

const storytellerSystemPrompt = "You are a creative storyteller. Always answer with a single JSON object and nothing else."

// OpenAIClient はOpenAI互換のChat Completions APIクライアント
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient は新しいOpenAIClientを作成
// baseURLを指定するとOpenRouterなどの互換エンドポイントを使える
func NewOpenAIClient(apiKey, baseURL, model string, httpClient *http.Client) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if httpClient != nil {
		config.HTTPClient = httpClient
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Name はプロバイダ名を返す
func (c *OpenAIClient) Name() string {
	return "openai"
}

// GenerateJSON はJSONモードでチャット補完を呼び出す
func (c *OpenAIClient) GenerateJSON(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: storytellerSystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   params.MaxOutputTokens,
		Temperature: params.Temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API呼び出しエラー: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("OpenAIから有効なレスポンスが返りませんでした")
	}
	return resp.Choices[0].Message.Content, nil
}
