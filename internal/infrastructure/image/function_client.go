package image

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"EmojiStory-App/internal/domain/model"
	"EmojiStory-App/internal/domain/repository"
)

// functionCoverGenerator は中継関数（POST {prompt} → {url}）経由で画像を生成する
type functionCoverGenerator struct {
	endpoint   string
	httpClient *http.Client
}

type functionImageRequest struct {
	Prompt string `json:"prompt"`
}

type functionImageResponse struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// NewFunctionCoverGenerator は新しいfunctionCoverGeneratorを作成
func NewFunctionCoverGenerator(endpoint string, httpClient *http.Client) repository.CoverImageRepository {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &functionCoverGenerator{
		endpoint:   endpoint,
		httpClient: httpClient,
	}
}

// GenerateCover はホストされた画像のURLを持つCoverを返す（バイナリは永続化時に取得）
func (g *functionCoverGenerator) GenerateCover(ctx context.Context, title, _ string) (*model.Cover, error) {
	body, err := json.Marshal(functionImageRequest{Prompt: coverTitle(title)})
	if err != nil {
		return nil, fmt.Errorf("%w: リクエストのシリアライズに失敗: %w", model.ErrImageGenerationFailed, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: HTTPリクエストの作成に失敗: %w", model.ErrImageGenerationFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: APIリクエストに失敗: %w", model.ErrImageGenerationFailed, err)
	}
	defer resp.Body.Close()

	var out functionImageResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d: %s", model.ErrImageGenerationFailed, resp.StatusCode, out.Error)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: レスポンスのパースに失敗: %w", model.ErrImageGenerationFailed, decodeErr)
	}
	if out.URL == "" {
		return nil, fmt.Errorf("%w: URLが返りませんでした", model.ErrImageGenerationFailed)
	}

	return &model.Cover{URL: out.URL}, nil
}
