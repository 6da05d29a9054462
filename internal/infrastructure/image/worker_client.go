package image

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"EmojiStory-App/internal/domain/helper"
	"EmojiStory-App/internal/domain/model"
	"EmojiStory-App/internal/domain/repository"
)

const (
	defaultWorkerURL   = "https://ai-image-api.xeven.workers.dev/img"
	defaultWorkerModel = "flux-schnell"
)

// workerCoverGenerator はクエリパラメータで指定したプロンプトから画像バイナリを返すエンドポイントを使う
type workerCoverGenerator struct {
	endpoint   string
	model      string
	httpClient *http.Client
}

// NewWorkerCoverGenerator は新しいworkerCoverGeneratorを作成
func NewWorkerCoverGenerator(endpoint, imageModel string, httpClient *http.Client) repository.CoverImageRepository {
	if endpoint == "" {
		endpoint = defaultWorkerURL
	}
	if imageModel == "" {
		imageModel = defaultWorkerModel
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &workerCoverGenerator{
		endpoint:   endpoint,
		model:      imageModel,
		httpClient: httpClient,
	}
}

// GenerateCover は表紙画像を生成し、バイナリを保持したCoverを返す
func (g *workerCoverGenerator) GenerateCover(ctx context.Context, title, openingLine string) (*model.Cover, error) {
	query := url.Values{}
	query.Set("model", g.model)
	query.Set("prompt", BuildCoverPrompt(title, openingLine))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: HTTPリクエストの作成に失敗: %w", model.ErrImageGenerationFailed, err)
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: APIリクエストに失敗: %w", model.ErrImageGenerationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", model.ErrImageGenerationFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: レスポンスの読み取りに失敗: %w", model.ErrImageGenerationFailed, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: 画像データが空です", model.ErrImageGenerationFailed)
	}

	return &model.Cover{
		Data:     data,
		MimeType: helper.DetectCoverMimeType(resp.Header.Get("Content-Type"), data),
	}, nil
}
