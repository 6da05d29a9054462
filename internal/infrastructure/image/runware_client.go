package image

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"EmojiStory-App/internal/domain/model"
)

const (
	defaultRunwareURL   = "https://api.runware.ai/v1"
	defaultRunwareModel = "runware:100@1"

	runwareTaskAuthentication = "authentication"
	runwareTaskImageInference = "imageInference"
)

// RunwareClient はRunwareのタスクAPIクライアント
type RunwareClient struct {
	apiKey     string
	endpoint   string
	model      string
	httpClient *http.Client
}

// runwareTask はリクエスト配列の1要素（認証タスクと推論タスクで共用）
type runwareTask struct {
	TaskType       string `json:"taskType"`
	APIKey         string `json:"apiKey,omitempty"`
	TaskUUID       string `json:"taskUUID,omitempty"`
	PositivePrompt string `json:"positivePrompt,omitempty"`
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
	Model          string `json:"model,omitempty"`
	NumberResults  int    `json:"numberResults,omitempty"`
	OutputFormat   string `json:"outputFormat,omitempty"`
}

type runwareResponse struct {
	Data []struct {
		TaskType string `json:"taskType"`
		TaskUUID string `json:"taskUUID"`
		ImageURL string `json:"imageURL"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// NewRunwareClient は新しいRunwareClientを作成
func NewRunwareClient(apiKey, endpoint, imageModel string, httpClient *http.Client) *RunwareClient {
	if endpoint == "" {
		endpoint = defaultRunwareURL
	}
	if imageModel == "" {
		imageModel = defaultRunwareModel
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &RunwareClient{
		apiKey:     apiKey,
		endpoint:   endpoint,
		model:      imageModel,
		httpClient: httpClient,
	}
}

// GenerateCover はタイトルから挿絵を生成し、ホストされたURLを持つCoverを返す
func (c *RunwareClient) GenerateCover(ctx context.Context, title, _ string) (*model.Cover, error) {
	imageURL, err := c.GenerateImage(ctx, title)
	if err != nil {
		return nil, err
	}
	return &model.Cover{URL: imageURL, MimeType: "image/webp"}, nil
}

// GenerateImage はタイトルを埋め込んだプロンプトで1枚生成し、そのURLを返す
func (c *RunwareClient) GenerateImage(ctx context.Context, title string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: RUNWARE_API_KEYが設定されていません", model.ErrImageGenerationFailed)
	}

	tasks := []runwareTask{
		{
			TaskType: runwareTaskAuthentication,
			APIKey:   c.apiKey,
		},
		{
			TaskType:       runwareTaskImageInference,
			TaskUUID:       uuid.NewString(),
			PositivePrompt: BuildStorybookPrompt(title),
			Width:          1024,
			Height:         1024,
			Model:          c.model,
			NumberResults:  1,
			OutputFormat:   "WEBP",
		},
	}

	body, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("%w: リクエストのシリアライズに失敗: %w", model.ErrImageGenerationFailed, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: HTTPリクエストの作成に失敗: %w", model.ErrImageGenerationFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: APIリクエストに失敗: %w", model.ErrImageGenerationFailed, err)
	}
	defer resp.Body.Close()

	var out runwareResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: レスポンスのパースに失敗 (status: %d): %w", model.ErrImageGenerationFailed, resp.StatusCode, err)
	}
	if len(out.Errors) > 0 {
		return "", fmt.Errorf("%w: %s", model.ErrImageGenerationFailed, out.Errors[0].Message)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d", model.ErrImageGenerationFailed, resp.StatusCode)
	}

	for _, item := range out.Data {
		if item.TaskType == runwareTaskImageInference && item.ImageURL != "" {
			return item.ImageURL, nil
		}
	}
	return "", fmt.Errorf("%w: imageInferenceの結果がありません", model.ErrImageGenerationFailed)
}
