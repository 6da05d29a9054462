package image

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"EmojiStory-App/internal/domain/model"
	"EmojiStory-App/internal/domain/repository"
)

// httpCoverFetcher はリモートURLの表紙画像を取得する
type httpCoverFetcher struct {
	httpClient *http.Client
}

// NewHTTPCoverFetcher は新しいhttpCoverFetcherを作成
func NewHTTPCoverFetcher(httpClient *http.Client) repository.CoverFetcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &httpCoverFetcher{httpClient: httpClient}
}

// Fetch は画像のバイナリとContent-Typeを返す
func (f *httpCoverFetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: HTTPリクエストの作成に失敗: %w", model.ErrCoverFetchFailed, err)
	}

	resp, err := f.httpClient.Do(httpReq)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", model.ErrCoverFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("%w: status %d", model.ErrCoverFetchFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: レスポンスの読み取りに失敗: %w", model.ErrCoverFetchFailed, err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}
