package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"EmojiStory-App/internal/domain/model"
	"EmojiStory-App/internal/domain/repository/mocks"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDRfake")

func newTestPersistence(t *testing.T) (*storyPersistenceService, *mocks.MockCoverStorage, *mocks.MockStoryRepository, *mocks.MockCoverFetcher) {
	storage := mocks.NewMockCoverStorage(t)
	stories := mocks.NewMockStoryRepository(t)
	fetcher := mocks.NewMockCoverFetcher(t)
	svc := NewStoryPersistenceService(storage, stories, fetcher, zaptest.NewLogger(t)).(*storyPersistenceService)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return svc, storage, stories, fetcher
}

func TestPersist_UsesHeldBytes(t *testing.T) {
	svc, storage, stories, fetcher := newTestPersistence(t)
	ctx := context.Background()

	storage.On("Upload", ctx, "public/moonlit.png", pngBytes, model.UploadOptions{
		ContentType:  "image/png",
		CacheControl: "90000",
		Upsert:       true,
	}).Return("public/moonlit.png", nil)
	storage.On("PublicURL", "public/moonlit.png").Return("https://cdn.example.com/moonlit.png")
	stories.On("Insert", ctx, &model.StoryInsert{
		Title:    "Moonlit",
		Content:  "...",
		Emojis:   "🌟🌙",
		CoverURL: "https://cdn.example.com/moonlit.png",
	}).Return(nil)

	url, err := svc.Persist(ctx, &model.StoryText{Title: "Moonlit", Content: "..."}, "🌟🌙", &model.Cover{Data: pngBytes, MimeType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/moonlit.png", url)

	fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
	storage.AssertExpectations(t)
	stories.AssertExpectations(t)
}

func TestPersist_FetchesRemoteCover(t *testing.T) {
	svc, storage, stories, fetcher := newTestPersistence(t)
	ctx := context.Background()

	fetcher.On("Fetch", ctx, "https://im.runware.ai/x.webp").Return([]byte("webp"), "image/webp", nil)
	storage.On("Upload", ctx, "public/1700000000000.webp", []byte("webp"), mock.Anything).Return("public/1700000000000.webp", nil)
	storage.On("PublicURL", "public/1700000000000.webp").Return("")
	stories.On("Insert", ctx, mock.MatchedBy(func(s *model.StoryInsert) bool {
		return s.CoverURL == "public/1700000000000.webp"
	})).Return(nil)

	// タイトルが空の場合はタイムスタンプ、公開URLが解決できない場合はパス
	url, err := svc.Persist(ctx, &model.StoryText{Title: "", Content: "..."}, "🐉", &model.Cover{URL: "https://im.runware.ai/x.webp"})
	require.NoError(t, err)
	assert.Equal(t, "public/1700000000000.webp", url)
}

func TestPersist_UploadFailureSkipsInsert(t *testing.T) {
	svc, storage, stories, _ := newTestPersistence(t)
	ctx := context.Background()

	storage.On("Upload", ctx, mock.Anything, mock.Anything, mock.Anything).Return("", model.ErrCoverUploadFailed)

	_, err := svc.Persist(ctx, &model.StoryText{Title: "Moonlit", Content: "..."}, "🌟🌙", &model.Cover{Data: pngBytes})
	assert.ErrorIs(t, err, model.ErrCoverUploadFailed)

	stories.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	storage.AssertNotCalled(t, "PublicURL", mock.Anything)
}

func TestPersist_FetchFailureSkipsUpload(t *testing.T) {
	svc, storage, stories, fetcher := newTestPersistence(t)
	ctx := context.Background()

	fetcher.On("Fetch", ctx, "https://gone.example.com/x.png").Return(nil, "", model.ErrCoverFetchFailed)

	_, err := svc.Persist(ctx, &model.StoryText{Title: "Moonlit", Content: "..."}, "🌟🌙", &model.Cover{URL: "https://gone.example.com/x.png"})
	assert.ErrorIs(t, err, model.ErrCoverFetchFailed)

	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	stories.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestPersist_InsertFailure(t *testing.T) {
	svc, storage, stories, _ := newTestPersistence(t)
	ctx := context.Background()

	storage.On("Upload", ctx, mock.Anything, mock.Anything, mock.Anything).Return("public/moonlit.png", nil)
	storage.On("PublicURL", mock.Anything).Return("https://cdn.example.com/moonlit.png")
	stories.On("Insert", ctx, mock.Anything).Return(errors.New("permission denied"))

	_, err := svc.Persist(ctx, &model.StoryText{Title: "Moonlit", Content: "..."}, "🌟🌙", &model.Cover{Data: pngBytes})
	assert.Error(t, err)
}

func TestPersist_MissingCover(t *testing.T) {
	svc, _, stories, _ := newTestPersistence(t)

	_, err := svc.Persist(context.Background(), &model.StoryText{Title: "Moonlit", Content: "..."}, "🌟🌙", nil)
	assert.ErrorIs(t, err, model.ErrCoverFetchFailed)
	stories.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}
