package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"EmojiStory-App/internal/domain/helper"
	"EmojiStory-App/internal/domain/model"
	"EmojiStory-App/internal/domain/repository"
)

// StoryPersistenceService は表紙画像のアップロードと物語の保存を行うゲートウェイ
type StoryPersistenceService interface {
	// Persist は表紙をアップロードし、物語を1行挿入して表紙の公開URLを返す
	// いずれかの段階で失敗した場合は挿入を行わない
	Persist(ctx context.Context, story *model.StoryText, emojis string, cover *model.Cover) (string, error)
}

type storyPersistenceService struct {
	storage repository.CoverStorage
	stories repository.StoryRepository
	fetcher repository.CoverFetcher
	now     func() time.Time
	logger  *zap.Logger
}

// NewStoryPersistenceService は新しいStoryPersistenceServiceを作成
func NewStoryPersistenceService(
	storage repository.CoverStorage,
	stories repository.StoryRepository,
	fetcher repository.CoverFetcher,
	logger *zap.Logger,
) StoryPersistenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &storyPersistenceService{
		storage: storage,
		stories: stories,
		fetcher: fetcher,
		now:     time.Now,
		logger:  logger.Named("persistence"),
	}
}

func (s *storyPersistenceService) Persist(ctx context.Context, story *model.StoryText, emojis string, cover *model.Cover) (string, error) {
	if cover == nil || (!cover.HasData() && cover.URL == "") {
		return "", fmt.Errorf("%w: 表紙画像がありません", model.ErrCoverFetchFailed)
	}

	// Step 1: ファイル名
	name := helper.SafeFileName(story.Title, s.now())

	// Step 2: 画像バイナリ
	data, mimeType, err := s.coverBytes(ctx, cover)
	if err != nil {
		return "", err
	}
	path := helper.CoverObjectPath(name, mimeType)

	// Step 3: アップロード
	storedPath, err := s.storage.Upload(ctx, path, data, model.UploadOptions{
		ContentType:  mimeType,
		CacheControl: model.CoverCacheControl,
		Upsert:       true,
	})
	if err != nil {
		return "", fmt.Errorf("表紙画像のアップロードに失敗: %w", err)
	}
	if storedPath == "" {
		storedPath = path
	}
	s.logger.Info("💾 表紙画像をアップロード", zap.String("path", storedPath), zap.Int("bytes", len(data)))

	// Step 4: 公開URL（解決できない場合はストレージ上のパス）
	coverURL := s.storage.PublicURL(storedPath)
	if coverURL == "" {
		coverURL = storedPath
	}

	// Step 5: 挿入は最後
	if err := s.stories.Insert(ctx, &model.StoryInsert{
		Title:    story.Title,
		Content:  story.Content,
		Emojis:   emojis,
		CoverURL: coverURL,
	}); err != nil {
		return "", fmt.Errorf("物語の保存に失敗: %w", err)
	}

	s.logger.Info("✅ 物語を保存", zap.String("title", story.Title), zap.String("cover_url", coverURL))
	return coverURL, nil
}

// coverBytes は保持済みのバイナリを優先し、なければURLから取得する
func (s *storyPersistenceService) coverBytes(ctx context.Context, cover *model.Cover) ([]byte, string, error) {
	if cover.HasData() {
		return cover.Data, helper.DetectCoverMimeType(cover.MimeType, cover.Data), nil
	}

	data, contentType, err := s.fetcher.Fetch(ctx, cover.URL)
	if err != nil {
		return nil, "", fmt.Errorf("表紙画像の取得に失敗: %w", err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: 画像データが空です", model.ErrCoverFetchFailed)
	}
	declared := contentType
	if declared == "" {
		declared = cover.MimeType
	}
	return data, helper.DetectCoverMimeType(declared, data), nil
}
