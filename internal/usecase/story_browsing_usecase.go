package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"EmojiStory-App/internal/domain/model"
	"EmojiStory-App/internal/domain/repository"
)

// DefaultDetailCacheTTL は物語詳細のキャッシュ期間
const DefaultDetailCacheTTL = 10 * time.Minute

type StoryBrowsingUseCase interface {
	// ListStories は保存済みの物語を作成日時の降順で返す
	ListStories(ctx context.Context) ([]model.StoryRecord, error)

	// GetStory は指定IDの物語を返す。存在しないIDはmodel.ErrStoryNotFound
	GetStory(ctx context.Context, id string) (*model.StoryRecord, error)
}

// storyBrowsingUseCaseImpl はStoryBrowsingUseCaseの実装
type storyBrowsingUseCaseImpl struct {
	stories repository.StoryRepository
	cache   *cache.Cache
	group   singleflight.Group
	logger  *zap.Logger
}

// NewStoryBrowsingUseCase は新しいStoryBrowsingUseCaseを作成
func NewStoryBrowsingUseCase(stories repository.StoryRepository, cacheTTL time.Duration, logger *zap.Logger) StoryBrowsingUseCase {
	if cacheTTL <= 0 {
		cacheTTL = DefaultDetailCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &storyBrowsingUseCaseImpl{
		stories: stories,
		cache:   cache.New(cacheTTL, 2*cacheTTL),
		logger:  logger.Named("browsing"),
	}
}

func (u *storyBrowsingUseCaseImpl) ListStories(ctx context.Context) ([]model.StoryRecord, error) {
	stories, err := u.stories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("物語一覧の取得に失敗: %w", err)
	}

	// バックエンドの並び順に依存しない
	sort.SliceStable(stories, func(i, j int) bool {
		return stories[i].CreatedAt.After(stories[j].CreatedAt)
	})
	return stories, nil
}

func (u *storyBrowsingUseCaseImpl) GetStory(ctx context.Context, id string) (*model.StoryRecord, error) {
	if cached, ok := u.cache.Get(id); ok {
		story := cached.(model.StoryRecord)
		return &story, nil
	}

	// 同じIDへの同時アクセスは1回の取得にまとめる
	// 共有される取得は最初の呼び出し元のキャンセルに影響されない
	fetchCtx := context.WithoutCancel(ctx)
	v, err, shared := u.group.Do(id, func() (interface{}, error) {
		story, err := u.stories.GetByID(fetchCtx, id)
		if err != nil {
			return nil, err
		}
		u.cache.SetDefault(id, *story)
		return *story, nil
	})
	if err != nil {
		if !errors.Is(err, model.ErrStoryNotFound) {
			u.logger.Error("❌ 物語の取得に失敗", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}
	if shared {
		u.logger.Debug("物語の取得を共有", zap.String("id", id))
	}

	story := v.(model.StoryRecord)
	return &story, nil
}
