package repository

import (
	"EmojiStory-App/internal/domain/model"
	"context"
)

// StoryRepository はstoriesテーブルへのアクセスを提供する
type StoryRepository interface {
	// Insert は物語を1行挿入する（id, created_atはストレージ側で採番）
	Insert(ctx context.Context, story *model.StoryInsert) error
	// List は全ての物語をcreated_atの降順で返す
	List(ctx context.Context) ([]model.StoryRecord, error)
	// GetByID は指定IDの物語を返す。存在しない場合はmodel.ErrStoryNotFound
	GetByID(ctx context.Context, id string) (*model.StoryRecord, error)
}

// CoverStorage は表紙画像のオブジェクトストレージ
type CoverStorage interface {
	// Upload は画像をアップロードし、ストレージ上のパスを返す
	Upload(ctx context.Context, path string, data []byte, opts model.UploadOptions) (string, error)
	// PublicURL はパスの公開URLを返す（解決できない場合は空文字）
	PublicURL(path string) string
}

// CoverFetcher はURLから表紙画像のバイナリを取得する
type CoverFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, string, error)
}
