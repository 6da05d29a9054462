package repository

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	storage_go "github.com/supabase-community/storage-go"

	"EmojiStory-App/internal/database"
	"EmojiStory-App/internal/domain/model"
	"EmojiStory-App/internal/domain/repository"
)

// SupabaseCoverStorage はSupabase Storageのバケットに表紙画像を保存する
type SupabaseCoverStorage struct {
	client *database.SupabaseClient
	bucket string
}

// NewSupabaseCoverStorage 新しいSupabaseCoverStorageを作成
func NewSupabaseCoverStorage(client *database.SupabaseClient, bucket string) repository.CoverStorage {
	if bucket == "" {
		bucket = model.DefaultCoverBucket
	}
	return &SupabaseCoverStorage{
		client: client,
		bucket: bucket,
	}
}

// Upload は画像をアップロードし、バケット内のパスを返す
func (s *SupabaseCoverStorage) Upload(ctx context.Context, path string, data []byte, opts model.UploadOptions) (string, error) {
	contentType := opts.ContentType
	cacheControl := opts.CacheControl
	upsert := opts.Upsert

	resp, err := s.client.GetClient().Storage.UploadFile(s.bucket, path, bytes.NewReader(data), storage_go.FileOptions{
		ContentType:  &contentType,
		CacheControl: &cacheControl,
		Upsert:       &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrCoverUploadFailed, err)
	}
	if resp.Key == "" {
		return "", fmt.Errorf("%w: ストレージからキーが返りませんでした", model.ErrCoverUploadFailed)
	}

	// Keyは "<bucket>/<path>" 形式
	return strings.TrimPrefix(resp.Key, s.bucket+"/"), nil
}

// PublicURL はバケット内パスの公開URLを返す
func (s *SupabaseCoverStorage) PublicURL(path string) string {
	if path == "" {
		return ""
	}
	return s.client.GetClient().Storage.GetPublicUrl(s.bucket, path).SignedURL
}
