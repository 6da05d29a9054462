package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/supabase-community/postgrest-go"

	"EmojiStory-App/internal/database"
	"EmojiStory-App/internal/domain/model"
	"EmojiStory-App/internal/domain/repository"
)

// SupabaseStoryRepository はPostgREST経由でstoriesテーブルにアクセスする
type SupabaseStoryRepository struct {
	client *database.SupabaseClient
	table  string
}

// NewSupabaseStoryRepository 新しいSupabaseStoryRepositoryを作成
func NewSupabaseStoryRepository(client *database.SupabaseClient, table string) repository.StoryRepository {
	if table == "" {
		table = model.DefaultStoryTable
	}
	return &SupabaseStoryRepository{
		client: client,
		table:  table,
	}
}

func (r *SupabaseStoryRepository) Insert(ctx context.Context, story *model.StoryInsert) error {
	_, _, err := r.client.GetClient().From(r.table).Insert(story, false, "", "minimal", "").Execute()
	if err != nil {
		return fmt.Errorf("%w: 物語データの作成失敗: %w", model.ErrStoryInsertFailed, err)
	}
	return nil
}

func (r *SupabaseStoryRepository) List(ctx context.Context) ([]model.StoryRecord, error) {
	data, _, err := r.client.GetClient().From(r.table).
		Select("*", "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("物語一覧の取得失敗: %w", err)
	}

	stories := []model.StoryRecord{}
	if err := json.Unmarshal(data, &stories); err != nil {
		return nil, fmt.Errorf("物語データのJSONアンマーシャル失敗: %w", err)
	}
	return stories, nil
}

func (r *SupabaseStoryRepository) GetByID(ctx context.Context, id string) (*model.StoryRecord, error) {
	data, _, err := r.client.GetClient().From(r.table).Select("*", "", false).Eq("id", id).Execute()
	if err != nil {
		return nil, fmt.Errorf("物語データの取得失敗: %w", err)
	}

	var stories []model.StoryRecord
	if err := json.Unmarshal(data, &stories); err != nil {
		return nil, fmt.Errorf("物語データのJSONアンマーシャル失敗: %w", err)
	}

	if len(stories) == 0 {
		return nil, fmt.Errorf("物語ID %s: %w", id, model.ErrStoryNotFound)
	}
	return &stories[0], nil
}
