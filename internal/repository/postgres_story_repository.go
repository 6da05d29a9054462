package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"EmojiStory-App/internal/domain/model"
	"EmojiStory-App/internal/domain/repository"
	"EmojiStory-App/internal/infrastructure/database"
)

// PostgresStoryRepository はPostgreSQLに直接接続してstoriesテーブルにアクセスする
type PostgresStoryRepository struct {
	db    *sql.DB
	table string
}

// NewPostgresStoryRepository 新しいPostgresStoryRepositoryを作成
func NewPostgresStoryRepository(client *database.PostgreSQLClient, table string) repository.StoryRepository {
	return newPostgresStoryRepository(client.DB, table)
}

func newPostgresStoryRepository(db *sql.DB, table string) *PostgresStoryRepository {
	if table == "" {
		table = model.DefaultStoryTable
	}
	return &PostgresStoryRepository{
		db:    db,
		table: pq.QuoteIdentifier(table),
	}
}

func (r *PostgresStoryRepository) Insert(ctx context.Context, story *model.StoryInsert) error {
	query := fmt.Sprintf(`INSERT INTO %s (title, content, emojis, cover_url) VALUES ($1, $2, $3, $4)`, r.table)
	if _, err := r.db.ExecContext(ctx, query, story.Title, story.Content, story.Emojis, story.CoverURL); err != nil {
		return fmt.Errorf("%w: %w", model.ErrStoryInsertFailed, describePQError(err))
	}
	return nil
}

func (r *PostgresStoryRepository) List(ctx context.Context) ([]model.StoryRecord, error) {
	query := fmt.Sprintf(`
		SELECT id::text, title, content, COALESCE(emojis, ''), COALESCE(cover_url, ''), created_at
		FROM %s
		ORDER BY created_at DESC`, r.table)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("物語一覧の取得失敗: %w", describePQError(err))
	}
	defer rows.Close()

	stories := []model.StoryRecord{}
	for rows.Next() {
		var s model.StoryRecord
		if err := rows.Scan(&s.ID, &s.Title, &s.Content, &s.Emojis, &s.CoverURL, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("物語データのスキャン失敗: %w", err)
		}
		stories = append(stories, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("物語一覧の読み取り失敗: %w", err)
	}
	return stories, nil
}

func (r *PostgresStoryRepository) GetByID(ctx context.Context, id string) (*model.StoryRecord, error) {
	query := fmt.Sprintf(`
		SELECT id::text, title, content, COALESCE(emojis, ''), COALESCE(cover_url, ''), created_at
		FROM %s
		WHERE id::text = $1`, r.table)

	var s model.StoryRecord
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Title, &s.Content, &s.Emojis, &s.CoverURL, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) || isInvalidTextRepresentation(err) {
		return nil, fmt.Errorf("物語ID %s: %w", id, model.ErrStoryNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("物語データの取得失敗: %w", describePQError(err))
	}
	return &s, nil
}

// isInvalidTextRepresentation は列の型に変換できない値（22P02）かを判定する
func isInvalidTextRepresentation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "22P02"
}

// describePQError はPostgreSQLのエラーコードをメッセージに含める
func describePQError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("postgres %s (%s): %w", pqErr.Code, pqErr.Code.Name(), err)
	}
	return err
}
