package repository

import (
	"EmojiStory-App/internal/domain/model"
	"context"
)

// StoryGenerationRepository は絵文字から物語のタイトルと本文を生成する責務を持つリポジトリインターフェース
type StoryGenerationRepository interface {
	// GenerateStory は絵文字を全て使った短い物語を生成する
	GenerateStory(ctx context.Context, emojis []string) (*model.StoryText, error)
}

// CoverImageRepository は物語の表紙画像を生成するリポジトリインターフェース
type CoverImageRepository interface {
	// GenerateCover はタイトル（と冒頭の一文）から表紙画像を生成する
	GenerateCover(ctx context.Context, title, openingLine string) (*model.Cover, error)
}
