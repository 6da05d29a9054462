package repository

import (
	"EmojiStory-App/internal/domain/model"
	"context"
)

// GenerationRunRepository はパイプライン実行記録の保存先
type GenerationRunRepository interface {
	Save(ctx context.Context, run *model.GenerationRun) error
}
