package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc/status"

	"EmojiStory-App/internal/domain/model"
	"EmojiStory-App/internal/domain/repository"
)

const generationRunsCollection = "generationRuns"

// FirestoreGenerationRunRepository はパイプライン実行記録をFirestoreに保存する
// expireAtフィールドにTTLポリシーを設定して自動削除する
type FirestoreGenerationRunRepository struct {
	client   *firestore.Client
	ttlHours int
	logger   *zap.Logger
}

// NewFirestoreGenerationRunRepository 新しいFirestoreGenerationRunRepositoryを作成
func NewFirestoreGenerationRunRepository(client *firestore.Client, ttlHours int, logger *zap.Logger) *FirestoreGenerationRunRepository {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FirestoreGenerationRunRepository{
		client:   client,
		ttlHours: ttlHours,
		logger:   logger,
	}
}

var _ repository.GenerationRunRepository = (*FirestoreGenerationRunRepository)(nil)

// Save は実行記録を保存する。RunIDが空の場合は採番する
func (r *FirestoreGenerationRunRepository) Save(ctx context.Context, run *model.GenerationRun) error {
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}

	_, err := r.client.Collection(generationRunsCollection).Doc(run.RunID).Set(ctx, run.ToFirestoreGenerationRun(r.ttlHours))
	if err != nil {
		r.logger.Error("❌ 実行記録の保存に失敗",
			zap.String("run_id", run.RunID),
			zap.String("code", status.Code(err).String()),
			zap.Error(err))
		return fmt.Errorf("実行記録の保存に失敗しました: %w", err)
	}

	r.logger.Info("💾 実行記録を保存", zap.String("run_id", run.RunID), zap.String("state", string(run.State)), zap.Int("ttl_hours", r.ttlHours))
	return nil
}
