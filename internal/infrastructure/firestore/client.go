package firestore

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Config はFirestoreクライアントの設定
type Config struct {
	ProjectID       string
	CredentialsFile string
	// EmulatorHost が指定されている場合はエミュレータに接続する
	EmulatorHost string
}

type FirestoreClient struct {
	client *firestore.Client
}

func NewFirestoreClient(ctx context.Context, cfg Config, logger *zap.Logger) (*FirestoreClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("FIRESTORE_PROJECT_IDが設定されていません")
	}

	var opts []option.ClientOption
	switch {
	case cfg.EmulatorHost != "":
		// クライアントライブラリは環境変数でエミュレータを検出する
		if err := os.Setenv("FIRESTORE_EMULATOR_HOST", cfg.EmulatorHost); err != nil {
			return nil, fmt.Errorf("エミュレータ設定に失敗: %w", err)
		}
		logger.Info("🧪 Firestoreエミュレータを使用", zap.String("host", cfg.EmulatorHost))
	case cfg.CredentialsFile != "":
		if _, err := os.Stat(cfg.CredentialsFile); err != nil {
			logger.Warn("⚠️ 認証ファイルが見つかりません。デフォルト認証を使用します", zap.String("file", cfg.CredentialsFile))
		} else {
			logger.Info("📄 認証ファイルを使用", zap.String("file", cfg.CredentialsFile))
			opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
		}
	default:
		logger.Info("☁️ デフォルト認証を使用")
	}

	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("Firestoreクライアントの作成に失敗: %w", err)
	}
	logger.Info("✅ Firestoreクライアント初期化完了", zap.String("project_id", cfg.ProjectID))

	return &FirestoreClient{client: client}, nil
}

func (fc *FirestoreClient) Close() error {
	return fc.client.Close()
}

func (fc *FirestoreClient) GetClient() *firestore.Client {
	return fc.client
}
