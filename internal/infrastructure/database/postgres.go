package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// PostgresConfig はPostgreSQL直接接続の設定
type PostgresConfig struct {
	// DSN が指定されていればそのまま使う
	DSN string
	// SupabaseURL とPasswordからSupabaseのプーラー接続文字列を組み立てる
	SupabaseURL string
	Password    string
}

// PostgreSQLClient PostgreSQL直接接続クライアント
type PostgreSQLClient struct {
	DB *sql.DB
}

// BuildDSN は設定から接続文字列を作成
func (c PostgresConfig) BuildDSN() (string, error) {
	if c.DSN != "" {
		return c.DSN, nil
	}
	if c.SupabaseURL == "" {
		return "", fmt.Errorf("SUPABASE_URLが設定されていません")
	}
	if c.Password == "" {
		return "", fmt.Errorf("SUPABASE_DB_PASSWORDが設定されていません")
	}

	// https://xxx.supabase.co -> xxx.supabase.co
	u, err := url.Parse(c.SupabaseURL)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("SUPABASE_URLが不正です: %s", c.SupabaseURL)
	}
	host := strings.TrimPrefix(u.Host, "db.")

	return fmt.Sprintf(
		"host=db.%s port=6543 user=postgres password=%s dbname=postgres sslmode=require",
		host, c.Password,
	), nil
}

// NewPostgreSQLClient 新しいPostgreSQLクライアントを作成
func NewPostgreSQLClient(ctx context.Context, cfg PostgresConfig) (*PostgreSQLClient, error) {
	connStr, err := cfg.BuildDSN()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("PostgreSQL接続の初期化に失敗: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	// 接続テスト
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("PostgreSQLへの接続に失敗: %w", err)
	}

	return &PostgreSQLClient{
		DB: db,
	}, nil
}

// NewPostgreSQLClientWithRetry は接続に失敗した場合にリトライする
func NewPostgreSQLClientWithRetry(ctx context.Context, cfg PostgresConfig, maxRetries int, interval time.Duration, logger *zap.Logger) (*PostgreSQLClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		client, err := NewPostgreSQLClient(ctx, cfg)
		if err == nil {
			if attempt > 1 {
				logger.Info("✅ PostgreSQL接続成功", zap.Int("attempt", attempt))
			}
			return client, nil
		}
		lastErr = err
		logger.Warn("⚠️ PostgreSQL接続失敗、リトライします",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", maxRetries),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}
	return nil, fmt.Errorf("PostgreSQLへの接続を%d回試行しましたが失敗: %w", maxRetries, lastErr)
}

// Close データベース接続を閉じる
func (pc *PostgreSQLClient) Close() error {
	if pc.DB != nil {
		return pc.DB.Close()
	}
	return nil
}

// HealthCheck データベース接続のヘルスチェック
func (pc *PostgreSQLClient) HealthCheck(ctx context.Context) error {
	if pc.DB == nil {
		return fmt.Errorf("PostgreSQLクライアントが初期化されていません")
	}
	return pc.DB.PingContext(ctx)
}
