package database

import (
	"fmt"

	"github.com/supabase-community/supabase-go"
)

// SupabaseConfig はSupabaseへの接続設定
type SupabaseConfig struct {
	URL     string
	AnonKey string
}

// SupabaseClient Supabaseクライアントのラッパー
// 起動時に1度だけ作成し、ゲートウェイと読み取り側で共有する
type SupabaseClient struct {
	Client *supabase.Client
	url    string
}

// NewSupabaseClient 新しいSupabaseクライアントを作成
func NewSupabaseClient(cfg SupabaseConfig) (*SupabaseClient, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("SUPABASE_URLが設定されていません")
	}
	if cfg.AnonKey == "" {
		return nil, fmt.Errorf("SUPABASE_ANON_KEYが設定されていません")
	}

	client, err := supabase.NewClient(cfg.URL, cfg.AnonKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("Supabaseクライアントの初期化に失敗: %w", err)
	}

	return &SupabaseClient{
		Client: client,
		url:    cfg.URL,
	}, nil
}

// GetClient Supabaseクライアントを取得
func (sc *SupabaseClient) GetClient() *supabase.Client {
	return sc.Client
}

// URL 接続先のプロジェクトURLを返す
func (sc *SupabaseClient) URL() string {
	return sc.url
}

// HealthCheck クライアントの初期化確認
func (sc *SupabaseClient) HealthCheck() error {
	if sc == nil || sc.Client == nil {
		return fmt.Errorf("Supabaseクライアントが初期化されていません")
	}
	return nil
}
