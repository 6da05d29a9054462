package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"EmojiStory-App/internal/application"
	"EmojiStory-App/internal/config"
	"EmojiStory-App/internal/database"
	domainRepo "EmojiStory-App/internal/domain/repository"
	"EmojiStory-App/internal/domain/service"
	"EmojiStory-App/internal/handler"
	"EmojiStory-App/internal/infrastructure/ai"
	infraDB "EmojiStory-App/internal/infrastructure/database"
	infraFirestore "EmojiStory-App/internal/infrastructure/firestore"
	"EmojiStory-App/internal/infrastructure/image"
	"EmojiStory-App/internal/infrastructure/speech"
	"EmojiStory-App/internal/logger"
	"EmojiStory-App/internal/metrics"
	"EmojiStory-App/internal/repository"
	"EmojiStory-App/internal/usecase"
)

func main() {
	dotenvErr := config.LoadDotEnv()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("⚠️  設定の読み込みに失敗しました: %v\n", err)
		fmt.Println("必要な環境変数: SUPABASE_URL, SUPABASE_ANON_KEY")
		fmt.Println(".envファイルを作成するか、環境変数を設定してください")
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:      cfg.LogLevel,
		Encoding:   cfg.LogEncoding,
		OutputPath: cfg.LogOutputPath,
	})
	if err != nil {
		fmt.Printf("ロガーの初期化に失敗しました: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	if dotenvErr != nil {
		log.Warn("⚠️ .envファイルが見つかりません。システムの環境変数を使用します")
	}
	cfg.LogSummary(log)

	ctx := context.Background()
	httpClient := &http.Client{Timeout: cfg.HTTPClientTimeout}

	// 外部接続
	log.Info("Supabaseクライアントを初期化中...")
	supabaseClient, err := database.NewSupabaseClient(database.SupabaseConfig{
		URL:     cfg.SupabaseURL,
		AnonKey: cfg.SupabaseAnonKey,
	})
	if err != nil {
		log.Fatal("❌ Supabaseクライアント初期化失敗", zap.Error(err))
	}
	if err := supabaseClient.HealthCheck(); err != nil {
		log.Fatal("❌ Supabaseヘルスチェック失敗", zap.Error(err))
	}
	log.Info("✅ Supabase接続準備完了")

	var stories domainRepo.StoryRepository
	switch strings.ToLower(cfg.StoryRepository) {
	case "postgres":
		pgClient, err := infraDB.NewPostgreSQLClientWithRetry(ctx, infraDB.PostgresConfig{
			DSN:         cfg.PostgresDSN,
			SupabaseURL: cfg.SupabaseURL,
			Password:    cfg.SupabaseDBPassword,
		}, cfg.DBConnectRetries, cfg.DBConnectInterval, log)
		if err != nil {
			log.Fatal("❌ PostgreSQL接続失敗", zap.Error(err))
		}
		defer func() { _ = pgClient.Close() }()
		stories = repository.NewPostgresStoryRepository(pgClient, cfg.StoryTable)
	default:
		stories = repository.NewSupabaseStoryRepository(supabaseClient, cfg.StoryTable)
	}
	coverStorage := repository.NewSupabaseCoverStorage(supabaseClient, cfg.StorageBucket)

	var runRepo domainRepo.GenerationRunRepository
	if cfg.FirestoreEnabled() {
		fsClient, err := infraFirestore.NewFirestoreClient(ctx, infraFirestore.Config{
			ProjectID:       cfg.FirestoreProjectID,
			CredentialsFile: cfg.FirestoreCredentialsFile,
			EmulatorHost:    cfg.FirestoreEmulatorHost,
		}, log)
		if err != nil {
			log.Warn("⚠️ Firestore初期化失敗。実行ログは記録しません", zap.Error(err))
		} else {
			defer func() { _ = fsClient.Close() }()
			runRepo = repository.NewFirestoreGenerationRunRepository(fsClient.GetClient(), cfg.GenerationRunTTLHours, log)
		}
	}

	// 生成パイプライン
	textModel, err := ai.NewTextModel(ai.TextModelConfig{
		Provider:      cfg.TextProvider,
		GeminiAPIKey:  cfg.GeminiAPIKey,
		GeminiBaseURL: cfg.GeminiBaseURL,
		GeminiModel:   cfg.GeminiModel,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		OpenAIModel:   cfg.OpenAIModel,
		OllamaURL:     cfg.OllamaURL,
		OllamaModel:   cfg.OllamaModel,
	}, httpClient)
	if err != nil {
		log.Fatal("❌ テキストモデル初期化失敗", zap.Error(err))
	}
	promptCfg := ai.StoryPromptConfig{
		WordCount:       cfg.StoryWordCount,
		Temperature:     cfg.StoryTemperature,
		MaxOutputTokens: cfg.StoryMaxOutputTokens,
	}
	storyGenerator := ai.NewStoryGenerator(textModel, promptCfg, log)

	functionURL := cfg.ImageFunctionURL
	if functionURL == "" {
		functionURL = fmt.Sprintf("http://localhost:%s/functions/v1/generate-image", cfg.Port)
	}
	coverGenerator, err := image.NewCoverImageRepository(ctx, image.CoverGeneratorConfig{
		Provider:         cfg.ImageProvider,
		WorkerURL:        cfg.ImageWorkerURL,
		WorkerModel:      cfg.ImageWorkerModel,
		FunctionURL:      functionURL,
		RunwareAPIKey:    cfg.RunwareAPIKey,
		RunwareURL:       cfg.RunwareURL,
		RunwareModel:     cfg.RunwareModel,
		GeminiAPIKey:     cfg.GeminiAPIKey,
		GeminiImageModel: cfg.GeminiImageModel,
	}, httpClient)
	if err != nil {
		log.Fatal("❌ 画像生成クライアント初期化失敗", zap.Error(err))
	}

	var generationMetrics *metrics.GenerationMetrics
	if cfg.MetricsEnabled {
		generationMetrics = metrics.NewGenerationMetrics(nil)
	}

	persistence := service.NewStoryPersistenceService(coverStorage, stories, image.NewHTTPCoverFetcher(httpClient), log)
	generation := usecase.NewStoryGenerationUseCase(
		storyGenerator,
		coverGenerator,
		persistence,
		runRepo,
		generationMetrics,
		usecase.GenerationLimits{MinEmojis: cfg.MinEmojis, MaxEmojis: cfg.MaxEmojis},
		log,
	)
	browsing := usecase.NewStoryBrowsingUseCase(stories, cfg.DetailCacheTTL, log)
	sessions := application.NewSessionService(generation, application.SessionConfig{
		TTL:                     cfg.SessionTTL,
		MaxEmojis:               cfg.MaxEmojis,
		ClearSelectionOnSuccess: cfg.ClearSelectionOnSuccess,
	}, log)
	narration := service.NewNarrationService(speech.NewCommandSpeaker(cfg.NarrationCommand), cfg.NarrationRate, log)

	// 中継エンドポイント（OpenAIキーがあればOpenAIで生成する）
	functionStories := storyGenerator
	if cfg.OpenAIAPIKey != "" && cfg.TextProvider != "openai" {
		functionStories = ai.NewStoryGenerator(
			ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, httpClient),
			promptCfg, log)
	}
	var functionImages handler.ImageURLGenerator
	if cfg.RunwareAPIKey != "" {
		functionImages = image.NewRunwareClient(cfg.RunwareAPIKey, cfg.RunwareURL, cfg.RunwareModel, httpClient)
	}

	// HTTPサーバー
	gin.SetMode(gin.ReleaseMode)
	if cfg.Env == "development" {
		gin.SetMode(gin.DebugMode)
	}
	router := handler.NewRouter(handler.Handlers{
		Session:   handler.NewSessionHandler(sessions),
		Stories:   handler.NewStoriesHandler(browsing),
		Narration: handler.NewNarrationHandler(narration, browsing),
		Functions: handler.NewFunctionsHandler(functionStories, functionImages, log),
	}, handler.RouterConfig{
		AllowedOrigins:       cfg.CORSAllowedOrigins,
		EnableMetrics:        cfg.MetricsEnabled,
		GenerateRateInterval: cfg.GenerateRateInterval,
		GenerateRateBurst:    cfg.GenerateRateBurst,
	}, log)

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("🚀 EmojiStory-App サーバー起動", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ HTTPサーバーエラー", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("サーバーを停止しています...")

	narration.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("❌ HTTPサーバーの停止に失敗", zap.Error(err))
	}
	log.Info("✅ サーバーを停止しました")
}
