package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
)

// Config はアプリケーション全体の設定（環境変数から読み込む）
type Config struct {
	// サーバー
	Port               string   `envconfig:"SERVER_PORT" default:"8080"`
	Env                string   `envconfig:"ENV" default:"development"`
	LogLevel           string   `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding        string   `envconfig:"LOG_ENCODING" default:"json"`
	LogOutputPath      string   `envconfig:"LOG_OUTPUT_PATH"`
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`
	MetricsEnabled     bool     `envconfig:"METRICS_ENABLED" default:"true"`

	// Supabase
	SupabaseURL     string `envconfig:"SUPABASE_URL" required:"true"`
	SupabaseAnonKey string `envconfig:"SUPABASE_ANON_KEY" required:"true"`
	StorageBucket   string `envconfig:"SUPABASE_STORAGE_BUCKET" default:"emoji-story"`
	StoryTable      string `envconfig:"STORY_TABLE" default:"stories"`

	// 物語の保存先（supabase または postgres）
	StoryRepository    string        `envconfig:"STORY_REPOSITORY" default:"supabase"`
	PostgresDSN        string        `envconfig:"POSTGRES_DSN"`
	SupabaseDBPassword string        `envconfig:"SUPABASE_DB_PASSWORD"`
	DBConnectRetries   int           `envconfig:"DB_CONNECT_RETRIES" default:"3"`
	DBConnectInterval  time.Duration `envconfig:"DB_CONNECT_INTERVAL" default:"2s"`

	// Firestore（生成実行ログ、未設定なら無効）
	FirestoreProjectID       string `envconfig:"FIRESTORE_PROJECT_ID"`
	FirestoreCredentialsFile string `envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirestoreEmulatorHost    string `envconfig:"FIRESTORE_EMULATOR_HOST"`
	GenerationRunTTLHours    int    `envconfig:"GENERATION_RUN_TTL_HOURS" default:"72"`

	// テキスト生成
	TextProvider         string  `envconfig:"TEXT_PROVIDER" default:"gemini"`
	GeminiAPIKey         string  `envconfig:"GEMINI_API_KEY"`
	GeminiBaseURL        string  `envconfig:"GEMINI_BASE_URL"`
	GeminiModel          string  `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	OpenAIAPIKey         string  `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL        string  `envconfig:"OPENAI_BASE_URL"`
	OpenAIModel          string  `envconfig:"OPENAI_MODEL" default:"gpt-4"`
	OllamaURL            string  `envconfig:"OLLAMA_BASE_URL" default:"http://localhost:11434"`
	OllamaModel          string  `envconfig:"OLLAMA_MODEL" default:"llama3.1"`
	StoryWordCount       int     `envconfig:"STORY_WORD_COUNT" default:"350"`
	StoryTemperature     float32 `envconfig:"STORY_TEMPERATURE" default:"0.4"`
	StoryMaxOutputTokens int     `envconfig:"STORY_MAX_OUTPUT_TOKENS" default:"500"`

	// 画像生成
	ImageProvider    string `envconfig:"IMAGE_PROVIDER" default:"worker"`
	ImageWorkerURL   string `envconfig:"IMAGE_WORKER_URL" default:"https://ai-image-api.xeven.workers.dev/img"`
	ImageWorkerModel string `envconfig:"IMAGE_WORKER_MODEL" default:"flux-schnell"`
	ImageFunctionURL string `envconfig:"IMAGE_FUNCTION_URL"`
	RunwareAPIKey    string `envconfig:"RUNWARE_API_KEY"`
	RunwareURL       string `envconfig:"RUNWARE_URL" default:"https://api.runware.ai/v1"`
	RunwareModel     string `envconfig:"RUNWARE_MODEL" default:"runware:100@1"`
	GeminiImageModel string `envconfig:"GEMINI_IMAGE_MODEL" default:"gemini-2.0-flash-preview-image-generation"`

	// 生成セッション
	MinEmojis               int           `envconfig:"MIN_EMOJIS" default:"2"`
	MaxEmojis               int           `envconfig:"MAX_EMOJIS" default:"5"`
	SessionTTL              time.Duration `envconfig:"SESSION_TTL" default:"30m"`
	ClearSelectionOnSuccess bool          `envconfig:"CLEAR_SELECTION_ON_SUCCESS" default:"false"`
	DetailCacheTTL          time.Duration `envconfig:"DETAIL_CACHE_TTL" default:"10m"`
	HTTPClientTimeout       time.Duration `envconfig:"HTTP_CLIENT_TIMEOUT" default:"0s"`
	GenerateRateInterval    time.Duration `envconfig:"GENERATE_RATE_INTERVAL" default:"2s"`
	GenerateRateBurst       int           `envconfig:"GENERATE_RATE_BURST" default:"3"`

	// 読み上げ
	NarrationCommand string  `envconfig:"NARRATION_COMMAND" default:"espeak"`
	NarrationRate    float64 `envconfig:"NARRATION_RATE" default:"0.9"`
}

// LoadDotEnv は.envファイルを読み込む（存在しない場合はエラーを返すが、呼び出し側では警告に留める）
func LoadDotEnv(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil {
		return fmt.Errorf(".envファイルの読み込みに失敗: %w", err)
	}
	return nil
}

// LoadConfig は環境変数から設定を読み込み、検証する
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("設定の読み込みに失敗: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate は設定値の組み合わせを検証する
func (c *Config) Validate() error {
	if c.MinEmojis < 1 {
		return fmt.Errorf("MIN_EMOJISは1以上である必要があります: %d", c.MinEmojis)
	}
	if c.MaxEmojis < c.MinEmojis {
		return fmt.Errorf("MAX_EMOJIS(%d)はMIN_EMOJIS(%d)以上である必要があります", c.MaxEmojis, c.MinEmojis)
	}
	if c.StoryTemperature < 0 || c.StoryTemperature > 2 {
		return fmt.Errorf("STORY_TEMPERATUREは0から2の範囲である必要があります: %v", c.StoryTemperature)
	}

	switch strings.ToLower(c.StoryRepository) {
	case "supabase":
	case "postgres":
		if c.PostgresDSN == "" && c.SupabaseDBPassword == "" {
			return fmt.Errorf("STORY_REPOSITORY=postgresにはPOSTGRES_DSNまたはSUPABASE_DB_PASSWORDが必要です")
		}
	default:
		return fmt.Errorf("不明なSTORY_REPOSITORY: %s", c.StoryRepository)
	}
	return nil
}

// FirestoreEnabled は生成実行ログを記録するかどうか
func (c *Config) FirestoreEnabled() bool {
	return c.FirestoreProjectID != ""
}

// LogSummary は秘密情報を伏せて主要な設定をログに出す
func (c *Config) LogSummary(logger *zap.Logger) {
	logger.Info("⚙️ 設定を読み込みました",
		zap.String("port", c.Port),
		zap.String("env", c.Env),
		zap.String("supabase_url", c.SupabaseURL),
		zap.String("story_repository", c.StoryRepository),
		zap.String("text_provider", c.TextProvider),
		zap.String("image_provider", c.ImageProvider),
		zap.Int("min_emojis", c.MinEmojis),
		zap.Int("max_emojis", c.MaxEmojis),
		zap.Bool("firestore_enabled", c.FirestoreEnabled()),
		zap.Bool("gemini_key_set", c.GeminiAPIKey != ""),
		zap.Bool("openai_key_set", c.OpenAIAPIKey != ""),
		zap.Bool("runware_key_set", c.RunwareAPIKey != ""),
	)
}
