package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://project.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon-key")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "emoji-story", cfg.StorageBucket)
	assert.Equal(t, "stories", cfg.StoryTable)
	assert.Equal(t, "supabase", cfg.StoryRepository)
	assert.Equal(t, "gemini", cfg.TextProvider)
	assert.Equal(t, "worker", cfg.ImageProvider)
	assert.Equal(t, "flux-schnell", cfg.ImageWorkerModel)
	assert.Equal(t, 2, cfg.MinEmojis)
	assert.Equal(t, 5, cfg.MaxEmojis)
	assert.Equal(t, 350, cfg.StoryWordCount)
	assert.Equal(t, float32(0.4), cfg.StoryTemperature)
	assert.Equal(t, 500, cfg.StoryMaxOutputTokens)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 10*time.Minute, cfg.DetailCacheTTL)
	assert.Equal(t, time.Duration(0), cfg.HTTPClientTimeout)
	assert.Equal(t, 0.9, cfg.NarrationRate)
	assert.Equal(t, 72, cfg.GenerationRunTTLHours)
	assert.False(t, cfg.FirestoreEnabled())
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_ANON_KEY", "")
	os.Unsetenv("SUPABASE_URL")
	os.Unsetenv("SUPABASE_ANON_KEY")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("MAX_EMOJIS", "7")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,https://emoji.example.com")
	t.Setenv("FIRESTORE_PROJECT_ID", "emoji-story")
	t.Setenv("SESSION_TTL", "5m")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.MaxEmojis)
	assert.Equal(t, []string{"http://localhost:5173", "https://emoji.example.com"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.FirestoreEnabled())
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
}

func TestValidate(t *testing.T) {
	setRequired(t)

	t.Run("max below min", func(t *testing.T) {
		t.Setenv("MAX_EMOJIS", "1")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("temperature out of range", func(t *testing.T) {
		t.Setenv("STORY_TEMPERATURE", "2.5")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("postgres without dsn", func(t *testing.T) {
		t.Setenv("STORY_REPOSITORY", "postgres")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("postgres with dsn", func(t *testing.T) {
		t.Setenv("STORY_REPOSITORY", "postgres")
		t.Setenv("POSTGRES_DSN", "postgres://localhost/stories")
		_, err := LoadConfig()
		assert.NoError(t, err)
	})

	t.Run("unknown repository", func(t *testing.T) {
		t.Setenv("STORY_REPOSITORY", "mongo")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("EMOJI_STORY_DOTENV_TEST=loaded\n"), 0o600))
	t.Setenv("EMOJI_STORY_DOTENV_TEST", "")
	os.Unsetenv("EMOJI_STORY_DOTENV_TEST")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("EMOJI_STORY_DOTENV_TEST"))

	assert.Error(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}
