package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.App.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Database.MongoURI)
	assert.Equal(t, "nobot", cfg.Database.MongoDB)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, DefaultFallbackMessage, cfg.AI.FallbackMessage)
	assert.Equal(t, 20*time.Second, cfg.AI.ResponderTimeout)
	assert.Equal(t, 1500, cfg.AI.DefaultReplyDelayMs)
	assert.Equal(t, 2000, cfg.AI.DefaultTypingDurationMs)
	assert.Equal(t, "Support Agent", cfg.AI.DefaultAgentName)
	assert.Equal(t, 20, cfg.WorkerPool.Size)
	assert.Equal(t, 1000, cfg.WorkerPool.QueueSize)
	assert.Same(t, cfg, Global)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "8088")
	t.Setenv("AI_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("MONGODB_URI", "memory")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8088", cfg.App.Port)
	assert.Equal(t, "openai", cfg.AI.Provider, "provider is normalized to lowercase")
	assert.Equal(t, "memory", cfg.Database.MongoURI)
	assert.Equal(t, "sk-test", cfg.AI.APIKey())
}

func TestAIConfig_APIKeySelection(t *testing.T) {
	cfg := AIConfig{Provider: "gemini", GeminiAPIKey: "g-key", OpenAIAPIKey: "o-key"}
	assert.Equal(t, "g-key", cfg.APIKey())

	cfg.Provider = "openai"
	assert.Equal(t, "o-key", cfg.APIKey())
}
