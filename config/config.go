package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration in a structured way.
type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	AI         AIConfig
	WorkerPool WorkerPoolConfig
}

type AppConfig struct {
	Port               string
	Debug              bool
	Environment        string
	BasePath           string
	CorsAllowedOrigins []string
}

type DatabaseConfig struct {
	// MongoURI selects the conversation store. The special value "memory"
	// runs everything on the in-memory repositories (dev / tests).
	MongoURI string
	MongoDB  string
}

type AIConfig struct {
	// Provider selects the responder backend: "gemini" or "openai".
	Provider     string
	GeminiAPIKey string
	OpenAIAPIKey string
	Model        string

	// FallbackMessage is sent whenever the responder is unconfigured,
	// fails, or returns empty output.
	FallbackMessage string

	ResponderTimeout time.Duration

	// Workspace-level defaults, applied when a workspace has no values set.
	DefaultReplyDelayMs     int
	DefaultTypingDurationMs int
	DefaultAgentName        string
}

type WorkerPoolConfig struct {
	Size      int
	QueueSize int
}

// Global provides access to the loaded configuration.
var Global *Config

const DefaultFallbackMessage = "Thank you for your message. Our team will get back to you shortly."

// LoadConfig loads configuration from a .env file (if present) and
// environment variables, with sane defaults for everything.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("APP_PORT", "3001")
	v.SetDefault("APP_DEBUG", false)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_BASE_PATH", "")
	v.SetDefault("APP_CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")

	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGODB_DATABASE", "nobot")

	v.SetDefault("AI_PROVIDER", "gemini")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("AI_MODEL", "")
	v.SetDefault("AI_FALLBACK_MESSAGE", DefaultFallbackMessage)
	v.SetDefault("AI_RESPONDER_TIMEOUT_SECONDS", 20)
	v.SetDefault("BOT_DEFAULT_REPLY_DELAY_MS", 1500)
	v.SetDefault("BOT_DEFAULT_TYPING_DURATION_MS", 2000)
	v.SetDefault("BOT_DEFAULT_AGENT_NAME", "Support Agent")

	v.SetDefault("MESSAGE_WORKERS", 20)
	v.SetDefault("MESSAGE_QUEUE_SIZE", 1000)

	cfg := &Config{
		App: AppConfig{
			Port:               v.GetString("APP_PORT"),
			Debug:              v.GetBool("APP_DEBUG"),
			Environment:        v.GetString("APP_ENV"),
			BasePath:           v.GetString("APP_BASE_PATH"),
			CorsAllowedOrigins: splitAndTrim(v.GetString("APP_CORS_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			MongoURI: v.GetString("MONGODB_URI"),
			MongoDB:  v.GetString("MONGODB_DATABASE"),
		},
		AI: AIConfig{
			Provider:                strings.ToLower(v.GetString("AI_PROVIDER")),
			GeminiAPIKey:            v.GetString("GEMINI_API_KEY"),
			OpenAIAPIKey:            v.GetString("OPENAI_API_KEY"),
			Model:                   v.GetString("AI_MODEL"),
			FallbackMessage:         v.GetString("AI_FALLBACK_MESSAGE"),
			ResponderTimeout:        time.Duration(v.GetInt("AI_RESPONDER_TIMEOUT_SECONDS")) * time.Second,
			DefaultReplyDelayMs:     v.GetInt("BOT_DEFAULT_REPLY_DELAY_MS"),
			DefaultTypingDurationMs: v.GetInt("BOT_DEFAULT_TYPING_DURATION_MS"),
			DefaultAgentName:        v.GetString("BOT_DEFAULT_AGENT_NAME"),
		},
		WorkerPool: WorkerPoolConfig{
			Size:      v.GetInt("MESSAGE_WORKERS"),
			QueueSize: v.GetInt("MESSAGE_QUEUE_SIZE"),
		},
	}

	Global = cfg
	return cfg, nil
}

// APIKey returns the key for the configured provider.
func (c AIConfig) APIKey() string {
	switch c.Provider {
	case "openai":
		return c.OpenAIAPIKey
	default:
		return c.GeminiAPIKey
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
