// Package config reads the application settings from the environment.
// A .env file in the working directory is loaded first when present.
package config

import (
	"os"
	"strconv"

	_ "github.com/joho/godotenv/autoload"

	"serenifi/internal/feedback"
	"serenifi/internal/llm"
)

// Config holds everything main needs to wire the application.
type Config struct {
	Port     int
	AppEnv   string
	LogLevel string

	// LLM settings. Temperature is nil when unset so the requester default applies.
	LLM            llm.Settings
	LLMModel       string
	LLMMaxTokens   int
	LLMTemperature *float64

	SessionSecret string

	TemplateDir     string
	StaticDir       string
	BackgroundImage string
	LottieURL       string
	MediaCacheSize  int

	SMTP feedback.SMTPConfig
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads all env vars and builds the config.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		LLM: llm.Settings{
			Provider:        getEnv("LLM_PROVIDER", "anthropic"),
			AnthropicAPIKey: getEnv("CLAUDE_API_KEY", os.Getenv("ANTHROPIC_API_KEY")),
			AnthropicURL:    getEnv("ANTHROPIC_BASE_URL", ""),
			GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
			GeminiURL:       getEnv("GEMINI_BASE_URL", ""),
		},
		LLMModel:       getEnv("LLM_MODEL", ""),
		LLMMaxTokens:   getEnvInt("LLM_MAX_TOKENS", 0),
		LLMTemperature: getEnvFloatPtr("LLM_TEMPERATURE"),

		SessionSecret: getEnv("SESSION_SECRET", ""),

		TemplateDir:     getEnv("TEMPLATE_DIR", "web/templates"),
		StaticDir:       getEnv("STATIC_DIR", "web/public"),
		BackgroundImage: getEnv("BACKGROUND_IMAGE", ""),
		LottieURL:       getEnv("LOTTIE_URL", "https://assets5.lottiefiles.com/packages/lf20_V9t630.json"),
		MediaCacheSize:  getEnvInt("MEDIA_CACHE_SIZE", 32),

		SMTP: feedback.SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASS", ""),
			From:     getEnv("SMTP_FROM", ""),
			To:       getEnv("FEEDBACK_TO", ""),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getEnvFloatPtr(key string) *float64 {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}
