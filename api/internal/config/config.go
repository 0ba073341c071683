package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
)

type Config struct {
	Port string

	GeminiAPIKey string
	GeminiModel  string
	OllamaURL    string
	OllamaModel  string

	TelegramBotToken string
	WebhookURL       string

	DatabaseURL string

	MaxLongEdge         int
	ThumbLongEdge       int
	ConfidenceThreshold float64
	HistoryLimit        int
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8000"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OllamaURL:    getEnv("OLLAMA_URL", ""),
		OllamaModel:  getEnv("OLLAMA_MODEL", "llava:13b"),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		WebhookURL:       getEnv("WEBHOOK_URL", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		MaxLongEdge:         getEnvInt("PREPROCESS_MAX_LONG_EDGE", 1536),
		ThumbLongEdge:       getEnvInt("PREPROCESS_THUMB_LONG_EDGE", 512),
		ConfidenceThreshold: getEnvFloat("CONFIDENCE_THRESHOLD", 0.35),
		HistoryLimit:        getEnvInt("HISTORY_LIMIT", 200),
	}
}

// ResolveDSN prefers DATABASE_URL and falls back to the POSTGRES_* parts.
func (c *Config) ResolveDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	host := getEnv("POSTGRES_HOST", "")
	if host == "" {
		return ""
	}
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(getEnv("POSTGRES_USER", "postgres"), getEnv("POSTGRES_PASSWORD", "")),
		Host:   fmt.Sprintf("%s:%s", host, getEnv("POSTGRES_PORT", "5432")),
		Path:   "/" + getEnv("POSTGRES_DB", "caloriecam"),
	}
	q := u.Query()
	q.Set("sslmode", getEnv("POSTGRES_SSLMODE", "disable"))
	u.RawQuery = q.Encode()
	return u.String()
}
