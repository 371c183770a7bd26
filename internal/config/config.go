package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	TelegramToken string
	GeminiAPIKey  string

	LogLevel string
	Debug    bool

	PreferIPv4 bool
	WebAddr    string

	MediaGroupDebounce time.Duration
	MaxConcurrent      int
	MaxHistory         int
	SessionIdle        time.Duration
	RequestTimeout     time.Duration
	HTTPTimeout        time.Duration

	GeminiBaseURL    string
	GeminiAPIVersion string
	GeminiModel      string
	GeminiMaxRetries int

	ImageMaxSize int
	ImageQuality int
	OutputDir    string

	UIConfigPath string
}

// Load reads the configuration from the environment. Only the Gemini API key
// is mandatory here; front ends check their own credentials.
func Load() (Config, error) {
	cfg := Config{
		LogLevel:           strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", "info"))),
		Debug:              getEnvBool("DEBUG", false),
		PreferIPv4:         getEnvBool("PREFER_IPV4", true),
		WebAddr:            strings.TrimSpace(getEnv("WEB_ADDR", ":8080")),
		MediaGroupDebounce: time.Duration(getEnvInt("MEDIA_GROUP_DEBOUNCE_MS", 1200)) * time.Millisecond,
		MaxConcurrent:      getEnvInt("MAX_CONCURRENT", 4),
		MaxHistory:         getEnvInt("MAX_HISTORY", 50),
		SessionIdle:        time.Duration(getEnvInt("SESSION_IDLE_MINUTES", 120)) * time.Minute,
		RequestTimeout:     time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 240)) * time.Second,
		HTTPTimeout:        time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 180)) * time.Second,
		GeminiBaseURL:      strings.TrimSpace(getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com")),
		GeminiAPIVersion:   strings.TrimSpace(getEnv("GEMINI_API_VERSION", "v1beta")),
		GeminiModel:        strings.TrimSpace(getEnv("GEMINI_MODEL", "gemini-2.0-flash-preview-image-generation")),
		GeminiMaxRetries:   getEnvInt("GEMINI_MAX_RETRIES", 3),
		ImageMaxSize:       getEnvInt("IMAGE_MAX_SIZE", 1024),
		ImageQuality:       getEnvInt("IMAGE_QUALITY", 95),
		OutputDir:          strings.TrimSpace(os.Getenv("OUTPUT_DIR")),
		UIConfigPath:       strings.TrimSpace(getEnv("UI_CONFIG", "ui.yaml")),
	}

	cfg.TelegramToken = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	cfg.GeminiAPIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))

	if cfg.GeminiAPIKey == "" {
		return Config{}, errors.New("GEMINI_API_KEY is required")
	}

	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	if cfg.MaxHistory < 1 {
		cfg.MaxHistory = 1
	}
	if cfg.SessionIdle <= 0 {
		cfg.SessionIdle = 2 * time.Hour
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 240 * time.Second
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 180 * time.Second
	}
	if cfg.GeminiMaxRetries < 1 {
		cfg.GeminiMaxRetries = 1
	}
	if cfg.ImageMaxSize < 64 {
		cfg.ImageMaxSize = 1024
	}
	if cfg.ImageQuality < 1 || cfg.ImageQuality > 100 {
		cfg.ImageQuality = 95
	}

	return cfg, nil
}

// RequireTelegram reports a missing bot token.
func (c Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
