// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults applied when the corresponding env var is unset.
const (
	DefaultHost          = "0.0.0.0"
	DefaultPort          = 8000
	DefaultMaxFileSize   = 5 * 1024 * 1024 // 5 MB
	DefaultTokenExpiry   = 30 * time.Minute
	DefaultMaxConcurrent = 4
	DefaultThreshold     = 0.6
)

// Config holds all service settings.
type Config struct {
	// Server
	Host        string
	Port        int
	Environment string
	CORSOrigins []string

	// Storage
	DatabaseURL string

	// Auth
	APIKey            string
	SecretKey         string
	AccessTokenExpiry time.Duration

	// LLM
	LLMProvider  string // "openai", "gemini", or "" for none
	OpenAIAPIKey string
	OpenAIModel  string
	GeminiAPIKey string
	Temperature  float32
	MaxTokens    int
	LLMTimeout   time.Duration

	// Uploads
	MaxFileSize       int64
	AllowedExtensions []string

	// Parsing
	EnableOCR     bool
	TesseractCmd  string
	EnableEnhance bool
	MaxConcurrent int64

	// Matching
	MatchingThreshold float64
	MinMatchScore     float64
	MaxMatchScore     float64
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Host:              getEnv("API_HOST", DefaultHost),
		Port:              getEnvInt("API_PORT", DefaultPort),
		Environment:       getEnv("ENVIRONMENT", "development"),
		CORSOrigins:       getEnvList("CORS_ORIGINS", []string{"*"}),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		APIKey:            os.Getenv("API_KEY"),
		SecretKey:         os.Getenv("SECRET_KEY"),
		AccessTokenExpiry: time.Duration(getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", int(DefaultTokenExpiry.Minutes()))) * time.Minute,

		LLMProvider:  strings.ToLower(os.Getenv("LLM_PROVIDER")),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  os.Getenv("OPENAI_MODEL"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		Temperature:  float32(getEnvFloat("OPENAI_TEMPERATURE", 0.3)),
		MaxTokens:    getEnvInt("OPENAI_MAX_TOKENS", 2000),
		LLMTimeout:   time.Duration(getEnvInt("OPENAI_TIMEOUT", 30)) * time.Second,

		MaxFileSize:       int64(getEnvInt("MAX_FILE_SIZE", DefaultMaxFileSize)),
		AllowedExtensions: getEnvList("ALLOWED_EXTENSIONS", []string{"pdf", "docx", "doc", "txt", "jpg", "png", "jpeg"}),

		EnableOCR:     getEnvBool("ENABLE_OCR", true),
		TesseractCmd:  os.Getenv("TESSERACT_CMD"),
		EnableEnhance: getEnvBool("ENABLE_AI_ENHANCEMENT", true),
		MaxConcurrent: int64(getEnvInt("MAX_CONCURRENT_PARSES", DefaultMaxConcurrent)),

		MatchingThreshold: getEnvFloat("MATCHING_THRESHOLD", DefaultThreshold),
		MinMatchScore:     getEnvFloat("MIN_MATCH_SCORE", 50),
		MaxMatchScore:     getEnvFloat("MAX_MATCH_SCORE", 100),
	}

	// Provider inferred from available keys when not set explicitly
	if cfg.LLMProvider == "" {
		switch {
		case cfg.OpenAIAPIKey != "":
			cfg.LLMProvider = "openai"
		case cfg.GeminiAPIKey != "":
			cfg.LLMProvider = "gemini"
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and required combinations.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid API_PORT: %d", c.Port)
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive")
	}
	if len(c.AllowedExtensions) == 0 {
		return fmt.Errorf("ALLOWED_EXTENSIONS must not be empty")
	}
	if c.MatchingThreshold <= 0 || c.MatchingThreshold > 1 {
		return fmt.Errorf("MATCHING_THRESHOLD must be in (0, 1]")
	}
	if c.MinMatchScore < 0 || c.MaxMatchScore > 100 || c.MinMatchScore >= c.MaxMatchScore {
		return fmt.Errorf("invalid match score bounds [%v, %v]", c.MinMatchScore, c.MaxMatchScore)
	}
	if c.MaxConcurrent < 1 {
		return fmt.Errorf("MAX_CONCURRENT_PARSES must be at least 1")
	}
	switch c.LLMProvider {
	case "", "openai", "gemini":
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER: %s", c.LLMProvider)
	}
	if c.LLMProvider == "openai" && c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
	}
	if c.LLMProvider == "gemini" && c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required when LLM_PROVIDER=gemini")
	}
	if c.APIKey != "" && c.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY is required when API_KEY auth is enabled")
	}
	return nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AuthEnabled reports whether JWT auth is configured.
func (c *Config) AuthEnabled() bool {
	return c.APIKey != "" && c.SecretKey != ""
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
