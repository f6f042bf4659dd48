// ABOUTME: Centralized configuration for the my-ootd backend
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the recommendation backend
type Config struct {
	// Server settings
	HTTPAddr  string
	JWTSecret string
	DBPath    string

	// MCP runs single-owner over stdio; this pins the owner it acts as
	MCPOwner string

	// OpenAI settings
	OpenAIKey      string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Recommendation settings
	CacheTTL        time.Duration
	TopNPerCategory int
	VectorDimension int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		HTTPAddr:        getEnv("OOTD_HTTP_ADDR", ":8080"),
		JWTSecret:       os.Getenv("OOTD_JWT_SECRET"),
		DBPath:          os.Getenv("OOTD_DB_PATH"),
		MCPOwner:        getEnv("OOTD_MCP_OWNER", "local"),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		ChatModel:       getEnv("OOTD_CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingModel:  getEnv("OOTD_EMBEDDING_MODEL", "text-embedding-3-small"),
		Timeout:         getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:      getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:      getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
		CacheTTL:        getEnvDuration("EMBED_CACHE_TTL", time.Hour),
		TopNPerCategory: getEnvInt("TOP_N_PER_CATEGORY", 3),
		VectorDimension: getEnvInt("VECTOR_DIMENSION", 1536),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.TopNPerCategory <= 0 {
		return fmt.Errorf("TOP_N_PER_CATEGORY must be positive, got %d", c.TopNPerCategory)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("EMBED_CACHE_TTL must be positive, got %v", c.CacheTTL)
	}
	if c.VectorDimension <= 0 {
		return fmt.Errorf("VECTOR_DIMENSION must be positive, got %d", c.VectorDimension)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
