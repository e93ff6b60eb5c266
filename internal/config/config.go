// ABOUTME: Centralized configuration for the CS interview prep RAG assistant
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/harper/csprep/internal/models"
)

// Config holds all configuration for the RAG pipeline
type Config struct {
	// Endee vector database settings
	EndeeHost      string
	EndeeAuthToken string
	IndexName      string

	// OpenAI settings
	OpenAIKey      string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Retrieval settings
	VectorDimension int
	ChunkSize       int
	ChunkOverlap    int
	TopK            int
	MinSimilarity   float64
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		EndeeHost:       getEnv("ENDEE_HOST", "http://localhost:8080"),
		EndeeAuthToken:  os.Getenv("ENDEE_AUTH_TOKEN"),
		IndexName:       getEnv("ENDEE_INDEX_NAME", "cs_interview_docs"),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		ChatModel:       getEnv("CSPREP_CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingModel:  getEnv("CSPREP_EMBEDDING_MODEL", "text-embedding-3-small"),
		Timeout:         getEnvDuration("CSPREP_TIMEOUT", 30*time.Second),
		MaxRetries:      getEnvInt("CSPREP_MAX_RETRIES", 3),
		RetryDelay:      getEnvDuration("CSPREP_RETRY_DELAY", 2*time.Second),
		VectorDimension: getEnvInt("CSPREP_VECTOR_DIMENSION", 1536),
		ChunkSize:       getEnvInt("CSPREP_CHUNK_SIZE", 1000),
		ChunkOverlap:    getEnvInt("CSPREP_CHUNK_OVERLAP", 200),
		TopK:            getEnvInt("CSPREP_TOP_K", 5),
		MinSimilarity:   getEnvFloat("CSPREP_MIN_SIMILARITY", 0),
	}

	return cfg, cfg.Validate()
}

// Validate checks configuration invariants. A missing OpenAI key fails
// here so the process dies at startup rather than mid-query.
func (c *Config) Validate() error {
	if c.OpenAIKey == "" {
		return fmt.Errorf("%w: OPENAI_API_KEY is required", models.ErrInvalidConfiguration)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: CSPREP_CHUNK_SIZE must be positive, got %d", models.ErrInvalidConfiguration, c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: CSPREP_CHUNK_OVERLAP must be in [0, chunk size), got %d", models.ErrInvalidConfiguration, c.ChunkOverlap)
	}
	if c.VectorDimension <= 0 {
		return fmt.Errorf("%w: CSPREP_VECTOR_DIMENSION must be positive, got %d", models.ErrInvalidConfiguration, c.VectorDimension)
	}
	if c.TopK < 1 {
		return fmt.Errorf("%w: CSPREP_TOP_K must be >= 1, got %d", models.ErrInvalidConfiguration, c.TopK)
	}
	if c.MinSimilarity < -1 || c.MinSimilarity > 1 {
		return fmt.Errorf("%w: CSPREP_MIN_SIMILARITY must be in [-1, 1], got %f", models.ErrInvalidConfiguration, c.MinSimilarity)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("%w: CSPREP_MAX_RETRIES must be 0-10, got %d", models.ErrInvalidConfiguration, c.MaxRetries)
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

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
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
