// ABOUTME: Shared helpers for CLI commands
// ABOUTME: Pipeline construction from environment plus small formatting utilities
package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/csprep/internal/config"
	"github.com/harper/csprep/internal/core"
	"github.com/harper/csprep/internal/index/endee"
	"github.com/harper/csprep/internal/llm"
	"github.com/harper/csprep/internal/loader"
)

// newPipeline builds the RAG pipeline from environment configuration.
// Loads .env first so local setups work without exported variables.
func newPipeline(cmd *cobra.Command) (*core.Pipeline, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	client, err := llm.NewClient(llm.ClientConfig{
		APIKey:         cfg.OpenAIKey,
		ChatModel:      cfg.ChatModel,
		EmbeddingModel: cfg.EmbeddingModel,
		Dimension:      cfg.VectorDimension,
		Timeout:        cfg.Timeout,
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     cfg.RetryDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing OpenAI client: %w", err)
	}

	idx := endee.NewClient(endee.Config{
		Host:       cfg.EndeeHost,
		AuthToken:  cfg.EndeeAuthToken,
		IndexName:  cfg.IndexName,
		Dimension:  cfg.VectorDimension,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
	})

	pipeline, err := core.New(cfg, loader.New(), client, idx, client)
	if err != nil {
		return nil, fmt.Errorf("initializing pipeline: %w", err)
	}
	if !quiet {
		pipeline.SetOutput(cmd.ErrOrStderr())
	}
	return pipeline, nil
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return string(runes[:maxLen-3]) + "..."
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}

// warnf prints a warning to stderr unless quiet is set
func warnf(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
