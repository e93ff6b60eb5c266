// ABOUTME: Tests for OpenAI client construction and input validation
// ABOUTME: Network-dependent paths are covered via pipeline-level stubs
package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/harper/csprep/internal/models"
)

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(ClientConfig{Dimension: 1536})
	if !errors.Is(err, models.ErrInvalidConfiguration) {
		t.Errorf("NewClient() error = %v, want ErrInvalidConfiguration", err)
	}
}

func TestNewClient_RequiresDimension(t *testing.T) {
	_, err := NewClient(ClientConfig{APIKey: "test-key"})
	if !errors.Is(err, models.ErrInvalidConfiguration) {
		t.Errorf("NewClient() error = %v, want ErrInvalidConfiguration", err)
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c, err := NewClient(ClientConfig{APIKey: "test-key", Dimension: 1536})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if c.chatModel != DefaultChatModel {
		t.Errorf("chatModel = %s, want %s", c.chatModel, DefaultChatModel)
	}
	if string(c.embeddingModel) != DefaultEmbeddingModel {
		t.Errorf("embeddingModel = %s, want %s", c.embeddingModel, DefaultEmbeddingModel)
	}
	if c.Dimension() != 1536 {
		t.Errorf("Dimension() = %d, want 1536", c.Dimension())
	}
}

func TestEmbed_RejectsBlankText(t *testing.T) {
	c, err := NewClient(ClientConfig{APIKey: "test-key", Dimension: 1536})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	for _, text := range []string{"", "   ", "\t\n"} {
		if _, err := c.Embed(context.Background(), text); !errors.Is(err, models.ErrEmbedding) {
			t.Errorf("Embed(%q) error = %v, want ErrEmbedding", text, err)
		}
	}
}

func TestEmbedBatch_EmptyInput(t *testing.T) {
	c, err := NewClient(ClientConfig{APIKey: "test-key", Dimension: 1536})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	vectors, err := c.EmbedBatch(context.Background(), nil)
	if err != nil {
		t.Errorf("EmbedBatch(nil) error = %v", err)
	}
	if vectors != nil {
		t.Errorf("EmbedBatch(nil) = %v, want nil", vectors)
	}
}
