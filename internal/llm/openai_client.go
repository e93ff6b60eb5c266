// ABOUTME: OpenAI client for embeddings and grounded answer generation
// ABOUTME: Uses text-embedding-3-small for embeddings, gpt-4o-mini for chat (configurable)
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/harper/csprep/internal/models"
	"github.com/harper/csprep/internal/util"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultChatModel is the default model for chat completions
	DefaultChatModel = "gpt-4o-mini"
	// DefaultEmbeddingModel is the default model for embeddings
	DefaultEmbeddingModel = string(openai.SmallEmbedding3)

	// embedBatchLimit bounds how many inputs go into one embeddings request
	embedBatchLimit = 100
)

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey         string
	ChatModel      string
	EmbeddingModel string
	Dimension      int
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
}

// Client wraps the OpenAI API client with retry logic. It is created
// once at process start and passed into the pipelines, so its model
// state has an explicit owner and tests can substitute a stub.
type Client struct {
	client         *openai.Client
	chatModel      string
	embeddingModel openai.EmbeddingModel
	dimension      int
	timeout        time.Duration
	retrier        util.Retrier
}

// NewClient creates an OpenAI client from the given configuration
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key is required", models.ErrInvalidConfiguration)
	}
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("%w: embedding dimension must be positive, got %d", models.ErrInvalidConfiguration, cfg.Dimension)
	}

	chatModel := cfg.ChatModel
	if chatModel == "" {
		chatModel = DefaultChatModel
	}
	embeddingModel := cfg.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = DefaultEmbeddingModel
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}
	retryDelay := cfg.RetryDelay
	if retryDelay == 0 {
		retryDelay = 2 * time.Second
	}

	return &Client{
		client:         openai.NewClient(cfg.APIKey),
		chatModel:      chatModel,
		embeddingModel: openai.EmbeddingModel(embeddingModel),
		dimension:      cfg.Dimension,
		timeout:        timeout,
		retrier: util.Retrier{
			MaxAttempts: maxRetries,
			BaseDelay:   retryDelay,
			Retryable:   isTransient,
		},
	}, nil
}

// isTransient treats network failures and timeouts as retryable.
// API-side validation errors (4xx) surface immediately.
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode >= 500 || apiErr.HTTPStatusCode == 429
	}
	return false
}

// Dimension returns the embedding dimension this client produces
func (c *Client) Dimension() int {
	return c.dimension
}

// Embed generates the embedding vector for a single text. Blank input
// is an ErrEmbedding: ingestion never produces empty chunks, so this
// only guards the query side.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: cannot embed empty text", models.ErrEmbedding)
	}

	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch generates embeddings for texts, preserving input order.
// Requests are capped at embedBatchLimit inputs each.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchLimit {
		end := start + embedBatchLimit
		if end > len(texts) {
			end = len(texts)
		}

		batch, err := c.embedRequest(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

func (c *Client) embedRequest(ctx context.Context, texts []string) ([][]float64, error) {
	var vectors [][]float64

	err := c.retrier.Do(ctx, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.client.CreateEmbeddings(callCtx, openai.EmbeddingRequestStrings{
			Input: texts,
			Model: c.embeddingModel,
		})
		if err != nil {
			return err
		}
		if len(resp.Data) != len(texts) {
			return fmt.Errorf("%w: got %d embeddings for %d inputs", models.ErrEmbedding, len(resp.Data), len(texts))
		}

		vectors = make([][]float64, len(resp.Data))
		for i, d := range resp.Data {
			if len(d.Embedding) != c.dimension {
				return fmt.Errorf("%w: model returned dimension %d, configured %d", models.ErrEmbedding, len(d.Embedding), c.dimension)
			}
			v := make([]float64, len(d.Embedding))
			for j, f := range d.Embedding {
				v[j] = float64(f)
			}
			vectors[i] = v
		}
		return nil
	})
	if err != nil {
		if isTransient(err) {
			return nil, fmt.Errorf("%w: embedding request: %v", models.ErrBackendUnavailable, err)
		}
		return nil, fmt.Errorf("embedding request: %w", err)
	}
	return vectors, nil
}

// GenerateAnswer asks the chat model to answer a question using only
// the provided system prompt (which carries the retrieved context).
func (c *Client) GenerateAnswer(ctx context.Context, systemPrompt, question string) (string, error) {
	var answer string

	err := c.retrier.Do(ctx, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model: c.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: question},
			},
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("no completion choices returned")
		}
		answer = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		if isTransient(err) {
			return "", fmt.Errorf("%w: chat completion: %v", models.ErrBackendUnavailable, err)
		}
		return "", fmt.Errorf("chat completion: %w", err)
	}
	return answer, nil
}
