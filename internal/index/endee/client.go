// ABOUTME: Endee vector database adapter speaking the REST API under /api/v1
// ABOUTME: Implements index.Index with bounded backoff on transient connection errors
package endee

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/harper/csprep/internal/models"
	"github.com/harper/csprep/internal/util"
)

// searchEF controls HNSW recall during queries. Higher values trade
// latency for recall.
const searchEF = 128

// Config holds connection settings for an Endee server
type Config struct {
	Host       string
	AuthToken  string
	IndexName  string
	Dimension  int
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// Client is a REST client for one named Endee index
type Client struct {
	baseURL   string
	authToken string
	indexName string
	dimension int
	client    *http.Client
	retrier   util.Retrier
}

// NewClient creates an Endee client for cfg.IndexName. No network call
// is made until the first operation.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}
	retryDelay := cfg.RetryDelay
	if retryDelay == 0 {
		retryDelay = time.Second
	}

	return &Client{
		baseURL:   cfg.Host + "/api/v1",
		authToken: cfg.AuthToken,
		indexName: cfg.IndexName,
		dimension: cfg.Dimension,
		client:    &http.Client{Timeout: timeout},
		retrier: util.Retrier{
			MaxAttempts: maxRetries,
			BaseDelay:   retryDelay,
			Retryable:   isTransient,
		},
	}
}

// isTransient reports whether an error is worth retrying. Validation
// failures (4xx) are terminal; only connection problems and 5xx
// responses are transient.
func isTransient(err error) bool {
	return errors.Is(err, models.ErrBackendUnavailable)
}

type indexInfo struct {
	Name        string `json:"name"`
	Dimension   int    `json:"dimension"`
	SpaceType   string `json:"space_type"`
	VectorCount int    `json:"vector_count"`
}

// Ensure creates the index if missing. With recreate, any existing
// index is dropped first. An existing index whose dimension differs
// from the configured one is a hard error unless recreate is set.
func (c *Client) Ensure(ctx context.Context, recreate bool) error {
	var existing *indexInfo
	err := c.retrier.Do(ctx, func(ctx context.Context) error {
		var resp struct {
			Indexes []indexInfo `json:"indexes"`
		}
		if err := c.getJSON(ctx, "/index/list", &resp); err != nil {
			return err
		}
		existing = nil
		for i := range resp.Indexes {
			if resp.Indexes[i].Name == c.indexName {
				existing = &resp.Indexes[i]
				break
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("listing indexes: %w", err)
	}

	if existing != nil {
		if !recreate {
			if existing.Dimension != c.dimension {
				return fmt.Errorf("%w: index %q has dimension %d, configured %d (recreate required)",
					models.ErrDimensionMismatch, c.indexName, existing.Dimension, c.dimension)
			}
			return nil
		}
		if err := c.Clear(ctx); err != nil {
			return err
		}
	}

	body := map[string]any{
		"name":       c.indexName,
		"dimension":  c.dimension,
		"space_type": "cosine",
		"precision":  "int8d",
	}
	err = c.retrier.Do(ctx, func(ctx context.Context) error {
		return c.postJSON(ctx, "/index/create", body, nil)
	})
	if err != nil {
		return fmt.Errorf("creating index %q: %w", c.indexName, err)
	}
	return nil
}

// Upsert sends one batch of vectors. The server applies each vector
// independently and reports ids it could not store, so one malformed
// vector never discards the batch.
func (c *Client) Upsert(ctx context.Context, vectors []models.IndexedVector) (int, []string, error) {
	if len(vectors) == 0 {
		return 0, nil, nil
	}

	points := make([]map[string]any, len(vectors))
	for i, v := range vectors {
		points[i] = map[string]any{
			"id":     v.ID,
			"vector": v.Vector,
			"meta":   v.Meta,
			"filter": map[string]any{"source": v.Meta.Source},
		}
	}

	var resp struct {
		Upserted int      `json:"upserted"`
		Failed   []string `json:"failed"`
	}
	body := map[string]any{"vectors": points}
	err := c.retrier.Do(ctx, func(ctx context.Context) error {
		return c.postJSON(ctx, "/index/"+c.indexName+"/vectors", body, &resp)
	})
	if err != nil {
		return 0, nil, fmt.Errorf("upserting %d vectors: %w", len(vectors), err)
	}
	return resp.Upserted, resp.Failed, nil
}

// Search runs a cosine top-k query, optionally filtered to one source
func (c *Client) Search(ctx context.Context, vector []float64, topK int, sourceFilter string) ([]models.RetrievedResult, error) {
	if topK < 1 {
		return nil, fmt.Errorf("%w: top_k must be >= 1, got %d", models.ErrInvalidQuery, topK)
	}

	body := map[string]any{
		"vector": vector,
		"top_k":  topK,
		"ef":     searchEF,
	}
	if sourceFilter != "" {
		body["filter"] = []map[string]any{
			{"source": map[string]any{"$eq": sourceFilter}},
		}
	}

	var resp struct {
		Results []struct {
			ID         string            `json:"id"`
			Similarity float64           `json:"similarity"`
			Meta       models.VectorMeta `json:"meta"`
		} `json:"results"`
	}
	err := c.retrier.Do(ctx, func(ctx context.Context) error {
		return c.postJSON(ctx, "/index/"+c.indexName+"/search", body, &resp)
	})
	if err != nil {
		return nil, fmt.Errorf("searching index %q: %w", c.indexName, err)
	}

	results := make([]models.RetrievedResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, models.RetrievedResult{
			ID:         r.ID,
			Similarity: r.Similarity,
			Source:     r.Meta.Source,
			ChunkIndex: r.Meta.ChunkIndex,
			Text:       r.Meta.Text,
		})
	}
	SortResults(results)
	return results, nil
}

// SortResults orders results by similarity descending, then chunk_index
// ascending, then source ascending, and assigns 1-based ranks. Shared
// with the in-memory index so both backends rank identically.
func SortResults(results []models.RetrievedResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		if results[i].ChunkIndex != results[j].ChunkIndex {
			return results[i].ChunkIndex < results[j].ChunkIndex
		}
		return results[i].Source < results[j].Source
	})
	for i := range results {
		results[i].Rank = i + 1
	}
}

// Clear drops the index. A missing index is not an error.
func (c *Client) Clear(ctx context.Context) error {
	err := c.retrier.Do(ctx, func(ctx context.Context) error {
		return c.deleteJSON(ctx, "/index/"+c.indexName)
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("deleting index %q: %w", c.indexName, err)
	}
	return nil
}

// Status describes the index. A missing index reports Exists false with
// zero counts rather than an error.
func (c *Client) Status(ctx context.Context) (models.IndexStatus, error) {
	var info indexInfo
	err := c.retrier.Do(ctx, func(ctx context.Context) error {
		return c.getJSON(ctx, "/index/"+c.indexName, &info)
	})
	if err != nil {
		if isNotFound(err) {
			return models.IndexStatus{Exists: false, DistanceMetric: "cosine"}, nil
		}
		return models.IndexStatus{}, fmt.Errorf("describing index %q: %w", c.indexName, err)
	}

	metric := info.SpaceType
	if metric == "" {
		metric = "cosine"
	}
	return models.IndexStatus{
		Exists:         true,
		VectorCount:    info.VectorCount,
		Dimension:      info.Dimension,
		DistanceMetric: metric,
	}, nil
}

// statusError carries an HTTP status for error classification
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("endee returned %d: %s", e.code, e.body)
}

func isNotFound(err error) bool {
	var se *statusError
	return errors.As(err, &se) && se.code == http.StatusNotFound
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) deleteJSON(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", models.ErrBackendUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: %v", models.ErrBackendUnavailable, &statusError{code: resp.StatusCode, body: string(data)})
	}
	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &statusError{code: resp.StatusCode, body: string(data)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response from %s: %w", path, err)
		}
	}
	return nil
}
