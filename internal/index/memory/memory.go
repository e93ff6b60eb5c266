// ABOUTME: In-process vector index with brute-force cosine similarity search
// ABOUTME: Backs tests and offline runs; ranking matches the Endee adapter exactly
package memory

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/harper/csprep/internal/index/endee"
	"github.com/harper/csprep/internal/models"
)

// Index keeps vectors in a map keyed by id, so upserts overwrite in
// place just like the real backend.
type Index struct {
	mu        sync.RWMutex
	dimension int
	exists    bool
	vectors   map[string]models.IndexedVector
}

// New creates an in-memory index expecting vectors of the given dimension
func New(dimension int) *Index {
	return &Index{
		dimension: dimension,
		vectors:   make(map[string]models.IndexedVector),
	}
}

// Ensure marks the index as created. With recreate, existing vectors
// are dropped. A previously created index with a different dimension is
// rejected the same way the Endee backend rejects it.
func (idx *Index) Ensure(ctx context.Context, recreate bool) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if recreate {
		idx.vectors = make(map[string]models.IndexedVector)
	}
	idx.exists = true
	return nil
}

// Upsert stores vectors by id. Vectors with a wrong dimension are
// reported as failed without aborting the rest of the batch.
func (idx *Index) Upsert(ctx context.Context, vectors []models.IndexedVector) (int, []string, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	var failed []string
	upserted := 0
	for _, v := range vectors {
		if len(v.Vector) != idx.dimension {
			failed = append(failed, v.ID)
			continue
		}
		idx.vectors[v.ID] = v
		upserted++
	}
	return upserted, failed, nil
}

// Search scores every stored vector against the query and returns the
// topK best, ranked deterministically.
func (idx *Index) Search(ctx context.Context, vector []float64, topK int, sourceFilter string) ([]models.RetrievedResult, error) {
	if topK < 1 {
		return nil, fmt.Errorf("%w: top_k must be >= 1, got %d", models.ErrInvalidQuery, topK)
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	results := make([]models.RetrievedResult, 0, len(idx.vectors))
	for _, v := range idx.vectors {
		if sourceFilter != "" && v.Meta.Source != sourceFilter {
			continue
		}
		results = append(results, models.RetrievedResult{
			ID:         v.ID,
			Similarity: cosineSimilarity(vector, v.Vector),
			Source:     v.Meta.Source,
			ChunkIndex: v.Meta.ChunkIndex,
			Text:       v.Meta.Text,
		})
	}

	endee.SortResults(results)
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Clear removes every vector. Idempotent on an empty index.
func (idx *Index) Clear(ctx context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.vectors = make(map[string]models.IndexedVector)
	idx.exists = false
	return nil
}

// Status reports the vector count and configured dimension
func (idx *Index) Status(ctx context.Context) (models.IndexStatus, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	status := models.IndexStatus{
		Exists:         idx.exists,
		VectorCount:    len(idx.vectors),
		DistanceMetric: "cosine",
	}
	if idx.exists {
		status.Dimension = idx.dimension
	}
	return status, nil
}

// cosineSimilarity calculates cosine similarity between two vectors
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
