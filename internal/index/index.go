// ABOUTME: VectorIndex capability interface consumed by the pipelines
// ABOUTME: Any conforming backend (Endee, in-memory stub) can be substituted
package index

import (
	"context"

	"github.com/harper/csprep/internal/models"
)

// Index stores (id, vector, metadata) triples and supports cosine
// similarity search. Implementations must rank search results by
// similarity descending, breaking ties by ascending chunk_index then
// ascending source so ordering is deterministic.
type Index interface {
	// Ensure makes the index exist with the configured dimension.
	// Idempotent unless recreate is true, in which case any existing
	// index is dropped and recreated empty. Returns ErrDimensionMismatch
	// when an existing index has a different dimension and recreate is
	// false.
	Ensure(ctx context.Context, recreate bool) error

	// Upsert inserts-or-overwrites vectors by id. A failure on one
	// vector does not abort the batch: the call reports how many
	// succeeded and which ids failed.
	Upsert(ctx context.Context, vectors []models.IndexedVector) (upserted int, failed []string, err error)

	// Search returns up to topK results for the query vector, optionally
	// restricted to a single source. topK must be >= 1. An empty index
	// returns an empty slice, not an error.
	Search(ctx context.Context, vector []float64, topK int, sourceFilter string) ([]models.RetrievedResult, error)

	// Clear removes the index and all its vectors. Idempotent when the
	// index does not exist.
	Clear(ctx context.Context) error

	// Status reports vector count, dimension, and distance metric
	Status(ctx context.Context) (models.IndexStatus, error)
}
