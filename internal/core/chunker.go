// ABOUTME: Chunker splits document text into overlapping fixed-size passages
// ABOUTME: Pure offset-based windows keep chunk ids stable across re-ingestion
package core

import (
	"fmt"

	"github.com/harper/csprep/internal/models"
)

// Chunker walks document text with a sliding window of size characters,
// advancing by size-overlap each step. Word and line boundaries are
// deliberately ignored: boundary snapping would shift offsets between
// runs and break the stable chunk ids that make upserts idempotent.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a Chunker. Overlap must satisfy 0 <= overlap < size.
func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", models.ErrInvalidConfiguration, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: chunk overlap must be in [0, %d), got %d", models.ErrInvalidConfiguration, size, overlap)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Chunk splits a single document. An empty document yields zero chunks.
// A document shorter than the window yields exactly one chunk spanning
// the whole text. The final chunk may be shorter than the window but is
// never empty.
func (c *Chunker) Chunk(doc models.Document) []models.Chunk {
	text := doc.Content
	if len(text) == 0 {
		return nil
	}

	step := c.size - c.overlap
	var chunks []models.Chunk

	start := 0
	for i := 0; ; i++ {
		end := start + c.size
		if end > len(text) {
			end = len(text)
		}

		chunks = append(chunks, models.Chunk{
			Source:      doc.Source,
			ChunkIndex:  i,
			Text:        text[start:end],
			StartOffset: start,
			EndOffset:   end,
		})

		if end == len(text) {
			break
		}
		start += step
	}

	return chunks
}

// ChunkAll splits every document, concatenating chunks in document order
func (c *Chunker) ChunkAll(docs []models.Document) []models.Chunk {
	var all []models.Chunk
	for _, doc := range docs {
		all = append(all, c.Chunk(doc)...)
	}
	return all
}
