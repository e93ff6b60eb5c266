// ABOUTME: Document and Chunk models for the ingestion pipeline
// ABOUTME: Chunks are offset-addressable windows into a source document
package models

import "fmt"

// Document is a loaded study-material file, identified by its source name
type Document struct {
	Source   string `json:"source"`
	Content  string `json:"content"`
	Path     string `json:"path,omitempty"`
	FileSize int64  `json:"file_size,omitempty"`
}

// Chunk is a bounded substring of a document used as a retrieval unit.
// Offsets index into the document content; Text == content[Start:End].
type Chunk struct {
	Source      string `json:"source"`
	ChunkIndex  int    `json:"chunk_index"`
	Text        string `json:"text"`
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`
}

// VectorID returns the stable vector identifier for this chunk.
// Re-ingesting an unchanged document produces identical ids, which makes
// upserts idempotent.
func (c Chunk) VectorID() string {
	return fmt.Sprintf("%s_chunk_%d", c.Source, c.ChunkIndex)
}

// Preview returns the first n characters of the chunk text, with an
// ellipsis when truncated.
func (c Chunk) Preview(n int) string {
	if len(c.Text) <= n {
		return c.Text
	}
	return c.Text[:n] + "..."
}
