// ABOUTME: Vector index models for storage, search, and grounded answers
// ABOUTME: Defines IndexedVector, RetrievedResult, IndexStatus, GroundedAnswer, IngestReport
package models

// VectorMeta is the metadata stored alongside every vector in the index.
// Text carries the full chunk so retrieval needs no second lookup.
type VectorMeta struct {
	Source      string `json:"source"`
	ChunkIndex  int    `json:"chunk_index"`
	Text        string `json:"text"`
	Preview     string `json:"preview,omitempty"`
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`
}

// IndexedVector is the persisted unit: a unique id, the embedding, and
// the chunk metadata.
type IndexedVector struct {
	ID     string     `json:"id"`
	Vector []float64  `json:"vector"`
	Meta   VectorMeta `json:"meta"`
}

// RetrievedResult is one search hit: vector metadata plus cosine
// similarity and 1-based rank.
type RetrievedResult struct {
	ID         string  `json:"id"`
	Similarity float64 `json:"similarity"`
	Rank       int     `json:"rank"`
	Source     string  `json:"source"`
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"text"`
}

// IndexStatus reports read-only introspection of the vector index
type IndexStatus struct {
	Exists         bool   `json:"exists"`
	VectorCount    int    `json:"vector_count"`
	Dimension      int    `json:"dimension"`
	DistanceMetric string `json:"distance_metric"`
}

// GroundedAnswer is the query pipeline output. Sources lists the
// deduplicated source identifiers actually fed to the LLM, in rank
// order. Grounded is false when no result cleared the relevance bar,
// in which case Answer holds the canned refusal and the LLM was never
// invoked.
type GroundedAnswer struct {
	Answer   string            `json:"answer"`
	Sources  []string          `json:"sources"`
	Grounded bool              `json:"grounded"`
	Query    string            `json:"query"`
	Results  []RetrievedResult `json:"results,omitempty"`
}

// IngestReport gives per-stage counts so a caller can detect partial
// completion: Upserted < Chunks means some vectors failed individually.
type IngestReport struct {
	RunID      string   `json:"run_id"`
	Documents  int      `json:"documents"`
	Chunks     int      `json:"chunks"`
	Embeddings int      `json:"embeddings"`
	Upserted   int      `json:"upserted"`
	FailedIDs  []string `json:"failed_ids,omitempty"`
	Skipped    []string `json:"skipped_files,omitempty"`
}
