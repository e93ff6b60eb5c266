// ABOUTME: Sentinel errors shared across the pipeline packages
// ABOUTME: Callers classify failures with errors.Is against these values
package models

import "errors"

var (
	// ErrInvalidConfiguration marks fatal setup problems: bad chunk
	// size/overlap, missing required credentials. Never retried.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrBackendUnavailable marks connection or timeout failures talking
	// to the vector database or the LLM. Retried with bounded backoff,
	// then surfaced.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrDimensionMismatch means an existing index was created with a
	// different vector dimension. Requires an explicit recreate.
	ErrDimensionMismatch = errors.New("index dimension mismatch")

	// ErrEmbedding marks malformed or empty embedding input
	ErrEmbedding = errors.New("embedding failed")

	// ErrInvalidQuery marks an empty question or non-positive top_k
	ErrInvalidQuery = errors.New("invalid query")
)
