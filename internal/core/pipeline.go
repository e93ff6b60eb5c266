// ABOUTME: Pipeline wires the loader, chunker, embedder, vector index, and LLM
// ABOUTME: Exposes the core surface: Ingest, Query, Status, Clear
package core

import (
	"context"
	"fmt"
	"io"

	"github.com/harper/csprep/internal/config"
	"github.com/harper/csprep/internal/index"
	"github.com/harper/csprep/internal/models"
)

// Embedder maps text to fixed-dimension vectors. Embedding the same
// text twice with the same model yields the same vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
	Dimension() int
}

// Generator produces an answer given a system prompt carrying retrieved
// context and the user's question.
type Generator interface {
	GenerateAnswer(ctx context.Context, systemPrompt, question string) (string, error)
}

// DocumentLoader loads study materials from a directory, reporting
// unreadable files without failing the batch.
type DocumentLoader interface {
	LoadDirectory(dir string) (docs []models.Document, skipped []string, err error)
}

// Pipeline is the retrieval-augmented core. All collaborators are
// constructor-injected so any backend or test double can stand in.
type Pipeline struct {
	cfg       *config.Config
	loader    DocumentLoader
	chunker   *Chunker
	embedder  Embedder
	index     index.Index
	generator Generator
	out       io.Writer
}

// New builds a Pipeline. The embedder's dimension must match the
// configured index dimension; a mismatch here would otherwise surface
// as confusing upsert failures later.
func New(cfg *config.Config, loader DocumentLoader, embedder Embedder, idx index.Index, generator Generator) (*Pipeline, error) {
	chunker, err := NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}
	if embedder.Dimension() != cfg.VectorDimension {
		return nil, fmt.Errorf("%w: embedder dimension %d != configured index dimension %d",
			models.ErrInvalidConfiguration, embedder.Dimension(), cfg.VectorDimension)
	}

	return &Pipeline{
		cfg:       cfg,
		loader:    loader,
		chunker:   chunker,
		embedder:  embedder,
		index:     idx,
		generator: generator,
		out:       io.Discard,
	}, nil
}

// SetOutput directs progress reporting to w. The CLI points this at
// stderr unless --quiet is set.
func (p *Pipeline) SetOutput(w io.Writer) {
	p.out = w
}

func (p *Pipeline) logf(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Status reports vector count, dimension, and distance metric
func (p *Pipeline) Status(ctx context.Context) (models.IndexStatus, error) {
	return p.index.Status(ctx)
}

// Clear removes every vector from the index
func (p *Pipeline) Clear(ctx context.Context) error {
	return p.index.Clear(ctx)
}
