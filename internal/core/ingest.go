// ABOUTME: Ingestion pipeline: load documents, chunk, embed, upsert into the index
// ABOUTME: Reports per-stage counts so callers can detect partial completion
package core

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/harper/csprep/internal/models"
)

// upsertBatchSize bounds vectors per upsert call to avoid oversized requests
const upsertBatchSize = 100

// Ingest runs the full ingestion pipeline over a directory. With
// recreate, the index is dropped and rebuilt empty before the first
// upsert; without it, ingestion is additive and idempotent by id.
//
// Cancellation is honored between documents: aborting mid-run leaves at
// worst one partially indexed document, which a re-run repairs because
// chunk ids are stable.
func (p *Pipeline) Ingest(ctx context.Context, dir string, recreate bool) (*models.IngestReport, error) {
	report := &models.IngestReport{RunID: uuid.New().String()}

	p.logf("[1/4] Loading documents from %s", dir)
	docs, skipped, err := p.loader.LoadDirectory(dir)
	if err != nil {
		return nil, fmt.Errorf("loading documents: %w", err)
	}
	report.Documents = len(docs)
	report.Skipped = skipped
	for _, path := range skipped {
		p.logf("      warning: could not read %s", path)
	}
	p.logf("      loaded %d documents", len(docs))

	if len(docs) == 0 {
		if recreate {
			if err := p.index.Ensure(ctx, true); err != nil {
				return nil, fmt.Errorf("preparing index: %w", err)
			}
		}
		return report, nil
	}

	p.logf("[2/4] Chunking documents (size=%d, overlap=%d)", p.cfg.ChunkSize, p.cfg.ChunkOverlap)
	var chunks []models.Chunk
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		chunks = append(chunks, p.chunker.Chunk(doc)...)
	}
	report.Chunks = len(chunks)
	p.logf("      created %d chunks", len(chunks))

	p.logf("[3/4] Generating embeddings")
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	embeddings, err := p.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return report, fmt.Errorf("generating embeddings: %w", err)
	}
	report.Embeddings = len(embeddings)
	p.logf("      generated %d embeddings", len(embeddings))

	p.logf("[4/4] Storing vectors in index %q", p.cfg.IndexName)
	if err := p.index.Ensure(ctx, recreate); err != nil {
		return report, fmt.Errorf("preparing index: %w", err)
	}

	vectors := make([]models.IndexedVector, len(chunks))
	for i, c := range chunks {
		vectors[i] = models.IndexedVector{
			ID:     c.VectorID(),
			Vector: embeddings[i],
			Meta: models.VectorMeta{
				Source:      c.Source,
				ChunkIndex:  c.ChunkIndex,
				Text:        c.Text,
				Preview:     c.Preview(200),
				StartOffset: c.StartOffset,
				EndOffset:   c.EndOffset,
			},
		}
	}

	for start := 0; start < len(vectors); start += upsertBatchSize {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		end := start + upsertBatchSize
		if end > len(vectors) {
			end = len(vectors)
		}

		upserted, failed, err := p.index.Upsert(ctx, vectors[start:end])
		if err != nil {
			return report, fmt.Errorf("upserting batch at %d: %w", start, err)
		}
		report.Upserted += upserted
		report.FailedIDs = append(report.FailedIDs, failed...)
		p.logf("      upserted %d/%d vectors", report.Upserted, len(vectors))
	}

	for _, id := range report.FailedIDs {
		p.logf("      warning: failed to upsert %s", id)
	}
	return report, nil
}
