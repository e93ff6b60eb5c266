// ABOUTME: Query pipeline: embed the question, search the index, generate a grounded answer
// ABOUTME: Refuses to answer when no retrieved context clears the relevance bar
package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/harper/csprep/internal/models"
)

// groundingInstruction restricts the model to the retrieved context.
// The context is interpolated where %s appears.
const groundingInstruction = `You are a Computer Science interview preparation assistant. Your role is to help candidates understand CS concepts for technical interviews.

CRITICAL RULES:
1. Answer ONLY using the provided context below
2. If the context doesn't contain relevant information, say: "I don't have information about this topic in my current knowledge base. Please add relevant study materials."
3. Never make up information or use knowledge outside the provided context
4. Cite the source document when providing information
5. Keep answers concise but comprehensive enough for interview preparation

Context from study materials:
%s

---
Answer the following question based ONLY on the context above.`

// RefusalAnswer is returned without invoking the LLM when retrieval
// finds nothing relevant enough.
const RefusalAnswer = "I don't have information about this topic in my current knowledge base. Please add relevant study materials."

// QueryOptions adjusts a single query. Zero values fall back to the
// configured defaults.
type QueryOptions struct {
	TopK         int    // overrides the configured top_k when > 0
	SourceFilter string // restricts retrieval to one source document
}

// Query answers a question using only indexed study material.
// Everything up to the LLM call is deterministic for a given index
// state: ranking, the grounding decision, and prompt assembly.
func (p *Pipeline) Query(ctx context.Context, question string, opts QueryOptions) (*models.GroundedAnswer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question must not be empty", models.ErrInvalidQuery)
	}
	topK := opts.TopK
	if topK == 0 {
		topK = p.cfg.TopK
	}
	if topK < 1 {
		return nil, fmt.Errorf("%w: top_k must be >= 1, got %d", models.ErrInvalidQuery, topK)
	}

	p.logf("[1/3] Embedding query")
	queryVector, err := p.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	p.logf("[2/3] Searching index (top_k=%d)", topK)
	results, err := p.index.Search(ctx, queryVector, topK, opts.SourceFilter)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	p.logf("      found %d relevant chunks", len(results))

	if !p.grounded(results) {
		p.logf("      no result above threshold %.2f, refusing to answer", p.cfg.MinSimilarity)
		return &models.GroundedAnswer{
			Answer:   RefusalAnswer,
			Sources:  []string{},
			Grounded: false,
			Query:    question,
		}, nil
	}

	p.logf("[3/3] Generating answer")
	answer, err := p.generator.GenerateAnswer(ctx, buildPrompt(results), question)
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	return &models.GroundedAnswer{
		Answer:   answer,
		Sources:  citedSources(results),
		Grounded: true,
		Query:    question,
		Results:  results,
	}, nil
}

// grounded decides whether retrieval found enough to answer from. With
// no threshold configured, any nonempty result list is accepted.
func (p *Pipeline) grounded(results []models.RetrievedResult) bool {
	if len(results) == 0 {
		return false
	}
	if p.cfg.MinSimilarity == 0 {
		return true
	}
	// Results are ranked, so the first is the best match
	return results[0].Similarity >= p.cfg.MinSimilarity
}

// buildPrompt assembles the grounding system prompt from the retrieved
// chunks, each tagged with its source.
func buildPrompt(results []models.RetrievedResult) string {
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = fmt.Sprintf("[%d] From '%s' (similarity: %.3f):\n%s", i+1, r.Source, r.Similarity, r.Text)
	}
	return fmt.Sprintf(groundingInstruction, strings.Join(parts, "\n\n---\n\n"))
}

// citedSources returns the deduplicated sources in rank order
func citedSources(results []models.RetrievedResult) []string {
	seen := make(map[string]bool, len(results))
	sources := make([]string, 0, len(results))
	for _, r := range results {
		if seen[r.Source] {
			continue
		}
		seen[r.Source] = true
		sources = append(sources, r.Source)
	}
	return sources
}
