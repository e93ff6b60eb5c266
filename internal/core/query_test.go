// ABOUTME: Tests for the query pipeline
// ABOUTME: Verifies validation, grounding decisions, prompt assembly, and citations
package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/harper/csprep/internal/models"
)

func ingestBST(t *testing.T, p *Pipeline) {
	t.Helper()
	if _, err := p.Ingest(context.Background(), "materials", false); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
}

func TestQuery_EmptyQuestion(t *testing.T) {
	p, _ := newTestPipeline(t, testConfig(), bstLoader(), bstEmbedder(), &stubGenerator{})

	for _, q := range []string{"", "   ", "\n\t"} {
		_, err := p.Query(context.Background(), q, QueryOptions{})
		if !errors.Is(err, models.ErrInvalidQuery) {
			t.Errorf("Query(%q) error = %v, want ErrInvalidQuery", q, err)
		}
	}
}

func TestQuery_NegativeTopK(t *testing.T) {
	p, _ := newTestPipeline(t, testConfig(), bstLoader(), bstEmbedder(), &stubGenerator{})

	_, err := p.Query(context.Background(), "What is a BST?", QueryOptions{TopK: -1})
	if !errors.Is(err, models.ErrInvalidQuery) {
		t.Errorf("Query(top_k=-1) error = %v, want ErrInvalidQuery", err)
	}
}

func TestQuery_GroundedAnswerWithCitations(t *testing.T) {
	gen := &stubGenerator{answer: "A BST keeps left < parent < right."}
	p, _ := newTestPipeline(t, testConfig(), bstLoader(), bstEmbedder(), gen)
	ingestBST(t, p)

	answer, err := p.Query(context.Background(), "What is a BST?", QueryOptions{})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	if !answer.Grounded {
		t.Error("Grounded = false, want true")
	}
	if answer.Answer != gen.answer {
		t.Errorf("Answer = %q", answer.Answer)
	}
	if len(answer.Sources) != 1 || answer.Sources[0] != "doc1" {
		t.Errorf("Sources = %v, want [doc1]", answer.Sources)
	}
	if len(answer.Results) != 1 || answer.Results[0].ID != "doc1_chunk_0" {
		t.Errorf("Results = %+v, want the doc1 chunk as top result", answer.Results)
	}
	if !gen.called {
		t.Error("generator was not invoked for a grounded query")
	}
}

func TestQuery_PromptCarriesOnlyRetrievedContext(t *testing.T) {
	gen := &stubGenerator{answer: "ok"}
	p, _ := newTestPipeline(t, testConfig(), bstLoader(), bstEmbedder(), gen)
	ingestBST(t, p)

	if _, err := p.Query(context.Background(), "What is a BST?", QueryOptions{}); err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	if !strings.Contains(gen.lastPrompt, bstText) {
		t.Error("prompt should contain the retrieved chunk text")
	}
	if !strings.Contains(gen.lastPrompt, "From 'doc1'") {
		t.Error("prompt should tag the chunk with its source")
	}
	if !strings.Contains(gen.lastPrompt, "ONLY") {
		t.Error("prompt should carry the grounding instruction")
	}
}

func TestQuery_EmptyIndexRefusesWithoutLLM(t *testing.T) {
	gen := &stubGenerator{failOnCall: t}
	p, idx := newTestPipeline(t, testConfig(), bstLoader(), bstEmbedder(), gen)
	idx.Ensure(context.Background(), false)

	answer, err := p.Query(context.Background(), "What is a BST?", QueryOptions{})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	if answer.Grounded {
		t.Error("Grounded = true on an empty index, want false")
	}
	if answer.Answer != RefusalAnswer {
		t.Errorf("Answer = %q, want the canned refusal", answer.Answer)
	}
	if len(answer.Sources) != 0 {
		t.Errorf("Sources = %v, want empty", answer.Sources)
	}
}

func TestQuery_BelowThresholdRefusesWithoutLLM(t *testing.T) {
	cfg := testConfig()
	cfg.MinSimilarity = 0.5

	gen := &stubGenerator{failOnCall: t}
	p, _ := newTestPipeline(t, cfg, bstLoader(), bstEmbedder(), gen)
	ingestBST(t, p)

	// The Raft question embeds orthogonally to the BST chunk
	answer, err := p.Query(context.Background(), "What is Raft?", QueryOptions{})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	if answer.Grounded {
		t.Error("Grounded = true below threshold, want false")
	}
	if len(answer.Sources) != 0 {
		t.Errorf("Sources = %v, want empty", answer.Sources)
	}
}

func TestQuery_ThresholdUnsetAcceptsAnyResult(t *testing.T) {
	gen := &stubGenerator{answer: "weak but grounded"}
	p, _ := newTestPipeline(t, testConfig(), bstLoader(), bstEmbedder(), gen)
	ingestBST(t, p)

	// Poor similarity, but no threshold configured
	answer, err := p.Query(context.Background(), "What is Raft?", QueryOptions{})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if !answer.Grounded {
		t.Error("Grounded = false with unset threshold and nonempty results")
	}
}

func TestQuery_TopKOverride(t *testing.T) {
	cfg := testConfig()
	cfg.ChunkSize = 30
	cfg.ChunkOverlap = 0

	long := strings.Repeat("graph traversal notes. ", 10)
	ld := &stubLoader{docs: []models.Document{{Source: "graphs", Content: long}}}
	emb := &stubEmbedder{
		dim:      3,
		vectors:  map[string][]float64{"What is DFS?": {0, 1, 0}},
		fallback: []float64{0, 1, 0},
	}
	gen := &stubGenerator{answer: "ok"}

	p, _ := newTestPipeline(t, cfg, ld, emb, gen)
	ingestBST(t, p)

	answer, err := p.Query(context.Background(), "What is DFS?", QueryOptions{TopK: 2})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(answer.Results) > 2 {
		t.Errorf("got %d results, want <= 2", len(answer.Results))
	}
}

func TestQuery_SourceFilter(t *testing.T) {
	ld := &stubLoader{docs: []models.Document{
		{Source: "doc1", Content: bstText},
		{Source: "doc2", Content: "unrelated chunk"},
	}}
	gen := &stubGenerator{answer: "ok"}
	p, _ := newTestPipeline(t, testConfig(), ld, bstEmbedder(), gen)
	ingestBST(t, p)

	answer, err := p.Query(context.Background(), "What is a BST?", QueryOptions{SourceFilter: "doc2"})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	for _, r := range answer.Results {
		if r.Source != "doc2" {
			t.Errorf("result from %s leaked through the doc2 filter", r.Source)
		}
	}
}

func TestQuery_CitationsDeduplicatedInRankOrder(t *testing.T) {
	cfg := testConfig()
	cfg.ChunkSize = 40
	cfg.ChunkOverlap = 0

	ld := &stubLoader{docs: []models.Document{
		{Source: "alpha", Content: strings.Repeat("alpha passage text here padded. ", 3)},
		{Source: "beta", Content: "beta passage"},
	}}
	emb := &stubEmbedder{
		dim:      3,
		vectors:  map[string][]float64{"question": {0, 1, 0}},
		fallback: []float64{0, 1, 0},
	}
	gen := &stubGenerator{answer: "ok"}

	p, _ := newTestPipeline(t, cfg, ld, emb, gen)
	ingestBST(t, p)

	answer, err := p.Query(context.Background(), "question", QueryOptions{})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	seen := map[string]int{}
	for _, s := range answer.Sources {
		seen[s]++
	}
	for s, n := range seen {
		if n > 1 {
			t.Errorf("source %s cited %d times, want deduplicated", s, n)
		}
	}
	if len(answer.Sources) != 2 {
		t.Errorf("Sources = %v, want both alpha and beta once", answer.Sources)
	}
}

func TestQuery_RankingMonotonicallyNonIncreasing(t *testing.T) {
	ld := &stubLoader{docs: []models.Document{
		{Source: "doc1", Content: bstText},
		{Source: "doc2", Content: "unrelated chunk"},
	}}
	gen := &stubGenerator{answer: "ok"}
	p, _ := newTestPipeline(t, testConfig(), ld, bstEmbedder(), gen)
	ingestBST(t, p)

	answer, err := p.Query(context.Background(), "What is a BST?", QueryOptions{})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	for i := 1; i < len(answer.Results); i++ {
		if answer.Results[i].Similarity > answer.Results[i-1].Similarity {
			t.Errorf("similarity increased from rank %d to %d", i, i+1)
		}
	}
}
