package domain

import (
	"context"
	"errors"
	"testing"
)

type stubEmbedder struct {
	vec    []float32
	tokens int
	err    error
	calls  int
}

func (s *stubEmbedder) Embed(_ context.Context, _ string) (EmbeddingResult, error) {
	s.calls++
	if s.err != nil {
		return EmbeddingResult{}, s.err
	}
	return EmbeddingResult{Embedding: s.vec, PromptTokens: s.tokens, TotalTokens: s.tokens}, nil
}

func TestBatchFallback(t *testing.T) {
	e := &stubEmbedder{vec: []float32{0.1, 0.2}, tokens: 7}

	res, err := BatchFallback(context.Background(), e, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embeddings) != 3 {
		t.Fatalf("expected 3 embeddings, got %d", len(res.Embeddings))
	}
	if e.calls != 3 {
		t.Errorf("expected 3 calls, got %d", e.calls)
	}
	if res.TotalTokens != 21 {
		t.Errorf("expected 21 total tokens, got %d", res.TotalTokens)
	}
}

func TestBatchFallback_Error(t *testing.T) {
	e := &stubEmbedder{err: errors.New("provider down")}

	if _, err := BatchFallback(context.Background(), e, []string{"a"}); err == nil {
		t.Fatal("expected error")
	}
}
