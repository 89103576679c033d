// Package embedding aggregates conversation entities into a cached
// embedding and carries the budget-aware embedder decorators.
package embedding

import (
	"context"

	"github.com/kailas-cloud/matchdex/internal/domain"
)

// conversationStore is the consumer interface for conversation persistence (ISP).
type conversationStore interface {
	Get(ctx context.Context, id string) (domain.Conversation, error)
	SetEntityEmbedding(ctx context.Context, id string, vec []float32) error
	ListEntities(ctx context.Context, id string) ([]domain.Entity, error)
}

// Result is the outcome of a conversation embedding request.
type Result struct {
	// Embedding is nil when the conversation has no entities or the
	// provider call failed (both degrade the pipeline to the
	// no-similarity path instead of aborting it).
	Embedding   []float32
	Cached      bool
	EntityCount int
}
