// Package match orchestrates the match generation pipeline.
package match

import (
	"context"

	"github.com/kailas-cloud/matchdex/internal/domain"
	"github.com/kailas-cloud/matchdex/internal/usecase/candidate"
	"github.com/kailas-cloud/matchdex/internal/usecase/embedding"
)

// conversationStore is the consumer interface for conversation reads (ISP).
type conversationStore interface {
	Get(ctx context.Context, id string) (domain.Conversation, error)
	ListEntities(ctx context.Context, id string) ([]domain.Entity, error)
}

// contactStore is the consumer interface for contact reads (ISP).
type contactStore interface {
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Contact, error)
}

// matchStore is the consumer interface for suggestion persistence (ISP).
type matchStore interface {
	Insert(ctx context.Context, conversationID string, matches []domain.MatchSuggestion) (
		[]domain.MatchSuggestion, error)
	Get(ctx context.Context, id string) (domain.MatchSuggestion, error)
	ListByConversation(ctx context.Context, conversationID string) ([]domain.MatchSuggestion, error)
	UpdateStatus(ctx context.Context, id string, status domain.MatchStatus) error
}

// conversationEmbedder resolves the conversation's aggregate embedding.
type conversationEmbedder interface {
	ConversationEmbedding(ctx context.Context, id string, force bool) (embedding.Result, error)
}

// candidateFilter builds the bounded scoring slate.
type candidateFilter interface {
	Select(convEmb []float32, contacts []domain.Contact) candidate.Slate
}

// nameMatcher finds contacts mentioned by name.
type nameMatcher interface {
	Match(entities []domain.Entity, contacts []domain.Contact,
		similarity map[string]float64) []domain.MatchSuggestion
}

// slateScorer runs the generative scoring pass.
type slateScorer interface {
	ScoreSlate(ctx context.Context, entities []domain.Entity,
		slate candidate.Slate) ([]domain.MatchSuggestion, error)
}
