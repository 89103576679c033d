package embedding

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/matchdex/internal/domain"
)

// MaxEmbedTextChars caps the concatenated entity text sent to the
// embedding provider.
const MaxEmbedTextChars = 8000

// Service computes and caches the aggregate entity embedding of a
// conversation.
type Service struct {
	conversations conversationStore
	embedder      domain.Embedder
	logger        *zap.Logger
}

// NewService creates a conversation embedding service.
func NewService(conversations conversationStore, embedder domain.Embedder, logger *zap.Logger) *Service {
	return &Service{
		conversations: conversations,
		embedder:      embedder,
		logger:        logger,
	}
}

// ConversationEmbedding returns the conversation's aggregate entity
// embedding, reusing the stored one unless force is set.
//
// Failure semantics are asymmetric on purpose: a missing conversation
// or a storage error is hard, while a provider failure degrades to a
// nil embedding so match generation can continue without similarity.
func (s *Service) ConversationEmbedding(ctx context.Context, id string, force bool) (Result, error) {
	conv, err := s.conversations.Get(ctx, id)
	if err != nil {
		return Result{}, fmt.Errorf("get conversation %s: %w", id, err)
	}

	if !force && conv.EntityEmbedding != nil {
		return Result{Embedding: conv.EntityEmbedding, Cached: true}, nil
	}

	entities, err := s.conversations.ListEntities(ctx, id)
	if err != nil {
		return Result{}, fmt.Errorf("list entities %s: %w", id, err)
	}
	if len(entities) == 0 {
		return Result{}, nil
	}

	text := buildEmbedText(entities)

	res, err := s.embedder.Embed(ctx, text)
	if err != nil {
		s.logger.Warn("conversation embedding failed, continuing without similarity",
			zap.String("conversation_id", id),
			zap.Int("entity_count", len(entities)),
			zap.Error(err))
		return Result{EntityCount: len(entities)}, nil
	}

	if err := s.conversations.SetEntityEmbedding(ctx, id, res.Embedding); err != nil {
		// The vector is still usable this run; only the cache write is lost.
		s.logger.Warn("failed to cache conversation embedding",
			zap.String("conversation_id", id),
			zap.Error(err))
	}

	return Result{Embedding: res.Embedding, EntityCount: len(entities)}, nil
}

// buildEmbedText concatenates entities as "{kind}: {value}" fragments,
// truncated to MaxEmbedTextChars runes so a cut never splits a
// multi-byte character.
func buildEmbedText(entities []domain.Entity) string {
	parts := make([]string, len(entities))
	for i, e := range entities {
		parts[i] = fmt.Sprintf("%s: %s", e.Kind, e.Value)
	}
	text := strings.Join(parts, " ")
	if len(text) > MaxEmbedTextChars {
		if runes := []rune(text); len(runes) > MaxEmbedTextChars {
			text = string(runes[:MaxEmbedTextChars])
		}
	}
	return text
}
