// Package conversation persists conversations and their extracted entities.
package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/matchdex/internal/db"
	"github.com/kailas-cloud/matchdex/internal/domain"
)

// store is the consumer interface for conversations (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
}

// Repo implements the conversation reader/writer used by the usecases.
type Repo struct {
	store  store
	logger *zap.Logger
}

// New creates a conversation repository.
func New(s store, logger *zap.Logger) *Repo {
	return &Repo{store: s, logger: logger}
}

// Get returns a conversation by ID.
// A stored entity embedding that fails to parse is dropped with a warning:
// the pipeline regenerates it, a poisoned value must not block matching.
func (r *Repo) Get(ctx context.Context, id string) (domain.Conversation, error) {
	key := convKey(id)
	fields, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(fields) == 0 {
		return domain.Conversation{}, domain.ErrConversationNotFound
	}

	conv := parseConversationFields(id, fields)
	if raw := fields[fieldEntityEmbedding]; raw != "" && conv.EntityEmbedding == nil {
		r.logger.Warn("dropping malformed stored conversation embedding",
			zap.String("conversation_id", id))
	}
	return conv, nil
}

// SetEntityEmbedding writes the cached aggregate embedding for a conversation.
func (r *Repo) SetEntityEmbedding(ctx context.Context, id string, vec []float32) error {
	encoded, err := domain.EncodeVector(vec)
	if err != nil {
		return fmt.Errorf("encode embedding for %s: %w", id, err)
	}

	key := convKey(id)
	if err := r.store.HSet(ctx, key, map[string]string{fieldEntityEmbedding: encoded}); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// ListEntities returns the extracted entities of a conversation.
// A conversation with no entities document yields an empty slice.
func (r *Repo) ListEntities(ctx context.Context, id string) ([]domain.Entity, error) {
	key := entitiesKey(id)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("json.get %s: %w", key, err)
	}

	// JSON.GET with path $ wraps the document in a one-element array.
	var docs [][]entityDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("unmarshal entities %s: %w", key, err)
	}
	if len(docs) == 0 {
		return nil, nil
	}

	entities := make([]domain.Entity, 0, len(docs[0]))
	for _, d := range docs[0] {
		entities = append(entities, d.toDomain(id))
	}
	return entities, nil
}

func convKey(id string) string {
	return domain.KeyPrefix + "conversation:" + id
}

func entitiesKey(id string) string {
	return convKey(id) + ":entities"
}
