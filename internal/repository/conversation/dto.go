package conversation

import (
	"strconv"

	"github.com/kailas-cloud/matchdex/internal/domain"
)

// Hash field names of the conversation record.
const (
	fieldOwnerID         = "owner_id"
	fieldTitle           = "title"
	fieldEntityEmbedding = "entity_embedding"
	fieldCreatedAt       = "created_at"
)

// entityDoc is the stored shape of one extracted entity.
type entityDoc struct {
	ID         string  `json:"id"`
	Kind       string  `json:"kind"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence,omitempty"`
	Context    string  `json:"context,omitempty"`
}

func (d entityDoc) toDomain(conversationID string) domain.Entity {
	return domain.Entity{
		ID:             d.ID,
		ConversationID: conversationID,
		Kind:           domain.EntityKind(d.Kind),
		Value:          d.Value,
		Confidence:     d.Confidence,
		Context:        d.Context,
	}
}

// parseConversationFields converts a flat hash map into a domain Conversation.
// The embedding parse is lenient: malformed values become nil.
func parseConversationFields(id string, m map[string]string) domain.Conversation {
	conv := domain.Conversation{
		ID:      id,
		OwnerID: m[fieldOwnerID],
		Title:   m[fieldTitle],
	}
	if v := m[fieldCreatedAt]; v != "" {
		if ts, err := strconv.ParseInt(v, 10, 64); err == nil {
			conv.CreatedAt = ts
		}
	}
	if raw := m[fieldEntityEmbedding]; raw != "" {
		if vec, err := domain.ParseVector(raw); err == nil {
			conv.EntityEmbedding = vec
		}
	}
	return conv
}
