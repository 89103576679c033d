package domain

// Conversation is a recorded meeting with extracted entities.
// The matching pipeline treats it as read-only except for the
// entity-embedding cache, which is written back after generation.
type Conversation struct {
	ID      string
	OwnerID string
	Title   string
	// EntityEmbedding is the cached aggregate embedding of the
	// conversation's entities. Nil when never generated or when the
	// stored value could not be parsed (callers regenerate).
	EntityEmbedding []float32
	CreatedAt       int64
}
