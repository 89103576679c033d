package domain

import "errors"

// Sentinel errors shared across layers.
var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrConversationNotFound signals a missing conversation.
	ErrConversationNotFound = errors.New("conversation not found")
	// ErrContactNotFound signals a missing contact.
	ErrContactNotFound = errors.New("contact not found")
	// ErrMatchNotFound signals a missing match suggestion.
	ErrMatchNotFound = errors.New("match suggestion not found")
	// ErrForbidden signals an ownership violation.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidStatus signals an unknown match status value.
	ErrInvalidStatus = errors.New("invalid match status")

	// ErrEmbeddingQuotaExceeded signals an exhausted embedding token budget.
	ErrEmbeddingQuotaExceeded = errors.New("embedding quota exceeded")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrScoringProviderError signals a scoring provider failure (timeout or non-success status).
	ErrScoringProviderError = errors.New("scoring provider error")
)
