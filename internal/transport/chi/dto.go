package chi

import (
	healthuc "github.com/kailas-cloud/matchdex/internal/usecase/health"

	"github.com/kailas-cloud/matchdex/internal/domain"
)

// errorCode is a machine-readable error discriminator for API clients.
type errorCode string

const (
	codeBadRequest             errorCode = "bad_request"
	codeValidationFailed       errorCode = "validation_failed"
	codeNotFound               errorCode = "not_found"
	codeConversationNotFound   errorCode = "conversation_not_found"
	codeContactNotFound        errorCode = "contact_not_found"
	codeMatchNotFound          errorCode = "match_not_found"
	codeForbidden              errorCode = "forbidden"
	codeEmbeddingQuotaExceeded errorCode = "embedding_quota_exceeded"
	codeEmbeddingProviderError errorCode = "embedding_provider_error"
	codeScoringProviderError   errorCode = "scoring_provider_error"
	codeInternalError          errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

type matchResponse struct {
	ID                 string   `json:"id"`
	ConversationID     string   `json:"conversation_id"`
	ContactID          string   `json:"contact_id"`
	ContactName        string   `json:"contact_name,omitempty"`
	Score              int      `json:"score"`
	SemanticSimilarity *float64 `json:"semantic_similarity,omitempty"`
	OracleScore        int      `json:"oracle_score,omitempty"`
	Source             string   `json:"source"`
	Reasons            []string `json:"reasons,omitempty"`
	Justification      string   `json:"justification,omitempty"`
	Status             string   `json:"status"`
	CreatedAt          int64    `json:"created_at"`
}

type matchListResponse struct {
	Items []matchResponse `json:"items"`
	Total int             `json:"total"`
}

type embeddingResponse struct {
	Generated   bool `json:"generated"`
	Cached      bool `json:"cached"`
	EntityCount int  `json:"entity_count"`
	Dimensions  int  `json:"dimensions"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type healthResponse struct {
	Status string                          `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

func matchToResponse(m domain.MatchSuggestion) matchResponse {
	return matchResponse{
		ID:                 m.ID,
		ConversationID:     m.ConversationID,
		ContactID:          m.ContactID,
		ContactName:        m.ContactName,
		Score:              m.Score,
		SemanticSimilarity: m.SemanticSimilarity,
		OracleScore:        m.OracleScore,
		Source:             string(m.Source),
		Reasons:            m.Reasons,
		Justification:      m.Justification,
		Status:             string(m.Status),
		CreatedAt:          m.CreatedAt,
	}
}

func matchesToResponse(matches []domain.MatchSuggestion) []matchResponse {
	items := make([]matchResponse, len(matches))
	for i, m := range matches {
		items[i] = matchToResponse(m)
	}
	return items
}
