package match

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/matchdex/internal/domain"
)

// Hash field names of the match record.
const (
	fieldConversationID = "conversation_id"
	fieldContactID      = "contact_id"
	fieldContactName    = "contact_name"
	fieldScore          = "score"
	fieldSimilarity     = "semantic_similarity"
	fieldOracleScore    = "oracle_score"
	fieldSource         = "source"
	fieldReasons        = "reasons"
	fieldJustification  = "justification"
	fieldStatus         = "status"
	fieldCreatedAt      = "created_at"
)

// buildMatchFields converts a domain MatchSuggestion into a flat map for HSET.
func buildMatchFields(m *domain.MatchSuggestion) (map[string]string, error) {
	fields := map[string]string{
		fieldConversationID: m.ConversationID,
		fieldContactID:      m.ContactID,
		fieldScore:          strconv.Itoa(m.Score),
		fieldSource:         string(m.Source),
		fieldJustification:  m.Justification,
		fieldStatus:         string(m.Status),
		fieldCreatedAt:      strconv.FormatInt(m.CreatedAt, 10),
	}
	if m.ContactName != "" {
		fields[fieldContactName] = m.ContactName
	}
	if m.SemanticSimilarity != nil {
		fields[fieldSimilarity] = strconv.FormatFloat(*m.SemanticSimilarity, 'f', -1, 64)
	}
	if m.OracleScore != 0 {
		fields[fieldOracleScore] = strconv.Itoa(m.OracleScore)
	}
	if len(m.Reasons) > 0 {
		data, err := json.Marshal(m.Reasons)
		if err != nil {
			return nil, fmt.Errorf("marshal reasons: %w", err)
		}
		fields[fieldReasons] = string(data)
	}
	return fields, nil
}

// parseMatchFields converts a flat hash map back into a domain MatchSuggestion.
func parseMatchFields(id string, m map[string]string) domain.MatchSuggestion {
	suggestion := domain.MatchSuggestion{
		ID:             id,
		ConversationID: m[fieldConversationID],
		ContactID:      m[fieldContactID],
		ContactName:    m[fieldContactName],
		Source:         domain.MatchSource(m[fieldSource]),
		Justification:  m[fieldJustification],
		Status:         domain.MatchStatus(m[fieldStatus]),
	}
	if v := m[fieldScore]; v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			suggestion.Score = n
		}
	}
	if v := m[fieldSimilarity]; v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			suggestion.SemanticSimilarity = &f
		}
	}
	if v := m[fieldOracleScore]; v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			suggestion.OracleScore = n
		}
	}
	if v := m[fieldReasons]; v != "" {
		var reasons []string
		if err := json.Unmarshal([]byte(v), &reasons); err == nil {
			suggestion.Reasons = reasons
		}
	}
	if v := m[fieldCreatedAt]; v != "" {
		if ts, err := strconv.ParseInt(v, 10, 64); err == nil {
			suggestion.CreatedAt = ts
		}
	}
	return suggestion
}
