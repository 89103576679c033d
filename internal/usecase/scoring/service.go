// Package scoring turns the candidate slate into oracle-scored suggestions.
package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/matchdex/internal/domain"
	"github.com/kailas-cloud/matchdex/internal/usecase/candidate"
)

// DefaultMaxCandidates is the hard cap on contacts sent to the oracle.
const DefaultMaxCandidates = 50

// oracleMatch is the expected shape of one entry in the oracle's JSON reply.
type oracleMatch struct {
	ContactID     string   `json:"contact_id"`
	Score         int      `json:"score"`
	Reasons       []string `json:"reasons"`
	Justification string   `json:"justification"`
}

// Service drives one generative scoring pass.
type Service struct {
	scorer        domain.MatchScorer
	maxCandidates int
	logger        *zap.Logger
}

// NewService creates a scoring service. A non-positive cap falls back
// to the default.
func NewService(scorer domain.MatchScorer, maxCandidates int, logger *zap.Logger) *Service {
	if maxCandidates <= 0 {
		maxCandidates = DefaultMaxCandidates
	}
	return &Service{scorer: scorer, maxCandidates: maxCandidates, logger: logger}
}

// ScoreSlate scores the slate against the conversation's non-name
// entities. The pass is skipped entirely (nil, nil) when there is
// nothing to score: no non-name entities or no candidates. A transport
// failure propagates; an unparseable reply degrades to zero matches
// with a warning. Returned suggestions carry the raw oracle score, the
// contact name and the slate similarity; blending happens downstream.
func (s *Service) ScoreSlate(
	ctx context.Context, entities []domain.Entity, slate candidate.Slate,
) ([]domain.MatchSuggestion, error) {
	grouped := groupByKind(entities)
	if len(grouped) == 0 || len(slate.Contacts) == 0 {
		return nil, nil
	}

	candidates := slate.Contacts
	if len(candidates) > s.maxCandidates {
		candidates = candidates[:s.maxCandidates]
	}

	req := domain.ScoringRequest{
		Entities:   grouped,
		Candidates: make([]domain.ScoringCandidate, len(candidates)),
	}
	byID := make(map[string]domain.Contact, len(candidates))
	for i, c := range candidates {
		req.Candidates[i] = domain.ScoringCandidate{
			ID:      c.ID,
			Name:    c.Name,
			Company: c.Company,
			Theses:  c.Theses,
		}
		byID[c.ID] = c
	}

	raw, err := s.scorer.ScoreCandidates(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("score candidates: %w", err)
	}

	parsed, ok := s.parseReply(raw)
	if !ok {
		return nil, nil
	}

	suggestions := make([]domain.MatchSuggestion, 0, len(parsed))
	for _, m := range parsed {
		sg := domain.MatchSuggestion{
			ContactID:     m.ContactID,
			ContactName:   "Unknown",
			Score:         m.Score,
			OracleScore:   m.Score,
			Source:        domain.SourceOracle,
			Reasons:       m.Reasons,
			Justification: m.Justification,
		}
		if c, found := byID[m.ContactID]; found && c.Name != "" {
			sg.ContactName = c.Name
		}
		if sim, found := slate.Similarity[m.ContactID]; found {
			sg.SemanticSimilarity = &sim
		}
		suggestions = append(suggestions, sg)
	}
	return suggestions, nil
}

// parseReply decodes the oracle's JSON array, tolerating markdown code
// fences around it. Anything else is logged and treated as no matches.
func (s *Service) parseReply(raw string) ([]oracleMatch, bool) {
	text := stripCodeFences(raw)
	if text == "" {
		return nil, false
	}

	var parsed []oracleMatch
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		s.logger.Warn("unparseable scoring reply, treating as zero matches",
			zap.Int("reply_chars", len(raw)),
			zap.Error(err))
		return nil, false
	}
	return parsed, true
}

// stripCodeFences removes a leading ```json (or bare ```) fence and the
// trailing ``` the models love to wrap JSON in.
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	if idx := strings.Index(text, "\n"); idx >= 0 {
		// Drop the language tag line ("json", "JSON", or empty).
		text = text[idx+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// groupByKind collects non-name entity values by kind, preserving order.
func groupByKind(entities []domain.Entity) map[string][]string {
	grouped := make(map[string][]string)
	for _, e := range entities {
		if e.Kind == domain.EntityPersonName {
			continue
		}
		if e.Value == "" {
			continue
		}
		grouped[string(e.Kind)] = append(grouped[string(e.Kind)], e.Value)
	}
	return grouped
}
