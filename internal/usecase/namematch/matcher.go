// Package namematch finds contacts mentioned by name in a conversation.
package namematch

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/matchdex/internal/domain"
)

// mentionReason is the fixed reason attached to every name match.
const mentionReason = "Mentioned by name in conversation"

// Matcher matches person_name entities against contact names.
type Matcher struct{}

// New creates a name matcher.
func New() *Matcher {
	return &Matcher{}
}

// Match returns a maximum-score suggestion for every contact whose name
// matches a person_name entity. Matching is case-insensitive: either
// full string containing the other counts; otherwise a multi-token
// mention matches only when BOTH its first and last tokens each match
// some token of the contact name (so "Dana Lee" finds "Dana R. Lee"
// but "Sam Ortiz" does not find "Ortiz Ventures"). Contacts appear at
// most once even when mentioned repeatedly. similarity supplies the
// per-contact cosine similarity where known.
func (m *Matcher) Match(
	entities []domain.Entity, contacts []domain.Contact, similarity map[string]float64,
) []domain.MatchSuggestion {
	var mentions []string
	for _, e := range entities {
		if e.Kind != domain.EntityPersonName {
			continue
		}
		if v := strings.ToLower(strings.TrimSpace(e.Value)); v != "" {
			mentions = append(mentions, v)
		}
	}
	if len(mentions) == 0 {
		return nil
	}

	var matches []domain.MatchSuggestion
	for _, c := range contacts {
		name := strings.ToLower(c.Name)
		if name == "" {
			continue
		}
		if !mentioned(name, mentions) {
			continue
		}

		s := domain.MatchSuggestion{
			ContactID:   c.ID,
			ContactName: c.Name,
			Score:       domain.MaxScore,
			Source:      domain.SourceNameMention,
			Reasons:     []string{mentionReason},
			Justification: fmt.Sprintf(
				"%s was specifically mentioned as a potential match during the conversation.", c.Name),
		}
		if sim, ok := similarity[c.ID]; ok {
			s.SemanticSimilarity = &sim
		}
		matches = append(matches, s)
	}
	return matches
}

// mentioned reports whether any mention refers to the contact name.
func mentioned(name string, mentions []string) bool {
	nameTokens := strings.Fields(name)
	for _, mention := range mentions {
		if strings.Contains(name, mention) || strings.Contains(mention, name) {
			return true
		}
		parts := strings.Fields(mention)
		if len(parts) < 2 {
			continue
		}
		// Both the first and last token of the mention must appear in
		// the contact name for a token-level match.
		first, last := parts[0], parts[len(parts)-1]
		if tokenMatches(nameTokens, first) && tokenMatches(nameTokens, last) {
			return true
		}
	}
	return false
}

// tokenMatches reports whether any name token contains or is contained
// by the mention token.
func tokenMatches(nameTokens []string, token string) bool {
	for _, t := range nameTokens {
		if strings.Contains(t, token) || strings.Contains(token, t) {
			return true
		}
	}
	return false
}
