package domain

import "context"

// ScoringCandidate is the contact card sent to the scoring model.
type ScoringCandidate struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Company string   `json:"company,omitempty"`
	Theses  []Thesis `json:"theses,omitempty"`
}

// ScoringRequest is the payload for one generative scoring pass:
// non-name entity values grouped by kind, plus the bounded candidate slate.
type ScoringRequest struct {
	Entities   map[string][]string `json:"entities"`
	Candidates []ScoringCandidate  `json:"contacts"`
}

// MatchScorer is the generative scoring port. Implementations return the
// raw assistant text; parsing (including code-fence stripping) is the
// caller's concern so that an unparseable body can degrade softly.
// A transport failure (timeout, non-success status) is returned as an
// error wrapping ErrScoringProviderError.
type MatchScorer interface {
	ScoreCandidates(ctx context.Context, req ScoringRequest) (string, error)
}
