package domain

// MatchStatus is the workflow state of a match suggestion.
type MatchStatus string

// Suggestion workflow states. New suggestions always start pending;
// later transitions are driven by user action.
const (
	MatchPending   MatchStatus = "pending"
	MatchPromised  MatchStatus = "promised"
	MatchMaybe     MatchStatus = "maybe"
	MatchDismissed MatchStatus = "dismissed"
)

// IsValid checks if the status is one of the supported values.
func (s MatchStatus) IsValid() bool {
	return s == MatchPending || s == MatchPromised || s == MatchMaybe || s == MatchDismissed
}

// Star score bounds of the unified 1-3 scale.
const (
	MinScore = 1
	MaxScore = 3
)

// MatchSource identifies which signal produced a suggestion.
type MatchSource string

// Suggestion signal sources.
const (
	// SourceNameMention is the rule-based maximum-confidence signal.
	SourceNameMention MatchSource = "name_mention"
	// SourceOracle is the generative scoring pass, blended with
	// embedding similarity.
	SourceOracle MatchSource = "oracle"
)

// MatchSuggestion is a scored recommendation to introduce a contact
// based on a specific conversation.
type MatchSuggestion struct {
	ID             string
	ConversationID string
	ContactID      string
	ContactName    string
	// Score is the final star rating, always in [MinScore, MaxScore].
	Score int
	// SemanticSimilarity is the raw cosine similarity in [-1,1], nil
	// when the contact had no comparable embedding.
	SemanticSimilarity *float64
	// OracleScore is the pre-blend raw model score, kept for
	// explainability. Zero for rule-based matches.
	OracleScore   int
	Source        MatchSource
	Reasons       []string
	Justification string
	Status        MatchStatus
	CreatedAt     int64
}
