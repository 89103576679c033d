package match

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/matchdex/internal/domain"
	"github.com/kailas-cloud/matchdex/internal/metrics"
)

// Service implements match generation and the suggestion workflow.
type Service struct {
	conversations conversationStore
	contacts      contactStore
	matches       matchStore
	embedder      conversationEmbedder
	filter        candidateFilter
	names         nameMatcher
	scorer        slateScorer
	logger        *zap.Logger
}

// NewService wires the match pipeline.
func NewService(
	conversations conversationStore,
	contacts contactStore,
	matches matchStore,
	embedder conversationEmbedder,
	filter candidateFilter,
	names nameMatcher,
	scorer slateScorer,
	logger *zap.Logger,
) *Service {
	return &Service{
		conversations: conversations,
		contacts:      contacts,
		matches:       matches,
		embedder:      embedder,
		filter:        filter,
		names:         names,
		scorer:        scorer,
		logger:        logger,
	}
}

// Generate runs the full pipeline for one conversation and persists the
// resulting suggestions as a batch. Name mentions win over oracle
// entries for the same contact. An owner mismatch aborts before any
// provider call. Runs with nothing to suggest return an empty slice and
// persist nothing.
func (s *Service) Generate(ctx context.Context, conversationID, ownerID string) (
	[]domain.MatchSuggestion, error,
) {
	conv, err := s.conversations.Get(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("get conversation %s: %w", conversationID, err)
	}
	if ownerID != "" && conv.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}

	embRes, err := s.embedder.ConversationEmbedding(ctx, conversationID, false)
	if err != nil {
		return nil, fmt.Errorf("conversation embedding: %w", err)
	}

	contacts, err := s.contacts.ListByOwner(ctx, conv.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	if len(contacts) == 0 {
		return []domain.MatchSuggestion{}, nil
	}

	entities, err := s.conversations.ListEntities(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}

	slate := s.filter.Select(embRes.Embedding, contacts)

	// Name matching runs over the full contact book: a mentioned contact
	// must surface even when similarity ranked it out of the slate.
	nameMatches := s.names.Match(entities, contacts, slate.Similarity)

	oracleMatches, err := s.scorer.ScoreSlate(ctx, entities, slate)
	if err != nil {
		return nil, fmt.Errorf("scoring pass: %w", err)
	}

	final := s.blend(nameMatches, oracleMatches)
	if len(final) == 0 {
		return []domain.MatchSuggestion{}, nil
	}

	persisted, err := s.matches.Insert(ctx, conversationID, final)
	if err != nil {
		return nil, fmt.Errorf("persist matches: %w", err)
	}

	for _, m := range persisted {
		metrics.MatchesGeneratedTotal.WithLabelValues(string(m.Source)).Inc()
	}

	s.logger.Info("match generation completed",
		zap.String("conversation_id", conversationID),
		zap.Int("contacts", len(contacts)),
		zap.Int("slate", len(slate.Contacts)),
		zap.Int("name_matches", len(nameMatches)),
		zap.Int("oracle_matches", len(oracleMatches)),
		zap.Int("persisted", len(persisted)),
	)

	return persisted, nil
}

// blend merges name and oracle matches, applying the score blend to
// oracle entries and dropping oracle entries for contacts the name
// matcher already claimed.
func (s *Service) blend(nameMatches, oracleMatches []domain.MatchSuggestion) []domain.MatchSuggestion {
	final := make([]domain.MatchSuggestion, 0, len(nameMatches)+len(oracleMatches))
	claimed := make(map[string]bool, len(nameMatches))

	for _, m := range nameMatches {
		if claimed[m.ContactID] {
			continue
		}
		claimed[m.ContactID] = true
		final = append(final, m)
	}

	for _, m := range oracleMatches {
		if claimed[m.ContactID] {
			continue
		}
		claimed[m.ContactID] = true
		m.Score = blendScore(m.OracleScore, m.SemanticSimilarity)
		final = append(final, m)
	}

	return final
}

// List returns the stored suggestions of a conversation after an
// ownership check.
func (s *Service) List(ctx context.Context, conversationID, ownerID string) (
	[]domain.MatchSuggestion, error,
) {
	conv, err := s.conversations.Get(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("get conversation %s: %w", conversationID, err)
	}
	if ownerID != "" && conv.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}

	matches, err := s.matches.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	if matches == nil {
		matches = []domain.MatchSuggestion{}
	}
	return matches, nil
}

// UpdateStatus transitions one suggestion's workflow state after
// validating the value and the caller's ownership of the parent
// conversation.
func (s *Service) UpdateStatus(
	ctx context.Context, matchID, ownerID string, status domain.MatchStatus,
) (domain.MatchSuggestion, error) {
	if !status.IsValid() {
		return domain.MatchSuggestion{}, fmt.Errorf("%q: %w", status, domain.ErrInvalidStatus)
	}

	m, err := s.matches.Get(ctx, matchID)
	if err != nil {
		return domain.MatchSuggestion{}, fmt.Errorf("get match %s: %w", matchID, err)
	}

	if ownerID != "" {
		conv, err := s.conversations.Get(ctx, m.ConversationID)
		if err != nil {
			return domain.MatchSuggestion{}, fmt.Errorf("get conversation %s: %w", m.ConversationID, err)
		}
		if conv.OwnerID != ownerID {
			return domain.MatchSuggestion{}, domain.ErrForbidden
		}
	}

	if err := s.matches.UpdateStatus(ctx, matchID, status); err != nil {
		return domain.MatchSuggestion{}, fmt.Errorf("update status: %w", err)
	}

	m.Status = status
	return m, nil
}
