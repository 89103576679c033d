package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/matchdex/internal/domain"
	"github.com/kailas-cloud/matchdex/internal/metrics"
)

// scoringSystemPrompt instructs the model to rate candidate contacts
// against the conversation's extracted needs on the 1-3 star scale.
const scoringSystemPrompt = `You are a relationship intelligence assistant. You receive the needs extracted from a conversation (grouped by kind: sector, stage, check_size, geography, persona_type) and a list of contacts from the user's network.

Rate how well each contact matches the needs:
- 3 stars: strong, direct match on the most important criteria
- 2 stars: good match on some criteria
- 1 star: plausible but speculative match

Partial matches are valid and should be included with a lower score. Omit contacts with no meaningful connection to the needs.

Respond with ONLY a JSON array, no prose:
[{"contact_id": "...", "score": 1-3, "reasons": ["short reason", ...], "justification": "one sentence"}]`

// Scorer is a generative match scorer using the OpenAI-compatible chat API.
type Scorer struct {
	client      *openai.Client
	model       string
	provider    string
	temperature float32
	timeout     time.Duration
	logger      *zap.Logger
}

// ScorerConfig holds the scoring oracle settings.
type ScorerConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Provider    string
	Temperature float32
	Timeout     time.Duration
	Logger      *zap.Logger
}

// NewScorer creates an OpenAI-compatible scoring client.
func NewScorer(cfg *ScorerConfig) *Scorer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 25 * time.Second
	}

	return &Scorer{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		provider:    cfg.Provider,
		temperature: cfg.Temperature,
		timeout:     timeout,
		logger:      cfg.Logger,
	}
}

// ScoreCandidates implements domain.MatchScorer. The call is bounded by
// the configured timeout; hitting it is a hard failure wrapped in
// domain.ErrScoringProviderError. An empty choice list is returned as
// empty text with a warning so the caller degrades to zero matches.
func (s *Scorer) ScoreCandidates(ctx context.Context, req domain.ScoringRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal scoring request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: s.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: scoringSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: string(payload)},
		},
	})

	duration := time.Since(start)

	if err != nil {
		metrics.ScoringRequestsTotal.WithLabelValues(s.provider, s.model, "error").Inc()
		return "", s.parseError(err)
	}

	metrics.ScoringRequestsTotal.WithLabelValues(s.provider, s.model, "success").Inc()
	metrics.ScoringRequestDuration.WithLabelValues(s.provider, s.model).Observe(duration.Seconds())

	if resp.Usage.TotalTokens > 0 {
		metrics.ScoringTokensTotal.WithLabelValues(s.provider, s.model, "prompt").
			Add(float64(resp.Usage.PromptTokens))
		metrics.ScoringTokensTotal.WithLabelValues(s.provider, s.model, "completion").
			Add(float64(resp.Usage.CompletionTokens))
	}

	if len(resp.Choices) == 0 {
		s.logger.Warn("scoring oracle returned no choices", zap.String("model", s.model))
		return "", nil
	}

	return resp.Choices[0].Message.Content, nil
}

// HealthCheck verifies scoring provider availability.
func (s *Scorer) HealthCheck(ctx context.Context) error {
	_, err := s.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("scoring provider health check: %w", err)
	}
	return nil
}

// parseError wraps transport failures with domain.ErrScoringProviderError.
func (s *Scorer) parseError(err error) error {
	wrap := domain.ErrScoringProviderError

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("scoring request timed out after %s: %w", s.timeout, wrap)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("scoring API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("scoring API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("scoring request failed: %w", wrap)
}
