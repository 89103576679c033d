package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/matchdex/internal/domain"
	backfilluc "github.com/kailas-cloud/matchdex/internal/usecase/backfill"
	embeddinguc "github.com/kailas-cloud/matchdex/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/matchdex/internal/usecase/health"
	matchuc "github.com/kailas-cloud/matchdex/internal/usecase/match"
	usageuc "github.com/kailas-cloud/matchdex/internal/usecase/usage"
)

// ownerHeader carries the calling profile's identity. An empty header
// means a trusted backend call with no ownership filtering.
const ownerHeader = "X-Owner-ID"

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API for the match pipeline.
type Server struct {
	matches       *matchuc.Service
	embeddings    *embeddinguc.Service
	backfill      *backfilluc.Service
	usage         *usageuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	matches *matchuc.Service,
	embeddings *embeddinguc.Service,
	backfill *backfilluc.Service,
	usage *usageuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		matches:    matches,
		embeddings: embeddings,
		backfill:   backfill,
		usage:      usage,
		health:     health,
		logger:     logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrConversationNotFound, http.StatusNotFound, codeConversationNotFound),
		sentinelHandler(domain.ErrMatchNotFound, http.StatusNotFound, codeMatchNotFound),
		sentinelHandler(domain.ErrContactNotFound, http.StatusNotFound, codeContactNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrForbidden, http.StatusForbidden, codeForbidden),
		sentinelHandler(domain.ErrInvalidStatus, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrEmbeddingQuotaExceeded, http.StatusTooManyRequests, codeEmbeddingQuotaExceeded),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderError),
		sentinelHandler(domain.ErrScoringProviderError, http.StatusBadGateway, codeScoringProviderError),
	}
	return s
}

// Register mounts all routes on the given router.
func (s *Server) Register(r chi.Router) {
	r.Post("/conversations/{conversationID}/matches", s.GenerateMatches)
	r.Get("/conversations/{conversationID}/matches", s.ListMatches)
	r.Post("/conversations/{conversationID}/embedding", s.EmbedConversation)
	r.Patch("/matches/{matchID}", s.UpdateMatchStatus)
	r.Post("/contacts/embeddings/backfill", s.BackfillContacts)
	r.Get("/usage", s.GetUsage)
	r.Get("/health", s.HealthCheck)
	r.Get("/ready", s.Ready)
	r.Get("/metrics", s.Metrics)
}

// GenerateMatches handles POST /conversations/{conversationID}/matches.
func (s *Server) GenerateMatches(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")
	ownerID := r.Header.Get(ownerHeader)

	matches, err := s.matches.Generate(r.Context(), conversationID, ownerID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, matchListResponse{
		Items: matchesToResponse(matches),
		Total: len(matches),
	})
}

// ListMatches handles GET /conversations/{conversationID}/matches.
func (s *Server) ListMatches(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")
	ownerID := r.Header.Get(ownerHeader)

	matches, err := s.matches.List(r.Context(), conversationID, ownerID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, matchListResponse{
		Items: matchesToResponse(matches),
		Total: len(matches),
	})
}

// EmbedConversation handles POST /conversations/{conversationID}/embedding.
// The force query parameter regenerates an existing vector.
func (s *Server) EmbedConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")
	force := r.URL.Query().Get("force") == "true"

	res, err := s.embeddings.ConversationEmbedding(r.Context(), conversationID, force)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, embeddingResponse{
		Generated:   len(res.Embedding) > 0,
		Cached:      res.Cached,
		EntityCount: res.EntityCount,
		Dimensions:  len(res.Embedding),
	})
}

// UpdateMatchStatus handles PATCH /matches/{matchID}.
func (s *Server) UpdateMatchStatus(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchID")
	ownerID := r.Header.Get(ownerHeader)

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "status is required")
		return
	}

	m, err := s.matches.UpdateStatus(r.Context(), matchID, ownerID, domain.MatchStatus(req.Status))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, matchToResponse(m))
}

// BackfillContacts handles POST /contacts/embeddings/backfill.
func (s *Server) BackfillContacts(w http.ResponseWriter, r *http.Request) {
	report, err := s.backfill.Run(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// GetUsage handles GET /usage.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.usage.Report(r.Context()))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: report.Checks,
	})
}

// Ready handles GET /ready.
func (s *Server) Ready(w http.ResponseWriter, r *http.Request) {
	if err := s.health.Ready(r.Context()); err != nil {
		s.logger.Warn("readiness check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrConversationNotFound,
		domain.ErrContactNotFound,
		domain.ErrMatchNotFound,
		domain.ErrNotFound,
		domain.ErrForbidden,
		domain.ErrInvalidStatus,
		domain.ErrEmbeddingQuotaExceeded,
		domain.ErrEmbeddingProviderError,
		domain.ErrScoringProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
