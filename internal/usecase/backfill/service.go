// Package backfill embeds contact bios and investment theses for contacts
// that were created before vectorization existed or whose embedding write
// previously failed. Runs are bounded so a single request never drains the
// provider budget on a large address book.
package backfill

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/matchdex/internal/domain"
)

// DefaultBatchLimit bounds how many contacts a single backfill pass touches.
const DefaultBatchLimit = 25

// Service scans the contact book and fills in missing embeddings.
type Service struct {
	contacts contactStore
	embedder domain.BatchEmbedder
	limit    int
	logger   *zap.Logger
}

func NewService(contacts contactStore, embedder domain.BatchEmbedder, limit int, logger *zap.Logger) *Service {
	if limit <= 0 {
		limit = DefaultBatchLimit
	}
	return &Service{
		contacts: contacts,
		embedder: embedder,
		limit:    limit,
		logger:   logger,
	}
}

// pendingContact pairs a contact with the texts it still needs vectorized.
type pendingContact struct {
	contact    domain.Contact
	thesisText string
	bioText    string
}

// Run performs one bounded backfill pass. Vectorization happens in a single
// batch call; a provider failure fails the whole pass, while a per-contact
// write failure is reported in the item result and does not stop the rest.
func (s *Service) Run(ctx context.Context) (Report, error) {
	contacts, err := s.contacts.ListAll(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list contacts: %w", err)
	}

	var pending []pendingContact
	hasMore := false
	for _, c := range contacts {
		p := pendingContact{contact: c}
		if len(c.ThesisEmbedding) == 0 && len(c.Theses) > 0 {
			p.thesisText = renderTheses(c.Theses)
		}
		if len(c.BioEmbedding) == 0 && strings.TrimSpace(c.Bio) != "" {
			p.bioText = strings.TrimSpace(c.Bio)
		}
		if p.thesisText == "" && p.bioText == "" {
			continue
		}
		if len(pending) >= s.limit {
			hasMore = true
			break
		}
		pending = append(pending, p)
	}

	report := Report{Scanned: len(contacts), HasMore: hasMore}
	if len(pending) == 0 {
		return report, nil
	}

	texts := make([]string, 0, len(pending)*2)
	for _, p := range pending {
		if p.thesisText != "" {
			texts = append(texts, p.thesisText)
		}
		if p.bioText != "" {
			texts = append(texts, p.bioText)
		}
	}

	batch, err := s.embedder.BatchEmbed(ctx, texts)
	if err != nil {
		return Report{}, fmt.Errorf("embed contact batch: %w", err)
	}
	if len(batch.Embeddings) != len(texts) {
		return Report{}, fmt.Errorf("embed contact batch: got %d vectors for %d texts: %w",
			len(batch.Embeddings), len(texts), domain.ErrEmbeddingProviderError)
	}

	next := 0
	take := func() []float32 {
		v := batch.Embeddings[next]
		next++
		return v
	}

	for _, p := range pending {
		item := ItemResult{ContactID: p.contact.ID}
		var thesisVec, bioVec []float32
		if p.thesisText != "" {
			thesisVec = take()
			item.ThesisEmbedded = true
		}
		if p.bioText != "" {
			bioVec = take()
			item.BioEmbedded = true
		}

		if err := s.contacts.SetEmbeddings(ctx, p.contact.ID, thesisVec, bioVec); err != nil {
			s.logger.Warn("contact embedding write failed",
				zap.String("contact_id", p.contact.ID), zap.Error(err))
			item.ThesisEmbedded = false
			item.BioEmbedded = false
			item.Error = err.Error()
			report.Failed++
		} else {
			report.Updated++
		}
		report.Items = append(report.Items, item)
	}

	s.logger.Info("contact embedding backfill pass",
		zap.Int("scanned", report.Scanned),
		zap.Int("updated", report.Updated),
		zap.Int("failed", report.Failed),
		zap.Bool("has_more", report.HasMore),
		zap.Int("tokens", batch.TotalTokens))
	return report, nil
}

// renderTheses flattens structured theses into the text the vectorizer sees,
// using the same "{kind}: {value}" shape as conversation entity text so both
// sides of the similarity comparison live in one vocabulary.
func renderTheses(theses []domain.Thesis) string {
	var parts []string
	for _, t := range theses {
		if t.Sector != "" {
			parts = append(parts, "sector: "+t.Sector)
		}
		if t.Stage != "" {
			parts = append(parts, "stage: "+t.Stage)
		}
		if t.CheckSize != "" {
			parts = append(parts, "check_size: "+t.CheckSize)
		}
		if t.Geography != "" {
			parts = append(parts, "geography: "+t.Geography)
		}
	}
	return strings.Join(parts, " ")
}
