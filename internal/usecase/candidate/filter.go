// Package candidate narrows a contact book to a bounded slate for scoring.
package candidate

import (
	"sort"

	"go.uber.org/zap"

	"github.com/kailas-cloud/matchdex/internal/domain"
)

// Default slate bounds.
const (
	DefaultTopKWithEmbeddings   = 50
	DefaultMaxWithoutEmbeddings = 50
)

// Slate is the pre-filtered candidate set passed to the scoring oracle.
type Slate struct {
	Contacts []domain.Contact
	// Similarity holds the raw cosine similarity per contact ID, absent
	// for contacts whose similarity could not be computed.
	Similarity map[string]float64
}

// Filter ranks contacts by embedding similarity and keeps the best K,
// plus a capped bucket of contacts that have no embedding at all.
type Filter struct {
	topK     int
	maxNoEmb int
	logger   *zap.Logger
}

// NewFilter creates a candidate filter. Non-positive bounds fall back
// to the defaults.
func NewFilter(topK, maxNoEmb int, logger *zap.Logger) *Filter {
	if topK <= 0 {
		topK = DefaultTopKWithEmbeddings
	}
	if maxNoEmb <= 0 {
		maxNoEmb = DefaultMaxWithoutEmbeddings
	}
	return &Filter{topK: topK, maxNoEmb: maxNoEmb, logger: logger}
}

// Select builds the candidate slate for one conversation embedding.
//
// With a conversation embedding present, contacts split three ways:
// ranked (similarity computable, sorted descending, top K kept),
// no-embedding (guaranteed slots, capped), and skipped (a stored
// vector exists but similarity is not computable against this
// conversation). Without a conversation embedding every contact
// passes through unranked.
func (f *Filter) Select(convEmb []float32, contacts []domain.Contact) Slate {
	if convEmb == nil {
		return Slate{Contacts: contacts, Similarity: map[string]float64{}}
	}

	type ranked struct {
		contact domain.Contact
		sim     float64
	}

	similarity := make(map[string]float64)
	var withSim []ranked
	var noEmb []domain.Contact
	skipped := 0

	for _, c := range contacts {
		if !c.HasEmbedding() {
			noEmb = append(noEmb, c)
			continue
		}
		sim, ok := domain.CosineSimilarity(convEmb, c.ComparisonVector())
		if !ok {
			skipped++
			continue
		}
		similarity[c.ID] = sim
		withSim = append(withSim, ranked{contact: c, sim: sim})
	}

	if skipped > 0 {
		f.logger.Warn("skipped contacts with incomparable vectors",
			zap.Int("skipped", skipped))
	}

	// Stable sort keeps the stored contact order for equal similarities.
	sort.SliceStable(withSim, func(i, j int) bool {
		return withSim[i].sim > withSim[j].sim
	})

	if len(withSim) > f.topK {
		withSim = withSim[:f.topK]
	}
	if len(noEmb) > f.maxNoEmb {
		noEmb = noEmb[:f.maxNoEmb]
	}

	slate := make([]domain.Contact, 0, len(withSim)+len(noEmb))
	for _, r := range withSim {
		slate = append(slate, r.contact)
	}
	slate = append(slate, noEmb...)

	return Slate{Contacts: slate, Similarity: similarity}
}
