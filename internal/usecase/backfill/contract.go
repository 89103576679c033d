package backfill

import (
	"context"

	"github.com/kailas-cloud/matchdex/internal/domain"
)

type contactStore interface {
	ListAll(ctx context.Context) ([]domain.Contact, error)
	SetEmbeddings(ctx context.Context, id string, thesisVec, bioVec []float32) error
}

// ItemResult reports the outcome for a single contact in a backfill run.
type ItemResult struct {
	ContactID      string `json:"contact_id"`
	ThesisEmbedded bool   `json:"thesis_embedded"`
	BioEmbedded    bool   `json:"bio_embedded"`
	Error          string `json:"error,omitempty"`
}

// Report aggregates a bounded backfill pass. HasMore signals that contacts
// beyond the batch limit still lack vectors and another pass is needed.
type Report struct {
	Scanned int          `json:"scanned"`
	Updated int          `json:"updated"`
	Failed  int          `json:"failed"`
	HasMore bool         `json:"has_more"`
	Items   []ItemResult `json:"items"`
}
