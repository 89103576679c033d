package domain

// Thesis is a structured investment thesis record attached to a contact.
type Thesis struct {
	Sector    string `json:"sector,omitempty"`
	Stage     string `json:"stage,omitempty"`
	CheckSize string `json:"check_size,omitempty"`
	Geography string `json:"geography,omitempty"`
}

// Contact is an address-book entry owned by a profile. Read-only to the
// matching pipeline; the embedding backfill is the only writer.
type Contact struct {
	ID      string
	OwnerID string
	Name    string
	Company string
	Bio     string
	// ThesisEmbedding and BioEmbedding are nil when absent or when the
	// stored vector was malformed (logged at the repository).
	ThesisEmbedding []float32
	BioEmbedding    []float32
	Theses          []Thesis
}

// ComparisonVector selects the vector used for similarity ranking:
// thesis embedding preferred, bio embedding as fallback, nil when
// the contact has neither.
func (c *Contact) ComparisonVector() []float32 {
	if len(c.ThesisEmbedding) > 0 {
		return c.ThesisEmbedding
	}
	if len(c.BioEmbedding) > 0 {
		return c.BioEmbedding
	}
	return nil
}

// HasEmbedding reports whether the contact carries any stored vector.
// Contacts without one bypass similarity ranking and get a guaranteed
// (capped) slot in the candidate slate.
func (c *Contact) HasEmbedding() bool {
	return len(c.ThesisEmbedding) > 0 || len(c.BioEmbedding) > 0
}
