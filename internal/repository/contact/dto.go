package contact

import (
	"encoding/json"

	"github.com/kailas-cloud/matchdex/internal/domain"
)

// Hash field names of the contact record.
const (
	fieldOwnerID         = "owner_id"
	fieldName            = "name"
	fieldCompany         = "company"
	fieldBio             = "bio"
	fieldThesisEmbedding = "thesis_embedding"
	fieldBioEmbedding    = "bio_embedding"
	fieldTheses          = "theses"
)

// parseContactFields converts a flat hash map into a domain Contact.
// Malformed vector or thesis fields are dropped; their names are
// returned so the caller can log them.
func parseContactFields(id string, m map[string]string) (domain.Contact, []string) {
	c := domain.Contact{
		ID:      id,
		OwnerID: m[fieldOwnerID],
		Name:    m[fieldName],
		Company: m[fieldCompany],
		Bio:     m[fieldBio],
	}

	var malformed []string
	if raw := m[fieldThesisEmbedding]; raw != "" {
		vec, err := domain.ParseVector(raw)
		if err != nil {
			malformed = append(malformed, fieldThesisEmbedding)
		} else {
			c.ThesisEmbedding = vec
		}
	}
	if raw := m[fieldBioEmbedding]; raw != "" {
		vec, err := domain.ParseVector(raw)
		if err != nil {
			malformed = append(malformed, fieldBioEmbedding)
		} else {
			c.BioEmbedding = vec
		}
	}
	if raw := m[fieldTheses]; raw != "" {
		var theses []domain.Thesis
		if err := json.Unmarshal([]byte(raw), &theses); err != nil {
			malformed = append(malformed, fieldTheses)
		} else {
			c.Theses = theses
		}
	}
	return c, malformed
}
