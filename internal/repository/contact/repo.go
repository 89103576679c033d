// Package contact reads and backfills address-book contacts.
package contact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/matchdex/internal/db"
	"github.com/kailas-cloud/matchdex/internal/domain"
)

// store is the consumer interface for contacts (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements the contact reader/writer used by the usecases.
type Repo struct {
	store  store
	logger *zap.Logger
}

// New creates a contact repository.
func New(s store, logger *zap.Logger) *Repo {
	return &Repo{store: s, logger: logger}
}

// ListByOwner returns every contact of a profile via the owner index.
// An owner with no index yields an empty slice.
func (r *Repo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Contact, error) {
	idxKey := ownerIndexKey(ownerID)
	raw, err := r.store.JSONGet(ctx, idxKey, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("json.get %s: %w", idxKey, err)
	}

	var ids [][]string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("unmarshal owner index %s: %w", idxKey, err)
	}
	if len(ids) == 0 || len(ids[0]) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids[0]))
	for i, id := range ids[0] {
		keys[i] = contactKey(id)
	}
	return r.fetch(ctx, keys)
}

// ListAll returns every stored contact, used by the embedding backfill.
func (r *Repo) ListAll(ctx context.Context) ([]domain.Contact, error) {
	keys, err := r.store.Scan(ctx, domain.KeyPrefix+"contact:*")
	if err != nil {
		return nil, fmt.Errorf("scan contacts: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	return r.fetch(ctx, keys)
}

// SetEmbeddings writes the thesis and bio vectors of a contact.
// A nil vector leaves the corresponding field untouched.
func (r *Repo) SetEmbeddings(ctx context.Context, id string, thesisVec, bioVec []float32) error {
	fields := make(map[string]string, 2)
	if thesisVec != nil {
		encoded, err := domain.EncodeVector(thesisVec)
		if err != nil {
			return fmt.Errorf("encode thesis embedding for %s: %w", id, err)
		}
		fields[fieldThesisEmbedding] = encoded
	}
	if bioVec != nil {
		encoded, err := domain.EncodeVector(bioVec)
		if err != nil {
			return fmt.Errorf("encode bio embedding for %s: %w", id, err)
		}
		fields[fieldBioEmbedding] = encoded
	}
	if len(fields) == 0 {
		return nil
	}

	key := contactKey(id)
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// fetch loads a batch of contact hashes and parses them. Keys with an
// empty hash (deleted between index read and fetch) are skipped.
func (r *Repo) fetch(ctx context.Context, keys []string) ([]domain.Contact, error) {
	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi: %w", err)
	}

	contacts := make([]domain.Contact, 0, len(hashes))
	for i, fields := range hashes {
		if len(fields) == 0 {
			continue
		}
		id := contactIDFromKey(keys[i])
		c, malformed := parseContactFields(id, fields)
		for _, field := range malformed {
			r.logger.Warn("dropping malformed stored contact vector",
				zap.String("contact_id", id),
				zap.String("field", field))
		}
		contacts = append(contacts, c)
	}
	return contacts, nil
}

func contactKey(id string) string {
	return domain.KeyPrefix + "contact:" + id
}

func contactIDFromKey(key string) string {
	return strings.TrimPrefix(key, domain.KeyPrefix+"contact:")
}

func ownerIndexKey(ownerID string) string {
	return domain.KeyPrefix + "owner:" + ownerID + ":contacts"
}
