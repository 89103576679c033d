// Package match persists match suggestions and their per-conversation index.
package match

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/matchdex/internal/db"
	"github.com/kailas-cloud/matchdex/internal/domain"
)

// store is the consumer interface for match suggestions (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	JSONSet(ctx context.Context, key, path string, data []byte) error
}

// Repo implements the match suggestion store used by the usecases.
type Repo struct {
	store store
	now   func() time.Time
}

// New creates a match repository.
func New(s store) *Repo {
	return &Repo{store: s, now: time.Now}
}

// Insert persists a batch of suggestions for one conversation.
// IDs and timestamps are assigned here; the conversation index is only
// updated after every row landed, so a failed batch leaves nothing
// visible. Returned rows carry contact names joined from the contact
// store. Empty input is a no-op.
func (r *Repo) Insert(
	ctx context.Context, conversationID string, matches []domain.MatchSuggestion,
) ([]domain.MatchSuggestion, error) {
	if len(matches) == 0 {
		return nil, nil
	}

	now := r.now().Unix()
	inserted := make([]domain.MatchSuggestion, len(matches))
	items := make([]db.HashSetItem, len(matches))
	ids := make([]string, len(matches))

	for i, m := range matches {
		m.ID = uuid.NewString()
		m.ConversationID = conversationID
		m.Status = domain.MatchPending
		m.CreatedAt = now

		fields, err := buildMatchFields(&m)
		if err != nil {
			return nil, fmt.Errorf("encode match for contact %s: %w", m.ContactID, err)
		}

		inserted[i] = m
		ids[i] = m.ID
		items[i] = db.HashSetItem{Key: matchKey(m.ID), Fields: fields}
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return nil, fmt.Errorf("hset multi: %w", err)
	}

	if err := r.appendIndex(ctx, conversationID, ids); err != nil {
		return nil, err
	}

	if err := r.joinContactNames(ctx, inserted); err != nil {
		return nil, err
	}
	return inserted, nil
}

// Get returns a match suggestion by ID.
func (r *Repo) Get(ctx context.Context, id string) (domain.MatchSuggestion, error) {
	key := matchKey(id)
	fields, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domain.MatchSuggestion{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(fields) == 0 {
		return domain.MatchSuggestion{}, domain.ErrMatchNotFound
	}
	return parseMatchFields(id, fields), nil
}

// ListByConversation returns the suggestions of a conversation in
// insertion order. A conversation with no index yields an empty slice.
func (r *Repo) ListByConversation(ctx context.Context, conversationID string) (
	[]domain.MatchSuggestion, error,
) {
	ids, err := r.readIndex(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = matchKey(id)
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi: %w", err)
	}

	matches := make([]domain.MatchSuggestion, 0, len(hashes))
	for i, fields := range hashes {
		if len(fields) == 0 {
			continue
		}
		matches = append(matches, parseMatchFields(ids[i], fields))
	}
	return matches, nil
}

// UpdateStatus transitions a suggestion's workflow state.
func (r *Repo) UpdateStatus(ctx context.Context, id string, status domain.MatchStatus) error {
	key := matchKey(id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrMatchNotFound
	}

	if err := r.store.HSet(ctx, key, map[string]string{fieldStatus: string(status)}); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// readIndex returns the match ID list of a conversation.
func (r *Repo) readIndex(ctx context.Context, conversationID string) ([]string, error) {
	key := indexKey(conversationID)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("json.get %s: %w", key, err)
	}

	var ids [][]string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("unmarshal match index %s: %w", key, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return ids[0], nil
}

// appendIndex adds new match IDs to the conversation index.
func (r *Repo) appendIndex(ctx context.Context, conversationID string, ids []string) error {
	existing, err := r.readIndex(ctx, conversationID)
	if err != nil {
		return err
	}

	merged := append(existing, ids...) //nolint:gocritic // new slice intended
	data, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("marshal match index: %w", err)
	}

	key := indexKey(conversationID)
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

// joinContactNames fills ContactName from the contact store in-place.
func (r *Repo) joinContactNames(ctx context.Context, matches []domain.MatchSuggestion) error {
	keys := make([]string, len(matches))
	for i, m := range matches {
		keys[i] = domain.KeyPrefix + "contact:" + m.ContactID
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return fmt.Errorf("join contact names: %w", err)
	}
	for i := range matches {
		if name := hashes[i]["name"]; name != "" {
			matches[i].ContactName = name
		}
	}
	return nil
}

func matchKey(id string) string {
	return domain.KeyPrefix + "match:" + id
}

func indexKey(conversationID string) string {
	return domain.KeyPrefix + "conversation:" + conversationID + ":matches"
}
