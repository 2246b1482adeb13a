package staging

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"symptom-checker-be/pkg/diagnosis"

	"github.com/google/uuid"
)

const (
	DefaultTTL  = 30 * time.Minute
	keyPrefix   = "pending_selection:"
	defaultSlot = "default"
	// backends keep the raw value a little longer than the TTL; expiry is decided on StagedAt.
	backstop = time.Minute
)

// PendingSelection is a candidate chosen before the user could be
// authenticated, plus the inputs needed to rebuild the history record.
type PendingSelection struct {
	RequestID uuid.UUID           `json:"request_id"`
	Candidate diagnosis.Candidate `json:"candidate"`
	Symptoms  []string            `json:"symptoms"`
	Severity  diagnosis.Severity  `json:"severity"`
	Notes     string              `json:"notes,omitempty"`
	StagedAt  time.Time           `json:"staged_at"`
}

// Backend is the raw key/value storage behind a Store.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// DeleteIf removes the key only while match holds for its current value.
	// The check and the delete happen atomically.
	DeleteIf(ctx context.Context, key string, match func(value []byte) bool) (bool, error)
}

// Store keeps at most one pending selection per slot, last write wins.
// Reads never fail: expired, undecodable or unreachable values read as absent.
type Store struct {
	backend Backend
	ttl     time.Duration
	now     func() time.Time
}

type Option func(*Store)

func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Stage overwrites the slot and stamps the current time. The stamped value is returned.
func (s *Store) Stage(ctx context.Context, slot string, p PendingSelection) (PendingSelection, error) {
	p.StagedAt = s.now().UTC()
	data, err := json.Marshal(p)
	if err != nil {
		return p, err
	}
	return p, s.backend.Set(ctx, key(slot), data, s.ttl+backstop)
}

func (s *Store) Read(ctx context.Context, slot string) (*PendingSelection, bool) {
	data, found, err := s.backend.Get(ctx, key(slot))
	if err != nil || !found {
		return nil, false
	}

	var p PendingSelection
	if err := json.Unmarshal(data, &p); err != nil || p.StagedAt.IsZero() {
		_, _ = s.backend.DeleteIf(ctx, key(slot), func(current []byte) bool {
			return bytes.Equal(current, data)
		})
		return nil, false
	}

	if s.now().Sub(p.StagedAt) > s.ttl {
		s.ClearIf(ctx, slot, p.StagedAt)
		return nil, false
	}
	return &p, true
}

// Clear is idempotent.
func (s *Store) Clear(ctx context.Context, slot string) {
	_ = s.backend.Delete(ctx, key(slot))
}

// ClearIf removes the slot only if it still holds the value stamped at
// stagedAt, so a selection staged in the meantime survives.
func (s *Store) ClearIf(ctx context.Context, slot string, stagedAt time.Time) bool {
	cleared, err := s.backend.DeleteIf(ctx, key(slot), func(current []byte) bool {
		var p PendingSelection
		if err := json.Unmarshal(current, &p); err != nil {
			return false
		}
		return p.StagedAt.Equal(stagedAt)
	})
	return err == nil && cleared
}

func (s *Store) Exists(ctx context.Context, slot string) bool {
	_, ok := s.Read(ctx, slot)
	return ok
}

func key(slot string) string {
	if slot == "" {
		slot = defaultSlot
	}
	return keyPrefix + slot
}
