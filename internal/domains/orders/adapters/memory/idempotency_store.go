package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore keeps checkout keys in a map for the in-memory profile.
type IdempotencyStore struct {
	mu        sync.Mutex
	records   map[string]ports.IdempotencyRecord
	retention time.Duration
	now       func() time.Time
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{
		records:   map[string]ports.IdempotencyRecord{},
		retention: ports.IdempotencyRetention,
		now:       time.Now,
	}
}

func (s *IdempotencyStore) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *IdempotencyStore) Get(_ context.Context, key string) (*ports.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.liveLocked(key)
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (s *IdempotencyStore) Save(_ context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.liveLocked(record.Key); ok {
		if existing.RequestHash != record.RequestHash {
			return &existing, ports.ErrIdempotencyConflict
		}
		return &existing, nil
	}
	now := s.now()
	record.CreatedAt, record.UpdatedAt = now, now
	s.records[record.Key] = record
	return &record, nil
}

func (s *IdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.records, key)
	s.mu.Unlock()
	return nil
}

// liveLocked returns the record for key, evicting it when expired.
func (s *IdempotencyStore) liveLocked(key string) (ports.IdempotencyRecord, bool) {
	record, ok := s.records[key]
	if !ok {
		return ports.IdempotencyRecord{}, false
	}
	if record.Expired(s.now(), s.retention) {
		delete(s.records, key)
		return ports.IdempotencyRecord{}, false
	}
	return record, true
}
