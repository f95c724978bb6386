package store

import (
	"context"
	"errors"
	"sync"

	"github.com/mikey/email-domain-verifier/internal/core"
	"go.uber.org/zap"
)

var (
	// ErrUnsupportedStore is returned when a store type is not known
	ErrUnsupportedStore = errors.New("unsupported store type")
	// ErrClosed is returned when a closed store is used
	ErrClosed = errors.New("store is closed")
)

// MemoryStore is an in-memory implementation of the DomainStore interface
type MemoryStore struct {
	records map[string]*core.DisposableDomainRecord
	mu      sync.RWMutex
	logger  *zap.Logger
	closed  bool
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*core.DisposableDomainRecord),
		logger:  logger,
	}
}

// Contains reports whether the domain is stored
func (s *MemoryStore) Contains(ctx context.Context, domain string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, ErrClosed
	}
	_, ok := s.records[domain]
	return ok, nil
}

// Upsert stores the record if its domain is new, otherwise refreshes UpdatedAt
func (s *MemoryStore) Upsert(ctx context.Context, record *core.DisposableDomainRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrClosed
	}

	if existing, ok := s.records[record.Domain]; ok {
		existing.UpdatedAt = record.UpdatedAt
		return false, nil
	}

	stored := *record
	s.records[record.Domain] = &stored
	return true, nil
}

// Count returns the number of stored domains
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, ErrClosed
	}
	return len(s.records), nil
}

// Get returns a copy of the stored record
func (s *MemoryStore) Get(domain string) (core.DisposableDomainRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[domain]
	if !ok {
		return core.DisposableDomainRecord{}, false
	}
	return *record, true
}

// Stop releases the store; later calls fail with ErrClosed
func (s *MemoryStore) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.logger.Debug("Memory store stopped", zap.Int("domains", len(s.records)))
}
