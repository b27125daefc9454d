package history

import (
	"context"
	"strings"
	"sync"
	"time"

	"adstxt-validator/internal/models"

	"github.com/google/uuid"
)

// MemoryStore keeps scan history in memory. Used when no database is
// configured and in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]*models.ScanRecord // keyed by lowercased domain
}

// NewMemoryStore creates an empty in-memory history store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]*models.ScanRecord)}
}

// Insert stores one scan record. A missing ID or timestamp is filled in.
func (s *MemoryStore) Insert(_ context.Context, record *models.ScanRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	domain := strings.ToLower(record.Domain)
	clone := *record
	clone.Domain = domain

	s.mu.Lock()
	defer s.mu.Unlock()
	// Newest first, matching the database ordering.
	s.records[domain] = append([]*models.ScanRecord{&clone}, s.records[domain]...)
	return nil
}

// ListByDomain returns the most recent scans for a domain, newest first.
func (s *MemoryStore) ListByDomain(_ context.Context, domain string, limit int) ([]*models.ScanRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.records[strings.ToLower(domain)]
	if len(stored) > limit {
		stored = stored[:limit]
	}

	out := make([]*models.ScanRecord, 0, len(stored))
	for _, record := range stored {
		clone := *record
		out = append(out, &clone)
	}
	return out, nil
}
