package catalog

import (
	"context"
	"strings"
	"sync"
	"time"

	"adstxt-validator/internal/models"
)

// MemoryStore implements WritableStore with in-process maps. Used in tests
// and single-node development setups.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]*memorySnapshot
}

type memorySnapshot struct {
	meta    models.SellersMetadata
	sellers map[string]models.Seller
	matches map[string]int
}

// NewMemoryStore creates an empty in-memory catalog store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string]*memorySnapshot)}
}

// BatchGetSellers looks up seller IDs against the stored snapshot.
func (m *MemoryStore) BatchGetSellers(ctx context.Context, authorityDomain string, sellerIDs []string) (*models.SellerLookupResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.snapshots[normalizeDomain(authorityDomain)]
	if !ok || snap.meta.Status != models.CatalogStatusSuccess {
		return missingResult(snap, sellerIDs), nil
	}

	result := &models.SellerLookupResult{
		Metadata: cloneMetadata(&snap.meta),
		Results:  make([]models.SellerLookup, 0, len(sellerIDs)),
		Cache: models.CacheInfo{
			IsCached:    true,
			LastUpdated: timePtr(snap.meta.FetchedAt),
			Status:      snap.meta.Status,
		},
	}
	for _, id := range sellerIDs {
		lookup := models.SellerLookup{SellerID: id}
		if seller, found := snap.sellers[id]; found {
			s := seller
			lookup.Seller = &s
			lookup.Found = true
			lookup.Matches = snap.matches[id]
		}
		result.Results = append(result.Results, lookup)
	}
	return result, nil
}

// GetCacheInfo reports snapshot freshness for a domain.
func (m *MemoryStore) GetCacheInfo(ctx context.Context, domain string) (*models.CacheInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.snapshots[normalizeDomain(domain)]
	if !ok {
		return &models.CacheInfo{Status: models.CatalogStatusNotFetched}, nil
	}
	return &models.CacheInfo{
		IsCached:    true,
		LastUpdated: timePtr(snap.meta.FetchedAt),
		Status:      snap.meta.Status,
	}, nil
}

// UpsertSnapshot replaces the snapshot for meta.AuthorityDomain.
func (m *MemoryStore) UpsertSnapshot(ctx context.Context, meta *models.SellersMetadata, sellers []models.Seller) error {
	snap := &memorySnapshot{
		meta:    *cloneMetadata(meta),
		sellers: make(map[string]models.Seller, len(sellers)),
		matches: make(map[string]int, len(sellers)),
	}
	for _, s := range sellers {
		// First occurrence wins; extra occurrences only bump the match count.
		if _, exists := snap.sellers[s.SellerID]; !exists {
			snap.sellers[s.SellerID] = s
		}
		snap.matches[s.SellerID]++
	}
	for _, id := range meta.DuplicateIDs {
		if snap.matches[id] < 2 {
			snap.matches[id] = 2
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[normalizeDomain(meta.AuthorityDomain)] = snap
	return nil
}

// RecordFetchFailure remembers a failed fetch attempt for a domain.
func (m *MemoryStore) RecordFetchFailure(ctx context.Context, domain, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshots[normalizeDomain(domain)] = &memorySnapshot{
		meta: models.SellersMetadata{
			AuthorityDomain: normalizeDomain(domain),
			Status:          status,
			FetchedAt:       time.Now().UTC(),
		},
	}
	return nil
}

func missingResult(snap *memorySnapshot, sellerIDs []string) *models.SellerLookupResult {
	cache := models.CacheInfo{Status: models.CatalogStatusNotFetched}
	if snap != nil {
		cache = models.CacheInfo{
			IsCached:    true,
			LastUpdated: timePtr(snap.meta.FetchedAt),
			Status:      snap.meta.Status,
		}
	}
	results := make([]models.SellerLookup, 0, len(sellerIDs))
	for _, id := range sellerIDs {
		results = append(results, models.SellerLookup{SellerID: id})
	}
	return &models.SellerLookupResult{Results: results, Cache: cache}
}

func cloneMetadata(meta *models.SellersMetadata) *models.SellersMetadata {
	out := *meta
	if meta.DuplicateIDs != nil {
		out.DuplicateIDs = append([]string(nil), meta.DuplicateIDs...)
	}
	return &out
}

func normalizeDomain(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}

func timePtr(t time.Time) *time.Time { return &t }
