// Package catalog stores sellers.json authorization records per authority
// domain and serves the batch lookups the cross-checker runs against them.
package catalog

import (
	"context"

	"adstxt-validator/internal/models"
)

// Store is the read side consumed by the cross-checker.
// External packages should use this interface, not the concrete implementations
type Store interface {
	// BatchGetSellers looks up seller IDs against the freshest snapshot held
	// for an authority domain. A nil Metadata in the result means no usable
	// sellers.json has ever been observed for the domain, which callers must
	// treat differently from "observed but ID absent".
	BatchGetSellers(ctx context.Context, authorityDomain string, sellerIDs []string) (*models.SellerLookupResult, error)

	// GetCacheInfo reports snapshot freshness for a domain. Informational
	// only; validation correctness never depends on it.
	GetCacheInfo(ctx context.Context, domain string) (*models.CacheInfo, error)
}

// WritableStore is the write side used by the ingester.
type WritableStore interface {
	Store

	// UpsertSnapshot replaces the stored snapshot for meta.AuthorityDomain.
	UpsertSnapshot(ctx context.Context, meta *models.SellersMetadata, sellers []models.Seller) error

	// RecordFetchFailure remembers that a fetch was attempted and failed with
	// the given status, so the domain is not hammered on every validation.
	RecordFetchFailure(ctx context.Context, domain, status string) error
}
