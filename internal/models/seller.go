package models

import "time"

// SellerType enumerates the seller classifications of the sellers.json spec.
type SellerType string

const (
	SellerTypePublisher    SellerType = "PUBLISHER"
	SellerTypeIntermediary SellerType = "INTERMEDIARY"
	SellerTypeBoth         SellerType = "BOTH"
)

// Seller is one authorization record from an authority domain's sellers.json.
type Seller struct {
	SellerID       string     `json:"seller_id"`
	Name           string     `json:"name,omitempty"`
	Domain         string     `json:"domain,omitempty"`
	SellerType     SellerType `json:"seller_type,omitempty"`
	IsConfidential bool       `json:"is_confidential,omitempty"`
}

// Confidential reports whether the seller must be treated as confidential:
// explicitly flagged, or carrying neither a name nor a domain. Confidential
// sellers are exempt from domain-mismatch checks.
func (s *Seller) Confidential() bool {
	return s.IsConfidential || (s.Name == "" && s.Domain == "")
}

// SellersMetadata describes the freshest sellers.json snapshot the catalog
// holds for an authority domain.
type SellersMetadata struct {
	AuthorityDomain string    `json:"authority_domain"`
	ContactEmail    string    `json:"contact_email,omitempty"`
	Version         string    `json:"version,omitempty"`
	SellerCount     int       `json:"seller_count"`
	Status          string    `json:"status"`
	FetchedAt       time.Time `json:"fetched_at"`
	DuplicateIDs    []string  `json:"duplicate_seller_ids,omitempty"`
}

// CacheInfo reports catalog freshness for an authority domain.
type CacheInfo struct {
	IsCached    bool       `json:"is_cached"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
	Status      string     `json:"status"`
}

// Catalog fetch statuses recorded alongside a snapshot.
const (
	CatalogStatusSuccess    = "success"
	CatalogStatusNotFound   = "not_found"
	CatalogStatusError      = "error"
	CatalogStatusNotFetched = "not_fetched"
)

// SellerLookup is the per-ID result of a batch catalog lookup. Matches is
// the number of entries the snapshot held for the ID; values above one mean
// the authority published a non-unique seller_id.
type SellerLookup struct {
	SellerID string  `json:"seller_id"`
	Seller   *Seller `json:"seller,omitempty"`
	Found    bool    `json:"found"`
	Matches  int     `json:"matches"`
}

// SellerLookupResult is a batch lookup against one authority domain.
// Metadata nil means the catalog has never observed a usable sellers.json
// for the domain, which is distinct from "observed but ID absent".
type SellerLookupResult struct {
	Metadata *SellersMetadata `json:"metadata,omitempty"`
	Results  []SellerLookup   `json:"results"`
	Cache    CacheInfo        `json:"cache"`
}

// Lookup returns the result for a seller ID, or nil if the ID was not part
// of the batch.
func (r *SellerLookupResult) Lookup(sellerID string) *SellerLookup {
	for i := range r.Results {
		if r.Results[i].SellerID == sellerID {
			return &r.Results[i]
		}
	}
	return nil
}
