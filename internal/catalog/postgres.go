package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"adstxt-validator/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements WritableStore on a pgx pool. One snapshot per
// authority domain; replacing a snapshot is transactional so lookups never
// see a half-written catalog.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a catalog store on an existing pool and ensures
// the schema exists.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	s := &PostgresStore{pool: pool}
	if err := s.createTablesIfNotExist(); err != nil {
		return nil, fmt.Errorf("failed to create catalog tables: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) createTablesIfNotExist() error {
	query := `
		CREATE TABLE IF NOT EXISTS sellers_catalog_metadata (
			authority_domain TEXT PRIMARY KEY,
			contact_email TEXT,
			version TEXT,
			seller_count INT NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			duplicate_seller_ids TEXT[],
			fetched_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS sellers_catalog (
			authority_domain TEXT NOT NULL,
			seller_id TEXT NOT NULL,
			name TEXT,
			domain TEXT,
			seller_type TEXT,
			is_confidential BOOLEAN NOT NULL DEFAULT FALSE,
			PRIMARY KEY (authority_domain, seller_id)
		);

		CREATE INDEX IF NOT EXISTS idx_sellers_catalog_domain ON sellers_catalog(authority_domain);
	`
	_, err := s.pool.Exec(context.Background(), query)
	return err
}

// BatchGetSellers looks up seller IDs against the stored snapshot.
func (s *PostgresStore) BatchGetSellers(ctx context.Context, authorityDomain string, sellerIDs []string) (*models.SellerLookupResult, error) {
	domain := normalizeDomain(authorityDomain)

	meta, err := s.getMetadata(ctx, domain)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrCatalogUnavailable, err)
	}

	if meta == nil || meta.Status != models.CatalogStatusSuccess {
		result := &models.SellerLookupResult{
			Results: make([]models.SellerLookup, 0, len(sellerIDs)),
			Cache:   cacheInfoFor(meta),
		}
		for _, id := range sellerIDs {
			result.Results = append(result.Results, models.SellerLookup{SellerID: id})
		}
		return result, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT seller_id, COALESCE(name, ''), COALESCE(domain, ''), COALESCE(seller_type, ''), is_confidential
		FROM sellers_catalog
		WHERE authority_domain = $1 AND seller_id = ANY($2)
	`, domain, sellerIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrCatalogUnavailable, err)
	}
	defer rows.Close()

	found := make(map[string]*models.Seller, len(sellerIDs))
	for rows.Next() {
		var seller models.Seller
		var sellerType string
		if err := rows.Scan(&seller.SellerID, &seller.Name, &seller.Domain, &sellerType, &seller.IsConfidential); err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrCatalogUnavailable, err)
		}
		seller.SellerType = models.SellerType(sellerType)
		found[seller.SellerID] = &seller
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrCatalogUnavailable, err)
	}

	duplicates := make(map[string]bool, len(meta.DuplicateIDs))
	for _, id := range meta.DuplicateIDs {
		duplicates[id] = true
	}

	result := &models.SellerLookupResult{
		Metadata: meta,
		Results:  make([]models.SellerLookup, 0, len(sellerIDs)),
		Cache:    cacheInfoFor(meta),
	}
	for _, id := range sellerIDs {
		lookup := models.SellerLookup{SellerID: id}
		if seller, ok := found[id]; ok {
			lookup.Seller = seller
			lookup.Found = true
			lookup.Matches = 1
			if duplicates[id] {
				lookup.Matches = 2
			}
		}
		result.Results = append(result.Results, lookup)
	}
	return result, nil
}

// GetCacheInfo reports snapshot freshness for a domain.
func (s *PostgresStore) GetCacheInfo(ctx context.Context, domain string) (*models.CacheInfo, error) {
	meta, err := s.getMetadata(ctx, normalizeDomain(domain))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrCatalogUnavailable, err)
	}
	info := cacheInfoFor(meta)
	return &info, nil
}

// UpsertSnapshot transactionally replaces the snapshot for a domain.
func (s *PostgresStore) UpsertSnapshot(ctx context.Context, meta *models.SellersMetadata, sellers []models.Seller) error {
	domain := normalizeDomain(meta.AuthorityDomain)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin catalog transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM sellers_catalog WHERE authority_domain = $1`, domain); err != nil {
		return fmt.Errorf("failed to clear previous snapshot: %w", err)
	}

	batch := &pgx.Batch{}
	inserted := make(map[string]bool, len(sellers))
	for _, seller := range sellers {
		if inserted[seller.SellerID] {
			continue
		}
		inserted[seller.SellerID] = true
		batch.Queue(`
			INSERT INTO sellers_catalog (authority_domain, seller_id, name, domain, seller_type, is_confidential)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, domain, seller.SellerID, seller.Name, seller.Domain, string(seller.SellerType), seller.IsConfidential)
	}
	batch.Queue(`
		INSERT INTO sellers_catalog_metadata
			(authority_domain, contact_email, version, seller_count, status, duplicate_seller_ids, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (authority_domain) DO UPDATE SET
			contact_email = EXCLUDED.contact_email,
			version = EXCLUDED.version,
			seller_count = EXCLUDED.seller_count,
			status = EXCLUDED.status,
			duplicate_seller_ids = EXCLUDED.duplicate_seller_ids,
			fetched_at = EXCLUDED.fetched_at
	`, domain, meta.ContactEmail, meta.Version, meta.SellerCount, meta.Status, meta.DuplicateIDs, meta.FetchedAt)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to write snapshot for %s: %w", domain, err)
	}
	return tx.Commit(ctx)
}

// RecordFetchFailure stores a failure-status metadata row for a domain.
func (s *PostgresStore) RecordFetchFailure(ctx context.Context, domain, status string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sellers_catalog_metadata (authority_domain, status, fetched_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (authority_domain) DO UPDATE SET
			status = EXCLUDED.status,
			fetched_at = EXCLUDED.fetched_at
	`, normalizeDomain(domain), status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record fetch failure for %s: %w", domain, err)
	}
	return nil
}

func (s *PostgresStore) getMetadata(ctx context.Context, domain string) (*models.SellersMetadata, error) {
	var meta models.SellersMetadata
	err := s.pool.QueryRow(ctx, `
		SELECT authority_domain, COALESCE(contact_email, ''), COALESCE(version, ''),
		       seller_count, status, COALESCE(duplicate_seller_ids, '{}'), fetched_at
		FROM sellers_catalog_metadata
		WHERE authority_domain = $1
	`, domain).Scan(&meta.AuthorityDomain, &meta.ContactEmail, &meta.Version,
		&meta.SellerCount, &meta.Status, &meta.DuplicateIDs, &meta.FetchedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

func cacheInfoFor(meta *models.SellersMetadata) models.CacheInfo {
	if meta == nil {
		return models.CacheInfo{Status: models.CatalogStatusNotFetched}
	}
	return models.CacheInfo{
		IsCached:    true,
		LastUpdated: timePtr(meta.FetchedAt),
		Status:      meta.Status,
	}
}
