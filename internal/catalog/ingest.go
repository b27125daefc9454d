package catalog

import (
	"context"
	"errors"
	"time"

	"adstxt-validator/internal/fetcher"
	"adstxt-validator/internal/logger"
	"adstxt-validator/internal/models"
)

// Ingester lazily populates the catalog: when a validation run references an
// authority domain with no stored snapshot, the ingester fetches and decodes
// that domain's sellers.json. Failures are recorded so the domain is not
// re-fetched on every request.
type Ingester struct {
	fetcher fetcher.Service
	store   WritableStore
	logger  logger.Service
}

// NewIngester creates a sellers.json ingester.
func NewIngester(f fetcher.Service, store WritableStore, log logger.Service) *Ingester {
	return &Ingester{fetcher: f, store: store, logger: log}
}

// Ingest fetches, decodes and stores one authority domain's sellers.json.
func (i *Ingester) Ingest(ctx context.Context, authorityDomain string) error {
	start := time.Now()
	domain := normalizeDomain(authorityDomain)

	body, err := i.fetcher.FetchSellersJSON(ctx, domain)
	if err != nil {
		status := models.CatalogStatusError
		if errors.Is(err, models.ErrFileNotFound) {
			status = models.CatalogStatusNotFound
		}
		if recordErr := i.store.RecordFetchFailure(ctx, domain, status); recordErr != nil {
			i.logger.LogError(ctx, logger.OpIngestSellersJSON, domain,
				"Failed to record sellers.json fetch failure", recordErr, models.LogSeverityLow, nil)
		}
		i.logger.LogError(ctx, logger.OpFetchSellersJSON, domain,
			"Failed to fetch sellers.json", err, models.LogSeverityLow, map[string]interface{}{
				"status":      status,
				"duration_ms": time.Since(start).Milliseconds(),
			})
		return err
	}

	meta, sellers, err := DecodeSellersJSON([]byte(body), domain, time.Now().UTC())
	if err != nil {
		if recordErr := i.store.RecordFetchFailure(ctx, domain, models.CatalogStatusError); recordErr != nil {
			i.logger.LogError(ctx, logger.OpIngestSellersJSON, domain,
				"Failed to record sellers.json decode failure", recordErr, models.LogSeverityLow, nil)
		}
		i.logger.LogError(ctx, logger.OpIngestSellersJSON, domain,
			"Failed to decode sellers.json", err, models.LogSeverityLow, map[string]interface{}{
				"content_size": len(body),
			})
		return err
	}

	if err := i.store.UpsertSnapshot(ctx, meta, sellers); err != nil {
		i.logger.LogError(ctx, logger.OpIngestSellersJSON, domain,
			"Failed to store sellers.json snapshot", err, models.LogSeverityMedium, nil)
		return err
	}

	i.logger.LogSuccess(ctx, logger.OpIngestSellersJSON, domain,
		"Ingested sellers.json snapshot", map[string]interface{}{
			"seller_count":  meta.SellerCount,
			"duplicate_ids": len(meta.DuplicateIDs),
			"duration_ms":   time.Since(start).Milliseconds(),
		})
	return nil
}
