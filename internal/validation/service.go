package validation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"adstxt-validator/internal/cache/domainCache"
	"adstxt-validator/internal/catalog"
	"adstxt-validator/internal/crosscheck"
	"adstxt-validator/internal/fetcher"
	"adstxt-validator/internal/history"
	"adstxt-validator/internal/logger"
	"adstxt-validator/internal/messages"
	"adstxt-validator/internal/metrics"
	"adstxt-validator/internal/models"
	"adstxt-validator/internal/optimizer"
	"adstxt-validator/internal/parser"
)

const batchDomainTimeout = 30 * time.Second

// service orchestrates the full validation pipeline: fetch, parse, catalog
// ingest, cross-check, message resolution and history.
type service struct {
	parser        parser.Service
	fetcher       fetcher.Service
	crossCheck    crosscheck.Service
	catalog       catalog.Store
	ingester      Ingester
	optimizer     optimizer.Service
	resolver      messages.Service
	cache         domainCache.Service
	history       history.Store
	logger        logger.Service
	metrics       *metrics.Metrics
	cacheTTL      time.Duration
	maxConcurrent int
}

// Options carries the collaborators of the validation service. Metrics,
// cache, history and ingester may be nil.
type Options struct {
	Parser        parser.Service
	Fetcher       fetcher.Service
	CrossCheck    crosscheck.Service
	Catalog       catalog.Store
	Ingester      Ingester
	Optimizer     optimizer.Service
	Resolver      messages.Service
	Cache         domainCache.Service
	History       history.Store
	Logger        logger.Service
	Metrics       *metrics.Metrics
	CacheTTL      time.Duration
	MaxConcurrent int
}

// NewService creates a validation service.
func NewService(opts Options) Service {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 5
	}
	return &service{
		parser:        opts.Parser,
		fetcher:       opts.Fetcher,
		crossCheck:    opts.CrossCheck,
		catalog:       opts.Catalog,
		ingester:      opts.Ingester,
		optimizer:     opts.Optimizer,
		resolver:      opts.Resolver,
		cache:         opts.Cache,
		history:       opts.History,
		logger:        opts.Logger,
		metrics:       opts.Metrics,
		cacheTTL:      opts.CacheTTL,
		maxConcurrent: opts.MaxConcurrent,
	}
}

// ValidateDomain fetches and validates one domain's declaration file.
func (s *service) ValidateDomain(ctx context.Context, domain string, fileType models.FileType) (*models.ValidationResponse, error) {
	start := time.Now()
	domain = strings.ToLower(strings.TrimSpace(domain))

	if !parser.ValidDomain(domain) {
		return nil, models.NewDomainError(domain, "not a valid domain", models.ErrInvalidDomain)
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, domain, fileType); err == nil {
			s.metrics.IncrementCacheEvent("hit")
			s.logger.LogSuccess(ctx, logger.OpCacheHit, domain, "Served validation from cache", map[string]interface{}{
				"file_type":   string(fileType),
				"duration_ms": time.Since(start).Milliseconds(),
			})
			cached.Cached = true
			return cached, nil
		}
		s.metrics.IncrementCacheEvent("miss")
		s.logger.LogInfo(ctx, logger.OpCacheMiss, fmt.Sprintf("Cache miss for domain: %s", domain), map[string]interface{}{
			"domain":    domain,
			"file_type": string(fileType),
		})
	}

	content, err := s.fetcher.FetchDeclarationFile(ctx, domain, fileType)
	if err != nil {
		s.metrics.IncrementValidation(string(fileType), "error")
		s.logger.LogError(ctx, logger.OpFetchFile, domain, "Failed to fetch declaration file", err, models.LogSeverityMedium, map[string]interface{}{
			"file_type":   string(fileType),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil, models.NewDomainError(domain, fmt.Sprintf("failed to fetch %s", fileType), err)
	}

	response := s.buildResponse(ctx, content, domain, fileType)

	if s.cache != nil {
		if err := s.cache.Set(ctx, domain, fileType, response, s.cacheTTL); err != nil {
			s.logger.LogError(ctx, logger.OpValidateDomain, domain, "Failed to cache validation result", err, models.LogSeverityLow, nil)
		}
	}

	if s.history != nil {
		scan := &models.ScanRecord{
			Domain:    domain,
			FileType:  fileType,
			Summary:   response.Summary,
			CreatedAt: response.Timestamp,
		}
		if err := s.history.Insert(ctx, scan); err != nil {
			s.logger.LogError(ctx, logger.OpScanHistory, domain, "Failed to record scan history", err, models.LogSeverityLow, nil)
		}
	}

	s.metrics.IncrementValidation(string(fileType), "ok")
	s.metrics.ObserveValidateLatency(time.Since(start))
	s.logger.LogSuccess(ctx, logger.OpValidateDomain, domain, "Completed domain validation", map[string]interface{}{
		"file_type":   string(fileType),
		"total":       response.Summary.Total,
		"invalid":     response.Summary.Invalid,
		"warnings":    response.Summary.Warnings,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return response, nil
}

// ValidateContent validates caller-supplied content. The domain is optional;
// when present it drives owner-domain injection and the cross-check scope.
func (s *service) ValidateContent(ctx context.Context, content, domain string, fileType models.FileType) (*models.ValidationResponse, error) {
	start := time.Now()
	domain = strings.ToLower(strings.TrimSpace(domain))

	response := s.buildResponse(ctx, content, domain, fileType)

	s.metrics.IncrementValidation(string(fileType), "ok")
	s.logger.LogSuccess(ctx, logger.OpValidateContent, domain, "Completed content validation", map[string]interface{}{
		"file_type":    string(fileType),
		"content_size": len(content),
		"total":        response.Summary.Total,
		"duration_ms":  time.Since(start).Milliseconds(),
	})

	return response, nil
}

// OptimizeContent rewrites content under the given policies.
func (s *service) OptimizeContent(ctx context.Context, content, domain string, steps models.OptimizeSteps) (*models.OptimizeResult, error) {
	start := time.Now()
	domain = strings.ToLower(strings.TrimSpace(domain))

	result := s.optimizer.Optimize(content, domain, steps)

	s.logger.LogSuccess(ctx, logger.OpOptimize, domain, "Completed content optimization", map[string]interface{}{
		"original_lines": result.Stats.OriginalLines,
		"final_lines":    result.Stats.FinalLines,
		"removed":        result.Stats.RemovedCount,
		"errors_found":   result.Stats.ErrorsFound,
		"duration_ms":    time.Since(start).Milliseconds(),
	})

	return result, nil
}

// ValidateDomains validates multiple domains concurrently.
func (s *service) ValidateDomains(ctx context.Context, domains []string, fileType models.FileType) (*models.BatchValidationResponse, error) {
	start := time.Now()

	s.logger.LogInfo(ctx, logger.OpBatchValidation, fmt.Sprintf("Starting batch validation of %d domains", len(domains)), map[string]interface{}{
		"domains_count": len(domains),
		"file_type":     string(fileType),
	})

	if len(domains) == 0 {
		return &models.BatchValidationResponse{
			Results:   []models.DomainValidationResult{},
			Summary:   models.BatchSummary{},
			Timestamp: time.Now().UTC(),
		}, nil
	}

	resultsChan := make(chan models.DomainValidationResult, len(domains))
	responseChan := make(chan *models.BatchValidationResponse, 1)

	go s.aggregateResults(resultsChan, len(domains), responseChan)

	sem := make(chan struct{}, s.maxConcurrent)
	var wg sync.WaitGroup

	for _, domain := range domains {
		wg.Add(1)

		go func(dom string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			domainCtx, cancel := context.WithTimeout(ctx, batchDomainTimeout)
			defer cancel()

			var result models.DomainValidationResult
			response, err := s.ValidateDomain(domainCtx, dom, fileType)
			if err != nil {
				result = models.DomainValidationResult{
					Domain:    dom,
					Error:     err.Error(),
					Success:   false,
					Timestamp: time.Now().UTC(),
				}
				s.logger.LogError(domainCtx, logger.OpBatchValidation, dom, "Failed to validate domain in batch", err, models.LogSeverityMedium, nil)
			} else {
				summary := response.Summary
				result = models.DomainValidationResult{
					Domain:    response.Domain,
					Summary:   &summary,
					Cached:    response.Cached,
					Success:   true,
					Timestamp: response.Timestamp,
				}
			}

			resultsChan <- result
		}(domain)
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	response := <-responseChan

	s.logger.LogSuccess(ctx, logger.OpBatchValidation, "", "Completed batch validation", map[string]interface{}{
		"total_domains": response.Summary.Total,
		"successful":    response.Summary.Succeeded,
		"failed":        response.Summary.Failed,
		"duration_ms":   time.Since(start).Milliseconds(),
	})

	return response, nil
}

// buildResponse runs parse, lazy catalog ingest, cross-check, message
// resolution and summary for one file body.
func (s *service) buildResponse(ctx context.Context, content, domain string, fileType models.FileType) *models.ValidationResponse {
	entries := s.parser.ParseContent(content, domain)

	s.ensureCatalog(ctx, entries)

	entries = s.crossCheck.CrossCheck(ctx, domain, entries)
	models.SortEntriesByLine(entries)

	if s.resolver != nil {
		s.resolver.Apply(entries)
	}

	summary := buildSummary(entries)
	s.recordOutcomes(entries)

	return &models.ValidationResponse{
		Domain:    domain,
		FileType:  fileType,
		Entries:   entries,
		Summary:   summary,
		Timestamp: time.Now().UTC(),
	}
}

// ensureCatalog ingests sellers.json for every referenced authority domain
// that has never been fetched. Failures are logged and do not block the
// validation; the cross-checker degrades to NO_SELLERS_JSON warnings.
func (s *service) ensureCatalog(ctx context.Context, entries []*models.Entry) {
	if s.ingester == nil || s.catalog == nil {
		return
	}

	seen := make(map[string]bool)
	var domains []string
	for _, entry := range entries {
		if !entry.IsRecord() || !entry.IsValid || entry.Record == nil {
			continue
		}
		domain := strings.ToLower(entry.Record.Domain)
		if domain == "" || seen[domain] {
			continue
		}
		seen[domain] = true
		domains = append(domains, domain)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.maxConcurrent)

	for _, domain := range domains {
		dom := domain
		group.Go(func() error {
			info, err := s.catalog.GetCacheInfo(groupCtx, dom)
			if err != nil {
				s.logger.LogError(groupCtx, logger.OpIngestSellersJSON, dom, "Failed to check catalog state", err, models.LogSeverityLow, nil)
				return nil
			}
			if info != nil && info.IsCached {
				return nil
			}
			if err := s.ingester.Ingest(groupCtx, dom); err != nil {
				s.logger.LogError(groupCtx, logger.OpIngestSellersJSON, dom, "Failed to ingest sellers.json", err, models.LogSeverityLow, nil)
			}
			return nil
		})
	}

	// Workers never return errors; Wait only observes context cancellation.
	_ = group.Wait()
}

// recordOutcomes feeds per-key error and warning counters.
func (s *service) recordOutcomes(entries []*models.Entry) {
	if s.metrics == nil {
		return
	}
	for _, entry := range entries {
		if entry.ValidationKey == "" {
			continue
		}
		s.metrics.IncrementOutcome(string(entry.ValidationKey), string(entry.Severity))
	}
}

// aggregateResults collects worker results into the final batch response.
func (s *service) aggregateResults(resultsChan <-chan models.DomainValidationResult, totalDomains int, responseChan chan<- *models.BatchValidationResponse) {
	results := make([]models.DomainValidationResult, 0, totalDomains)
	summary := models.BatchSummary{Total: totalDomains}

	for result := range resultsChan {
		results = append(results, result)
		if result.Success {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}

	responseChan <- &models.BatchValidationResponse{
		Results:   results,
		Summary:   summary,
		Timestamp: time.Now().UTC(),
	}
}

func buildSummary(entries []*models.Entry) models.ValidationSummary {
	var summary models.ValidationSummary
	summary.Total = len(entries)

	for _, entry := range entries {
		if entry.IsValid {
			summary.Valid++
		} else {
			summary.Invalid++
		}
		if !entry.IsRecord() || entry.Record == nil {
			continue
		}
		if entry.Record.HasWarning {
			summary.Warnings++
		}
		if !entry.IsValid {
			continue
		}
		switch entry.Record.Relationship {
		case models.RelationshipDirect:
			summary.DirectCount++
		case models.RelationshipReseller:
			summary.ResellerCount++
		}
	}
	return summary
}
