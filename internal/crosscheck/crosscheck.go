// Package crosscheck reconciles declared advertising-system relationships
// against the sellers.json authorization catalog, one batch lookup per
// authority domain referenced in the file.
package crosscheck

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"adstxt-validator/internal/catalog"
	"adstxt-validator/internal/logger"
	"adstxt-validator/internal/metrics"
	"adstxt-validator/internal/models"
	"adstxt-validator/internal/parser"
)

const defaultMaxConcurrent = 5

// Checker implements the Service interface
type Checker struct {
	catalog       catalog.Store
	logger        logger.Service
	metrics       *metrics.Metrics
	maxConcurrent int
}

// NewChecker creates a new cross-checker. maxConcurrent bounds the number of
// authority-domain lookups in flight at once. m may be nil.
func NewChecker(cat catalog.Store, log logger.Service, maxConcurrent int, m *metrics.Metrics) Service {
	return newChecker(cat, log, maxConcurrent, m)
}

// newChecker creates the concrete implementation
func newChecker(cat catalog.Store, log logger.Service, maxConcurrent int, m *metrics.Metrics) *Checker {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	return &Checker{
		catalog:       cat,
		logger:        log,
		metrics:       m,
		maxConcurrent: maxConcurrent,
	}
}

// CrossCheck annotates valid records with catalog-derived warnings.
// Fail-open at every level: a group whose lookup fails passes through
// unannotated, and any top-level failure returns the input unmodified.
func (c *Checker) CrossCheck(ctx context.Context, publisherDomain string, entries []*models.Entry) (out []*models.Entry) {
	if publisherDomain == "" {
		return entries
	}

	defer func() {
		if r := recover(); r != nil {
			if c.logger != nil {
				c.logger.LogError(ctx, logger.OpCrossCheck, publisherDomain,
					"Cross-check panicked, returning entries unmodified",
					fmt.Errorf("panic: %v", r), models.LogSeverityHigh, nil)
			}
			out = entries
		}
	}()

	checked, err := c.run(ctx, publisherDomain, entries)
	if err != nil {
		if c.logger != nil {
			c.logger.LogError(ctx, logger.OpCrossCheck, publisherDomain,
				"Cross-check aborted, returning entries unmodified", err, models.LogSeverityMedium, nil)
		}
		return entries
	}
	return checked
}

func (c *Checker) run(ctx context.Context, publisherDomain string, entries []*models.Entry) ([]*models.Entry, error) {
	variables := make([]*models.Entry, 0, len(entries))
	records := make([]*models.Entry, 0, len(entries))
	for _, e := range entries {
		if e.IsVariable() {
			variables = append(variables, e)
		} else {
			records = append(records, e.Clone())
		}
	}

	scope := newDomainScope(publisherDomain, variables)

	// Group valid records by their authority domain; invalid records pass
	// through untouched.
	groups := make(map[string][]int)
	for i, e := range records {
		if !e.IsValid || e.Record == nil {
			continue
		}
		authority := strings.ToLower(strings.TrimSpace(e.Record.Domain))
		groups[authority] = append(groups[authority], i)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxConcurrent)

	for authority, idxs := range groups {
		g.Go(func() error {
			ids := distinctAccountIDs(records, idxs)

			result, err := c.catalog.BatchGetSellers(gctx, authority, ids)
			if err != nil {
				// This group's records stay unannotated.
				c.metrics.IncrementCrossCheckFailure()
				if c.logger != nil {
					c.logger.LogError(gctx, logger.OpCrossCheck, authority,
						"Catalog lookup failed, skipping authority domain", err, models.LogSeverityLow, nil)
				}
				return nil
			}

			for _, i := range idxs {
				c.annotate(records[i], authority, result, scope)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]*models.Entry, 0, len(entries))
	out = append(out, variables...)
	out = append(out, records...)
	return out, nil
}

// annotate applies at most one warning per record, in evaluation order:
// missing catalog, ID not found, non-unique ID, seller-type mismatch,
// domain mismatch.
func (c *Checker) annotate(entry *models.Entry, authority string, result *models.SellerLookupResult, scope *domainScope) {
	rec := entry.Record

	if result.Metadata == nil {
		setWarning(entry, models.KeyNoSellersJSON, map[string]string{"domain": authority})
		return
	}

	lookup := result.Lookup(rec.AccountID)
	if lookup == nil || !lookup.Found {
		key := models.KeyResellerAccountNotInSeller
		if rec.Relationship == models.RelationshipDirect {
			key = models.KeyDirectAccountNotInSellers
		}
		setWarning(entry, key, map[string]string{"account_id": rec.AccountID})
		return
	}

	if lookup.Matches > 1 {
		setWarning(entry, models.KeySellerIDNotUnique, map[string]string{"account_id": rec.AccountID})
		return
	}

	seller := lookup.Seller
	if key, ok := sellerTypeMismatch(rec.Relationship, seller.SellerType); ok {
		setWarning(entry, key, map[string]string{
			"account_id":  rec.AccountID,
			"seller_type": string(seller.SellerType),
		})
		return
	}

	if scope.mismatch(rec.Relationship, seller) {
		setWarning(entry, models.KeyDomainMismatch, map[string]string{
			"seller_domain":    seller.Domain,
			"publisher_domain": scope.publisherRoot,
		})
	}
}

// sellerTypeMismatch checks relationship against the seller's declared type.
// An absent seller_type means no check.
func sellerTypeMismatch(rel models.Relationship, st models.SellerType) (models.ValidationKey, bool) {
	if st == "" {
		return "", false
	}
	switch rel {
	case models.RelationshipDirect:
		if st != models.SellerTypePublisher && st != models.SellerTypeBoth {
			return models.KeyDirectNotPublisher, true
		}
	case models.RelationshipReseller:
		if st != models.SellerTypeIntermediary && st != models.SellerTypeBoth {
			return models.KeyResellerNotIntermediary, true
		}
	}
	return "", false
}

// domainScope holds the registrable roots a seller's reported domain may
// legitimately match: the publisher's own root for DIRECT, plus any declared
// OWNERDOMAIN/MANAGERDOMAIN roots for RESELLER.
type domainScope struct {
	publisherRoot string
	declaredRoots map[string]bool
}

func newDomainScope(publisherDomain string, variables []*models.Entry) *domainScope {
	scope := &domainScope{
		publisherRoot: rootOrLower(publisherDomain),
		declaredRoots: make(map[string]bool),
	}
	for _, v := range variables {
		if v.Variable == nil {
			continue
		}
		switch v.Variable.Type {
		case models.VariableOwnerDomain, models.VariableManagerDomain:
			// MANAGERDOMAIN values may carry a country suffix after a comma.
			value := v.Variable.Value
			if i := strings.Index(value, ","); i >= 0 {
				value = value[:i]
			}
			scope.declaredRoots[rootOrLower(value)] = true
		}
	}
	return scope
}

// mismatch implements the domain comparison policy: confidential sellers and
// sellers without a domain are exempt; otherwise DIRECT sellers must match
// the publisher root and RESELLER sellers must match a declared owner or
// manager domain (or the publisher root).
func (s *domainScope) mismatch(rel models.Relationship, seller *models.Seller) bool {
	if seller.Confidential() || seller.Domain == "" {
		return false
	}
	sellerRoot := rootOrLower(seller.Domain)
	if sellerRoot == s.publisherRoot {
		return false
	}
	if rel == models.RelationshipReseller && s.declaredRoots[sellerRoot] {
		return false
	}
	return true
}

func rootOrLower(domain string) string {
	if root, err := parser.RootDomain(domain); err == nil {
		return root
	}
	return strings.ToLower(strings.TrimSpace(domain))
}

func setWarning(entry *models.Entry, key models.ValidationKey, params map[string]string) {
	entry.ValidationKey = key
	entry.Severity = models.SeverityWarning
	entry.Record.HasWarning = true
	entry.Record.Warning = key
	entry.Record.WarningParams = params
}

func distinctAccountIDs(records []*models.Entry, idxs []int) []string {
	seen := make(map[string]bool, len(idxs))
	ids := make([]string, 0, len(idxs))
	for _, i := range idxs {
		id := records[i].Record.AccountID
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}
