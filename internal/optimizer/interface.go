package optimizer

import "adstxt-validator/internal/models"

// Service defines the interface for rewriting declaration files
// External packages should use this interface, not the concrete implementations
type Service interface {
	// Optimize rewrites a file body under the given steps, preserving blank
	// and comment lines verbatim. domain is optional and only feeds the
	// parser's publisher-aware policies.
	Optimize(content, domain string, steps models.OptimizeSteps) *models.OptimizeResult
}
