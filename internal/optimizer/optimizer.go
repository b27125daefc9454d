// Package optimizer rewrites ads.txt / app-ads.txt bodies by removing or
// commenting out invalid and duplicate lines. It works on the raw lines and
// only consults the parser for per-line validity, so untouched lines survive
// byte for byte.
package optimizer

import (
	"fmt"
	"strings"

	"adstxt-validator/internal/models"
	"adstxt-validator/internal/parser"
)

// Optimizer implements the Service interface
type Optimizer struct {
	parser parser.Service
}

// New creates a new optimizer on top of a parser.
func New(p parser.Service) Service {
	return newOptimizer(p)
}

// newOptimizer creates the concrete implementation
func newOptimizer(p parser.Service) *Optimizer {
	return &Optimizer{parser: p}
}

// Optimize rewrites content under the given steps.
func (o *Optimizer) Optimize(content, domain string, steps models.OptimizeSteps) *models.OptimizeResult {
	invalidAction := actionOrDefault(steps.InvalidAction)
	duplicateAction := actionOrDefault(steps.DuplicateAction)

	// One full parse of the original content up front: per-line validity for
	// the rewrite and the errorsFound stat.
	entries := o.parser.ParseContent(content, domain)
	byLine := make(map[int]*models.Entry, len(entries))
	errorsFound := 0
	for _, e := range entries {
		if e.LineNumber > 0 {
			byLine[e.LineNumber] = e
		}
		if e.IsRecord() && !e.IsValid {
			errorsFound++
		}
	}

	lines := strings.Split(content, "\n")
	kept := make([]string, 0, len(lines))
	seen := make(map[string]bool)
	removed := 0

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		// Blank and comment-only lines always survive unchanged.
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			kept = append(kept, line)
			continue
		}

		entry, ok := byLine[i+1]
		if !ok || !entry.IsValid {
			if !steps.RemoveErrors {
				kept = append(kept, line)
				continue
			}
			if invalidAction == models.ActionComment {
				kept = append(kept, fmt.Sprintf("# INVALID: %s (%s)", line, invalidReason(entry)))
			} else {
				removed++
			}
			continue
		}

		key := dedupKey(entry)
		if seen[key] {
			if duplicateAction == models.ActionComment {
				kept = append(kept, "# DUPLICATE: "+line)
			} else {
				removed++
			}
			continue
		}
		seen[key] = true
		kept = append(kept, line)
	}

	optimized := strings.Join(kept, "\n")
	return &models.OptimizeResult{
		OptimizedContent: optimized,
		Stats: models.OptimizeStats{
			OriginalLines: len(lines),
			FinalLines:    len(strings.Split(optimized, "\n")),
			RemovedCount:  removed,
			ErrorsFound:   errorsFound,
		},
	}
}

// dedupKey collapses equivalent lines: variables on type and value, records
// on the lower-cased identity tuple.
func dedupKey(entry *models.Entry) string {
	if entry.IsVariable() {
		return fmt.Sprintf("%s=%s", entry.Variable.Type, entry.Variable.Value)
	}
	rec := entry.Record
	return strings.ToLower(fmt.Sprintf("%s,%s,%s,%s", rec.Domain, rec.AccountID, rec.AccountType, rec.Relationship))
}

func invalidReason(entry *models.Entry) string {
	if entry == nil || entry.ValidationKey == "" {
		return string(models.KeyInvalidFormat)
	}
	return string(entry.ValidationKey)
}

func actionOrDefault(a models.LineAction) models.LineAction {
	if a == models.ActionComment {
		return models.ActionComment
	}
	return models.ActionRemove
}
