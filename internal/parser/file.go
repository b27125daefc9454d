// Package parser implements the line grammar of IAB ads.txt / app-ads.txt
// files: comma-separated records, KEY=value variables, # comments, one entry
// per physical line. Malformed lines become invalid entries carrying a
// validation key; the parser itself never fails.
package parser

import (
	"context"
	"strings"

	"adstxt-validator/internal/logger"
	"adstxt-validator/internal/models"
)

// Parser implements the Service interface
type Parser struct {
	logger logger.Service
}

// NewParser creates a new ads.txt parser. The logger may be nil; it is only
// used for degraded-path diagnostics.
func NewParser(log logger.Service) Service {
	return newParser(log)
}

// newParser creates the concrete implementation
func newParser(log logger.Service) *Parser {
	return &Parser{logger: log}
}

// ParseContent parses a whole file body into an ordered entry list.
func (p *Parser) ParseContent(content, publisherDomain string) []*models.Entry {
	if strings.TrimSpace(content) == "" {
		return []*models.Entry{{
			Kind:          models.EntryKindRecord,
			LineNumber:    1,
			RawLine:       "",
			IsValid:       false,
			ValidationKey: models.KeyEmptyFile,
			Severity:      models.SeverityError,
			Record:        &models.Record{Error: models.KeyEmptyFile},
		}}
	}

	lines := strings.Split(content, "\n")
	entries := make([]*models.Entry, 0, len(lines))
	for i, line := range lines {
		if entry := p.ParseLine(line, i+1); entry != nil {
			entries = append(entries, entry)
		}
	}

	if publisherDomain != "" && !hasOwnerDomain(entries) {
		entries = p.appendOwnerDomain(entries, publisherDomain)
	}

	return entries
}

// appendOwnerDomain adds a synthetic OWNERDOMAIN variable for the publisher's
// registrable root. Root resolution failures are logged and skipped; they
// never fail the parse.
func (p *Parser) appendOwnerDomain(entries []*models.Entry, publisherDomain string) []*models.Entry {
	root, err := RootDomain(publisherDomain)
	if err != nil {
		if p.logger != nil {
			p.logger.LogError(context.Background(), logger.OpParseFile, publisherDomain,
				"Skipping OWNERDOMAIN injection, root domain unresolvable", err, models.LogSeverityLow, nil)
		}
		return entries
	}
	return append(entries, &models.Entry{
		Kind:       models.EntryKindVariable,
		LineNumber: -1,
		RawLine:    "OWNERDOMAIN=" + root,
		IsValid:    true,
		Variable: &models.Variable{
			Type:  models.VariableOwnerDomain,
			Value: root,
		},
	})
}

func hasOwnerDomain(entries []*models.Entry) bool {
	for _, e := range entries {
		if e.IsVariable() && e.Variable.Type == models.VariableOwnerDomain {
			return true
		}
	}
	return false
}
