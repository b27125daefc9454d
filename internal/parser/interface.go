package parser

import "adstxt-validator/internal/models"

// Service defines the interface for parsing ads.txt / app-ads.txt content
// External packages should use this interface, not the concrete implementations
type Service interface {
	// ParseLine parses one physical line. It returns nil for blank lines and
	// pure comments; malformed lines come back as invalid entries, never errors.
	ParseLine(line string, lineNumber int) *models.Entry

	// ParseContent parses a whole file body. When publisherDomain is set and
	// the file declares no OWNERDOMAIN, a synthetic OWNERDOMAIN variable for
	// the publisher's registrable root is appended with line number -1.
	ParseContent(content, publisherDomain string) []*models.Entry
}
