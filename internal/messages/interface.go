package messages

import "adstxt-validator/internal/models"

// Service resolves validation outcome keys to display text.
type Service interface {
	// Resolve returns the localized message for key with {param}
	// placeholders substituted. Unknown keys return the key itself.
	Resolve(key models.ValidationKey, params map[string]string) string

	// HelpURL returns a documentation link for the given key.
	HelpURL(key models.ValidationKey) string

	// Apply fills Record.Message in place for every annotated entry.
	Apply(entries []*models.Entry)
}
