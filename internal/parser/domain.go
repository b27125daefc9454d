package parser

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// domainShape enforces RFC 1035 label shape: alphanumeric labels up to 63
// chars, hyphens only in the middle.
var domainShape = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

// ValidDomain reports whether s is a plausible registrable domain name:
// correct label shape plus a public-suffix-aware eTLD+1 derivation. Bare
// suffixes like "com" or "co.uk" are rejected.
func ValidDomain(s string) bool {
	domain := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), ".")
	if domain == "" || len(domain) > 253 || !strings.Contains(domain, ".") {
		return false
	}
	if !domainShape.MatchString(domain) {
		return false
	}
	if _, err := publicsuffix.EffectiveTLDPlusOne(domain); err != nil {
		return false
	}
	return true
}

// RootDomain returns the registrable root (eTLD+1) of a host. It tolerates
// scheme prefixes, ports and paths so raw user input can be passed in.
func RootDomain(s string) (string, error) {
	host := strings.ToLower(strings.TrimSpace(s))
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	if i := strings.IndexAny(host, "/?"); i >= 0 {
		host = host[:i]
	}
	if i := strings.Index(host, ":"); i >= 0 {
		host = host[:i]
	}
	host = strings.TrimSuffix(host, ".")
	if host == "" {
		return "", fmt.Errorf("empty host in %q", s)
	}
	root, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", fmt.Errorf("cannot derive root domain of %q: %w", host, err)
	}
	return root, nil
}
