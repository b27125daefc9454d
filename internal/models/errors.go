package models

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound indicates that the domain's declaration file could not be found
	ErrFileNotFound = errors.New("declaration file not found for domain")

	// ErrInvalidDomain indicates that the provided domain is invalid
	ErrInvalidDomain = errors.New("invalid domain format")

	// ErrFetchTimeout indicates that fetching the remote file timed out
	ErrFetchTimeout = errors.New("timeout while fetching remote file")

	// ErrRateLimitExceeded indicates that rate limit has been exceeded
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrCacheMiss indicates the cache holds no usable value for the key
	ErrCacheMiss = errors.New("cache miss")

	// ErrCatalogUnavailable indicates the sellers catalog backend failed
	ErrCatalogUnavailable = errors.New("sellers catalog unavailable")

	// ErrSellersJSONMalformed indicates a sellers.json body could not be decoded
	ErrSellersJSONMalformed = errors.New("malformed sellers.json")
)

// DomainError represents an error specific to a domain operation
type DomainError struct {
	Domain  string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("domain %s: %s: %v", e.Domain, e.Message, e.Err)
	}
	return fmt.Sprintf("domain %s: %s", e.Domain, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain-specific error
func NewDomainError(domain, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Message: message,
		Err:     err,
	}
}
