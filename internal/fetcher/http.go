package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"adstxt-validator/internal/models"
)

const (
	// maxDeclarationSize bounds ads.txt / app-ads.txt bodies.
	maxDeclarationSize = 1 << 20
	// maxSellersJSONSize bounds sellers.json bodies; large exchanges publish
	// files in the tens of megabytes.
	maxSellersJSONSize = 50 << 20

	userAgent = "adstxt-validator/1.0"
)

// HTTPFetcher implements Service using HTTP requests
type HTTPFetcher struct {
	client  *http.Client
	timeout time.Duration
}

// NewHTTPFetcher creates a new HTTP-based fetcher
func NewHTTPFetcher(timeout time.Duration) Service {
	return newHTTPFetcher(timeout)
}

// newHTTPFetcher creates the concrete implementation
func newHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Allow up to 5 redirects
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		timeout: timeout,
	}
}

// FetchDeclarationFile retrieves the ads.txt or app-ads.txt file for a domain.
func (f *HTTPFetcher) FetchDeclarationFile(ctx context.Context, domain string, fileType models.FileType) (string, error) {
	return f.fetchPath(ctx, domain, "/"+string(fileType), maxDeclarationSize)
}

// FetchSellersJSON retrieves the sellers.json file for an authority domain.
func (f *HTTPFetcher) FetchSellersJSON(ctx context.Context, domain string) (string, error) {
	return f.fetchPath(ctx, domain, "/sellers.json", maxSellersJSONSize)
}

// fetchPath tries a series of URL shapes in order: https, plain http, then
// https with a www prefix. The first 200 wins; a 404 on every shape maps to
// ErrFileNotFound.
func (f *HTTPFetcher) fetchPath(ctx context.Context, domain, path string, maxSize int64) (string, error) {
	if domain == "" {
		return "", models.ErrInvalidDomain
	}
	host := f.normalizeDomain(domain)

	urls := []string{
		"https://" + host + path,
		"http://" + host + path,
	}
	if !strings.HasPrefix(host, "www.") {
		urls = append(urls, "https://www."+host+path)
	}

	var lastErr error
	allNotFound := true
	for _, u := range urls {
		body, err := f.fetchURL(ctx, u, maxSize)
		if err == nil {
			return body, nil
		}
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", models.ErrFetchTimeout, ctx.Err())
		}
		if !isNotFound(err) {
			allNotFound = false
		}
		lastErr = err
	}

	if allNotFound {
		return "", fmt.Errorf("%w: %s%s", models.ErrFileNotFound, host, path)
	}
	return "", fmt.Errorf("failed to fetch %s for %s: %w", path, host, lastErr)
}

func (f *HTTPFetcher) fetchURL(ctx context.Context, rawURL string, maxSize int64) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/plain, application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w: %v", models.ErrFetchTimeout, err)
		}
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: HTTP %d", models.ErrFileNotFound, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected HTTP status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := f.readBodyWithLimit(resp.Body, maxSize)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	return string(body), nil
}

func isNotFound(err error) bool {
	return errors.Is(err, models.ErrFileNotFound)
}

// normalizeDomain removes protocol, port, and path from domain
func (f *HTTPFetcher) normalizeDomain(domain string) string {
	domain = strings.TrimPrefix(domain, "http://")
	domain = strings.TrimPrefix(domain, "https://")

	parsedURL, err := url.Parse("http://" + domain)
	if err != nil {
		return strings.Split(domain, "/")[0]
	}
	return parsedURL.Hostname()
}

// readBodyWithLimit reads the response body with a size limit
func (f *HTTPFetcher) readBodyWithLimit(body io.Reader, maxSize int64) ([]byte, error) {
	limitedReader := io.LimitReader(body, maxSize)
	data, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, err
	}

	if int64(len(data)) >= maxSize {
		return nil, fmt.Errorf("remote file too large (exceeds %d bytes)", maxSize)
	}

	return data, nil
}
