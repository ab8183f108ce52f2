// Package httputil provides a security-hardened HTTP client and input sanitization utilities.
package httputil

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// UserAgent identifies marquee to the metadata API.
var UserAgent = "marquee/dev"

// maxBodySize caps how much of a response body is read into memory.
const maxBodySize = 10 * 1024 * 1024

// StatusError reports a non-200 response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.Code, e.URL)
}

// NewClient creates a hardened HTTP client with secure defaults.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			ForceAttemptHTTP2:   true,
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			DisableCompression:  false,
			MaxIdleConnsPerHost: 5,
		},
	}
}

// GetJSON performs a GET request with JSON accept header and returns the body.
// Credentials in the URL are redacted from returned errors.
func GetJSON(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = Redact(ue.URL)
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		return nil, &StatusError{Code: resp.StatusCode, URL: Redact(rawURL)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return body, nil
}
