package httputil

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

var (
	// videoKeyPattern matches external video IDs (YouTube keys are 11 chars of [A-Za-z0-9_-]).
	videoKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

	// imagePathPattern matches TMDB image paths such as "/kqjL17yufvn9OVLyXYpvtyrFfak.jpg".
	imagePathPattern = regexp.MustCompile(`^/[A-Za-z0-9_-]+\.(jpg|jpeg|png|svg|webp)$`)
)

// secretParams are query parameters stripped from URLs before they are logged.
var secretParams = []string{"api_key", "access_token"}

// ValidateURL checks that a URL is well-formed and uses HTTPS.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("malformed URL: %w", err)
	}
	if u.Scheme != "https" {
		return fmt.Errorf("only HTTPS URLs are allowed, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host")
	}
	return nil
}

// ValidateMovieID checks that a catalog ID is a positive integer.
func ValidateMovieID(id int) error {
	if id <= 0 {
		return fmt.Errorf("movie ID must be positive, got %d", id)
	}
	return nil
}

// ValidateVideoKey checks that an external video key contains only safe characters.
// Keys end up in player arguments and URLs, so anything else is rejected.
func ValidateVideoKey(key string) error {
	if key == "" {
		return fmt.Errorf("video key cannot be empty")
	}
	if !videoKeyPattern.MatchString(key) {
		return fmt.Errorf("video key contains invalid characters: %q", key)
	}
	return nil
}

// ValidImagePath reports whether p looks like a catalog image path.
func ValidImagePath(p string) bool {
	return imagePathPattern.MatchString(p)
}

// SanitizeText strips control characters (including ANSI escape introducers)
// from remote text before it is written to a terminal. Newlines and tabs are
// folded into spaces.
func SanitizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\t' || r == '\r':
			b.WriteRune(' ')
		case unicode.IsControl(r):
			// dropped
		case r == '\u2028' || r == '\u2029' || r == '\u202e':
			// dropped: line separators and right-to-left override
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// BuildURL constructs a URL from base and path components, encoding each path segment.
func BuildURL(base string, pathSegments ...string) string {
	u := strings.TrimRight(base, "/")
	for _, seg := range pathSegments {
		u += "/" + url.PathEscape(seg)
	}
	return u
}

// Redact removes credential query parameters from a URL for logging.
func Redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<unparseable URL>"
	}
	q := u.Query()
	changed := false
	for _, p := range secretParams {
		if q.Has(p) {
			q.Set(p, "REDACTED")
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return u.String()
}
