package tmdb

import "marquee/internal/httputil"

// Image sizes used by the hero banner and the carousel cards.
const (
	BackdropSize = "w1280"
	PosterSize   = "w500"
)

// ImageURL returns the full URL of a catalog image, or "" when path is empty
// or not a catalog image path.
func ImageURL(host, size, path string) string {
	if !httputil.ValidImagePath(path) {
		return ""
	}
	return "https://" + host + "/t/p/" + size + path
}
