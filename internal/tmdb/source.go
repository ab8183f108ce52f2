// Package tmdb is the metadata source: it lists and looks up movies on The
// Movie Database (TMDB) v3 API.
package tmdb

import (
	"context"

	"marquee/internal/media"
)

// Source is the interface the browser consumes.
type Source interface {
	// Movies returns a discover listing (mode Discover, query ignored) or the
	// movies matching query (mode Search).
	Movies(ctx context.Context, mode media.QueryMode, query string) ([]media.MovieSummary, error)

	// Movie returns the full detail, including videos, for one movie.
	Movie(ctx context.Context, id int) (*media.MovieDetail, error)
}
