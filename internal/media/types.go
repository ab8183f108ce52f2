// Package media defines shared types for the marquee application.
package media

// QueryMode selects which list endpoint the metadata source is asked for.
type QueryMode int

const (
	Discover QueryMode = iota
	Search
)

func (m QueryMode) String() string {
	switch m {
	case Discover:
		return "discover"
	case Search:
		return "search"
	default:
		return "unknown"
	}
}

// ModeFor returns Search for a non-empty query and Discover otherwise.
func ModeFor(query string) QueryMode {
	if query == "" {
		return Discover
	}
	return Search
}

// OfficialTrailerName is the video name preferred when picking a trailer.
const OfficialTrailerName = "Official Trailer"

// MovieSummary is a single entry of a discover or search listing.
type MovieSummary struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	PosterPath   string  `json:"poster_path,omitempty"`   // Empty when the catalog has no poster
	BackdropPath string  `json:"backdrop_path,omitempty"` // Empty when the catalog has no backdrop
	VoteAverage  float64 `json:"vote_average"`
}

// MovieDetail is the full record fetched for a selected movie.
type MovieDetail struct {
	MovieSummary
	Overview string     `json:"overview"`
	Videos   []VideoRef `json:"videos"`
}

// VideoRef points at an externally hosted video.
type VideoRef struct {
	Key  string `json:"key"`            // External video identifier (YouTube video ID)
	Name string `json:"name"`           // e.g., "Official Trailer"
	Site string `json:"site,omitempty"` // e.g., "YouTube"
}

// Clone returns a deep copy of the detail.
func (d *MovieDetail) Clone() *MovieDetail {
	if d == nil {
		return nil
	}
	c := *d
	if d.Videos != nil {
		c.Videos = append([]VideoRef(nil), d.Videos...)
	}
	return &c
}
