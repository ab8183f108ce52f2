package tmdb

import (
	"strings"

	"marquee/internal/httputil"
	"marquee/internal/media"
)

// Wire shapes of the TMDB v3 responses. Only the fields marquee uses are decoded.

type listResponse struct {
	Page         int           `json:"page"`
	Results      []movieResult `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

type movieResult struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
}

type detailResponse struct {
	movieResult
	Overview string `json:"overview"`
	Videos   struct {
		Results []videoResult `json:"results"`
	} `json:"videos"`
}

type videoResult struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// playableSite is the only host whose keys the players know how to open.
const playableSite = "youtube"

// toSummary converts a wire result, dropping unsafe text and image paths.
func toSummary(r movieResult) media.MovieSummary {
	s := media.MovieSummary{
		ID:          r.ID,
		Title:       httputil.SanitizeText(r.Title),
		VoteAverage: r.VoteAverage,
	}
	if httputil.ValidImagePath(r.PosterPath) {
		s.PosterPath = r.PosterPath
	}
	if httputil.ValidImagePath(r.BackdropPath) {
		s.BackdropPath = r.BackdropPath
	}
	return s
}

// toSummaries converts a listing, skipping entries without a usable ID.
func toSummaries(results []movieResult) []media.MovieSummary {
	out := make([]media.MovieSummary, 0, len(results))
	for _, r := range results {
		if httputil.ValidateMovieID(r.ID) != nil {
			continue
		}
		out = append(out, toSummary(r))
	}
	return out
}

// toDetail converts a detail response. Videos keep their API order; entries
// hosted elsewhere than YouTube or with unsafe keys are dropped.
func toDetail(r detailResponse) *media.MovieDetail {
	d := &media.MovieDetail{
		MovieSummary: toSummary(r.movieResult),
		Overview:     httputil.SanitizeText(r.Overview),
		Videos:       []media.VideoRef{},
	}
	for _, v := range r.Videos.Results {
		if v.Site != "" && !strings.EqualFold(v.Site, playableSite) {
			continue
		}
		if httputil.ValidateVideoKey(v.Key) != nil {
			continue
		}
		d.Videos = append(d.Videos, media.VideoRef{
			Key:  v.Key,
			Name: httputil.SanitizeText(v.Name),
			Site: v.Site,
		})
	}
	return d
}
