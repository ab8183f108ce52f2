package cmd

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"marquee/internal/history"
	"marquee/internal/media"
	"marquee/internal/player"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printMovies writes one movie per line, or the list as JSON.
func printMovies(w io.Writer, movies []media.MovieSummary, asJSON bool) error {
	if asJSON {
		return writeJSON(w, movies)
	}
	if len(movies) == 0 {
		fmt.Fprintln(w, "No movies found.")
		return nil
	}
	for _, m := range movies {
		fmt.Fprintf(w, "%-8d %s [%.1f]\n", m.ID, m.Title, m.VoteAverage)
	}
	return nil
}

// printHistory writes the recently watched list.
func printHistory(w io.Writer, entries []media.MovieDetail, asJSON bool) error {
	if asJSON {
		return writeJSON(w, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No recently watched trailers.")
		return nil
	}
	for _, line := range history.FormatForDisplay(entries) {
		fmt.Fprintln(w, line)
	}
	return nil
}

type trailerInfo struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Key      string `json:"key"`
	WatchURL string `json:"watch_url"`
}

func printTrailer(w io.Writer, d *media.MovieDetail, key string, asJSON bool) error {
	info := trailerInfo{ID: d.ID, Title: d.Title, Key: key, WatchURL: player.WatchURL(key)}
	if asJSON {
		return writeJSON(w, info)
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n", info.Title, info.WatchURL)
	return err
}
