package cmd

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"marquee/internal/browser"
	"marquee/internal/history"
	"marquee/internal/media"
	"marquee/internal/store"
)

type movieSource map[int]*media.MovieDetail

func (s movieSource) Movies(ctx context.Context, mode media.QueryMode, query string) ([]media.MovieSummary, error) {
	return nil, nil
}

func (s movieSource) Movie(ctx context.Context, id int) (*media.MovieDetail, error) {
	d, ok := s[id]
	if !ok {
		return nil, fmt.Errorf("movie %d: not found", id)
	}
	return d.Clone(), nil
}

func testSource() movieSource {
	return movieSource{
		27205: {
			MovieSummary: media.MovieSummary{ID: 27205, Title: "Inception"},
			Videos:       []media.VideoRef{{Key: "YoHD9XEInc0", Name: media.OfficialTrailerName, Site: "YouTube"}},
		},
		99: {MovieSummary: media.MovieSummary{ID: 99, Title: "Silent"}},
	}
}

func TestWatchTrailerRecordsHistory(t *testing.T) {
	kv := store.NewMemory()
	mgr := browser.New(testSource(), kv)

	d, key, err := watchTrailer(context.Background(), mgr, 27205)
	if err != nil {
		t.Fatalf("watchTrailer() error: %v", err)
	}
	if d.Title != "Inception" || key != "YoHD9XEInc0" {
		t.Errorf("watchTrailer() = %q, %q", d.Title, key)
	}

	entries, err := history.Load(kv)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].ID != 27205 {
		t.Errorf("history = %+v, want Inception only", entries)
	}
}

func TestWatchTrailerWithoutVideos(t *testing.T) {
	kv := store.NewMemory()
	mgr := browser.New(testSource(), kv)

	_, _, err := watchTrailer(context.Background(), mgr, 99)
	if err == nil || !strings.Contains(err.Error(), "Silent has no trailer") {
		t.Fatalf("watchTrailer() error = %v", err)
	}
	entries, _ := history.Load(kv)
	if len(entries) != 0 {
		t.Errorf("history = %+v, want empty", entries)
	}
}

func TestClearHistory(t *testing.T) {
	kv := store.NewMemory()
	seed := []media.MovieDetail{{MovieSummary: media.MovieSummary{ID: 1, Title: "Dune"}}}
	if err := history.Save(kv, seed); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := clearHistory(&buf, kv); err != nil {
		t.Fatalf("clearHistory() error: %v", err)
	}
	if !strings.Contains(buf.String(), "cleared") {
		t.Errorf("output = %q", buf.String())
	}

	entries, err := history.Load(kv)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("history after clear = %+v", entries)
	}
}
