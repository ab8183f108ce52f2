// Package history manages the recently-viewed list: a bounded, newest-first
// sequence of movie snapshots persisted as JSON under a single store key.
package history

import (
	"fmt"

	"github.com/goccy/go-json"

	"marquee/internal/media"
	"marquee/internal/store"
)

// Key is the store key holding the serialized list.
const Key = "recentlyViewed"

// Limit is the maximum number of entries kept.
const Limit = 5

// Load reads the persisted list. A missing key, an unreadable store or a
// malformed payload all yield an empty list; the returned error is only for
// logging and callers may ignore it.
func Load(kv store.KV) ([]media.MovieDetail, error) {
	data, ok, err := kv.Get(Key)
	if err != nil {
		return []media.MovieDetail{}, fmt.Errorf("reading history: %w", err)
	}
	if !ok || len(data) == 0 {
		return []media.MovieDetail{}, nil
	}

	var entries []media.MovieDetail
	if err := json.Unmarshal(data, &entries); err != nil {
		return []media.MovieDetail{}, fmt.Errorf("parsing history: %w", err)
	}
	if entries == nil {
		// Stored "null".
		return []media.MovieDetail{}, nil
	}
	if len(entries) > Limit {
		entries = entries[:Limit]
	}
	return entries, nil
}

// Save writes the list, replacing whatever was stored.
func Save(kv store.KV, entries []media.MovieDetail) error {
	if entries == nil {
		entries = []media.MovieDetail{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	if err := kv.Set(Key, data); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	return nil
}

// Push returns a new list with detail prepended and the tail truncated to
// Limit. Entries are not de-duplicated: viewing the same movie twice records
// it twice. The input slice is not modified.
func Push(entries []media.MovieDetail, detail media.MovieDetail) []media.MovieDetail {
	n := len(entries) + 1
	if n > Limit {
		n = Limit
	}
	out := make([]media.MovieDetail, 0, n)
	out = append(out, *detail.Clone())
	for _, e := range entries {
		if len(out) == n {
			break
		}
		out = append(out, e)
	}
	return out
}

// FormatForDisplay creates display strings for history entries.
func FormatForDisplay(entries []media.MovieDetail) []string {
	var items []string
	for i, e := range entries {
		display := fmt.Sprintf("%d. %s", i+1, e.Title)
		if e.VoteAverage > 0 {
			display += fmt.Sprintf(" [%.1f]", e.VoteAverage)
		}
		items = append(items, display)
	}
	return items
}
