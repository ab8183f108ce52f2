package history

import (
	"errors"
	"testing"

	"marquee/internal/media"
	"marquee/internal/store"
)

func detail(id int, title string) media.MovieDetail {
	return media.MovieDetail{
		MovieSummary: media.MovieSummary{ID: id, Title: title, VoteAverage: 7.5},
		Overview:     title + " overview",
		Videos:       []media.VideoRef{{Key: "k" + title, Name: media.OfficialTrailerName}},
	}
}

type failingKV struct{}

func (failingKV) Get(string) ([]byte, bool, error) { return nil, false, errors.New("disk gone") }
func (failingKV) Set(string, []byte) error         { return errors.New("disk gone") }

func TestSaveAndLoad(t *testing.T) {
	kv := store.NewMemory()

	entries := []media.MovieDetail{detail(1, "A"), detail(2, "B"), detail(3, "C")}
	if err := Save(kv, entries); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := Load(kv)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	for i, want := range []int{1, 2, 3} {
		if got[i].ID != want {
			t.Errorf("entry %d ID = %d, want %d", i, got[i].ID, want)
		}
	}
	if got[0].Videos[0].Key != "kA" {
		t.Errorf("videos not persisted: %+v", got[0].Videos)
	}
}

func TestLoadMissing(t *testing.T) {
	got, err := Load(store.NewMemory())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", got)
	}
}

func TestLoadMalformed(t *testing.T) {
	for _, payload := range []string{"{not json", `{"id":1}`, `"string"`, "null"} {
		t.Run(payload, func(t *testing.T) {
			kv := store.NewMemory()
			kv.Set(Key, []byte(payload))

			got, _ := Load(kv)
			if got == nil || len(got) != 0 {
				t.Errorf("Load(%q) = %#v, want empty list", payload, got)
			}
		})
	}
}

func TestLoadStoreFailure(t *testing.T) {
	got, err := Load(failingKV{})
	if err == nil {
		t.Error("expected the read error to be reported")
	}
	if len(got) != 0 {
		t.Errorf("expected empty list, got %d entries", len(got))
	}
}

func TestLoadTruncatesOversizedList(t *testing.T) {
	kv := store.NewMemory()
	var entries []media.MovieDetail
	for i := 1; i <= 8; i++ {
		entries = append(entries, detail(i, "M"))
	}
	Save(kv, entries)

	got, _ := Load(kv)
	if len(got) != Limit {
		t.Errorf("expected %d entries, got %d", Limit, len(got))
	}
}

func TestSaveEmpty(t *testing.T) {
	kv := store.NewMemory()
	if err := Save(kv, nil); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	raw, ok, _ := kv.Get(Key)
	if !ok || string(raw) != "[]" {
		t.Errorf("stored %q, want []", raw)
	}
}

func TestPush(t *testing.T) {
	var entries []media.MovieDetail
	for i := 1; i <= 7; i++ {
		prev := len(entries)
		entries = Push(entries, detail(i, "M"))

		want := prev + 1
		if want > Limit {
			want = Limit
		}
		if len(entries) != want {
			t.Fatalf("after push %d: len = %d, want %d", i, len(entries), want)
		}
		if entries[0].ID != i {
			t.Fatalf("after push %d: first ID = %d", i, entries[0].ID)
		}
	}

	// Newest first: 7, 6, 5, 4, 3
	for i, e := range entries {
		if e.ID != 7-i {
			t.Errorf("entries[%d].ID = %d, want %d", i, e.ID, 7-i)
		}
	}
}

func TestPushNoDedup(t *testing.T) {
	entries := Push(nil, detail(1, "A"))
	entries = Push(entries, detail(1, "A"))
	if len(entries) != 2 {
		t.Fatalf("expected repeated views to be kept, got %d entries", len(entries))
	}
}

func TestPushDoesNotAliasInput(t *testing.T) {
	orig := []media.MovieDetail{detail(1, "A"), detail(2, "B")}
	d := detail(3, "C")
	out := Push(orig, d)

	out[1].Title = "changed"
	if orig[0].Title != "A" {
		t.Error("Push modified its input slice")
	}
	d.Videos[0].Key = "mutated"
	if out[0].Videos[0].Key != "kC" {
		t.Error("Push kept a reference to the caller's videos")
	}
}

func TestFormatForDisplay(t *testing.T) {
	entries := []media.MovieDetail{
		detail(1, "Inception"),
		{MovieSummary: media.MovieSummary{ID: 2, Title: "Unrated"}},
	}

	items := FormatForDisplay(entries)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0] != "1. Inception [7.5]" {
		t.Errorf("items[0] = %q", items[0])
	}
	if items[1] != "2. Unrated" {
		t.Errorf("items[1] = %q", items[1])
	}
}
