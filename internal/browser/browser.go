// Package browser owns the movie browsing state: the current query and its
// results, the selected movie, trailer visibility, carousel position and the
// recently-viewed history. Renderers read it through Snapshot and drive it
// through the Manager methods.
//
// Every list fetch and every detail fetch is tagged with a sequence number
// and gets its own cancellable context. Starting a newer request of the same
// kind cancels the older one, and a response that is not the latest issued
// is discarded with ErrStale, so the state never regresses to an older answer.
// Manager methods are safe for concurrent use; network calls run without the
// state lock held.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"marquee/internal/history"
	"marquee/internal/media"
	"marquee/internal/store"
	"marquee/internal/tmdb"
)

// MaxCarouselOffset is the highest carousel position.
const MaxCarouselOffset = 10

var (
	// ErrNoVideoAvailable is returned when a movie has no videos to play.
	ErrNoVideoAvailable = errors.New("no video available")

	// ErrFetch wraps metadata source failures. State is left unchanged.
	ErrFetch = errors.New("fetch failed")

	// ErrStale is returned when a response arrived after a newer request of
	// the same kind was issued; the response was discarded.
	ErrStale = errors.New("response superseded by a newer request")
)

// Direction moves the carousel.
type Direction int

const (
	Previous Direction = iota
	Next
)

func (d Direction) String() string {
	if d == Previous {
		return "previous"
	}
	return "next"
}

// State is a point-in-time copy of everything the UI renders.
type State struct {
	SearchQuery    string
	Results        []media.MovieSummary
	Selected       *media.MovieDetail // nil until a detail fetch succeeds
	TrailerVisible bool
	CarouselOffset int // 0..MaxCarouselOffset
	RecentlyViewed []media.MovieDetail
}

func (s State) clone() State {
	c := s
	c.Results = append([]media.MovieSummary(nil), s.Results...)
	c.Selected = s.Selected.Clone()
	c.RecentlyViewed = make([]media.MovieDetail, len(s.RecentlyViewed))
	for i := range s.RecentlyViewed {
		c.RecentlyViewed[i] = *s.RecentlyViewed[i].Clone()
	}
	return c
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for fetch and persistence failures.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithAutoSelectFirstResult controls whether a completed listing selects its
// first entry. It is on by default so the hero banner always shows a movie.
func WithAutoSelectFirstResult(on bool) Option {
	return func(m *Manager) { m.autoSelect = on }
}

// request tracks the latest issued fetch of one kind.
type request struct {
	seq    uint64
	cancel context.CancelFunc
}

// begin issues a new request, cancelling the previous one. Must be called with
// the manager lock held.
func (r *request) begin(parent context.Context) (context.Context, uint64) {
	if r.cancel != nil {
		r.cancel()
	}
	r.seq++
	ctx, cancel := context.WithCancel(parent)
	r.cancel = cancel
	return ctx, r.seq
}

func (r *request) stop() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// Manager is the movie browser state manager.
type Manager struct {
	src        tmdb.Source
	kv         store.KV
	log        zerolog.Logger
	autoSelect bool

	mu     sync.Mutex
	state  State
	list   request
	detail request
}

// New creates a Manager. A nil kv keeps history in memory only. src may be
// nil for a Manager that only reads or clears history.
func New(src tmdb.Source, kv store.KV, opts ...Option) *Manager {
	if kv == nil {
		kv = store.NewMemory()
	}
	m := &Manager{
		src:        src,
		kv:         kv,
		log:        zerolog.Nop(),
		autoSelect: true,
		state: State{
			Results:        []media.MovieSummary{},
			RecentlyViewed: []media.MovieDetail{},
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Snapshot returns a deep copy of the current state.
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// Initialize loads the persisted history, then fetches the discover listing
// and selects its first movie. History is in place before the listing is
// requested.
func (m *Manager) Initialize(ctx context.Context) error {
	m.LoadHistory()

	m.mu.Lock()
	m.state.SearchQuery = ""
	m.mu.Unlock()

	return m.fetchList(ctx, "")
}

// LoadHistory replaces the recently-viewed list with the persisted one. A
// broken or missing history is treated as empty.
func (m *Manager) LoadHistory() {
	entries, err := history.Load(m.kv)
	if err != nil {
		m.log.Warn().Err(err).Msg("recently viewed history unreadable, starting empty")
	}

	m.mu.Lock()
	m.state.RecentlyViewed = entries
	m.mu.Unlock()

	m.log.Debug().Int("recently_viewed", len(entries)).Msg("history hydrated")
}

// Search replaces the query and fetches matching movies; an empty (or blank)
// query fetches the discover listing instead. A new listing rewinds the
// carousel.
func (m *Manager) Search(ctx context.Context, query string) error {
	m.mu.Lock()
	m.state.SearchQuery = query
	m.mu.Unlock()

	return m.fetchList(ctx, query)
}

func (m *Manager) fetchList(parent context.Context, query string) error {
	term := strings.TrimSpace(query)
	mode := media.ModeFor(term)

	m.mu.Lock()
	ctx, seq := m.list.begin(parent)
	m.mu.Unlock()

	results, err := m.src.Movies(ctx, mode, term)

	m.mu.Lock()
	if seq != m.list.seq {
		m.mu.Unlock()
		m.log.Debug().Str("mode", mode.String()).Str("query", term).Uint64("seq", seq).Msg("discarding stale listing")
		return ErrStale
	}
	if err != nil {
		m.mu.Unlock()
		m.log.Error().Err(err).Str("mode", mode.String()).Str("query", term).Msg("listing fetch failed")
		return fmt.Errorf("%w: %w", ErrFetch, err)
	}
	if results == nil {
		results = []media.MovieSummary{}
	}
	m.state.Results = results
	m.state.CarouselOffset = 0
	autoSelect := m.autoSelect && len(results) > 0
	var first media.MovieSummary
	if autoSelect {
		first = results[0]
	}
	m.mu.Unlock()

	if !autoSelect {
		return nil
	}
	// A newer selection made while this one was in flight wins; that is not
	// a failure of the search.
	if err := m.SelectMovie(ctx, first); err != nil && !errors.Is(err, ErrStale) {
		return err
	}
	return nil
}

// SelectMovie hides the trailer and fetches the full detail for summary. On
// failure the previous selection stays in place.
func (m *Manager) SelectMovie(parent context.Context, summary media.MovieSummary) error {
	m.mu.Lock()
	m.state.TrailerVisible = false
	ctx, seq := m.detail.begin(parent)
	m.mu.Unlock()

	detail, err := m.src.Movie(ctx, summary.ID)

	m.mu.Lock()
	defer m.mu.Unlock()

	if seq != m.detail.seq {
		m.log.Debug().Int("id", summary.ID).Uint64("seq", seq).Msg("discarding stale movie detail")
		return ErrStale
	}
	if err != nil {
		m.log.Error().Err(err).Int("id", summary.ID).Msg("movie fetch failed")
		return fmt.Errorf("%w: %w", ErrFetch, err)
	}

	m.state.Selected = detail.Clone()
	// A trailer started while this detail was loading belonged to the
	// previous movie.
	m.state.TrailerVisible = false
	return nil
}

// PlayTrailer shows the trailer of the selected movie and records the movie
// at the front of the recently-viewed history. It reports false and changes
// nothing when no movie is selected.
func (m *Manager) PlayTrailer() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Selected == nil {
		return false
	}

	m.state.TrailerVisible = true
	m.state.RecentlyViewed = history.Push(m.state.RecentlyViewed, *m.state.Selected)

	if err := history.Save(m.kv, m.state.RecentlyViewed); err != nil {
		m.log.Error().Err(err).Msg("persisting recently viewed history failed")
	}
	return true
}

// CloseTrailer hides the trailer.
func (m *Manager) CloseTrailer() {
	m.mu.Lock()
	m.state.TrailerVisible = false
	m.mu.Unlock()
}

// ClearRecentlyViewed empties the history and persists the empty list.
func (m *Manager) ClearRecentlyViewed() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.RecentlyViewed = []media.MovieDetail{}
	if err := history.Save(m.kv, m.state.RecentlyViewed); err != nil {
		m.log.Error().Err(err).Msg("persisting cleared history failed")
		return err
	}
	return nil
}

// AdvanceCarousel moves the carousel one step and returns the new offset.
// Moves past either end are ignored.
func (m *Manager) AdvanceCarousel(dir Direction) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch dir {
	case Previous:
		if m.state.CarouselOffset > 0 {
			m.state.CarouselOffset--
		}
	case Next:
		if m.state.CarouselOffset < MaxCarouselOffset {
			m.state.CarouselOffset++
		}
	}
	return m.state.CarouselOffset
}

// CanPlayTrailer reports whether a movie is selected and has a video. The UI
// uses it to disable the play affordance.
func (m *Manager) CanPlayTrailer() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Selected != nil && len(m.state.Selected.Videos) > 0
}

// SelectedTrailerKey resolves the trailer key of the selected movie.
func (m *Manager) SelectedTrailerKey() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Selected == nil {
		return "", ErrNoVideoAvailable
	}
	return ResolveTrailerKey(m.state.Selected)
}

// Close cancels any in-flight fetches.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list.stop()
	m.detail.stop()
}

// ResolveTrailerKey picks the video named "Official Trailer", falling back to
// the first video.
func ResolveTrailerKey(detail *media.MovieDetail) (string, error) {
	if detail == nil || len(detail.Videos) == 0 {
		return "", ErrNoVideoAvailable
	}
	for _, v := range detail.Videos {
		if v.Name == media.OfficialTrailerName {
			return v.Key, nil
		}
	}
	return detail.Videos[0].Key, nil
}
