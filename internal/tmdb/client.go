package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"marquee/internal/config"
	"marquee/internal/httputil"
	"marquee/internal/media"
)

// DefaultBaseURL is the TMDB v3 API root.
const DefaultBaseURL = "https://api.themoviedb.org/3"

// ErrUnavailable is returned while the circuit breaker is open.
var ErrUnavailable = errors.New("metadata source temporarily unavailable")

// Options tunes a Client. Zero values select defaults.
type Options struct {
	BaseURL           string        // e.g., "https://api.themoviedb.org/3"
	Language          string        // e.g., "en-US"; empty lets the API decide
	HTTPClient        *http.Client  // defaults to httputil.NewClient
	Timeout           time.Duration // per-request bound; also the HTTP client timeout when HTTPClient is nil
	RequestsPerSecond float64       // client-side rate limit
	ListTTL           time.Duration // how long discover/search listings are reused
	DetailCacheSize   int           // number of movie details kept in memory
	Logger            zerolog.Logger
}

// Client implements Source against the TMDB HTTP API.
type Client struct {
	apiKey   string
	baseURL  string
	language string
	client   *http.Client
	timeout  time.Duration
	log      zerolog.Logger

	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
	group   singleflight.Group

	lists   *cache.Cache
	details *lru.Cache[int, *media.MovieDetail]
}

// NewClient creates a TMDB client. An empty apiKey is a configuration error.
func NewClient(apiKey string, opts Options) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, config.ErrMissingCredential
	}

	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if err := httputil.ValidateURL(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid TMDB base URL: %w", err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = httputil.NewClient(opts.Timeout)
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 10
	}
	if opts.ListTTL <= 0 {
		opts.ListTTL = 5 * time.Minute
	}
	if opts.DetailCacheSize <= 0 {
		opts.DetailCacheSize = 256
	}

	details, err := lru.New[int, *media.MovieDetail](opts.DetailCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating detail cache: %w", err)
	}

	c := &Client{
		apiKey:   apiKey,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		language: opts.Language,
		client:   opts.HTTPClient,
		timeout:  opts.Timeout,
		log:      opts.Logger.With().Str("component", "tmdb").Logger(),
		limiter:  rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), int(opts.RequestsPerSecond)+1),
		lists:    cache.New(opts.ListTTL, 2*opts.ListTTL),
		details:  details,
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "tmdb-api",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})

	return c, nil
}

// countsAsSuccess keeps caller cancellations and client errors (bad id, bad
// query) from tripping the breaker. Auth failures and throttling do count.
func countsAsSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var se *httputil.StatusError
	if errors.As(err, &se) {
		return se.Code >= 400 && se.Code < 500 &&
			se.Code != http.StatusUnauthorized && se.Code != http.StatusTooManyRequests
	}
	return false
}

// Movies returns a discover or search listing.
func (c *Client) Movies(ctx context.Context, mode media.QueryMode, query string) ([]media.MovieSummary, error) {
	query = strings.TrimSpace(query)

	params := url.Values{}
	var endpoint string
	switch mode {
	case media.Discover:
		endpoint = "discover/movie"
		params.Set("sort_by", "popularity.desc")
		query = ""
	case media.Search:
		if query == "" {
			return nil, fmt.Errorf("search query cannot be empty")
		}
		endpoint = "search/movie"
		params.Set("query", query)
	default:
		return nil, fmt.Errorf("unknown query mode %d", mode)
	}
	params.Set("include_adult", "false")

	cacheKey := mode.String() + "\x00" + query
	if v, ok := c.lists.Get(cacheKey); ok {
		return cloneSummaries(v.([]media.MovieSummary)), nil
	}

	body, err := c.fetch(ctx, endpoint, params)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", mode, query, err)
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", mode, err)
	}

	results := toSummaries(resp.Results)
	c.lists.SetDefault(cacheKey, results)
	c.log.Debug().Str("mode", mode.String()).Str("query", query).Int("results", len(results)).Msg("listing fetched")

	return cloneSummaries(results), nil
}

// Movie returns one movie with its videos. Concurrent lookups of the same id
// share a single request. The shared request outlives any one caller, so a
// caller that gives up does not fail the others; each caller still returns
// as soon as its own ctx is done.
func (c *Client) Movie(ctx context.Context, id int) (*media.MovieDetail, error) {
	if err := httputil.ValidateMovieID(id); err != nil {
		return nil, err
	}
	if d, ok := c.details.Get(id); ok {
		return d.Clone(), nil
	}

	ch := c.group.DoChan(strconv.Itoa(id), func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return c.fetchMovie(fctx, id)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("movie %d: %w", id, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("movie %d: %w", id, res.Err)
		}
		return res.Val.(*media.MovieDetail).Clone(), nil
	}
}

func (c *Client) fetchMovie(ctx context.Context, id int) (*media.MovieDetail, error) {
	params := url.Values{}
	params.Set("append_to_response", "videos")

	body, err := c.fetch(ctx, "movie/"+strconv.Itoa(id), params)
	if err != nil {
		return nil, err
	}

	var resp detailResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing movie response: %w", err)
	}
	if resp.ID != id {
		return nil, fmt.Errorf("response id %d does not match requested %d", resp.ID, id)
	}

	d := toDetail(resp)
	c.details.Add(id, d)
	c.log.Debug().Int("id", id).Int("videos", len(d.Videos)).Msg("movie fetched")
	return d, nil
}

// fetch performs one rate-limited, breaker-guarded GET.
func (c *Client) fetch(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	u := c.baseURL + "/" + endpoint + "?" + params.Encode()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return httputil.GetJSON(ctx, c.client, u)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return body, err
}

func cloneSummaries(in []media.MovieSummary) []media.MovieSummary {
	out := make([]media.MovieSummary, len(in))
	copy(out, in)
	return out
}
