package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"trailertech/internal/services"
)

const youtubeWatchURL = "https://www.youtube.com/watch?v="

// Movie represents a resolved TMDB movie entry.
type Movie struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Overview      string  `json:"overview"`
	ReleaseDate   string  `json:"release_date"`
	Popularity    float64 `json:"popularity"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int64   `json:"vote_count"`
}

// searchResponse models the TMDB paginated search payload.
type searchResponse struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// findResponse models the /find payload for external id lookups.
type findResponse struct {
	MovieResults []Movie `json:"movie_results"`
}

// Video is one entry from the TMDB movie videos endpoint.
type Video struct {
	ID       string `json:"id"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Size     int    `json:"size"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

type videosResponse struct {
	ID      int64   `json:"id"`
	Results []Video `json:"results"`
}

// Cache persists successful lookups across runs. Implementations must be
// safe for concurrent use.
type Cache interface {
	Get(bucket, key string) ([]byte, bool)
	Put(bucket, key string, value []byte)
}

const (
	cacheBucketMovies = "movies"
	cacheBucketVideos = "videos"
)

// Client provides access to the TMDB API.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      Cache
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithCache persists lookups through the provided cache.
func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithRateLimit overrides the default request limiter.
func WithRateLimit(limiter *rate.Limiter) Option {
	return func(c *Client) {
		if limiter != nil {
			c.limiter = limiter
		}
	}
}

// New creates a TMDB client.
func New(apiKey, baseURL, lang string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "tmdb", "new client", "api key required", nil)
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "tmdb", "new client", "base url required", nil)
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   strings.TrimSpace(lang),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(250*time.Millisecond), 10),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ResolveMovie finds the movie for whichever identifiers are available,
// trying the numeric TMDB id, then the IMDb id, then a title search narrowed
// by year. An identifier that resolves to nothing falls through to the next;
// transport and configuration failures stop the chain.
func (c *Client) ResolveMovie(ctx context.Context, tmdbID, imdbID, title, year string) (*Movie, error) {
	if id, err := strconv.ParseInt(strings.TrimSpace(tmdbID), 10, 64); err == nil && id > 0 {
		movie, err := c.MovieByID(ctx, id)
		if err == nil {
			return movie, nil
		}
		if !errors.Is(err, services.ErrNotFound) {
			return nil, err
		}
	}
	if strings.TrimSpace(imdbID) != "" {
		movie, err := c.FindByIMDB(ctx, imdbID)
		if err == nil {
			return movie, nil
		}
		if !errors.Is(err, services.ErrNotFound) {
			return nil, err
		}
	}
	if strings.TrimSpace(title) != "" {
		movie, err := c.SearchMovie(ctx, title, year)
		if err == nil {
			return movie, nil
		}
		if !errors.Is(err, services.ErrNotFound) {
			return nil, err
		}
	}
	return nil, services.Wrap(services.ErrNotFound, "tmdb", "resolve movie", "no identifier matched", nil)
}

// MovieByID fetches movie details by TMDB id.
func (c *Client) MovieByID(ctx context.Context, id int64) (*Movie, error) {
	if id <= 0 {
		return nil, services.Wrap(services.ErrValidation, "tmdb", "movie details", "movie id must be positive", nil)
	}
	cacheKey := fmt.Sprintf("id/%d@%s", id, c.language)
	var movie Movie
	if c.cacheGet(cacheBucketMovies, cacheKey, &movie) {
		return &movie, nil
	}
	params := url.Values{}
	if c.language != "" {
		params.Set("language", c.language)
	}
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), params, &movie); err != nil {
		return nil, err
	}
	c.cachePut(cacheBucketMovies, cacheKey, movie)
	return &movie, nil
}

// FindByIMDB resolves an IMDb id to a movie through the find endpoint.
func (c *Client) FindByIMDB(ctx context.Context, imdbID string) (*Movie, error) {
	imdbID = strings.TrimSpace(imdbID)
	if imdbID == "" {
		return nil, services.Wrap(services.ErrValidation, "tmdb", "find", "imdb id required", nil)
	}
	cacheKey := "imdb/" + imdbID + "@" + c.language
	var movie Movie
	if c.cacheGet(cacheBucketMovies, cacheKey, &movie) {
		return &movie, nil
	}
	params := url.Values{}
	params.Set("external_source", "imdb_id")
	if c.language != "" {
		params.Set("language", c.language)
	}
	var payload findResponse
	if err := c.get(ctx, "/find/"+url.PathEscape(imdbID), params, &payload); err != nil {
		return nil, err
	}
	if len(payload.MovieResults) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "tmdb", "find", "no movie for "+imdbID, nil)
	}
	movie = payload.MovieResults[0]
	c.cachePut(cacheBucketMovies, cacheKey, movie)
	return &movie, nil
}

// SearchMovie searches TMDB by title, narrowed by primary release year when
// one is supplied, and returns the first match.
func (c *Client) SearchMovie(ctx context.Context, title, year string) (*Movie, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, services.Wrap(services.ErrValidation, "tmdb", "search", "title required", nil)
	}
	year = strings.TrimSpace(year)
	cacheKey := "search/" + strings.ToLower(title) + "|" + year + "@" + c.language
	var movie Movie
	if c.cacheGet(cacheBucketMovies, cacheKey, &movie) {
		return &movie, nil
	}
	params := url.Values{}
	params.Set("query", title)
	if year != "" {
		params.Set("primary_release_year", year)
	}
	if c.language != "" {
		params.Set("language", c.language)
	}
	var payload searchResponse
	if err := c.get(ctx, "/search/movie", params, &payload); err != nil {
		return nil, err
	}
	if len(payload.Results) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "tmdb", "search", "no results for "+title, nil)
	}
	movie = payload.Results[0]
	c.cachePut(cacheBucketMovies, cacheKey, movie)
	return &movie, nil
}

// TrailerLinks lists YouTube watch links for the movie's trailers. Languages
// are visited in preference order and each contributes its trailers sorted
// by resolution, highest first; keys already seen under an earlier language
// are dropped. Videos below minResolution are ignored.
func (c *Client) TrailerLinks(ctx context.Context, movieID int64, languages []string, minResolution int) ([]string, error) {
	if movieID <= 0 {
		return nil, services.Wrap(services.ErrValidation, "tmdb", "videos", "movie id must be positive", nil)
	}
	if len(languages) == 0 {
		languages = []string{c.language}
	}

	links := make([]string, 0, 4)
	seen := make(map[string]struct{})
	for _, raw := range languages {
		lang, ok := normalizeLanguage(raw)
		if !ok {
			continue
		}
		videos, err := c.videos(ctx, movieID, lang)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				continue
			}
			return nil, err
		}
		for _, video := range filterTrailers(videos, minResolution) {
			if _, dup := seen[video.Key]; dup {
				continue
			}
			seen[video.Key] = struct{}{}
			links = append(links, youtubeWatchURL+video.Key)
		}
	}
	return links, nil
}

func (c *Client) videos(ctx context.Context, movieID int64, lang string) ([]Video, error) {
	cacheKey := fmt.Sprintf("%d@%s", movieID, lang)
	var payload videosResponse
	if c.cacheGet(cacheBucketVideos, cacheKey, &payload) {
		return payload.Results, nil
	}
	params := url.Values{}
	if lang != "" {
		params.Set("language", lang)
	}
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/videos", movieID), params, &payload); err != nil {
		return nil, err
	}
	c.cachePut(cacheBucketVideos, cacheKey, payload)
	return payload.Results, nil
}

func filterTrailers(videos []Video, minResolution int) []Video {
	kept := make([]Video, 0, len(videos))
	for _, video := range videos {
		if !strings.EqualFold(video.Type, "Trailer") || !strings.EqualFold(video.Site, "YouTube") {
			continue
		}
		if video.Key == "" || video.Size < minResolution {
			continue
		}
		kept = append(kept, video)
	}
	slices.SortStableFunc(kept, func(a, b Video) int { return b.Size - a.Size })
	return kept
}

// normalizeLanguage canonicalizes a configured language preference to the
// BCP 47 form the API expects. Unparseable values are skipped.
func normalizeLanguage(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "", false
	}
	return tag.String(), true
}

func (c *Client) get(ctx context.Context, path string, params url.Values, payload any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return services.Wrap(services.ErrTransient, "tmdb", "rate limit", "", err)
	}
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return services.Wrap(services.ErrValidation, "tmdb", "parse url", path, err)
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return services.Wrap(services.ErrValidation, "tmdb", "build request", path, err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return services.Wrap(services.ErrTransient, "tmdb", "execute request", fmt.Sprintf("latency=%v", latency), err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return services.Wrap(services.ErrNotFound, "tmdb", "lookup", path, nil)
	case http.StatusUnauthorized:
		return services.Wrap(services.ErrConfiguration, "tmdb", "authenticate", "tmdb rejected the api key", nil)
	default:
		return services.Wrap(services.ErrTransient, "tmdb", "lookup",
			fmt.Sprintf("%s returned %d (latency=%v)", path, resp.StatusCode, latency), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(payload); err != nil {
		return services.Wrap(services.ErrTransient, "tmdb", "decode response", path, err)
	}
	return nil
}

func (c *Client) cacheGet(bucket, key string, payload any) bool {
	if c.cache == nil {
		return false
	}
	data, ok := c.cache.Get(bucket, key)
	if !ok {
		return false
	}
	return json.Unmarshal(data, payload) == nil
}

func (c *Client) cachePut(bucket, key string, payload any) {
	if c.cache == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	c.cache.Put(bucket, key, data)
}
