package apple

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"trailertech/internal/services"
)

// UserAgent is sent with every Apple request. The trailer CDN rejects
// generic clients, so both the scraper and the downloader present QuickTime.
const UserAgent = "QuickTime/7.6.2 (qtver=7.6.2;os=Windows NT 6.1Service Pack 1)"

const defaultBaseURL = "https://trailers.apple.com"

// assetPattern matches the resolution token of a direct trailer asset link.
var assetPattern = regexp.MustCompile(`_h(480|720|1080)p\.mov$`)

// resolutionLadder lists the asset resolutions Apple publishes, best first.
var resolutionLadder = []int{1080, 720, 480}

// quickFindResponse models the quick-find search payload.
type quickFindResponse struct {
	Error   bool              `json:"error"`
	Results []quickFindResult `json:"results"`
}

type quickFindResult struct {
	Title       string `json:"title"`
	Location    string `json:"location"`
	ReleaseDate string `json:"releasedate"`
	Studio      string `json:"studio"`
}

// Client scrapes the Apple Trailers site.
type Client struct {
	baseURL       string
	minResolution int
	httpClient    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the Apple Trailers origin.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
			c.baseURL = strings.TrimRight(trimmed, "/")
		}
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates an Apple Trailers client that only emits asset links at or
// above minResolution.
func New(minResolution int, opts ...Option) *Client {
	client := &Client{
		baseURL:       defaultBaseURL,
		minResolution: minResolution,
		httpClient:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// TrailerLinks searches for the movie and returns direct asset links for its
// trailers. Both title and year are required for a confident match; when
// either is missing the result is empty, not an error. A movie that exists
// but has no scrapeable playlist also yields an empty list.
func (c *Client) TrailerLinks(ctx context.Context, title, year string) ([]string, error) {
	title = strings.TrimSpace(title)
	year = strings.TrimSpace(year)
	if title == "" || year == "" {
		return nil, nil
	}

	location, err := c.search(ctx, title, year)
	if err != nil {
		return nil, err
	}
	if location == "" {
		return nil, nil
	}
	return c.scrapePlaylist(ctx, location)
}

// search runs the quick-find query and returns the site location of the
// first result whose title and release year both match.
func (c *Client) search(ctx context.Context, title, year string) (string, error) {
	endpoint := c.baseURL + "/trailers/home/scripts/quickfind.php?q=" + url.QueryEscape(title)
	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", services.Wrap(services.ErrTransient, "apple", "search",
			fmt.Sprintf("quickfind returned %d", resp.StatusCode), nil)
	}

	var payload quickFindResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", services.Wrap(services.ErrTransient, "apple", "search", "decode quickfind response", err)
	}
	if payload.Error {
		return "", nil
	}

	want := normalizeTitle(title)
	for _, result := range payload.Results {
		if normalizeTitle(result.Title) != want {
			continue
		}
		if !strings.Contains(result.ReleaseDate, year) {
			continue
		}
		return result.Location, nil
	}
	return "", nil
}

// scrapePlaylist pulls the movie's playlist include and expands every .mov
// asset link into resolution variants.
func (c *Client) scrapePlaylist(ctx context.Context, location string) ([]string, error) {
	endpoint := c.baseURL + "/" + strings.Trim(location, "/") + "/includes/playlists/web.inc"
	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrTransient, "apple", "scrape playlist",
			fmt.Sprintf("%s returned %d", endpoint, resp.StatusCode), nil)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "apple", "scrape playlist", "parse html", err)
	}

	links := make([]string, 0, 4)
	seen := make(map[string]struct{})
	doc.Find("a.movieLink").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		for _, variant := range c.variants(strings.TrimSpace(href)) {
			if _, dup := seen[variant]; dup {
				continue
			}
			seen[variant] = struct{}{}
			links = append(links, variant)
		}
	})
	return links, nil
}

// variants rewrites one asset link into every acceptable resolution,
// highest first. Links without a recognizable resolution token are dropped.
func (c *Client) variants(href string) []string {
	if !assetPattern.MatchString(href) {
		return nil
	}
	out := make([]string, 0, len(resolutionLadder))
	for _, res := range resolutionLadder {
		if res < c.minResolution {
			continue
		}
		out = append(out, assetPattern.ReplaceAllString(href, fmt.Sprintf("_h%dp.mov", res)))
	}
	return out
}

func (c *Client) get(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "apple", "build request", endpoint, err)
	}
	req.Header.Set("User-Agent", UserAgent)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "apple", "execute request", endpoint, err)
	}
	return resp, nil
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(title), " "))
}
