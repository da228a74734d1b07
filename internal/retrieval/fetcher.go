package retrieval

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/nwalden/farescout/internal/flights"
)

// Error reports a failed fetch. Status is zero for transport-level failures
// such as timeouts.
type Error struct {
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("retrieval returned status %d", e.Status)
	}
	return fmt.Sprintf("retrieval failed: %v", e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Proxy-backed fetches route through a rendering farm and are inherently
// slower than direct ones.
const (
	proxyTimeout  = 30 * time.Second
	directTimeout = 25 * time.Second

	defaultProxyEndpoint = "https://api.scraperapi.com/"
	defaultSearchBase    = "https://www.google.com/travel/flights"
)

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// Fetcher retrieves raw search-result markup for a query: through a
// residential proxy service when a key is configured, directly otherwise.
// It performs no retries — retry policy belongs to the caller.
type Fetcher struct {
	proxyKey      string
	proxyEndpoint string
	searchBase    string
	proxyClient   *http.Client
	directClient  *http.Client
	limiter       *rate.Limiter
	log           *slog.Logger
}

// NewFetcher constructs a Fetcher against the production endpoints. An empty
// proxyKey selects direct mode; that is a valid deployment configuration,
// not an error.
func NewFetcher(proxyKey string, log *slog.Logger) *Fetcher {
	return NewFetcherWithURLs(proxyKey, defaultProxyEndpoint, defaultSearchBase, log)
}

// NewFetcherWithURLs constructs a Fetcher pointing at custom endpoints
// (used in tests).
func NewFetcherWithURLs(proxyKey, proxyEndpoint, searchBase string, log *slog.Logger) *Fetcher {
	return &Fetcher{
		proxyKey:      proxyKey,
		proxyEndpoint: proxyEndpoint,
		searchBase:    searchBase,
		proxyClient:   &http.Client{Timeout: proxyTimeout},
		directClient:  &http.Client{Timeout: directTimeout},
		limiter:       rate.NewLimiter(rate.Limit(2), 4),
		log:           log,
	}
}

// Source reports the source tag fetches from this Fetcher carry.
func (f *Fetcher) Source() string {
	if f.proxyKey != "" {
		return flights.SourceProxy
	}
	return flights.SourceDirect
}

// SearchPhrase builds the natural-language query string sent to the search
// surface.
func SearchPhrase(q flights.SearchQuery) string {
	phrase := fmt.Sprintf("flights from %s to %s on %s", q.Origin, q.Destination, displayDate(q.DepartDate))
	if q.RoundTrip() {
		phrase += " return " + displayDate(q.ReturnDate)
	}
	return phrase
}

func displayDate(iso string) string {
	d, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return d.Format("Mon 2 Jan 2006")
}

// TargetURL is the search-surface URL fetched for q.
func (f *Fetcher) TargetURL(q flights.SearchQuery) string {
	return f.searchBase + "?q=" + url.QueryEscape(SearchPhrase(q))
}

// Fetch retrieves the raw result body for q, honoring the outbound rate
// limit and the mode-specific timeout.
func (f *Fetcher) Fetch(ctx context.Context, q flights.SearchQuery) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", &Error{Err: err}
	}
	if f.proxyKey != "" {
		return f.fetchProxy(ctx, q)
	}
	return f.fetchDirect(ctx, q)
}

func (f *Fetcher) fetchProxy(ctx context.Context, q flights.SearchQuery) (string, error) {
	params := url.Values{
		"api_key":      {f.proxyKey},
		"url":          {f.TargetURL(q)},
		"country_code": {"us"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.proxyEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", &Error{Err: err}
	}
	return f.do(f.proxyClient, req)
}

func (f *Fetcher) fetchDirect(ctx context.Context, q flights.SearchQuery) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.TargetURL(q), nil)
	if err != nil {
		return "", &Error{Err: err}
	}

	req.Header.Set("User-Agent", userAgents[rand.Intn(len(userAgents))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	if q.ClientIP != "" {
		req.Header.Set("X-Forwarded-For", q.ClientIP)
	}

	return f.do(f.directClient, req)
}

// do executes the request and returns the full body. Redirects are followed
// by the underlying client; non-2xx responses fail rather than returning
// partial content silently.
func (f *Fetcher) do(client *http.Client, req *http.Request) (string, error) {
	resp, err := client.Do(req)
	if err != nil {
		return "", &Error{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode > 299 {
		return "", &Error{Status: resp.StatusCode, Err: fmt.Errorf("GET %s", req.URL.Redacted())}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Err: fmt.Errorf("reading body: %w", err)}
	}
	return string(body), nil
}
