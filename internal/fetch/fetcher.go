package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/contactfinder/contactfinder/internal/model"
)

// Fetcher retrieves result pages over HTTP.
// It paces requests with a rate limiter and caps response body sizes.
//
// Design decision: We use golang.org/x/time/rate rather than a fixed
// sleep between requests because the limiter composes with context
// cancellation: a blocked Wait returns as soon as the scan is cancelled.
type Fetcher struct {
	// client is the HTTP client used for page fetches.
	client *http.Client

	// userAgent is the User-Agent header to send with requests.
	// A descriptive User-Agent lets site operators identify the traffic.
	userAgent string

	// maxBodySize limits the response body size to prevent memory
	// exhaustion from unexpectedly large responses.
	maxBodySize int64

	// limiter paces requests. One request per second by default.
	limiter *rate.Limiter
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithTimeout bounds each page download.
// A zero or negative timeout leaves the client's timeout unchanged.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		if timeout > 0 {
			f.client.Timeout = timeout
		}
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = size
	}
}

// WithDelay sets the minimum interval between requests.
// A zero or negative delay disables pacing.
func WithDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.limiter = rate.NewLimiter(rate.Every(d), 1)
		} else {
			f.limiter = rate.NewLimiter(rate.Inf, 1)
		}
	}
}

// NewFetcher creates a Fetcher with sensible defaults.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      &http.Client{Timeout: 10 * time.Second},
		userAgent:   "ContactFinder/1.0 (+https://github.com/contactfinder/contactfinder)",
		maxBodySize: 5 * 1024 * 1024, // 5MB
		limiter:     rate.NewLimiter(rate.Every(time.Second), 1),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch retrieves one search result's page and returns it as a Page
// with a visible-text snapshot. It blocks on the rate limiter first,
// so calling Fetch in a loop yields properly paced requests.
func (f *Fetcher) Fetch(ctx context.Context, result model.SearchResult) (*model.Page, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, result.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	page := &model.Page{
		URL:         result.URL,
		Repo:        result.Repo,
		Title:       result.Title,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}
	page.ComputeHash(body)

	// HTML responses are reduced to their visible text; anything else
	// (plain text, code files) is taken as-is.
	if strings.Contains(page.ContentType, "text/html") {
		title, text, err := ExtractText(strings.NewReader(string(body)))
		if err != nil {
			return nil, fmt.Errorf("failed to parse HTML: %w", err)
		}
		if title != "" {
			page.Title = title
		}
		page.Snapshot = text
	} else {
		page.Snapshot = string(body)
	}
	page.TruncateSnapshot()

	return page, nil
}
