package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/contactfinder/contactfinder/internal/model"
)

// DefaultSerpAPIURL is the SerpAPI search endpoint.
const DefaultSerpAPIURL = "https://serpapi.com/search"

// SerpAPI is a web search backend backed by the SerpAPI Google engine.
//
// Design decision: We talk to SerpAPI rather than scraping Google directly
// because scraping is against Google's terms and gets blocked quickly.
// SerpAPI returns structured organic results with stable field names.
type SerpAPI struct {
	// client is the HTTP client used for API calls.
	client *http.Client

	// apiKey authenticates requests to SerpAPI.
	apiKey string

	// baseURL is the search endpoint. Overridable for tests.
	baseURL string

	// engine is the SerpAPI engine parameter.
	engine string
}

// SerpAPIOption configures a SerpAPI backend.
type SerpAPIOption func(*SerpAPI)

// WithSerpAPIHTTPClient sets a custom HTTP client.
func WithSerpAPIHTTPClient(client *http.Client) SerpAPIOption {
	return func(s *SerpAPI) {
		s.client = client
	}
}

// WithSerpAPIBaseURL overrides the search endpoint. Used in tests.
func WithSerpAPIBaseURL(baseURL string) SerpAPIOption {
	return func(s *SerpAPI) {
		s.baseURL = baseURL
	}
}

// WithSerpAPIEngine sets the SerpAPI engine parameter.
// Default is "google".
func WithSerpAPIEngine(engine string) SerpAPIOption {
	return func(s *SerpAPI) {
		s.engine = engine
	}
}

// NewSerpAPI creates a SerpAPI backend.
// Returns ErrMissingAPIKey when the key is empty so callers fail before
// any network call is made.
func NewSerpAPI(apiKey string, opts ...SerpAPIOption) (*SerpAPI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set SERPAPI_API_KEY (get a key at https://serpapi.com)", ErrMissingAPIKey)
	}

	s := &SerpAPI{
		client:  &http.Client{Timeout: 15 * time.Second},
		apiKey:  apiKey,
		baseURL: DefaultSerpAPIURL,
		engine:  "google",
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Name returns the backend name.
func (s *SerpAPI) Name() string {
	return "serpapi"
}

// QueryString returns the web search query string for the given query.
func (s *SerpAPI) QueryString(query Query) string {
	return query.String()
}

// serpAPIResponse is the subset of the SerpAPI response we consume.
type serpAPIResponse struct {
	Error          string `json:"error,omitempty"`
	OrganicResults []struct {
		Link  string `json:"link"`
		Title string `json:"title"`
	} `json:"organic_results"` //nolint:tagliatelle // SerpAPI field name
}

// Search executes the query against SerpAPI and returns organic results.
func (s *SerpAPI) Search(ctx context.Context, query Query) ([]model.SearchResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("engine", s.engine)
	params.Set("q", query.String())
	params.Set("api_key", s.apiKey)
	params.Set("num", strconv.Itoa(query.NumResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}

	var parsed serpAPIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	// SerpAPI reports failures in the response body with HTTP 200 in
	// some cases, so check both.
	if parsed.Error != "" {
		return nil, fmt.Errorf("search backend error: %s", parsed.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search backend returned status %d", resp.StatusCode)
	}

	results := make([]model.SearchResult, 0, len(parsed.OrganicResults))
	for _, r := range parsed.OrganicResults {
		if r.Link == "" {
			continue
		}
		title := r.Title
		if title == "" {
			title = r.Link
		}
		results = append(results, model.SearchResult{
			URL:   r.Link,
			Title: title,
		})
	}

	return results, nil
}

// Ensure SerpAPI implements Backend.
var _ Backend = (*SerpAPI)(nil)
