package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/contactfinder/contactfinder/internal/config"
	"github.com/contactfinder/contactfinder/internal/extract"
	"github.com/contactfinder/contactfinder/internal/fetch"
	"github.com/contactfinder/contactfinder/internal/model"
	"github.com/contactfinder/contactfinder/internal/search"
)

// SearchStep queries the configured search backend for the person.
// The resulting links are the sources the fetch step downloads.
//
// Design decision: Search is a separate step because:
// 1. It is the only step that needs backend credentials
// 2. A search failure is fatal while per-source fetch failures are not
// 3. The recorded query string belongs to the search phase
type SearchStep struct {
	// backend executes the actual search.
	backend search.Backend

	// numResults caps how many results are requested.
	numResults int

	// restrictUK appends a UK site restriction to web queries.
	restrictUK bool

	// logger for structured logging.
	logger *slog.Logger
}

// SearchStepOption configures a SearchStep.
type SearchStepOption func(*SearchStep)

// WithSearchNumResults sets the number of results to request.
func WithSearchNumResults(n int) SearchStepOption {
	return func(s *SearchStep) {
		if n > 0 {
			s.numResults = n
		}
	}
}

// WithSearchRestrictUK restricts web queries to UK sites.
func WithSearchRestrictUK(restrict bool) SearchStepOption {
	return func(s *SearchStep) {
		s.restrictUK = restrict
	}
}

// WithSearchLogger sets a custom logger for the search step.
func WithSearchLogger(logger *slog.Logger) SearchStepOption {
	return func(s *SearchStep) {
		s.logger = logger
	}
}

// NewSearchStep creates a new search step backed by the given backend.
func NewSearchStep(backend search.Backend, opts ...SearchStepOption) *SearchStep {
	s := &SearchStep{
		backend:    backend,
		numResults: config.DefaultNumResults,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *SearchStep) Name() string {
	return "search"
}

// Do executes the search step.
// A backend failure is fatal: without results there is nothing to fetch.
func (s *SearchStep) Do(ctx context.Context, report *model.ScanReport) error {
	query := search.Query{
		Name:       report.Person,
		Company:    report.Company,
		NumResults: s.numResults,
		RestrictUK: s.restrictUK,
	}

	report.Backend = s.backend.Name()
	report.Query = s.backend.QueryString(query)

	results, err := s.backend.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search via %s failed: %w", s.backend.Name(), err)
	}

	report.Results = results

	s.logger.Info("search completed",
		"backend", s.backend.Name(),
		"results", len(results),
	)

	return nil
}

// FetchStep downloads the content behind each search result.
// Failures are recorded per source and do not stop the scan.
//
// Design decision: Fetching is separate from searching because the two
// phases degrade differently. One unreachable page should never cost the
// results from the other nine.
type FetchStep struct {
	// fetcher downloads pages over plain HTTP.
	fetcher *fetch.Fetcher

	// retriever, when set, fetches content through the backend's own API
	// instead of HTTP. Used for code search results.
	retriever search.Retriever

	// logger for structured logging.
	logger *slog.Logger
}

// FetchStepOption configures a FetchStep.
type FetchStepOption func(*FetchStep)

// WithFetchRetriever sets an API-based content retriever.
// When set it takes precedence over HTTP fetching for every result.
func WithFetchRetriever(retriever search.Retriever) FetchStepOption {
	return func(s *FetchStep) {
		s.retriever = retriever
	}
}

// WithFetchLogger sets a custom logger for the fetch step.
func WithFetchLogger(logger *slog.Logger) FetchStepOption {
	return func(s *FetchStep) {
		s.logger = logger
	}
}

// NewFetchStep creates a new fetch step using the given fetcher.
func NewFetchStep(fetcher *fetch.Fetcher, opts ...FetchStepOption) *FetchStep {
	s := &FetchStep{
		fetcher: fetcher,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return "fetch"
}

// Do executes the fetch step.
func (s *FetchStep) Do(ctx context.Context, report *model.ScanReport) error {
	if len(report.Results) == 0 {
		s.logger.Debug("skipping fetch, no search results")
		return nil
	}

	for _, result := range report.Results {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		page, err := s.fetch(ctx, result)
		if err != nil {
			s.logger.Warn("fetch failed",
				"url", result.URL,
				"error", err,
			)
			report.AddSourceError(result.URL, err)
			continue
		}

		report.Pages = append(report.Pages, page)
	}

	s.logger.Info("fetch completed",
		"fetched", len(report.Pages),
		"failed", len(report.SourceErrors),
	)

	return nil
}

// fetch retrieves a single result, preferring the backend API when a
// retriever is configured.
func (s *FetchStep) fetch(ctx context.Context, result model.SearchResult) (*model.Page, error) {
	if s.retriever != nil {
		return s.retriever.Retrieve(ctx, result)
	}
	return s.fetcher.Fetch(ctx, result)
}

// ExtractStep scans fetched pages for contact values.
// It runs all registered extractors and merges their records into the
// report with cross-extractor deduplication.
type ExtractStep struct {
	// runner coordinates the individual extractors.
	runner *extract.Runner

	// logger for structured logging.
	logger *slog.Logger
}

// ExtractStepOption configures an ExtractStep.
type ExtractStepOption func(*ExtractStep)

// WithExtractRunner replaces the extractor runner.
func WithExtractRunner(runner *extract.Runner) ExtractStepOption {
	return func(s *ExtractStep) {
		s.runner = runner
	}
}

// WithExtractLogger sets a custom logger for the extract step.
func WithExtractLogger(logger *slog.Logger) ExtractStepOption {
	return func(s *ExtractStep) {
		s.logger = logger
	}
}

// NewExtractStep creates a new extraction step with the built-in
// extractors registered.
func NewExtractStep(opts ...ExtractStepOption) *ExtractStep {
	s := &ExtractStep{
		runner: extract.NewRunner(),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *ExtractStep) Name() string {
	return "extract"
}

// Do executes the extraction step.
func (s *ExtractStep) Do(ctx context.Context, report *model.ScanReport) error {
	if len(report.Pages) == 0 {
		s.logger.Debug("skipping extraction, no pages fetched")
		return nil
	}

	contacts, err := s.runner.Extract(ctx, report.Pages)
	if err != nil {
		// Non-fatal: keep whatever the remaining extractors produced.
		s.logger.Warn("extraction completed with error", "error", err)
	}

	added := 0
	for _, c := range contacts {
		if report.AddContact(c) {
			added++
		}
	}

	report.Summary = model.NewSummary(report)

	s.logger.Info("extraction completed",
		"contacts", added,
		"duplicates", len(contacts)-added,
	)

	return nil
}

// DefaultPipelineConfig holds configuration for the default pipeline.
type DefaultPipelineConfig struct {
	// NumResults is the number of search results to request.
	NumResults int

	// RestrictUK restricts web queries to UK sites.
	RestrictUK bool

	// FetchDelay is the delay between HTTP requests when fetching.
	// This is a politeness setting to avoid hammering result sites.
	FetchDelay time.Duration

	// FetchTimeout bounds each page download.
	FetchTimeout time.Duration

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineNumResults sets the number of search results to request.
func WithPipelineNumResults(n int) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.NumResults = n
	}
}

// WithPipelineRestrictUK restricts web queries to UK sites.
func WithPipelineRestrictUK(restrict bool) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.RestrictUK = restrict
	}
}

// WithPipelineFetchDelay sets the delay between HTTP requests.
// A minimum of 500ms is recommended; 1s is the default.
func WithPipelineFetchDelay(delay time.Duration) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.FetchDelay = delay
	}
}

// WithPipelineFetchTimeout bounds each page download.
func WithPipelineFetchTimeout(timeout time.Duration) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.FetchTimeout = timeout
	}
}

// WithPipelineUserAgent sets the User-Agent header for HTTP requests.
func WithPipelineUserAgent(userAgent string) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.UserAgent = userAgent
	}
}

// WithPipelineMaxBodySize sets the maximum response body size in bytes.
func WithPipelineMaxBodySize(maxBodySize int64) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.MaxBodySize = maxBodySize
	}
}

// DefaultPipeline creates a pipeline with the standard steps configured:
// search, fetch, extract.
//
// Design decision: We provide a default pipeline because:
// 1. Most scans want all three phases
// 2. Reduces boilerplate in the CLI and server
// 3. Ensures consistent ordering
//
// If the backend retrieves content through its own API (code search),
// the fetch step uses that instead of HTTP.
//
// The first variadic parameter accepts pipeline options (WithLogger, etc).
// The second accepts pipeline config options (WithPipelineNumResults, etc).
func DefaultPipeline(backend search.Backend, pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{
		NumResults:   config.DefaultNumResults,
		FetchDelay:   config.DefaultFetchDelay,
		FetchTimeout: config.DefaultFetchTimeout,
		UserAgent:    config.DefaultUserAgent,
		MaxBodySize:  config.DefaultMaxBodySize,
	}
	for _, opt := range configOpts {
		opt(cfg)
	}

	fetcher := fetch.NewFetcher(
		fetch.WithDelay(cfg.FetchDelay),
		fetch.WithTimeout(cfg.FetchTimeout),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
	)

	fetchOpts := []FetchStepOption{}
	if retriever, ok := backend.(search.Retriever); ok {
		fetchOpts = append(fetchOpts, WithFetchRetriever(retriever))
	}

	p.AddSteps(
		NewSearchStep(backend,
			WithSearchNumResults(cfg.NumResults),
			WithSearchRestrictUK(cfg.RestrictUK),
		),
		NewFetchStep(fetcher, fetchOpts...),
		NewExtractStep(),
	)

	return p
}
