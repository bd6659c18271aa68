package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values are chosen to stay within typical search API quotas while
// still returning enough sources for useful contact extraction.
const (
	// DefaultBackend is the search backend used when none is specified.
	// Web search casts a wider net than code search, so it is the default.
	DefaultBackend = "serpapi"

	// DefaultNumResults is the number of search results to request.
	// Ten results is the common first page of a web search and keeps
	// each scan within free-tier API quotas.
	DefaultNumResults = 10

	// MinNumResults is the lowest accepted result count. Fewer than five
	// sources rarely yields any contact values.
	MinNumResults = 5

	// MaxNumResults is the highest accepted result count. Search APIs cap
	// a single request at around this many organic results anyway.
	MaxNumResults = 50

	// DefaultSearchTimeout bounds the search API call.
	DefaultSearchTimeout = 15 * time.Second

	// DefaultFetchTimeout bounds each result page download. Result pages
	// are ordinary websites, so a short timeout is enough; slow hosts are
	// skipped rather than waited on.
	DefaultFetchTimeout = 10 * time.Second

	// DefaultFetchDelay is the delay between page fetches.
	// This is a politeness setting to avoid hammering result sites.
	// 1 second is conservative and respectful of server resources.
	// Can be adjusted via the --delay CLI flag.
	DefaultFetchDelay = 1 * time.Second

	// DefaultBatchSize is the number of concurrent scans when processing
	// multiple people. Kept low because every scan hits the same search
	// API key and quota.
	DefaultBatchSize = 3

	// AppName is the application name used for XDG directory paths.
	AppName = "contactfinder"

	// DefaultUserAgent identifies ContactFinder in HTTP requests.
	// Using a descriptive User-Agent is good practice and allows operators
	// to identify the traffic in their logs.
	DefaultUserAgent = "ContactFinder/1.0 (+https://github.com/contactfinder/contactfinder)"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 5MB is sufficient for most HTML pages while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultCSVFile is the CSV export file name.
	DefaultCSVFile = "internet_contacts.csv"

	// DefaultServerAddr is the address the web interface listens on.
	DefaultServerAddr = ":8317"
)

// Environment variable names for backend credentials.
// Credentials are read from the environment (or a .env file) rather than
// the config file so they never end up committed alongside settings.
const (
	// EnvSerpAPIKey holds the SerpAPI key.
	EnvSerpAPIKey = "SERPAPI_API_KEY"

	// EnvGitHubToken holds the GitHub personal access token.
	EnvGitHubToken = "GITHUB_TOKEN"
)

// Config holds all configuration options for ContactFinder.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., SearchConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Persons is the list of full names to scan.
	// Must contain at least one name.
	Persons []string

	// Company is an optional company qualifier added to every query.
	Company string

	// Backend selects the search backend: "serpapi" or "github".
	Backend string

	// NumResults is the number of search results to request per scan.
	// Must be between MinNumResults and MaxNumResults.
	NumResults int

	// RestrictUK restricts web search queries to UK sites.
	RestrictUK bool

	// SearchTimeout bounds the search API call.
	SearchTimeout time.Duration

	// FetchTimeout bounds each result page download.
	FetchTimeout time.Duration

	// FetchDelay is the delay between page fetches.
	// This is a politeness setting; lower values risk rate limiting.
	FetchDelay time.Duration

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated to prevent memory exhaustion.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of concurrent scans when processing
	// multiple people.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .contactfinder in the current
	// directory and then in the user's home directory.
	ConfigFilePath string

	// FileConfig holds settings loaded from the config file.
	// This is populated by LoadConfigFile and merged with flags.
	FileConfig *File

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// CSVFile is the CSV export path. When set, extracted contacts are
	// also written as CSV rows alongside the main report.
	CSVFile string

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// DBDir is the directory path for storing the SQLite database.
	// When set, scan results are saved for later history lookups.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether to save scan results to the database.
	// This is automatically set to true when DBDir is configured.
	SaveToDB bool

	// ServerAddr is the listen address for the web interface.
	ServerAddr string
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeouts, result
// counts). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Backend:       DefaultBackend,
		NumResults:    DefaultNumResults,
		SearchTimeout: DefaultSearchTimeout,
		FetchTimeout:  DefaultFetchTimeout,
		FetchDelay:    DefaultFetchDelay,
		UserAgent:     DefaultUserAgent,
		MaxBodySize:   DefaultMaxBodySize,
		BatchSize:     DefaultBatchSize,
		ServerAddr:    DefaultServerAddr,
	}
}

// XDGDataDir returns the XDG data directory for ContactFinder.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/contactfinder
// On macOS: ~/Library/Application Support/contactfinder
// On Windows: %LOCALAPPDATA%\contactfinder
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for ContactFinder.
// On Linux: ~/.config/contactfinder
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for ContactFinder.
// On Linux: ~/.cache/contactfinder
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any scanning begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We must have at least one person to scan
	if len(c.Persons) == 0 {
		return ErrNoPerson
	}

	// Backend must be one we know how to construct
	if c.Backend != "serpapi" && c.Backend != "github" {
		return ErrUnknownBackend
	}

	// Result count must stay within the accepted range
	if c.NumResults < MinNumResults || c.NumResults > MaxNumResults {
		return ErrInvalidNumResults
	}

	// Timeouts must be positive; zero would cause immediate failures
	if c.SearchTimeout <= 0 || c.FetchTimeout <= 0 {
		return ErrInvalidTimeout
	}

	// BatchSize must be positive; zero would mean no scanning
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	// FetchDelay must be non-negative
	if c.FetchDelay < 0 {
		return ErrInvalidFetchDelay
	}

	// MaxBodySize must be non-negative
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}
