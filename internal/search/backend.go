package search

import (
	"context"
	"errors"

	"github.com/contactfinder/contactfinder/internal/model"
)

// Search backend errors.
var (
	// ErrMissingAPIKey is returned when a backend is constructed without
	// the credential it needs. The scan halts before any network call.
	ErrMissingAPIKey = errors.New("search backend API key is missing")

	// ErrEmptyQuery is returned when the query has no person name.
	ErrEmptyQuery = errors.New("search query requires a person name")
)

// Backend defines the interface for search backends.
// Each backend turns a Query into a ranked list of sources to fetch.
//
// Design decision: We use an interface rather than a concrete type because:
//  1. Web search and code search have very different implementations
//  2. Allows for easy mocking in tests
//  3. Pipeline can treat all backends uniformly
type Backend interface {
	// Name returns the backend name (e.g., "serpapi", "github").
	Name() string

	// Search executes the query and returns ranked results.
	// Implementations must respect context cancellation.
	Search(ctx context.Context, query Query) ([]model.SearchResult, error)

	// QueryString returns the exact query string this backend sends for
	// the given query, for display and record keeping.
	QueryString(query Query) string
}

// Retriever is implemented by backends that retrieve source content
// through their own API instead of plain HTTP page fetches.
// The fetch step uses it when available.
type Retriever interface {
	// Retrieve fetches the content behind a search result and returns
	// it as a page ready for extraction.
	Retrieve(ctx context.Context, result model.SearchResult) (*model.Page, error)
}
