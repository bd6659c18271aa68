package search

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v74/github"
	"golang.org/x/oauth2"

	"github.com/contactfinder/contactfinder/internal/model"
)

// GitHub is a code search backend backed by the GitHub API.
// It searches file contents for the person's name and retrieves matching
// files through the contents API, so extraction runs over the real file
// text rather than a rendered HTML page.
type GitHub struct {
	// client is the GitHub API client.
	client *github.Client

	// timeout bounds each API call made by the default client.
	timeout time.Duration
}

// GitHubOption configures a GitHub backend.
type GitHubOption func(*GitHub)

// WithGitHubClient replaces the API client. Used in tests with a client
// pointed at a local httptest server.
func WithGitHubClient(client *github.Client) GitHubOption {
	return func(g *GitHub) {
		g.client = client
	}
}

// WithGitHubTimeout sets the HTTP timeout for the default API client.
// It has no effect when WithGitHubClient replaces the client.
func WithGitHubTimeout(timeout time.Duration) GitHubOption {
	return func(g *GitHub) {
		g.timeout = timeout
	}
}

// NewGitHub creates a GitHub backend authenticated with the given token.
// Returns ErrMissingAPIKey when the token is empty: unauthenticated code
// search is so heavily rate limited that it is not usable.
func NewGitHub(token string, opts ...GitHubOption) (*GitHub, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: set GITHUB_TOKEN (create one at https://github.com/settings/tokens)", ErrMissingAPIKey)
	}

	g := &GitHub{}
	for _, opt := range opts {
		opt(g)
	}

	if g.client == nil {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		tc := oauth2.NewClient(context.Background(), ts)
		if g.timeout > 0 {
			tc.Timeout = g.timeout
		}
		g.client = github.NewClient(tc)
	}

	return g, nil
}

// Name returns the backend name.
func (g *GitHub) Name() string {
	return "github"
}

// QueryString returns the code search query string for the given query.
func (g *GitHub) QueryString(query Query) string {
	return query.CodeString()
}

// Search executes a code search and returns matching files as results.
func (g *GitHub) Search(ctx context.Context, query Query) ([]model.SearchResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	opts := &github.SearchOptions{
		ListOptions: github.ListOptions{PerPage: query.NumResults},
	}

	res, resp, err := g.client.Search.Code(ctx, query.CodeString(), opts)
	if err != nil {
		return nil, fmt.Errorf("code search failed: %w", err)
	}
	if resp != nil && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("code search returned status %d", resp.StatusCode)
	}

	results := make([]model.SearchResult, 0, len(res.CodeResults))
	for _, cr := range res.CodeResults {
		repo := cr.GetRepository()
		if repo == nil || cr.GetHTMLURL() == "" {
			continue
		}
		results = append(results, model.SearchResult{
			URL:   cr.GetHTMLURL(),
			Title: cr.GetPath(),
			Repo:  repo.GetFullName(),
			Path:  cr.GetPath(),
		})
		if len(results) >= query.NumResults && query.NumResults > 0 {
			break
		}
	}

	return results, nil
}

// Retrieve fetches the file behind a code search result through the
// contents API and returns it as a page ready for extraction.
func (g *GitHub) Retrieve(ctx context.Context, result model.SearchResult) (*model.Page, error) {
	owner, name, ok := splitRepo(result.Repo)
	if !ok {
		return nil, fmt.Errorf("invalid repository identifier %q", result.Repo)
	}

	fileContent, _, _, err := g.client.Repositories.GetContents(ctx, owner, name, result.Path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve %s/%s: %w", result.Repo, result.Path, err)
	}
	if fileContent == nil {
		return nil, fmt.Errorf("%s/%s is not a file", result.Repo, result.Path)
	}

	content, err := fileContent.GetContent()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s/%s: %w", result.Repo, result.Path, err)
	}

	page := &model.Page{
		URL:         result.URL,
		Repo:        result.Repo,
		Title:       result.Title,
		StatusCode:  http.StatusOK,
		ContentType: "text/plain",
		Snapshot:    content,
	}
	page.ComputeHash([]byte(content))
	page.TruncateSnapshot()

	return page, nil
}

// splitRepo splits an "owner/name" repository identifier.
func splitRepo(fullName string) (owner, name string, ok bool) {
	owner, name, found := strings.Cut(fullName, "/")
	return owner, name, found && owner != "" && name != ""
}

// Ensure GitHub implements Backend and Retriever.
var (
	_ Backend   = (*GitHub)(nil)
	_ Retriever = (*GitHub)(nil)
)
