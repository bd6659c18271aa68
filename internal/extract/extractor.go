package extract

import (
	"context"

	"github.com/contactfinder/contactfinder/internal/model"
)

// Extractor defines the interface for individual contact extractors.
// Each extractor focuses on one kind of contact value.
//
// Design decision: We use an interface rather than concrete types because:
//  1. Allows for easy extension with new extractors
//  2. Enables testing with mock extractors
//  3. Keeps regex and normalization rules encapsulated per value type
type Extractor interface {
	// Name returns the extractor's name for logging and reporting.
	Name() string

	// Extract scans the given pages and returns contact records.
	// Implementations must deduplicate their own results.
	Extract(ctx context.Context, pages []*model.Page) ([]model.Contact, error)
}

// Runner coordinates running multiple extractors over a page set.
// It aggregates records from all extractors into one slice.
type Runner struct {
	// extractors is the list of registered extractors to run.
	extractors []Extractor
}

// NewRunner creates a Runner with all built-in extractors registered.
func NewRunner() *Runner {
	r := &Runner{
		extractors: make([]Extractor, 0),
	}

	r.Register(NewEmailExtractor())
	r.Register(NewPhoneExtractor())

	return r
}

// Register adds an extractor to the list.
func (r *Runner) Register(e Extractor) {
	r.extractors = append(r.extractors, e)
}

// Extractors returns the names of the registered extractors.
func (r *Runner) Extractors() []string {
	names := make([]string, len(r.extractors))
	for i, e := range r.extractors {
		names[i] = e.Name()
	}
	return names
}

// Extract runs all registered extractors and aggregates their records.
// A failing extractor is skipped so the others still contribute; the
// first error encountered is returned alongside the collected records.
func (r *Runner) Extract(ctx context.Context, pages []*model.Page) ([]model.Contact, error) {
	var all []model.Contact
	var firstErr error

	for _, e := range r.extractors {
		select {
		case <-ctx.Done():
			return all, ctx.Err()
		default:
		}

		contacts, err := e.Extract(ctx, pages)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		all = append(all, contacts...)
	}

	return all, firstErr
}
