package model

import (
	"time"

	"github.com/google/uuid"
)

// SearchResult is a single ranked result returned by a search backend.
type SearchResult struct {
	// URL is the result link to fetch.
	URL string `json:"url"`

	// Title is the display title of the result.
	Title string `json:"title,omitempty"`

	// Repo is the repository identifier ("owner/name") for results from
	// the code-hosting backend. Empty for web search results.
	Repo string `json:"repo,omitempty"`

	// Path is the file path within the repository for code results.
	// Used to retrieve file contents through the code-hosting API.
	Path string `json:"path,omitempty"`
}

// SourceError records a per-source failure during a scan.
// Failed sources are skipped and the scan continues; the error is kept
// so reports can show which sources produced no content.
type SourceError struct {
	// Source is the URL that failed.
	Source string `json:"source"`

	// Message is the error description.
	Message string `json:"message"`
}

// ScanReport is the main scan result structure.
// It accumulates data as the pipeline steps run: search results first,
// then fetched pages, then extracted contacts.
//
// Design decision: We use a single accumulating struct rather than passing
// intermediate values between steps because it simplifies serialization,
// database storage, and partial-result reporting on cancellation.
type ScanReport struct {
	// ID uniquely identifies this scan.
	ID string `json:"id"`

	// Person is the full name that was searched for.
	Person string `json:"person"`

	// Company is the optional company qualifier.
	Company string `json:"company,omitempty"`

	// Backend is the name of the search backend used.
	Backend string `json:"backend"`

	// Query is the full query string sent to the backend.
	Query string `json:"query"`

	// DateScanned is the timestamp when the scan was performed.
	DateScanned time.Time `json:"date_scanned"`

	// Results are the ranked search results returned by the backend.
	Results []SearchResult `json:"results,omitempty"`

	// Pages are the successfully fetched source pages.
	Pages []*Page `json:"pages,omitempty"`

	// Contacts are the extracted contact records, deduplicated.
	Contacts []Contact `json:"contacts,omitempty"`

	// SourceErrors lists sources that could not be fetched or parsed.
	SourceErrors []SourceError `json:"source_errors,omitempty"`

	// PerformedSteps tracks which pipeline steps ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Cancelled indicates the scan was interrupted before completion.
	Cancelled bool `json:"cancelled,omitempty"`

	// Error holds the fatal scan error, if any.
	// Per-source failures go to SourceErrors instead.
	Error error `json:"-"`

	// ErrorMessage is the string form of Error for serialization.
	ErrorMessage string `json:"error,omitempty"`

	// Summary is the summarized view generated after the scan.
	Summary *Summary `json:"summary,omitempty"`

	// seen tracks contact keys for deduplication.
	seen map[string]bool
}

// NewScanReport creates a ScanReport for the given person and company.
func NewScanReport(person, company string) *ScanReport {
	return &ScanReport{
		ID:          uuid.NewString(),
		Person:      person,
		Company:     company,
		DateScanned: time.Now().UTC(),
		seen:        make(map[string]bool),
	}
}

// AddContact appends a contact record, dropping duplicates.
// Returns true if the record was added.
func (r *ScanReport) AddContact(c Contact) bool {
	if r.seen == nil {
		r.seen = make(map[string]bool)
		for _, existing := range r.Contacts {
			r.seen[existing.Key()] = true
		}
	}
	key := c.Key()
	if r.seen[key] {
		return false
	}
	r.seen[key] = true
	r.Contacts = append(r.Contacts, c)
	return true
}

// AddSourceError records a per-source failure.
func (r *ScanReport) AddSourceError(source string, err error) {
	if err == nil {
		return
	}
	r.SourceErrors = append(r.SourceErrors, SourceError{
		Source:  source,
		Message: err.Error(),
	})
}
