package model

import (
	"sort"
	"time"
)

// Summary is a summarized, human-readable view of a scan.
// It extracts the unique contact values from the full report for quick review.
//
// Design decision: We create a separate summary rather than just printing
// parts of ScanReport because:
// 1. It provides a consistent, curated view of the findings
// 2. It can be serialized to JSON for tools that want structured but simple output
// 3. It separates presentation concerns from data collection
type Summary struct {
	// Person is the full name that was searched for.
	Person string `json:"person"`

	// Company is the optional company qualifier.
	Company string `json:"company,omitempty"`

	// Backend is the name of the search backend used.
	Backend string `json:"backend"`

	// Query is the full query string sent to the backend.
	Query string `json:"query"`

	// DateScanned is when the scan was performed.
	DateScanned time.Time `json:"date_scanned"`

	// Emails lists unique extracted email addresses, sorted.
	Emails []string `json:"emails,omitempty"`

	// Phones lists unique normalized UK mobile numbers, sorted.
	Phones []string `json:"phones,omitempty"`

	// ResultCount is the number of search results returned.
	ResultCount int `json:"result_count"`

	// FetchedCount is the number of sources successfully fetched.
	FetchedCount int `json:"fetched_count"`

	// FailedCount is the number of sources that failed to fetch or parse.
	FailedCount int `json:"failed_count"`

	// ContactCount is the number of contact records extracted.
	ContactCount int `json:"contact_count"`

	// Cancelled indicates the scan was interrupted before completion.
	Cancelled bool `json:"cancelled,omitempty"`

	// Error contains the fatal error message if the scan failed.
	Error string `json:"error,omitempty"`
}

// NewSummary creates a Summary from a ScanReport.
func NewSummary(report *ScanReport) *Summary {
	s := &Summary{
		Person:       report.Person,
		Company:      report.Company,
		Backend:      report.Backend,
		Query:        report.Query,
		DateScanned:  report.DateScanned,
		ResultCount:  len(report.Results),
		FetchedCount: len(report.Pages),
		FailedCount:  len(report.SourceErrors),
		ContactCount: len(report.Contacts),
		Cancelled:    report.Cancelled,
		Error:        report.ErrorMessage,
	}

	emails := make(map[string]bool)
	phones := make(map[string]bool)
	for _, c := range report.Contacts {
		if c.Email != "" {
			emails[c.Email] = true
		}
		if c.Phone != "" {
			phones[c.Phone] = true
		}
	}

	s.Emails = sortedKeys(emails)
	s.Phones = sortedKeys(phones)
	return s
}

// HasContacts reports whether the scan found any contact values.
func (s *Summary) HasContacts() bool {
	return len(s.Emails) > 0 || len(s.Phones) > 0
}

// sortedKeys returns the keys of a set in sorted order.
func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
