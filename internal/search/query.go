package search

import "strings"

// Query describes one contact-discovery search.
type Query struct {
	// Name is the person's full name. Required.
	Name string

	// Company is an optional company qualifier.
	Company string

	// NumResults is the number of results to request from the backend.
	NumResults int

	// RestrictUK limits web search to .uk sites.
	RestrictUK bool
}

// Validate checks that the query can be executed.
func (q Query) Validate() error {
	if strings.TrimSpace(q.Name) == "" {
		return ErrEmptyQuery
	}
	return nil
}

// String builds the web search query string.
// The name and company are quoted for exact matching, and the contact
// keywords broaden the results toward pages that list contact details.
func (q Query) String() string {
	var sb strings.Builder

	sb.WriteString(`"` + strings.TrimSpace(q.Name) + `"`)
	if company := strings.TrimSpace(q.Company); company != "" {
		sb.WriteString(` "` + company + `"`)
	}
	sb.WriteString(" contact OR email OR phone")
	if q.RestrictUK {
		sb.WriteString(" site:*.uk")
	}

	return sb.String()
}

// CodeString builds the code search query string.
// Code search has no use for the contact keywords or site restriction;
// the quoted name (and company, if any) is matched in file contents.
func (q Query) CodeString() string {
	var sb strings.Builder

	sb.WriteString(`"` + strings.TrimSpace(q.Name) + `"`)
	if company := strings.TrimSpace(q.Company); company != "" {
		sb.WriteString(` "` + company + `"`)
	}
	sb.WriteString(" in:file")

	return sb.String()
}
