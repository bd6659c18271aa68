package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/contactfinder/contactfinder/internal/model"
)

// EmailExtractor detects email addresses in page content.
//
// Design decision: We implement a separate extractor for emails rather
// than combining it with phone detection because:
//  1. Email detection has its own regex and case rules
//  2. Emails need no normalization beyond lowercasing
//  3. Deduplication is per value type
type EmailExtractor struct {
	// emailRegex matches email addresses in text.
	emailRegex *regexp.Regexp
}

// NewEmailExtractor creates a new EmailExtractor.
func NewEmailExtractor() *EmailExtractor {
	return &EmailExtractor{
		// Standard email regex that catches most valid addresses
		emailRegex: regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`),
	}
}

// Name returns the extractor name.
func (e *EmailExtractor) Name() string {
	return "email"
}

// Extract searches for email addresses in all pages.
// Addresses are lowercased and deduplicated per source page, so the same
// address on two different pages yields two records while repeats within
// one page yield one.
func (e *EmailExtractor) Extract(ctx context.Context, pages []*model.Page) ([]model.Contact, error) {
	contacts := make([]model.Contact, 0)
	seen := make(map[string]bool)

	for _, page := range pages {
		select {
		case <-ctx.Done():
			return contacts, ctx.Err()
		default:
		}

		emails := e.emailRegex.FindAllString(page.Snapshot, -1)
		for _, email := range emails {
			email = strings.ToLower(email)

			key := page.URL + "|" + email
			if seen[key] {
				continue
			}
			seen[key] = true

			contacts = append(contacts, model.Contact{
				Source: page.URL,
				Repo:   page.Repo,
				Title:  page.Title,
				Email:  email,
			})
		}
	}

	return contacts, nil
}

// Ensure EmailExtractor implements Extractor.
var _ Extractor = (*EmailExtractor)(nil)
