package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/contactfinder/contactfinder/internal/model"
)

// PhoneExtractor detects UK mobile phone numbers in page content.
//
// Raw matches arrive in many written forms: "+44 7700 900123",
// "07700 900-123", "(07700) 900123". All accepted matches are normalized
// to the +447xxxxxxxxx form so that deduplication and CSV export see one
// canonical representation per number.
type PhoneExtractor struct {
	// phoneRegex matches candidate UK mobile numbers with optional
	// separators. Candidates still need normalization and validation.
	phoneRegex *regexp.Regexp

	// separatorRegex strips the separator characters phoneRegex accepts:
	// spaces, dashes, dots, and parentheses. The two sets must stay in
	// sync or matched candidates get dropped during normalization.
	separatorRegex *regexp.Regexp

	// normalizedRegex validates the final normalized form: +44 followed
	// by a 7-prefixed 10-digit national number (UK mobile range).
	normalizedRegex *regexp.Regexp
}

// NewPhoneExtractor creates a new PhoneExtractor.
func NewPhoneExtractor() *PhoneExtractor {
	return &PhoneExtractor{
		phoneRegex:      regexp.MustCompile(`(?i)(?:\+44\s?7\d{3}|0\s?7\d{3}|\(?07\d{3}\)?)\s?[-.\s]?\(?\d{3}\)?[-.\s]?\d{3,4}`),
		separatorRegex:  regexp.MustCompile(`[\s\-().]`),
		normalizedRegex: regexp.MustCompile(`^\+447\d{9}$`),
	}
}

// Name returns the extractor name.
func (e *PhoneExtractor) Name() string {
	return "uk_mobile"
}

// Extract searches for UK mobile numbers in all pages.
// Candidates that do not survive normalization are dropped: landlines,
// truncated matches, and numbers with the wrong digit count.
func (e *PhoneExtractor) Extract(ctx context.Context, pages []*model.Page) ([]model.Contact, error) {
	contacts := make([]model.Contact, 0)
	seen := make(map[string]bool)

	for _, page := range pages {
		select {
		case <-ctx.Done():
			return contacts, ctx.Err()
		default:
		}

		matches := e.phoneRegex.FindAllString(page.Snapshot, -1)
		for _, match := range matches {
			phone, ok := e.Normalize(match)
			if !ok {
				continue
			}

			key := page.URL + "|" + phone
			if seen[key] {
				continue
			}
			seen[key] = true

			contacts = append(contacts, model.Contact{
				Source: page.URL,
				Repo:   page.Repo,
				Title:  page.Title,
				Phone:  phone,
			})
		}
	}

	return contacts, nil
}

// Normalize converts a raw phone match to canonical +447 form.
// It strips separator characters, rewrites a leading national "0" to the
// +44 country code, and accepts only numbers in the UK mobile range with
// exactly nine digits after the 7 prefix.
func (e *PhoneExtractor) Normalize(raw string) (string, bool) {
	normalized := e.separatorRegex.ReplaceAllString(raw, "")

	if strings.HasPrefix(normalized, "0") {
		normalized = "+44" + normalized[1:]
	}

	if !e.normalizedRegex.MatchString(normalized) {
		return "", false
	}
	return normalized, true
}

// Ensure PhoneExtractor implements Extractor.
var _ Extractor = (*PhoneExtractor)(nil)
