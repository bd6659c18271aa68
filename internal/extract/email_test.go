package extract

import (
	"context"
	"testing"

	"github.com/contactfinder/contactfinder/internal/model"
)

// TestEmailExtractorExtract tests email extraction from page snapshots.
func TestEmailExtractorExtract(t *testing.T) {
	t.Parallel()

	t.Run("extracts and lowercases addresses", func(t *testing.T) {
		t.Parallel()

		pages := []*model.Page{
			{
				URL:      "https://example.com/about",
				Title:    "About",
				Snapshot: "Reach us at Jane.Doe@Example.COM or sales@example.co.uk today.",
			},
		}

		contacts, err := NewEmailExtractor().Extract(context.Background(), pages)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := map[string]bool{
			"jane.doe@example.com": true,
			"sales@example.co.uk":  true,
		}
		if len(contacts) != len(want) {
			t.Fatalf("got %d contacts, expected %d: %v", len(contacts), len(want), contacts)
		}
		for _, c := range contacts {
			if !want[c.Email] {
				t.Errorf("unexpected email %q", c.Email)
			}
			if c.Source != "https://example.com/about" {
				t.Errorf("got source %q, expected page URL", c.Source)
			}
			if c.Title != "About" {
				t.Errorf("got title %q, expected 'About'", c.Title)
			}
			if c.Phone != "" {
				t.Errorf("email record has phone %q", c.Phone)
			}
		}
	})

	t.Run("deduplicates within one page", func(t *testing.T) {
		t.Parallel()

		pages := []*model.Page{
			{
				URL:      "https://example.com",
				Snapshot: "jane@example.com appears twice: jane@example.com",
			},
		}

		contacts, err := NewEmailExtractor().Extract(context.Background(), pages)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(contacts) != 1 {
			t.Errorf("got %d contacts, expected 1", len(contacts))
		}
	})

	t.Run("same address on two pages yields two records", func(t *testing.T) {
		t.Parallel()

		pages := []*model.Page{
			{URL: "https://a.example", Snapshot: "jane@example.com"},
			{URL: "https://b.example", Snapshot: "jane@example.com"},
		}

		contacts, err := NewEmailExtractor().Extract(context.Background(), pages)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(contacts) != 2 {
			t.Errorf("got %d contacts, expected 2", len(contacts))
		}
	})

	t.Run("no matches on plain text", func(t *testing.T) {
		t.Parallel()

		pages := []*model.Page{
			{URL: "https://example.com", Snapshot: "Nothing to see here. Not even an at sign used properly @ all."},
		}

		contacts, err := NewEmailExtractor().Extract(context.Background(), pages)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(contacts) != 0 {
			t.Errorf("got %d contacts, expected 0: %v", len(contacts), contacts)
		}
	})

	t.Run("respects cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		pages := []*model.Page{{URL: "https://example.com", Snapshot: "jane@example.com"}}
		_, err := NewEmailExtractor().Extract(ctx, pages)
		if err == nil {
			t.Error("expected context error")
		}
	})
}

// TestEmailExtractorName tests the extractor name.
func TestEmailExtractorName(t *testing.T) {
	t.Parallel()

	if got := NewEmailExtractor().Name(); got != "email" {
		t.Errorf("got %q, expected 'email'", got)
	}
}
