package model

import (
	"strings"
	"testing"
)

// TestPageComputeHash tests the ComputeHash method.
func TestPageComputeHash(t *testing.T) {
	t.Parallel()

	t.Run("computes SHA256 hash of raw content", func(t *testing.T) {
		t.Parallel()

		page := &Page{}
		page.ComputeHash([]byte("Hello, World!"))

		// Expected SHA256 of "Hello, World!"
		expected := "dffd6021bb2bd5b0af676290809ec3a53191dd81c7f70a4b28688a362182986f"
		if page.Hash != expected {
			t.Errorf("got %q, expected %q", page.Hash, expected)
		}
	})

	t.Run("empty content produces empty hash", func(t *testing.T) {
		t.Parallel()

		page := &Page{}
		page.ComputeHash(nil)

		if page.Hash != "" {
			t.Errorf("expected empty hash, got %q", page.Hash)
		}
	})
}

// TestPageTruncateSnapshot tests the snapshot size limit.
func TestPageTruncateSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("short snapshot is unchanged", func(t *testing.T) {
		t.Parallel()

		page := &Page{Snapshot: "contact us at jane@example.com"}
		page.TruncateSnapshot()

		if page.Snapshot != "contact us at jane@example.com" {
			t.Errorf("snapshot changed unexpectedly: %q", page.Snapshot)
		}
	})

	t.Run("oversized snapshot is truncated to the limit", func(t *testing.T) {
		t.Parallel()

		page := &Page{Snapshot: strings.Repeat("a", MaxSnapshotSize+100)}
		page.TruncateSnapshot()

		if len(page.Snapshot) != MaxSnapshotSize {
			t.Errorf("got length %d, expected %d", len(page.Snapshot), MaxSnapshotSize)
		}
	})
}

// TestNewSummary tests summary generation from a report.
func TestNewSummary(t *testing.T) {
	t.Parallel()

	t.Run("collects unique sorted values", func(t *testing.T) {
		t.Parallel()

		report := NewScanReport("Jane Doe", "Acme Ltd")
		report.Backend = "serpapi"
		report.Query = `"Jane Doe" "Acme Ltd" contact OR email OR phone`
		report.Results = []SearchResult{{URL: "https://a.example"}, {URL: "https://b.example"}}
		report.Pages = []*Page{{URL: "https://a.example"}}
		report.AddContact(Contact{Source: "https://a.example", Email: "zoe@example.com"})
		report.AddContact(Contact{Source: "https://a.example", Email: "amy@example.com"})
		report.AddContact(Contact{Source: "https://b.example", Email: "amy@example.com"})
		report.AddContact(Contact{Source: "https://a.example", Phone: "+447700900123"})
		report.AddSourceError("https://b.example", errTest)

		s := NewSummary(report)

		if len(s.Emails) != 2 || s.Emails[0] != "amy@example.com" || s.Emails[1] != "zoe@example.com" {
			t.Errorf("unexpected emails: %v", s.Emails)
		}
		if len(s.Phones) != 1 || s.Phones[0] != "+447700900123" {
			t.Errorf("unexpected phones: %v", s.Phones)
		}
		if s.ResultCount != 2 {
			t.Errorf("got ResultCount %d, expected 2", s.ResultCount)
		}
		if s.FetchedCount != 1 {
			t.Errorf("got FetchedCount %d, expected 1", s.FetchedCount)
		}
		if s.FailedCount != 1 {
			t.Errorf("got FailedCount %d, expected 1", s.FailedCount)
		}
		if s.ContactCount != 4 {
			t.Errorf("got ContactCount %d, expected 4", s.ContactCount)
		}
		if !s.HasContacts() {
			t.Error("expected HasContacts to be true")
		}
	})

	t.Run("empty report has no contacts", func(t *testing.T) {
		t.Parallel()

		s := NewSummary(NewScanReport("Jane Doe", ""))
		if s.HasContacts() {
			t.Error("expected HasContacts to be false")
		}
		if s.Emails != nil || s.Phones != nil {
			t.Errorf("expected nil slices, got %v / %v", s.Emails, s.Phones)
		}
	})
}

// errTest is a reusable test error.
var errTest = errString("fetch failed")

type errString string

func (e errString) Error() string { return string(e) }
