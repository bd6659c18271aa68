package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/contactfinder/contactfinder/internal/model"
)

// createTestReport creates a report with sample data for testing.
func createTestReport() *model.ScanReport {
	report := model.NewScanReport("Jane Doe", "Acme Ltd")
	report.Backend = "serpapi"
	report.Query = `"Jane Doe" "Acme Ltd" contact OR email OR phone`
	report.Results = []model.SearchResult{
		{URL: "https://example.com/about", Title: "About"},
		{URL: "https://example.com/team", Title: "Team"},
		{URL: "https://example.com/broken", Title: "Broken"},
	}
	report.Pages = []*model.Page{
		{URL: "https://example.com/about", Title: "About"},
		{URL: "https://example.com/team", Title: "Team"},
	}
	report.AddContact(model.Contact{
		Source: "https://example.com/about",
		Title:  "About",
		Email:  "jane@example.com",
	})
	report.AddContact(model.Contact{
		Source: "https://example.com/team",
		Title:  "Team",
		Phone:  "+447700900123",
	})
	report.AddSourceError("https://example.com/broken", errors.New("status 404"))

	report.Summary = model.NewSummary(report)

	return report
}

// TestSimpleWriter tests the human-readable report writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes report header", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "CONTACTFINDER REPORT") {
			t.Error("expected output to contain header")
		}
		if !strings.Contains(output, "Jane Doe") {
			t.Error("expected output to contain person name")
		}
		if !strings.Contains(output, "Acme Ltd") {
			t.Error("expected output to contain company name")
		}
		if !strings.Contains(output, "SerpAPI") {
			t.Error("expected output to contain backend display name")
		}
	})

	t.Run("writes scan summary counts", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "SCAN SUMMARY") {
			t.Error("expected output to contain scan summary")
		}
		if !strings.Contains(output, "Search results:  3") {
			t.Error("expected output to contain result count")
		}
		if !strings.Contains(output, "Sources failed:  1") {
			t.Error("expected output to contain failed count")
		}
	})

	t.Run("writes extracted contacts", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "EMAIL ADDRESSES") {
			t.Error("expected output to contain email section")
		}
		if !strings.Contains(output, "jane@example.com") {
			t.Error("expected output to contain email address")
		}
		if !strings.Contains(output, "UK MOBILE NUMBERS") {
			t.Error("expected output to contain phone section")
		}
		if !strings.Contains(output, "+447700900123") {
			t.Error("expected output to contain mobile number")
		}
	})

	t.Run("writes failed sources", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "FAILED SOURCES") {
			t.Error("expected output to contain failed sources section")
		}
		if !strings.Contains(output, "https://example.com/broken") {
			t.Error("expected output to contain failed source URL")
		}
	})

	t.Run("verbose mode includes contact sources and error messages", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithVerbose(true))
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "CONTACT DETAILS") {
			t.Error("expected verbose output to contain contact details section")
		}
		if !strings.Contains(output, "Source: https://example.com/about") {
			t.Error("expected verbose output to contain contact source")
		}
		if !strings.Contains(output, "status 404") {
			t.Error("expected verbose output to contain fetch error message")
		}
	})

	t.Run("handles cancelled report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := createTestReport()
		report.Cancelled = true
		report.Summary = model.NewSummary(report)

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "CANCELLED") {
			t.Error("expected output to indicate cancellation")
		}
	})

	t.Run("handles failed report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := model.NewScanReport("Jane Doe", "")
		report.Backend = "serpapi"
		report.ErrorMessage = "search via serpapi failed: missing API key"

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "ERROR - search via serpapi failed") {
			t.Error("expected output to contain error status")
		}
	})

	t.Run("hides empty sections by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := model.NewScanReport("Jane Doe", "")
		report.Backend = "serpapi"

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if strings.Contains(output, "EMAIL ADDRESSES") {
			t.Error("expected empty email section to be hidden")
		}
		if strings.Contains(output, "FAILED SOURCES") {
			t.Error("expected empty failed sources section to be hidden")
		}
	})

	t.Run("shows empty sections with WithShowEmpty", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithShowEmpty(true))
		report := model.NewScanReport("Jane Doe", "")
		report.Backend = "serpapi"

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "No email addresses found") {
			t.Error("expected empty email section to be shown")
		}
		if !strings.Contains(output, "No failed sources") {
			t.Error("expected empty failed sources section to be shown")
		}
	})

	t.Run("WriteSummary outputs summary only", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithVerbose(true))
		report := createTestReport()

		_, err := w.WriteSummary(report.Summary)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "jane@example.com") {
			t.Error("expected summary output to contain email address")
		}
		if strings.Contains(output, "CONTACT DETAILS") {
			t.Error("summary output should not contain per-contact details")
		}
	})
}

// TestJSONWriter tests the JSON report writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("outputs valid JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var parsed model.ScanReport
		if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}

		if parsed.Person != "Jane Doe" {
			t.Errorf("expected person %q, got %q", "Jane Doe", parsed.Person)
		}
		if len(parsed.Contacts) != 2 {
			t.Errorf("expected 2 contacts, got %d", len(parsed.Contacts))
		}
	})

	t.Run("compact output by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// Compact JSON has no indentation lines
		output := strings.TrimSuffix(buf.String(), "\n")
		if strings.Contains(output, "\n") {
			t.Error("expected compact JSON output on a single line")
		}
	})

	t.Run("pretty print adds indentation", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint())
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "\n  ") {
			t.Error("expected indented JSON output")
		}
	})

	t.Run("generates summary when missing", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)
		report := createTestReport()
		report.Summary = nil

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if report.Summary == nil {
			t.Error("expected summary to be generated")
		}
	})

	t.Run("WriteSummary outputs only the summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)
		report := createTestReport()

		_, err := w.WriteSummary(report.Summary)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var parsed model.Summary
		if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if len(parsed.Emails) != 1 || parsed.Emails[0] != "jane@example.com" {
			t.Errorf("unexpected emails: %v", parsed.Emails)
		}
	})

	t.Run("full writer wraps report with version", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewFullJSONWriter(&buf, "1.2.3")
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var wrapped JSONReport
		if err := json.Unmarshal(buf.Bytes(), &wrapped); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if wrapped.Version != "1.2.3" {
			t.Errorf("expected version %q, got %q", "1.2.3", wrapped.Version)
		}
		if wrapped.Report == nil || wrapped.Report.Person != "Jane Doe" {
			t.Error("expected wrapped report with person name")
		}
	})
}

// TestMarkdownWriter tests the Markdown report writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes header and tables", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "# ContactFinder Report") {
			t.Error("expected output to contain H1 header")
		}
		if !strings.Contains(output, "| Person") && !strings.Contains(output, "Jane Doe") {
			t.Error("expected output to contain person row")
		}
		if !strings.Contains(output, "## Scan Summary") {
			t.Error("expected output to contain scan summary section")
		}
	})

	t.Run("writes contact sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "## Email Addresses") {
			t.Error("expected output to contain email section")
		}
		if !strings.Contains(output, "jane@example.com") {
			t.Error("expected output to contain email address")
		}
		if !strings.Contains(output, "## UK Mobile Numbers") {
			t.Error("expected output to contain phone section")
		}
		if !strings.Contains(output, "+447700900123") {
			t.Error("expected output to contain mobile number")
		}
	})

	t.Run("includes pie chart when contacts exist", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "```mermaid") {
			t.Error("expected output to contain mermaid chart")
		}
	})

	t.Run("no contacts produces note instead of chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		report := model.NewScanReport("Jane Doe", "")
		report.Backend = "github"

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if strings.Contains(output, "```mermaid") {
			t.Error("expected no chart without contacts")
		}
		if !strings.Contains(output, "No contact details were found") {
			t.Error("expected note about missing contacts")
		}
	})

	t.Run("writes failed sources table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "## Failed Sources") {
			t.Error("expected output to contain failed sources section")
		}
		if !strings.Contains(output, "status 404") {
			t.Error("expected output to contain error message")
		}
	})
}

// TestCSVWriter tests the CSV contact export.
func TestCSVWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes header and one row per contact", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewCSVWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expected := "url,repo,title,email,phone\n" +
			"https://example.com/about,,About,jane@example.com,\n" +
			"https://example.com/team,,Team,,+447700900123\n"
		if buf.String() != expected {
			t.Errorf("unexpected CSV output:\ngot:\n%s\nexpected:\n%s", buf.String(), expected)
		}
	})

	t.Run("empty report still writes header", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewCSVWriter(&buf)
		report := model.NewScanReport("Jane Doe", "")

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if buf.String() != "url,repo,title,email,phone\n" {
			t.Errorf("unexpected CSV output: %q", buf.String())
		}
	})

	t.Run("quotes fields containing commas", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewCSVWriter(&buf)
		report := model.NewScanReport("Jane Doe", "")
		report.AddContact(model.Contact{
			Source: "https://example.com/about",
			Title:  "About, the team",
			Email:  "jane@example.com",
		})

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), `"About, the team"`) {
			t.Error("expected comma-containing field to be quoted")
		}
	})

	t.Run("WriteSummary writes one row per unique value", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewCSVWriter(&buf)
		report := createTestReport()

		_, err := w.WriteSummary(report.Summary)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expected := "url,repo,title,email,phone\n" +
			",,,jane@example.com,\n" +
			",,,,+447700900123\n"
		if buf.String() != expected {
			t.Errorf("unexpected CSV output:\ngot:\n%s\nexpected:\n%s", buf.String(), expected)
		}
	})

	t.Run("includes repository for code search contacts", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewCSVWriter(&buf)
		report := model.NewScanReport("Jane Doe", "")
		report.AddContact(model.Contact{
			Source: "https://github.com/acme/widgets/blob/main/MAINTAINERS",
			Repo:   "acme/widgets",
			Email:  "jane@example.com",
		})

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "acme/widgets") {
			t.Error("expected output to contain repository")
		}
	})
}

// TestMultiWriter tests writing to multiple destinations.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var text, jsonBuf bytes.Buffer
		mw := NewMultiWriter(
			NewSimpleWriter(&text),
			NewJSONWriter(&jsonBuf),
		)
		report := createTestReport()

		n, err := mw.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n == 0 {
			t.Error("expected non-zero bytes written")
		}

		if !strings.Contains(text.String(), "CONTACTFINDER REPORT") {
			t.Error("expected text output")
		}
		if !strings.Contains(jsonBuf.String(), "jane@example.com") {
			t.Error("expected JSON output")
		}
	})

	t.Run("WriteSummary writes to all writers", func(t *testing.T) {
		t.Parallel()

		var a, b bytes.Buffer
		mw := NewMultiWriter(
			NewSimpleWriter(&a),
			NewCSVWriter(&b),
		)
		report := createTestReport()

		_, err := mw.WriteSummary(report.Summary)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if a.Len() == 0 || b.Len() == 0 {
			t.Error("expected output in both writers")
		}
	})
}

// TestBackendDisplayName tests backend name formatting.
func TestBackendDisplayName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		backend  string
		expected string
	}{
		{backend: "serpapi", expected: "SerpAPI"},
		{backend: "github", expected: "GitHub"},
		{backend: "bing", expected: "Bing"},
		{backend: "", expected: "unknown"},
	}

	for _, tc := range cases {
		t.Run(tc.backend, func(t *testing.T) {
			t.Parallel()

			if got := backendDisplayName(tc.backend); got != tc.expected {
				t.Errorf("backendDisplayName(%q) = %q, expected %q", tc.backend, got, tc.expected)
			}
		})
	}
}

// TestTruncateString tests string truncation for table cells.
func TestTruncateString(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{name: "short string unchanged", input: "short", maxLen: 10, expected: "short"},
		{name: "long string truncated", input: "a very long string here", maxLen: 10, expected: "a very ..."},
		{name: "exact length unchanged", input: "exactly10!", maxLen: 10, expected: "exactly10!"},
		{name: "tiny max length", input: "abcdef", maxLen: 2, expected: "ab"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := truncateString(tc.input, tc.maxLen); got != tc.expected {
				t.Errorf("truncateString(%q, %d) = %q, expected %q", tc.input, tc.maxLen, got, tc.expected)
			}
		})
	}
}
