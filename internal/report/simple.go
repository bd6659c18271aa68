package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/contactfinder/contactfinder/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no contacts are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report in human-readable format.
// It generates a Summary from the ScanReport if not already present.
func (w *SimpleWriter) Write(report *model.ScanReport) (int, error) {
	summary := report.Summary
	if summary == nil {
		summary = model.NewSummary(report)
	}

	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeCounts(&sb, summary)
	w.writeContacts(&sb, summary)

	// Per-contact sources and fetch failures come from the full report.
	if w.verbose {
		w.writeContactDetails(&sb, report)
	}
	w.writeSourceErrors(&sb, report)

	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// WriteSummary outputs only the summary in human-readable format.
func (w *SimpleWriter) WriteSummary(summary *model.Summary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeCounts(&sb, summary)
	w.writeContacts(&sb, summary)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with scan information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *model.Summary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                       CONTACTFINDER REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Person:    %s\n", summary.Person))
	if summary.Company != "" {
		sb.WriteString(fmt.Sprintf("Company:   %s\n", summary.Company))
	}
	sb.WriteString(fmt.Sprintf("Backend:   %s\n", backendDisplayName(summary.Backend)))
	if summary.Query != "" {
		sb.WriteString(fmt.Sprintf("Query:     %s\n", summary.Query))
	}
	sb.WriteString(fmt.Sprintf("Scan Date: %s\n", summary.DateScanned.Format("2006-01-02 15:04:05 MST")))

	if summary.Cancelled {
		sb.WriteString("Status:    CANCELLED (partial results)\n")
	} else if summary.Error != "" {
		sb.WriteString(fmt.Sprintf("Status:    ERROR - %s\n", summary.Error))
	} else {
		sb.WriteString("Status:    Complete\n")
	}

	sb.WriteString("\n")
}

// writeCounts writes the scan statistics section.
func (w *SimpleWriter) writeCounts(sb *strings.Builder, summary *model.Summary) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SCAN SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Search results:  %d\n", summary.ResultCount))
	sb.WriteString(fmt.Sprintf("  Sources fetched: %d\n", summary.FetchedCount))
	sb.WriteString(fmt.Sprintf("  Sources failed:  %d\n", summary.FailedCount))
	sb.WriteString(fmt.Sprintf("  Contacts found:  %d\n", summary.ContactCount))
	sb.WriteString("\n")
}

// writeContacts writes the extracted email and phone sections.
func (w *SimpleWriter) writeContacts(sb *strings.Builder, summary *model.Summary) {
	if !summary.HasContacts() && !w.showEmpty {
		return
	}

	if len(summary.Emails) > 0 || w.showEmpty {
		sb.WriteString(strings.Repeat("-", 70))
		sb.WriteString("\n")
		sb.WriteString("EMAIL ADDRESSES\n")
		sb.WriteString(strings.Repeat("-", 70))
		sb.WriteString("\n\n")

		if len(summary.Emails) == 0 {
			sb.WriteString("  No email addresses found\n")
		}
		for _, email := range summary.Emails {
			sb.WriteString(fmt.Sprintf("  [+] %s\n", email))
		}
		sb.WriteString("\n")
	}

	if len(summary.Phones) > 0 || w.showEmpty {
		sb.WriteString(strings.Repeat("-", 70))
		sb.WriteString("\n")
		sb.WriteString("UK MOBILE NUMBERS\n")
		sb.WriteString(strings.Repeat("-", 70))
		sb.WriteString("\n\n")

		if len(summary.Phones) == 0 {
			sb.WriteString("  No mobile numbers found\n")
		}
		for _, phone := range summary.Phones {
			sb.WriteString(fmt.Sprintf("  [+] %s\n", phone))
		}
		sb.WriteString("\n")
	}
}

// writeContactDetails writes each contact record with its source.
func (w *SimpleWriter) writeContactDetails(sb *strings.Builder, report *model.ScanReport) {
	if len(report.Contacts) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("CONTACT DETAILS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, c := range report.Contacts {
		sb.WriteString(fmt.Sprintf("  * %s\n", c.Value()))
		sb.WriteString(fmt.Sprintf("    Source: %s\n", c.Source))
		if c.Repo != "" {
			sb.WriteString(fmt.Sprintf("    Repository: %s\n", c.Repo))
		}
		if c.Title != "" {
			sb.WriteString(fmt.Sprintf("    Title: %s\n", c.Title))
		}
	}
	sb.WriteString("\n")
}

// writeSourceErrors writes the list of sources that could not be fetched.
func (w *SimpleWriter) writeSourceErrors(sb *strings.Builder, report *model.ScanReport) {
	if len(report.SourceErrors) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("FAILED SOURCES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(report.SourceErrors) == 0 {
		sb.WriteString("  No failed sources\n")
	}
	for _, se := range report.SourceErrors {
		sb.WriteString(fmt.Sprintf("  [-] %s\n", se.Source))
		if w.verbose {
			sb.WriteString(fmt.Sprintf("      %s\n", se.Message))
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by ContactFinder\n")
	sb.WriteString("https://github.com/contactfinder/contactfinder\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
