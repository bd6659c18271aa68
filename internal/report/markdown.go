package report

import (
	"io"
	"strconv"

	"github.com/contactfinder/contactfinder/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ScanReport) (int, error) {
	summary := report.Summary
	if summary == nil {
		summary = model.NewSummary(report)
	}

	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeSummary(md, summary)
	w.writeContacts(md, summary)
	w.writeContactDetails(md, report)
	w.writeFailedSources(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteSummary outputs only the summary in Markdown format.
func (w *MarkdownWriter) WriteSummary(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeSummary(md, summary)
	w.writeContacts(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with scan information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.Summary) {
	md.H1("ContactFinder Report")
	md.PlainText("")

	rows := [][]string{
		{"Person", summary.Person},
	}
	if summary.Company != "" {
		rows = append(rows, []string{"Company", summary.Company})
	}
	rows = append(rows,
		[]string{"Backend", backendDisplayName(summary.Backend)},
		[]string{"Query", "`" + summary.Query + "`"},
		[]string{"Scan Date", summary.DateScanned.Format("2006-01-02 15:04:05 MST")},
		[]string{"Status", w.getStatusText(summary)},
	)

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// getStatusText returns the status text based on summary state.
func (w *MarkdownWriter) getStatusText(summary *model.Summary) string {
	if summary.Cancelled {
		return "⚠️ Cancelled (partial results)"
	}
	if summary.Error != "" {
		return "❌ Error - " + summary.Error
	}
	return "✅ Complete"
}

// writeSummary writes the scan statistics section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Scan Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Search results", strconv.Itoa(summary.ResultCount)},
			{"Sources fetched", strconv.Itoa(summary.FetchedCount)},
			{"Sources failed", strconv.Itoa(summary.FailedCount)},
			{"Email addresses", strconv.Itoa(len(summary.Emails))},
			{"UK mobile numbers", strconv.Itoa(len(summary.Phones))},
			{"**Total contacts**", "**" + strconv.Itoa(summary.ContactCount) + "**"},
		},
	})
	md.PlainText("")

	if summary.HasContacts() {
		w.writePieChart(md, summary)
	}

	w.writeAlert(md, summary)
}

// writePieChart writes a mermaid pie chart for the contact type distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Contact Type Distribution"),
		piechart.WithShowData(true),
	)

	if len(summary.Emails) > 0 {
		chart.LabelAndIntValue("Email addresses", uint64(len(summary.Emails)))
	}
	if len(summary.Phones) > 0 {
		chart.LabelAndIntValue("UK mobile numbers", uint64(len(summary.Phones)))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the scan outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *model.Summary) {
	switch {
	case summary.Error != "":
		md.Cautionf("The scan failed: %s. Results may be incomplete.", summary.Error)
	case summary.Cancelled:
		md.Warning("The scan was cancelled before completion. Results are partial.")
	case summary.HasContacts():
		md.Tipf(
			"Found %d unique email address(es) and %d unique mobile number(s).",
			len(summary.Emails), len(summary.Phones),
		)
	default:
		md.Note("No contact details were found for this person.")
	}
	md.PlainText("")
}

// writeContacts writes the extracted email and phone sections.
func (w *MarkdownWriter) writeContacts(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Email Addresses")
	md.PlainText("")
	if len(summary.Emails) == 0 {
		md.PlainText("No email addresses found.")
	} else {
		md.BulletList(summary.Emails...)
	}
	md.PlainText("")

	md.H2("UK Mobile Numbers")
	md.PlainText("")
	if len(summary.Phones) == 0 {
		md.PlainText("No mobile numbers found.")
	} else {
		md.BulletList(summary.Phones...)
	}
	md.PlainText("")
}

// writeContactDetails writes a table of contact records with their sources.
func (w *MarkdownWriter) writeContactDetails(md *markdown.Markdown, report *model.ScanReport) {
	if len(report.Contacts) == 0 {
		return
	}

	md.H2("Contact Details")
	md.PlainText("")

	rows := make([][]string, len(report.Contacts))
	for i, c := range report.Contacts {
		email := c.Email
		if email == "" {
			email = "-"
		}
		phone := c.Phone
		if phone == "" {
			phone = "-"
		}
		title := c.Title
		if title == "" {
			title = "-"
		}

		rows[i] = []string{
			email,
			phone,
			truncateString(c.Source, 60),
			truncateString(title, 40),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Email", "Phone", "Source", "Title"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFailedSources writes the list of sources that could not be fetched.
func (w *MarkdownWriter) writeFailedSources(md *markdown.Markdown, report *model.ScanReport) {
	if len(report.SourceErrors) == 0 {
		return
	}

	md.H2("Failed Sources")
	md.PlainText("")

	rows := make([][]string, len(report.SourceErrors))
	for i, se := range report.SourceErrors {
		rows[i] = []string{
			truncateString(se.Source, 60),
			truncateString(se.Message, 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Source", "Error"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [ContactFinder](https://github.com/contactfinder/contactfinder)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
