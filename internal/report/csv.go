package report

import (
	"encoding/csv"
	"io"

	"github.com/contactfinder/contactfinder/internal/model"
)

// csvHeader is the fixed column order for CSV exports.
var csvHeader = []string{"url", "repo", "title", "email", "phone"}

// CSVWriter outputs contact records in CSV format.
// This format is designed for spreadsheet import and downstream tooling.
//
// Design decision: We use standard encoding/csv because:
// 1. RFC 4180 quoting comes for free
// 2. The column set is fixed, so no struct-tag mapping library is needed
// 3. It's part of the standard library (no extra dependencies)
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs one row per contact record with its source.
// The byte count is approximate since encoding/csv buffers internally;
// we report the header plus row lengths after a successful flush.
func (w *CSVWriter) Write(report *model.ScanReport) (int, error) {
	rows := make([][]string, 0, len(report.Contacts))
	for _, c := range report.Contacts {
		rows = append(rows, []string{c.Source, c.Repo, c.Title, c.Email, c.Phone})
	}
	return w.writeRows(rows)
}

// WriteSummary outputs one row per unique contact value.
// Source columns are empty because the summary does not track provenance.
func (w *CSVWriter) WriteSummary(summary *model.Summary) (int, error) {
	rows := make([][]string, 0, len(summary.Emails)+len(summary.Phones))
	for _, email := range summary.Emails {
		rows = append(rows, []string{"", "", "", email, ""})
	}
	for _, phone := range summary.Phones {
		rows = append(rows, []string{"", "", "", "", phone})
	}
	return w.writeRows(rows)
}

// writeRows writes the header and all rows, then flushes.
func (w *CSVWriter) writeRows(rows [][]string) (int, error) {
	cw := csv.NewWriter(w.output)

	if err := cw.Write(csvHeader); err != nil {
		return 0, err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return 0, err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}

	total := rowLen(csvHeader)
	for _, row := range rows {
		total += rowLen(row)
	}
	return total, nil
}

// rowLen approximates the serialized length of a row including separators.
func rowLen(row []string) int {
	n := len(row) // commas plus newline
	for _, field := range row {
		n += len(field)
	}
	return n
}
