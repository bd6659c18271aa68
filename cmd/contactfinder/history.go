package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/contactfinder/contactfinder/internal/config"
	"github.com/contactfinder/contactfinder/internal/database"
	"github.com/contactfinder/contactfinder/internal/model"
	"github.com/contactfinder/contactfinder/internal/report"
)

// Constants for contact change direction.
const (
	contactsDirectionGrew      = "grew"
	contactsDirectionShrank    = "shrank"
	contactsDirectionUnchanged = "unchanged"
)

// NewHistoryCmd creates the history command.
// This command inspects scan results stored in the database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [person name]",
		Short: "Inspect and compare stored scan results",
		Long: `History shows what previous scans found and how a person's published
contact details changed over time.

By default it compares the two most recent scans of the named person and
shows which contact values are new and which disappeared. The comparison
requires at least two stored scans; use 'contactfinder scan' to create them.

Examples:
  # Compare the latest two scans for a person
  contactfinder history "Jane Doe"

  # List all scan history for a person
  contactfinder history --list "Jane Doe"

  # List all people in the database
  contactfinder history --list-persons

  # Show which scans found a specific email address
  contactfinder history --email jane@example.com

  # Re-render a stored scan report by its scan ID
  contactfinder history --show 4f7c0a1e-...

  # Re-export a stored scan's contacts as CSV
  contactfinder history --csv 4f7c0a1e-... -o contacts.csv

  # Output comparison in JSON format
  contactfinder history --json "Jane Doe"`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List scan history for the specified person")
	cmd.Flags().BoolP("list-persons", "L", false,
		"List all people in the database")

	// Contact lookup flag
	cmd.Flags().StringP("email", "e", "",
		"Show stored contact rows for the given email address")

	// Stored report retrieval flags
	cmd.Flags().String("show", "",
		"Re-render the stored scan report with the given scan ID")
	cmd.Flags().String("csv", "",
		"Export the stored scan with the given scan ID as CSV")
	cmd.Flags().StringP("output", "o", config.DefaultCSVFile,
		"Output file path for --csv")

	// Output format flag
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	listPersons, err := cmd.Flags().GetBool("list-persons")
	if err != nil {
		return err
	}
	email, err := cmd.Flags().GetString("email")
	if err != nil {
		return err
	}
	showID, err := cmd.Flags().GetString("show")
	if err != nil {
		return err
	}
	csvID, err := cmd.Flags().GetString("csv")
	if err != nil {
		return err
	}

	// A person is needed unless the request targets the whole database
	// or a specific stored scan
	var person string
	if !listPersons && email == "" && showID == "" && csvID == "" {
		if len(args) == 0 {
			return errors.New("person name is required (use --list-persons to see stored people)")
		}
		person = strings.TrimSpace(args[0])
	}

	// Open database in the XDG data directory, but never create it here:
	// an empty history database has nothing to show.
	db, err := database.Open(config.XDGDataDir(), database.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		return fmt.Errorf("no scan history available: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if listPersons {
		return listScannedPersons(ctx, db)
	}
	if email != "" {
		return showContactsByEmail(ctx, db, email)
	}
	if showID != "" {
		return showScanReport(ctx, db, showID, getVerboseFlag(cmd))
	}
	if csvID != "" {
		outputPath, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}
		return exportScanCSV(ctx, db, csvID, outputPath)
	}

	listHistory, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if listHistory {
		return listScanHistory(ctx, db, person)
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	return runComparison(ctx, db, person, jsonOutput)
}

// listScannedPersons lists all people that have scan records in the database.
func listScannedPersons(ctx context.Context, db *database.ContactDB) error {
	persons, err := db.ListScannedPersons(ctx)
	if err != nil {
		return fmt.Errorf("failed to list persons: %w", err)
	}

	if len(persons) == 0 {
		fmt.Println("No scanned people found in the database.")
		fmt.Println("\nUse 'contactfinder scan <name>' to scan a person.")
		return nil
	}

	fmt.Printf("Scanned people (%d):\n\n", len(persons))
	for _, person := range persons {
		fmt.Printf("  • %s\n", person)
	}
	fmt.Println("\nUse 'contactfinder history --list <name>' to see scan history for a person.")

	return nil
}

// listScanHistory lists all scan records for a specific person.
func listScanHistory(ctx context.Context, db *database.ContactDB, person string) error {
	metas, err := db.GetScanHistoryWithMetadata(ctx, person)
	if err != nil {
		return fmt.Errorf("failed to get scan history: %w", err)
	}

	if len(metas) == 0 {
		fmt.Printf("No scan history found for %s\n", person)
		fmt.Println("\nUse 'contactfinder scan' to scan this person.")
		return nil
	}

	fmt.Printf("Scan history for %s (%d scans):\n\n", person, len(metas))
	fmt.Printf("  %-20s  %-8s  %s\n", "Date", "Backend", "Contacts")
	fmt.Println("  " + strings.Repeat("-", 60))

	for _, meta := range metas {
		fmt.Printf("  %-20s  %-8s  %s\n",
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			meta.Backend,
			formatContactSummary(meta.ContactSummary),
		)
	}

	fmt.Println("\nUse 'contactfinder history <name>' to compare the latest two scans.")

	return nil
}

// showContactsByEmail lists every stored contact row for an email address.
func showContactsByEmail(ctx context.Context, db *database.ContactDB, email string) error {
	contacts, err := db.FindContactsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to query contacts: %w", err)
	}

	if len(contacts) == 0 {
		fmt.Printf("No stored contacts found for %s\n", email)
		return nil
	}

	fmt.Printf("Stored contacts for %s (%d):\n\n", email, len(contacts))
	for _, c := range contacts {
		fmt.Printf("  [+] %s\n", c.Source)
		if c.Repo != "" {
			fmt.Printf("      Repository: %s\n", c.Repo)
		}
		if c.Title != "" {
			fmt.Printf("      Title: %s\n", c.Title)
		}
	}

	return nil
}

// showScanReport re-renders a stored scan report on stdout.
func showScanReport(ctx context.Context, db *database.ContactDB, scanID string, verbose bool) error {
	scanReport, err := loadStoredScan(ctx, db, scanID)
	if err != nil {
		return err
	}

	writer := report.NewSimpleWriter(os.Stdout, report.WithVerbose(verbose))
	_, err = writer.Write(scanReport)
	return err
}

// exportScanCSV re-exports a stored scan's contact rows as CSV.
func exportScanCSV(ctx context.Context, db *database.ContactDB, scanID, outputPath string) error {
	scanReport, err := loadStoredScan(ctx, db, scanID)
	if err != nil {
		return err
	}

	if err := exportCSV(outputPath, scanReport); err != nil {
		return err
	}
	fmt.Printf("Contacts exported to %s\n", outputPath)
	return nil
}

// loadStoredScan loads a scan report by ID, erroring when it is missing.
func loadStoredScan(ctx context.Context, db *database.ContactDB, scanID string) (*model.ScanReport, error) {
	scanReport, err := db.GetScanReport(ctx, scanID)
	if err != nil {
		return nil, fmt.Errorf("failed to load scan: %w", err)
	}
	if scanReport == nil {
		return nil, fmt.Errorf("no stored scan with ID %s", scanID)
	}
	return scanReport, nil
}

// formatContactSummary formats the contact summary map into a short string.
func formatContactSummary(summary map[string]int) string {
	if summary == nil {
		return "N/A"
	}

	var parts []string
	if v := summary["emails"]; v > 0 {
		parts = append(parts, fmt.Sprintf("E:%d", v))
	}
	if v := summary["phones"]; v > 0 {
		parts = append(parts, fmt.Sprintf("P:%d", v))
	}

	if len(parts) == 0 {
		return "No contacts"
	}
	return strings.Join(parts, " ")
}

// runComparison compares the two most recent scans of a person.
func runComparison(ctx context.Context, db *database.ContactDB, person string, jsonOutput bool) error {
	reports, err := db.GetScanHistory(ctx, person)
	if err != nil {
		return fmt.Errorf("failed to get scan history: %w", err)
	}

	if len(reports) == 0 {
		return fmt.Errorf("no scan history found for %s", person)
	}
	if len(reports) < 2 {
		return fmt.Errorf("at least 2 scans are required for comparison (found %d)", len(reports))
	}

	// History is sorted newest first
	comparison := compareReports(reports[1], reports[0])

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(comparison)
	}
	return outputComparisonText(comparison)
}

// ComparisonResult holds the result of comparing two scan reports.
type ComparisonResult struct {
	// Person is the scanned person's name.
	Person string `json:"person"`

	// PreviousScan contains metadata about the previous scan.
	PreviousScan ComparedScan `json:"previous_scan"`

	// CurrentScan contains metadata about the current scan.
	CurrentScan ComparedScan `json:"current_scan"`

	// NewContacts lists contact values found only in the current scan.
	NewContacts []string `json:"new_contacts,omitempty"`

	// RemovedContacts lists contact values found only in the previous scan.
	RemovedContacts []string `json:"removed_contacts,omitempty"`

	// UnchangedCount is the number of contact values present in both scans.
	UnchangedCount int `json:"unchanged_count"`

	// Direction is "grew", "shrank", or "unchanged".
	Direction string `json:"direction"`
}

// ComparedScan contains metadata about a scan for comparison display.
type ComparedScan struct {
	// DateScanned is when the scan was performed.
	DateScanned time.Time `json:"date_scanned"`

	// Backend is the search backend used.
	Backend string `json:"backend"`

	// EmailCount is the number of unique email addresses found.
	EmailCount int `json:"email_count"`

	// PhoneCount is the number of unique mobile numbers found.
	PhoneCount int `json:"phone_count"`
}

// compareReports compares two scan reports and generates a comparison result.
func compareReports(previous, current *model.ScanReport) *ComparisonResult {
	result := &ComparisonResult{
		Person:       current.Person,
		PreviousScan: comparedScan(previous),
		CurrentScan:  comparedScan(current),
	}

	previousValues := contactValues(previous)
	currentValues := contactValues(current)

	for value := range currentValues {
		if !previousValues[value] {
			result.NewContacts = append(result.NewContacts, value)
		}
	}
	for value := range previousValues {
		if !currentValues[value] {
			result.RemovedContacts = append(result.RemovedContacts, value)
		} else {
			result.UnchangedCount++
		}
	}

	sort.Strings(result.NewContacts)
	sort.Strings(result.RemovedContacts)

	switch {
	case len(currentValues) > len(previousValues):
		result.Direction = contactsDirectionGrew
	case len(currentValues) < len(previousValues):
		result.Direction = contactsDirectionShrank
	default:
		result.Direction = contactsDirectionUnchanged
	}

	return result
}

// comparedScan extracts comparison metadata from a report.
func comparedScan(r *model.ScanReport) ComparedScan {
	summary := r.Summary
	if summary == nil {
		summary = model.NewSummary(r)
	}
	return ComparedScan{
		DateScanned: r.DateScanned,
		Backend:     r.Backend,
		EmailCount:  len(summary.Emails),
		PhoneCount:  len(summary.Phones),
	}
}

// contactValues returns the set of unique contact values in a report.
func contactValues(r *model.ScanReport) map[string]bool {
	values := make(map[string]bool)
	for _, c := range r.Contacts {
		if c.Email != "" {
			values[c.Email] = true
		}
		if c.Phone != "" {
			values[c.Phone] = true
		}
	}
	return values
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(result *ComparisonResult) error {
	fmt.Printf("Scan Comparison: %s\n", result.Person)
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\nContact footprint: %s\n", formatDirection(result.Direction))

	fmt.Printf("\nPrevious scan: %s (%s)\n",
		result.PreviousScan.DateScanned.Format("2006-01-02 15:04:05"),
		result.PreviousScan.Backend)
	fmt.Printf("Current scan:  %s (%s)\n",
		result.CurrentScan.DateScanned.Format("2006-01-02 15:04:05"),
		result.CurrentScan.Backend)

	fmt.Println("\nContacts Summary:")
	fmt.Printf("  %-10s  %-10s  %-10s\n", "Type", "Previous", "Current")
	fmt.Println("  " + strings.Repeat("-", 35))
	fmt.Printf("  %-10s  %-10d  %-10d\n", "Emails",
		result.PreviousScan.EmailCount, result.CurrentScan.EmailCount)
	fmt.Printf("  %-10s  %-10d  %-10d\n", "Phones",
		result.PreviousScan.PhoneCount, result.CurrentScan.PhoneCount)

	if len(result.NewContacts) > 0 {
		fmt.Printf("\nNew Contacts (%d):\n", len(result.NewContacts))
		for _, value := range result.NewContacts {
			fmt.Printf("  [+] %s\n", value)
		}
	}

	if len(result.RemovedContacts) > 0 {
		fmt.Printf("\nRemoved Contacts (%d):\n", len(result.RemovedContacts))
		for _, value := range result.RemovedContacts {
			fmt.Printf("  [-] %s\n", value)
		}
	}

	if result.UnchangedCount > 0 {
		fmt.Printf("\nUnchanged: %d contact values\n", result.UnchangedCount)
	}

	return nil
}

// formatDirection formats the contact change direction for display.
func formatDirection(direction string) string {
	switch direction {
	case contactsDirectionGrew:
		return "GREW (more contact details are published now)"
	case contactsDirectionShrank:
		return "SHRANK (fewer contact details are published now)"
	default:
		return "UNCHANGED"
	}
}
