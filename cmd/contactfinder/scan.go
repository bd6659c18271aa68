package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/contactfinder/contactfinder/internal/config"
	"github.com/contactfinder/contactfinder/internal/database"
	"github.com/contactfinder/contactfinder/internal/log"
	"github.com/contactfinder/contactfinder/internal/model"
	"github.com/contactfinder/contactfinder/internal/pipeline"
	"github.com/contactfinder/contactfinder/internal/report"
	"github.com/contactfinder/contactfinder/internal/search"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [person name]...",
		Short: "Search the web for a person's published contact details",
		Long: `Scan searches the public web for contact details belonging to a named
person. It queries a search backend, fetches the result pages, and
extracts email addresses and UK mobile numbers from their text.

Examples:
  # Scan a single person
  contactfinder scan "Jane Doe"

  # Narrow the search with a company name
  contactfinder scan --company "Acme Ltd" "Jane Doe"

  # Search GitHub code instead of the web
  contactfinder scan --backend github "Jane Doe"

  # Restrict web results to UK sites and request more of them
  contactfinder scan --uk --results 20 "Jane Doe"

  # Scan several people concurrently
  contactfinder scan --company "Acme Ltd" "Jane Doe" "John Smith"

  # Output JSON, or export contacts as CSV alongside the report
  contactfinder scan --json "Jane Doe"
  contactfinder scan --csv "Jane Doe"

Configuration file (.contactfinder) example:
  defaults:
    backend: serpapi
    results: 10
  companies:
    Acme Ltd:
      restrictUK: true
      results: 20`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	// Search flags
	cmd.Flags().String("company", "", "Company name added to every query")
	cmd.Flags().String("backend", config.DefaultBackend,
		`Search backend: "serpapi" (web search) or "github" (code search)`)
	cmd.Flags().IntP("results", "n", config.DefaultNumResults,
		fmt.Sprintf("Number of search results to request (%d-%d)", config.MinNumResults, config.MaxNumResults))
	cmd.Flags().Bool("uk", false, "Restrict web search to UK sites")

	// Fetch behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultFetchTimeout,
		"Timeout for each result page download")
	cmd.Flags().Duration("delay", config.DefaultFetchDelay,
		"Delay between page fetches")

	// Batch scanning flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent scans when given multiple names")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .contactfinder in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().String("csv", "",
		"Also export contact rows as CSV to the given file")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// --csv without a value exports to the default file name
	cmd.Flags().Lookup("csv").NoOptDefVal = config.DefaultCSVFile

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with credential masking
	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScan(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.Company, err = cmd.Flags().GetString("company")
	if err != nil {
		return nil, err
	}

	cfg.Backend, err = cmd.Flags().GetString("backend")
	if err != nil {
		return nil, err
	}

	cfg.NumResults, err = cmd.Flags().GetInt("results")
	if err != nil {
		return nil, err
	}

	cfg.RestrictUK, err = cmd.Flags().GetBool("uk")
	if err != nil {
		return nil, err
	}

	cfg.FetchTimeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.FetchDelay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load per-company settings from the config file.
	// If the user explicitly specified a path, error when it is missing.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.FileConfig, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.FileConfig = &config.File{
			Companies: make(map[string]config.ScanSettings),
		}
	}

	// Apply file settings for anything the user did not set on the command line
	applyFileSettings(cmd, cfg)

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.CSVFile, err = cmd.Flags().GetString("csv")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Always save to database using XDG data directory
	cfg.SaveToDB = true
	cfg.DBDir = config.XDGDataDir()

	// Positional arguments are the person names
	cfg.Persons = args

	// Credentials come from the environment or a .env file
	config.LoadEnv()

	return cfg, nil
}

// applyFileSettings fills config values from the file for flags the user
// left at their defaults. Command-line flags always win.
func applyFileSettings(cmd *cobra.Command, cfg *config.Config) {
	if cfg.FileConfig == nil {
		return
	}
	settings := cfg.FileConfig.GetScanSettings(cfg.Company)

	if settings.Backend != "" && !cmd.Flags().Changed("backend") {
		cfg.Backend = settings.Backend
	}
	if settings.Results > 0 && !cmd.Flags().Changed("results") {
		cfg.NumResults = settings.Results
	}
	if settings.RestrictUK && !cmd.Flags().Changed("uk") {
		cfg.RestrictUK = true
	}
	if settings.DelaySeconds > 0 && !cmd.Flags().Changed("delay") {
		cfg.FetchDelay = time.Duration(settings.DelaySeconds) * time.Second
	}
	if settings.UserAgent != "" {
		cfg.UserAgent = settings.UserAgent
	}
}

// newBackend constructs the configured search backend.
// Missing credentials fail here, before any network activity.
func newBackend(cfg *config.Config) (search.Backend, error) {
	switch cfg.Backend {
	case "github":
		return search.NewGitHub(config.GitHubToken(),
			search.WithGitHubTimeout(cfg.SearchTimeout))
	default:
		return search.NewSerpAPI(config.SerpAPIKey(),
			search.WithSerpAPIHTTPClient(&http.Client{Timeout: cfg.SearchTimeout}))
	}
}

// runScan executes the scan.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting scan",
		"persons", cfg.Persons,
		"company", cfg.Company,
		"backend", cfg.Backend,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	backend, err := newBackend(cfg)
	if err != nil {
		return err
	}

	// Open database connection if saving is enabled
	var db *database.ContactDB
	if cfg.SaveToDB {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	// Use batch processor for parallel scanning if multiple persons
	if len(cfg.Persons) > 1 && cfg.BatchSize > 1 {
		return runBatchScan(ctx, cfg, backend, db, logger)
	}

	return runSequentialScan(ctx, cfg, backend, db, logger)
}

// runSequentialScan scans persons one at a time.
func runSequentialScan(ctx context.Context, cfg *config.Config, backend search.Backend, db *database.ContactDB, logger *slog.Logger) error {
	for _, person := range cfg.Persons {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		p := createPipeline(backend, logger, cfg)
		scanReport := model.NewScanReport(person, cfg.Company)

		fmt.Printf("Scanning %s...\n", person)
		startTime := time.Now()

		if err := p.Execute(ctx, scanReport); err != nil {
			logger.Error("scan failed", "person", person, "error", err)
			fmt.Fprintf(os.Stderr, "Scan error for %s: %v\n", person, err)
			continue
		}

		elapsed := time.Since(startTime)
		fmt.Printf("Scan completed in %s\n\n", elapsed.Round(time.Millisecond))

		if err := outputReport(cfg, scanReport); err != nil {
			logger.Error("report failed", "person", person, "error", err)
		}

		if err := saveScanReport(ctx, db, scanReport, logger); err != nil {
			logger.Error("failed to save scan report", "person", person, "error", err)
		}
	}

	return nil
}

// runBatchScan scans multiple persons concurrently using BatchProcessor.
func runBatchScan(ctx context.Context, cfg *config.Config, backend search.Backend, db *database.ContactDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch scan of %d people (concurrency: %d)...\n\n",
		len(cfg.Persons), cfg.BatchSize)

	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return createPipeline(backend, logger, cfg)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	// Process with callback for streaming output
	var mu sync.Mutex
	err := bp.ProcessBatchWithCallback(ctx, cfg.Persons, cfg.Company, func(scanReport *model.ScanReport, index int) {
		mu.Lock()
		defer mu.Unlock()

		fmt.Printf("[%d/%d] Scan completed: %s\n", index+1, len(cfg.Persons), scanReport.Person)

		if err := outputReport(cfg, scanReport); err != nil {
			logger.Error("report failed", "person", scanReport.Person, "error", err)
		}

		if err := saveScanReport(ctx, db, scanReport, logger); err != nil {
			logger.Error("failed to save scan report", "person", scanReport.Person, "error", err)
		}
	})

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch scan completed in %s\n", elapsed.Round(time.Millisecond))

	return err
}

// createPipeline creates a scan pipeline with the given configuration.
func createPipeline(backend search.Backend, logger *slog.Logger, cfg *config.Config) *pipeline.Pipeline {
	pipelineOpts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(true),
	}

	configOpts := []pipeline.DefaultPipelineOption{
		pipeline.WithPipelineNumResults(cfg.NumResults),
		pipeline.WithPipelineRestrictUK(cfg.RestrictUK),
		pipeline.WithPipelineFetchDelay(cfg.FetchDelay),
		pipeline.WithPipelineFetchTimeout(cfg.FetchTimeout),
		pipeline.WithPipelineUserAgent(cfg.UserAgent),
		pipeline.WithPipelineMaxBodySize(cfg.MaxBodySize),
	}

	return pipeline.DefaultPipeline(backend, pipelineOpts, configOpts...)
}

// outputReport outputs the scan report in the requested format.
func outputReport(cfg *config.Config, scanReport *model.ScanReport) error {
	if scanReport.Summary == nil {
		scanReport.Summary = model.NewSummary(scanReport)
	}

	// CSV export runs alongside the main report when requested
	if cfg.CSVFile != "" {
		if err := exportCSV(cfg.CSVFile, scanReport); err != nil {
			return err
		}
		fmt.Printf("Contacts exported to %s\n", cfg.CSVFile)
	}

	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		f, err := createOutputFile(cfg.ReportFile)
		if err != nil {
			return err
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	if cfg.JSONReport {
		writer := report.NewJSONWriter(output, report.WithPrettyPrint())
		_, err := writer.Write(scanReport)
		return err
	}

	if cfg.MarkdownReport {
		writer := report.NewMarkdownWriter(output)
		_, err := writer.Write(scanReport)
		return err
	}

	// Human-readable report (default)
	writer := report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	_, err := writer.Write(scanReport)
	return err
}

// exportCSV writes the contact rows to the given CSV file.
func exportCSV(path string, scanReport *model.ScanReport) error {
	f, err := createOutputFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = report.NewCSVWriter(f).Write(scanReport)
	return err
}

// createOutputFile creates an output file with restrictive permissions.
// Reports may contain personal data that should only be readable by the owner.
func createOutputFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// saveScanReport saves the scan report to the database if enabled.
// If db is nil, this function is a no-op.
func saveScanReport(ctx context.Context, db *database.ContactDB, scanReport *model.ScanReport, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	if scanReport.Summary == nil {
		scanReport.Summary = model.NewSummary(scanReport)
	}

	if err := db.SaveScanReport(ctx, scanReport); err != nil {
		return fmt.Errorf("failed to save scan report: %w", err)
	}

	logger.Info("scan report saved to database", "person", scanReport.Person, "scan_id", scanReport.ID)
	return nil
}
