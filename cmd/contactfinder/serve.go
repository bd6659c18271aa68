package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/contactfinder/contactfinder/internal/config"
	"github.com/contactfinder/contactfinder/internal/database"
	"github.com/contactfinder/contactfinder/internal/log"
	"github.com/contactfinder/contactfinder/internal/model"
	"github.com/contactfinder/contactfinder/internal/search"
	"github.com/contactfinder/contactfinder/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web interface",
		Long: `Serve starts a local web interface for running scans and browsing the
stored scan history.

The interface offers a scan form, per-scan result pages, CSV export of
extracted contacts, and a small JSON API under /api.

Examples:
  # Start the web interface on the default address
  contactfinder serve

  # Listen on a custom address
  contactfinder serve --addr :9000

  # Use the GitHub code search backend for web-launched scans
  contactfinder serve --backend github`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("addr", "a", config.DefaultServerAddr,
		"Listen address for the web interface")
	cmd.Flags().String("backend", config.DefaultBackend,
		`Search backend for web-launched scans: "serpapi" or "github"`)
	cmd.Flags().IntP("results", "n", config.DefaultNumResults,
		"Number of search results to request per scan")
	cmd.Flags().Bool("uk", false, "Restrict web search to UK sites")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg := config.NewConfig()

	var err error
	cfg.ServerAddr, err = cmd.Flags().GetString("addr")
	if err != nil {
		return err
	}
	cfg.Backend, err = cmd.Flags().GetString("backend")
	if err != nil {
		return err
	}
	cfg.NumResults, err = cmd.Flags().GetInt("results")
	if err != nil {
		return err
	}
	cfg.RestrictUK, err = cmd.Flags().GetBool("uk")
	if err != nil {
		return err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Credentials come from the environment or a .env file.
	// The backend is constructed up front so a missing key fails at startup,
	// not on the first web-launched scan.
	config.LoadEnv()
	backend, err := newBackend(cfg)
	if err != nil {
		return err
	}

	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	// Backends are shared across requests. The non-default one is only
	// constructed when a form scan asks for it, so its missing credential
	// surfaces as a per-request error instead of blocking startup.
	var backendMu sync.Mutex
	backends := map[string]search.Backend{cfg.Backend: backend}

	scanFn := func(ctx context.Context, req server.ScanRequest) (*model.ScanReport, error) {
		scanCfg := *cfg
		if req.Backend != "" {
			scanCfg.Backend = req.Backend
		}
		if req.Results > 0 {
			scanCfg.NumResults = req.Results
		}
		scanCfg.RestrictUK = req.RestrictUK

		backendMu.Lock()
		b, ok := backends[scanCfg.Backend]
		if !ok {
			nb, nerr := newBackend(&scanCfg)
			if nerr != nil {
				backendMu.Unlock()
				return nil, nerr
			}
			b = nb
			backends[scanCfg.Backend] = b
		}
		backendMu.Unlock()

		scanReport := model.NewScanReport(req.Person, req.Company)
		p := createPipeline(b, logger, &scanCfg)
		if err := p.Execute(ctx, scanReport); err != nil {
			return nil, err
		}
		return scanReport, nil
	}

	srv, err := server.New(db,
		server.WithAddr(cfg.ServerAddr),
		server.WithScanFunc(scanFn),
		server.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("ContactFinder web interface listening on %s\n", srv.Addr())
	fmt.Println("Press Ctrl+C to stop.")

	if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
