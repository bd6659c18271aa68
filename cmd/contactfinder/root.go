// Package main provides the entry point for the ContactFinder CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for ContactFinder.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contactfinder",
		Short: "Find published contact details for a person",
		Long: `ContactFinder searches the public web for contact details belonging to a
named person: email addresses and UK mobile numbers published on pages
that mention them.

It queries a search backend (SerpAPI web search or GitHub code search),
fetches the result pages, and extracts contact values from their text.

Backend credentials are read from the environment or a .env file:
  SERPAPI_API_KEY  for the serpapi backend
  GITHUB_TOKEN     for the github backend`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
