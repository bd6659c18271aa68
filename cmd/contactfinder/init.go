package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

//go:embed templates/contactfinder.yaml
var configTemplate embed.FS

// configFileName is the default configuration file name.
const configFileName = ".contactfinder"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new ContactFinder configuration file",
		Long: `Initialize creates a new .contactfinder configuration file in the current directory.

The generated file includes:
- Default settings for the search backend and result count
- Commented examples for per-company configurations
- Documentation for all available options

Examples:
  # Create .contactfinder in current directory
  contactfinder init

  # Create config file at a specific path
  contactfinder init -o myconfig.yaml

  # Force overwrite existing file
  contactfinder init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	// Check if file already exists
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	// Read template from embedded filesystem
	content, err := configTemplate.ReadFile("templates/contactfinder.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	// Create parent directories if needed
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write configuration file
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	fmt.Printf("Created configuration file: %s\n", outputPath)
	fmt.Println("\nEdit this file to configure per-company settings such as:")
	fmt.Println("  - Search backend and result count")
	fmt.Println("  - UK site restriction")
	fmt.Println("  - Fetch delay and User-Agent")
	fmt.Println("\nAPI credentials are NOT stored here; set SERPAPI_API_KEY and")
	fmt.Println("GITHUB_TOKEN in the environment or a .env file.")

	return nil
}
