package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".contactfinder"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile loads settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	// Initialize Companies map if nil
	if cf.Companies == nil {
		cf.Companies = make(map[string]ScanSettings)
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .contactfinder in the current directory
// 3. Look for .contactfinder in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	// If explicit path is provided, use it
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	// Check current directory
	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	// Check home directory
	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// LoadEnv loads environment variables from a .env file in the current
// directory, if one exists. Variables already set in the environment are
// not overwritten, so exported values always win over .env contents.
//
// Design decision: Credentials live in the environment rather than the
// YAML config file so settings files can be committed without leaking
// API keys.
func LoadEnv() {
	// A missing .env file is the normal case, not an error.
	_ = godotenv.Load()
}

// SerpAPIKey returns the SerpAPI key from the environment.
func SerpAPIKey() string {
	return os.Getenv(EnvSerpAPIKey)
}

// GitHubToken returns the GitHub token from the environment.
func GitHubToken() string {
	return os.Getenv(EnvGitHubToken)
}
