// Package config provides configuration structures and utilities for ContactFinder.
// It defines the main configuration options for search backends, page
// fetching, and report generation preferences.
package config
