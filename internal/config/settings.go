package config

// ScanSettings holds scan defaults that can be set in the config file.
// Company-specific entries override the file-wide defaults, which lets a
// recruiter keep one settings block per client company.
type ScanSettings struct {
	// Backend overrides the search backend for this entry.
	Backend string `yaml:"backend,omitempty"`

	// Results overrides the number of search results to request.
	Results int `yaml:"results,omitempty"`

	// RestrictUK restricts web search queries to UK sites.
	RestrictUK bool `yaml:"restrictUK,omitempty"`

	// DelaySeconds overrides the delay between page fetches.
	DelaySeconds int `yaml:"delaySeconds,omitempty"`

	// UserAgent overrides the User-Agent header for page fetches.
	UserAgent string `yaml:"userAgent,omitempty"`
}

// File represents the structure of the .contactfinder configuration file.
type File struct {
	// Defaults contains settings applied to every scan unless overridden
	// by a company-specific entry or a CLI flag.
	Defaults ScanSettings `yaml:"defaults,omitempty"`

	// Companies maps company names to their scan settings.
	// Keys should match the --company value exactly.
	Companies map[string]ScanSettings `yaml:"companies,omitempty"`
}

// GetScanSettings returns the settings for a specific company.
// It merges the company-specific settings with the defaults.
func (cf *File) GetScanSettings(company string) ScanSettings {
	// Start with defaults
	result := cf.Defaults

	// Override with company-specific settings if present
	if settings, ok := cf.Companies[company]; ok {
		if settings.Backend != "" {
			result.Backend = settings.Backend
		}
		if settings.Results != 0 {
			result.Results = settings.Results
		}
		if settings.RestrictUK {
			result.RestrictUK = true
		}
		if settings.DelaySeconds != 0 {
			result.DelaySeconds = settings.DelaySeconds
		}
		if settings.UserAgent != "" {
			result.UserAgent = settings.UserAgent
		}
	}

	return result
}
