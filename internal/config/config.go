// Package config loads the dashboard configuration file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ukaji3/sheetsync/pkg/sheetsync"
)

// EnvPath names the environment variable overriding the config file path.
const EnvPath = "SHEETSYNC_CONFIG"

// DefaultPath is the config file read when EnvPath is unset.
const DefaultPath = "sheetsync.yaml"

// ErrInvalid indicates a config that fails validation.
var ErrInvalid = errors.New("invalid config")

// Config is the immutable run configuration.
type Config struct {
	// SiteName titles the summary sheet.
	SiteName string `yaml:"site_name"`
	// SiteURL is the canonical site URL; its host counts as internal.
	SiteURL string `yaml:"site_url"`
	// GA4PropertyID is the numeric GA4 property id.
	GA4PropertyID string `yaml:"ga4_property_id"`
	// SearchConsoleSiteURL is the Search Console property, a URL prefix or
	// an "sc-domain:" name.
	SearchConsoleSiteURL string `yaml:"search_console_site_url"`
	// CMSBaseURL is the WordPress REST root, e.g. https://example.com/wp-json/wp/v2.
	CMSBaseURL string `yaml:"cms_base_url"`
	// SpreadsheetID is the Google Sheets document id.
	SpreadsheetID string `yaml:"spreadsheet_id"`
	// Workbook is a local xlsx path used instead of Google Sheets when set.
	Workbook string `yaml:"workbook"`
	// CredentialsFile is the service account JSON key.
	CredentialsFile string `yaml:"credentials_file"`
	// ReportDays is the length of the reporting window.
	ReportDays int `yaml:"report_days"`
	// SearchLagDays is how many days Search Console data trails today.
	SearchLagDays int `yaml:"search_lag_days"`
	// RowLimit bounds the per-article, per-query and per-page reports.
	RowLimit int `yaml:"row_limit"`
	// LogLevel is a zerolog level name.
	LogLevel string `yaml:"log_level"`
	// Sheets holds the sheet names.
	Sheets sheetsync.SheetNames `yaml:"sheets"`
}

// Defaults returns the configuration every file is merged over.
func Defaults() Config {
	return Config{
		CredentialsFile: "credentials.json",
		ReportDays:      120,
		SearchLagDays:   3,
		RowLimit:        100,
		LogLevel:        "info",
		Sheets:          sheetsync.DefaultSheetNames(),
	}
}

// Path returns the config file path, honoring EnvPath.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads the file at path over Defaults and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over Defaults and validates the result. Keys absent
// from data keep their default.
func Parse(data []byte) (Config, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.SiteURL == "" && strings.HasPrefix(cfg.SearchConsoleSiteURL, "http") {
		cfg.SiteURL = cfg.SearchConsoleSiteURL
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required fields and ranges.
func (c Config) Validate() error {
	var problems []string
	if c.GA4PropertyID == "" {
		problems = append(problems, "ga4_property_id is required")
	}
	if c.SearchConsoleSiteURL == "" {
		problems = append(problems, "search_console_site_url is required")
	}
	if c.SpreadsheetID == "" && c.Workbook == "" {
		problems = append(problems, "one of spreadsheet_id or workbook is required")
	}
	if c.ReportDays <= 0 {
		problems = append(problems, "report_days must be positive")
	}
	if c.SearchLagDays < 0 {
		problems = append(problems, "search_lag_days must not be negative")
	}
	if c.RowLimit <= 0 {
		problems = append(problems, "row_limit must be positive")
	}
	if c.SiteURL != "" {
		if u, err := url.Parse(c.SiteURL); err != nil || u.Host == "" {
			problems = append(problems, "site_url must be an absolute URL")
		}
	}
	if c.CMSBaseURL != "" && c.SiteURL == "" {
		problems = append(problems, "site_url is required with cms_base_url")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// Title returns the summary heading, falling back to the site host.
func (c Config) Title() string {
	name := c.SiteName
	if name == "" {
		if u, err := url.Parse(c.SiteURL); err == nil && u.Host != "" {
			name = u.Host
		}
	}
	if name == "" {
		return "ダッシュボード"
	}
	return name + " ダッシュボード"
}

// Options returns the dashboard refresh options for mode.
func (c Config) Options(mode sheetsync.Mode) sheetsync.Options {
	opts := sheetsync.DefaultOptions()
	opts.Mode = mode
	opts.Title = c.Title()
	opts.Days = c.ReportDays
	opts.RowLimit = c.RowLimit
	opts.Sheets = c.Sheets
	return opts
}
