// Package config loads volby-scraper settings from JSON5 files.
//
// Settings start from Default. A config file such as scraper.json5 is merged
// on top, then an optional scraper.local.json5 next to it. Command-line flags
// are applied last by the cli package.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

const (
	DefaultBaseURL           = "https://www.volby.cz/pls/ps2017nss/"
	DefaultResultsTableClass = "table"
	DefaultSummaryTableID    = "ps311_t1"
	DefaultUserAgent         = "volby-scraper/1.0 (github.com/pfrederiksen/volby-scraper)"
	DefaultTimeoutSeconds    = 30
)

// DefaultRequiredPhrases must all appear on a genuine results index page
var DefaultRequiredPhrases = []string{
	"Volby do Poslanecké sněmovny Parlamentu České republiky konané ve dnech",
	"Výsledky hlasování za územní celky – výběr obce",
}

// KnownFormats are the output formats the export package can write
var KnownFormats = []string{"csv", "json", "xlsx", "sqlite", "txt"}

// Config holds every tunable of a scraping run
type Config struct {
	BaseURL            string   `json:"base_url"`
	ResultsTableClass  string   `json:"results_table_class"`
	SummaryTableID     string   `json:"summary_table_id"`
	RequiredPhrases    []string `json:"required_phrases"`
	UserAgent          string   `json:"user_agent"`
	TimeoutSeconds     int      `json:"timeout_seconds"`
	Workers            int      `json:"workers"`
	InsecureSkipVerify bool     `json:"insecure_skip_verify"`
	Formats            []string `json:"formats"`
	Extended           bool     `json:"extended"`
	LogLevel           string   `json:"log_level"`
	// SnapshotDir keeps raw records of each run; empty disables snapshots
	SnapshotDir string `json:"snapshot_dir"`
}

// Default returns the settings of a plain run against volby.cz
func Default() Config {
	return Config{
		BaseURL:           DefaultBaseURL,
		ResultsTableClass: DefaultResultsTableClass,
		SummaryTableID:    DefaultSummaryTableID,
		RequiredPhrases:   append([]string{}, DefaultRequiredPhrases...),
		UserAgent:         DefaultUserAgent,
		TimeoutSeconds:    DefaultTimeoutSeconds,
		Workers:           1,
		Formats:           []string{"csv"},
		LogLevel:          "info",
	}
}

// Timeout returns TimeoutSeconds as a duration
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate reports the first setting that cannot be used
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url %q: %w", c.BaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url %q: must be absolute", c.BaseURL)
	}
	if c.Workers < 1 {
		return fmt.Errorf("invalid workers: %d (must be at least 1)", c.Workers)
	}
	if c.TimeoutSeconds < 1 {
		return fmt.Errorf("invalid timeout_seconds: %d (must be at least 1)", c.TimeoutSeconds)
	}
	if len(c.Formats) == 0 {
		return fmt.Errorf("no output formats configured")
	}
	for _, f := range c.Formats {
		if !isKnownFormat(f) {
			return fmt.Errorf("invalid format: %s (must be one of %s)", f, strings.Join(KnownFormats, ", "))
		}
	}
	return nil
}

func isKnownFormat(f string) bool {
	for _, known := range KnownFormats {
		if strings.EqualFold(f, known) {
			return true
		}
	}
	return false
}

func splitExt(name string) (string, string) {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext), ext
}

// LocalPath returns the override file read alongside name,
// e.g. scraper.json5 -> scraper.local.json5
func LocalPath(name string) string {
	prefix, ext := splitExt(name)
	return prefix + ".local" + ext
}

// Load merges the file at name and its local override onto Default.
// An empty name returns Default. It is an error for both files to be missing.
func Load(name string) (Config, error) {
	out := Default()
	if name == "" {
		return out, nil
	}

	found := false
	for _, path := range []string{name, LocalPath(name)} {
		ok, err := mergeFile(&out, path)
		if err != nil {
			return out, err
		}
		found = found || ok
	}
	if !found {
		return out, fmt.Errorf("reading config %s: %w", name, os.ErrNotExist)
	}

	return out, nil
}

// fileConfig is one config file as written. Pointer fields tell an explicit
// false, 0 or "" apart from a key that was left out.
type fileConfig struct {
	Config
	InsecureSkipVerify *bool   `json:"insecure_skip_verify"`
	Extended           *bool   `json:"extended"`
	Workers            *int    `json:"workers"`
	TimeoutSeconds     *int    `json:"timeout_seconds"`
	SnapshotDir        *string `json:"snapshot_dir"`
}

// apply copies the keys present in f onto dst
func (f fileConfig) apply(dst *Config) error {
	if err := mergo.Merge(dst, f.Config, mergo.WithOverride); err != nil {
		return err
	}
	if f.InsecureSkipVerify != nil {
		dst.InsecureSkipVerify = *f.InsecureSkipVerify
	}
	if f.Extended != nil {
		dst.Extended = *f.Extended
	}
	if f.Workers != nil {
		dst.Workers = *f.Workers
	}
	if f.TimeoutSeconds != nil {
		dst.TimeoutSeconds = *f.TimeoutSeconds
	}
	if f.SnapshotDir != nil {
		dst.SnapshotDir = *f.SnapshotDir
	}
	return nil
}

func mergeFile(dst *Config, path string) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading config %s: %w", path, err)
	}
	if len(data) == 0 {
		return true, nil
	}

	var override fileConfig
	if err := json5.Unmarshal(data, &override); err != nil {
		return false, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := override.apply(dst); err != nil {
		return false, fmt.Errorf("merging config %s: %w", path, err)
	}
	return true, nil
}
