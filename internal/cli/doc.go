// Package cli implements the command-line interface for volby-scraper.
//
// The root command takes an index page URL and an output base name, loads
// settings from an optional JSON5 config file, applies flag overrides, runs
// the scraper and writes the flattened table in every requested format. A
// short run report is printed to stdout as text or JSON; logs go to stderr.
// Raw records can be kept in a snapshot directory and exported again offline.
package cli
