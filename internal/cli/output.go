package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// ReportFormat specifies how the run report is printed
type ReportFormat string

const (
	ReportText ReportFormat = "text"
	ReportJSON ReportFormat = "json"
)

// RunReport summarises a finished run
type RunReport struct {
	IndexURL    string    `json:"index_url"`
	CompletedAt time.Time `json:"completed_at"`
	Locations   int       `json:"locations"`
	Parties     int       `json:"parties"`
	Failed      []string  `json:"failed"`
	Files       []string  `json:"files"`
}

// WriteReport writes the report in the specified format
func WriteReport(w io.Writer, report *RunReport, format ReportFormat) error {
	switch format {
	case ReportJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	case ReportText:
		return writeTextReport(w, report)
	default:
		return fmt.Errorf("unknown report format: %s", format)
	}
}

func writeTextReport(w io.Writer, report *RunReport) error {
	fmt.Fprintf(w, "Scraped %d locations with %d parties from %s\n",
		report.Locations, report.Parties, report.IndexURL)

	if len(report.Failed) > 0 {
		fmt.Fprintf(w, "Detail pages that could not be fetched (%d):\n", len(report.Failed))
		for _, code := range report.Failed {
			fmt.Fprintf(w, "  %s\n", code)
		}
	}

	for _, path := range report.Files {
		fmt.Fprintf(w, "Results saved to: %s\n", path)
	}
	return nil
}
