package export

import (
	"encoding/csv"
	"io"

	"github.com/pfrederiksen/volby-scraper/internal/election"
)

// utf8BOM marks the file as UTF-8 for spreadsheet programs
const utf8BOM = "\ufeff"

// WriteCSV writes t as comma-separated values with a BOM and a header row
func WriteCSV(w io.Writer, t *election.Table) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header()); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Records()); err != nil {
		return err
	}
	return cw.Error()
}
