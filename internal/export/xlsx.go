package export

import (
	"fmt"

	"github.com/pfrederiksen/volby-scraper/internal/election"
	"github.com/xuri/excelize/v2"
)

const sheetName = "results"

// WriteXLSX writes t to a workbook with a single sheet. Party columns are
// stored as numbers, fixed columns as text.
func WriteXLSX(path string, t *election.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]interface{}, 0, len(t.Columns)+len(t.Parties))
	for _, h := range t.Header() {
		header = append(header, h)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range t.Rows {
		values := make([]interface{}, 0, len(header))
		for _, c := range t.Columns {
			values = append(values, row.Fixed[c])
		}
		for _, p := range t.Parties {
			values = append(values, t.Votes(i, p))
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	return f.SaveAs(path)
}
