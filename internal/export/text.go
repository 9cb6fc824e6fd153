package export

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/pfrederiksen/volby-scraper/internal/election"
)

// WriteText renders t as an aligned plain-text table. Header names are
// printed as-is and vote counts are right-aligned.
func WriteText(w io.Writer, t *election.Table) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)

	header := make(table.Row, 0, len(t.Columns)+len(t.Parties))
	for _, h := range t.Header() {
		header = append(header, h)
	}
	tw.AppendHeader(header)

	configs := make([]table.ColumnConfig, 0, len(t.Parties))
	for i := range t.Parties {
		configs = append(configs, table.ColumnConfig{
			Number: len(t.Columns) + i + 1,
			Align:  text.AlignRight,
		})
	}
	tw.SetColumnConfigs(configs)

	for i, row := range t.Rows {
		r := make(table.Row, 0, len(header))
		for _, c := range t.Columns {
			r = append(r, row.Fixed[c])
		}
		for _, p := range t.Parties {
			r = append(r, t.Votes(i, p))
		}
		tw.AppendRow(r)
	}

	tw.Render()
	return nil
}
