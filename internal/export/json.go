package export

import (
	"encoding/json"
	"io"

	"github.com/pfrederiksen/volby-scraper/internal/election"
)

// jsonTable is the JSON document layout: fixed fields by column name and
// one vote entry per party column.
type jsonTable struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// WriteJSON writes t as an indented JSON document
func WriteJSON(w io.Writer, t *election.Table) error {
	doc := jsonTable{
		Columns: t.Header(),
		Rows:    make([]map[string]any, 0, len(t.Rows)),
	}

	for i, row := range t.Rows {
		out := make(map[string]any, len(t.Columns)+1)
		for _, c := range t.Columns {
			out[c.String()] = row.Fixed[c]
		}
		votes := make(map[string]int, len(t.Parties))
		for _, p := range t.Parties {
			votes[p] = t.Votes(i, p)
		}
		out["votes"] = votes
		doc.Rows = append(doc.Rows, out)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}
