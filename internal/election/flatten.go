package election

import (
	"strconv"
	"strings"
)

// Column is a fixed, non-party output column
type Column int

const (
	ColumnCode Column = iota
	ColumnLocation
	ColumnRegistered
	ColumnEnvelopes
	ColumnValid
	ColumnDistrictsTotal
	ColumnDistrictsReported
	ColumnDistrictsPercentage
	ColumnTurnoutPercentage
	ColumnEnvelopesSubmitted
	ColumnValidVotesPercentage
)

// Header names. "registred" is the historical spelling of the output file.
var columnNames = map[Column]string{
	ColumnCode:                 "code",
	ColumnLocation:             "location",
	ColumnRegistered:           "registred",
	ColumnEnvelopes:            "envelopes",
	ColumnValid:                "valid",
	ColumnDistrictsTotal:       "districts_total",
	ColumnDistrictsReported:    "districts_reported",
	ColumnDistrictsPercentage:  "districts_percentage",
	ColumnTurnoutPercentage:    "turnout_percentage",
	ColumnEnvelopesSubmitted:   "envelopes_submitted",
	ColumnValidVotesPercentage: "valid_votes_percentage",
}

func (c Column) String() string {
	if name, ok := columnNames[c]; ok {
		return name
	}
	return "column(" + strconv.Itoa(int(c)) + ")"
}

// DefaultColumns are the fixed columns written by a standard run
var DefaultColumns = []Column{
	ColumnCode,
	ColumnLocation,
	ColumnRegistered,
	ColumnEnvelopes,
	ColumnValid,
}

// ExtendedColumns adds the summary fields that a standard run leaves out
var ExtendedColumns = append(append([]Column{}, DefaultColumns...),
	ColumnDistrictsTotal,
	ColumnDistrictsReported,
	ColumnDistrictsPercentage,
	ColumnTurnoutPercentage,
	ColumnEnvelopesSubmitted,
	ColumnValidVotesPercentage,
)

// Row is one flattened location
type Row struct {
	Fixed map[Column]string
	Votes map[string]int
}

// Table is the flattened output of a run.
// Parties lists every party name seen in the run, in first-seen order.
type Table struct {
	Columns []Column
	Parties []string
	Rows    []Row
}

// FlattenOptions controls which fixed columns a Table carries
type FlattenOptions struct {
	Extended bool
}

// Flatten merges records into a Table. Every record yields exactly one row,
// in input order, whether or not it has a summary or any party results.
func Flatten(records []LocationRecord, opts FlattenOptions) *Table {
	columns := DefaultColumns
	if opts.Extended {
		columns = ExtendedColumns
	}

	t := &Table{
		Columns: columns,
		Parties: make([]string, 0),
		Rows:    make([]Row, 0, len(records)),
	}
	seen := make(map[string]bool)

	for _, rec := range records {
		row := Row{
			Fixed: projectFixed(rec),
			Votes: pivotParties(rec.Parties),
		}
		for _, p := range rec.Parties {
			name := strings.TrimSpace(p.Name)
			if !seen[name] {
				seen[name] = true
				t.Parties = append(t.Parties, name)
			}
		}
		t.Rows = append(t.Rows, row)
	}

	return t
}

// projectFixed renames location and summary fields to output columns.
// A missing summary leaves the summary columns empty.
func projectFixed(rec LocationRecord) map[Column]string {
	fixed := map[Column]string{
		ColumnCode:     rec.Code,
		ColumnLocation: rec.Name,
	}
	s := rec.Summary
	if s == nil {
		s = &Summary{}
	}
	fixed[ColumnRegistered] = s.VotersRegistered
	fixed[ColumnEnvelopes] = s.EnvelopesIssued
	fixed[ColumnValid] = s.ValidVotes
	fixed[ColumnDistrictsTotal] = s.DistrictsTotal
	fixed[ColumnDistrictsReported] = s.DistrictsReported
	fixed[ColumnDistrictsPercentage] = s.DistrictsPercentage
	fixed[ColumnTurnoutPercentage] = s.TurnoutPercentage
	fixed[ColumnEnvelopesSubmitted] = s.EnvelopesSubmitted
	fixed[ColumnValidVotesPercentage] = s.ValidVotesPercentage
	return fixed
}

// pivotParties maps trimmed party names to votes; a repeated name keeps the
// last value reported.
func pivotParties(parties []PartyResult) map[string]int {
	votes := make(map[string]int, len(parties))
	for _, p := range parties {
		votes[strings.TrimSpace(p.Name)] = p.VoteCount()
	}
	return votes
}

// Header returns the fixed column names followed by the party names
func (t *Table) Header() []string {
	header := make([]string, 0, len(t.Columns)+len(t.Parties))
	for _, c := range t.Columns {
		header = append(header, c.String())
	}
	return append(header, t.Parties...)
}

// Votes returns the vote count for party in row i, 0 when not reported
func (t *Table) Votes(i int, party string) int {
	return t.Rows[i].Votes[party]
}

// Records renders every row as strings in Header order
func (t *Table) Records() [][]string {
	out := make([][]string, 0, len(t.Rows))
	for i, row := range t.Rows {
		rec := make([]string, 0, len(t.Columns)+len(t.Parties))
		for _, c := range t.Columns {
			rec = append(rec, row.Fixed[c])
		}
		for _, p := range t.Parties {
			rec = append(rec, strconv.Itoa(t.Votes(i, p)))
		}
		out = append(out, rec)
	}
	return out
}
