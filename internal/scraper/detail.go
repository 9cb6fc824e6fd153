package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/volby-scraper/internal/election"
)

// partyCellCount is the minimum number of cells in a party results row
const partyCellCount = 4

// ExtractSummary reads the first nine cells of the table with id tableID.
// It returns nil when the table is missing or has fewer cells.
func ExtractSummary(sel *goquery.Selection, tableID string) *election.Summary {
	table := sel.Find("table").FilterFunction(func(_ int, t *goquery.Selection) bool {
		id, _ := t.Attr("id")
		return id == tableID
	}).First()
	if table.Length() == 0 {
		return nil
	}

	cells := table.Find("td")
	if cells.Length() < election.SummaryFieldCount {
		return nil
	}

	values := make([]string, 0, election.SummaryFieldCount)
	cells.Slice(0, election.SummaryFieldCount).Each(func(_ int, cell *goquery.Selection) {
		values = append(values, election.CleanCell(cell.Text()))
	})
	return election.NewSummary(values)
}

// ExtractParties reads party rows from every results table except the first.
// The first table is skipped by position, not by content.
func ExtractParties(sel *goquery.Selection, class string) []election.PartyResult {
	parties := make([]election.PartyResult, 0)

	resultTables(sel, class).Each(func(i int, table *goquery.Selection) {
		if i == 0 {
			return
		}
		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			if party, ok := parsePartyRow(row); ok {
				parties = append(parties, party)
			}
		})
	})

	return parties
}

// parsePartyRow reads number, name, votes and percentage from the first
// four cells of row. Header rows and short rows are rejected.
func parsePartyRow(row *goquery.Selection) (election.PartyResult, bool) {
	cells := row.Find("td")
	if cells.Length() < partyCellCount {
		return election.PartyResult{}, false
	}

	return election.PartyResult{
		Number:          strings.TrimSpace(cells.Eq(0).Text()),
		Name:            strings.TrimSpace(cells.Eq(1).Text()),
		Votes:           election.CleanCell(cells.Eq(2).Text()),
		VotesPercentage: election.CleanCell(cells.Eq(3).Text()),
	}, true
}
