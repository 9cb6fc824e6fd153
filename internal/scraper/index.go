package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/volby-scraper/internal/election"
)

// resultTables returns the tables under sel carrying class, in document order
func resultTables(sel *goquery.Selection, class string) *goquery.Selection {
	return sel.Find("table").FilterFunction(func(_ int, t *goquery.Selection) bool {
		return t.HasClass(class)
	})
}

// ExtractLocations lists the municipalities of an index page. Only rows with
// exactly three cells and a link in the first one are kept; hrefs are
// resolved against base. Duplicates are returned as they appear.
func ExtractLocations(sel *goquery.Selection, base *url.URL, class string) []election.LocationRef {
	refs := make([]election.LocationRef, 0)

	resultTables(sel, class).Each(func(_ int, table *goquery.Selection) {
		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			if ref, ok := parseLocationRow(row, base); ok {
				refs = append(refs, ref)
			}
		})
	})

	return refs
}

// parseLocationRow reads one index row: code link, name, unused third cell
func parseLocationRow(row *goquery.Selection, base *url.URL) (election.LocationRef, bool) {
	cells := row.Find("td")
	if cells.Length() != 3 {
		return election.LocationRef{}, false
	}

	link := cells.Eq(0).Find("a").First()
	href, ok := link.Attr("href")
	if !ok {
		return election.LocationRef{}, false
	}

	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return election.LocationRef{}, false
	}

	return election.LocationRef{
		Code:      strings.TrimSpace(link.Text()),
		Name:      strings.TrimSpace(cells.Eq(1).Text()),
		DetailURL: base.ResolveReference(ref).String(),
	}, true
}
