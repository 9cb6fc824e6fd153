package scraper

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pfrederiksen/volby-scraper/internal/election"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("url.Parse(%q): %v", raw, err)
	}
	return u
}

func TestExtractLocations_Fixture(t *testing.T) {
	doc := mustDocument(t, loadFixture(t, "index.html"))
	base := mustURL(t, "https://www.volby.cz/pls/ps2017nss/")

	refs := ExtractLocations(doc.Selection, base, "table")

	want := []election.LocationRef{
		{
			Code:      "500054",
			Name:      "Praha 1",
			DetailURL: "https://www.volby.cz/pls/ps2017nss/ps311?xjazyk=CZ&xkraj=1&xobec=500054&xvyber=1100",
		},
		{
			Code:      "500224",
			Name:      "Praha 10",
			DetailURL: "https://www.volby.cz/pls/ps2017nss/ps311?xjazyk=CZ&xkraj=1&xobec=500224&xvyber=1100",
		},
		{
			Code:      "547034",
			Name:      "Praha 11",
			DetailURL: "https://www.volby.cz/pls/ps2017nss/ps311?xjazyk=CZ&xkraj=1&xobec=547034&xvyber=1100",
		},
	}
	if diff := cmp.Diff(want, refs); diff != "" {
		t.Errorf("ExtractLocations() mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractLocations_RowShapes(t *testing.T) {
	base := mustURL(t, "https://www.volby.cz/pls/ps2017nss/")

	tests := []struct {
		name     string
		html     string
		expected []string // codes
	}{
		{
			name: "example row",
			html: `<table class="table"><tr>
				<td><a href="ps311?xjazyk=CZ&amp;xkraj=1&amp;xobec=500054">1</a></td><td>Obec A</td><td>X</td>
			</tr></table>`,
			expected: []string{"1"},
		},
		{
			name: "four cells skipped",
			html: `<table class="table"><tr>
				<td><a href="ps311">1</a></td><td>A</td><td>X</td><td>extra</td>
			</tr></table>`,
			expected: []string{},
		},
		{
			name:     "no link skipped",
			html:     `<table class="table"><tr><td>1</td><td>A</td><td>X</td></tr></table>`,
			expected: []string{},
		},
		{
			name:     "link without href skipped",
			html:     `<table class="table"><tr><td><a name="x">1</a></td><td>A</td><td>X</td></tr></table>`,
			expected: []string{},
		},
		{
			name:     "header rows skipped",
			html:     `<table class="table"><tr><th>číslo</th><th>název</th><th>výběr</th></tr></table>`,
			expected: []string{},
		},
		{
			name: "duplicates pass through",
			html: `<table class="table">
				<tr><td><a href="ps311?xobec=1">1</a></td><td>A</td><td>X</td></tr>
				<tr><td><a href="ps311?xobec=1">1</a></td><td>A</td><td>X</td></tr>
			</table>`,
			expected: []string{"1", "1"},
		},
		{
			name: "document order across tables",
			html: `<table class="table"><tr><td><a href="a">2</a></td><td>B</td><td>X</td></tr></table>
				<table class="other"><tr><td><a href="c">9</a></td><td>Z</td><td>X</td></tr></table>
				<table class="table wide"><tr><td><a href="b">1</a></td><td>A</td><td>X</td></tr></table>`,
			expected: []string{"2", "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refs := ExtractLocations(mustDocument(t, tt.html).Selection, base, "table")

			codes := make([]string, 0, len(refs))
			for _, r := range refs {
				codes = append(codes, r.Code)
			}
			if diff := cmp.Diff(tt.expected, codes); diff != "" {
				t.Errorf("codes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractLocations_ResolvesHref(t *testing.T) {
	base := mustURL(t, "https://www.volby.cz/pls/ps2017nss/")
	html := `<table class="table">
		<tr><td><a href=" ps311?xobec=1 ">1</a></td><td> Obec A&nbsp;</td><td>X</td></tr>
		<tr><td><a href="/pls/ps2021/ps311?xobec=2">2</a></td><td>B</td><td>X</td></tr>
		<tr><td><a href="https://mirror.example.com/ps311?xobec=3">3</a></td><td>C</td><td>X</td></tr>
	</table>`

	refs := ExtractLocations(mustDocument(t, html).Selection, base, "table")

	want := []election.LocationRef{
		{Code: "1", Name: "Obec A", DetailURL: "https://www.volby.cz/pls/ps2017nss/ps311?xobec=1"},
		{Code: "2", Name: "B", DetailURL: "https://www.volby.cz/pls/ps2021/ps311?xobec=2"},
		{Code: "3", Name: "C", DetailURL: "https://mirror.example.com/ps311?xobec=3"},
	}
	if diff := cmp.Diff(want, refs); diff != "" {
		t.Errorf("ExtractLocations() mismatch (-want +got):\n%s", diff)
	}
}
