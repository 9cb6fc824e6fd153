package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// InvalidPageError is returned when a page lacks a required phrase
type InvalidPageError struct {
	Missing string
}

func (e *InvalidPageError) Error() string {
	return fmt.Sprintf("page is not an election results listing: missing %q", e.Missing)
}

// Validate checks that the visible text of sel contains every phrase.
// It only guards against obviously wrong pages such as error pages.
func Validate(sel *goquery.Selection, phrases []string) error {
	text := NormalizedText(sel)
	for _, phrase := range phrases {
		if !strings.Contains(text, collapseSpace(phrase)) {
			return &InvalidPageError{Missing: phrase}
		}
	}
	return nil
}

// IsResultsPage reports whether Validate accepts sel
func IsResultsPage(sel *goquery.Selection, phrases []string) bool {
	return Validate(sel, phrases) == nil
}

// NormalizedText joins the trimmed text nodes under sel with single spaces
// and collapses any remaining whitespace runs. Script and style contents
// are not visible text and are left out.
func NormalizedText(sel *goquery.Selection) string {
	var parts []string
	for _, n := range sel.Nodes {
		collectText(n, &parts)
	}
	return collapseSpace(strings.Join(parts, " "))
}

func collectText(n *html.Node, parts *[]string) {
	switch n.Type {
	case html.TextNode:
		if s := strings.TrimSpace(n.Data); s != "" {
			*parts = append(*parts, s)
		}
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		if n.Data == "script" || n.Data == "style" {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// collapseSpace replaces whitespace runs, including non-breaking spaces,
// with a single space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
