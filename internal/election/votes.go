package election

import (
	"strconv"
	"strings"
)

// NBSP is the thousands separator used by the results pages
const NBSP = "\u00a0"

// ParseVotes converts a vote count such as "1 234" to an int. Spaces and
// non-breaking spaces are removed first; anything that is not then a
// non-negative integer yields 0.
func ParseVotes(s string) int {
	cleaned := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\u00a0' {
			return -1
		}
		return r
	}, s)
	if cleaned == "" {
		return 0
	}
	for i := 0; i < len(cleaned); i++ {
		if cleaned[i] < '0' || cleaned[i] > '9' {
			return 0
		}
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0
	}
	return n
}

// CleanCell trims a cell's text and strips non-breaking spaces from it
func CleanCell(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), NBSP, "")
}
