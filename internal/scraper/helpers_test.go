package scraper

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const fixtureDir = "../../testdata/fixtures/"

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(fixtureDir + name)
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	return string(data)
}

func mustDocument(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse HTML: %v", err)
	}
	return doc
}

// resultsSite serves an index page at /pls/ps2017nss/ps32 and detail pages at
// /pls/ps2017nss/ps311, keyed by the xobec query parameter. Unknown
// municipalities answer 500.
type resultsSite struct {
	index   string
	details map[string]string
}

func (s resultsSite) start(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userAgent := r.Header.Get("User-Agent"); !strings.Contains(userAgent, "volby-scraper") {
			t.Errorf("User-Agent = %q, should contain 'volby-scraper'", userAgent)
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		switch r.URL.Path {
		case "/pls/ps2017nss/ps32":
			w.Write([]byte(s.index))
		case "/pls/ps2017nss/ps311":
			page, ok := s.details[r.URL.Query().Get("xobec")]
			if !ok {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(page))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}
