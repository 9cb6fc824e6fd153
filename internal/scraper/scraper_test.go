package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pfrederiksen/volby-scraper/internal/config"
	"github.com/pfrederiksen/volby-scraper/internal/election"
	"github.com/pfrederiksen/volby-scraper/internal/logger"
)

func newTestScraper(t *testing.T, server *httptest.Server, workers int) *Scraper {
	t.Helper()
	s, err := New(NewClient(ClientOptions{Timeout: 5 * time.Second}), Options{
		BaseURL:           server.URL + "/pls/ps2017nss/",
		ResultsTableClass: config.DefaultResultsTableClass,
		SummaryTableID:    config.DefaultSummaryTableID,
		RequiredPhrases:   config.DefaultRequiredPhrases,
		Workers:           workers,
	}, logger.NewMetrics())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func fixtureSite(t *testing.T) resultsSite {
	return resultsSite{
		index: loadFixture(t, "index.html"),
		details: map[string]string{
			"500054": loadFixture(t, "detail_500054.html"),
			"500224": loadFixture(t, "detail_500224.html"),
		},
	}
}

func TestRun(t *testing.T) {
	server := fixtureSite(t).start(t)

	for _, workers := range []int{1, 3} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			s := newTestScraper(t, server, workers)

			records, err := s.Run(context.Background(), server.URL+"/pls/ps2017nss/ps32?xjazyk=CZ&xkraj=1&xnumnuts=1100")
			if err != nil {
				t.Fatalf("Run() unexpected error: %v", err)
			}

			codes := make([]string, 0, len(records))
			for _, rec := range records {
				codes = append(codes, rec.Code)
			}
			if diff := cmp.Diff([]string{"500054", "500224", "547034"}, codes); diff != "" {
				t.Fatalf("record order mismatch (-want +got):\n%s", diff)
			}

			praha1 := records[0]
			if praha1.Err != nil {
				t.Errorf("Praha 1: unexpected error: %v", praha1.Err)
			}
			if praha1.Summary == nil || praha1.Summary.VotersRegistered != "21556" {
				t.Errorf("Praha 1: unexpected summary %+v", praha1.Summary)
			}
			if len(praha1.Parties) != 3 {
				t.Errorf("Praha 1: expected 3 parties, got %d", len(praha1.Parties))
			}

			praha10 := records[1]
			if praha10.Summary != nil {
				t.Errorf("Praha 10: expected nil summary for short table, got %+v", praha10.Summary)
			}
			if len(praha10.Parties) != 2 {
				t.Errorf("Praha 10: expected 2 parties, got %d", len(praha10.Parties))
			}

			praha11 := records[2]
			var statusErr *StatusError
			if !errors.As(praha11.Err, &statusErr) || statusErr.StatusCode != http.StatusInternalServerError {
				t.Errorf("Praha 11: expected 500 StatusError, got %v", praha11.Err)
			}
			if praha11.Summary != nil || len(praha11.Parties) != 0 {
				t.Errorf("Praha 11: expected empty record, got %+v", praha11)
			}

			m := s.Metrics()
			if got := m.Counter("pages.fetched"); got != 3 {
				t.Errorf("pages.fetched = %d, want 3", got)
			}
			if got := m.Counter("locations.failed"); got != 1 {
				t.Errorf("locations.failed = %d, want 1", got)
			}
		})
	}
}

func TestRun_IndexFailures(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		index   string
		checkFn func(*testing.T, error)
	}{
		{
			name: "non-200 index",
			path: "/missing",
			checkFn: func(t *testing.T, err error) {
				var statusErr *StatusError
				if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
					t.Errorf("expected 404 StatusError, got %v", err)
				}
			},
		},
		{
			name:  "not a results page",
			path:  "/pls/ps2017nss/ps32",
			index: `<html><body><h1>Údržba systému</h1></body></html>`,
			checkFn: func(t *testing.T, err error) {
				var invalid *InvalidPageError
				if !errors.As(err, &invalid) {
					t.Errorf("expected InvalidPageError, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := resultsSite{index: tt.index}.start(t)
			s := newTestScraper(t, server, 1)

			records, err := s.Run(context.Background(), server.URL+tt.path)
			if err == nil {
				t.Fatal("Run() expected error, got nil")
			}
			if records != nil {
				t.Errorf("expected no records, got %d", len(records))
			}
			tt.checkFn(t, err)
		})
	}
}

func TestRun_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	s, err := New(NewClient(ClientOptions{Timeout: time.Second}), Options{BaseURL: url + "/"}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := s.Run(context.Background(), url+"/index"); err == nil {
		t.Error("Run() expected transport error, got nil")
	}
}

func TestRun_Cancelled(t *testing.T) {
	server := fixtureSite(t).start(t)
	s := newTestScraper(t, server, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Run(ctx, server.URL+"/pls/ps2017nss/ps32"); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

// The worked example from the results format: one municipality, two parties.
func TestRun_ExampleFlattensToOneRow(t *testing.T) {
	index := `<html><body>
		<h1>Volby do Poslanecké sněmovny Parlamentu České republiky konané ve dnech 20.10. – 21.10.2017</h1>
		<h3>Výsledky hlasování za územní celky – výběr obce</h3>
		<table class="table">
			<tr><td><a href="ps311?xjazyk=CZ&amp;xkraj=1&amp;xobec=500054">1</a></td><td>Obec A</td><td>X</td></tr>
		</table>
	</body></html>`
	detail := `<html><body>
		<table class="table" id="ps311_t1"><tr>
			<td>6</td><td>6</td><td>100%</td><td>500</td><td>450</td><td>90%</td><td>448</td><td>440</td><td>97.8%</td>
		</tr></table>
		<table class="table">
			<tr><td>1</td><td>Party X</td><td>300</td><td>68%</td></tr>
			<tr><td>2</td><td>Party Y</td><td>140</td><td>32%</td></tr>
		</table>
	</body></html>`

	server := resultsSite{index: index, details: map[string]string{"500054": detail}}.start(t)
	s := newTestScraper(t, server, 1)

	records, err := s.Run(context.Background(), server.URL+"/pls/ps2017nss/ps32")
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	table := election.Flatten(records, election.FlattenOptions{})

	wantHeader := []string{"code", "location", "registred", "envelopes", "valid", "Party X", "Party Y"}
	if diff := cmp.Diff(wantHeader, table.Header()); diff != "" {
		t.Errorf("Header() mismatch (-want +got):\n%s", diff)
	}
	wantRows := [][]string{{"1", "Obec A", "500", "450", "440", "300", "140"}}
	if diff := cmp.Diff(wantRows, table.Records()); diff != "" {
		t.Errorf("Records() mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchDocument_DecodesCharset(t *testing.T) {
	// "Třebíč" in windows-1250
	body := []byte("<html><body><p>T\xf8eb\xed\xe8</p></body></html>")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=windows-1250")
		w.Write(body)
	}))
	defer server.Close()

	doc, err := NewClient(ClientOptions{}).FetchDocument(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchDocument() unexpected error: %v", err)
	}
	if got := doc.Find("p").Text(); got != "Třebíč" {
		t.Errorf("text = %q, want %q", got, "Třebíč")
	}
}

func TestFetchDocument_TLSVerification(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body><p>ok</p></body></html>"))
	}))
	defer server.Close()

	tests := []struct {
		name     string
		insecure bool
		wantErr  bool
	}{
		{"self-signed certificate rejected by default", false, true},
		{"self-signed certificate accepted when insecure", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(ClientOptions{Timeout: 5 * time.Second, InsecureSkipVerify: tt.insecure})
			doc, err := client.FetchDocument(context.Background(), server.URL)
			if tt.wantErr {
				if err == nil {
					t.Fatal("FetchDocument() expected certificate error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("FetchDocument() unexpected error: %v", err)
			}
			if got := doc.Find("p").Text(); got != "ok" {
				t.Errorf("text = %q, want %q", got, "ok")
			}
		})
	}
}
