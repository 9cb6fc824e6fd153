package scraper

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/pfrederiksen/volby-scraper/internal/election"
	"github.com/pfrederiksen/volby-scraper/internal/logger"
	"golang.org/x/sync/errgroup"
)

// Options selects what the scraper looks for on each page
type Options struct {
	// BaseURL resolves the relative detail links of the index page
	BaseURL           string
	ResultsTableClass string
	SummaryTableID    string
	RequiredPhrases   []string
	// Workers bounds concurrent detail fetches; 1 fetches sequentially
	Workers int
}

// Scraper walks an index page and all of its detail pages
type Scraper struct {
	client  Fetcher
	base    *url.URL
	opts    Options
	metrics *logger.Metrics
}

// New creates a Scraper. A nil metrics gets a fresh tracker.
func New(client Fetcher, opts Options, metrics *logger.Metrics) (*Scraper, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if metrics == nil {
		metrics = logger.NewMetrics()
	}

	return &Scraper{
		client:  client,
		base:    base,
		opts:    opts,
		metrics: metrics,
	}, nil
}

// Metrics returns the tracker the scraper records into
func (s *Scraper) Metrics() *logger.Metrics {
	return s.metrics
}

// Run fetches and validates the index page, then fetches every listed
// location. Records are returned in index order. Failures on the index page
// are returned as errors; failures on a detail page are not.
func (s *Scraper) Run(ctx context.Context, indexURL string) ([]election.LocationRecord, error) {
	logger.Info("fetching index page", logger.Fields{"url": indexURL})

	doc, err := s.client.FetchDocument(ctx, indexURL)
	if err != nil {
		return nil, fmt.Errorf("fetching index page: %w", err)
	}
	s.metrics.IncrCounter("pages.fetched")

	if err := Validate(doc.Selection, s.opts.RequiredPhrases); err != nil {
		return nil, err
	}

	refs := ExtractLocations(doc.Selection, s.base, s.opts.ResultsTableClass)
	logger.Info("found locations", logger.Fields{
		"count":   len(refs),
		"workers": s.opts.Workers,
	})

	return s.FetchLocations(ctx, refs)
}

// FetchLocations fetches refs with at most Options.Workers requests in
// flight. The i-th record always belongs to refs[i].
func (s *Scraper) FetchLocations(ctx context.Context, refs []election.LocationRef) ([]election.LocationRecord, error) {
	records := make([]election.LocationRecord, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records[i] = s.FetchLocation(gctx, ref)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetching locations: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetching locations: %w", err)
	}

	return records, nil
}

// FetchLocation fetches one detail page. A failed fetch is logged and
// recorded in the returned record's Err; the record is still usable.
func (s *Scraper) FetchLocation(ctx context.Context, ref election.LocationRef) election.LocationRecord {
	rec := election.LocationRecord{
		LocationRef: ref,
		Parties:     make([]election.PartyResult, 0),
	}

	start := time.Now()
	doc, err := s.client.FetchDocument(ctx, ref.DetailURL)
	s.metrics.RecordTiming("fetch.detail", time.Since(start))
	if err != nil {
		s.metrics.IncrCounter("locations.failed")
		logger.Warn("skipping location detail", logger.Fields{
			"code": ref.Code,
			"name": ref.Name,
			"url":  ref.DetailURL,
		}, err)
		rec.Err = err
		return rec
	}
	s.metrics.IncrCounter("pages.fetched")

	logger.Debug("fetched location", logger.Fields{"code": ref.Code, "url": ref.DetailURL})

	rec.Summary = ExtractSummary(doc.Selection, s.opts.SummaryTableID)
	if rec.Summary == nil {
		s.metrics.IncrCounter("summaries.missing")
	}
	rec.Parties = ExtractParties(doc.Selection, s.opts.ResultsTableClass)
	s.metrics.Add("parties.rows", int64(len(rec.Parties)))

	return rec
}
