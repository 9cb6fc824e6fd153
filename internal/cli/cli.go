package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pfrederiksen/volby-scraper/internal/config"
	"github.com/pfrederiksen/volby-scraper/internal/election"
	"github.com/pfrederiksen/volby-scraper/internal/export"
	"github.com/pfrederiksen/volby-scraper/internal/logger"
	"github.com/pfrederiksen/volby-scraper/internal/scraper"
	"github.com/pfrederiksen/volby-scraper/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig   string
	flagBaseURL  string
	flagFormats  []string
	flagWorkers  int
	flagTimeout  time.Duration
	flagInsecure bool
	flagExtended bool
	flagReport   string
	flagVerbose  bool
	flagSnapshot string
	flagOffline  bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "volby-scraper <index-url> <output-name>",
		Short: "Scrape election results by municipality into one table",
		Long: `Scrape Czech parliamentary election results from volby.cz.

Starting from a region's "výběr obce" index page, every listed municipality
is fetched and its summary and party results are flattened into one table:
one row per municipality, one column per party. The table is written to
<output-name>.csv (and any other --format).

With --snapshot-dir the raw records of the run are saved as well, and
--offline exports a saved snapshot again without fetching any page.`,
		Example: `  volby-scraper "https://www.volby.cz/pls/ps2017nss/ps32?xjazyk=CZ&xkraj=12&xnumnuts=7103" prostejov`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("expected 2 arguments, got %d\nUsage: %s", len(args), cmd.UseLine())
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runScrape,
	}

	cmd.Flags().StringVar(&flagConfig, "config", "", "JSON5 config file (a .local override next to it is merged too)")
	cmd.Flags().StringVar(&flagBaseURL, "base-url", config.DefaultBaseURL, "Base URL that relative detail links are resolved against")
	cmd.Flags().StringSliceVar(&flagFormats, "format", []string{"csv"}, "Output formats: csv, json, xlsx, sqlite, txt")
	cmd.Flags().IntVar(&flagWorkers, "workers", 1, "Number of detail pages fetched concurrently")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", config.DefaultTimeoutSeconds*time.Second, "Timeout for each HTTP request")
	cmd.Flags().BoolVar(&flagInsecure, "insecure", false, "Skip TLS certificate verification")
	cmd.Flags().BoolVar(&flagExtended, "extended", false, "Also write the remaining summary columns")
	cmd.Flags().StringVar(&flagReport, "report", "text", "Run report format: text or json")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
	cmd.Flags().StringVar(&flagSnapshot, "snapshot-dir", "", "Directory where the raw records of each run are saved")
	cmd.Flags().BoolVar(&flagOffline, "offline", false, "Export the saved snapshot for <index-url> instead of fetching pages")

	return cmd
}

// loadConfig reads the config file and applies the flags that were set
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = flagBaseURL
	}
	if flags.Changed("format") {
		cfg.Formats = flagFormats
	}
	if flags.Changed("workers") {
		cfg.Workers = flagWorkers
	}
	if flags.Changed("timeout") {
		cfg.TimeoutSeconds = int((flagTimeout + time.Second - 1) / time.Second)
	}
	if flags.Changed("insecure") {
		cfg.InsecureSkipVerify = flagInsecure
	}
	if flags.Changed("extended") {
		cfg.Extended = flagExtended
	}
	if flags.Changed("snapshot-dir") {
		cfg.SnapshotDir = flagSnapshot
	}
	if flagVerbose {
		cfg.LogLevel = string(logger.LevelDebug)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// runScrape is the main command logic
func runScrape(cmd *cobra.Command, args []string) error {
	indexURL := strings.TrimSpace(args[0])
	outputName := strings.TrimSpace(args[1])
	if outputName == "" {
		return fmt.Errorf("output name must not be empty")
	}

	reportFormat := ReportFormat(strings.ToLower(flagReport))
	if reportFormat != ReportText && reportFormat != ReportJSON {
		return fmt.Errorf("invalid report format: %s (must be 'text' or 'json')", flagReport)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	formats := make([]export.Format, 0, len(cfg.Formats))
	for _, name := range cfg.Formats {
		f, err := export.ParseFormat(name)
		if err != nil {
			return err
		}
		formats = append(formats, f)
	}

	var store *storage.Storage
	if cfg.SnapshotDir != "" {
		store, err = storage.New(cfg.SnapshotDir)
		if err != nil {
			return fmt.Errorf("initializing storage: %w", err)
		}
	}

	metrics := logger.NewMetrics()
	var records []election.LocationRecord
	if flagOffline {
		if store == nil {
			return fmt.Errorf("--offline requires --snapshot-dir (or snapshot_dir in the config)")
		}
		records, err = store.LoadSnapshot(indexURL)
		if err != nil {
			return fmt.Errorf("loading snapshot: %w", err)
		}
		logger.Info("loaded snapshot", logger.Fields{"path": store.SnapshotPath(indexURL), "locations": len(records)})
	} else {
		records, err = scrape(cmd.Context(), cfg, indexURL, metrics)
		if err != nil {
			return err
		}
		if store != nil {
			if err := store.SaveSnapshot(indexURL, records); err != nil {
				return err
			}
			logger.Info("saved snapshot", logger.Fields{"path": store.SnapshotPath(indexURL)})
		}
	}

	table := election.Flatten(records, election.FlattenOptions{Extended: cfg.Extended})

	report := &RunReport{
		IndexURL:  indexURL,
		Locations: len(table.Rows),
		Parties:   len(table.Parties),
		Failed:    failedCodes(records),
		Files:     make([]string, 0, len(formats)),
	}

	for _, f := range formats {
		path, err := export.Write(table, outputName, f)
		if err != nil {
			return err
		}
		logger.Info("wrote results", logger.Fields{"path": path, "format": string(f), "rows": len(table.Rows)})
		report.Files = append(report.Files, path)
	}

	logger.Default().LogMetrics(metrics)

	report.CompletedAt = time.Now().UTC()
	if err := WriteReport(cmd.OutOrStdout(), report, reportFormat); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	return nil
}

// scrape fetches the index page and every detail page it lists
func scrape(ctx context.Context, cfg config.Config, indexURL string, metrics *logger.Metrics) ([]election.LocationRecord, error) {
	if cfg.InsecureSkipVerify {
		logger.Warn("TLS certificate verification is disabled", nil, nil)
	}

	client := scraper.NewClient(scraper.ClientOptions{
		UserAgent:          cfg.UserAgent,
		Timeout:            cfg.Timeout(),
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	})
	sc, err := scraper.New(client, scraper.Options{
		BaseURL:           cfg.BaseURL,
		ResultsTableClass: cfg.ResultsTableClass,
		SummaryTableID:    cfg.SummaryTableID,
		RequiredPhrases:   cfg.RequiredPhrases,
		Workers:           cfg.Workers,
	}, metrics)
	if err != nil {
		return nil, fmt.Errorf("initializing scraper: %w", err)
	}

	start := time.Now()
	records, err := sc.Run(ctx, indexURL)
	if err != nil {
		return nil, fmt.Errorf("scraping %s: %w", indexURL, err)
	}
	metrics.RecordTiming("run", time.Since(start))

	return records, nil
}

func failedCodes(records []election.LocationRecord) []string {
	failed := make([]string, 0)
	for _, rec := range records {
		if rec.Err != nil {
			failed = append(failed, rec.Code)
		}
	}
	return failed
}

// Execute runs the CLI. SIGINT and SIGTERM cancel in-flight requests.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(ExitError)
	}
}
