package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docscout"
	"github.com/fwojciec/docscout/browse"
	"github.com/fwojciec/docscout/crawl"
	"github.com/fwojciec/docscout/firecrawl"
	"github.com/fwojciec/docscout/gemini"
	"github.com/fwojciec/docscout/goquery"
	"github.com/fwojciec/docscout/htmltomarkdown"
	scouthttp "github.com/fwojciec/docscout/http"
	"github.com/fwojciec/docscout/inmem"
	"github.com/fwojciec/docscout/readability"
	"github.com/fwojciec/docscout/rod"
	scoutslog "github.com/fwojciec/docscout/slog"
	"github.com/fwojciec/docscout/sqlite"
	"github.com/fwojciec/docscout/trafilatura"
)

// version is reported by the MCP server.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database, open when a database path is configured.
	DB *sqlite.DB

	// Services for end-to-end testing. When set they replace the wired
	// implementations.
	Service docscout.BrowseService
	Store   docscout.ReportStore

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		errs = append(errs, m.closers[i].Close())
	}
	m.closers = nil
	if m.DB != nil {
		errs = append(errs, m.DB.Close())
		m.DB = nil
	}
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docscout"),
		kong.Description("Acquire and analyze API documentation for coding agents"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docscout --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	logger, err := newLogger(stderr, cli.LogLevel, cli.LogFormat)
	if err != nil {
		return err
	}
	deps.Logger = logger
	defer m.Close()

	store, err := m.openStore(cli.DB)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Set DOCSCOUT_DB to use a different database path")
		return err
	}
	deps.Store = scoutslog.NewLoggingReportStore(store, logger)

	if cmd != "last" {
		service, err := m.newService(cli, deps.Store, logger)
		if err != nil {
			return err
		}
		deps.Service = service
	}

	return kongCtx.Run(deps)
}

// openStore returns the configured report store: SQLite when path is set,
// memory otherwise.
func (m *Main) openStore(path string) (docscout.ReportStore, error) {
	if m.Store != nil {
		return m.Store, nil
	}
	if path == "" {
		return inmem.NewReportStore(), nil
	}

	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		m.DB = nil
		return nil, fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	return sqlite.NewReportStore(m.DB), nil
}

// newService wires the acquisition chain behind a browse.Browser.
func (m *Main) newService(cli *CLI, store docscout.ReportStore, logger *slog.Logger) (docscout.BrowseService, error) {
	if m.Service != nil {
		return m.Service, nil
	}

	fetcher := scoutslog.NewLoggingFetcher(
		scouthttp.NewFetcher(scouthttp.WithTimeout(cli.Timeout)),
		logger.With("component", "fetcher"),
	)
	m.closers = append(m.closers, fetcher)

	backend, err := m.newCrawlBackend(cli.Crawl, fetcher, logger)
	if err != nil {
		return nil, err
	}

	var tokens docscout.TokenCounter
	if cli.TokenModel != "" {
		tc, err := gemini.NewTokenCounter(cli.TokenModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create token counter: %w", err)
		}
		tokens = tc
	}

	return &browse.Browser{
		Acquirer:     browse.NewChain(backend, fetcher, logger),
		Scraper:      &browse.FetchStrategy{Fetcher: fetcher, Method: docscout.SingleFetch},
		Logger:       logger,
		MaxURLs:      cli.MaxURLs,
		Concurrency:  cli.Concurrency,
		TokenCounter: tokens,
		Store:        store,
	}, nil
}

// newCrawlBackend returns nil when crawling is disabled, in which case every
// URL is fetched directly.
func (m *Main) newCrawlBackend(cfg CrawlConfig, fetcher docscout.Fetcher, logger *slog.Logger) (docscout.CrawlBackend, error) {
	logger = logger.With("component", "crawl")

	var backend docscout.CrawlBackend
	switch cfg.Backend {
	case "none":
		return nil, nil
	case "firecrawl":
		if cfg.FirecrawlKey == "" {
			return nil, fmt.Errorf("FIRECRAWL_API_KEY not set. Use --crawl-backend=local to crawl without Firecrawl")
		}
		backend = firecrawl.NewClient(cfg.FirecrawlKey,
			firecrawl.WithBaseURL(cfg.FirecrawlURL),
			firecrawl.WithTimeout(cfg.Timeout),
		)
	default:
		pageFetcher := fetcher
		if cfg.Render {
			rf, err := rod.NewFetcher(rod.WithStealth(true))
			if err != nil {
				return nil, fmt.Errorf("failed to start browser (Chrome or Chromium must be installed): %w", err)
			}
			pageFetcher = scoutslog.NewLoggingFetcher(rf, logger)
			m.closers = append(m.closers, pageFetcher)
		}

		var extractor docscout.Extractor = trafilatura.NewExtractor()
		if cfg.Extractor == "readability" {
			extractor = readability.NewExtractor()
		}

		backend = &crawl.Crawler{
			Sitemaps:     scoutslog.NewLoggingSitemapService(scouthttp.NewSitemapService(nil), logger),
			Fetcher:      pageFetcher,
			Extractor:    extractor,
			Converter:    htmltomarkdown.NewConverter(),
			LinkSelector: scoutslog.NewLoggingLinkSelector(goquery.NewLinkSelector(), logger),
			RateLimiter:  crawl.NewDomainLimiter(cfg.RequestsPerSecond, cfg.Burst),
			Concurrency:  cfg.Concurrency,
			Timeout:      cfg.Timeout,
			Logger:       logger,
		}
	}
	return scoutslog.NewLoggingCrawlBackend(backend, logger), nil
}

// newLogger builds the process logger writing to w.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
