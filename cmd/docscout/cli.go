package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/docscout"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Service docscout.BrowseService
	Store   docscout.ReportStore
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	LogLevel  string `name:"log-level" default:"info" enum:"debug,info,warn,error" env:"DOCSCOUT_LOG_LEVEL" help:"Minimum log level (${enum})"`
	LogFormat string `name:"log-format" default:"text" enum:"text,json" env:"DOCSCOUT_LOG_FORMAT" help:"Log output format (${enum})"`

	DB          string        `name:"db" env:"DOCSCOUT_DB" help:"SQLite database keeping the latest report; kept in memory when empty"`
	Timeout     time.Duration `default:"15s" env:"DOCSCOUT_TIMEOUT" help:"Timeout for each direct page fetch"`
	MaxURLs     int           `name:"max-urls" default:"3" env:"DOCSCOUT_MAX_URLS" help:"URLs processed per browse"`
	Concurrency int           `short:"c" default:"1" env:"DOCSCOUT_CONCURRENCY" help:"URLs acquired at once"`
	TokenModel  string        `name:"token-model" env:"DOCSCOUT_TOKEN_MODEL" help:"Gemini model used to count context tokens; disabled when empty"`

	Crawl CrawlConfig `embed:"" prefix:"crawl-"`

	Browse BrowseCmd `cmd:"" help:"Acquire and analyze documentation URLs"`
	Scrape ScrapeCmd `cmd:"" help:"Fetch a single page without crawling"`
	Last   LastCmd   `cmd:"" help:"Show the most recent browse report"`
	Serve  ServeCmd  `cmd:"" help:"Serve the HTTP API"`
	MCP    MCPCmd    `cmd:"" name:"mcp" help:"Serve MCP tools over stdio"`
}

// CrawlConfig selects and tunes the deep crawl backend.
type CrawlConfig struct {
	Backend           string        `default:"local" enum:"firecrawl,local,none" env:"DOCSCOUT_CRAWL_BACKEND" help:"Deep crawl backend (${enum})"`
	Timeout           time.Duration `default:"120s" env:"DOCSCOUT_CRAWL_TIMEOUT" help:"Overall timeout of one deep crawl"`
	FirecrawlURL      string        `name:"firecrawl-url" default:"https://api.firecrawl.dev" env:"FIRECRAWL_API_URL" help:"Firecrawl API base URL"`
	FirecrawlKey      string        `name:"firecrawl-key" env:"FIRECRAWL_API_KEY" help:"Firecrawl API key"`
	Render            bool          `env:"DOCSCOUT_CRAWL_RENDER" help:"Render pages with headless Chrome in the local crawler"`
	Extractor         string        `default:"trafilatura" enum:"trafilatura,readability" env:"DOCSCOUT_CRAWL_EXTRACTOR" help:"Main content extractor of the local crawler (${enum})"`
	Concurrency       int           `default:"5" env:"DOCSCOUT_CRAWL_CONCURRENCY" help:"Pages fetched at once by the local crawler"`
	RequestsPerSecond float64       `name:"rps" default:"2" env:"DOCSCOUT_CRAWL_RPS" help:"Requests per second per host in the local crawler"`
	Burst             int           `default:"4" env:"DOCSCOUT_CRAWL_BURST" help:"Request burst per host in the local crawler"`
}

// BrowseCmd is the "browse" subcommand.
type BrowseCmd struct {
	URLs    []string `arg:"" name:"url" help:"Documentation URLs"`
	Request string   `short:"r" help:"What you are trying to build"`
	Focus   string   `short:"f" help:"Topic the analysis should concentrate on"`
	JSON    bool     `name:"json" help:"Print the report as JSON"`
	Output  string   `short:"o" type:"path" help:"Export pages and the documentation context to this directory"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URL  string `arg:"" help:"Page URL"`
	JSON bool   `name:"json" help:"Print the page as JSON"`
}

// LastCmd is the "last" subcommand.
type LastCmd struct {
	JSON bool `name:"json" help:"Print the report as JSON"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr      string  `default:":3000" env:"DOCSCOUT_ADDR" help:"Listen address"`
	RateLimit float64 `name:"rate-limit" default:"2" env:"DOCSCOUT_RATE_LIMIT" help:"Requests per second per client; 0 disables limiting"`
	Burst     int     `default:"5" env:"DOCSCOUT_RATE_BURST" help:"Request burst per client"`
}

// MCPCmd is the "mcp" subcommand.
type MCPCmd struct{}
