// Package firecrawl implements docscout.CrawlBackend on top of the Firecrawl
// v1 REST API.
package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/docscout"
)

// Defaults for the hosted Firecrawl API.
const (
	DefaultBaseURL      = "https://api.firecrawl.dev"
	DefaultTimeout      = 120 * time.Second
	DefaultPollInterval = 2 * time.Second
)

// maxErrorBody caps how much of an error response is read for its message.
const maxErrorBody = 64 << 10

// Job states reported by GET /v1/crawl/{id}.
const (
	statusCompleted = "completed"
	statusFailed    = "failed"
	statusCancelled = "cancelled"
)

// Ensure Client implements docscout.CrawlBackend at compile time.
var _ docscout.CrawlBackend = (*Client)(nil)

// Client starts Firecrawl crawl jobs and waits for their results.
// Client is safe for concurrent use.
type Client struct {
	baseURL      string
	apiKey       string
	client       *http.Client
	timeout      time.Duration
	pollInterval time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a self-hosted Firecrawl instance.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithTimeout bounds a whole crawl job, polling included.
// Defaults to DefaultTimeout (120s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithPollInterval sets the delay between job status requests.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		c.pollInterval = d
	}
}

// NewClient creates a Client authenticating with apiKey. An empty key is
// allowed for self-hosted instances without auth.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:      DefaultBaseURL,
		apiKey:       apiKey,
		client:       &http.Client{},
		timeout:      DefaultTimeout,
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type crawlRequest struct {
	URL           string        `json:"url"`
	Limit         int           `json:"limit,omitempty"`
	MaxDepth      int           `json:"maxDepth,omitempty"`
	IncludePaths  []string      `json:"includePaths,omitempty"`
	ExcludePaths  []string      `json:"excludePaths,omitempty"`
	ScrapeOptions scrapeOptions `json:"scrapeOptions"`
}

type scrapeOptions struct {
	Formats         []string `json:"formats"`
	OnlyMainContent bool     `json:"onlyMainContent"`
}

type crawlResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Error   string `json:"error,omitempty"`
}

type statusResponse struct {
	Status    string     `json:"status"`
	Total     int        `json:"total"`
	Completed int        `json:"completed"`
	Data      []document `json:"data"`
	Next      string     `json:"next,omitempty"`
	Error     string     `json:"error,omitempty"`
}

type document struct {
	Markdown string   `json:"markdown,omitempty"`
	Metadata metadata `json:"metadata"`
}

type metadata struct {
	Title      string `json:"title,omitempty"`
	SourceURL  string `json:"sourceURL,omitempty"`
	URL        string `json:"url,omitempty"`
	StatusCode int    `json:"statusCode"`
}

// Crawl starts a crawl job for rawURL and returns its pages once the job
// completes. Pages without markdown are dropped.
func (c *Client) Crawl(ctx context.Context, rawURL string, opts docscout.CrawlOptions) ([]*docscout.CrawledPage, error) {
	if _, err := docscout.ParseURL(rawURL); err != nil {
		return nil, &docscout.Error{Code: docscout.ECRAWL, Message: docscout.ErrorMessage(err), Err: err}
	}

	parent := ctx
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	formats := opts.Formats
	if len(formats) == 0 {
		formats = []string{"markdown"}
	}
	req := crawlRequest{
		URL:          rawURL,
		Limit:        opts.PageLimit,
		MaxDepth:     opts.MaxDepth,
		IncludePaths: opts.IncludePaths,
		ExcludePaths: opts.ExcludePaths,
		ScrapeOptions: scrapeOptions{
			Formats:         formats,
			OnlyMainContent: opts.MainContentOnly,
		},
	}

	var started crawlResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/v1/crawl", req, &started); err != nil {
		return nil, c.classify(parent, err)
	}
	if !started.Success || started.ID == "" {
		return nil, docscout.Errorf(docscout.ECRAWL, "crawl of %s was not started: %s", rawURL, started.Error)
	}

	status, err := c.wait(ctx, started.ID)
	if err != nil {
		return nil, c.classify(parent, err)
	}

	docs := status.Data
	for next := status.Next; next != ""; {
		next, err = c.resolveNext(next)
		if err != nil {
			return nil, err
		}
		var page statusResponse
		if err := c.do(ctx, http.MethodGet, next, nil, &page); err != nil {
			return nil, c.classify(parent, err)
		}
		docs = append(docs, page.Data...)
		next = page.Next
	}

	pages := make([]*docscout.CrawledPage, 0, len(docs))
	for _, d := range docs {
		if strings.TrimSpace(d.Markdown) == "" {
			continue
		}
		u := d.Metadata.SourceURL
		if u == "" {
			u = d.Metadata.URL
		}
		pages = append(pages, &docscout.CrawledPage{
			URL:     u,
			Title:   d.Metadata.Title,
			Content: d.Markdown,
		})
	}
	if len(pages) == 0 {
		return nil, docscout.Errorf(docscout.ECRAWL, "crawl of %s returned no pages", rawURL)
	}
	return pages, nil
}

// resolveNext resolves a pagination link against the base URL. Links to
// another origin are rejected so the API key is only sent to the backend.
func (c *Client) resolveNext(next string) (string, error) {
	base, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return "", docscout.Errorf(docscout.ECRAWL, "invalid base URL %q", c.baseURL)
	}
	ref, err := url.Parse(next)
	if err != nil {
		return "", docscout.Errorf(docscout.ECRAWL, "invalid next page URL %q", next)
	}
	u := base.ResolveReference(ref)
	if u.Scheme != base.Scheme || u.Host != base.Host {
		return "", docscout.Errorf(docscout.ECRAWL, "next page URL %s is not on %s", u.Redacted(), base.Host)
	}
	return u.String(), nil
}

// wait polls the job until it reaches a terminal state.
func (c *Client) wait(ctx context.Context, id string) (*statusResponse, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		var status statusResponse
		if err := c.do(ctx, http.MethodGet, c.baseURL+"/v1/crawl/"+id, nil, &status); err != nil {
			return nil, err
		}
		switch status.Status {
		case statusCompleted:
			return &status, nil
		case statusFailed, statusCancelled:
			msg := status.Error
			if msg == "" {
				msg = "job " + status.Status
			}
			return nil, docscout.Errorf(docscout.ECRAWL, "crawl %s: %s", id, msg)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// apiError is a non-2xx response from the API.
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("firecrawl returned HTTP %d: %s", e.status, e.message)
}

func (c *Client) do(ctx context.Context, method, u string, body, out any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, r)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var payload struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(raw))
		if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
			msg = payload.Error
		}
		return &apiError{status: resp.StatusCode, message: msg}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// classify maps a request failure to an application error. A backend that
// cannot be dialed is EUNAVAILABLE; everything else is ECRAWL. Cancellation
// of the caller's context is returned unchanged.
func (c *Client) classify(parent context.Context, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}

	var appErr *docscout.Error
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &docscout.Error{
			Code:    docscout.ECRAWL,
			Message: fmt.Sprintf("crawl did not finish within %s", c.timeout),
			Err:     err,
		}
	}

	var dnsErr *net.DNSError
	var opErr *net.OpError
	if errors.As(err, &dnsErr) || (errors.As(err, &opErr) && opErr.Op == "dial") {
		return &docscout.Error{
			Code:    docscout.EUNAVAILABLE,
			Message: fmt.Sprintf("crawl backend %s is unreachable", c.baseURL),
			Err:     err,
		}
	}

	e := &docscout.Error{
		Code:    docscout.ECRAWL,
		Message: fmt.Sprintf("crawl failed: %v", err),
		Err:     err,
	}
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		e.Status = apiErr.status
	}
	return e
}
