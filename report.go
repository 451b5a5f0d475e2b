package docscout

import (
	"context"
	"fmt"
	"time"
)

// DefaultMaxURLs is the number of requested URLs processed per browse.
const DefaultMaxURLs = 3

// BrowseRequest is the input of a browse invocation.
type BrowseRequest struct {
	// URLs to acquire. Only the first MaxURLs are processed.
	URLs []string `json:"urls"`

	// UserRequest is the user's stated goal, used to derive topics.
	UserRequest string `json:"userRequest,omitempty"`

	// Focus narrows the analysis summary. Defaults to UserRequest.
	Focus string `json:"focus,omitempty"`
}

// Report is the aggregated outcome of a browse invocation.
type Report struct {
	ID                   string    `json:"id"`
	CreatedAt            time.Time `json:"createdAt"`
	RequestedURLs        []string  `json:"requestedUrls"`
	UserRequest          string    `json:"userRequest,omitempty"`
	Focus                string    `json:"focus,omitempty"`
	Topics               []string  `json:"topics"`
	Results              []*Result `json:"results"`
	Summary              Summary   `json:"summary"`
	DocumentationContext string    `json:"documentationContext"`
	Message              string    `json:"message"`
}

// Successful returns the successful results in request order.
func (r *Report) Successful() []*Result {
	var results []*Result
	for _, res := range r.Results {
		if res.Success {
			results = append(results, res)
		}
	}
	return results
}

// Result is the outcome for one requested URL. Exactly one of Page or
// Failure is set, as indicated by Success.
type Result struct {
	URL      string    `json:"url"`
	Success  bool      `json:"success"`
	Page     *Page     `json:"page,omitempty"`
	Analysis *Analysis `json:"analysis,omitempty"`
	Failure  *Failure  `json:"failure,omitempty"`
}

// Failure records why a URL could not be acquired.
type Failure struct {
	URL     string `json:"url"`
	Kind    string `json:"kind"`
	Message string `json:"message"`

	// Status is the upstream HTTP status when Kind is EHTTPSTATUS.
	Status int `json:"status,omitempty"`
}

// NewFailure builds a Failure for url from an acquisition error.
func NewFailure(url string, err error) *Failure {
	return &Failure{
		URL:     url,
		Kind:    ErrorCode(err),
		Message: ErrorMessage(err),
		Status:  ErrorStatus(err),
	}
}

// Summary aggregates the results of a browse invocation.
type Summary struct {
	TotalURLs      int      `json:"totalUrls"`
	Processed      int      `json:"processed"`
	Successful     int      `json:"successful"`
	Failed         int      `json:"failed"`
	TotalWords     int      `json:"totalWords"`
	Domains        []string `json:"domains"`
	TotalEndpoints int      `json:"totalEndpoints"`

	// ContextTokens is the token count of the documentation context.
	// Zero when no TokenCounter is configured.
	ContextTokens int `json:"contextTokens,omitempty"`
}

// Summarize computes the summary of results for a request of totalURLs.
// Domains are deduplicated in first-seen order.
func Summarize(totalURLs int, results []*Result) Summary {
	s := Summary{
		TotalURLs: totalURLs,
		Processed: len(results),
		Domains:   []string{},
	}
	seen := make(map[string]struct{})
	for _, res := range results {
		if !res.Success {
			s.Failed++
			continue
		}
		s.Successful++
		s.TotalWords += res.Page.WordCount
		s.TotalEndpoints += len(res.Page.APIEndpoints)
		host := res.Page.Host()
		if _, ok := seen[host]; !ok {
			seen[host] = struct{}{}
			s.Domains = append(s.Domains, host)
		}
	}
	return s
}

// Message returns the one-line human summary of a browse.
func (s Summary) Message() string {
	return fmt.Sprintf("Successfully analyzed %d of %d URLs. Found %d API endpoints across %d domains.",
		s.Successful, s.TotalURLs, s.TotalEndpoints, len(s.Domains))
}

// ReportStore holds the most recent browse report.
type ReportStore interface {
	// Put replaces the stored report.
	Put(ctx context.Context, report *Report) error

	// Get returns the stored report, or ENOTFOUND when none was stored.
	Get(ctx context.Context) (*Report, error)
}

// TokenCounter counts tokens in text for a specific model.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
