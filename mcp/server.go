// Package mcp exposes the browse pipeline as Model Context Protocol tools
// served over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/fwojciec/docscout"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Tool names.
const (
	BrowseToolName = "browse_documentation"
	ScrapeToolName = "scrape_url"
)

// Server registers the docscout tools on an MCP server.
type Server struct {
	service docscout.BrowseService
	logger  *slog.Logger
	mcp     *server.MCPServer
}

// NewServer builds an MCP server named after version exposing service.
func NewServer(service docscout.BrowseService, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		service: service,
		logger:  logger,
		mcp:     server.NewMCPServer("docscout", version, server.WithToolCapabilities(false)),
	}

	s.mcp.AddTool(mcpgo.NewTool(BrowseToolName,
		mcpgo.WithDescription("Acquire API documentation from up to three URLs, crawling documentation sites where possible, and return the analyzed report with a combined documentation context."),
		mcpgo.WithArray("urls",
			mcpgo.Required(),
			mcpgo.Description("Documentation URLs to browse"),
		),
		mcpgo.WithString("user_request",
			mcpgo.Description("What you are trying to build; used to keep only relevant content"),
		),
		mcpgo.WithString("focus",
			mcpgo.Description("Topic the analysis summary should concentrate on"),
		),
	), s.BrowseDocumentation)

	s.mcp.AddTool(mcpgo.NewTool(ScrapeToolName,
		mcpgo.WithDescription("Fetch a single page and return its readable text, without crawling or analysis."),
		mcpgo.WithString("url",
			mcpgo.Required(),
			mcpgo.Description("The page URL"),
		),
	), s.ScrapeURL)

	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves the tools on stdin and stdout until the input closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// BrowseDocumentation handles the browse_documentation tool.
func (s *Server) BrowseDocumentation(ctx context.Context, request mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	urls, err := request.RequireStringSlice("urls")
	if err != nil {
		return mcpgo.NewToolResultError("urls is required and must be an array of strings"), nil
	}

	report, err := s.service.Browse(ctx, docscout.BrowseRequest{
		URLs:        urls,
		UserRequest: request.GetString("user_request", ""),
		Focus:       request.GetString("focus", ""),
	})
	if err != nil {
		return s.toolError(BrowseToolName, err), nil
	}
	return s.jsonResult(BrowseToolName, report), nil
}

// ScrapeURL handles the scrape_url tool.
func (s *Server) ScrapeURL(ctx context.Context, request mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	rawURL, err := request.RequireString("url")
	if err != nil || rawURL == "" {
		return mcpgo.NewToolResultError("url is required"), nil
	}

	page, err := s.service.ScrapePage(ctx, rawURL)
	if err != nil {
		return s.toolError(ScrapeToolName, err), nil
	}
	return s.jsonResult(ScrapeToolName, page), nil
}

func (s *Server) toolError(tool string, err error) *mcpgo.CallToolResult {
	code := docscout.ErrorCode(err)
	if code == docscout.EINTERNAL {
		s.logger.Error("tool failed", "tool", tool, "err", err)
	}
	return mcpgo.NewToolResultError(code + ": " + docscout.ErrorMessage(err))
}

func (s *Server) jsonResult(tool string, v any) *mcpgo.CallToolResult {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return s.toolError(tool, err)
	}
	return mcpgo.NewToolResultText(string(body))
}
