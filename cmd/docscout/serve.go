package main

import (
	scoutgin "github.com/fwojciec/docscout/gin"
	"github.com/fwojciec/docscout/mcp"
	"github.com/gin-gonic/gin"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	gin.SetMode(gin.ReleaseMode)
	srv := scoutgin.NewServer(deps.Service, deps.Store,
		scoutgin.WithLogger(deps.Logger.With("component", "http")),
		scoutgin.WithRateLimit(scoutgin.RateLimitConfig{
			RequestsPerSecond: c.RateLimit,
			Burst:             c.Burst,
		}),
	)
	return srv.ListenAndServe(deps.Ctx, c.Addr)
}

// Run executes the mcp command. Logs go to stderr; stdout carries the
// protocol.
func (c *MCPCmd) Run(deps *Dependencies) error {
	return mcp.NewServer(deps.Service, version, deps.Logger.With("component", "mcp")).ServeStdio()
}
