// ABOUTME: MCP server implementation for apod
// ABOUTME: Exposes date resolution to AI agents through tools, a resource, and a prompt

package mcp

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/server"

	"github.com/harper/apod/internal/resolve"
)

// Resolver is the subset of resolve.Resolver used by the MCP handlers.
type Resolver interface {
	Resolve(ctx context.Context, date time.Time, mode resolve.Mode) (resolve.Result, error)
	Today() time.Time
	Location() *time.Location
}

// Server wraps the MCP server with apod-specific context
type Server struct {
	mcpServer *server.MCPServer
	resolver  Resolver
	logger    *log.Logger
}

// NewServer creates a new MCP server instance
func NewServer(r Resolver, version string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		resolver: r,
		logger:   logger,
	}

	s.mcpServer = server.NewMCPServer(
		"apod",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdio
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
