// ABOUTME: MCP server initialization and configuration for ifgram.
// ABOUTME: Exposes a headless browsing session to AI agents over stdio.
package mcp

import (
	"context"
	"fmt"
	"log/slog"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/takubon0202/if-instagram-auto/internal/content"
	"github.com/takubon0202/if-instagram-auto/internal/session"
)

// Server wraps the MCP server around one browsing session.
type Server struct {
	mcp      *gomcp.Server
	runtime  *session.Runtime
	repo     content.Repository
	logger   *slog.Logger
	handlers map[string]gomcp.ToolHandler
}

// ServerOption configures optional Server dependencies.
type ServerOption func(*Server)

// WithLogger sets the logger used for tool calls.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates an MCP server driving runtime. repo is used by the reload tool.
func NewServer(runtime *session.Runtime, repo content.Repository, opts ...ServerOption) (*Server, error) {
	if runtime == nil {
		return nil, fmt.Errorf("session runtime is required")
	}
	if repo == nil {
		return nil, fmt.Errorf("content repository is required")
	}

	mcpServer := gomcp.NewServer(
		&gomcp.Implementation{
			Name:    "ifgram",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcp:      mcpServer,
		runtime:  runtime,
		repo:     repo,
		logger:   slog.Default(),
		handlers: make(map[string]gomcp.ToolHandler),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.registerStateTools()
	s.registerIntentTools()

	return s, nil
}

// addTool registers a tool and keeps its handler for direct invocation.
func (s *Server) addTool(tool *gomcp.Tool, h gomcp.ToolHandler) {
	s.handlers[tool.Name] = h
	s.mcp.AddTool(tool, h)
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcp.Run(ctx, &gomcp.StdioTransport{})
}
