// Package mcp provides an MCP (Model Context Protocol) server exposing
// the percolation simulation as agent-callable tools.
package mcp

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP SDK server and registers the simulation tools.
type Server struct {
	server *sdk.Server
}

// Config holds server configuration.
type Config struct {
	Name    string // Server name (e.g., "siteperc")
	Version string // Server version
}

// NewServer creates a new MCP server with the percolation tools.
func NewServer(cfg *Config) (*Server, error) {
	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &sdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, req *sdk.InitializedRequest) {
			// Client initialized, ready to serve
		},
	})

	s := &Server{server: mcpServer}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Run starts the MCP server over stdio transport.
// This blocks until the client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Handle OS signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	// Run server (blocks)
	return s.server.Run(ctx, &sdk.StdioTransport{})
}
