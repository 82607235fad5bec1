package main

import (
	"context"
	"fmt"

	"github.com/mtoledo/siteperc/internal/mcp"
	"github.com/spf13/cobra"
)

func newMCPServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Run the MCP server over stdio",
		Long: `Run a Model Context Protocol server exposing the simulation as tools
(percolation_sweep, percolation_trials) for agent clients. Communicates
over stdin/stdout; intended to be launched by an MCP host, not by hand.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := mcp.NewServer(&mcp.Config{
				Name:    "siteperc",
				Version: version,
			})
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}

			return srv.Run(context.Background())
		},
	}
}
