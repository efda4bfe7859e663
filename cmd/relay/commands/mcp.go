// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents to chat through the relay via stdio
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/chat-relay/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs the relay as an MCP (Model Context Protocol) server, exposing
send_message, get_history, and list_conversations tools via stdio.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an agent host)
  relay mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "relay": {
  #       "command": "relay",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	log := cliLogger()

	rl, db, err := buildRelay(log)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	server := mcpserver.NewMCPServer(
		"Chat Relay",
		"0.1.0",
	)

	mcp.RegisterTools(server, rl, log)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Info().Msg("MCP server starting on stdio")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Info().Msg("shutdown signal received")
		}
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
