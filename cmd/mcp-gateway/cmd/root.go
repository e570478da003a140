// Package cmd provides the CLI commands for the MCP aggregating gateway.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mcp-gateway",
	Short: "An aggregating gateway for Model Context Protocol servers",
	Long: `mcp-gateway federates one or more upstream MCP servers — child
processes, streaming-HTTP endpoints, legacy SSE endpoints, and a built-in
Elasticsearch tool server — into a single unified MCP capability surface.

Commands:
  stdio       Serve the aggregate over standard streams
  http        Serve the aggregate over streaming HTTP
  version     Print version information`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
