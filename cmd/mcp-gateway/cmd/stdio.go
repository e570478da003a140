package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/elastic/mcp-gateway/internal/bootstrap"
	"github.com/elastic/mcp-gateway/internal/transport/stdio"
)

var stdioConfigPath string

// To test with stdio, use `npx @modelcontextprotocol/inspector mcp-gateway stdio --config <path>`.
var stdioCmd = &cobra.Command{
	Use:   "stdio",
	Short: "Serve the aggregate over standard streams",
	RunE: func(cmd *cobra.Command, args []string) error {
		if stdioConfigPath == "" {
			return fmt.Errorf("stdio: --config is required")
		}

		// stdout is reserved for the MCP stream; all logging goes to stderr.
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		server, sd, err := bootstrap.Setup(ctx, stdioConfigPath, logger)
		if err != nil {
			return fmt.Errorf("bootstrap: %w", err)
		}
		defer server.Close()

		transport := stdio.New(server, sd, logger)
		return transport.Run(ctx, os.Stdin, os.Stdout)
	},
}

func init() {
	stdioCmd.Flags().StringVar(&stdioConfigPath, "config", "", "path to the mcpServers JSON5 config file")
	rootCmd.AddCommand(stdioCmd)
}
