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
	"github.com/elastic/mcp-gateway/internal/transport/httpgw"
)

var (
	httpConfigPath string
	httpAddress    string
)

var httpCmd = &cobra.Command{
	Use:   "http",
	Short: "Serve the aggregate over streaming HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if httpConfigPath == "" {
			return fmt.Errorf("http: --config is required")
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		server, sd, err := bootstrap.Setup(ctx, httpConfigPath, logger)
		if err != nil {
			return fmt.Errorf("bootstrap: %w", err)
		}
		defer server.Close()

		transport := httpgw.New(server, sd, httpAddress, logger)
		return transport.Run(ctx)
	},
}

func init() {
	httpCmd.Flags().StringVar(&httpConfigPath, "config", "", "path to the mcpServers JSON5 config file")
	httpCmd.Flags().StringVar(&httpAddress, "address", "127.0.0.1:8787", "address to listen on")
	rootCmd.AddCommand(httpCmd)
}
