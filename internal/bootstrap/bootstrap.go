// Package bootstrap turns a parsed configuration document into a running
// aggregate.Server: one aggregate.Handler per configured upstream, wired
// into an aggregate.Builder. Any failure here is fatal — nothing is
// retried internally, matching the configuration contract.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/elastic/mcp-gateway/internal/aggregate"
	"github.com/elastic/mcp-gateway/internal/config"
	"github.com/elastic/mcp-gateway/internal/estools"
	"github.com/elastic/mcp-gateway/internal/procwatch"
	"github.com/elastic/mcp-gateway/internal/shutdown"
	"github.com/elastic/mcp-gateway/internal/upstreamproxy"
)

// clientInfo is what this gateway calls itself when it connects to an
// upstream MCP server as a client. Upstreams never see the downstream
// client's own identity.
func clientInfo(upstreamName string) *mcp.Implementation {
	return &mcp.Implementation{Name: "mcp-gateway/" + upstreamName, Version: "0.1.0"}
}

// Setup loads the config file at path, connects every configured upstream,
// and returns the built aggregate plus the shutdown token that cascades
// into every upstream connection on Cancel.
func Setup(ctx context.Context, path string, logger *slog.Logger) (*aggregate.Server, *shutdown.Token, error) {
	if logger == nil {
		logger = slog.Default()
	}

	file, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	sd := shutdown.New()
	builder := aggregate.NewBuilder(logger)

	for name, server := range file.McpServers {
		logger.Info("adding upstream server", "name", name, "type", server.Type)

		handler, err := buildHandler(ctx, name, server, sd, logger)
		if err != nil {
			sd.Cancel()
			return nil, nil, fmt.Errorf("bootstrap: upstream %q: %w", name, err)
		}
		builder.Add(handler)
	}

	return builder.Build(), sd, nil
}

func buildHandler(ctx context.Context, name string, server config.McpServer, sd *shutdown.Token, logger *slog.Logger) (aggregate.Handler, error) {
	switch server.Type {
	case config.ServerTypeElasticsearch:
		return buildElasticsearch(server, logger)
	case config.ServerTypeStdio:
		return connectStdio(ctx, name, server, sd, logger)
	case config.ServerTypeSSE, config.ServerTypeStreamableHTTP:
		return connectHTTP(ctx, name, server, sd, logger)
	default:
		return nil, fmt.Errorf("unknown upstream type %q", server.Type)
	}
}

func buildElasticsearch(server config.McpServer, logger *slog.Logger) (aggregate.Handler, error) {
	cfg := elasticsearch.Config{Addresses: []string{server.URL}}
	if server.APIKey != "" {
		cfg.APIKey = server.APIKey
	} else if server.Username != "" {
		cfg.Username = server.Username
		cfg.Password = server.Password
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to elasticsearch: %w", err)
	}
	return estools.New(client, logger), nil
}

func connectStdio(ctx context.Context, name string, server config.McpServer, sd *shutdown.Token, logger *slog.Logger) (aggregate.Handler, error) {
	cmd := exec.CommandContext(ctx, server.Command, server.Args...)
	if len(server.Env) > 0 {
		cmd.Env = append(os.Environ(), envPairs(server.Env)...)
	}

	transport := &mcp.CommandTransport{Command: cmd}
	handler, err := connect(ctx, name, transport, sd, logger)
	if err != nil {
		return nil, err
	}

	// The transport has started cmd by now; watch it so an upstream that
	// crashes on its own brings the gateway down instead of leaving every
	// future call to it hanging.
	if cmd.Process != nil {
		procwatch.Watch(ctx, cmd.Process, func() {
			logger.Warn("upstream process exited unexpectedly", "name", name)
			sd.Cancel()
		})
	}

	return handler, nil
}

func connectHTTP(ctx context.Context, name string, server config.McpServer, sd *shutdown.Token, logger *slog.Logger) (aggregate.Handler, error) {
	// SSE and streaming-HTTP both connect by URI through the streamable
	// client transport; no headers are sent for either.
	transport := &mcp.StreamableClientTransport{Endpoint: server.URL}
	return connect(ctx, name, transport, sd, logger)
}

func connect(ctx context.Context, name string, transport mcp.Transport, sd *shutdown.Token, logger *slog.Logger) (aggregate.Handler, error) {
	client := mcp.NewClient(clientInfo(name), nil)
	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting: %w", err)
	}
	return upstreamproxy.New(name, session, sd, logger), nil
}

func envPairs(env map[string]string) []string {
	pairs := make([]string, 0, len(env))
	for k, v := range env {
		pairs = append(pairs, k+"="+v)
	}
	return pairs
}
