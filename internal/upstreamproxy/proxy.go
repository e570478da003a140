// Package upstreamproxy adapts a single connected upstream MCP server (a
// spawned child process, a streaming-HTTP endpoint, or a legacy SSE
// endpoint) to the aggregate.Handler interface, so the aggregate can treat
// it exactly like any other handler.
package upstreamproxy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/elastic/mcp-gateway/internal/shutdown"
)

// session is the subset of *mcp.ClientSession the proxy depends on. Narrowing
// it to an interface keeps Proxy testable without a live upstream connection.
type session interface {
	Ping(ctx context.Context, params *mcp.PingParams) error
	ListTools(ctx context.Context, params *mcp.ListToolsParams) (*mcp.ListToolsResult, error)
	CallTool(ctx context.Context, params *mcp.CallToolParams) (*mcp.CallToolResult, error)
	ListResources(ctx context.Context, params *mcp.ListResourcesParams) (*mcp.ListResourcesResult, error)
	ListResourceTemplates(ctx context.Context, params *mcp.ListResourceTemplatesParams) (*mcp.ListResourceTemplatesResult, error)
	ReadResource(ctx context.Context, params *mcp.ReadResourceParams) (*mcp.ReadResourceResult, error)
	ListPrompts(ctx context.Context, params *mcp.ListPromptsParams) (*mcp.ListPromptsResult, error)
	GetPrompt(ctx context.Context, params *mcp.GetPromptParams) (*mcp.GetPromptResult, error)
	Close() error
}

// Proxy wraps one already-connected upstream MCP session. The go-sdk client
// performs the initialize handshake as part of Connect, so Proxy.Initialize
// is a no-op that reports success rather than re-issuing a handshake the
// session already completed — the same choice the original makes by never
// trusting a proxy's own get_info() for anything beyond a placeholder.
type Proxy struct {
	name    string
	session session
	logger  *slog.Logger
}

// New wraps an already-connected session and arranges for it to be closed
// the moment the shared shutdown token fires, cascading the gateway's
// shutdown into every upstream connection without any of them needing to
// know about each other.
func New(name string, sess session, sd *shutdown.Token, logger *slog.Logger) *Proxy {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Proxy{name: name, session: sess, logger: logger}
	go func() {
		<-sd.Done()
		if err := sess.Close(); err != nil {
			logger.Warn("error closing upstream session on shutdown", "upstream", name, "error", err)
		}
	}()
	return p
}

// ServerInfo returns a placeholder identity. The aggregate never relies on
// it: a proxy's own "identity" is meaningless to a downstream client, which
// only ever sees the aggregate's ServerInfo.
func (p *Proxy) ServerInfo() *mcp.Implementation {
	return &mcp.Implementation{Name: p.name, Version: "unknown"}
}

// Capabilities returns a placeholder with every capability enabled; it does
// not query the upstream. The aggregate's capability union reads this value
// like any other handler's, so an aggregate with at least one proxy
// advertises tools, prompts, and resources.
func (p *Proxy) Capabilities() *mcp.ServerCapabilities {
	return &mcp.ServerCapabilities{
		Tools:     &mcp.ToolCapabilities{},
		Prompts:   &mcp.PromptCapabilities{},
		Resources: &mcp.ResourceCapabilities{},
	}
}

func (p *Proxy) Ping(ctx context.Context) error {
	return p.session.Ping(ctx, &mcp.PingParams{})
}

// Initialize is a no-op: the go-sdk client already performed the initialize
// handshake as part of establishing the session. See the Proxy doc comment.
func (p *Proxy) Initialize(ctx context.Context, params *mcp.InitializeParams) (*mcp.InitializeResult, error) {
	return &mcp.InitializeResult{
		ProtocolVersion: params.ProtocolVersion,
		Capabilities:    p.Capabilities(),
		ServerInfo:      p.ServerInfo(),
	}, nil
}

func (p *Proxy) ListTools(ctx context.Context, params *mcp.ListToolsParams) (*mcp.ListToolsResult, error) {
	return p.session.ListTools(ctx, params)
}

func (p *Proxy) CallTool(ctx context.Context, params *mcp.CallToolParams) (*mcp.CallToolResult, error) {
	result, err := p.session.CallTool(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("upstream %s: %w", p.name, err)
	}
	return result, nil
}

func (p *Proxy) ListResources(ctx context.Context, params *mcp.ListResourcesParams) (*mcp.ListResourcesResult, error) {
	return p.session.ListResources(ctx, params)
}

func (p *Proxy) ListResourceTemplates(ctx context.Context, params *mcp.ListResourceTemplatesParams) (*mcp.ListResourceTemplatesResult, error) {
	return p.session.ListResourceTemplates(ctx, params)
}

func (p *Proxy) ReadResource(ctx context.Context, params *mcp.ReadResourceParams) (*mcp.ReadResourceResult, error) {
	result, err := p.session.ReadResource(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("upstream %s: %w", p.name, err)
	}
	return result, nil
}

func (p *Proxy) ListPrompts(ctx context.Context, params *mcp.ListPromptsParams) (*mcp.ListPromptsResult, error) {
	return p.session.ListPrompts(ctx, params)
}

func (p *Proxy) GetPrompt(ctx context.Context, params *mcp.GetPromptParams) (*mcp.GetPromptResult, error) {
	return p.session.GetPrompt(ctx, params)
}

// Close closes the wrapped session directly. Safe to call in addition to
// the shutdown-token-triggered close; mcp.ClientSession.Close is idempotent.
func (p *Proxy) Close() error {
	return p.session.Close()
}
