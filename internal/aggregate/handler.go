package aggregate

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler is implemented by anything that can serve MCP requests: a proxy
// wrapping a single upstream server, the built-in Elasticsearch tool
// server, or the aggregate itself (which is, from the outside, just another
// Handler). It mirrors rmcp's Service<RoleServer> trait, generalized from a
// single upstream connection to "a thing capable of answering MCP
// requests" — that generalization is what lets Server treat every upstream
// and itself uniformly.
type Handler interface {
	// ServerInfo returns the Implementation this handler identifies itself
	// with during initialize.
	ServerInfo() *mcp.Implementation

	// Capabilities returns the capability flags this handler advertises.
	Capabilities() *mcp.ServerCapabilities

	Ping(ctx context.Context) error
	Initialize(ctx context.Context, params *mcp.InitializeParams) (*mcp.InitializeResult, error)

	ListTools(ctx context.Context, params *mcp.ListToolsParams) (*mcp.ListToolsResult, error)
	CallTool(ctx context.Context, params *mcp.CallToolParams) (*mcp.CallToolResult, error)

	ListResources(ctx context.Context, params *mcp.ListResourcesParams) (*mcp.ListResourcesResult, error)
	ListResourceTemplates(ctx context.Context, params *mcp.ListResourceTemplatesParams) (*mcp.ListResourceTemplatesResult, error)
	ReadResource(ctx context.Context, params *mcp.ReadResourceParams) (*mcp.ReadResourceResult, error)

	ListPrompts(ctx context.Context, params *mcp.ListPromptsParams) (*mcp.ListPromptsResult, error)
	GetPrompt(ctx context.Context, params *mcp.GetPromptParams) (*mcp.GetPromptResult, error)

	// Close releases any resources the handler owns (a child process, an
	// HTTP client session). Safe to call more than once.
	Close() error
}
