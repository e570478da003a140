// Package estools implements the built-in Elasticsearch tool server: five
// read-only tools (list_indices, get_mappings, search, esql, get_shards)
// backed by the official Elasticsearch Go client. It is registered into the
// aggregate exactly like any proxied upstream — from the aggregate's point
// of view it is just another aggregate.Handler.
package estools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server implements aggregate.Handler over a single Elasticsearch cluster
// connection. It exposes no resources or prompts, matching the original's
// EsBaseTools, which only ever enables tools.
type Server struct {
	client *elasticsearch.Client
	logger *slog.Logger
}

// New builds an Elasticsearch tool server from an already-constructed
// client. Connection establishment (addresses, API key, TLS) is the
// config/bootstrap layer's concern; this package only issues requests.
func New(client *elasticsearch.Client, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{client: client, logger: logger}
}

func (s *Server) ServerInfo() *mcp.Implementation {
	return &mcp.Implementation{Name: "elasticsearch", Version: "1.0.0"}
}

func (s *Server) Capabilities() *mcp.ServerCapabilities {
	return &mcp.ServerCapabilities{Tools: &mcp.ToolCapabilities{}}
}

func (s *Server) Ping(ctx context.Context) error {
	res, err := s.client.Ping(s.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch ping: %s", res.String())
	}
	return nil
}

func (s *Server) Initialize(ctx context.Context, params *mcp.InitializeParams) (*mcp.InitializeResult, error) {
	return &mcp.InitializeResult{
		ProtocolVersion: params.ProtocolVersion,
		Capabilities:    s.Capabilities(),
		ServerInfo:      s.ServerInfo(),
		Instructions:    "Provides access to Elasticsearch",
	}, nil
}

func (s *Server) ListTools(ctx context.Context, params *mcp.ListToolsParams) (*mcp.ListToolsResult, error) {
	return &mcp.ListToolsResult{Tools: toolDefinitions()}, nil
}

func (s *Server) CallTool(ctx context.Context, params *mcp.CallToolParams) (*mcp.CallToolResult, error) {
	switch params.Name {
	case toolListIndices:
		return s.listIndices(ctx, params.Arguments)
	case toolGetMappings:
		return s.getMappings(ctx, params.Arguments)
	case toolSearch:
		return s.search(ctx, params.Arguments)
	case toolESQL:
		return s.esql(ctx, params.Arguments)
	case toolGetShards:
		return s.getShards(ctx, params.Arguments)
	default:
		return nil, fmt.Errorf("elasticsearch: unknown tool %q", params.Name)
	}
}

// The Elasticsearch tool server has no resources or prompts: it always
// returns empty results rather than an error, the same way an upstream
// with nothing to list would.

func (s *Server) ListResources(ctx context.Context, params *mcp.ListResourcesParams) (*mcp.ListResourcesResult, error) {
	return &mcp.ListResourcesResult{}, nil
}

func (s *Server) ListResourceTemplates(ctx context.Context, params *mcp.ListResourceTemplatesParams) (*mcp.ListResourceTemplatesResult, error) {
	return &mcp.ListResourceTemplatesResult{}, nil
}

func (s *Server) ReadResource(ctx context.Context, params *mcp.ReadResourceParams) (*mcp.ReadResourceResult, error) {
	return nil, fmt.Errorf("elasticsearch: no resources are exposed")
}

func (s *Server) ListPrompts(ctx context.Context, params *mcp.ListPromptsParams) (*mcp.ListPromptsResult, error) {
	return &mcp.ListPromptsResult{}, nil
}

func (s *Server) GetPrompt(ctx context.Context, params *mcp.GetPromptParams) (*mcp.GetPromptResult, error) {
	return nil, fmt.Errorf("elasticsearch: no prompts are exposed")
}

func (s *Server) Close() error { return nil }

const (
	toolListIndices = "list_indices"
	toolGetMappings = "get_mappings"
	toolSearch      = "search"
	toolESQL        = "esql"
	toolGetShards   = "get_shards"
)

func toolDefinitions() []*mcp.Tool {
	return []*mcp.Tool{
		{
			Name:        toolListIndices,
			Description: "List Elasticsearch indices matching an optional pattern, with status and document counts.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"index_pattern": {Type: "string", Description: "Index pattern to filter by, e.g. \"logs-*\". Defaults to all indices."},
				},
			},
			Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
		},
		{
			Name:        toolGetMappings,
			Description: "Get the field mappings for a single Elasticsearch index.",
			InputSchema: &jsonschema.Schema{
				Type:       "object",
				Properties: map[string]*jsonschema.Schema{"index": {Type: "string", Description: "Index name."}},
				Required:   []string{"index"},
			},
			Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
		},
		{
			Name:        toolSearch,
			Description: "Run a search query (Query DSL) against an Elasticsearch index.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"index": {Type: "string", Description: "Index name."},
					"fields": {
						Type:        "array",
						Description: "Optional list of source fields to return.",
						Items:       &jsonschema.Schema{Type: "string"},
					},
					"query_body": {Type: "object", Description: "Elasticsearch Query DSL request body."},
				},
				Required: []string{"index", "query_body"},
			},
			Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
		},
		{
			Name:        toolESQL,
			Description: "Run an ES|QL query against Elasticsearch.",
			InputSchema: &jsonschema.Schema{
				Type:       "object",
				Properties: map[string]*jsonschema.Schema{"query": {Type: "string", Description: "ES|QL query text."}},
				Required:   []string{"query"},
			},
			Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
		},
		{
			Name:        toolGetShards,
			Description: "List shard allocation for an index, or the whole cluster if no index is given.",
			InputSchema: &jsonschema.Schema{
				Type:       "object",
				Properties: map[string]*jsonschema.Schema{"index": {Type: "string", Description: "Index name. Omit for all indices."}},
			},
			Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
		},
	}
}
