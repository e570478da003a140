// Package aggregate implements the aggregating MCP server: it merges the
// tool/resource/prompt surface of N registered upstream Handlers into one
// capability surface, routing every request to the upstream that owns it
// via the composite identifier scheme in composite_id.go.
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Builder accumulates Handlers before producing an immutable Server. Each
// call to Add assigns the handler the next sequential HandlerID, matching
// the original AggregateServerBuilder's registration-order numbering.
type Builder struct {
	logger   *slog.Logger
	handlers []Handler
}

// NewBuilder returns an empty Builder. A nil logger falls back to
// slog.Default() at Build time.
func NewBuilder(logger *slog.Logger) *Builder {
	return &Builder{logger: logger}
}

// Add registers a handler and returns the HandlerID it was assigned.
func (b *Builder) Add(h Handler) HandlerID {
	id := HandlerID(len(b.handlers))
	b.handlers = append(b.handlers, h)
	return id
}

// Build produces the immutable aggregate Server over every handler added so
// far.
func (b *Builder) Build() *Server {
	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	return &Server{handlers: handlers, logger: logger}
}

// Server is the aggregate MCP server: it implements Handler itself by
// fanning requests out to its registered upstream handlers and merging
// their results, so from the outside an aggregate is indistinguishable
// from any single upstream it wraps.
type Server struct {
	handlers []Handler
	logger   *slog.Logger
	mu       sync.Mutex // serializes Ping/Initialize broadcasts
}

var _ Handler = (*Server)(nil)

func (s *Server) handler(id HandlerID) (Handler, error) {
	if int(id) >= len(s.handlers) {
		return nil, fmt.Errorf("%w: unknown handler %d", ErrResourceNotFound, id)
	}
	return s.handlers[id], nil
}

// ServerInfo returns a fixed identity for the aggregate itself; it is never
// derived from any upstream's own Implementation.
func (s *Server) ServerInfo() *mcp.Implementation {
	return &mcp.Implementation{Name: "Elastic-MCP", Version: "0.0.1"}
}

// Capabilities computes the union of every upstream's advertised
// capabilities. A capability is present (set to a freshly defaulted, empty
// struct — never copied from any single upstream) the moment any upstream
// advertises it at all; ListChanged is always left at its zero value since
// this gateway never forwards list-changed notifications. Logging,
// completions, and experimental capabilities are never advertised: this
// gateway always rejects set-level/complete.
func (s *Server) Capabilities() *mcp.ServerCapabilities {
	caps := &mcp.ServerCapabilities{}
	for _, h := range s.handlers {
		hc := h.Capabilities()
		if hc == nil {
			continue
		}
		if hc.Tools != nil && caps.Tools == nil {
			caps.Tools = &mcp.ToolCapabilities{}
		}
		if hc.Prompts != nil && caps.Prompts == nil {
			caps.Prompts = &mcp.PromptCapabilities{}
		}
		if hc.Resources != nil && caps.Resources == nil {
			caps.Resources = &mcp.ResourceCapabilities{}
		}
	}
	return caps
}

// Ping broadcasts a ping to every registered upstream, sequentially and in
// registration order, failing fast on the first error. An aggregate with no
// upstreams reports ErrNoUpstreams rather than trivially succeeding, since a
// caller asking "is everything alive" deserves to know there is nothing to
// be alive.
func (s *Server) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.handlers) == 0 {
		return ErrNoUpstreams
	}
	for id, h := range s.handlers {
		if err := h.Ping(ctx); err != nil {
			return fmt.Errorf("ping upstream %d: %w", id, err)
		}
	}
	return nil
}

// protocolVersion is the fixed MCP protocol version this gateway advertises,
// regardless of what a client requests during initialize.
const protocolVersion = "2025-03-26"

// Initialize broadcasts the initialize handshake to every upstream
// sequentially, failing fast on the first error, then returns the
// aggregate's own ServerInfo/Capabilities — never an upstream's. This
// matches the original's choice to make get_info() authoritative: the
// broadcast exists only to let every upstream observe the handshake and
// ready itself, not to select a representative response.
func (s *Server) Initialize(ctx context.Context, params *mcp.InitializeParams) (*mcp.InitializeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.handlers) == 0 {
		return nil, ErrNoUpstreams
	}
	for id, h := range s.handlers {
		if _, err := h.Initialize(ctx, params); err != nil {
			return nil, fmt.Errorf("initialize upstream %d: %w", id, err)
		}
	}
	return &mcp.InitializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities:    s.Capabilities(),
		ServerInfo:      s.ServerInfo(),
	}, nil
}

// ListTools drains every upstream's tool list to completion and renames
// each tool's Name to its composite identifier, so the downstream client
// sees one flat, collision-free namespace regardless of how many upstreams
// happen to expose a tool with the same local name.
func (s *Server) ListTools(ctx context.Context, _ *mcp.ListToolsParams) (*mcp.ListToolsResult, error) {
	var all []*mcp.Tool
	for id, h := range s.handlers {
		hid := HandlerID(id)
		tools, err := drainPages(ctx,
			func(ctx context.Context, cursor string) (*mcp.ListToolsResult, error) {
				return h.ListTools(ctx, &mcp.ListToolsParams{Cursor: cursor})
			},
			func(r *mcp.ListToolsResult) []*mcp.Tool { return r.Tools },
			func(r *mcp.ListToolsResult) string { return r.NextCursor },
		)
		if err != nil {
			return nil, fmt.Errorf("list tools from upstream %d: %w", id, err)
		}
		for _, t := range tools {
			renamed := *t
			renamed.Name = EncodeID(hid, t.Name)
			all = append(all, &renamed)
		}
	}
	return &mcp.ListToolsResult{Tools: all}, nil
}

// CallTool decodes the composite tool name, forwards the call to the
// owning upstream under its local name, and rewrites the URI of any
// embedded resource in the result back into composite form so a subsequent
// ReadResource on that URI routes correctly.
func (s *Server) CallTool(ctx context.Context, params *mcp.CallToolParams) (*mcp.CallToolResult, error) {
	id, local, err := DecodeID(params.Name)
	if err != nil {
		return nil, err
	}
	h, err := s.handler(id)
	if err != nil {
		return nil, err
	}
	result, err := h.CallTool(ctx, &mcp.CallToolParams{Name: local, Arguments: params.Arguments})
	if err != nil {
		return nil, err
	}
	rewriteEmbeddedResourceURIs(result, id)
	return result, nil
}

// ListResources drains every upstream's resource list to completion and
// rewrites each resource's URI and Name into composite form.
func (s *Server) ListResources(ctx context.Context, _ *mcp.ListResourcesParams) (*mcp.ListResourcesResult, error) {
	var all []*mcp.Resource
	for id, h := range s.handlers {
		hid := HandlerID(id)
		resources, err := drainPages(ctx,
			func(ctx context.Context, cursor string) (*mcp.ListResourcesResult, error) {
				return h.ListResources(ctx, &mcp.ListResourcesParams{Cursor: cursor})
			},
			func(r *mcp.ListResourcesResult) []*mcp.Resource { return r.Resources },
			func(r *mcp.ListResourcesResult) string { return r.NextCursor },
		)
		if err != nil {
			return nil, fmt.Errorf("list resources from upstream %d: %w", id, err)
		}
		for _, r := range resources {
			renamed := *r
			renamed.URI = EncodeID(hid, r.URI)
			renamed.Name = EncodeID(hid, r.Name)
			all = append(all, &renamed)
		}
	}
	return &mcp.ListResourcesResult{Resources: all}, nil
}

// ListResourceTemplates drains every upstream's resource template list and
// rewrites each template's URITemplate and Name into composite form.
func (s *Server) ListResourceTemplates(ctx context.Context, _ *mcp.ListResourceTemplatesParams) (*mcp.ListResourceTemplatesResult, error) {
	var all []*mcp.ResourceTemplate
	for id, h := range s.handlers {
		hid := HandlerID(id)
		templates, err := drainPages(ctx,
			func(ctx context.Context, cursor string) (*mcp.ListResourceTemplatesResult, error) {
				return h.ListResourceTemplates(ctx, &mcp.ListResourceTemplatesParams{Cursor: cursor})
			},
			func(r *mcp.ListResourceTemplatesResult) []*mcp.ResourceTemplate { return r.ResourceTemplates },
			func(r *mcp.ListResourceTemplatesResult) string { return r.NextCursor },
		)
		if err != nil {
			return nil, fmt.Errorf("list resource templates from upstream %d: %w", id, err)
		}
		for _, t := range templates {
			renamed := *t
			renamed.URITemplate = EncodeID(hid, t.URITemplate)
			renamed.Name = EncodeID(hid, t.Name)
			all = append(all, &renamed)
		}
	}
	return &mcp.ListResourceTemplatesResult{ResourceTemplates: all}, nil
}

// ReadResource decodes the composite URI, forwards the read to the owning
// upstream under its local URI, and rewrites the URI of every returned
// resource content back into composite form.
func (s *Server) ReadResource(ctx context.Context, params *mcp.ReadResourceParams) (*mcp.ReadResourceResult, error) {
	id, local, err := DecodeID(params.URI)
	if err != nil {
		return nil, err
	}
	h, err := s.handler(id)
	if err != nil {
		return nil, err
	}
	result, err := h.ReadResource(ctx, &mcp.ReadResourceParams{URI: local})
	if err != nil {
		return nil, err
	}
	for _, c := range result.Contents {
		c.URI = EncodeID(id, c.URI)
	}
	return result, nil
}

// ListPrompts drains every upstream's prompt list and rewrites each
// prompt's Name into composite form.
func (s *Server) ListPrompts(ctx context.Context, _ *mcp.ListPromptsParams) (*mcp.ListPromptsResult, error) {
	var all []*mcp.Prompt
	for id, h := range s.handlers {
		hid := HandlerID(id)
		prompts, err := drainPages(ctx,
			func(ctx context.Context, cursor string) (*mcp.ListPromptsResult, error) {
				return h.ListPrompts(ctx, &mcp.ListPromptsParams{Cursor: cursor})
			},
			func(r *mcp.ListPromptsResult) []*mcp.Prompt { return r.Prompts },
			func(r *mcp.ListPromptsResult) string { return r.NextCursor },
		)
		if err != nil {
			return nil, fmt.Errorf("list prompts from upstream %d: %w", id, err)
		}
		for _, p := range prompts {
			renamed := *p
			renamed.Name = EncodeID(hid, p.Name)
			all = append(all, &renamed)
		}
	}
	return &mcp.ListPromptsResult{Prompts: all}, nil
}

// GetPrompt decodes the composite prompt name and forwards the call to the
// owning upstream, returning its result unmodified: prompts do not carry
// addressable identifiers the way resources do, so there is nothing further
// to rewrite.
func (s *Server) GetPrompt(ctx context.Context, params *mcp.GetPromptParams) (*mcp.GetPromptResult, error) {
	id, local, err := DecodeID(params.Name)
	if err != nil {
		return nil, err
	}
	h, err := s.handler(id)
	if err != nil {
		return nil, err
	}
	return h.GetPrompt(ctx, &mcp.GetPromptParams{Name: local, Arguments: params.Arguments})
}

// Close closes every registered upstream handler, collecting (but not
// stopping on) individual close errors so one stuck upstream cannot prevent
// the others from being torn down.
func (s *Server) Close() error {
	var firstErr error
	for id, h := range s.handlers {
		if err := h.Close(); err != nil {
			s.logger.Warn("error closing upstream handler", "handler_id", id, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// rewriteEmbeddedResourceURIs rewrites the URI of every embedded-resource
// content block in a tool call result into composite form, so a client that
// reads a resource a tool just handed it back routes to the same upstream.
func rewriteEmbeddedResourceURIs(result *mcp.CallToolResult, id HandlerID) {
	for _, c := range result.Content {
		er, ok := c.(*mcp.EmbeddedResource)
		if !ok || er.Resource == nil {
			continue
		}
		er.Resource.URI = EncodeID(id, er.Resource.URI)
	}
}
