// Package rpc implements the JSON-RPC 2.0 method dispatch shared by the
// stdio and HTTP transports: decoding a request's params into the matching
// typed aggregate.Handler call, and encoding the result (or error) back
// into a JSON-RPC response. Both transports differ only in how bytes reach
// this dispatcher — framing over stdio, request/response over HTTP — never
// in what a given method means.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/elastic/mcp-gateway/internal/aggregate"
)

// JSON-RPC 2.0 error codes, per the spec.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603

	// CodeResourceNotFound is the MCP-specific error code for a resource,
	// tool, or prompt identifier that does not resolve to anything —
	// including a composite identifier whose handler id is unknown.
	CodeResourceNotFound = -32002
)

type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// IsNotification reports whether req carries no id, and therefore expects
// no response.
func (r Request) IsNotification() bool {
	return len(r.ID) == 0
}

// methodsRejectedOutright are never part of Handler: they are refused at
// the dispatch layer itself, without ever reaching an upstream.
var methodsRejectedOutright = map[string]bool{
	"resources/subscribe":   true,
	"resources/unsubscribe": true,
	"logging/setLevel":      true,
	"completion/complete":   true,
}

// Dispatch handles one JSON-RPC request against srv and returns the
// response to write back. Call only for requests with an id; notifications
// should be handled by the caller without expecting a reply (see
// HandleNotification).
func Dispatch(ctx context.Context, srv *aggregate.Server, req Request) Response {
	resp := Response{JSONRPC: "2.0", ID: req.ID}

	if methodsRejectedOutright[req.Method] {
		resp.Error = &Error{Code: CodeMethodNotFound, Message: fmt.Sprintf("method not found: %s", req.Method)}
		return resp
	}

	result, err := dispatchMethod(ctx, srv, req.Method, req.Params)
	if err != nil {
		resp.Error = toRPCError(err)
		return resp
	}
	resp.Result = result
	return resp
}

// HandleNotification runs a notification (a request with no id) for its
// side effects. The aggregate has none, so every notification is dropped
// here without logging or forwarding; it exists as the dispatch layer's
// symmetrical counterpart to Dispatch.
func HandleNotification(_ context.Context, _ *aggregate.Server, _ Request) {}

func dispatchMethod(ctx context.Context, srv *aggregate.Server, method string, params json.RawMessage) (any, error) {
	switch method {
	case "ping":
		if err := srv.Ping(ctx); err != nil {
			return nil, err
		}
		return struct{}{}, nil

	case "initialize":
		var p mcp.InitializeParams
		if err := unmarshalParams(params, &p); err != nil {
			return nil, err
		}
		return srv.Initialize(ctx, &p)

	case "tools/list":
		var p mcp.ListToolsParams
		if err := unmarshalParams(params, &p); err != nil {
			return nil, err
		}
		return srv.ListTools(ctx, &p)

	case "tools/call":
		var p mcp.CallToolParams
		if err := unmarshalParams(params, &p); err != nil {
			return nil, err
		}
		return srv.CallTool(ctx, &p)

	case "resources/list":
		var p mcp.ListResourcesParams
		if err := unmarshalParams(params, &p); err != nil {
			return nil, err
		}
		return srv.ListResources(ctx, &p)

	case "resources/templates/list":
		var p mcp.ListResourceTemplatesParams
		if err := unmarshalParams(params, &p); err != nil {
			return nil, err
		}
		return srv.ListResourceTemplates(ctx, &p)

	case "resources/read":
		var p mcp.ReadResourceParams
		if err := unmarshalParams(params, &p); err != nil {
			return nil, err
		}
		return srv.ReadResource(ctx, &p)

	case "prompts/list":
		var p mcp.ListPromptsParams
		if err := unmarshalParams(params, &p); err != nil {
			return nil, err
		}
		return srv.ListPrompts(ctx, &p)

	case "prompts/get":
		var p mcp.GetPromptParams
		if err := unmarshalParams(params, &p); err != nil {
			return nil, err
		}
		return srv.GetPrompt(ctx, &p)

	default:
		return nil, &rpcMethodNotFoundError{method: method}
	}
}

func unmarshalParams(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &rpcInvalidParamsError{err: err}
	}
	return nil
}

type rpcMethodNotFoundError struct{ method string }

func (e *rpcMethodNotFoundError) Error() string { return fmt.Sprintf("method not found: %s", e.method) }

type rpcInvalidParamsError struct{ err error }

func (e *rpcInvalidParamsError) Error() string { return fmt.Sprintf("invalid params: %s", e.err) }
func (e *rpcInvalidParamsError) Unwrap() error { return e.err }

func toRPCError(err error) *Error {
	var notFound *rpcMethodNotFoundError
	if errors.As(err, &notFound) {
		return &Error{Code: CodeMethodNotFound, Message: err.Error()}
	}
	var invalidParams *rpcInvalidParamsError
	if errors.As(err, &invalidParams) {
		return &Error{Code: CodeInvalidParams, Message: err.Error()}
	}
	if errors.Is(err, aggregate.ErrResourceNotFound) {
		return &Error{Code: CodeResourceNotFound, Message: err.Error()}
	}
	if errors.Is(err, aggregate.ErrMethodNotFound) {
		return &Error{Code: CodeMethodNotFound, Message: err.Error()}
	}
	return &Error{Code: CodeInternalError, Message: err.Error()}
}
