package rpc

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elastic/mcp-gateway/internal/aggregate"
)

func TestDispatch_rejectsUnsupportedMethodsOutright(t *testing.T) {
	srv := aggregate.NewBuilder(nil).Build()
	for _, method := range []string{"resources/subscribe", "resources/unsubscribe", "logging/setLevel", "completion/complete"} {
		resp := Dispatch(context.Background(), srv, Request{Method: method, ID: json.RawMessage(`1`)})
		require.NotNil(t, resp.Error, "method %s", method)
		assert.Equal(t, CodeMethodNotFound, resp.Error.Code)
	}
}

func TestDispatch_unknownMethod(t *testing.T) {
	srv := aggregate.NewBuilder(nil).Build()
	resp := Dispatch(context.Background(), srv, Request{Method: "nonexistent", ID: json.RawMessage(`1`)})
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeMethodNotFound, resp.Error.Code)
}

func TestDispatch_ping_noUpstreamsReturnsInternalError(t *testing.T) {
	srv := aggregate.NewBuilder(nil).Build()
	resp := Dispatch(context.Background(), srv, Request{Method: "ping", ID: json.RawMessage(`1`)})
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInternalError, resp.Error.Code)
}

func TestDispatch_toolsCall_unknownCompositeIDIsResourceNotFound(t *testing.T) {
	srv := aggregate.NewBuilder(nil).Build()
	params, _ := json.Marshal(mcp.CallToolParams{Name: "no-underscore"})
	resp := Dispatch(context.Background(), srv, Request{Method: "tools/call", ID: json.RawMessage(`1`), Params: params})
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeResourceNotFound, resp.Error.Code)
}

func TestDispatch_toolsList_noUpstreamsReturnsEmptyResult(t *testing.T) {
	srv := aggregate.NewBuilder(nil).Build()
	resp := Dispatch(context.Background(), srv, Request{Method: "tools/list", ID: json.RawMessage(`1`)})
	require.Nil(t, resp.Error)
	result, ok := resp.Result.(*mcp.ListToolsResult)
	require.True(t, ok)
	assert.Empty(t, result.Tools)
}

func TestDispatch_invalidParamsJSON(t *testing.T) {
	srv := aggregate.NewBuilder(nil).Build()
	resp := Dispatch(context.Background(), srv, Request{Method: "tools/call", ID: json.RawMessage(`1`), Params: json.RawMessage(`{not-json`)})
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInvalidParams, resp.Error.Code)
}
