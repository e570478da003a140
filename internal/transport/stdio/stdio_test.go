package stdio

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elastic/mcp-gateway/internal/aggregate"
	"github.com/elastic/mcp-gateway/internal/shutdown"
)

func TestRun_dispatchesLinesAndCancelsShutdownOnEOF(t *testing.T) {
	srv := aggregate.NewBuilder(nil).Build()
	sd := shutdown.New()
	tr := New(srv, sd, nil)

	in := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}` + "\n")
	var out bytes.Buffer

	err := tr.Run(context.Background(), in, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"result"`)
	assert.True(t, sd.Cancelled())
}

func TestRun_skipsBlankLines(t *testing.T) {
	srv := aggregate.NewBuilder(nil).Build()
	sd := shutdown.New()
	tr := New(srv, sd, nil)

	in := strings.NewReader("\n\n" + `{"jsonrpc":"2.0","id":1,"method":"tools/list"}` + "\n")
	var out bytes.Buffer

	err := tr.Run(context.Background(), in, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out.String(), "jsonrpc"))
}

func TestRun_discardsUnparseableMessagesAndContinues(t *testing.T) {
	srv := aggregate.NewBuilder(nil).Build()
	sd := shutdown.New()
	tr := New(srv, sd, nil)

	in := strings.NewReader("not json\n" + `{"jsonrpc":"2.0","id":1,"method":"tools/list"}` + "\n")
	var out bytes.Buffer

	err := tr.Run(context.Background(), in, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"result"`)
}

func TestRun_cancelsShutdownOnContextCancellation(t *testing.T) {
	srv := aggregate.NewBuilder(nil).Build()
	sd := shutdown.New()
	tr := New(srv, sd, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}` + "\n")
	var out bytes.Buffer

	_ = tr.Run(ctx, in, &out)
	assert.True(t, sd.Cancelled())
}
