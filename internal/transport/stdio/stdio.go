// Package stdio binds the aggregate to a newline-framed JSON-RPC 2.0
// transport over the process's own stdin/stdout — the standard MCP stdio
// transport. It runs until EOF, or until it sees the context (cancelled by
// an interrupt signal) done before handling a message, and always cancels
// the shared shutdown token on the way out so every proxied upstream
// connection is closed with it.
//
// To test with stdio, use `npx @modelcontextprotocol/inspector` against the
// built binary's `stdio` subcommand.
package stdio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/elastic/mcp-gateway/internal/aggregate"
	"github.com/elastic/mcp-gateway/internal/shutdown"
	"github.com/elastic/mcp-gateway/internal/transport/rpc"
)

// Transport serves one aggregate over a pair of newline-framed streams.
type Transport struct {
	server *aggregate.Server
	sd     *shutdown.Token
	logger *slog.Logger
}

func New(server *aggregate.Server, sd *shutdown.Token, logger *slog.Logger) *Transport {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{server: server, sd: sd, logger: logger}
}

// Run reads newline-delimited JSON-RPC messages from in and writes
// responses to out until in reaches EOF or ctx is cancelled. ctx is checked
// after each line is read, not during a read: a cancellation while Run waits
// for input takes effect only when the next line or EOF arrives. It always
// cancels the shutdown token before returning, regardless of which of the
// two happened.
func (t *Transport) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	defer t.sd.Cancel()

	scanner := bufio.NewScanner(in)
	buf := make([]byte, 0, 256*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var req rpc.Request
		if err := json.Unmarshal(line, &req); err != nil {
			t.logger.Warn("discarding unparseable message", "error", err)
			continue
		}

		if req.IsNotification() {
			rpc.HandleNotification(ctx, t.server, req)
			continue
		}

		resp := rpc.Dispatch(ctx, t.server, req)
		if err := writeResponse(out, resp); err != nil {
			return fmt.Errorf("write failed: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan error: %w", err)
	}
	return nil
}

func writeResponse(out io.Writer, resp rpc.Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		return err
	}
	_, err = out.Write([]byte("\n"))
	return err
}
