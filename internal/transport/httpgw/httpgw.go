// Package httpgw binds the aggregate to a streaming-HTTP transport: one
// JSON-RPC request per HTTP request, stateless (no session keep-alive, no
// state persisted across requests) — the gateway does not need a
// streamable-HTTP session manager because every request is dispatched
// against the same immutable aggregate regardless of which connection it
// arrived on.
package httpgw

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/elastic/mcp-gateway/internal/aggregate"
	"github.com/elastic/mcp-gateway/internal/shutdown"
	"github.com/elastic/mcp-gateway/internal/telemetry"
	"github.com/elastic/mcp-gateway/internal/transport/rpc"
)

const maxRequestBytes = 4 << 20 // 4MiB, generous for a tool-call payload

// Transport serves one aggregate over plain HTTP at a single endpoint, plus
// a /metrics endpoint scraping its own private registry.
type Transport struct {
	server   *aggregate.Server
	sd       *shutdown.Token
	logger   *slog.Logger
	addr     string
	http     *http.Server
	registry *prometheus.Registry
	metrics  *telemetry.Metrics
}

func New(server *aggregate.Server, sd *shutdown.Token, addr string, logger *slog.Logger) *Transport {
	if logger == nil {
		logger = slog.Default()
	}
	registry := prometheus.NewRegistry()
	return &Transport{
		server:   server,
		sd:       sd,
		addr:     addr,
		logger:   logger,
		registry: registry,
		metrics:  telemetry.NewMetrics(registry),
	}
}

// Run listens on addr and serves until ctx is cancelled, at which point it
// shuts the HTTP server down gracefully and cancels the shutdown token.
func (t *Transport) Run(ctx context.Context) error {
	defer t.sd.Cancel()

	mux := http.NewServeMux()
	mux.HandleFunc("/mcp", t.handle)
	mux.Handle("/metrics", promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{}))

	t.http = &http.Server{Addr: t.addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		t.logger.Info("starting http server", "addr", t.addr)
		err := t.http.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		return t.shutdown()
	case err := <-errCh:
		return err
	}
}

func (t *Transport) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return t.http.Shutdown(ctx)
}

// requestIDHeader carries a per-request correlation id, generated here if
// the caller didn't supply one, so a single request can be traced through
// gateway logs independent of any upstream session state.
const requestIDHeader = "X-Request-Id"

func (t *Transport) handle(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	w.Header().Set(requestIDHeader, requestID)
	logger := t.logger.With("request_id", requestID)

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes+1))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	if len(body) > maxRequestBytes {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	var req rpc.Request
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "malformed JSON-RPC request", http.StatusBadRequest)
		return
	}

	if req.IsNotification() {
		rpc.HandleNotification(r.Context(), t.server, req)
		w.WriteHeader(http.StatusAccepted)
		return
	}

	start := time.Now()
	resp := rpc.Dispatch(r.Context(), t.server, req)
	status := "ok"
	if resp.Error != nil {
		status = "error"
	}
	t.metrics.Observe(req.Method, status, time.Since(start).Seconds())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
