package httpgw

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"

	"github.com/elastic/mcp-gateway/internal/aggregate"
	"github.com/elastic/mcp-gateway/internal/shutdown"
)

func TestHandle_dispatchesToolsList(t *testing.T) {
	srv := aggregate.NewBuilder(nil).Build()
	tr := New(srv, shutdown.New(), "127.0.0.1:0", nil)

	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(
		`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	w := httptest.NewRecorder()

	tr.handle(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"result"`)
}

func TestHandle_rejectsNonPOST(t *testing.T) {
	srv := aggregate.NewBuilder(nil).Build()
	tr := New(srv, shutdown.New(), "127.0.0.1:0", nil)

	req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
	w := httptest.NewRecorder()

	tr.handle(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHandle_rejectsOversizedBody(t *testing.T) {
	srv := aggregate.NewBuilder(nil).Build()
	tr := New(srv, shutdown.New(), "127.0.0.1:0", nil)

	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(strings.Repeat("a", maxRequestBytes+2)))
	w := httptest.NewRecorder()

	tr.handle(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestHandle_malformedJSON(t *testing.T) {
	srv := aggregate.NewBuilder(nil).Build()
	tr := New(srv, shutdown.New(), "127.0.0.1:0", nil)

	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(`{not json`))
	w := httptest.NewRecorder()

	tr.handle(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandle_generatesRequestIDWhenAbsent(t *testing.T) {
	srv := aggregate.NewBuilder(nil).Build()
	tr := New(srv, shutdown.New(), "127.0.0.1:0", nil)

	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(
		`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	w := httptest.NewRecorder()
	tr.handle(w, req)

	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestHandle_echoesIncomingRequestID(t *testing.T) {
	srv := aggregate.NewBuilder(nil).Build()
	tr := New(srv, shutdown.New(), "127.0.0.1:0", nil)

	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(
		`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	req.Header.Set(requestIDHeader, "caller-supplied-id")
	w := httptest.NewRecorder()
	tr.handle(w, req)

	assert.Equal(t, "caller-supplied-id", w.Header().Get(requestIDHeader))
}

func TestHandle_recordsMetrics(t *testing.T) {
	srv := aggregate.NewBuilder(nil).Build()
	tr := New(srv, shutdown.New(), "127.0.0.1:0", nil)

	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(
		`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	tr.handle(httptest.NewRecorder(), req)

	metricsReq := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	metricsW := httptest.NewRecorder()
	promhttp.HandlerFor(tr.registry, promhttp.HandlerOpts{}).ServeHTTP(metricsW, metricsReq)

	assert.Contains(t, metricsW.Body.String(), `mcp_gateway_requests_total{method="tools/list",status="ok"} 1`)
}

func TestHandle_notificationReturnsAccepted(t *testing.T) {
	srv := aggregate.NewBuilder(nil).Build()
	tr := New(srv, shutdown.New(), "127.0.0.1:0", nil)

	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	w := httptest.NewRecorder()

	tr.handle(w, req)
	assert.Equal(t, http.StatusAccepted, w.Code)
}
