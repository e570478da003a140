package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elastic/mcp-gateway/internal/config"
	"github.com/elastic/mcp-gateway/internal/shutdown"
)

func TestBuildHandler_rejectsUnknownType(t *testing.T) {
	sd := shutdown.New()
	_, err := buildHandler(context.Background(), "mystery", config.McpServer{Type: "carrier-pigeon"}, sd, nil)
	require.Error(t, err)
}

func TestEnvPairs_formatsKeyEqualsValue(t *testing.T) {
	pairs := envPairs(map[string]string{"FOO": "bar"})
	assert.Equal(t, []string{"FOO=bar"}, pairs)
}

func TestSetup_fatalOnMissingConfigFile(t *testing.T) {
	_, _, err := Setup(context.Background(), "/nonexistent/path.json5", nil)
	require.Error(t, err)
}
