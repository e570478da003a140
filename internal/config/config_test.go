package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "mcp.json5")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad_parsesJSON5WithComments(t *testing.T) {
	path := writeConfig(t, `{
		// inline comment, valid JSON5 but not valid JSON
		mcpServers: {
			es: { type: "elasticsearch", url: "http://localhost:9200" },
		},
	}`)

	file, err := Load(path)
	require.NoError(t, err)
	require.Contains(t, file.McpServers, "es")
	assert.Equal(t, ServerTypeElasticsearch, file.McpServers["es"].Type)
}

func TestLoad_interpolatesEnvironmentVariables(t *testing.T) {
	t.Setenv("ES_URL", "http://es.internal:9200")
	path := writeConfig(t, `{ "mcpServers": { "es": { "type": "elasticsearch", "url": "${ES_URL}" } } }`)

	file, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://es.internal:9200", file.McpServers["es"].URL)
}

func TestLoad_undefinedEnvironmentVariableIsFatal(t *testing.T) {
	path := writeConfig(t, `{ "mcpServers": { "es": { "type": "elasticsearch", "url": "${DOES_NOT_EXIST_XYZ}" } } }`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_stdioRequiresCommand(t *testing.T) {
	path := writeConfig(t, `{ "mcpServers": { "tool": { "type": "stdio" } } }`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires \"command\"")
}

func TestLoad_rejectsUnknownType(t *testing.T) {
	path := writeConfig(t, `{ "mcpServers": { "tool": { "type": "carrier-pigeon" } } }`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_missingFileIsFatal(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json5"))
	require.Error(t, err)
}

func TestLoad_stdioWithArgsAndEnv(t *testing.T) {
	path := writeConfig(t, `{
		mcpServers: {
			fs: {
				type: "stdio",
				command: "npx",
				args: ["-y", "@modelcontextprotocol/server-filesystem", "/tmp"],
				env: { "LOG_LEVEL": "debug" },
			},
		},
	}`)

	file, err := Load(path)
	require.NoError(t, err)
	fs := file.McpServers["fs"]
	assert.Equal(t, "npx", fs.Command)
	assert.Equal(t, []string{"-y", "@modelcontextprotocol/server-filesystem", "/tmp"}, fs.Args)
	assert.Equal(t, "debug", fs.Env["LOG_LEVEL"])
}
