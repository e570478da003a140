// Package config loads the gateway's upstream-server manifest: a JSON5
// document naming each upstream MCP server and how to reach it.
package config

import "fmt"

// ServerType discriminates the McpServer union on its "type" field, the Go
// stand-in for the source's tagged enum.
type ServerType string

const (
	ServerTypeElasticsearch  ServerType = "elasticsearch"
	ServerTypeStdio          ServerType = "stdio"
	ServerTypeSSE            ServerType = "sse"
	ServerTypeStreamableHTTP ServerType = "streamableHttp"
)

// File is the root shape of the configuration document:
//
//	{ "mcpServers": { "<name>": <spec>, ... } }
type File struct {
	McpServers map[string]McpServer `json:"mcpServers" validate:"required,dive"`
}

// McpServer is one upstream entry. Only the fields relevant to Type are
// used. validateShape checks that the fields Type requires are set; fields
// that belong to other types are not rejected.
type McpServer struct {
	Type ServerType `json:"type" validate:"required,oneof=elasticsearch stdio sse streamableHttp"`

	// Elasticsearch, stdio, sse, streamableHttp all share "url" loosely,
	// but stdio uses Command/Args/Env instead. Keeping them as separate
	// fields (rather than one "address" field reused across types) mirrors
	// the source's per-variant struct shape most directly.
	URL      string `json:"url,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	APIKey   string `json:"apiKey,omitempty"`

	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

func (s McpServer) validateShape(name string) error {
	switch s.Type {
	case ServerTypeElasticsearch:
		if s.URL == "" {
			return fmt.Errorf("mcpServers.%s: elasticsearch requires \"url\"", name)
		}
	case ServerTypeStdio:
		if s.Command == "" {
			return fmt.Errorf("mcpServers.%s: stdio requires \"command\"", name)
		}
	case ServerTypeSSE, ServerTypeStreamableHTTP:
		if s.URL == "" {
			return fmt.Errorf("mcpServers.%s: %s requires \"url\"", name, s.Type)
		}
	default:
		return fmt.Errorf("mcpServers.%s: unknown type %q", name, s.Type)
	}
	return nil
}
