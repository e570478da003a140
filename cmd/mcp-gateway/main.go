package main

import "github.com/elastic/mcp-gateway/cmd/mcp-gateway/cmd"

func main() {
	cmd.Execute()
}
