// Package main provides the skillrun-mcp binary: an MCP server exposing
// skill/validate, skill/run, skill/resume, and skill/schema over stdio for
// AI agents to call directly.
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/skillkit/skillrun/pkg/mcpbridge"
)

var version = "dev"

func main() {
	stateDir := os.Getenv("SKILLRUN_STATE_DIR")
	if stateDir == "" {
		stateDir = ".skillrun-state"
	}
	s := mcpbridge.NewServer(version, stateDir)
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
