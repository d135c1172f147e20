// Package mcpbridge exposes the skill runtime over MCP (Model Context
// Protocol), the same mark3labs/mcp-go surface used elsewhere in this
// codebase: a stdio server AI agents can attach to, offering skill/validate,
// skill/run, skill/resume, and skill/schema as tools.
package mcpbridge

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates an MCP server with the skill runtime's tools registered.
// stateDir roots the FileStore used to persist and resume suspended
// executions across calls.
func NewServer(version, stateDir string) *server.MCPServer {
	s := server.NewMCPServer(
		"skillrun",
		version,
		server.WithToolCapabilities(true),
	)

	h := &handlers{stateDir: stateDir}

	s.AddTool(
		mcp.NewTool("skill/validate",
			mcp.WithDescription("Validate a skill document (3-phase pipeline)"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Path to the skill.md document")),
		),
		h.handleValidate,
	)

	s.AddTool(
		mcp.NewTool("skill/run",
			mcp.WithDescription("Execute a skill document from fresh input"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Path to the skill.md document")),
		),
		h.handleRun,
	)

	s.AddTool(
		mcp.NewTool("skill/resume",
			mcp.WithDescription("Resume a suspended execution with user-supplied input"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Path to the skill.md document")),
			mcp.WithString("executionId", mcp.Required(), mcp.Description("Execution id returned by a prior run/resume call")),
		),
		h.handleResume,
	)

	s.AddTool(
		mcp.NewTool("skill/schema",
			mcp.WithDescription("Export a skill's input/output JSON Schema"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Path to the skill.md document")),
		),
		h.handleSchema,
	)

	return s
}
