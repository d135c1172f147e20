package mcpbridge

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

const skillDoc = `---
id: greet
version: 1.0.0
description: says hello
input_schema:
  name: string
---
## step: greeting
type: template
varName: greeting
body: "hello {{name}}"
`

func writeSkill(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "greet.skill.md")
	if err := os.WriteFile(path, []byte(skillDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestHandleValidate_MissingPath(t *testing.T) {
	h := &handlers{stateDir: t.TempDir()}
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{}

	result, err := h.handleValidate(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("expected error for missing path")
	}
}

func TestHandleValidate_ValidSkill(t *testing.T) {
	h := &handlers{stateDir: t.TempDir()}
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"path": writeSkill(t)}

	result, err := h.handleValidate(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Errorf("expected success, got error result: %+v", result)
	}
}

func TestHandleRun_CompletesSkill(t *testing.T) {
	h := &handlers{stateDir: t.TempDir()}
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{
		"path":  writeSkill(t),
		"input": map[string]any{"name": "ada"},
	}

	result, err := h.handleRun(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Errorf("expected success, got error result: %+v", result)
	}
}

func TestHandleSchema_ValidSkill(t *testing.T) {
	h := &handlers{stateDir: t.TempDir()}
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"path": writeSkill(t)}

	result, err := h.handleSchema(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Error("expected success for schema export")
	}
	if len(result.Content) == 0 {
		t.Error("expected schema content")
	}
}

func TestHandleResume_MissingArgs(t *testing.T) {
	h := &handlers{stateDir: t.TempDir()}
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"path": writeSkill(t)}

	result, err := h.handleResume(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("expected error for missing executionId")
	}
}
