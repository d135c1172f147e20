package mcpbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/skillkit/skillrun/pkg/execctx"
	"github.com/skillkit/skillrun/pkg/executor"
	"github.com/skillkit/skillrun/pkg/orchestrator"
	"github.com/skillkit/skillrun/pkg/registry"
	"github.com/skillkit/skillrun/pkg/schemagen"
	"github.com/skillkit/skillrun/pkg/skill"
)

// handlers holds the state shared across MCP tool calls: the FileStore root
// so a skill/run call's AWAIT suspension can be resumed by a later
// skill/resume call, possibly from a different MCP session.
type handlers struct {
	stateDir string
}

func (h *handlers) loadSkill(path string) (*skill.Skill, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, errs := skill.ValidateDocument(doc)
	if skill.HasErrors(errs) {
		return nil, fmt.Errorf("%s", formatErrors(errs))
	}
	return s, nil
}

func (h *handlers) buildExecutor() *orchestrator.Executor {
	tools := registry.NewToolRegistry()
	adapters := registry.NewLLMAdapterRegistry()
	dispatch := executor.New(&executor.ToolExecutor{Tools: tools}, &executor.PromptExecutor{Adapters: adapters})
	return &orchestrator.Executor{Dispatch: dispatch, Store: execctx.NewFileStore(h.stateDir)}
}

func (h *handlers) handleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, _ := args["path"].(string)
	if path == "" {
		return errorResult("path argument is required"), nil
	}
	doc, err := os.ReadFile(path)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	s, errs := skill.ValidateDocument(doc)
	if skill.HasErrors(errs) {
		return errorResult(formatErrors(errs)), nil
	}
	return textResult(fmt.Sprintf("✓ %s is valid (%d steps)", s.ID, len(s.Steps))), nil
}

func (h *handlers) handleRun(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, _ := args["path"].(string)
	if path == "" {
		return errorResult("path argument is required"), nil
	}
	s, err := h.loadSkill(path)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	input, _ := args["input"].(map[string]any)
	exec := h.buildExecutor()
	return resultToMCP(exec.Execute(s, input)), nil
}

func (h *handlers) handleResume(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, _ := args["path"].(string)
	executionID, _ := args["executionId"].(string)
	if path == "" || executionID == "" {
		return errorResult("path and executionId arguments are required"), nil
	}
	s, err := h.loadSkill(path)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	input, _ := args["input"].(map[string]any)
	exec := h.buildExecutor()
	return resultToMCP(exec.Resume(s, executionID, input)), nil
}

func (h *handlers) handleSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, _ := args["path"].(string)
	if path == "" {
		return errorResult("path argument is required"), nil
	}
	s, err := h.loadSkill(path)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	in, err := schemagen.GenerateInputSchema(s.ID, s.InputSchema)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	out, err := schemagen.GenerateOutputSchema(s.ID, s.OutputContract)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	data, _ := json.MarshalIndent(map[string]json.RawMessage{"input": in, "output": out}, "", "  ")
	return textResult(string(data)), nil
}

func resultToMCP(r *orchestrator.SkillResult) *mcp.CallToolResult {
	response := map[string]any{
		"executionId": r.ExecutionID,
		"status":      string(r.Status),
	}
	switch r.Status {
	case orchestrator.StatusCompleted:
		response["output"] = r.Output
	case orchestrator.StatusAwaiting:
		response["await"] = r.Await
	case orchestrator.StatusFailed:
		response["error"] = r.Error
	}
	data, _ := json.MarshalIndent(response, "", "  ")
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(data))},
		IsError: r.Status == orchestrator.StatusFailed,
	}
}

func formatErrors(errs []*skill.ValidationError) string {
	msg := ""
	for _, e := range errs {
		if e.Severity != "error" {
			continue
		}
		if msg != "" {
			msg += "; "
		}
		msg += fmt.Sprintf("[%s] %s", e.Phase, e.Message)
	}
	return msg
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(text)}}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(msg)}, IsError: true}
}
