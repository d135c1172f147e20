package executor

import (
	"errors"
	"testing"

	"github.com/skillkit/skillrun/pkg/execctx"
	"github.com/skillkit/skillrun/pkg/registry"
	"github.com/skillkit/skillrun/pkg/skill"
)

type mockTool struct {
	name       string
	calls      int
	executeErr error
	copy       func(input map[string]any, out *registry.ToolOutputContext)
}

func (m *mockTool) Name() string                    { return m.name }
func (m *mockTool) Description() string             { return "mock" }
func (m *mockTool) Category() string                { return "test" }
func (m *mockTool) Tags() []string                  { return nil }
func (m *mockTool) Version() string                 { return "1.0.0" }
func (m *mockTool) InputSchema() registry.ToolSchema  { return nil }
func (m *mockTool) OutputSchema() registry.ToolSchema { return nil }
func (m *mockTool) ValidateInput(map[string]any) registry.ValidationResult {
	return registry.ValidationResult{Valid: true}
}
func (m *mockTool) Execute(input map[string]any, out *registry.ToolOutputContext) error {
	m.calls++
	if m.executeErr != nil {
		return m.executeErr
	}
	if m.copy != nil {
		m.copy(input, out)
	}
	return nil
}

func TestToolExecutor_NotFound(t *testing.T) {
	reg := registry.NewToolRegistry()
	e := &ToolExecutor{Tools: reg}
	step := skill.Step{Name: "s1", Type: skill.StepTool, ToolName: "missing"}
	result := e.Execute(step, execctx.New(nil))
	if result.Status != execctx.StatusFailed {
		t.Fatalf("expected FAILED, got %v", result.Status)
	}
	if result.Error == "" {
		t.Error("expected TOOL_NOT_FOUND error message")
	}
}

func TestToolExecutor_EchoesInput(t *testing.T) {
	tool := &mockTool{name: "echo", copy: func(input map[string]any, out *registry.ToolOutputContext) {
		out.Set("y", input["x"])
	}}
	reg := registry.NewToolRegistry()
	reg.Register(tool)
	e := &ToolExecutor{Tools: reg}

	ctx := execctx.New(map[string]any{"name": "ada"})
	step := skill.Step{Name: "s1", Type: skill.StepTool, ToolName: "echo", InputTemplate: map[string]any{"x": "{{name}}"}, VarName: "y"}
	result := e.Execute(step, ctx)
	if result.Status != execctx.StatusSuccess {
		t.Fatalf("expected SUCCESS, got %v (%s)", result.Status, result.Error)
	}
	out := result.Output.(map[string]any)
	if out["y"] != "ada" {
		t.Errorf("got %v", out)
	}
	if tool.calls != 1 {
		t.Errorf("expected tool called once, got %d", tool.calls)
	}
}

func TestToolExecutor_ExecutionErrorIsFailed(t *testing.T) {
	tool := &mockTool{name: "boom", executeErr: errors.New("kaboom")}
	reg := registry.NewToolRegistry()
	reg.Register(tool)
	e := &ToolExecutor{Tools: reg}
	result := e.Execute(skill.Step{Name: "s1", Type: skill.StepTool, ToolName: "boom"}, execctx.New(nil))
	if result.Status != execctx.StatusFailed {
		t.Fatalf("expected FAILED, got %v", result.Status)
	}
}

func TestTemplateExecutor_Success(t *testing.T) {
	ctx := execctx.New(map[string]any{"a": 2.0, "b": 3.0})
	e := TemplateExecutor{}
	result := e.Execute(skill.Step{Name: "s1", Type: skill.StepTemplate, Body: "{{a}}+{{b}}", VarName: "total"}, ctx)
	if result.Status != execctx.StatusSuccess || result.Output != "5" {
		t.Errorf("got %+v", result)
	}
}

func TestAwaitExecutor_ProducesAwaitingWithoutAdvancing(t *testing.T) {
	ctx := execctx.New(nil)
	e := AwaitExecutor{}
	step := skill.Step{Name: "a1", Type: skill.StepAwait, Message: "please confirm", AwaitInputSchema: skill.InputSchema{"confirm": {Type: skill.FieldBoolean, Required: true}}}
	result := e.Execute(step, ctx)
	if result.Status != execctx.StatusAwaiting {
		t.Fatalf("expected AWAITING, got %v", result.Status)
	}
	req, ok := result.Output.(execctx.AwaitRequest)
	if !ok || req.Message != "please confirm" {
		t.Errorf("got %+v", result.Output)
	}
}

type mockAdapter struct {
	available bool
	response  string
	err       error
}

func (a *mockAdapter) Name() string             { return "mock" }
func (a *mockAdapter) SupportedModels() []string { return []string{"mock-1"} }
func (a *mockAdapter) IsAvailable() bool        { return a.available }
func (a *mockAdapter) Invoke(prompt string, options registry.LLMOptions) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	return a.response, nil
}
func (a *mockAdapter) InvokeAsync(prompt string, options registry.LLMOptions) <-chan registry.AsyncResult {
	ch := make(chan registry.AsyncResult, 1)
	v, err := a.Invoke(prompt, options)
	ch <- registry.AsyncResult{Value: v, Err: err}
	close(ch)
	return ch
}

func TestPromptExecutor_Success(t *testing.T) {
	adapters := registry.NewLLMAdapterRegistry()
	adapters.Register(&mockAdapter{available: true, response: "hi there"})
	e := &PromptExecutor{Adapters: adapters}
	result := e.Execute(skill.Step{Name: "p1", Type: skill.StepPrompt, Body: "hello", VarName: "reply"}, execctx.New(nil))
	if result.Status != execctx.StatusSuccess || result.Output != "hi there" {
		t.Errorf("got %+v", result)
	}
}

func TestPromptExecutor_UnavailableAdapterFails(t *testing.T) {
	adapters := registry.NewLLMAdapterRegistry()
	adapters.Register(&mockAdapter{available: false})
	e := &PromptExecutor{Adapters: adapters}
	result := e.Execute(skill.Step{Name: "p1", Type: skill.StepPrompt, Body: "hi"}, execctx.New(nil))
	if result.Status != execctx.StatusFailed {
		t.Fatalf("expected FAILED, got %v", result.Status)
	}
}
