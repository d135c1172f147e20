package orchestrator

import (
	"testing"
	"time"

	"github.com/skillkit/skillrun/pkg/execctx"
	"github.com/skillkit/skillrun/pkg/executor"
	"github.com/skillkit/skillrun/pkg/registry"
	"github.com/skillkit/skillrun/pkg/skill"
)

type countingTool struct {
	name  string
	calls int
	set   map[string]any
}

func (t *countingTool) Name() string                     { return t.name }
func (t *countingTool) Description() string              { return "counting" }
func (t *countingTool) Category() string                 { return "test" }
func (t *countingTool) Tags() []string                   { return nil }
func (t *countingTool) Version() string                  { return "1.0.0" }
func (t *countingTool) InputSchema() registry.ToolSchema  { return nil }
func (t *countingTool) OutputSchema() registry.ToolSchema { return nil }
func (t *countingTool) ValidateInput(map[string]any) registry.ValidationResult {
	return registry.ValidationResult{Valid: true}
}
func (t *countingTool) Execute(input map[string]any, out *registry.ToolOutputContext) error {
	t.calls++
	for k, v := range t.set {
		out.Set(k, v)
	}
	return nil
}

func newExecutor(tools *registry.ToolRegistry) *Executor {
	adapters := registry.NewLLMAdapterRegistry()
	dispatch := executor.New(&executor.ToolExecutor{Tools: tools}, &executor.PromptExecutor{Adapters: adapters})
	return &Executor{Dispatch: dispatch, Store: execctx.NewMemStore()}
}

// E1: pure-template skill, no tools, no await.
func TestE1_PureTemplate(t *testing.T) {
	s := &skill.Skill{
		ID: "e1", Version: "1.0.0",
		Steps: []skill.Step{
			{Name: "greet", Type: skill.StepTemplate, Body: "hello {{name}}", VarName: "greeting"},
		},
	}
	exec := newExecutor(registry.NewToolRegistry())
	result := exec.Execute(s, map[string]any{"name": "ada"})
	if result.Status != StatusCompleted {
		t.Fatalf("expected COMPLETED, got %v: %s", result.Status, result.Error)
	}
	if result.Output["greeting"] != "hello ada" {
		t.Errorf("got %+v", result.Output)
	}
}

// E2: tool step feeding a template step.
func TestE2_ToolThenTemplate(t *testing.T) {
	tools := registry.NewToolRegistry()
	tools.Register(&countingTool{name: "lookup", set: map[string]any{"score": 42.0}})
	s := &skill.Skill{
		ID: "e2", Version: "1.0.0",
		Steps: []skill.Step{
			{Name: "lookup", Type: skill.StepTool, ToolName: "lookup", VarName: "result"},
			{Name: "report", Type: skill.StepTemplate, Body: "score: {{result.score}}", VarName: "report"},
		},
	}
	exec := newExecutor(tools)
	result := exec.Execute(s, nil)
	if result.Status != StatusCompleted {
		t.Fatalf("expected COMPLETED, got %v: %s", result.Status, result.Error)
	}
	if result.Output["report"] != "score: 42" {
		t.Errorf("got %+v", result.Output)
	}
}

// E3: await suspends execution, then resume continues it.
func TestE3_AwaitRoundTrip(t *testing.T) {
	s := &skill.Skill{
		ID: "e3", Version: "1.0.0",
		Steps: []skill.Step{
			{Name: "confirm", Type: skill.StepAwait, Message: "proceed?", VarName: "answer",
				AwaitInputSchema: skill.InputSchema{"ok": {Type: skill.FieldBoolean, Required: true}}},
			{Name: "report", Type: skill.StepTemplate, Body: "ok={{answer.ok}}", VarName: "final"},
		},
	}
	exec := newExecutor(registry.NewToolRegistry())
	first := exec.Execute(s, nil)
	if first.Status != StatusAwaiting {
		t.Fatalf("expected AWAITING, got %v: %s", first.Status, first.Error)
	}
	if first.Await == nil || first.Await.Message != "proceed?" {
		t.Fatalf("got %+v", first.Await)
	}

	second := exec.Resume(s, first.ExecutionID, map[string]any{"ok": true})
	if second.Status != StatusCompleted {
		t.Fatalf("expected COMPLETED after resume, got %v: %s", second.Status, second.Error)
	}
	if second.Output["final"] != "ok=true" {
		t.Errorf("got %+v", second.Output)
	}
}

func TestE3_DoubleResumeFails(t *testing.T) {
	s := &skill.Skill{
		ID: "e3b", Version: "1.0.0",
		Steps: []skill.Step{
			{Name: "confirm", Type: skill.StepAwait, Message: "go?"},
		},
	}
	exec := newExecutor(registry.NewToolRegistry())
	first := exec.Execute(s, nil)
	if ok := exec.Resume(s, first.ExecutionID, map[string]any{}); ok.Status != StatusCompleted {
		t.Fatalf("first resume should succeed, got %v: %s", ok.Status, ok.Error)
	}
	second := exec.Resume(s, first.ExecutionID, map[string]any{})
	if second.Status != StatusFailed {
		t.Fatalf("expected second resume to fail, got %v", second.Status)
	}
}

// E4: `when` false skips a step without invoking its tool.
func TestE4_WhenFalseSkipsStep(t *testing.T) {
	tool := &countingTool{name: "sideeffect"}
	tools := registry.NewToolRegistry()
	tools.Register(tool)
	s := &skill.Skill{
		ID: "e4", Version: "1.0.0",
		Steps: []skill.Step{
			{Name: "maybe", Type: skill.StepTool, ToolName: "sideeffect", When: "flag == true"},
		},
	}
	exec := newExecutor(tools)
	result := exec.Execute(s, map[string]any{"flag": false})
	if result.Status != StatusCompleted {
		t.Fatalf("expected COMPLETED, got %v: %s", result.Status, result.Error)
	}
	if tool.calls != 0 {
		t.Errorf("expected skipped step to never call the tool, got %d calls", tool.calls)
	}
	if result.StepResults[0].Status != execctx.StatusSkipped {
		t.Errorf("expected SKIPPED step result, got %v", result.StepResults[0].Status)
	}
}

// E5: OutputContract projects only declared fields and fails on a missing
// required one.
func TestE5_OutputContractProjection(t *testing.T) {
	s := &skill.Skill{
		ID: "e5", Version: "1.0.0",
		OutputContract: &skill.OutputContract{
			Format: skill.FormatJSON,
			Fields: map[string]skill.FieldSpec{
				"summary": {Type: skill.FieldString, Required: true},
			},
		},
		Steps: []skill.Step{
			{Name: "s1", Type: skill.StepTemplate, Body: "done: {{task}}", VarName: "summary"},
		},
	}
	exec := newExecutor(registry.NewToolRegistry())
	result := exec.Execute(s, map[string]any{"task": "report"})
	if result.Status != StatusCompleted {
		t.Fatalf("expected COMPLETED, got %v: %s", result.Status, result.Error)
	}
	if len(result.Output) != 1 || result.Output["summary"] != "done: report" {
		t.Errorf("got %+v", result.Output)
	}
}

func TestE5_OutputContractMissingRequiredFails(t *testing.T) {
	s := &skill.Skill{
		ID: "e5b", Version: "1.0.0",
		OutputContract: &skill.OutputContract{
			Format: skill.FormatJSON,
			Fields: map[string]skill.FieldSpec{
				"summary": {Type: skill.FieldString, Required: true},
			},
		},
		Steps: []skill.Step{
			{Name: "s1", Type: skill.StepTemplate, Body: "noop", VarName: "unrelated"},
		},
	}
	exec := newExecutor(registry.NewToolRegistry())
	result := exec.Execute(s, nil)
	if result.Status != StatusFailed {
		t.Fatalf("expected FAILED, got %v", result.Status)
	}
}

func TestOutputProjection_NoContractExcludesRawInput(t *testing.T) {
	s := &skill.Skill{
		ID: "noctr", Version: "1.0.0",
		Steps: []skill.Step{
			{Name: "s1", Type: skill.StepTemplate, Body: "{{name}}!", VarName: "greeting"},
		},
	}
	exec := newExecutor(registry.NewToolRegistry())
	result := exec.Execute(s, map[string]any{"name": "ada"})
	if _, present := result.Output["name"]; present {
		t.Error("raw input leaked into output with no OutputContract declared")
	}
	if result.Output["greeting"] != "ada!" {
		t.Errorf("got %+v", result.Output)
	}
}

func TestSweepExpired_TransitionsOldActiveSnapshots(t *testing.T) {
	s := &skill.Skill{
		ID: "sweep", Version: "1.0.0",
		Steps: []skill.Step{{Name: "confirm", Type: skill.StepAwait, Message: "go?"}},
	}
	exec := newExecutor(registry.NewToolRegistry())
	first := exec.Execute(s, nil)

	closed := exec.SweepExpired(time.Now().Add(time.Hour))
	if len(closed) != 1 || closed[0] != first.ExecutionID {
		t.Fatalf("expected sweep to close %s, got %v", first.ExecutionID, closed)
	}

	resumed := exec.Resume(s, first.ExecutionID, map[string]any{})
	if resumed.Status != StatusFailed {
		t.Error("expected resume of an expired execution to fail")
	}
}

func TestCancel_PreventsResume(t *testing.T) {
	s := &skill.Skill{
		ID: "cancel", Version: "1.0.0",
		Steps: []skill.Step{{Name: "confirm", Type: skill.StepAwait, Message: "go?"}},
	}
	exec := newExecutor(registry.NewToolRegistry())
	first := exec.Execute(s, nil)
	if !exec.Cancel(first.ExecutionID) {
		t.Fatal("expected cancel of an ACTIVE execution to succeed")
	}
	if resumed := exec.Resume(s, first.ExecutionID, map[string]any{}); resumed.Status != StatusFailed {
		t.Error("expected resume of a cancelled execution to fail")
	}
}
