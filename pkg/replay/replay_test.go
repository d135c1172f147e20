package replay

import (
	"testing"

	"github.com/skillkit/skillrun/pkg/registry"
)

func TestParseScenario(t *testing.T) {
	data := []byte(`
input:
  name: ada
tool_responses:
  lookup:
    - outputs:
        score: 42
await_inputs:
  confirm:
    ok: true
`)
	s, err := ParseScenario(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Input["name"] != "ada" {
		t.Errorf("got input %+v", s.Input)
	}
	if len(s.ToolResponses["lookup"]) != 1 {
		t.Fatalf("expected 1 canned response, got %d", len(s.ToolResponses["lookup"]))
	}
}

func TestReplayTool_ConsumesInOrderThenErrors(t *testing.T) {
	scenario := &Scenario{
		ToolResponses: map[string][]ToolResponse{
			"lookup": {
				{Outputs: map[string]any{"score": 1.0}},
				{Outputs: map[string]any{"score": 2.0}},
			},
		},
	}
	tool := NewReplayTool("lookup", scenario)

	out := registry.NewToolOutputContext()
	if err := tool.Execute(nil, out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Values()["score"] != 1.0 {
		t.Errorf("got %+v", out.Values())
	}

	out2 := registry.NewToolOutputContext()
	if err := tool.Execute(nil, out2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out2.Values()["score"] != 2.0 {
		t.Errorf("got %+v", out2.Values())
	}

	out3 := registry.NewToolOutputContext()
	if err := tool.Execute(nil, out3); err == nil {
		t.Error("expected an error once canned responses are exhausted")
	}
}

func TestReplayTool_CannedError(t *testing.T) {
	scenario := &Scenario{
		ToolResponses: map[string][]ToolResponse{
			"boom": {{Err: "kaboom"}},
		},
	}
	tool := NewReplayTool("boom", scenario)
	if err := tool.Execute(nil, registry.NewToolOutputContext()); err == nil {
		t.Error("expected canned error to surface")
	}
}
