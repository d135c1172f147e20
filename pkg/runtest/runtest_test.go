package runtest

import (
	"os"
	"path/filepath"
	"testing"
)

const skillDoc = `---
id: greet
version: 1.0.0
description: greets a looked-up name
input_schema:
  name: string
---
## step: lookup
type: tool
tool: lookup
varName: profile
input:
  name: "{{name}}"

## step: greeting
type: template
varName: greeting
body: "hello {{profile.full_name}}"
`

func writeScenario(t *testing.T, dir string, scenarioYAML, testYAML string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "scenario.yaml"), []byte(scenarioYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	if testYAML != "" {
		if err := os.WriteFile(filepath.Join(dir, "test.yaml"), []byte(testYAML), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestRunAll_PassingScenario(t *testing.T) {
	root := t.TempDir()
	skillPath := filepath.Join(root, "greet.skill.md")
	if err := os.WriteFile(skillPath, []byte(skillDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	scenarioDir := filepath.Join(root, "scenarios", "greet", "basic")
	writeScenario(t, scenarioDir,
		`
input:
  name: ada
tool_responses:
  lookup:
    - outputs:
        full_name: "Ada Lovelace"
`,
		`
expected_status: COMPLETED
must_reach: [lookup, greeting]
expected_outputs:
  greeting: "hello Ada Lovelace"
`)

	runner := &Runner{}
	out, err := runner.RunAll(skillPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Summary.Total != 1 || out.Summary.Passed != 1 {
		t.Fatalf("got summary %+v, scenarios %+v", out.Summary, out.Scenarios)
	}
}

func TestRunAll_FailingAssertionReportsFailed(t *testing.T) {
	root := t.TempDir()
	skillPath := filepath.Join(root, "greet.skill.md")
	if err := os.WriteFile(skillPath, []byte(skillDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	scenarioDir := filepath.Join(root, "scenarios", "greet", "wrong")
	writeScenario(t, scenarioDir,
		`
input:
  name: ada
tool_responses:
  lookup:
    - outputs:
        full_name: "Ada Lovelace"
`,
		`
expected_outputs:
  greeting: "hello someone else"
`)

	runner := &Runner{}
	out, err := runner.RunAll(skillPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Summary.Failed != 1 {
		t.Fatalf("expected 1 failed scenario, got %+v", out.Summary)
	}
}

func TestDiscoverScenarios_NoDirReturnsEmpty(t *testing.T) {
	root := t.TempDir()
	skillPath := filepath.Join(root, "lonely.skill.md")
	scenarios, err := DiscoverScenarios(skillPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scenarios) != 0 {
		t.Errorf("expected no scenarios, got %v", scenarios)
	}
}
