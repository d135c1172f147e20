// Package replay provides scenario-based replay execution for skill tests:
// a Scenario carries canned tool responses and await answers so a skill can
// be re-run deterministically without live tools or an LLM, adapted from the
// kernel's replay.Scenario/ReplayExecutor to the registry.Tool contract.
package replay

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/skillkit/skillrun/pkg/registry"
	"gopkg.in/yaml.v3"
)

// Scenario is the top-level replay document for one skill test case.
type Scenario struct {
	Input         map[string]any            `yaml:"input,omitempty"`
	ToolResponses map[string][]ToolResponse `yaml:"tool_responses,omitempty"`
	AwaitInputs   map[string]map[string]any `yaml:"await_inputs,omitempty"`
}

// ToolResponse is a single canned response for a tool, consumed in order.
type ToolResponse struct {
	Outputs map[string]any `yaml:"outputs,omitempty"`
	Err     string         `yaml:"error,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML from memory.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return &s, nil
}

// LoadScenarioDir loads a scenario from a directory containing scenario.yaml.
func LoadScenarioDir(dir string) (*Scenario, error) {
	return LoadScenario(filepath.Join(dir, "scenario.yaml"))
}

// ReplayTool implements registry.Tool over one tool name's canned responses.
// Responses are consumed first-in-first-out; calling it more times than it
// has canned responses is an error rather than a zero value, so a test
// notices an unexpectedly repeated step.
type ReplayTool struct {
	name     string
	scenario *Scenario
	consumed int
}

// NewReplayTool builds a ReplayTool answering for toolName out of scenario.
func NewReplayTool(toolName string, scenario *Scenario) *ReplayTool {
	return &ReplayTool{name: toolName, scenario: scenario}
}

func (t *ReplayTool) Name() string                     { return t.name }
func (t *ReplayTool) Description() string              { return "replay: " + t.name }
func (t *ReplayTool) Category() string                 { return "replay" }
func (t *ReplayTool) Tags() []string                   { return []string{"replay"} }
func (t *ReplayTool) Version() string                  { return "replay" }
func (t *ReplayTool) InputSchema() registry.ToolSchema  { return nil }
func (t *ReplayTool) OutputSchema() registry.ToolSchema { return nil }

func (t *ReplayTool) ValidateInput(map[string]any) registry.ValidationResult {
	return registry.ValidationResult{Valid: true}
}

func (t *ReplayTool) Execute(_ map[string]any, out *registry.ToolOutputContext) error {
	responses := t.scenario.ToolResponses[t.name]
	if t.consumed >= len(responses) {
		return fmt.Errorf("replay: exhausted canned responses for %s (used %d)", t.name, len(responses))
	}
	resp := responses[t.consumed]
	t.consumed++
	if resp.Err != "" {
		return fmt.Errorf("%s", resp.Err)
	}
	for k, v := range resp.Outputs {
		out.Set(k, v)
	}
	return nil
}

// RegisterAll builds a ReplayTool for every key in scenario.ToolResponses and
// registers it into reg, so a skill's tool steps resolve against canned data.
func RegisterAll(reg *registry.ToolRegistry, scenario *Scenario) {
	for name := range scenario.ToolResponses {
		reg.Register(NewReplayTool(name, scenario))
	}
}
