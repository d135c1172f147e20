// Package runtest implements the scenario-based test harness: discover
// scenario directories next to a skill document, replay each one through
// the orchestrator with canned tool/await data, and evaluate assertions
// against the resulting SkillResult. Adapted from the kernel's
// testing.TestSpec/Evaluate and testing.Runner.RunAll/RunScenario.
package runtest

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/skillkit/skillrun/pkg/orchestrator"
)

// TestSpec declares what to assert about a scenario replay. Every field is
// optional; an absent field produces no assertion.
type TestSpec struct {
	Description     string            `yaml:"description,omitempty"`
	ExpectedStatus  string            `yaml:"expected_status,omitempty"` // COMPLETED, FAILED, AWAITING
	MustReach       []string          `yaml:"must_reach,omitempty"`
	MustNotReach    []string          `yaml:"must_not_reach,omitempty"`
	ExpectedOutputs map[string]string `yaml:"expected_outputs,omitempty"`
}

// LoadTestSpec reads and parses a test.yaml file.
func LoadTestSpec(path string) (*TestSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read test spec: %w", err)
	}
	var spec TestSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse test spec: %w", err)
	}
	return &spec, nil
}

// RunResult is the subset of a SkillResult assertions are evaluated against.
type RunResult struct {
	Status       string
	VisitedSteps []string
	Outputs      map[string]any
}

// FromSkillResult projects an orchestrator.SkillResult into a RunResult.
func FromSkillResult(r *orchestrator.SkillResult) *RunResult {
	visited := make([]string, 0, len(r.StepResults))
	for _, sr := range r.StepResults {
		visited = append(visited, sr.StepName)
	}
	return &RunResult{
		Status:       string(r.Status),
		VisitedSteps: visited,
		Outputs:      r.Output,
	}
}

// AssertionResult is the outcome of one TestSpec assertion.
type AssertionResult struct {
	Type     string
	Key      string
	Expected string
	Actual   string
	Passed   bool
	Message  string
}

// Evaluate runs every assertion spec declares against run.
func Evaluate(spec *TestSpec, run *RunResult) []AssertionResult {
	var results []AssertionResult

	if spec.ExpectedStatus != "" {
		results = append(results, AssertionResult{
			Type:     "expected_status",
			Expected: spec.ExpectedStatus,
			Actual:   run.Status,
			Passed:   run.Status == spec.ExpectedStatus,
			Message:  fmt.Sprintf("status: expected %q, got %q", spec.ExpectedStatus, run.Status),
		})
	}

	visited := make(map[string]bool, len(run.VisitedSteps))
	for _, s := range run.VisitedSteps {
		visited[s] = true
	}

	for _, step := range spec.MustReach {
		passed := visited[step]
		results = append(results, AssertionResult{
			Type: "must_reach", Key: step,
			Expected: "visited", Actual: visitedLabel(passed), Passed: passed,
			Message: fmt.Sprintf("must_reach %q: %s", step, visitedLabel(passed)),
		})
	}
	for _, step := range spec.MustNotReach {
		wasVisited := visited[step]
		results = append(results, AssertionResult{
			Type: "must_not_reach", Key: step,
			Expected: "not visited", Actual: visitedLabel(wasVisited), Passed: !wasVisited,
			Message: fmt.Sprintf("must_not_reach %q: %s", step, visitedLabel(wasVisited)),
		})
	}
	for key, expected := range spec.ExpectedOutputs {
		actual := ""
		if v, ok := run.Outputs[key]; ok {
			actual = fmt.Sprint(v)
		}
		passed := compareValue(expected, actual)
		results = append(results, AssertionResult{
			Type: "expected_output", Key: key,
			Expected: expected, Actual: actual, Passed: passed,
			Message: fmt.Sprintf("output %q: expected %q, got %q", key, expected, actual),
		})
	}
	return results
}

// HasFailures reports whether any assertion did not pass.
func HasFailures(results []AssertionResult) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}

// compareValue supports /pattern/ regex matching and falls back to exact
// string equality.
func compareValue(expected, actual string) bool {
	if strings.HasPrefix(expected, "/") && strings.HasSuffix(expected, "/") && len(expected) > 2 {
		re, err := regexp.Compile(expected[1 : len(expected)-1])
		if err != nil {
			return false
		}
		return re.MatchString(actual)
	}
	return expected == actual
}

func visitedLabel(b bool) string {
	if b {
		return "visited"
	}
	return "not visited"
}
