package runtest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/skillkit/skillrun/pkg/execctx"
	"github.com/skillkit/skillrun/pkg/executor"
	"github.com/skillkit/skillrun/pkg/orchestrator"
	"github.com/skillkit/skillrun/pkg/registry"
	"github.com/skillkit/skillrun/pkg/replay"
	"github.com/skillkit/skillrun/pkg/skill"
)

// TestResult is the outcome of replaying one scenario.
type TestResult struct {
	SkillID      string
	ScenarioName string
	Status       string // passed, failed, skipped, error
	DurationMs   int64
	Assertions   []AssertionResult
	Error        string
}

// TestSummary aggregates counts across a skill's scenarios.
type TestSummary struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
	Errors  int
}

// TestOutput is the top-level result of a RunAll call.
type TestOutput struct {
	SkillID   string
	Scenarios []TestResult
	Summary   TestSummary
}

// Runner replays scenarios against skill documents.
type Runner struct {
	Timeout  time.Duration
	FailFast bool
}

// ScenarioInfo describes a discovered scenario directory.
type ScenarioInfo struct {
	Name string
	Dir  string
}

// DiscoverScenarios finds scenario directories for a skill document.
// Convention: scenarios live in a sibling scenarios/<skill-file-base>/
// directory (the file name without its extension and without a trailing
// ".skill", so greet.skill.md maps to scenarios/greet/), one subdirectory per
// scenario, each holding scenario.yaml.
func DiscoverScenarios(skillPath string) ([]ScenarioInfo, error) {
	dir := filepath.Dir(skillPath)
	base := strings.TrimSuffix(filepath.Base(skillPath), filepath.Ext(skillPath))
	base = strings.TrimSuffix(base, ".skill")
	scenariosDir := filepath.Join(dir, "scenarios", base)

	entries, err := os.ReadDir(scenariosDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read scenarios dir: %w", err)
	}

	var scenarios []ScenarioInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		scenarioFile := filepath.Join(scenariosDir, entry.Name(), "scenario.yaml")
		if _, err := os.Stat(scenarioFile); err == nil {
			scenarios = append(scenarios, ScenarioInfo{Name: entry.Name(), Dir: filepath.Join(scenariosDir, entry.Name())})
		}
	}
	return scenarios, nil
}

// RunAll discovers and replays every scenario for a skill document.
func (r *Runner) RunAll(skillPath string) (*TestOutput, error) {
	doc, err := os.ReadFile(skillPath)
	if err != nil {
		return nil, fmt.Errorf("read skill document: %w", err)
	}
	s, verrs := skill.ValidateDocument(doc)
	if skill.HasErrors(verrs) {
		return nil, fmt.Errorf("skill document failed validation")
	}

	scenarios, err := DiscoverScenarios(skillPath)
	if err != nil {
		return nil, err
	}

	output := &TestOutput{SkillID: s.ID}
	for _, si := range scenarios {
		result := r.runScenario(s, si)
		output.Scenarios = append(output.Scenarios, result)
		switch result.Status {
		case "passed":
			output.Summary.Passed++
		case "failed":
			output.Summary.Failed++
		case "skipped":
			output.Summary.Skipped++
		case "error":
			output.Summary.Errors++
		}
		output.Summary.Total++
		if r.FailFast && (result.Status == "failed" || result.Status == "error") {
			break
		}
	}
	return output, nil
}

func (r *Runner) runScenario(s *skill.Skill, si ScenarioInfo) TestResult {
	start := time.Now()

	scenario, err := replay.LoadScenarioDir(si.Dir)
	if err != nil {
		return TestResult{SkillID: s.ID, ScenarioName: si.Name, Status: "error", DurationMs: time.Since(start).Milliseconds(), Error: err.Error()}
	}

	var spec *TestSpec
	testSpecPath := filepath.Join(si.Dir, "test.yaml")
	if _, err := os.Stat(testSpecPath); err == nil {
		spec, err = LoadTestSpec(testSpecPath)
		if err != nil {
			return TestResult{SkillID: s.ID, ScenarioName: si.Name, Status: "error", DurationMs: time.Since(start).Milliseconds(), Error: err.Error()}
		}
	}
	if spec == nil {
		return TestResult{SkillID: s.ID, ScenarioName: si.Name, Status: "skipped", DurationMs: time.Since(start).Milliseconds()}
	}

	tools := registry.NewToolRegistry()
	replay.RegisterAll(tools, scenario)
	adapters := registry.NewLLMAdapterRegistry()
	dispatch := executor.New(&executor.ToolExecutor{Tools: tools}, &executor.PromptExecutor{Adapters: adapters})
	exec := &orchestrator.Executor{Dispatch: dispatch, Store: execctx.NewMemStore()}

	runResultCh := make(chan *orchestrator.SkillResult, 1)
	go func() {
		runResultCh <- r.driveToCompletion(exec, s, scenario)
	}()

	var result *orchestrator.SkillResult
	if r.Timeout > 0 {
		select {
		case result = <-runResultCh:
		case <-time.After(r.Timeout):
			return TestResult{SkillID: s.ID, ScenarioName: si.Name, Status: "error", DurationMs: time.Since(start).Milliseconds(), Error: "timeout"}
		}
	} else {
		result = <-runResultCh
	}

	assertions := Evaluate(spec, FromSkillResult(result))
	status := "passed"
	if HasFailures(assertions) {
		status = "failed"
	}
	return TestResult{
		SkillID:      s.ID,
		ScenarioName: si.Name,
		Status:       status,
		DurationMs:   time.Since(start).Milliseconds(),
		Assertions:   assertions,
	}
}

// driveToCompletion executes s and, each time it suspends at an AWAIT step,
// resumes it with the scenario's canned answer for that step name, stopping
// when the skill completes, fails, or has no canned answer left.
func (r *Runner) driveToCompletion(exec *orchestrator.Executor, s *skill.Skill, scenario *replay.Scenario) *orchestrator.SkillResult {
	result := exec.Execute(s, scenario.Input)
	for result.Status == orchestrator.StatusAwaiting {
		answer, ok := scenario.AwaitInputs[result.Await.StepName]
		if !ok {
			return result
		}
		result = exec.Resume(s, result.ExecutionID, answer)
	}
	return result
}
