// Package executor implements the four step executors (§4.E): TOOL,
// TEMPLATE, PROMPT, AWAIT. Each executor is pure with respect to the
// snapshot store; only the orchestrator persists snapshots.
package executor

import (
	"time"

	"github.com/skillkit/skillrun/pkg/execctx"
	"github.com/skillkit/skillrun/pkg/skill"
)

// StepExecutor dispatches one step kind.
type StepExecutor interface {
	Supports(step skill.Step) bool
	Execute(step skill.Step, ctx *execctx.ExecutionContext) execctx.StepResult
}

// Dispatcher routes a step to the matching StepExecutor. Construct with New
// so every step kind always has a handler.
type Dispatcher struct {
	executors []StepExecutor
}

// New assembles the standard four-executor dispatcher.
func New(tool *ToolExecutor, prompt *PromptExecutor) *Dispatcher {
	return &Dispatcher{executors: []StepExecutor{
		tool,
		&TemplateExecutor{},
		prompt,
		&AwaitExecutor{},
	}}
}

// Dispatch finds the executor supporting step.Type and runs it, recording
// durationMs on the returned StepResult.
func (d *Dispatcher) Dispatch(step skill.Step, ctx *execctx.ExecutionContext) execctx.StepResult {
	start := time.Now()
	for _, e := range d.executors {
		if e.Supports(step) {
			result := e.Execute(step, ctx)
			result.DurationMs = time.Since(start).Milliseconds()
			return result
		}
	}
	return execctx.StepResult{
		StepName: step.Name,
		Status:   execctx.StatusFailed,
		Error:    "no executor supports step type " + string(step.Type),
	}
}
