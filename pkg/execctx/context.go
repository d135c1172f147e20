// Package execctx implements the per-execution mutable scope (ExecutionContext),
// its StepResult/Snapshot types, and the pluggable ExecutionStore (§4.D).
package execctx

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// StepStatus is one of the four StepResult outcomes.
type StepStatus string

const (
	StatusSuccess  StepStatus = "SUCCESS"
	StatusFailed   StepStatus = "FAILED"
	StatusSkipped  StepStatus = "SKIPPED"
	StatusAwaiting StepStatus = "AWAITING"
)

// StepResult records the outcome of dispatching one step.
type StepResult struct {
	StepName   string
	Status     StepStatus
	Output     any
	VarName    string
	Error      string
	DurationMs int64
}

// AwaitRequest is the output of an AWAIT step: a rendered message and the
// schema the eventual resume() user input must satisfy.
type AwaitRequest struct {
	StepName    string
	Message     string
	InputSchema map[string]any // FieldSpec-shaped, kept as `any` to avoid an import cycle with pkg/skill
}

// ExecutionContext is the per-execution mutable scope threaded through one
// skill execution: an immutable input, the ordered StepResults so far, and
// the append-only await-input maps used for resume.
type ExecutionContext struct {
	mu           sync.Mutex
	executionID  string
	input        map[string]any
	stepResults  []StepResult
	awaitInputs  []awaitEntry // preserves insertion order, per the resolution rule in 4.A
	varIndex     map[string]int // varName -> index into stepResults, last-write-wins
}

type awaitEntry struct {
	stepName string
	values   map[string]any
}

// New creates an ExecutionContext with a freshly generated executionId
// (format "exec-<uuid>") and a copy of input so later mutation by the
// caller cannot violate the "input never mutates" invariant.
func New(input map[string]any) *ExecutionContext {
	frozen := make(map[string]any, len(input))
	for k, v := range input {
		frozen[k] = v
	}
	return &ExecutionContext{
		executionID: "exec-" + uuid.NewString(),
		input:       frozen,
		varIndex:    make(map[string]int),
	}
}

// Restore rebuilds an ExecutionContext from persisted fields, used by resume().
func Restore(executionID string, input map[string]any, results []StepResult, awaitInputs map[string]map[string]any) *ExecutionContext {
	ctx := &ExecutionContext{
		executionID: executionID,
		input:       input,
		varIndex:    make(map[string]int),
	}
	for _, r := range results {
		ctx.stepResults = append(ctx.stepResults, r)
		if r.VarName != "" {
			ctx.varIndex[r.VarName] = len(ctx.stepResults) - 1
		}
	}
	for name, values := range awaitInputs {
		ctx.awaitInputs = append(ctx.awaitInputs, awaitEntry{stepName: name, values: values})
	}
	return ctx
}

// ExecutionID returns the stable execution identifier.
func (c *ExecutionContext) ExecutionID() string { return c.executionID }

// Input returns the immutable input map (callers must not mutate it).
func (c *ExecutionContext) Input() map[string]any { return c.input }

// StepResults returns a snapshot copy of the ordered StepResult list.
func (c *ExecutionContext) StepResults() []StepResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]StepResult, len(c.stepResults))
	copy(out, c.stepResults)
	return out
}

// BindStepResult appends (or, for a repeated step name, overwrites) a
// StepResult and updates the varName index, last-write-wins.
func (c *ExecutionContext) BindStepResult(r StepResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.stepResults {
		if c.stepResults[i].StepName == r.StepName {
			c.stepResults[i] = r
			if r.VarName != "" {
				c.varIndex[r.VarName] = i
			}
			return
		}
	}
	c.stepResults = append(c.stepResults, r)
	if r.VarName != "" {
		c.varIndex[r.VarName] = len(c.stepResults) - 1
	}
}

// GetByVarName returns the last-bound output for varName, or nil, false.
func (c *ExecutionContext) GetByVarName(name string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx, ok := c.varIndex[name]
	if !ok {
		return nil, false
	}
	return c.stepResults[idx].Output, true
}

// GetInput returns a top-level input value.
func (c *ExecutionContext) GetInput(name string) (any, bool) {
	v, ok := c.input[name]
	return v, ok
}

// AddAwaitInput records the validated user input for an AWAIT step,
// appended in insertion order (consulted last, per the variable resolution
// order in 4.A).
func (c *ExecutionContext) AddAwaitInput(stepName string, values map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.awaitInputs = append(c.awaitInputs, awaitEntry{stepName: stepName, values: values})
}

// AwaitInputsSnapshot returns the await-input maps in insertion order, keyed
// by step name, for persistence.
func (c *ExecutionContext) AwaitInputsSnapshot() map[string]map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]map[string]any, len(c.awaitInputs))
	for _, e := range c.awaitInputs {
		out[e.stepName] = e.values
	}
	return out
}

// BuildVariableScope builds the flat map consulted by the condition and
// template engines: input ∪ {stepResult.varName -> output} ∪ flattened
// await inputs, later entries shadowing earlier ones.
func (c *ExecutionContext) BuildVariableScope() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()

	scope := make(map[string]any, len(c.input))
	for k, v := range c.input {
		scope[k] = v
	}
	for _, r := range c.stepResults {
		if r.VarName != "" {
			scope[r.VarName] = r.Output
		}
	}
	for _, e := range c.awaitInputs {
		for k, v := range e.values {
			scope[k] = v
		}
	}
	return scope
}

// now is overridable only in tests that need deterministic timestamps; the
// runtime itself always calls time.Now.
var now = time.Now
