package orchestrator

import (
	"encoding/json"
	"time"

	"github.com/skillkit/skillrun/pkg/condition"
	"github.com/skillkit/skillrun/pkg/execctx"
	"github.com/skillkit/skillrun/pkg/executor"
	"github.com/skillkit/skillrun/pkg/skill"
	"github.com/skillkit/skillrun/pkg/skillerr"
)

// Executor runs skills to completion or suspension, persisting snapshots
// through a Store so an AWAITING execution can later be resumed.
type Executor struct {
	Dispatch *executor.Dispatcher
	Store    execctx.Store
	Trace    Tracer
}

// Tracer receives orchestrator lifecycle events; the zero value is a no-op
// so callers that don't care about tracing can leave it nil.
type Tracer interface {
	Event(name string, fields map[string]any)
}

func (e *Executor) trace(name string, fields map[string]any) {
	if e.Trace != nil {
		e.Trace.Event(name, fields)
	}
}

// Execute starts a fresh execution of s with the given input, running steps
// until the skill completes, fails, or suspends at an AWAIT step.
func (e *Executor) Execute(s *skill.Skill, input map[string]any) *SkillResult {
	ctx := execctx.New(input)
	e.trace("execution_start", map[string]any{"executionId": ctx.ExecutionID(), "skillId": s.ID})
	return e.run(s, ctx, 0)
}

// Resume continues a suspended execution after validating userInput against
// the pending AwaitRequest's InputSchema, binding it into scope, and
// advancing to the step following the one that suspended.
func (e *Executor) Resume(s *skill.Skill, executionID string, userInput map[string]any) *SkillResult {
	snap, ok := e.Store.FindByID(executionID)
	if !ok {
		return &SkillResult{ExecutionID: executionID, Status: StatusFailed, Error: skillerr.New(skillerr.ExecutionNotFound, executionID).Error()}
	}
	if snap.Status == execctx.StatusResumed || snap.Status == execctx.StatusExpired || snap.Status == execctx.StatusCancelled {
		return &SkillResult{ExecutionID: executionID, Status: StatusFailed, Error: skillerr.New(skillerr.ExecutionAlreadyCompleted, string(snap.Status)).Error()}
	}

	if err := validateAwaitInput(snap.AwaitRequest, userInput); err != nil {
		return &SkillResult{ExecutionID: executionID, Status: StatusFailed, Error: skillerr.Wrap(skillerr.AwaitValidation, "resume input failed validation", err).Error()}
	}

	if !e.Store.CompareAndSetStatus(executionID, execctx.StatusActive, execctx.StatusResumed) {
		return &SkillResult{ExecutionID: executionID, Status: StatusFailed, Error: skillerr.New(skillerr.ExecutionAlreadyCompleted, "execution was resumed or closed concurrently").Error()}
	}

	ctx := snap.ToExecutionContext()
	awaitStep := s.Steps[snap.CurrentStepIndex]
	ctx.BindStepResult(execctx.StepResult{StepName: snap.AwaitRequest.StepName, Status: execctx.StatusSuccess, Output: userInput, VarName: awaitStep.VarName})
	ctx.AddAwaitInput(snap.AwaitRequest.StepName, userInput)
	e.trace("execution_resume", map[string]any{"executionId": executionID, "step": snap.AwaitRequest.StepName})
	return e.run(s, ctx, snap.CurrentStepIndex+1)
}

// Cancel transitions an ACTIVE execution to CANCELLED, refusing any later
// resume. It is a no-op (returns false) if the execution is not ACTIVE.
func (e *Executor) Cancel(executionID string) bool {
	return e.Store.CompareAndSetStatus(executionID, execctx.StatusActive, execctx.StatusCancelled)
}

// SweepExpired transitions every ACTIVE snapshot created before cutoff to
// EXPIRED, returning the executionIds it closed. Intended to be called
// periodically by a background goroutine, not from the request path.
func (e *Executor) SweepExpired(cutoff time.Time) []string {
	var closed []string
	for _, snap := range e.Store.FindExpired(cutoff) {
		if e.Store.CompareAndSetStatus(snap.ExecutionID, execctx.StatusActive, execctx.StatusExpired) {
			closed = append(closed, snap.ExecutionID)
			e.trace("snapshot_expired", map[string]any{"executionId": snap.ExecutionID})
		}
	}
	return closed
}

func (e *Executor) run(s *skill.Skill, ctx *execctx.ExecutionContext, startIndex int) *SkillResult {
	for i := startIndex; i < len(s.Steps); i++ {
		step := s.Steps[i]

		if step.When != "" {
			expr, err := condition.Parse(step.When)
			if err != nil {
				ctx.BindStepResult(execctx.StepResult{StepName: step.Name, Status: execctx.StatusFailed, Error: skillerr.Wrap(skillerr.ConditionParse, "when", err).Error()})
				return e.fail(ctx, skillerr.Wrap(skillerr.ConditionParse, "step "+step.Name, err).Error())
			}
			if !condition.Evaluate(expr, ctx.BuildVariableScope()) {
				ctx.BindStepResult(execctx.StepResult{StepName: step.Name, Status: execctx.StatusSkipped, VarName: step.VarName})
				continue
			}
		}

		e.trace("step_dispatch", map[string]any{"executionId": ctx.ExecutionID(), "step": step.Name, "type": string(step.Type)})
		result := e.Dispatch.Dispatch(step, ctx)
		ctx.BindStepResult(result)
		e.trace("step_result", map[string]any{"executionId": ctx.ExecutionID(), "step": step.Name, "status": string(result.Status)})

		switch result.Status {
		case execctx.StatusFailed:
			return e.fail(ctx, result.Error)
		case execctx.StatusAwaiting:
			req := result.Output.(execctx.AwaitRequest)
			snap := execctx.NewSnapshot(ctx, s.ID, s.Version, i, req)
			if err := e.Store.Save(snap); err != nil {
				return e.fail(ctx, skillerr.Wrap(skillerr.ExecutionNotFound, "failed to persist snapshot", err).Error())
			}
			e.trace("await_suspend", map[string]any{"executionId": ctx.ExecutionID(), "step": step.Name})
			return &SkillResult{
				ExecutionID: ctx.ExecutionID(),
				Status:      StatusAwaiting,
				StepResults: ctx.StepResults(),
				Await:       &req,
			}
		}
	}

	output, err := projectOutput(s, ctx)
	if err != nil {
		return e.fail(ctx, skillerr.Wrap(skillerr.OutputValidation, "output projection", err).Error())
	}
	e.trace("execution_complete", map[string]any{"executionId": ctx.ExecutionID()})
	return &SkillResult{
		ExecutionID: ctx.ExecutionID(),
		Status:      StatusCompleted,
		Output:      output,
		StepResults: ctx.StepResults(),
	}
}

func (e *Executor) fail(ctx *execctx.ExecutionContext, message string) *SkillResult {
	return &SkillResult{
		ExecutionID: ctx.ExecutionID(),
		Status:      StatusFailed,
		Error:       message,
		StepResults: ctx.StepResults(),
	}
}

// validateAwaitInput checks userInput against the AwaitRequest's schema:
// every required field present, and of the declared FieldType.
func validateAwaitInput(req execctx.AwaitRequest, userInput map[string]any) error {
	for name, raw := range req.InputSchema {
		spec, ok := raw.(skill.FieldSpec)
		if !ok {
			// A snapshot read back from a FileStore holds the spec as a
			// decoded JSON object rather than a FieldSpec.
			data, err := json.Marshal(raw)
			if err != nil || json.Unmarshal(data, &spec) != nil {
				continue
			}
		}
		v, present := userInput[name]
		if !present {
			if spec.Required {
				return skillerr.New(skillerr.AwaitValidation, "missing required field "+name)
			}
			continue
		}
		if !matchesFieldType(spec.Type, v) {
			return skillerr.New(skillerr.AwaitValidation, "field "+name+" does not match declared type "+string(spec.Type))
		}
	}
	return nil
}

func matchesFieldType(t skill.FieldType, v any) bool {
	switch t {
	case skill.FieldString:
		_, ok := v.(string)
		return ok
	case skill.FieldBoolean:
		_, ok := v.(bool)
		return ok
	case skill.FieldNumber:
		_, ok := v.(float64)
		return ok
	case skill.FieldInteger:
		f, ok := v.(float64)
		return ok && f == float64(int64(f))
	case skill.FieldObject:
		_, ok := v.(map[string]any)
		return ok
	case skill.FieldArray:
		_, ok := v.([]any)
		return ok
	default:
		return true
	}
}
