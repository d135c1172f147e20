// Package orchestrator implements the Skill Executor (§4.F): the
// execute/resume loop that threads an ExecutionContext through a Skill's
// steps, evaluating `when` guards, dispatching through executor.Dispatcher,
// persisting a Snapshot on AWAIT, and projecting the final scope through the
// skill's OutputContract.
package orchestrator

import (
	"github.com/skillkit/skillrun/pkg/execctx"
)

// Status is the terminal or suspended state a SkillResult reports.
type Status string

const (
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusAwaiting  Status = "AWAITING"
)

// SkillResult is returned by both Execute and Resume.
type SkillResult struct {
	ExecutionID string
	Status      Status
	Output      map[string]any
	StepResults []execctx.StepResult
	Error       string
	Await       *execctx.AwaitRequest
}
