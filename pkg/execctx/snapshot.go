package execctx

import "time"

// SnapshotStatus is one of the four statuses a Snapshot can hold. The
// transition DAG's only outgoing edges from ACTIVE are to the three sinks.
type SnapshotStatus string

const (
	StatusActive    SnapshotStatus = "ACTIVE"
	StatusResumed   SnapshotStatus = "RESUMED"
	StatusExpired   SnapshotStatus = "EXPIRED"
	StatusCancelled SnapshotStatus = "CANCELLED"
)

// Snapshot is the persisted freeze of an ExecutionContext at an AWAIT step.
type Snapshot struct {
	ExecutionID      string
	SkillID          string
	SkillVersion     string
	CurrentStepIndex int
	AwaitRequest     AwaitRequest
	CreatedAt        time.Time
	Status           SnapshotStatus

	// Context fields needed to rebuild an ExecutionContext on resume.
	Input       map[string]any
	StepResults []StepResult
	AwaitInputs map[string]map[string]any
}

// ToExecutionContext rebuilds the ExecutionContext this snapshot captured.
func (s *Snapshot) ToExecutionContext() *ExecutionContext {
	return Restore(s.ExecutionID, s.Input, s.StepResults, s.AwaitInputs)
}

// NewSnapshot freezes ctx at stepIndex into an ACTIVE snapshot.
func NewSnapshot(ctx *ExecutionContext, skillID, skillVersion string, stepIndex int, req AwaitRequest) *Snapshot {
	return &Snapshot{
		ExecutionID:      ctx.ExecutionID(),
		SkillID:          skillID,
		SkillVersion:     skillVersion,
		CurrentStepIndex: stepIndex,
		AwaitRequest:     req,
		CreatedAt:        now(),
		Status:           StatusActive,
		Input:            ctx.Input(),
		StepResults:      ctx.StepResults(),
		AwaitInputs:      ctx.AwaitInputsSnapshot(),
	}
}
