package executor

import (
	"github.com/skillkit/skillrun/pkg/execctx"
	"github.com/skillkit/skillrun/pkg/skill"
	"github.com/skillkit/skillrun/pkg/template"
)

// AwaitExecutor never advances the step loop: it produces an AWAITING
// StepResult carrying a rendered message and the schema the eventual
// resume() user input must satisfy. The orchestrator, not this executor,
// persists the resulting snapshot.
type AwaitExecutor struct{}

func (AwaitExecutor) Supports(step skill.Step) bool { return step.Type == skill.StepAwait }

func (AwaitExecutor) Execute(step skill.Step, ctx *execctx.ExecutionContext) execctx.StepResult {
	scope := ctx.BuildVariableScope()
	rendered, err := template.Render(step.Message, scope)
	if err != nil {
		return execctx.StepResult{
			StepName: step.Name,
			Status:   execctx.StatusFailed,
			Error:    "TEMPLATE_RENDER: " + err.Error(),
		}
	}

	schema := make(map[string]any, len(step.AwaitInputSchema))
	for k, v := range step.AwaitInputSchema {
		schema[k] = v
	}

	return execctx.StepResult{
		StepName: step.Name,
		Status:   execctx.StatusAwaiting,
		VarName:  step.VarName,
		Output: execctx.AwaitRequest{
			StepName:    step.Name,
			Message:     rendered,
			InputSchema: schema,
		},
	}
}
