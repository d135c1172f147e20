package executor

import (
	"github.com/skillkit/skillrun/pkg/execctx"
	"github.com/skillkit/skillrun/pkg/skill"
	"github.com/skillkit/skillrun/pkg/template"
)

// TemplateExecutor renders a step's body against the current variable scope.
type TemplateExecutor struct{}

func (TemplateExecutor) Supports(step skill.Step) bool { return step.Type == skill.StepTemplate }

func (TemplateExecutor) Execute(step skill.Step, ctx *execctx.ExecutionContext) execctx.StepResult {
	scope := ctx.BuildVariableScope()
	rendered, err := template.Render(step.Body, scope)
	if err != nil {
		return execctx.StepResult{
			StepName: step.Name,
			Status:   execctx.StatusFailed,
			Error:    "TEMPLATE_RENDER: " + err.Error(),
		}
	}
	return execctx.StepResult{
		StepName: step.Name,
		Status:   execctx.StatusSuccess,
		Output:   rendered,
		VarName:  step.VarName,
	}
}
