package executor

import (
	"github.com/skillkit/skillrun/pkg/execctx"
	"github.com/skillkit/skillrun/pkg/registry"
	"github.com/skillkit/skillrun/pkg/skill"
	"github.com/skillkit/skillrun/pkg/template"
)

// PromptExecutor renders a prompt body and invokes the active LLMAdapter.
type PromptExecutor struct {
	Adapters *registry.LLMAdapterRegistry
}

func (PromptExecutor) Supports(step skill.Step) bool { return step.Type == skill.StepPrompt }

func (e *PromptExecutor) Execute(step skill.Step, ctx *execctx.ExecutionContext) execctx.StepResult {
	scope := ctx.BuildVariableScope()
	rendered, err := template.Render(step.Body, scope)
	if err != nil {
		return execctx.StepResult{
			StepName: step.Name,
			Status:   execctx.StatusFailed,
			Error:    "TEMPLATE_RENDER: " + err.Error(),
		}
	}

	adapter, ok := e.Adapters.GetDefault()
	if !ok {
		return execctx.StepResult{
			StepName: step.Name,
			Status:   execctx.StatusFailed,
			Error:    "LLM_INVOCATION: no default adapter registered",
		}
	}
	if !adapter.IsAvailable() {
		return execctx.StepResult{
			StepName: step.Name,
			Status:   execctx.StatusFailed,
			Error:    "LLM_INVOCATION: adapter " + adapter.Name() + " is unavailable",
		}
	}

	response, err := adapter.Invoke(rendered, registry.LLMOptions(step.PromptOptions))
	if err != nil {
		return execctx.StepResult{
			StepName: step.Name,
			Status:   execctx.StatusFailed,
			Error:    "LLM_INVOCATION: " + err.Error(),
		}
	}

	return execctx.StepResult{
		StepName: step.Name,
		Status:   execctx.StatusSuccess,
		Output:   response,
		VarName:  step.VarName,
	}
}
