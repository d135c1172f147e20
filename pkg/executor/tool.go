package executor

import (
	"github.com/skillkit/skillrun/pkg/execctx"
	"github.com/skillkit/skillrun/pkg/registry"
	"github.com/skillkit/skillrun/pkg/skill"
	"github.com/skillkit/skillrun/pkg/template"
)

// ToolExecutor looks up a tool by name, renders its input template, and
// dispatches to it, mirroring the teacher's RunTool/applyExtract pattern
// generalized from a stdio-process transport to an in-process Tool interface.
type ToolExecutor struct {
	Tools *registry.ToolRegistry
}

func (ToolExecutor) Supports(step skill.Step) bool { return step.Type == skill.StepTool }

func (e *ToolExecutor) Execute(step skill.Step, ctx *execctx.ExecutionContext) execctx.StepResult {
	tool, ok := e.Tools.Find(step.ToolName)
	if !ok {
		return execctx.StepResult{
			StepName: step.Name,
			Status:   execctx.StatusFailed,
			Error:    "TOOL_NOT_FOUND: " + step.ToolName,
		}
	}

	scope := ctx.BuildVariableScope()
	renderedInput, err := template.RenderInputs(step.InputTemplate, scope)
	if err != nil {
		return execctx.StepResult{
			StepName: step.Name,
			Status:   execctx.StatusFailed,
			Error:    "TEMPLATE_RENDER: " + err.Error(),
		}
	}

	if vr := tool.ValidateInput(renderedInput); !vr.Valid {
		return execctx.StepResult{
			StepName: step.Name,
			Status:   execctx.StatusFailed,
			Error:    "TOOL_EXECUTION: invalid input: " + joinErrors(vr.Errors),
		}
	}

	out := registry.NewToolOutputContext()
	if err := tool.Execute(renderedInput, out); err != nil {
		return execctx.StepResult{
			StepName: step.Name,
			Status:   execctx.StatusFailed,
			Error:    "TOOL_EXECUTION: " + err.Error(),
		}
	}

	return execctx.StepResult{
		StepName: step.Name,
		Status:   execctx.StatusSuccess,
		Output:   out.Values(),
		VarName:  step.VarName,
	}
}

func joinErrors(errs []string) string {
	s := ""
	for i, e := range errs {
		if i > 0 {
			s += "; "
		}
		s += e
	}
	return s
}
