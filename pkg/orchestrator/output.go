package orchestrator

import (
	"github.com/skillkit/skillrun/pkg/execctx"
	"github.com/skillkit/skillrun/pkg/skill"
)

// projectOutput builds a skill's final output map from its completed
// ExecutionContext. Per open question #3, a skill with no OutputContract
// emits every varName-bound step output, excluding the raw input map; a
// skill with an OutputContract instead projects just the declared fields out
// of the full variable scope (inputs included, since a contract field may
// simply echo an input).
func projectOutput(s *skill.Skill, ctx *execctx.ExecutionContext) (map[string]any, error) {
	if s.OutputContract == nil {
		out := make(map[string]any)
		for _, r := range ctx.StepResults() {
			if r.VarName != "" {
				out[r.VarName] = r.Output
			}
		}
		return out, nil
	}

	scope := ctx.BuildVariableScope()
	out := make(map[string]any, len(s.OutputContract.Fields))
	var missing []string
	for name, field := range s.OutputContract.Fields {
		v, ok := scope[name]
		if !ok {
			if field.Required {
				missing = append(missing, name)
				continue
			}
			if field.DefaultValue != nil {
				out[name] = field.DefaultValue
			}
			continue
		}
		out[name] = v
	}
	if len(missing) > 0 {
		return out, &outputValidationError{fields: missing}
	}
	return out, nil
}

type outputValidationError struct {
	fields []string
}

func (e *outputValidationError) Error() string {
	msg := "missing required output field(s):"
	for i, f := range e.fields {
		if i > 0 {
			msg += ","
		}
		msg += " " + f
	}
	return msg
}
