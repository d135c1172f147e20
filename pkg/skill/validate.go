package skill

import (
	"fmt"

	"github.com/skillkit/skillrun/pkg/condition"
	"github.com/skillkit/skillrun/pkg/skillerr"
	"github.com/skillkit/skillrun/pkg/template"
)

// ValidationError mirrors the teacher's three-phase {Phase,Path,Message,Severity}
// shape, extended with Severity "error"/"warning".
type ValidationError struct {
	Phase    string
	Path     string
	Message  string
	Severity string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Phase, e.Message)
}

func errorf(phase, path, format string, args ...any) *ValidationError {
	return &ValidationError{Phase: phase, Path: path, Message: fmt.Sprintf(format, args...), Severity: "error"}
}

func warningf(phase, path, format string, args ...any) *ValidationError {
	return &ValidationError{Phase: phase, Path: path, Message: fmt.Sprintf(format, args...), Severity: "warning"}
}

// ValidateDocument runs the full three-phase pipeline: (1) structural --
// the strict-YAML decode performed by Parse; (2) semantic -- hand-coded
// required-field/enum checks; (3) domain -- cross-references every `when`
// and template body through the condition/template parsers so a malformed
// expression is caught at load time. Phase 2/3 short-circuit if an earlier
// phase already produced hard errors, matching the teacher's pipeline.
func ValidateDocument(doc []byte) (*Skill, []*ValidationError) {
	s, err := Parse(doc)
	if err != nil {
		return nil, []*ValidationError{errorf("structural", "", "%s", err)}
	}

	var errs []*ValidationError
	errs = append(errs, validateSemantic(s)...)
	if HasErrors(errs) {
		return s, errs
	}
	errs = append(errs, validateDomain(s)...)
	return s, errs
}

func validateSemantic(s *Skill) []*ValidationError {
	var errs []*ValidationError
	if s.ID == "" {
		errs = append(errs, errorf("semantic", "id", "skill id is required"))
	}
	if s.Version == "" {
		errs = append(errs, errorf("semantic", "version", "skill version is required"))
	}
	if len(s.Steps) == 0 {
		errs = append(errs, errorf("semantic", "steps", "skill must declare at least one step"))
	}
	for name, field := range s.InputSchema {
		if !isKnownFieldType(field.Type) {
			errs = append(errs, errorf("semantic", "input_schema."+name, "unknown field type %q", field.Type))
		}
	}
	if s.OutputContract != nil {
		if s.OutputContract.Format != FormatJSON && s.OutputContract.Format != FormatText {
			errs = append(errs, errorf("semantic", "output_schema.format", "unknown format %q", s.OutputContract.Format))
		}
		for name, field := range s.OutputContract.Fields {
			if !isKnownFieldType(field.Type) {
				errs = append(errs, errorf("semantic", "output_schema.fields."+name, "unknown field type %q", field.Type))
			}
		}
	}
	for _, step := range s.Steps {
		switch step.Type {
		case StepTool, StepTemplate, StepPrompt, StepAwait:
			// known
		default:
			errs = append(errs, errorf("semantic", "steps."+step.Name+".type", "unknown step type %q", step.Type))
		}
		if step.Type == StepTool && step.ToolName == "" {
			errs = append(errs, errorf("semantic", "steps."+step.Name+".tool", "tool step requires a tool name"))
		}
	}
	return errs
}

func validateDomain(s *Skill) []*ValidationError {
	var errs []*ValidationError
	for _, step := range s.Steps {
		if step.When != "" {
			if _, err := condition.Parse(step.When); err != nil {
				errs = append(errs, errorf("domain", "steps."+step.Name+".when", "%s", err))
			}
		}
		switch step.Type {
		case StepTemplate, StepPrompt:
			if !template.IsValid(step.Body) {
				errs = append(errs, errorf("domain", "steps."+step.Name+".body", "unparseable template"))
			}
		case StepAwait:
			if !template.IsValid(step.Message) {
				errs = append(errs, errorf("domain", "steps."+step.Name+".message", "unparseable template"))
			}
		case StepTool:
			if step.ToolName == "" {
				errs = append(errs, warningf("domain", "steps."+step.Name, "tool step has no effect without a tool name"))
			}
		}
	}
	return errs
}

func isKnownFieldType(t FieldType) bool {
	switch t {
	case FieldString, FieldNumber, FieldInteger, FieldBoolean, FieldObject, FieldArray:
		return true
	default:
		return false
	}
}

// HasErrors reports whether errs contains at least one "error" severity entry.
func HasErrors(errs []*ValidationError) bool {
	for _, e := range errs {
		if e.Severity == "error" {
			return true
		}
	}
	return false
}

// AsSkillParseError converts validation errors into a single *skillerr.Error
// suitable for returning from a strict "parse or fail" call site.
func AsSkillParseError(errs []*ValidationError) error {
	if !HasErrors(errs) {
		return nil
	}
	msg := ""
	for _, e := range errs {
		if e.Severity == "error" {
			if msg != "" {
				msg += "; "
			}
			msg += e.Error()
		}
	}
	return skillerr.New(skillerr.SkillParse, msg)
}
