// Package skillerr defines the closed error taxonomy shared by the runtime.
// Skill parsing and the orchestrator build their failures as *Error values
// carrying one of these Kinds; StepResult and SkillResult carry failures as
// plain message strings, most of them prefixed with a Kind's name. The
// condition and template parsers return their own *ParseError/*RenderError.
package skillerr

import "fmt"

// Kind is one of the ten taxonomy entries.
type Kind string

const (
	SkillParse               Kind = "SKILL_PARSE"
	ConditionParse            Kind = "CONDITION_PARSE"
	TemplateRender            Kind = "TEMPLATE_RENDER"
	ToolNotFound              Kind = "TOOL_NOT_FOUND"
	ToolExecution             Kind = "TOOL_EXECUTION"
	LLMInvocation             Kind = "LLM_INVOCATION"
	AwaitValidation           Kind = "AWAIT_VALIDATION"
	OutputValidation          Kind = "OUTPUT_VALIDATION"
	ExecutionNotFound         Kind = "EXECUTION_NOT_FOUND"
	ExecutionAlreadyCompleted Kind = "EXECUTION_ALREADY_COMPLETED"
)

// Error is the structured error type returned across the runtime's public
// boundary. It wraps an underlying cause (if any) with %w so callers can
// still errors.Is/errors.As through to it.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an *Error wrapping cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
