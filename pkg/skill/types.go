// Package skill holds the Skill data model (§3) and the Markdown-like
// document parser/validator (§4.C): front-matter metadata plus an ordered
// list of step blocks.
package skill

// StepType is one of the four step kinds.
type StepType string

const (
	StepTool     StepType = "tool"
	StepTemplate StepType = "template"
	StepPrompt   StepType = "prompt"
	StepAwait    StepType = "await"
)

// FieldType is one of the six InputSchema/OutputContract field types.
type FieldType string

const (
	FieldString  FieldType = "string"
	FieldNumber  FieldType = "number"
	FieldInteger FieldType = "integer"
	FieldBoolean FieldType = "boolean"
	FieldObject  FieldType = "object"
	FieldArray   FieldType = "array"
)

// ValidationRule is the opaque-to-the-core constraint set a FieldSpec may carry.
type ValidationRule struct {
	Pattern  string `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Min      *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max      *float64 `yaml:"max,omitempty" json:"max,omitempty"`
	MinItems *int     `yaml:"minItems,omitempty" json:"minItems,omitempty"`
	MaxItems *int     `yaml:"maxItems,omitempty" json:"maxItems,omitempty"`
	Message  string   `yaml:"message,omitempty" json:"message,omitempty"`
}

// FieldSpec describes one entry of an InputSchema or OutputContract.
type FieldSpec struct {
	Type        FieldType       `yaml:"type" json:"type"`
	Required    bool            `yaml:"required,omitempty" json:"required,omitempty"`
	DefaultValue any            `yaml:"default,omitempty" json:"default,omitempty"`
	Options     []any           `yaml:"options,omitempty" json:"options,omitempty"`
	Description string          `yaml:"description,omitempty" json:"description,omitempty"`
	UI          map[string]any  `yaml:"ui,omitempty" json:"ui,omitempty"`
	Validation  *ValidationRule `yaml:"validation,omitempty" json:"validation,omitempty"`
}

// InputSchema is a map field name -> FieldSpec.
type InputSchema map[string]FieldSpec

// OutputFormat is JSON or TEXT.
type OutputFormat string

const (
	FormatJSON OutputFormat = "JSON"
	FormatText OutputFormat = "TEXT"
)

// OutputContract declares the shape the final variable scope must satisfy.
type OutputContract struct {
	Fields map[string]FieldSpec
	Format OutputFormat
}

// Step is one unit of work within a Skill.
type Step struct {
	Name    string
	Type    StepType
	VarName string
	When    string // raw, unparsed condition expression

	// TOOL
	ToolName       string
	InputTemplate  map[string]any
	StepOutputSchema map[string]FieldSpec

	// TEMPLATE
	Body string

	// PROMPT
	PromptOptions map[string]any

	// AWAIT
	Message         string
	AwaitInputSchema InputSchema
}

// Skill is the immutable, versioned, declarative pipeline a document parses into.
type Skill struct {
	ID             string
	Version        string
	Description    string
	Intents        []string
	InputSchema    InputSchema
	OutputContract *OutputContract
	Steps          []Step
}

// MatchesIntent reports whether phrase matches one of the skill's declared
// intents. Per open question #4, matching is case-insensitive exact match.
func (s *Skill) MatchesIntent(phrase string) bool {
	lower := toLower(phrase)
	for _, intent := range s.Intents {
		if toLower(intent) == lower {
			return true
		}
	}
	return false
}

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
