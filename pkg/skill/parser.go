package skill

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/skillkit/skillrun/pkg/skillerr"
	"gopkg.in/yaml.v3"
)

// The concrete surface syntax (the spec leaves this an external concern,
// §4.C): a skill document is a YAML front-matter block delimited by `---`
// lines, holding metadata and the two schemas, followed by a Markdown body
// of `## step: <name>` headings each containing a small YAML map describing
// that step. This mirrors the teacher's runbook convention of strict-decoded
// YAML documents, extended with a Markdown heading per unit of work instead
// of a flat `steps:` list, to keep the "Markdown-like declarative source"
// framing the spec calls for.

type frontMatter struct {
	ID            string                 `yaml:"id"`
	Version       string                 `yaml:"version"`
	Description   string                 `yaml:"description"`
	Intents       []string               `yaml:"intents"`
	InputSchema   map[string]fieldDoc    `yaml:"input_schema"`
	OutputSchema  *outputContractDoc     `yaml:"output_schema"`
}

// fieldDoc accepts both the short form (`field: string`) and the long form
// (`field: {type: string, required: true}`) and normalizes to the same
// FieldSpec, per 4.C rule 5.
type fieldDoc struct {
	shorthand string
	long      FieldSpec
	isLong    bool
}

func (f *fieldDoc) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		f.shorthand = value.Value
		f.isLong = false
		return nil
	}
	var spec FieldSpec
	if err := value.Decode(&spec); err != nil {
		return err
	}
	f.long = spec
	f.isLong = true
	return nil
}

func (f fieldDoc) normalize() FieldSpec {
	if f.isLong {
		return f.long
	}
	return FieldSpec{Type: FieldType(f.shorthand), Required: false}
}

type outputContractDoc struct {
	Format string              `yaml:"format"`
	Fields map[string]fieldDoc `yaml:"fields"`
}

type stepDoc struct {
	Type    string         `yaml:"type"`
	VarName string         `yaml:"varName"`
	When    string         `yaml:"when"`

	Tool  string         `yaml:"tool"`
	Input map[string]any `yaml:"input"`
	OutputSchema map[string]fieldDoc `yaml:"output_schema"`

	Body string `yaml:"body"`

	Options map[string]any `yaml:"options"`

	Message     string              `yaml:"message"`
	InputSchema map[string]fieldDoc `yaml:"input_schema"`
}

// Parse parses a skill document into a Skill. Failures are *skillerr.Error
// with Kind SkillParse.
func Parse(doc []byte) (*Skill, error) {
	front, bodyStart, err := splitFrontMatter(doc)
	if err != nil {
		return nil, err
	}

	var fm frontMatter
	dec := yaml.NewDecoder(bytes.NewReader(front))
	dec.KnownFields(true)
	if err := dec.Decode(&fm); err != nil {
		return nil, skillerr.Wrap(skillerr.SkillParse, "decode front matter", err)
	}
	if fm.ID == "" {
		return nil, skillerr.New(skillerr.SkillParse, "missing required field: id")
	}
	if fm.Version == "" {
		return nil, skillerr.New(skillerr.SkillParse, "missing required field: version")
	}

	steps, err := parseSteps(doc[bodyStart:])
	if err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return nil, skillerr.New(skillerr.SkillParse, "missing required field: steps")
	}

	s := &Skill{
		ID:          fm.ID,
		Version:     fm.Version,
		Description: fm.Description,
		Intents:     fm.Intents,
		InputSchema: normalizeFieldDocs(fm.InputSchema),
		Steps:       steps,
	}
	if fm.OutputSchema != nil {
		format := OutputFormat(fm.OutputSchema.Format)
		if format == "" {
			format = FormatJSON
		}
		s.OutputContract = &OutputContract{
			Fields: normalizeFieldDocs(fm.OutputSchema.Fields),
			Format: format,
		}
	}

	if err := checkStructure(s); err != nil {
		return nil, err
	}
	return s, nil
}

func normalizeFieldDocs(in map[string]fieldDoc) map[string]FieldSpec {
	out := make(map[string]FieldSpec, len(in))
	for k, v := range in {
		out[k] = v.normalize()
	}
	return out
}

// splitFrontMatter extracts the `---`-delimited YAML block and returns the
// byte offset where the Markdown body begins.
func splitFrontMatter(doc []byte) (front []byte, bodyStart int, err error) {
	s := string(doc)
	trimmed := strings.TrimLeft(s, " \t\r\n")
	if !strings.HasPrefix(trimmed, "---") {
		return nil, 0, skillerr.New(skillerr.SkillParse, "document must begin with a --- front-matter block")
	}
	rest := trimmed[3:]
	idx := strings.Index(rest, "\n---")
	if idx < 0 {
		return nil, 0, skillerr.New(skillerr.SkillParse, "unterminated front-matter block")
	}
	front = []byte(rest[:idx])
	after := rest[idx+4:]
	if nl := strings.Index(after, "\n"); nl >= 0 {
		after = after[nl+1:]
	} else {
		after = ""
	}
	return front, len(doc) - len(after), nil
}

// parseSteps scans the Markdown body for `## step: <name>` headings, each
// followed by a YAML map describing that step, until the next heading or EOF.
func parseSteps(body []byte) ([]Step, error) {
	text := string(body)
	const marker = "## step:"
	var blocks []struct {
		name string
		yaml string
	}
	idx := strings.Index(text, marker)
	for idx >= 0 {
		rest := text[idx+len(marker):]
		nl := strings.Index(rest, "\n")
		var header string
		if nl < 0 {
			header = rest
			rest = ""
		} else {
			header = rest[:nl]
			rest = rest[nl+1:]
		}
		name := strings.TrimSpace(header)
		next := strings.Index(rest, marker)
		var chunk string
		if next < 0 {
			chunk = rest
		} else {
			chunk = rest[:next]
		}
		blocks = append(blocks, struct {
			name string
			yaml string
		}{name: name, yaml: chunk})
		if next < 0 {
			break
		}
		text = rest
		idx = strings.Index(text, marker)
	}

	seen := map[string]bool{}
	steps := make([]Step, 0, len(blocks))
	for _, b := range blocks {
		if b.name == "" {
			return nil, skillerr.New(skillerr.SkillParse, "step block missing a name")
		}
		if seen[b.name] {
			return nil, skillerr.New(skillerr.SkillParse, fmt.Sprintf("duplicate step name %q", b.name))
		}
		seen[b.name] = true

		var doc stepDoc
		dec := yaml.NewDecoder(strings.NewReader(b.yaml))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, skillerr.Wrap(skillerr.SkillParse, fmt.Sprintf("decode step %q", b.name), err)
		}

		step, err := buildStep(b.name, doc)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func buildStep(name string, doc stepDoc) (Step, error) {
	st := Step{
		Name:    name,
		Type:    StepType(doc.Type),
		VarName: doc.VarName,
		When:    doc.When,
	}
	switch st.Type {
	case StepTool:
		if doc.Tool == "" {
			return Step{}, skillerr.New(skillerr.SkillParse, fmt.Sprintf("step %q: tool step requires a 'tool' field", name))
		}
		st.ToolName = doc.Tool
		st.InputTemplate = doc.Input
		st.StepOutputSchema = normalizeFieldDocs(doc.OutputSchema)
	case StepTemplate:
		st.Body = doc.Body
	case StepPrompt:
		st.Body = doc.Body
		st.PromptOptions = doc.Options
	case StepAwait:
		st.Message = doc.Message
		st.AwaitInputSchema = normalizeFieldDocs(doc.InputSchema)
	case "":
		return Step{}, skillerr.New(skillerr.SkillParse, fmt.Sprintf("step %q: missing 'type'", name))
	default:
		return Step{}, skillerr.New(skillerr.SkillParse, fmt.Sprintf("step %q: unknown step type %q", name, doc.Type))
	}
	return st, nil
}

func checkStructure(s *Skill) error {
	seen := map[string]bool{}
	for _, step := range s.Steps {
		if seen[step.Name] {
			return skillerr.New(skillerr.SkillParse, fmt.Sprintf("duplicate step name %q", step.Name))
		}
		seen[step.Name] = true
	}
	return nil
}
