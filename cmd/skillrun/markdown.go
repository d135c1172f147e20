package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/skillkit/skillrun/pkg/skill"
)

// renderer is a package-level glamour renderer using the auto style and a
// 100-column word wrap.
var renderer *glamour.TermRenderer

func init() {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err == nil {
		renderer = r
	}
}

// renderMarkdown converts a markdown string to styled terminal output,
// falling back to the raw input if glamour is unavailable.
func renderMarkdown(md string) string {
	if renderer == nil || strings.TrimSpace(md) == "" {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// describeSkill renders a skill's metadata and step list as Markdown, since
// the parsed Skill keeps no raw document body to show verbatim.
func describeSkill(s *skill.Skill) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.ID)
	if s.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", s.Description)
	}
	fmt.Fprintf(&b, "version: `%s`\n\n", s.Version)

	if len(s.Intents) > 0 {
		b.WriteString("## Intents\n\n")
		for _, intent := range s.Intents {
			fmt.Fprintf(&b, "- %s\n", intent)
		}
		b.WriteString("\n")
	}

	if len(s.InputSchema) > 0 {
		b.WriteString("## Input\n\n")
		b.WriteString("| field | type | required |\n|---|---|---|\n")
		for _, name := range sortedFieldNames(s.InputSchema) {
			f := s.InputSchema[name]
			fmt.Fprintf(&b, "| %s | %s | %v |\n", name, f.Type, f.Required)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Steps\n\n")
	for i, step := range s.Steps {
		fmt.Fprintf(&b, "%d. **%s** (`%s`)", i+1, step.Name, step.Type)
		if step.When != "" {
			fmt.Fprintf(&b, " — when `%s`", step.When)
		}
		b.WriteString("\n")
	}

	if s.OutputContract != nil {
		b.WriteString("\n## Output\n\n")
		b.WriteString("| field | type | required |\n|---|---|---|\n")
		for _, name := range sortedFieldNames(s.OutputContract.Fields) {
			f := s.OutputContract.Fields[name]
			fmt.Fprintf(&b, "| %s | %s | %v |\n", name, f.Type, f.Required)
		}
	}

	return b.String()
}

func sortedFieldNames(fields map[string]skill.FieldSpec) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
