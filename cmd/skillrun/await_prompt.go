package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/skillkit/skillrun/pkg/execctx"
	"github.com/skillkit/skillrun/pkg/skill"
)

var (
	promptTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51"))
	promptFieldStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	promptDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	promptErrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// awaitField pairs an InputSchema entry with its rendered textinput.
type awaitField struct {
	name  string
	spec  skill.FieldSpec
	input textinput.Model
}

// awaitFormModel is a one-field-per-line Bubble Tea form collecting the
// resume() input an AWAIT step's InputSchema requires.
type awaitFormModel struct {
	message string
	fields  []awaitField
	cursor  int
	err     string
	done    bool
	aborted bool
}

func newAwaitFormModel(req execctx.AwaitRequest) awaitFormModel {
	names := make([]string, 0, len(req.InputSchema))
	for name := range req.InputSchema {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]awaitField, 0, len(names))
	for i, name := range names {
		spec, ok := req.InputSchema[name].(skill.FieldSpec)
		if !ok {
			// Snapshots read back from a FileStore hold decoded JSON objects.
			if data, err := json.Marshal(req.InputSchema[name]); err == nil {
				_ = json.Unmarshal(data, &spec)
			}
		}
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholderFor(spec)
		if i == 0 {
			ti.Focus()
		}
		fields = append(fields, awaitField{name: name, spec: spec, input: ti})
	}
	return awaitFormModel{message: req.Message, fields: fields}
}

func placeholderFor(spec skill.FieldSpec) string {
	switch spec.Type {
	case skill.FieldBoolean:
		return "true/false"
	case skill.FieldInteger:
		return "integer"
	case skill.FieldNumber:
		return "number"
	default:
		return string(spec.Type)
	}
}

func (m awaitFormModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m awaitFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c", "esc":
		m.aborted = true
		return m, tea.Quit

	case "tab", "down":
		m.advanceCursor(1)
		return m, nil

	case "shift+tab", "up":
		m.advanceCursor(-1)
		return m, nil

	case "enter":
		if m.cursor == len(m.fields)-1 {
			if err := m.validateAll(); err != nil {
				m.err = err.Error()
				return m, nil
			}
			m.done = true
			return m, tea.Quit
		}
		m.advanceCursor(1)
		return m, nil
	}

	var cmd tea.Cmd
	m.fields[m.cursor].input, cmd = m.fields[m.cursor].input.Update(keyMsg)
	return m, cmd
}

func (m *awaitFormModel) advanceCursor(delta int) {
	m.fields[m.cursor].input.Blur()
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.fields) {
		m.cursor = len(m.fields) - 1
	}
	m.fields[m.cursor].input.Focus()
}

func (m *awaitFormModel) validateAll() error {
	for _, f := range m.fields {
		raw := f.input.Value()
		if raw == "" {
			if f.spec.Required {
				return fmt.Errorf("%s is required", f.name)
			}
			continue
		}
		if _, err := coerce(f.spec.Type, raw); err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
	}
	return nil
}

func coerce(t skill.FieldType, raw string) (any, error) {
	switch t {
	case skill.FieldBoolean:
		return strconv.ParseBool(raw)
	case skill.FieldInteger:
		n, err := strconv.ParseInt(raw, 10, 64)
		return float64(n), err
	case skill.FieldNumber:
		return strconv.ParseFloat(raw, 64)
	default:
		return raw, nil
	}
}

func (m awaitFormModel) View() string {
	var b string
	b += promptTitleStyle.Render("skill awaiting input") + "\n\n"
	if m.message != "" {
		b += renderMarkdown(m.message) + "\n\n"
	}
	for i, f := range m.fields {
		marker := "  "
		if i == m.cursor {
			marker = promptFieldStyle.Render("> ")
		}
		label := f.name
		if f.spec.Required {
			label += "*"
		}
		b += fmt.Sprintf("%s%s %s\n", marker, promptFieldStyle.Render(label+":"), f.input.View())
	}
	if m.err != "" {
		b += "\n" + promptErrStyle.Render(m.err) + "\n"
	}
	b += "\n" + promptDimStyle.Render("tab/↑↓ move · enter next/submit · esc cancel")
	return b
}

// promptAwaitInput runs an interactive terminal form for req's InputSchema
// and returns the typed values resume() expects.
func promptAwaitInput(req execctx.AwaitRequest) (map[string]any, error) {
	if len(req.InputSchema) == 0 {
		return map[string]any{}, nil
	}

	m := newAwaitFormModel(req)
	p := tea.NewProgram(m)
	final, err := p.Run()
	if err != nil {
		return nil, err
	}

	result := final.(awaitFormModel)
	if result.aborted {
		return nil, fmt.Errorf("await prompt cancelled")
	}

	out := make(map[string]any, len(result.fields))
	for _, f := range result.fields {
		raw := f.input.Value()
		if raw == "" {
			continue
		}
		v, err := coerce(f.spec.Type, raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.name, err)
		}
		out[f.name] = v
	}
	return out, nil
}
