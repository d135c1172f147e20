// Package schemagen generates and compiles JSON Schema documents for skill
// input/output shapes, grounded on the kernel's invopop/jsonschema +
// santhosh-tekuri/jsonschema/v6 pair: the schema is built field by field as
// an invopop jsonschema.Schema (Draft 2020-12), and santhosh-tekuri compiles
// and validates instances against it.
package schemagen

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/skillkit/skillrun/pkg/skill"
)

// GenerateInputSchema reflects a skill's InputSchema into a JSON Schema
// document describing the shape resume()/Execute() callers must supply.
func GenerateInputSchema(skillID string, in skill.InputSchema) ([]byte, error) {
	s := &jsonschema.Schema{
		Version:    jsonschema.Version,
		ID:         jsonschema.ID("https://skillrun/schemas/" + skillID + "/input.json"),
		Title:      skillID + " input",
		Type:       "object",
		Properties: jsonschema.NewProperties(),
	}
	for name, field := range in {
		s.Properties.Set(name, fieldToSchema(field))
		if field.Required {
			s.Required = append(s.Required, name)
		}
	}
	return json.MarshalIndent(s, "", "  ")
}

// GenerateOutputSchema reflects a skill's OutputContract into a JSON Schema
// document describing the final output shape.
func GenerateOutputSchema(skillID string, out *skill.OutputContract) ([]byte, error) {
	if out == nil {
		return json.MarshalIndent(&jsonschema.Schema{Type: "object"}, "", "  ")
	}
	s := &jsonschema.Schema{
		Version:    jsonschema.Version,
		ID:         jsonschema.ID("https://skillrun/schemas/" + skillID + "/output.json"),
		Title:      skillID + " output",
		Type:       "object",
		Properties: jsonschema.NewProperties(),
	}
	for name, field := range out.Fields {
		s.Properties.Set(name, fieldToSchema(field))
		if field.Required {
			s.Required = append(s.Required, name)
		}
	}
	return json.MarshalIndent(s, "", "  ")
}

func fieldToSchema(f skill.FieldSpec) *jsonschema.Schema {
	s := &jsonschema.Schema{Description: f.Description}
	switch f.Type {
	case skill.FieldInteger:
		s.Type = "integer"
	case skill.FieldNumber:
		s.Type = "number"
	case skill.FieldBoolean:
		s.Type = "boolean"
	case skill.FieldObject:
		s.Type = "object"
	case skill.FieldArray:
		s.Type = "array"
	default:
		s.Type = "string"
	}
	if f.Validation != nil {
		if f.Validation.Pattern != "" {
			s.Pattern = f.Validation.Pattern
		}
		if f.Validation.Min != nil {
			s.Minimum = json.Number(fmt.Sprintf("%g", *f.Validation.Min))
		}
		if f.Validation.Max != nil {
			s.Maximum = json.Number(fmt.Sprintf("%g", *f.Validation.Max))
		}
	}
	for _, opt := range f.Options {
		s.Enum = append(s.Enum, opt)
	}
	return s
}

// Compile parses and compiles a generated schema document, ready to
// validate candidate instances against.
func Compile(name string, schemaJSON []byte) (*sjsonschema.Schema, error) {
	var doc any
	if err := json.Unmarshal(schemaJSON, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	c := sjsonschema.NewCompiler()
	if err := c.AddResource(name, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	return c.Compile(name)
}

// Validate checks instance (already decoded into Go any-values, e.g. via
// json.Unmarshal) against a compiled schema, flattening nested causes into
// one error per leaf violation.
func Validate(sch *sjsonschema.Schema, instance any) []error {
	err := sch.Validate(instance)
	if err == nil {
		return nil
	}
	ve, ok := err.(*sjsonschema.ValidationError)
	if !ok {
		return []error{err}
	}
	var out []error
	for _, leaf := range flatten(ve) {
		out = append(out, fmt.Errorf("%s: %v", joinPath(leaf.InstanceLocation), leaf.ErrorKind))
	}
	return out
}

func flatten(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var out []*sjsonschema.ValidationError
	for _, c := range ve.Causes {
		out = append(out, flatten(c)...)
	}
	return out
}

func joinPath(segments []string) string {
	if len(segments) == 0 {
		return "(root)"
	}
	out := ""
	for i, s := range segments {
		if i > 0 {
			out += "/"
		}
		out += s
	}
	return out
}
