package schemagen

import (
	"encoding/json"
	"testing"

	"github.com/skillkit/skillrun/pkg/skill"
)

func TestGenerateInputSchema_MarksRequiredFields(t *testing.T) {
	in := skill.InputSchema{
		"name": {Type: skill.FieldString, Required: true},
		"age":  {Type: skill.FieldInteger},
	}
	data, err := GenerateInputSchema("greet", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("schema is not valid JSON: %v", err)
	}
	required, _ := doc["required"].([]any)
	if len(required) != 1 || required[0] != "name" {
		t.Errorf("got required %+v", doc["required"])
	}
}

func TestCompileAndValidate_RejectsMissingRequiredField(t *testing.T) {
	in := skill.InputSchema{"name": {Type: skill.FieldString, Required: true}}
	schemaJSON, err := GenerateInputSchema("greet", in)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	sch, err := Compile("greet-input.json", schemaJSON)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if errs := Validate(sch, map[string]any{}); len(errs) == 0 {
		t.Error("expected a validation error for missing required field")
	}
	if errs := Validate(sch, map[string]any{"name": "ada"}); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestGenerateOutputSchema_NilContractIsOpenObject(t *testing.T) {
	data, err := GenerateOutputSchema("noop", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("schema is not valid JSON: %v", err)
	}
	if doc["type"] != "object" {
		t.Errorf("got %+v", doc)
	}
}
