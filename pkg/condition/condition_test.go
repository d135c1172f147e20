package condition

import "testing"

func TestEvaluate_TruthTable(t *testing.T) {
	expr, err := Parse("{{x}} == null && {{y}} != null")
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		name  string
		scope map[string]any
		want  bool
	}{
		{"x nil y set", map[string]any{"x": nil, "y": 1.0}, true},
		{"x set y set", map[string]any{"x": 1.0, "y": 1.0}, false},
		{"x nil y nil", map[string]any{"x": nil, "y": nil}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Evaluate(expr, c.scope)
			if got != c.want {
				t.Errorf("got %v, want %v", got, c.want)
			}
		})
	}
}

func TestEvaluate_NoCoercion(t *testing.T) {
	expr, err := Parse(`"1" != 1`)
	if err != nil {
		t.Fatal(err)
	}
	if !Evaluate(expr, nil) {
		t.Error("expected string \"1\" != number 1")
	}
	expr2, err := Parse("true != 1")
	if err != nil {
		t.Fatal(err)
	}
	if !Evaluate(expr2, nil) {
		t.Error("expected bool true != number 1")
	}
}

func TestEvaluate_RelationalTypeMismatchIsFalse(t *testing.T) {
	expr, err := Parse(`5 > "a"`)
	if err != nil {
		t.Fatal(err)
	}
	if Evaluate(expr, nil) {
		t.Error("type mismatch should evaluate to false, not raise")
	}
}

func TestEvaluate_NestedPath(t *testing.T) {
	expr, err := Parse("a.b.c == 1")
	if err != nil {
		t.Fatal(err)
	}
	scope := map[string]any{"a": map[string]any{"b": map[string]any{"c": 1.0}}}
	if !Evaluate(expr, scope) {
		t.Error("expected nested path to resolve")
	}
	scope2 := map[string]any{"a": 5.0}
	if Evaluate(expr, scope2) {
		t.Error("non-map intermediate should resolve to null")
	}
}

func TestEvaluate_MissingVariableResolvesNull(t *testing.T) {
	expr, err := Parse("missing == null")
	if err != nil {
		t.Fatal(err)
	}
	if !Evaluate(expr, map[string]any{}) {
		t.Error("missing variable should resolve to null, not error")
	}
}

func TestEvaluate_ShortCircuitAnd(t *testing.T) {
	expr, err := Parse("false && undefined.deep.path == 1")
	if err != nil {
		t.Fatal(err)
	}
	if Evaluate(expr, nil) {
		t.Error("expected false")
	}
}

func TestEvaluate_OrPrecedenceOverAnd(t *testing.T) {
	// a && b || c  ==  (a && b) || c
	expr, err := Parse("false && true || true")
	if err != nil {
		t.Fatal(err)
	}
	if !Evaluate(expr, nil) {
		t.Error("expected or to bind looser than and")
	}
}

func TestParse_ErrorReportsPosition(t *testing.T) {
	_, err := Parse("x ==")
	if err == nil {
		t.Fatal("expected parse error")
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Pos == 0 && pe.Expected == "" {
		t.Error("expected populated position/expected fields")
	}
}

func TestParse_RelationalOperators(t *testing.T) {
	cases := []struct {
		expr string
		want bool
	}{
		{"3 > 2", true},
		{"2 >= 2", true},
		{"1 < 2", true},
		{"2 <= 1", false},
		{`"a" < "b"`, true},
	}
	for _, c := range cases {
		expr, err := Parse(c.expr)
		if err != nil {
			t.Fatalf("%s: %v", c.expr, err)
		}
		if got := Evaluate(expr, nil); got != c.want {
			t.Errorf("%s: got %v, want %v", c.expr, got, c.want)
		}
	}
}
