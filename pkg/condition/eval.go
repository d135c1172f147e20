package condition

import (
	"fmt"
	"strings"

	"github.com/skillkit/skillrun/pkg/value"
)

// Evaluate walks the AST against a flat variable scope. Evaluation never
// fails: unresolved variables are null, and type-mismatched comparisons
// resolve to false rather than raising.
func Evaluate(expr Expr, scope map[string]any) bool {
	v := eval(expr, scope)
	return value.Truthy(v)
}

// EvaluateWithTrace evaluates the AST and also returns a human-readable trace
// of each sub-expression's resolved value, useful for diagnosing why a step
// was skipped.
func EvaluateWithTrace(expr Expr, scope map[string]any) (bool, string) {
	var b strings.Builder
	v := evalTraced(expr, scope, &b)
	result := value.Truthy(v)
	fmt.Fprintf(&b, "=> %v\n", result)
	return result, b.String()
}

func eval(expr Expr, scope map[string]any) any {
	switch e := expr.(type) {
	case BinaryExpr:
		return evalBinary(e, scope)
	case VariableRef:
		return value.GetPath(scope, e.Path)
	case NullLit:
		return nil
	case BoolLit:
		return e.Value
	case NumberLit:
		return e.Value
	case StringLit:
		return e.Value
	default:
		return nil
	}
}

func evalBinary(e BinaryExpr, scope map[string]any) any {
	switch e.Op {
	case "&&":
		if !Evaluate(e.Left, scope) {
			return false
		}
		return Evaluate(e.Right, scope)
	case "||":
		if Evaluate(e.Left, scope) {
			return true
		}
		return Evaluate(e.Right, scope)
	}

	l := eval(e.Left, scope)
	r := eval(e.Right, scope)
	switch e.Op {
	case "==":
		return value.DeepEqual(l, r)
	case "!=":
		return !value.DeepEqual(l, r)
	case ">", ">=", "<", "<=":
		cmp, ok := value.Compare(l, r)
		if !ok {
			return false
		}
		switch e.Op {
		case ">":
			return cmp > 0
		case ">=":
			return cmp >= 0
		case "<":
			return cmp < 0
		case "<=":
			return cmp <= 0
		}
	}
	return false
}

func evalTraced(expr Expr, scope map[string]any, b *strings.Builder) any {
	if e, ok := expr.(BinaryExpr); ok {
		evalTraced(e.Left, scope, b)
		evalTraced(e.Right, scope, b)
	}
	v := eval(expr, scope)
	fmt.Fprintf(b, "%s -> %v\n", describe(expr), v)
	return v
}

func describe(expr Expr) string {
	switch e := expr.(type) {
	case BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", describe(e.Left), e.Op, describe(e.Right))
	case VariableRef:
		return strings.Join(e.Path, ".")
	case NullLit:
		return "null"
	case BoolLit:
		return fmt.Sprint(e.Value)
	case NumberLit:
		return fmt.Sprint(e.Value)
	case StringLit:
		return fmt.Sprintf("%q", e.Value)
	default:
		return "?"
	}
}
