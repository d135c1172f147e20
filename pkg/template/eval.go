package template

import (
	"strings"

	"github.com/skillkit/skillrun/pkg/value"
)

// Render parses and renders template against scope in one step.
func Render(tmpl string, scope map[string]any) (string, error) {
	t, err := Parse(tmpl)
	if err != nil {
		return "", err
	}
	return RenderTemplate(t, scope)
}

// RenderTemplate renders an already-parsed Template against scope.
func RenderTemplate(t *Template, scope map[string]any) (string, error) {
	var b strings.Builder
	if err := renderNodes(t.Nodes, scope, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

func renderNodes(nodes []Node, scope map[string]any, b *strings.Builder) error {
	for _, n := range nodes {
		switch node := n.(type) {
		case TextNode:
			b.WriteString(node.Text)
		case ExprNode:
			v := evalExpr(node.Expr, scope)
			b.WriteString(value.Render(v))
		case ForNode:
			arr := evalExpr(node.ArrayPath, scope)
			seq, ok := value.IsSlice(arr)
			if !ok {
				continue // not a sequence: block produces empty text
			}
			for _, elem := range seq {
				inner := make(map[string]any, len(scope)+1)
				for k, v := range scope {
					inner[k] = v
				}
				inner["_"] = elem
				if m, ok := value.IsMap(elem); ok {
					for k, v := range m {
						inner[k] = v
					}
				}
				if err := renderNodes(node.Body, inner, b); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// RenderInputs recursively renders every string leaf of a (possibly nested)
// map/list structure, preserving its shape; non-string leaves pass through
// unchanged.
func RenderInputs(in map[string]any, scope map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(in))
	for k, v := range in {
		rv, err := renderValue(v, scope)
		if err != nil {
			return nil, err
		}
		out[k] = rv
	}
	return out, nil
}

func renderValue(v any, scope map[string]any) (any, error) {
	switch t := v.(type) {
	case string:
		return Render(t, scope)
	case map[string]any:
		return RenderInputs(t, scope)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			rv, err := renderValue(e, scope)
			if err != nil {
				return nil, err
			}
			out[i] = rv
		}
		return out, nil
	default:
		return v, nil
	}
}

// ExtractVariables returns the set of free root identifiers referenced by
// template ("_" excluded; "#name" index variables included).
func ExtractVariables(tmpl string) (map[string]bool, error) {
	t, err := Parse(tmpl)
	if err != nil {
		return nil, err
	}
	vars := map[string]bool{}
	collectVars(t.Nodes, vars)
	return vars, nil
}

func collectVars(nodes []Node, vars map[string]bool) {
	for _, n := range nodes {
		switch node := n.(type) {
		case ExprNode:
			collectExprVars(node.Expr, vars)
		case ForNode:
			collectExprVars(node.ArrayPath, vars)
			collectVars(node.Body, vars)
		}
	}
}

func collectExprVars(e Expr, vars map[string]bool) {
	switch ex := e.(type) {
	case BinaryExpr:
		collectExprVars(ex.Left, vars)
		collectExprVars(ex.Right, vars)
	case VarAccess:
		if ex.Base != "_" {
			vars[ex.Base] = true
		}
		for _, a := range ex.Accessors {
			if a.IsVarIndex {
				vars[a.IndexVar] = true
			}
		}
	}
}

// IsValid reports whether tmpl parses without error.
func IsValid(tmpl string) bool {
	_, err := Parse(tmpl)
	return err == nil
}

func evalExpr(e Expr, scope map[string]any) any {
	switch ex := e.(type) {
	case NumberLit:
		return ex.Value
	case StringLit:
		return ex.Value
	case CurrentLit:
		return scope["_"]
	case VarAccess:
		return evalVarAccess(ex, scope)
	case BinaryExpr:
		return evalBinaryExpr(ex, scope)
	default:
		return nil
	}
}

func evalVarAccess(ex VarAccess, scope map[string]any) any {
	var cur any
	if ex.Base == "_" {
		cur = scope["_"]
	} else {
		cur = scope[ex.Base]
	}
	for _, a := range ex.Accessors {
		switch {
		case a.Field != "":
			m, ok := value.IsMap(cur)
			if !ok {
				return nil
			}
			cur = m[a.Field]
		case a.IsVarIndex:
			idxVal := scope[a.IndexVar]
			idx, ok := value.ToInt(idxVal)
			if !ok {
				return nil
			}
			cur = indexInto(cur, idx)
		default:
			cur = indexInto(cur, a.Index)
		}
	}
	return cur
}

func indexInto(v any, idx int) any {
	s, ok := value.IsSlice(v)
	if !ok || idx < 0 || idx >= len(s) {
		return nil
	}
	return s[idx]
}

func evalBinaryExpr(ex BinaryExpr, scope map[string]any) any {
	l := evalExpr(ex.Left, scope)
	r := evalExpr(ex.Right, scope)
	if ex.Op == '+' {
		_, lStr := l.(string)
		_, rStr := r.(string)
		if lStr || rStr {
			return value.Render(l) + value.Render(r)
		}
	}
	lf, lok := value.ToFloat(l)
	rf, rok := value.ToFloat(r)
	if !lok {
		lf = 0
	}
	if !rok {
		rf = 0
	}
	switch ex.Op {
	case '+':
		return lf + rf
	case '-':
		return lf - rf
	case '*':
		return lf * rf
	case '/':
		return lf / rf
	default:
		return nil
	}
}
