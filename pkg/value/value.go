// Package value implements the tagged dynamic value that flows through the
// variable scope, the condition engine, and the template engine. Everything
// that crosses a step boundary — tool input/output, template render results,
// await user input — is expressed in terms of the Go types this package
// recognizes: nil, bool, float64, string, []any, map[string]any.
package value

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// IsMap reports whether v is a map-shaped value.
func IsMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// IsSlice reports whether v is a sequence-shaped value.
func IsSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

// Truthy implements the truthiness rules from the condition engine:
// null -> false, bool -> itself, "" -> false, 0 -> false, everything else -> true.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	default:
		return true
	}
}

// DeepEqual implements the equality rules used by ==/!=: null equals only
// null; otherwise values must share a comparable shape and content.
func DeepEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !DeepEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, vv := range av {
			other, present := bv[k]
			if !present || !DeepEqual(vv, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Compare implements the ordering used by </<=/>/>=: numeric if both sides
// are numbers, lexicographic if both sides are strings. The second return
// value is false when the operands are not comparable (the caller must then
// treat the relational result as false, never raise).
func Compare(a, b any) (int, bool) {
	if af, ok := a.(float64); ok {
		if bf, ok := b.(float64); ok {
			switch {
			case af < bf:
				return -1, true
			case af > bf:
				return 1, true
			default:
				return 0, true
			}
		}
		return 0, false
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return strings.Compare(as, bs), true
		}
		return 0, false
	}
	return 0, false
}

// ToFloat converts a value to float64 when it is numeric or a numeric string,
// used by array index resolution ("#i" forms) and arithmetic coercion.
func ToFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// ToInt converts a value to an int index, used by "arr[#i]" resolution.
// Non-integer resolution (per 4.B) yields ok=false so the caller can render null.
func ToInt(v any) (int, bool) {
	f, ok := ToFloat(v)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// Render converts a value to its textual form for substitution into template
// output: null -> "", integer-valued floats drop the trailing ".0", booleans
// render lowercase, and maps/lists use a deterministic JSON-like serialization.
func Render(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return ""
		}
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case []any, map[string]any:
		return serialize(t)
	default:
		return fmt.Sprint(t)
	}
}

// serialize renders maps/lists deterministically: object keys are sorted so
// the same scope always yields the same text, which the template idempotence
// property (spec 8.4) depends on.
func serialize(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		return Render(t)
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = serialize(e)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = strconv.Quote(k) + ":" + serialize(t[k])
		}
		return "{" + strings.Join(parts, ",") + "}"
	default:
		return strconv.Quote(fmt.Sprint(t))
	}
}

// GetPath walks a dotted path ("a.b.c") through map-typed intermediates.
// A missing key or a non-map intermediate resolves to nil, never an error,
// matching the variable resolution rule shared by the condition and template
// engines.
func GetPath(root map[string]any, segments []string) any {
	var cur any = root
	for _, seg := range segments {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[seg]
		if !ok {
			return nil
		}
	}
	return cur
}
