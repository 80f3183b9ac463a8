package filter

import (
	"encoding/json"
	"reflect"
	"strings"
)

// Eval evaluates f against a decoded JSON document. It is total: whatever
// the document's shape, the result is a boolean and never a panic. A
// condition over a path that is absent, or whose operands have the wrong
// types, is simply false.
func Eval(f Filter, doc any) bool {
	switch node := f.(type) {
	case Condition:
		return evalCondition(node, doc)
	case And:
		for _, child := range node.Children {
			if !Eval(child, doc) {
				return false
			}
		}
		return true
	case Or:
		for _, child := range node.Children {
			if Eval(child, doc) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func evalCondition(c Condition, doc any) bool {
	value, present := resolvePath(doc, c.Field)
	if !present {
		return false
	}

	switch c.Op {
	case OpEq:
		return deepEqual(value, c.Value)
	case OpGt, OpLt, OpGte, OpLte:
		left, okL := asNumber(value)
		right, okR := asNumber(c.Value)
		if !okL || !okR {
			return false
		}
		switch c.Op {
		case OpGt:
			return left > right
		case OpLt:
			return left < right
		case OpGte:
			return left >= right
		default:
			return left <= right
		}
	case OpContains, OpStartsWith, OpEndsWith:
		left, okL := value.(string)
		right, okR := c.Value.(string)
		if !okL || !okR {
			return false
		}
		switch c.Op {
		case OpContains:
			return strings.Contains(left, right)
		case OpStartsWith:
			return strings.HasPrefix(left, right)
		default:
			return strings.HasSuffix(left, right)
		}
	default:
		return false
	}
}

// resolvePath splits the dotted path and descends through JSON objects by
// key. A missing segment, or a non-object in the middle of the path,
// resolves to absent.
func resolvePath(doc any, path string) (any, bool) {
	current := doc
	for _, segment := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// deepEqual compares two decoded JSON values type-sensitively: "5" never
// equals 5. Numbers compare as float64, which is how encoding/json decodes
// every JSON number into an any.
func deepEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// asNumber extracts a float64 from a decoded JSON value. json.Number is
// accepted for callers that decode with UseNumber.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
