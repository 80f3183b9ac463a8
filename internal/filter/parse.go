package filter

import (
	"encoding/json"
	"fmt"

	"github.com/totara-db/totara/internal/errors"
)

// Parse builds a Filter from its JSON wire form:
//
//	{"type": "condition", "field": "address.city", "op": "eq", "value": "NYC"}
//	{"type": "and", "conditions": [ ... ]}
//	{"type": "or",  "conditions": [ ... ]}
//
// Anything outside this grammar is ErrInvalidFilterSyntax.
func Parse(data []byte) (Filter, error) {
	var node any
	if err := json.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidFilterSyntax, err)
	}
	return parseNode(node)
}

func parseNode(node any) (Filter, error) {
	obj, ok := node.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: filter must be a JSON object", errors.ErrInvalidFilterSyntax)
	}

	kind, _ := obj["type"].(string)
	switch kind {
	case "and", "or":
		children, err := parseChildren(obj)
		if err != nil {
			return nil, err
		}
		if kind == "and" {
			return And{Children: children}, nil
		}
		return Or{Children: children}, nil
	case "condition":
		return parseCondition(obj)
	default:
		return nil, fmt.Errorf("%w: type must be 'and', 'or', or 'condition'", errors.ErrInvalidFilterSyntax)
	}
}

func parseChildren(obj map[string]any) ([]Filter, error) {
	raw, ok := obj["conditions"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: 'conditions' array required for and/or", errors.ErrInvalidFilterSyntax)
	}
	children := make([]Filter, 0, len(raw))
	for _, item := range raw {
		child, err := parseNode(item)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

func parseCondition(obj map[string]any) (Filter, error) {
	field, ok := obj["field"].(string)
	if !ok || field == "" {
		return nil, fmt.Errorf("%w: 'field' string required for condition", errors.ErrInvalidFilterSyntax)
	}

	opName, _ := obj["op"].(string)
	op := Op(opName)
	switch op {
	case OpEq, OpGt, OpLt, OpGte, OpLte, OpContains, OpStartsWith, OpEndsWith:
	default:
		return nil, fmt.Errorf("%w: unknown operator %q", errors.ErrInvalidFilterSyntax, opName)
	}

	value, ok := obj["value"]
	if !ok {
		return nil, fmt.Errorf("%w: 'value' required for condition", errors.ErrInvalidFilterSyntax)
	}
	return Condition{Field: field, Op: op, Value: value}, nil
}
