// Package query runs JQ expressions over the wire form of HAR archives.
package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
)

// Engine executes JQ queries against dumped HAR values.
type Engine struct{}

// NewEngine creates a new query engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Input is one value to query. Label names it in errors and is bound to the
// $label variable inside the expression.
type Input struct {
	Label string
	Value any
}

// Options tune a query run.
type Options struct {
	Deduplicate bool
	MaxResults  int // 0 means unlimited
}

// QueryResult contains the results of a JQ query.
type QueryResult struct {
	Values        []any          `json:"values"`                   // Extracted values
	Errors        []string       `json:"errors,omitempty"`         // Per-input runtime errors
	RawCount      int            `json:"raw_count"`                // Count before deduplication
	MatchedLabels []string       `json:"matched_labels,omitempty"` // Inputs that produced values, in input order
	LabelCounts   map[string]int `json:"label_counts,omitempty"`   // Value count per label
	Truncated     bool           `json:"truncated,omitempty"`      // MaxResults was reached
}

// compile parses and compiles expression with the $label variable bound.
func compile(expression string) (*gojq.Code, error) {
	q, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	code, err := gojq.Compile(q, gojq.WithVariables([]string{"$label"}))
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}
	return code, nil
}

// Query runs expression against a single value.
func (e *Engine) Query(value any, expression string, opts Options) (*QueryResult, error) {
	return e.Run([]Input{{Label: "document", Value: value}}, expression, opts)
}

// Run executes expression against every input and combines the results,
// optionally deduplicating across all inputs. Runtime errors are collected
// per input and do not stop the run.
func (e *Engine) Run(inputs []Input, expression string, opts Options) (*QueryResult, error) {
	code, err := compile(expression)
	if err != nil {
		return nil, err
	}

	result := &QueryResult{
		Values:      make([]any, 0),
		LabelCounts: make(map[string]int),
	}

	seen := make(map[string]bool)
	seenErrors := make(map[string]bool)
	limitReached := func() bool {
		return opts.MaxResults > 0 && len(result.Values) >= opts.MaxResults
	}

	for i, in := range inputs {
		if limitReached() {
			result.Truncated = true
			break
		}

		label := in.Label
		if label == "" {
			label = fmt.Sprintf("input[%d]", i)
		}

		matched := false
		iter := code.Run(in.Value, label)
		for {
			if limitReached() {
				result.Truncated = true
				break
			}

			v, ok := iter.Next()
			if !ok {
				break
			}

			if err, isErr := v.(error); isErr {
				msg := formatJQError(label, err)
				if !seenErrors[msg] {
					result.Errors = append(result.Errors, msg)
					seenErrors[msg] = true
				}
				continue
			}

			if v == nil {
				continue
			}

			result.RawCount++
			result.LabelCounts[label]++
			matched = true

			if opts.Deduplicate {
				key := valueKey(v)
				if seen[key] {
					continue
				}
				seen[key] = true
			}

			result.Values = append(result.Values, v)
		}

		if matched {
			result.MatchedLabels = append(result.MatchedLabels, label)
		}
	}

	return result, nil
}

// formatJQError creates a helpful error message for JQ execution errors.
//
// Runtime errors like "cannot iterate over: null" are plain errors in gojq,
// so hints are picked by message text. They only decorate output.
func formatJQError(label string, err error) string {
	var haltErr *gojq.HaltError
	if errors.As(err, &haltErr) {
		if haltErr.Value() == nil {
			return fmt.Sprintf("%s: query halted", label)
		}
		return fmt.Sprintf("%s: query halted with: %v", label, haltErr.Value())
	}

	errStr := err.Error()

	var hint string
	switch {
	case strings.Contains(errStr, "cannot iterate over: null"):
		hint = " (the path may not exist in this archive)"
	case strings.Contains(errStr, "cannot index") && strings.Contains(errStr, "with"):
		hint = " (field not found or wrong type; HAR keys are camelCase, e.g. .request.httpVersion)"
	case strings.Contains(errStr, "object") && strings.Contains(errStr, "cannot be iterated"):
		hint = " (expected array but got object, try removing '[]')"
	case strings.Contains(errStr, "array") && strings.Contains(errStr, "cannot be indexed"):
		hint = " (expected object but got array, try adding '[]')"
	}

	return fmt.Sprintf("%s: %s%s", label, errStr, hint)
}

// valueKey creates a string key for deduplication.
func valueKey(v any) string {
	switch val := v.(type) {
	case string:
		return "s:" + val
	case float64:
		return fmt.Sprintf("n:%v", val)
	case int:
		return fmt.Sprintf("n:%v", val)
	case bool:
		return fmt.Sprintf("b:%v", val)
	case nil:
		return "null"
	default:
		// encoding/json sorts map keys, so equal objects share a key.
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("?:%v", val)
		}
		return "j:" + string(b)
	}
}

// ValidateExpression checks if a JQ expression is valid without executing it.
func (e *Engine) ValidateExpression(expression string) error {
	q, err := gojq.Parse(expression)
	if err != nil {
		var parseErr *gojq.ParseError
		if errors.As(err, &parseErr) {
			return fmt.Errorf("invalid jq expression at position %d: %w", parseErr.Offset, err)
		}
		return fmt.Errorf("invalid jq expression: %w", err)
	}

	if _, err := gojq.Compile(q, gojq.WithVariables([]string{"$label"})); err != nil {
		return fmt.Errorf("failed to compile jq expression: %w", err)
	}
	return nil
}
