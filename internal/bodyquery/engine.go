package bodyquery

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/usestring/harkit/internal/query"
)

// Result holds the values extracted from one body.
type Result struct {
	Label  string   `json:"label"`
	Mode   string   `json:"mode"`
	Values []any    `json:"values"`
	Errors []string `json:"errors,omitempty"`
}

// Engine dispatches body queries to mode-specific handlers.
type Engine struct {
	jq *query.Engine
}

// NewEngine creates a body query engine that runs jq through jq.
func NewEngine(jq *query.Engine) *Engine {
	if jq == nil {
		jq = query.NewEngine()
	}
	return &Engine{jq: jq}
}

// Query extracts values from b. An empty mode is detected from the body's
// MIME type.
func (e *Engine) Query(b Body, expression, mode string, maxResults int) (*Result, error) {
	if mode == "" {
		mode = DetectMode(b.MimeType)
	}

	var (
		values []any
		errs   []string
		err    error
	)
	switch mode {
	case ModeCSS:
		values, err = queryCSS(b.Text, expression, maxResults)
	case ModeXPath:
		values, err = queryXPath(b.Text, Classify(b.MimeType) == HTML, expression, maxResults)
	case ModeRegex:
		values, err = queryRegex(b.Text, expression, maxResults)
	case ModeForm:
		values, err = queryForm(b.Text, expression, maxResults)
	case ModeJQ:
		values, errs, err = e.queryJQ(b, expression, maxResults)
	default:
		return nil, fmt.Errorf("unknown mode: %q (valid: css, xpath, regex, form, jq)", mode)
	}
	if err != nil {
		return nil, err
	}

	if values == nil {
		values = []any{}
	}
	return &Result{Label: b.Label, Mode: mode, Values: values, Errors: errs}, nil
}

// ValidateExpression checks an expression before it runs against any body.
func (e *Engine) ValidateExpression(expression, mode string) error {
	if expression == "" {
		return fmt.Errorf("expression is required")
	}
	switch mode {
	case "", ModeCSS, ModeXPath, ModeForm:
		return nil
	case ModeRegex:
		_, err := compileRegex(expression)
		return err
	case ModeJQ:
		return e.jq.ValidateExpression(expression)
	default:
		return fmt.Errorf("unknown mode: %q (valid: css, xpath, regex, form, jq)", mode)
	}
}

// queryJQ runs a jq expression over a JSON body. Bodies of any other type
// are parsed as YAML.
func (e *Engine) queryJQ(b Body, expression string, maxResults int) ([]any, []string, error) {
	var doc any
	if Classify(b.MimeType) == JSON {
		if err := json.Unmarshal([]byte(b.Text), &doc); err != nil {
			return nil, nil, fmt.Errorf("failed to parse JSON body: %w", err)
		}
	} else if err := yaml.Unmarshal([]byte(b.Text), &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to parse YAML body: %w", err)
	}

	res, err := e.jq.Run([]query.Input{{Label: b.Label, Value: normalizeYAML(doc)}}, expression, query.Options{MaxResults: maxResults})
	if err != nil {
		return nil, nil, err
	}
	return res.Values, res.Errors, nil
}

// normalizeYAML converts decoded YAML into the value types jq accepts.
func normalizeYAML(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, v := range val {
			out[k] = normalizeYAML(v)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, v := range val {
			out[fmt.Sprintf("%v", k)] = normalizeYAML(v)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, v := range val {
			out[i] = normalizeYAML(v)
		}
		return out
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case uint64:
		return float64(val)
	default:
		return v
	}
}
