package bodyquery

import (
	"fmt"
	"net/url"
	"regexp"
)

func compileRegex(expression string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid regex: %w", err)
	}
	return re, nil
}

// queryRegex returns the first capture group of each match, or the whole
// match when the expression has no groups.
func queryRegex(body, expression string, maxResults int) ([]any, error) {
	re, err := compileRegex(expression)
	if err != nil {
		return nil, err
	}

	var values []any
	for _, m := range re.FindAllStringSubmatch(body, -1) {
		if maxResults > 0 && len(values) >= maxResults {
			break
		}
		if len(m) > 1 {
			values = append(values, m[1])
		} else {
			values = append(values, m[0])
		}
	}
	return values, nil
}

// queryForm reads a form-urlencoded body. "*" or "." returns one object of
// every key; any other expression is a key whose values are returned.
func queryForm(body, expression string, maxResults int) ([]any, error) {
	form, err := url.ParseQuery(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse form data: %w", err)
	}

	if expression == "*" || expression == "." {
		all := make(map[string]any, len(form))
		for k, vals := range form {
			if len(vals) == 1 {
				all[k] = vals[0]
			} else {
				list := make([]any, len(vals))
				for i, v := range vals {
					list[i] = v
				}
				all[k] = list
			}
		}
		return []any{all}, nil
	}

	var values []any
	for _, v := range form[expression] {
		if maxResults > 0 && len(values) >= maxResults {
			break
		}
		values = append(values, v)
	}
	return values, nil
}
