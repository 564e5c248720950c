package bodyquery

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// queryCSS extracts the trimmed text of the elements matching a CSS
// selector. A selector ending in @name extracts that attribute instead,
// e.g. "a.next@href".
func queryCSS(body, expression string, maxResults int) ([]any, error) {
	selector, attr := splitAttr(expression)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var values []any
	doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
		var text string
		if attr != "" {
			v, ok := s.Attr(attr)
			if !ok {
				return true
			}
			text = strings.TrimSpace(v)
		} else {
			text = strings.TrimSpace(s.Text())
		}
		if text != "" {
			values = append(values, text)
		}
		return maxResults <= 0 || len(values) < maxResults
	})
	return values, nil
}

func splitAttr(expression string) (string, string) {
	i := strings.LastIndex(expression, "@")
	if i <= 0 || strings.ContainsAny(expression[i+1:], " []=>~+") {
		return expression, ""
	}
	return expression[:i], expression[i+1:]
}
