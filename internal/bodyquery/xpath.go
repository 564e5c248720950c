package bodyquery

import (
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xmlquery"
)

// queryXPath extracts the trimmed inner text of the nodes matching an XPath
// expression. HTML bodies are parsed leniently with htmlquery, everything
// else as XML.
func queryXPath(body string, isHTML bool, expression string, maxResults int) ([]any, error) {
	var texts []string
	if isHTML {
		doc, err := htmlquery.Parse(strings.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to parse HTML: %w", err)
		}
		nodes, err := htmlquery.QueryAll(doc, expression)
		if err != nil {
			return nil, fmt.Errorf("invalid XPath expression: %w", err)
		}
		for _, n := range nodes {
			texts = append(texts, htmlquery.InnerText(n))
		}
	} else {
		doc, err := xmlquery.Parse(strings.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to parse XML: %w", err)
		}
		nodes, err := xmlquery.QueryAll(doc, expression)
		if err != nil {
			return nil, fmt.Errorf("invalid XPath expression: %w", err)
		}
		for _, n := range nodes {
			texts = append(texts, n.InnerText())
		}
	}

	var values []any
	for _, text := range texts {
		if maxResults > 0 && len(values) >= maxResults {
			break
		}
		if text = strings.TrimSpace(text); text != "" {
			values = append(values, text)
		}
	}
	return values, nil
}
