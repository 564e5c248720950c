package indexer

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/usestring/harkit/pkg/har"
)

// tokenDelimiters defines characters that separate tokens
const tokenDelimiters = "/?&=.-_:"

// Tokenize splits a string into lowercase searchable tokens, dropping
// tokens shorter than 2 characters.
func Tokenize(s string) []string {
	s = strings.ToLower(s)

	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(tokenDelimiters, r) || unicode.IsSpace(r)
	})

	result := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if len(t) >= 2 {
			result = append(result, t)
		}
	}
	return result
}

// TokenizeEntry extracts tokens from an entry's host, path, query parameter
// names and page reference. Duplicates are removed.
func TokenizeEntry(entry *har.Entry) []string {
	var parts []string

	if req := entry.Request; req != nil {
		if parsed, err := url.Parse(req.URL); err == nil {
			parts = append(parts, parsed.Host, parsed.Path)
			for key := range parsed.Query() {
				parts = append(parts, key)
			}
		} else {
			parts = append(parts, req.URL)
		}
		for _, p := range req.QueryString {
			if p != nil {
				parts = append(parts, p.Name)
			}
		}
	}
	if entry.Pageref != nil {
		parts = append(parts, *entry.Pageref)
	}

	seen := make(map[string]bool)
	var out []string
	for _, tok := range Tokenize(strings.Join(parts, " ")) {
		if !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}
	return out
}
