// Package bodyquery extracts values from the request and response bodies
// recorded in HAR entries, with a query language picked by content type.
package bodyquery

import (
	"mime"
	"strings"
	"unicode/utf8"
)

// Category is a broad content-type classification.
type Category string

const (
	JSON   Category = "json"
	XML    Category = "xml"
	HTML   Category = "html"
	YAML   Category = "yaml"
	CSV    Category = "csv"
	Form   Category = "form"
	Text   Category = "text"
	Binary Category = "binary"
)

// Mode constants for extraction languages.
const (
	ModeCSS   = "css"
	ModeXPath = "xpath"
	ModeRegex = "regex"
	ModeForm  = "form"
	ModeJQ    = "jq"
)

// Classify returns the category of a MIME type. Parameters such as charset
// are ignored. An empty MIME type is Binary.
func Classify(mimeType string) Category {
	if strings.TrimSpace(mimeType) == "" {
		return Binary
	}
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(mimeType))
	}

	switch {
	case strings.Contains(mediaType, "json"):
		return JSON
	case mediaType == "text/html" || mediaType == "application/xhtml+xml":
		return HTML
	case strings.Contains(mediaType, "xml"):
		return XML
	case strings.Contains(mediaType, "yaml"):
		return YAML
	case mediaType == "text/csv" || mediaType == "text/tab-separated-values":
		return CSV
	case mediaType == "application/x-www-form-urlencoded":
		return Form
	case strings.HasPrefix(mediaType, "text/"),
		strings.Contains(mediaType, "javascript"),
		strings.Contains(mediaType, "ecmascript"):
		return Text
	default:
		return Binary
	}
}

// IsBinary reports whether a body should not be treated as text. Unknown
// MIME types fall back to UTF-8 validation of the body.
func IsBinary(mimeType, text string) bool {
	if Classify(mimeType) != Binary {
		return false
	}
	ct := strings.ToLower(mimeType)
	if strings.HasPrefix(ct, "image/") ||
		strings.HasPrefix(ct, "audio/") ||
		strings.HasPrefix(ct, "video/") ||
		strings.HasPrefix(ct, "font/") ||
		strings.Contains(ct, "octet-stream") ||
		strings.Contains(ct, "zip") ||
		strings.Contains(ct, "pdf") {
		return true
	}
	return !utf8.ValidString(text)
}

// DetectMode returns the default extraction mode for a MIME type.
func DetectMode(mimeType string) string {
	switch Classify(mimeType) {
	case JSON, YAML:
		return ModeJQ
	case HTML:
		return ModeCSS
	case XML:
		return ModeXPath
	case Form:
		return ModeForm
	default:
		return ModeRegex
	}
}
