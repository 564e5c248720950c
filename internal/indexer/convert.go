package indexer

import (
	"mime"
	"net/url"
	"strings"

	"github.com/usestring/harkit/pkg/har"
)

// FromEntry creates EntryMeta from an archive entry.
func FromEntry(docID uint32, entry *har.Entry) *EntryMeta {
	meta := &EntryMeta{
		DocID:         docID,
		StartedAt:     entry.StartedDateTime,
		TimeMs:        entry.Time,
		ReqBodyBytes:  har.Unknown,
		RespBodyBytes: har.Unknown,
	}
	if entry.Pageref != nil {
		meta.Pageref = *entry.Pageref
	}
	if entry.ServerIPAddress != nil {
		meta.ServerIPAddress = *entry.ServerIPAddress
	}

	if req := entry.Request; req != nil {
		meta.Method = strings.ToUpper(req.Method)
		meta.URL = req.URL
		meta.Host = extractHost(req.URL)
		meta.Path = extractPath(req.URL)
		meta.HTTPVersion = req.HTTPVersion
		meta.ReqBodyBytes = req.BodySize
		meta.HeaderNamesLower = extractHeaderNames(req.Headers)
	}

	if resp := entry.Response; resp != nil {
		meta.Status = int(resp.Status)
		meta.StatusText = resp.StatusText
		meta.RespBodyBytes = resp.BodySize
		meta.HeaderNamesLower = append(meta.HeaderNamesLower, extractHeaderNames(resp.Headers)...)
		if resp.Content != nil {
			if resp.Content.MimeType != nil {
				meta.MimeType = normalizeMimeType(*resp.Content.MimeType)
			}
			if meta.RespBodyBytes < 0 && resp.Content.Size >= 0 {
				meta.RespBodyBytes = resp.Content.Size
			}
		}
	}

	return meta
}

// extractHost returns the lowercase host of rawURL without the port.
func extractHost(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}

func extractPath(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	if parsed.Path == "" {
		return "/"
	}
	return parsed.Path
}

func extractHeaderNames(headers []*har.Header) []string {
	seen := make(map[string]bool, len(headers))
	names := make([]string, 0, len(headers))
	for _, h := range headers {
		if h == nil {
			continue
		}
		name := strings.ToLower(h.Name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// normalizeMimeType strips parameters: "text/html; charset=utf-8" -> "text/html".
func normalizeMimeType(s string) string {
	if mt, _, err := mime.ParseMediaType(s); err == nil {
		return mt
	}
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	return strings.ToLower(strings.TrimSpace(s))
}
