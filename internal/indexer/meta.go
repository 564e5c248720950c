// Package indexer builds in-memory indexes over the entries of a HAR archive.
package indexer

import (
	"time"

	"github.com/usestring/harkit/pkg/wire"
)

// EntryMeta holds the searchable fields of one archive entry. DocID is the
// entry's position in log.entries.
type EntryMeta struct {
	DocID           uint32
	Pageref         string
	StartedAt       *time.Time
	TimeMs          float64
	Method          string
	URL             string
	Host            string
	Path            string
	HTTPVersion     string
	Status          int
	StatusText      string
	MimeType        string // response content type without parameters, lowercase
	ServerIPAddress string

	HeaderNamesLower []string

	// Sizes as recorded in the archive; -1 when unknown.
	ReqBodyBytes  int64
	RespBodyBytes int64
}

// EntrySummary is the compact form of an entry returned by tools.
type EntrySummary struct {
	Index       int     `json:"index"`
	Pageref     string  `json:"pageref,omitempty"`
	StartedAt   string  `json:"started_at,omitempty"`
	TimeMs      float64 `json:"time_ms"`
	Method      string  `json:"method"`
	URL         string  `json:"url"`
	Host        string  `json:"host,omitempty"`
	Status      int     `json:"status,omitempty"`
	MimeType    string  `json:"mime_type,omitempty"`
	RespBytes   int64   `json:"resp_bytes"`
	HTTPVersion string  `json:"http_version,omitempty"`
}

// ToSummary converts EntryMeta to EntrySummary for tool responses.
func (m *EntryMeta) ToSummary() *EntrySummary {
	s := &EntrySummary{
		Index:       int(m.DocID),
		Pageref:     m.Pageref,
		TimeMs:      m.TimeMs,
		Method:      m.Method,
		URL:         m.URL,
		Host:        m.Host,
		Status:      m.Status,
		MimeType:    m.MimeType,
		RespBytes:   m.RespBodyBytes,
		HTTPVersion: m.HTTPVersion,
	}
	if m.StartedAt != nil {
		s.StartedAt = wire.FormatDate(*m.StartedAt)
	}
	return s
}
