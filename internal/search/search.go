// Package search provides filtered search over the entries of a HAR archive.
package search

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/usestring/harkit/internal/indexer"
	"github.com/usestring/harkit/pkg/har"
)

// Filters narrows a search. Zero values are ignored.
type Filters struct {
	Host         string
	Method       string
	Status       int
	StatusClass  int // 2 for 2xx, 4 for 4xx, ...
	MimeType     string
	Pageref      string
	HeaderName   string
	URLContains  string
	BodyContains string
	Since        *time.Time
	Until        *time.Time
	MinTimeMs    float64
}

// Request is one search over an archive.
type Request struct {
	Query   string
	Filters *Filters
	Limit   int
	Offset  int
}

// Response holds one page of matches in log order.
type Response struct {
	Results []*indexer.EntryMeta
	Total   int
}

// MaxLimit caps the page size of a single search.
const MaxLimit = 100

// SearchEngine provides search capabilities over one archive.
type SearchEngine struct {
	indexer *indexer.Indexer
	archive *har.HAR
}

// New creates a new SearchEngine. The index must have been built from h.
func New(idx *indexer.Indexer, h *har.HAR) *SearchEngine {
	return &SearchEngine{indexer: idx, archive: h}
}

// Search executes a search.
func (s *SearchEngine) Search(req *Request) *Response {
	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	candidates := s.planFilters(req.Filters, req.Query)
	candidates = s.applyPostFilters(candidates, req.Filters)

	total := int(candidates.GetCardinality())
	docIDs := candidates.ToArray()

	start := req.Offset
	if start < 0 {
		start = 0
	}
	if start > len(docIDs) {
		start = len(docIDs)
	}
	end := start + limit
	if end > len(docIDs) {
		end = len(docIDs)
	}

	results := make([]*indexer.EntryMeta, 0, end-start)
	for _, docID := range docIDs[start:end] {
		results = append(results, s.indexer.GetMeta(docID))
	}
	return &Response{Results: results, Total: total}
}

// planFilters converts indexed filters to bitmap operations.
func (s *SearchEngine) planFilters(filters *Filters, query string) *roaring.Bitmap {
	result := s.indexer.AllDocIDs()

	and := func(bm *roaring.Bitmap) bool {
		if bm == nil {
			result = roaring.New()
			return false
		}
		result = roaring.And(result, bm)
		return true
	}

	if filters != nil {
		if filters.Host != "" && !and(s.indexer.GetBitmapForHost(filters.Host)) {
			return result
		}
		if filters.Method != "" && !and(s.indexer.GetBitmapForMethod(filters.Method)) {
			return result
		}
		if filters.Status != 0 && !and(s.indexer.GetBitmapForStatus(filters.Status)) {
			return result
		}
		if filters.StatusClass != 0 && !and(s.indexer.GetBitmapForStatusClass(filters.StatusClass)) {
			return result
		}
		if filters.MimeType != "" && !and(s.indexer.GetBitmapForMimeType(filters.MimeType)) {
			return result
		}
		if filters.Pageref != "" && !and(s.indexer.GetBitmapForPageref(filters.Pageref)) {
			return result
		}
		if filters.HeaderName != "" && !and(s.indexer.GetBitmapForHeaderName(filters.HeaderName)) {
			return result
		}
	}

	// Free text: every token must match.
	for _, token := range indexer.Tokenize(query) {
		if !and(s.indexer.GetBitmapForToken(token)) {
			return result
		}
	}

	return result
}

// applyPostFilters applies filters that need the entry itself.
func (s *SearchEngine) applyPostFilters(candidates *roaring.Bitmap, filters *Filters) *roaring.Bitmap {
	if filters == nil {
		return candidates
	}
	needsFiltering := filters.Since != nil || filters.Until != nil || filters.MinTimeMs > 0 ||
		filters.URLContains != "" || filters.BodyContains != ""
	if !needsFiltering {
		return candidates
	}

	urlNeedle := strings.ToLower(filters.URLContains)
	bodyNeedle := strings.ToLower(filters.BodyContains)
	entries := s.archive.Entries()

	result := roaring.New()
	iter := candidates.Iterator()
	for iter.HasNext() {
		docID := iter.Next()
		meta := s.indexer.GetMeta(docID)
		if meta == nil {
			continue
		}

		if filters.Since != nil && (meta.StartedAt == nil || meta.StartedAt.Before(*filters.Since)) {
			continue
		}
		if filters.Until != nil && (meta.StartedAt == nil || meta.StartedAt.After(*filters.Until)) {
			continue
		}
		if filters.MinTimeMs > 0 && meta.TimeMs < filters.MinTimeMs {
			continue
		}
		if urlNeedle != "" && !strings.Contains(strings.ToLower(meta.URL), urlNeedle) {
			continue
		}
		if bodyNeedle != "" {
			if int(docID) >= len(entries) || !bodyContains(entries[docID], bodyNeedle) {
				continue
			}
		}

		result.Add(docID)
	}
	return result
}

// bodyContains checks the request post data and response content text.
func bodyContains(entry *har.Entry, needle string) bool {
	if entry == nil {
		return false
	}
	if req := entry.Request; req != nil && req.PostData != nil {
		if strings.Contains(strings.ToLower(req.PostData.Text), needle) {
			return true
		}
	}
	if resp := entry.Response; resp != nil && resp.Content != nil {
		if strings.Contains(strings.ToLower(ContentText(resp.Content)), needle) {
			return true
		}
	}
	return false
}

// ContentText returns the response body text, decoding base64 content.
// Undecodable content is returned as stored.
func ContentText(c *har.Content) string {
	if c.Encoding != nil && strings.EqualFold(*c.Encoding, "base64") {
		if decoded, err := base64.StdEncoding.DecodeString(c.Text); err == nil {
			return string(decoded)
		}
	}
	return c.Text
}
