package indexer

import (
	"strings"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/usestring/harkit/pkg/har"
)

// Indexer holds inverted indexes over one archive's entries using Roaring
// bitmaps. It is built once and read-only afterwards.
type Indexer struct {
	docToMeta []*EntryMeta

	idxHost       map[string]*roaring.Bitmap
	idxMethod     map[string]*roaring.Bitmap
	idxStatus     map[int]*roaring.Bitmap
	idxMimeType   map[string]*roaring.Bitmap
	idxPageref    map[string]*roaring.Bitmap
	idxHeaderName map[string]*roaring.Bitmap
	idxToken      map[string]*roaring.Bitmap
}

// Build indexes every entry of h in log order.
func Build(h *har.HAR) *Indexer {
	entries := h.Entries()
	idx := &Indexer{
		docToMeta:     make([]*EntryMeta, 0, len(entries)),
		idxHost:       make(map[string]*roaring.Bitmap),
		idxMethod:     make(map[string]*roaring.Bitmap),
		idxStatus:     make(map[int]*roaring.Bitmap),
		idxMimeType:   make(map[string]*roaring.Bitmap),
		idxPageref:    make(map[string]*roaring.Bitmap),
		idxHeaderName: make(map[string]*roaring.Bitmap),
		idxToken:      make(map[string]*roaring.Bitmap),
	}
	for _, entry := range entries {
		idx.add(entry)
	}
	return idx
}

func (idx *Indexer) add(entry *har.Entry) {
	docID := uint32(len(idx.docToMeta))
	if entry == nil {
		idx.docToMeta = append(idx.docToMeta, &EntryMeta{DocID: docID})
		return
	}

	meta := FromEntry(docID, entry)
	idx.docToMeta = append(idx.docToMeta, meta)

	if meta.Host != "" {
		addToBitmap(idx.idxHost, meta.Host, docID)
	}
	if meta.Method != "" {
		addToBitmap(idx.idxMethod, meta.Method, docID)
	}
	if meta.Status != 0 {
		addToBitmap(idx.idxStatus, meta.Status, docID)
	}
	if meta.MimeType != "" {
		addToBitmap(idx.idxMimeType, meta.MimeType, docID)
	}
	if meta.Pageref != "" {
		addToBitmap(idx.idxPageref, meta.Pageref, docID)
	}
	for _, name := range meta.HeaderNamesLower {
		addToBitmap(idx.idxHeaderName, name, docID)
	}
	for _, token := range TokenizeEntry(entry) {
		addToBitmap(idx.idxToken, token, docID)
	}
}

// GetMeta retrieves metadata by docID.
func (idx *Indexer) GetMeta(docID uint32) *EntryMeta {
	if int(docID) >= len(idx.docToMeta) {
		return nil
	}
	return idx.docToMeta[docID]
}

// AllDocIDs returns a bitmap of all indexed document IDs.
func (idx *Indexer) AllDocIDs() *roaring.Bitmap {
	bm := roaring.New()
	bm.AddRange(0, uint64(len(idx.docToMeta)))
	return bm
}

// DocCount returns the number of indexed documents.
func (idx *Indexer) DocCount() int {
	return len(idx.docToMeta)
}

// GetBitmapForHost returns the bitmap for a host pattern.
// Supports wildcard prefix: "*.example.com" matches "example.com"
// and all subdomains like "api.example.com".
// Without the prefix, matches exactly.
func (idx *Indexer) GetBitmapForHost(host string) *roaring.Bitmap {
	host = strings.ToLower(host)
	if !strings.HasPrefix(host, "*.") {
		return idx.idxHost[host]
	}

	baseDomain := host[2:]
	if baseDomain == "" {
		return nil
	}

	suffix := "." + baseDomain
	result := roaring.New()
	for key, bm := range idx.idxHost {
		if key == baseDomain || strings.HasSuffix(key, suffix) {
			result.Or(bm)
		}
	}
	if result.IsEmpty() {
		return nil
	}
	return result
}

// GetBitmapForMethod returns the bitmap for an HTTP method, case-insensitively.
func (idx *Indexer) GetBitmapForMethod(method string) *roaring.Bitmap {
	return idx.idxMethod[strings.ToUpper(method)]
}

// GetBitmapForStatus returns the bitmap for a specific HTTP status code.
func (idx *Indexer) GetBitmapForStatus(status int) *roaring.Bitmap {
	return idx.idxStatus[status]
}

// GetBitmapForStatusClass returns the entries whose status is in the class,
// e.g. 4 for 400-499.
func (idx *Indexer) GetBitmapForStatusClass(class int) *roaring.Bitmap {
	result := roaring.New()
	for status, bm := range idx.idxStatus {
		if status/100 == class {
			result.Or(bm)
		}
	}
	if result.IsEmpty() {
		return nil
	}
	return result
}

// GetBitmapForMimeType returns the bitmap for a response mime type. A
// trailing "/*" matches the whole family, e.g. "image/*".
func (idx *Indexer) GetBitmapForMimeType(mimeType string) *roaring.Bitmap {
	mimeType = strings.ToLower(mimeType)
	family, ok := strings.CutSuffix(mimeType, "/*")
	if !ok {
		return idx.idxMimeType[mimeType]
	}
	result := roaring.New()
	for key, bm := range idx.idxMimeType {
		if strings.HasPrefix(key, family+"/") {
			result.Or(bm)
		}
	}
	if result.IsEmpty() {
		return nil
	}
	return result
}

// GetBitmapForPageref returns the bitmap for entries of one page.
func (idx *Indexer) GetBitmapForPageref(pageref string) *roaring.Bitmap {
	return idx.idxPageref[pageref]
}

// GetBitmapForHeaderName returns the bitmap for a header name present on
// the request or response.
func (idx *Indexer) GetBitmapForHeaderName(name string) *roaring.Bitmap {
	return idx.idxHeaderName[strings.ToLower(name)]
}

// GetBitmapForToken returns the bitmap for a specific URL token.
func (idx *Indexer) GetBitmapForToken(token string) *roaring.Bitmap {
	return idx.idxToken[token]
}

// HostCounts returns the number of entries per host.
func (idx *Indexer) HostCounts() map[string]int {
	out := make(map[string]int, len(idx.idxHost))
	for host, bm := range idx.idxHost {
		out[host] = int(bm.GetCardinality())
	}
	return out
}

func addToBitmap[K comparable](index map[K]*roaring.Bitmap, key K, docID uint32) {
	bm, exists := index[key]
	if !exists {
		bm = roaring.New()
		index[key] = bm
	}
	bm.Add(docID)
}
