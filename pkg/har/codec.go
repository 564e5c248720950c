package har

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
)

// Unmarshal decodes a HAR document.
func Unmarshal(data []byte) (*HAR, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding HAR document: %w", err)
	}
	h, err := LoadHARValue(doc)
	if err != nil {
		return nil, fmt.Errorf("loading HAR document: %w", err)
	}
	return h, nil
}

// Marshal encodes h as a HAR document.
func Marshal(h *HAR) ([]byte, error) {
	return json.Marshal(h.Dump())
}

// MarshalIndent is Marshal with indentation, for files meant to be read.
func MarshalIndent(h *HAR, prefix, indent string) ([]byte, error) {
	return json.MarshalIndent(h.Dump(), prefix, indent)
}

// Dump renders any entity as its wire object.
func Dump(e Entity) map[string]any {
	switch v := e.(type) {
	case *HAR:
		return v.Dump()
	case *Log:
		return v.Dump()
	case *Creator:
		return v.Dump()
	case *Browser:
		return v.Dump()
	case *Page:
		return v.Dump()
	case *PageTimings:
		return v.Dump()
	case *Entry:
		return v.Dump()
	case *Request:
		return v.Dump()
	case *Response:
		return v.Dump()
	case *Cookie:
		return v.Dump()
	case *Header:
		return v.Dump()
	case *Param:
		return v.Dump()
	case *PostData:
		return v.Dump()
	case *PostParam:
		return v.Dump()
	case *Cache:
		return v.Dump()
	case *CacheState:
		return v.Dump()
	case *Timings:
		return v.Dump()
	case *Content:
		return v.Dump()
	default:
		return nil
	}
}

// Equal reports whether a and b are the same entity type with equal
// attributes, comment and extension keys included. Nil and empty lists
// compare equal, as they dump identically.
func Equal(a, b Entity) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	return reflect.DeepEqual(Dump(a), Dump(b))
}

// JSONSchema describes the wire form of a whole HAR document.
func JSONSchema() *jsonschema.Schema {
	return harSchema.RootJSONSchema()
}

// LoadHARValue loads a decoded document, which must be a JSON object.
func LoadHARValue(v any) (*HAR, error) { return harSchema.LoadValue(v) }

func LoadHAR(m map[string]any) (*HAR, error)           { return harSchema.Load(m) }
func LoadLog(m map[string]any) (*Log, error)           { return logSchema.Load(m) }
func LoadCreator(m map[string]any) (*Creator, error)   { return creatorSchema.Load(m) }
func LoadBrowser(m map[string]any) (*Browser, error)   { return browserSchema.Load(m) }
func LoadPage(m map[string]any) (*Page, error)         { return pageSchema.Load(m) }
func LoadEntry(m map[string]any) (*Entry, error)       { return entrySchema.Load(m) }
func LoadRequest(m map[string]any) (*Request, error)   { return requestSchema.Load(m) }
func LoadResponse(m map[string]any) (*Response, error) { return responseSchema.Load(m) }
func LoadCookie(m map[string]any) (*Cookie, error)     { return cookieSchema.Load(m) }
func LoadHeader(m map[string]any) (*Header, error)     { return headerSchema.Load(m) }
func LoadParam(m map[string]any) (*Param, error)       { return paramSchema.Load(m) }
func LoadPostData(m map[string]any) (*PostData, error) { return postDataSchema.Load(m) }
func LoadCache(m map[string]any) (*Cache, error)       { return cacheSchema.Load(m) }
func LoadTimings(m map[string]any) (*Timings, error)   { return timingsSchema.Load(m) }
func LoadContent(m map[string]any) (*Content, error)   { return contentSchema.Load(m) }

func LoadPageTimings(m map[string]any) (*PageTimings, error) { return pageTimingsSchema.Load(m) }
func LoadPostParam(m map[string]any) (*PostParam, error)     { return postParamSchema.Load(m) }
func LoadCacheState(m map[string]any) (*CacheState, error)   { return cacheStateSchema.Load(m) }

func (h *HAR) Dump() map[string]any         { return harSchema.Dump(h) }
func (l *Log) Dump() map[string]any         { return logSchema.Dump(l) }
func (c *Creator) Dump() map[string]any     { return creatorSchema.Dump(c) }
func (b *Browser) Dump() map[string]any     { return browserSchema.Dump(b) }
func (p *Page) Dump() map[string]any        { return pageSchema.Dump(p) }
func (p *PageTimings) Dump() map[string]any { return pageTimingsSchema.Dump(p) }
func (e *Entry) Dump() map[string]any       { return entrySchema.Dump(e) }
func (r *Request) Dump() map[string]any     { return requestSchema.Dump(r) }
func (r *Response) Dump() map[string]any    { return responseSchema.Dump(r) }
func (c *Cookie) Dump() map[string]any      { return cookieSchema.Dump(c) }
func (h *Header) Dump() map[string]any      { return headerSchema.Dump(h) }
func (p *Param) Dump() map[string]any       { return paramSchema.Dump(p) }
func (p *PostData) Dump() map[string]any    { return postDataSchema.Dump(p) }
func (p *PostParam) Dump() map[string]any   { return postParamSchema.Dump(p) }
func (c *Cache) Dump() map[string]any       { return cacheSchema.Dump(c) }
func (c *CacheState) Dump() map[string]any  { return cacheStateSchema.Dump(c) }
func (t *Timings) Dump() map[string]any     { return timingsSchema.Dump(t) }
func (c *Content) Dump() map[string]any     { return contentSchema.Dump(c) }
