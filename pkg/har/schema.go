package har

import (
	"time"

	"github.com/usestring/harkit/pkg/jsonvalue"
	"github.com/usestring/harkit/pkg/wire"
)

// table builds the schema of one entity and appends the comment field every
// entity shares.
func table[T any, PT interface {
	*T
	Entity
}](entity string, overrides map[string]string, fields ...wire.Field[T]) *wire.Schema[T] {
	fields = append(fields, wire.String("comment", func(t *T) *string { return &PT(t).model().Comment }, ""))
	return wire.MustSchema(wire.Definition[T]{
		Entity: entity,
		Extended: func(t *T) *map[string]jsonvalue.Value {
			return &PT(t).model().ExtendedArguments
		},
		Overrides: overrides,
		Fields:    fields,
	})
}

var harSchema = table[HAR]("HAR", nil,
	wire.OneDefault("log", func(h *HAR) **Log { return &h.Log }, logSchema, NewLog),
)

var logSchema = table[Log]("Log", nil,
	wire.String("version", func(l *Log) *string { return &l.Version }, DefaultVersion),
	wire.One("creator", func(l *Log) **Creator { return &l.Creator }, creatorSchema),
	wire.One("browser", func(l *Log) **Browser { return &l.Browser }, browserSchema),
	wire.Many("pages", func(l *Log) *[]*Page { return &l.Pages }, pageSchema),
	wire.Many("entries", func(l *Log) *[]*Entry { return &l.Entries }, entrySchema),
)

var creatorSchema = table[Creator]("Creator", nil,
	wire.String("name", func(c *Creator) *string { return &c.Name }, "", wire.Required()),
	wire.String("version", func(c *Creator) *string { return &c.Version }, "", wire.Required()),
)

var browserSchema = table[Browser]("Browser", nil,
	wire.String("name", func(b *Browser) *string { return &b.Name }, "", wire.Required()),
	wire.String("version", func(b *Browser) *string { return &b.Version }, "", wire.Required()),
)

var pageSchema = table[Page]("Page", nil,
	wire.Date("started_date_time", func(p *Page) **time.Time { return &p.StartedDateTime }),
	wire.String("id", func(p *Page) *string { return &p.ID }, "", wire.Required()),
	wire.String("title", func(p *Page) *string { return &p.Title }, "", wire.Required()),
	wire.One("page_timings", func(p *Page) **PageTimings { return &p.PageTimings }, pageTimingsSchema),
)

var pageTimingsSchema = table[PageTimings]("PageTimings", nil,
	wire.Float("on_content_load", func(p *PageTimings) *float64 { return &p.OnContentLoad }, Unknown),
	wire.Float("on_load", func(p *PageTimings) *float64 { return &p.OnLoad }, Unknown),
)

var entrySchema = table[Entry]("Entry",
	map[string]string{"server_ip_address": "serverIPAddress"},
	wire.OptionalString("pageref", func(e *Entry) **string { return &e.Pageref }),
	wire.Date("started_date_time", func(e *Entry) **time.Time { return &e.StartedDateTime }),
	wire.Float("time", func(e *Entry) *float64 { return &e.Time }, Unknown),
	wire.One("request", func(e *Entry) **Request { return &e.Request }, requestSchema),
	wire.One("response", func(e *Entry) **Response { return &e.Response }, responseSchema),
	wire.One("cache", func(e *Entry) **Cache { return &e.Cache }, cacheSchema),
	wire.One("timings", func(e *Entry) **Timings { return &e.Timings }, timingsSchema),
	wire.OptionalString("server_ip_address", func(e *Entry) **string { return &e.ServerIPAddress }),
	wire.OptionalString("connection", func(e *Entry) **string { return &e.Connection }),
)

var requestSchema = table[Request]("Request", nil,
	wire.String("method", func(r *Request) *string { return &r.Method }, "", wire.Required()),
	wire.String("url", func(r *Request) *string { return &r.URL }, "", wire.Required()),
	wire.String("http_version", func(r *Request) *string { return &r.HTTPVersion }, DefaultHTTPVersion),
	wire.Many("cookies", func(r *Request) *[]*Cookie { return &r.Cookies }, cookieSchema),
	wire.Many("headers", func(r *Request) *[]*Header { return &r.Headers }, headerSchema),
	wire.Many("query_string", func(r *Request) *[]*Param { return &r.QueryString }, paramSchema),
	wire.OneDefault("post_data", func(r *Request) **PostData { return &r.PostData }, postDataSchema, NewPostData),
	wire.Int("header_size", func(r *Request) *int64 { return &r.HeaderSize }, Unknown),
	wire.Int("body_size", func(r *Request) *int64 { return &r.BodySize }, Unknown),
)

var responseSchema = table[Response]("Response",
	map[string]string{"redirect_url": "redirectURL"},
	wire.Int("status", func(r *Response) *int64 { return &r.Status }, 0, wire.Required()),
	wire.String("status_text", func(r *Response) *string { return &r.StatusText }, "", wire.Required()),
	wire.String("http_version", func(r *Response) *string { return &r.HTTPVersion }, DefaultHTTPVersion),
	wire.Many("cookies", func(r *Response) *[]*Cookie { return &r.Cookies }, cookieSchema),
	wire.Many("headers", func(r *Response) *[]*Header { return &r.Headers }, headerSchema),
	wire.One("content", func(r *Response) **Content { return &r.Content }, contentSchema),
	wire.String("redirect_url", func(r *Response) *string { return &r.RedirectURL }, ""),
	wire.Int("header_size", func(r *Response) *int64 { return &r.HeaderSize }, Unknown),
	wire.Int("body_size", func(r *Response) *int64 { return &r.BodySize }, Unknown),
)

var cookieSchema = table[Cookie]("Cookie", nil,
	wire.String("name", func(c *Cookie) *string { return &c.Name }, "", wire.Required()),
	wire.String("value", func(c *Cookie) *string { return &c.Value }, "", wire.Required()),
	wire.OptionalString("path", func(c *Cookie) **string { return &c.Path }),
	wire.OptionalString("domain", func(c *Cookie) **string { return &c.Domain }),
	wire.Date("expires", func(c *Cookie) **time.Time { return &c.Expires }),
	wire.Bool("http_only", func(c *Cookie) *bool { return &c.HTTPOnly }, false),
	wire.Bool("secure", func(c *Cookie) *bool { return &c.Secure }, false),
)

var headerSchema = table[Header]("Header", nil,
	wire.String("name", func(h *Header) *string { return &h.Name }, "", wire.Required()),
	wire.String("value", func(h *Header) *string { return &h.Value }, "", wire.Required()),
)

var paramSchema = table[Param]("Param", nil,
	wire.String("name", func(p *Param) *string { return &p.Name }, "", wire.Required()),
	wire.String("value", func(p *Param) *string { return &p.Value }, "", wire.Required()),
)

var postDataSchema = table[PostData]("PostData", nil,
	wire.OptionalString("mime_type", func(p *PostData) **string { return &p.MimeType }),
	wire.Many("params", func(p *PostData) *[]*PostParam { return &p.Params }, postParamSchema),
	wire.String("text", func(p *PostData) *string { return &p.Text }, ""),
)

var postParamSchema = table[PostParam]("PostParam", nil,
	wire.String("name", func(p *PostParam) *string { return &p.Name }, "", wire.Required()),
	wire.String("value", func(p *PostParam) *string { return &p.Value }, "", wire.Required()),
	wire.OptionalString("file_name", func(p *PostParam) **string { return &p.FileName }),
	wire.OptionalString("content_type", func(p *PostParam) **string { return &p.ContentType }),
)

var cacheSchema = table[Cache]("Cache", nil,
	wire.One("before_request", func(c *Cache) **CacheState { return &c.BeforeRequest }, cacheStateSchema),
	wire.One("after_request", func(c *Cache) **CacheState { return &c.AfterRequest }, cacheStateSchema),
)

var cacheStateSchema = table[CacheState]("CacheState", nil,
	wire.Date("expires", func(c *CacheState) **time.Time { return &c.Expires }),
	wire.Date("last_access", func(c *CacheState) **time.Time { return &c.LastAccess }),
	wire.OptionalString("e_tag", func(c *CacheState) **string { return &c.ETag }),
	wire.Int("hit_count", func(c *CacheState) *int64 { return &c.HitCount }, Unknown),
)

var timingsSchema = table[Timings]("Timings", nil,
	wire.Float("blocked", func(t *Timings) *float64 { return &t.Blocked }, Unknown),
	wire.Float("dns", func(t *Timings) *float64 { return &t.DNS }, Unknown),
	wire.Float("connect", func(t *Timings) *float64 { return &t.Connect }, Unknown),
	wire.Float("send", func(t *Timings) *float64 { return &t.Send }, Unknown),
	wire.Float("wait", func(t *Timings) *float64 { return &t.Wait }, Unknown),
	wire.Float("receive", func(t *Timings) *float64 { return &t.Receive }, Unknown),
	wire.Float("ssl", func(t *Timings) *float64 { return &t.SSL }, Unknown),
)

var contentSchema = table[Content]("Content", nil,
	wire.Int("size", func(c *Content) *int64 { return &c.Size }, Unknown),
	wire.OptionalString("mime_type", func(c *Content) **string { return &c.MimeType }),
	wire.String("text", func(c *Content) *string { return &c.Text }, ""),
	wire.OptionalString("encoding", func(c *Content) **string { return &c.Encoding }),
)
