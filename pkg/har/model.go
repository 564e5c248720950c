// Package har is a typed model of the HTTP Archive (HAR) format together with
// a lossless transform to and from its wire form.
//
// Every entity embeds Model, which carries the free-form comment and the
// extension keys (undeclared wire keys starting with "_") captured on load.
// Constructors apply the format defaults: sizes and durations are -1 when not
// measured, lists are empty rather than nil, and a Request always owns a
// PostData.
//
// Load and dump:
//
//	req, err := har.LoadRequest(wireMap)
//	out := req.Dump()
//
//	archive, err := har.Unmarshal(data)
//	data, err = har.Marshal(archive)
package har

import (
	"time"

	"github.com/usestring/harkit/pkg/jsonvalue"
)

// Defaults shared by several entities.
const (
	DefaultVersion     = "1.1"
	DefaultHTTPVersion = "HTTP/1.0"
	Unknown            = -1
)

// Model holds the attributes every entity carries.
type Model struct {
	Comment string
	// ExtendedArguments maps preserved wire keys (always "_"-prefixed) to their values.
	ExtendedArguments map[string]jsonvalue.Value
}

func newModel() Model {
	return Model{ExtendedArguments: map[string]jsonvalue.Value{}}
}

func (m *Model) model() *Model { return m }

// Entity is implemented by every HAR entity type.
type Entity interface {
	model() *Model
}

// Ptr returns a pointer to v, for optional fields.
func Ptr[V any](v V) *V { return &v }

// HAR is the root of an archive.
type HAR struct {
	Model
	Log *Log
}

// Log is the archive body.
type Log struct {
	Model
	Version string
	Creator *Creator
	Browser *Browser
	Pages   []*Page
	Entries []*Entry
}

// Creator names the application that produced the archive.
type Creator struct {
	Model
	Name    string
	Version string
}

// Browser names the browser that produced the archive.
type Browser struct {
	Model
	Name    string
	Version string
}

// Page is one exported page.
type Page struct {
	Model
	ID              string
	Title           string
	StartedDateTime *time.Time
	PageTimings     *PageTimings
}

// PageTimings holds page load milestones in milliseconds since page start.
type PageTimings struct {
	Model
	OnContentLoad float64
	OnLoad        float64
}

// Entry is one HTTP transaction.
type Entry struct {
	Model
	Pageref         *string
	StartedDateTime *time.Time
	Time            float64
	Request         *Request
	Response        *Response
	Cache           *Cache
	Timings         *Timings
	ServerIPAddress *string
	Connection      *string
}

// Request is the request half of an entry.
type Request struct {
	Model
	Method      string
	URL         string
	HTTPVersion string
	Cookies     []*Cookie
	Headers     []*Header
	QueryString []*Param
	PostData    *PostData
	HeaderSize  int64
	BodySize    int64
}

// Response is the response half of an entry.
type Response struct {
	Model
	Status      int64
	StatusText  string
	HTTPVersion string
	Cookies     []*Cookie
	Headers     []*Header
	Content     *Content
	RedirectURL string
	HeaderSize  int64
	BodySize    int64
}

// Cookie is a request or response cookie.
type Cookie struct {
	Model
	Name     string
	Value    string
	Path     *string
	Domain   *string
	Expires  *time.Time
	HTTPOnly bool
	Secure   bool
}

// Header is a request or response header.
type Header struct {
	Model
	Name  string
	Value string
}

// Param is a query string parameter.
type Param struct {
	Model
	Name  string
	Value string
}

// PostData describes a request body.
type PostData struct {
	Model
	MimeType *string
	Params   []*PostParam
	Text     string
}

// PostParam is one posted form parameter.
type PostParam struct {
	Model
	Name        string
	Value       string
	FileName    *string
	ContentType *string
}

// Cache describes cache usage for an entry.
type Cache struct {
	Model
	BeforeRequest *CacheState
	AfterRequest  *CacheState
}

// CacheState is a cache entry state before or after the request.
type CacheState struct {
	Model
	Expires    *time.Time
	LastAccess *time.Time
	ETag       *string
	HitCount   int64
}

// Timings breaks an entry's time down by phase, in milliseconds.
type Timings struct {
	Model
	Blocked float64
	DNS     float64
	Connect float64
	Send    float64
	Wait    float64
	Receive float64
	SSL     float64
}

// Content describes a response body.
type Content struct {
	Model
	Size     int64
	MimeType *string
	Text     string
	Encoding *string
}

// NewHAR wraps log in an archive root. A nil log is replaced by NewLog().
func NewHAR(log *Log) *HAR {
	if log == nil {
		log = NewLog()
	}
	return &HAR{Model: newModel(), Log: log}
}

// Version forwards to the archive's log.
func (h *HAR) Version() string { return h.log().Version }

// Creator forwards to the archive's log.
func (h *HAR) Creator() *Creator { return h.log().Creator }

// Browser forwards to the archive's log.
func (h *HAR) Browser() *Browser { return h.log().Browser }

// Pages forwards to the archive's log.
func (h *HAR) Pages() []*Page { return h.log().Pages }

// Entries forwards to the archive's log.
func (h *HAR) Entries() []*Entry { return h.log().Entries }

func (h *HAR) log() *Log {
	if h.Log == nil {
		return NewLog()
	}
	return h.Log
}

// NewLog returns an empty version 1.1 log.
func NewLog() *Log {
	return &Log{
		Model:   newModel(),
		Version: DefaultVersion,
		Pages:   []*Page{},
		Entries: []*Entry{},
	}
}

func NewCreator(name, version string) *Creator {
	return &Creator{Model: newModel(), Name: name, Version: version}
}

func NewBrowser(name, version string) *Browser {
	return &Browser{Model: newModel(), Name: name, Version: version}
}

func NewPage(id, title string) *Page {
	return &Page{Model: newModel(), ID: id, Title: title}
}

func NewPageTimings() *PageTimings {
	return &PageTimings{Model: newModel(), OnContentLoad: Unknown, OnLoad: Unknown}
}

// NewEntry returns an entry with no request, response, cache or timings.
func NewEntry() *Entry {
	return &Entry{Model: newModel(), Time: Unknown}
}

// NewRequest returns a request with an empty PostData and unknown sizes.
func NewRequest(method, url string) *Request {
	return &Request{
		Model:       newModel(),
		Method:      method,
		URL:         url,
		HTTPVersion: DefaultHTTPVersion,
		Cookies:     []*Cookie{},
		Headers:     []*Header{},
		QueryString: []*Param{},
		PostData:    NewPostData(),
		HeaderSize:  Unknown,
		BodySize:    Unknown,
	}
}

func NewResponse(status int64, statusText string) *Response {
	return &Response{
		Model:       newModel(),
		Status:      status,
		StatusText:  statusText,
		HTTPVersion: DefaultHTTPVersion,
		Cookies:     []*Cookie{},
		Headers:     []*Header{},
		HeaderSize:  Unknown,
		BodySize:    Unknown,
	}
}

func NewCookie(name, value string) *Cookie {
	return &Cookie{Model: newModel(), Name: name, Value: value}
}

func NewHeader(name, value string) *Header {
	return &Header{Model: newModel(), Name: name, Value: value}
}

func NewParam(name, value string) *Param {
	return &Param{Model: newModel(), Name: name, Value: value}
}

func NewPostData() *PostData {
	return &PostData{Model: newModel(), Params: []*PostParam{}}
}

func NewPostParam(name, value string) *PostParam {
	return &PostParam{Model: newModel(), Name: name, Value: value}
}

func NewCache() *Cache {
	return &Cache{Model: newModel()}
}

func NewCacheState() *CacheState {
	return &CacheState{Model: newModel(), HitCount: Unknown}
}

func NewTimings() *Timings {
	return &Timings{
		Model:   newModel(),
		Blocked: Unknown,
		DNS:     Unknown,
		Connect: Unknown,
		Send:    Unknown,
		Wait:    Unknown,
		Receive: Unknown,
		SSL:     Unknown,
	}
}

func NewContent() *Content {
	return &Content{Model: newModel(), Size: Unknown}
}
