package har

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/harkit/pkg/jsonvalue"
	"github.com/usestring/harkit/pkg/wire"
)

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

func emptyPostData() map[string]any {
	return map[string]any{"comment": "", "mimeType": nil, "text": "", "params": []any{}}
}

func TestRequest_MinimalDump(t *testing.T) {
	req := NewRequest("GET", "http://example.com/")

	assert.Equal(t, map[string]any{
		"method":      "GET",
		"url":         "http://example.com/",
		"httpVersion": "HTTP/1.0",
		"headerSize":  float64(-1),
		"bodySize":    float64(-1),
		"cookies":     []any{},
		"headers":     []any{},
		"queryString": []any{},
		"postData":    emptyPostData(),
		"comment":     "",
	}, req.Dump())
}

func TestRequest_MinimalLoadAppliesDefaults(t *testing.T) {
	req, err := LoadRequest(decode(t, `{"method": "GET", "url": "http://example.com/"}`))
	require.NoError(t, err)

	assert.Equal(t, "HTTP/1.0", req.HTTPVersion)
	assert.Equal(t, int64(-1), req.HeaderSize)
	assert.Equal(t, int64(-1), req.BodySize)
	assert.Equal(t, []*Cookie{}, req.Cookies)
	assert.Equal(t, []*Header{}, req.Headers)
	assert.Equal(t, []*Param{}, req.QueryString)
	assert.Equal(t, NewPostData(), req.PostData)
	assert.Equal(t, "", req.Comment)
	assert.Equal(t, NewRequest("GET", "http://example.com/"), req)
}

func TestRequest_WithoutPostDataSynthesizesOne(t *testing.T) {
	req := NewRequest("POST", "http://example.com/form")
	require.NotNil(t, req.PostData)
	assert.Equal(t, "", req.PostData.Text)

	loaded, err := LoadRequest(decode(t, `{"method": "POST", "url": "http://example.com/form", "postData": null}`))
	require.NoError(t, err)
	require.NotNil(t, loaded.PostData)
	assert.Empty(t, loaded.PostData.Params)

	// A request built without the constructor still dumps a post data object.
	bare := &Request{Method: "GET", URL: "http://example.com/"}
	assert.Equal(t, emptyPostData(), bare.Dump()["postData"])
}

func TestRequest_WithCookie(t *testing.T) {
	req := NewRequest("GET", "http://example.com/")
	req.Cookies = append(req.Cookies, NewCookie("PHPSESSID", "12341234"))

	assert.Equal(t, map[string]any{
		"name":     "PHPSESSID",
		"value":    "12341234",
		"path":     nil,
		"domain":   nil,
		"expires":  nil,
		"httpOnly": false,
		"secure":   false,
		"comment":  "",
	}, req.Dump()["cookies"].([]any)[0])
}

func TestRequest_WithHeaders(t *testing.T) {
	req := NewRequest("GET", "http://example.com/")
	req.Headers = append(req.Headers, NewHeader("Accept-Language", "en-US; *"))

	assert.Equal(t, map[string]any{
		"name":    "Accept-Language",
		"value":   "en-US; *",
		"comment": "",
	}, req.Dump()["headers"].([]any)[0])
}

func TestRequest_WithPostData(t *testing.T) {
	req := NewRequest("POST", "http://example.com/form")
	req.PostData = NewPostData()
	req.PostData.MimeType = Ptr("multipart/form-data")
	req.PostData.Params = append(req.PostData.Params, NewPostParam("user", "anonymous1"))

	assert.Equal(t, map[string]any{
		"mimeType": "multipart/form-data",
		"params": []any{
			map[string]any{
				"name":        "user",
				"value":       "anonymous1",
				"fileName":    nil,
				"contentType": nil,
				"comment":     "",
			},
		},
		"text":    "",
		"comment": "",
	}, req.Dump()["postData"])
}

func TestRequest_PreservesExtendedAttributes(t *testing.T) {
	input := decode(t, `{
		"method": "GET",
		"url": "http://example.com/",
		"httpVersion": "HTTP/1.0",
		"headerSize": -1,
		"bodySize": -1,
		"cookies": [],
		"headers": [],
		"queryString": [],
		"postData": {},
		"comment": "",
		"_extended": "Hello",
		"_anything": {"test": "Hello World!"}
	}`)

	req, err := LoadRequest(input)
	require.NoError(t, err)
	assert.Len(t, req.ExtendedArguments, 2)

	out := req.Dump()
	assert.Equal(t, map[string]any{"test": "Hello World!"}, out["_anything"])
	assert.Equal(t, "Hello", out["_extended"])
}

func TestRequest_PreservesExtendedAttributesPerCookie(t *testing.T) {
	input := decode(t, `{
		"method": "GET",
		"url": "http://example.com/",
		"cookies": [
			{"name": "a", "value": "1", "_test": "123"},
			{"name": "b", "value": "2", "_test": "234"}
		],
		"postData": {}
	}`)

	req, err := LoadRequest(input)
	require.NoError(t, err)
	assert.Empty(t, req.ExtendedArguments)
	require.Len(t, req.Cookies, 2)
	assert.Equal(t, jsonvalue.StringValue("123"), req.Cookies[0].ExtendedArguments["_test"])
	assert.Equal(t, jsonvalue.StringValue("234"), req.Cookies[1].ExtendedArguments["_test"])

	out := req.Dump()
	cookies := out["cookies"].([]any)
	assert.Equal(t, "123", cookies[0].(map[string]any)["_test"])
	assert.Equal(t, "234", cookies[1].(map[string]any)["_test"])
	assert.NotContains(t, out, "_test")
}

func TestRequest_MissingMethod(t *testing.T) {
	_, err := LoadRequest(decode(t, `{"url": "http://example.com/"}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, wire.ErrMissingRequiredField))

	var fe *wire.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Request", fe.Entity)
	assert.Equal(t, "method", fe.Field)
}

func TestRequest_BadCookieFailsWholeLoad(t *testing.T) {
	_, err := LoadRequest(decode(t, `{
		"method": "GET",
		"url": "http://example.com/",
		"cookies": [{"name": "a", "value": "1"}, {"name": "b"}]
	}`))
	require.Error(t, err)

	var fe *wire.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Cookie", fe.Entity)
	assert.Equal(t, "value", fe.Field)
	assert.Equal(t, "cookies[1].value", fe.Path)
}

func TestRequest_SizeTypeMismatch(t *testing.T) {
	_, err := LoadRequest(decode(t, `{"method": "GET", "url": "/", "bodySize": "big"}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, wire.ErrTypeMismatch))

	var fe *wire.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Request", fe.Entity)
	assert.Equal(t, "body_size", fe.Field)
}

func TestContent_SizeOutOfRange(t *testing.T) {
	for _, size := range []float64{9223372036854775808, -1e19} {
		_, err := LoadContent(map[string]any{"size": size, "mimeType": "text/plain"})
		require.Error(t, err, "size=%v", size)
		assert.True(t, errors.Is(err, wire.ErrTypeMismatch))
	}

	content, err := LoadContent(map[string]any{"size": float64(1 << 40)})
	require.NoError(t, err)
	assert.Equal(t, int64(1<<40), content.Size)
}

func TestRequest_QueryString(t *testing.T) {
	req, err := LoadRequest(decode(t, `{
		"method": "GET",
		"url": "http://example.com/",
		"queryString": [{"name": "a", "value": "1"}],
		"postData": {}
	}`))
	require.NoError(t, err)
	require.Len(t, req.QueryString, 1)
	assert.Equal(t, NewParam("a", "1"), req.QueryString[0])
	assert.True(t, Equal(NewParam("a", "1"), req.QueryString[0]))
}

func TestCookie_Complete(t *testing.T) {
	expires := time.Date(2024, 3, 9, 16, 45, 12, 0, time.UTC)

	cookie := NewCookie("TEST", "123")
	cookie.Path = Ptr("/test")
	cookie.Domain = Ptr("example.com")
	cookie.Expires = &expires
	cookie.HTTPOnly = true
	cookie.Secure = true

	out := cookie.Dump()
	assert.Equal(t, map[string]any{
		"name":     "TEST",
		"value":    "123",
		"path":     "/test",
		"domain":   "example.com",
		"expires":  "2024-03-09T16:45:12Z",
		"httpOnly": true,
		"secure":   true,
		"comment":  "",
	}, out)

	loaded, err := LoadCookie(out)
	require.NoError(t, err)
	require.NotNil(t, loaded.Expires)
	assert.True(t, expires.Equal(*loaded.Expires))
	assert.True(t, Equal(cookie, loaded))
}

func TestHeader_Complete(t *testing.T) {
	input := map[string]any{"name": "X", "value": "Y", "comment": ""}
	obj := NewHeader("X", "Y")

	loaded, err := LoadHeader(input)
	require.NoError(t, err)
	assert.Equal(t, obj, loaded)
	assert.Equal(t, input, obj.Dump())
}

func TestHeader_ExtensionFlat(t *testing.T) {
	h, err := LoadHeader(map[string]any{"name": "X", "value": "Y", "_probe": "Z"})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"name":    "X",
		"value":   "Y",
		"comment": "",
		"_probe":  "Z",
	}, h.Dump())
}

func TestHeader_UnknownKeyDropped(t *testing.T) {
	h, err := LoadHeader(map[string]any{"name": "X", "value": "Y", "garbage": "Z"})
	require.NoError(t, err)

	out := h.Dump()
	assert.NotContains(t, out, "garbage")
	assert.Empty(t, h.ExtendedArguments)
}

func TestParam_Complete(t *testing.T) {
	input := map[string]any{"name": "q", "value": "test", "comment": ""}

	loaded, err := LoadParam(input)
	require.NoError(t, err)
	assert.Equal(t, NewParam("q", "test"), loaded)
	assert.Equal(t, input, NewParam("q", "test").Dump())
}

func TestCreatorAndBrowser(t *testing.T) {
	creatorIn := map[string]any{"name": "Firebug", "version": "1.5", "comment": ""}
	creator, err := LoadCreator(creatorIn)
	require.NoError(t, err)
	assert.Equal(t, NewCreator("Firebug", "1.5"), creator)
	assert.Equal(t, creatorIn, creator.Dump())

	browserIn := map[string]any{"name": "Firefox", "version": "3.5", "comment": ""}
	browser, err := LoadBrowser(browserIn)
	require.NoError(t, err)
	assert.Equal(t, NewBrowser("Firefox", "3.5"), browser)
	assert.Equal(t, browserIn, browser.Dump())
}

func TestHAR_BasicDump(t *testing.T) {
	log := NewLog()
	log.Version = "1.2"
	archive := NewHAR(log)

	assert.Equal(t, map[string]any{
		"comment": "",
		"log": map[string]any{
			"version": "1.2",
			"creator": nil,
			"browser": nil,
			"pages":   []any{},
			"entries": []any{},
			"comment": "",
		},
	}, archive.Dump())
}

func TestHAR_WithPage(t *testing.T) {
	log := NewLog()
	log.Pages = append(log.Pages, NewPage("page_0", "Hello World"))
	archive := NewHAR(log)

	assert.Equal(t, map[string]any{
		"startedDateTime": nil,
		"id":              "page_0",
		"title":           "Hello World",
		"pageTimings":     nil,
		"comment":         "",
	}, archive.Dump()["log"].(map[string]any)["pages"].([]any)[0])
}

func TestHAR_ForwardingAccessors(t *testing.T) {
	log := NewLog()
	log.Version = "1.2"
	log.Creator = NewCreator("harkit", "0.1")
	log.Browser = NewBrowser("Firefox", "3.5")
	log.Pages = []*Page{NewPage("p0", "t")}
	log.Entries = []*Entry{NewEntry()}
	archive := NewHAR(log)

	assert.Equal(t, "1.2", archive.Version())
	assert.Same(t, log.Creator, archive.Creator())
	assert.Same(t, log.Browser, archive.Browser())
	assert.Equal(t, log.Pages, archive.Pages())
	assert.Equal(t, log.Entries, archive.Entries())

	empty := &HAR{}
	assert.Equal(t, DefaultVersion, empty.Version())
	assert.Empty(t, empty.Entries())
}

func TestLog_PageOrder(t *testing.T) {
	input := decode(t, `{
		"version": "1.2",
		"pages": [
			{"id": "p0", "title": "first"},
			{"id": "p1", "title": "second"}
		]
	}`)

	log, err := LoadLog(input)
	require.NoError(t, err)
	require.Len(t, log.Pages, 2)
	assert.Equal(t, "p0", log.Pages[0].ID)
	assert.Equal(t, "p1", log.Pages[1].ID)

	pages := log.Dump()["pages"].([]any)
	assert.Equal(t, "p0", pages[0].(map[string]any)["id"])
	assert.Equal(t, "p1", pages[1].(map[string]any)["id"])
}

func TestEntry_BaseDump(t *testing.T) {
	entry := NewEntry()
	entry.Request = NewRequest("GET", "http://example.com/")

	out := entry.Dump()
	assert.Equal(t, map[string]any{
		"pageref":         nil,
		"startedDateTime": nil,
		"time":            float64(-1),
		"request": map[string]any{
			"method":      "GET",
			"url":         "http://example.com/",
			"httpVersion": "HTTP/1.0",
			"headerSize":  float64(-1),
			"bodySize":    float64(-1),
			"cookies":     []any{},
			"headers":     []any{},
			"queryString": []any{},
			"postData":    emptyPostData(),
			"comment":     "",
		},
		"response":        nil,
		"cache":           nil,
		"timings":         nil,
		"serverIPAddress": nil,
		"connection":      nil,
		"comment":         "",
	}, out)
}

func TestEntry_ResponseDump(t *testing.T) {
	entry := NewEntry()
	entry.Response = NewResponse(200, "OK")

	assert.Equal(t, map[string]any{
		"status":      float64(200),
		"statusText":  "OK",
		"httpVersion": "HTTP/1.0",
		"cookies":     []any{},
		"headers":     []any{},
		"content":     nil,
		"redirectURL": "",
		"headerSize":  float64(-1),
		"bodySize":    float64(-1),
		"comment":     "",
	}, entry.Dump()["response"])
}

func TestEntry_CacheDump(t *testing.T) {
	entry := NewEntry()
	entry.Cache = NewCache()

	assert.Equal(t, map[string]any{
		"beforeRequest": nil,
		"afterRequest":  nil,
		"comment":       "",
	}, entry.Dump()["cache"])
}

func TestEntry_TimingsDump(t *testing.T) {
	timings := NewTimings()
	timings.Blocked = 12
	timings.DNS = 3
	timings.Connect = 15
	timings.Send = 20
	timings.Wait = 38
	timings.Receive = 12

	entry := NewEntry()
	entry.Timings = timings

	assert.Equal(t, map[string]any{
		"blocked": float64(12),
		"dns":     float64(3),
		"connect": float64(15),
		"send":    float64(20),
		"wait":    float64(38),
		"receive": float64(12),
		"ssl":     float64(-1),
		"comment": "",
	}, entry.Dump()["timings"])
}

func TestEntry_ServerIPAddress(t *testing.T) {
	entry, err := LoadEntry(decode(t, `{"serverIPAddress": "10.0.0.1", "serverIpAddress": "ignored"}`))
	require.NoError(t, err)
	require.NotNil(t, entry.ServerIPAddress)
	assert.Equal(t, "10.0.0.1", *entry.ServerIPAddress)
	assert.NotContains(t, entry.Dump(), "serverIpAddress")
}

func TestResponse_RoundTrip(t *testing.T) {
	input := decode(t, `{
		"status": 301,
		"statusText": "Moved Permanently",
		"httpVersion": "HTTP/1.1",
		"cookies": [{
			"name": "auth",
			"value": "1",
			"path": null,
			"domain": null,
			"expires": null,
			"httpOnly": false,
			"secure": false,
			"comment": ""
		}],
		"headers": [
			{"name": "Location", "value": "http://example.com/test", "comment": ""},
			{"name": "Host", "value": "example.com", "comment": ""}
		],
		"content": {
			"size": 45,
			"mimeType": "text/html",
			"text": "<html><body>Redirect</body></html>",
			"encoding": null,
			"comment": ""
		},
		"redirectURL": "http://example.com/test",
		"headerSize": -1,
		"bodySize": 45,
		"comment": "Expected."
	}`)

	resp, err := LoadResponse(input)
	require.NoError(t, err)
	assert.Equal(t, int64(301), resp.Status)
	assert.Equal(t, "http://example.com/test", resp.RedirectURL)
	assert.Equal(t, "Expected.", resp.Comment)
	assert.Equal(t, input, resp.Dump())
}

func TestResponse_EmptyRedirectURL(t *testing.T) {
	input := decode(t, `{
		"status": 200,
		"statusText": "OK",
		"httpVersion": "HTTP/1.0",
		"cookies": [],
		"headers": [],
		"content": null,
		"redirectURL": "",
		"headerSize": -1,
		"bodySize": -1,
		"comment": ""
	}`)

	resp, err := LoadResponse(input)
	require.NoError(t, err)
	assert.Nil(t, resp.Content)
	assert.Equal(t, input, resp.Dump())
}

func TestResponse_FractionalStatus(t *testing.T) {
	_, err := LoadResponse(decode(t, `{"status": 200.5, "statusText": "OK"}`))
	assert.True(t, errors.Is(err, wire.ErrTypeMismatch))
}

func TestCache_Entry(t *testing.T) {
	cache, err := LoadCache(decode(t, `{"beforeRequest": {"eTag": "1234", "hitCount": 12}}`))
	require.NoError(t, err)
	require.NotNil(t, cache.BeforeRequest)
	require.NotNil(t, cache.BeforeRequest.ETag)
	assert.Equal(t, "1234", *cache.BeforeRequest.ETag)
	assert.Equal(t, int64(12), cache.BeforeRequest.HitCount)
	assert.Nil(t, cache.AfterRequest)
}

func TestCacheState_Dates(t *testing.T) {
	state, err := LoadCacheState(decode(t, `{
		"expires": "2009-04-16T15:50:36",
		"lastAccess": "2009-04-16T15:50:36.123+02:00"
	}`))
	require.NoError(t, err)
	require.NotNil(t, state.Expires)
	require.NotNil(t, state.LastAccess)
	assert.Equal(t, 123*time.Millisecond, time.Duration(state.LastAccess.Nanosecond()))
	assert.Equal(t, int64(-1), state.HitCount)
	assert.Equal(t, "2009-04-16T15:50:36.123+02:00", state.Dump()["lastAccess"])
}

func TestPage_WithTimings(t *testing.T) {
	page, err := LoadPage(decode(t, `{
		"id": "page_1",
		"title": "Test",
		"pageTimings": {"onContentLoad": 123, "onLoad": 234}
	}`))
	require.NoError(t, err)
	assert.Equal(t, "page_1", page.ID)
	require.NotNil(t, page.PageTimings)
	assert.Equal(t, float64(123), page.PageTimings.OnContentLoad)
	assert.Equal(t, float64(234), page.PageTimings.OnLoad)
}

func TestPageTimings_Defaults(t *testing.T) {
	pt, err := LoadPageTimings(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, NewPageTimings(), pt)
}

func TestEqual(t *testing.T) {
	a := NewHeader("X", "Y")
	b := NewHeader("X", "Y")
	assert.True(t, Equal(a, b))

	b.Comment = "different"
	assert.False(t, Equal(a, b))

	c := NewHeader("X", "Y")
	c.ExtendedArguments["_k"] = jsonvalue.BoolValue(true)
	assert.False(t, Equal(a, c))

	// Same fields, different entity type.
	assert.False(t, Equal(NewHeader("X", "Y"), NewParam("X", "Y")))

	// Nil and empty lists are the same list.
	bare := &Log{Version: DefaultVersion}
	assert.True(t, Equal(NewLog(), bare))

	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(a, nil))
}

func TestDump_EveryEntity(t *testing.T) {
	entities := []Entity{
		NewHAR(nil), NewLog(), NewCreator("c", "1"), NewBrowser("b", "1"),
		NewPage("p", "t"), NewPageTimings(), NewEntry(), NewRequest("GET", "/"),
		NewResponse(200, "OK"), NewCookie("c", "v"), NewHeader("h", "v"),
		NewParam("p", "v"), NewPostData(), NewPostParam("p", "v"), NewCache(),
		NewCacheState(), NewTimings(), NewContent(),
	}
	for _, e := range entities {
		out := Dump(e)
		require.NotNil(t, out, "%T", e)
		assert.Equal(t, "", out["comment"], "%T", e)
	}
}
