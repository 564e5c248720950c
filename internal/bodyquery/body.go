package bodyquery

import (
	"net/url"

	"github.com/usestring/harkit/internal/search"
	"github.com/usestring/harkit/pkg/har"
)

// Side selects which body of an entry is queried.
type Side string

const (
	SideResponse Side = "response"
	SideRequest  Side = "request"
)

// Body is the decoded text of one side of an entry.
type Body struct {
	Label    string
	MimeType string
	Text     string
}

// BodyOf returns the body of one side of e. It reports false when that side
// records no body.
//
// Response content is base64-decoded when so encoded. A request whose post
// data carries only params is rendered as a form-encoded body.
func BodyOf(label string, e *har.Entry, side Side) (Body, bool) {
	if e == nil {
		return Body{}, false
	}
	switch side {
	case SideRequest:
		if e.Request == nil || e.Request.PostData == nil {
			return Body{}, false
		}
		pd := e.Request.PostData
		b := Body{Label: label, MimeType: deref(pd.MimeType), Text: pd.Text}
		if b.Text == "" && len(pd.Params) > 0 {
			form := url.Values{}
			for _, p := range pd.Params {
				if p != nil {
					form.Add(p.Name, p.Value)
				}
			}
			b.Text = form.Encode()
			if b.MimeType == "" {
				b.MimeType = "application/x-www-form-urlencoded"
			}
		}
		return b, b.Text != ""
	default:
		if e.Response == nil || e.Response.Content == nil {
			return Body{}, false
		}
		c := e.Response.Content
		b := Body{Label: label, MimeType: deref(c.MimeType), Text: search.ContentText(c)}
		return b, b.Text != ""
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
