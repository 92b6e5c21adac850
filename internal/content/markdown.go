package content

import (
	"bytes"
	"html"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// Renderer turns markdown copy (the bio, project descriptions) into
// sanitized HTML for the templates.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewRenderer creates a Renderer with the UGC sanitizing policy.
func NewRenderer() *Renderer {
	return &Renderer{
		md:     goldmark.New(),
		policy: bluemonday.UGCPolicy(),
	}
}

// HTML renders markdown. On a conversion error the escaped source is returned.
func (r *Renderer) HTML(src string) template.HTML {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(html.EscapeString(src))
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes()))
}

// Sanitize strips all markup from untrusted text, such as stored contact
// messages shown on the admin pages.
func Sanitize(s string) string {
	return bluemonday.StrictPolicy().Sanitize(s)
}
