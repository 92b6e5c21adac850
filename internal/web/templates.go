package web

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/EmmanuelR15/portfolio/internal/content"
)

//go:embed templates/*.html
var templateFS embed.FS

// templateFuncs are available to every template. url marks a link from
// the portfolio file as trusted, since html/template rejects tel: links.
// sanitize strips markup from visitor-supplied text.
func templateFuncs(r *content.Renderer) template.FuncMap {
	return template.FuncMap{
		"year":     func() int { return time.Now().Year() },
		"markdown": r.HTML,
		"join":     strings.Join,
		"more":     func(n int) string { return fmt.Sprintf("+%d", n) },
		"seconds":  func(d time.Duration) int { return int(d.Seconds()) },
		"url":      func(s string) template.URL { return template.URL(s) },
		"sanitize": func(s string) template.HTML { return template.HTML(content.Sanitize(s)) },
	}
}

func parseTemplates(r *content.Renderer) (*template.Template, error) {
	tmpl, err := template.New("").Funcs(templateFuncs(r)).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return tmpl, nil
}
