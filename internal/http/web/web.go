// Package web holds the server-rendered pages and their browser script.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var lessonPolicy = bluemonday.UGCPolicy()

// SafeHTML strips scripts and event handlers from model-written lesson HTML.
func SafeHTML(raw string) template.HTML {
	return template.HTML(lessonPolicy.Sanitize(raw))
}

var funcs = template.FuncMap{
	"safeHTML": SafeHTML,
	"inc":      func(i int) int { return i + 1 },
	"initial": func(s string) string {
		s = strings.TrimSpace(s)
		if s == "" {
			return "?"
		}
		return strings.ToUpper(s[:1])
	},
}

func Templates() (*template.Template, error) {
	t, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
