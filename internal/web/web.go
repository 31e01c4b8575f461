package web

import (
	"embed"
	"html/template"
	"io"
	"strconv"
	"strings"
)

// Embed the 'templates' directory.
// The path is relative to this file (internal/web/web.go).
//
//go:embed templates
var Assets embed.FS

// Helpers for templates
var funcMap = template.FuncMap{
	"codes": func(c []uint8) string {
		parts := make([]string, len(c))
		for i, v := range c {
			parts[i] = strconv.Itoa(int(v))
		}
		return strings.Join(parts, ",")
	},
}

var indexTmpl = template.Must(template.New("index.html").Funcs(funcMap).ParseFS(Assets, "templates/index.html"))

// IndexData feeds the upload page.
type IndexData struct {
	Templates map[string][]uint8
}

// RenderIndex writes the single-page front end for the JSON API.
func RenderIndex(w io.Writer, data IndexData) error {
	return indexTmpl.Execute(w, data)
}
