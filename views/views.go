// Package views embeds the HTML templates rendered by the handlers.
package views

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templatesFS embed.FS

var functions = template.FuncMap{
	"formatTime": func(t time.Time) string {
		return t.Local().Format("Jan 2, 2006 3:04 PM")
	},
}

// Templates parses every embedded page. Pages are looked up by the name
// given in their define block, e.g. "projects".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(functions).ParseFS(templatesFS, "templates/*.html")
}
