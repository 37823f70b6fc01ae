// Package templates holds the dashboard page templates.
package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var files embed.FS

// Page is the name of the dashboard template.
const Page = "index.html"

// Load parses the embedded templates.
func Load() (*template.Template, error) {
	return template.New("").ParseFS(files, "*.html")
}

// Must is like Load but panics on error.
func Must() *template.Template {
	return template.Must(Load())
}
