// Package web holds the HTML pages served directly to browsers: the approval confirmation
// and the printable ID card.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

const (
	ApprovedPage = "approved.html"
	IDCardPage   = "id_card.html"
)

// Templates parses every page. It panics on a malformed template since they are compiled in.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(files, "templates/*.html"))
}
