// Package assets embeds the page template and its static files.
package assets

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed templates/*.tmpl static/*
var FS embed.FS

// StaticFS returns a file system for serving /static assets.
func StaticFS() http.FileSystem {
	sub, err := fs.Sub(FS, "static")
	if err != nil {
		// Only fails if the embed pattern above changes.
		return http.FS(embed.FS{})
	}
	return http.FS(sub)
}

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.ParseFS(FS, "templates/*.tmpl")
}
