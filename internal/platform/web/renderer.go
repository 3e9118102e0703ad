// Package web hooks the browser UI into Echo: an html/template renderer
// for the single index page, with static assets mounted alongside.
package web

import (
	"fmt"
	"html/template"
	"io"
	"path/filepath"

	"github.com/labstack/echo/v4"
)

type Renderer struct {
	templates *template.Template
}

// NewRenderer parses every template under dir/templates.
func NewRenderer(dir string) (*Renderer, error) {
	t, err := template.ParseGlob(filepath.Join(dir, "templates", "*.html"))
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// StaticDir returns the on-disk path Echo should serve under /static.
func StaticDir(dir string) string {
	return filepath.Join(dir, "static")
}
