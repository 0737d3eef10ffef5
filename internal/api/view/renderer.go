// Package view renders the site's HTML pages from embedded templates.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dkv3/class-site/internal/core/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer implements echo.Renderer.
type Renderer struct {
	templates *template.Template
}

// New parses every embedded template.
func New() (*Renderer, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"year": func() int { return time.Now().Year() },
		"isAdmin": func(s *domain.Session) bool {
			return s.IsAdmin()
		},
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// HomePage is the data of home.html.
type HomePage struct {
	Session       *domain.Session
	LoginRequired bool
	LoginFailed   bool
	Next          string
}

// AlbumPage is the data of album.html.
type AlbumPage struct {
	Session *domain.Session
	Photos  []domain.Photo
	Links   []domain.LinkedPhoto
}
