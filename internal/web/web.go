// Package web holds the embedded page templates and static assets.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/crucial707/visco/internal/models"
)

//go:embed templates static
var files embed.FS

// Flash categories map to Bootstrap alert classes.
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
)

type Flash struct {
	Category string `json:"c"`
	Message  string `json:"m"`
}

// PageData is what every page template receives.
type PageData struct {
	Title     string
	User      *models.User
	CSRFToken string
	Flashes   []Flash
}

// Renderer executes pre-parsed page templates, each combined with the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, page := range []string{"login.html", "register.html", "index.html"} {
		t, err := template.ParseFS(files, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		r.pages[page] = t
	}
	return r, nil
}

// Render writes page with status 200. Output is buffered so a template error never
// leaves a half-written page.
func (r *Renderer) Render(w http.ResponseWriter, page string, data PageData) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, err := buf.WriteTo(w)
	return err
}

// Static serves the embedded static directory; mount it under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
