// Package web renders the picker page from embedded templates, optionally
// overridden by templates from a directory on disk.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/starford/calpick/internal/picker"
)

//go:embed templates/*.gohtml
var embedded embed.FS

const templateGlob = "templates/*.gohtml"

// Template names.
const (
	PageTemplate = "page"
	GridTemplate = "grid"
)

// PageData is what PageTemplate renders. GridTemplate takes a picker.View.
type PageData struct {
	Lang string
	View picker.View
}

// Renderer executes the page templates. It is safe for concurrent use and
// may be reloaded while serving.
type Renderer struct {
	mu          sync.RWMutex
	tmpl        *template.Template
	overrideDir string
}

// NewRenderer parses the embedded templates and, when overrideDir is set,
// every *.gohtml file in it on top.
func NewRenderer(overrideDir string) (*Renderer, error) {
	r := &Renderer{overrideDir: overrideDir}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// OverrideDir returns the directory templates are overridden from.
func (r *Renderer) OverrideDir() string { return r.overrideDir }

// Reload re-parses all templates. On error the previous set stays active.
func (r *Renderer) Reload() error {
	tmpl, err := template.New("base").ParseFS(embedded, templateGlob)
	if err != nil {
		return fmt.Errorf("web: parse embedded templates: %w", err)
	}
	if r.overrideDir != "" {
		dir := os.DirFS(r.overrideDir)
		matches, err := fs.Glob(dir, "*.gohtml")
		if err != nil {
			return fmt.Errorf("web: glob overrides: %w", err)
		}
		if len(matches) > 0 {
			if tmpl, err = tmpl.ParseFS(dir, "*.gohtml"); err != nil {
				return fmt.Errorf("web: parse overrides: %w", err)
			}
		}
	}

	r.mu.Lock()
	r.tmpl = tmpl
	r.mu.Unlock()
	return nil
}

// Render executes the named template into w. Output is buffered so that a
// failing template writes nothing.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	r.mu.RLock()
	tmpl := r.tmpl
	r.mu.RUnlock()

	if tmpl.Lookup(name) == nil {
		return fmt.Errorf("web: template %q not found", name)
	}
	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, name, data); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}
