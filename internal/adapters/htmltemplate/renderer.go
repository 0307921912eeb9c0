package htmltemplate

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-l10n/pkg/interfaces"
)

//go:embed templates/*.html
var embedded embed.FS

// Renderer renders the dashboard views with html/template.
type Renderer struct {
	templates *template.Template
}

var _ interfaces.TemplateRenderer = (*Renderer)(nil)

// New parses the embedded view templates.
func New() (*Renderer, error) {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		return nil, err
	}
	return NewFromFS(sub)
}

// NewFromDir parses the *.html templates found in dir. An empty dir falls
// back to the embedded set.
func NewFromDir(dir string) (*Renderer, error) {
	if strings.TrimSpace(dir) == "" {
		return New()
	}
	return NewFromFS(os.DirFS(dir))
}

// NewFromFS parses every *.html file at the root of fsys. Views are
// addressed by file name without the extension.
func NewFromFS(fsys fs.FS) (*Renderer, error) {
	tmpl, err := template.New("l10n").ParseFS(fsys, "*.html")
	if err != nil {
		return nil, fmt.Errorf("htmltemplate: parse templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

// Render executes the named view. When out is provided the output is written
// there as well.
func (r *Renderer) Render(name string, data any, out ...io.Writer) (string, error) {
	if r == nil || r.templates == nil {
		return "", fmt.Errorf("htmltemplate: renderer not initialised")
	}
	name = strings.TrimSuffix(strings.TrimSpace(name), ".html") + ".html"
	if r.templates.Lookup(name) == nil {
		return "", fmt.Errorf("htmltemplate: unknown view %q", name)
	}
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("htmltemplate: render %s: %w", name, err)
	}
	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
