package htmltemplate_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-l10n/internal/adapters/htmltemplate"
	"github.com/goliatone/go-l10n/internal/dashboard"
	"github.com/goliatone/go-l10n/internal/projects"
)

func TestRendererRendersEmbeddedViews(t *testing.T) {
	renderer, err := htmltemplate.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	view := &dashboard.ProjectDashboard{
		Project: &projects.Project{Slug: "monitor", Name: "Monitor <beta>"},
		Chart:   dashboard.Stats{Total: 4, Approved: 2, Missing: 2},
		Count:   2,
	}
	var sb strings.Builder
	html, err := renderer.Render("project", view, &sb)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if html != sb.String() {
		t.Fatalf("expected writer to receive the rendered view")
	}
	if !strings.Contains(html, "Monitor &lt;beta&gt;") {
		t.Fatalf("expected escaped project name, got %s", html)
	}
	if !strings.Contains(html, "50.00%") {
		t.Fatalf("expected completion percent, got %s", html)
	}
	if strings.Contains(html, "/tags/") {
		t.Fatalf("expected tags tab hidden when tags are disabled")
	}
}

func TestRendererUnknownView(t *testing.T) {
	renderer, err := htmltemplate.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := renderer.Render("missing", nil); err == nil {
		t.Fatalf("expected error for unknown view")
	}
}

func TestRendererFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"hello.html": {Data: []byte(`Hello {{.}}`)},
	}
	renderer, err := htmltemplate.NewFromFS(fsys)
	if err != nil {
		t.Fatalf("NewFromFS: %v", err)
	}
	out, err := renderer.Render("hello.html", "<world>")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "Hello &lt;world&gt;" {
		t.Fatalf("unexpected output %q", out)
	}
}
