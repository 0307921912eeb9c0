package markdown

import (
	"strings"
	"testing"
)

func TestRenderConvertsMarkdown(t *testing.T) {
	r := NewRenderer(Options{})
	html, err := r.Render("# Monitor\n\nSee **details** at https://example.com")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := string(html)
	if !strings.Contains(out, `<h1 id="monitor">Monitor</h1>`) {
		t.Fatalf("expected heading with id, got %q", out)
	}
	if !strings.Contains(out, "<strong>details</strong>") {
		t.Fatalf("expected bold text, got %q", out)
	}
	if !strings.Contains(out, `<a href="https://example.com">`) {
		t.Fatalf("expected linkified url, got %q", out)
	}
}

func TestRenderEscapesRawHTMLByDefault(t *testing.T) {
	out, err := NewRenderer(Options{}).Render("<script>alert(1)</script>")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(string(out), "<script>") {
		t.Fatalf("expected raw html to be omitted, got %q", out)
	}

	out, err = NewRenderer(Options{AllowHTML: true}).Render("<em>ok</em>")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(out), "<em>ok</em>") {
		t.Fatalf("expected raw html when allowed, got %q", out)
	}
}

func TestRenderEmptySource(t *testing.T) {
	out, err := NewRenderer(Options{}).Render("  ")
	if err != nil || out != "" {
		t.Fatalf("expected empty output, got %q %v", out, err)
	}
}

func TestCollectExtensionsIgnoresUnknownNames(t *testing.T) {
	exts := collectExtensions([]string{"table", "TABLE", "unknown", ""})
	if len(exts) != 1 {
		t.Fatalf("expected one extension, got %d", len(exts))
	}
}
