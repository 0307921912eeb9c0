package translations

import (
	"errors"
	"testing"

	"github.com/goliatone/go-l10n/internal/domain"
)

func TestExportKey(t *testing.T) {
	cases := []struct {
		name   string
		format domain.Format
		key    string
		want   string
	}{
		{name: "json array", format: domain.FormatJSON, key: `["menu", "file", "open"]`, want: "menu.file.open"},
		{name: "json compact", format: domain.FormatJSON, key: `["a","b"]`, want: "a.b"},
		{name: "json not an array", format: domain.FormatJSON, key: "plain", want: "plain"},
		{name: "xliff", format: domain.FormatXLIFF, key: "file.xlf\x00group\x00greeting", want: "greeting"},
		{name: "xliff without separator", format: domain.FormatXLIFF, key: "greeting", want: "greeting"},
		{name: "po", format: domain.FormatPO, key: "Hello %s", want: "Hello %s"},
		{name: "other", format: domain.Format("ftl"), key: "brand-name", want: "brand-name"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExportKey(tc.format, tc.key); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestLookupKeys(t *testing.T) {
	keys, err := LookupKeys(domain.FormatJSON, "menu.file.open")
	if err != nil {
		t.Fatalf("lookup json: %v", err)
	}
	if len(keys) != 2 || keys[0] != `["menu", "file", "open"]` || keys[1] != `["menu","file","open"]` {
		t.Fatalf("unexpected json candidates %q", keys)
	}

	single, err := LookupKeys(domain.FormatJSON, "title")
	if err != nil {
		t.Fatalf("lookup single: %v", err)
	}
	if len(single) != 1 || single[0] != `["title"]` {
		t.Fatalf("unexpected single-segment candidates %q", single)
	}

	po, err := LookupKeys(domain.FormatPO, "Hello")
	if err != nil || len(po) != 1 || po[0] != "Hello" {
		t.Fatalf("expected po pass-through, got %q %v", po, err)
	}

	if _, err := LookupKeys(domain.FormatXLIFF, "greeting"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat for xliff, got %v", err)
	}
	if _, err := LookupKeys(domain.Format("ftl"), "brand"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestJSONKeyRoundTrip(t *testing.T) {
	stored := `["settings", "privacy", "title"]`
	exported := ExportKey(domain.FormatJSON, stored)
	candidates, err := LookupKeys(domain.FormatJSON, exported)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if candidates[0] != stored {
		t.Fatalf("expected %q to round-trip, got %q", stored, candidates[0])
	}
}
