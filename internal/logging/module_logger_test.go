package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-l10n/pkg/interfaces"
)

type recordingLogger struct {
	fields []map[string]any
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	r.fields = append(r.fields, fields)
	return r
}

func (r *recordingLogger) WithContext(context.Context) interfaces.Logger {
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "l10n.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger.WithContext(context.Background()).Debug("noop")
}

func TestCSVLoggerRequestsModuleAndAttachesField(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	CSVLogger(provider)

	if len(provider.requested) != 1 || provider.requested[0] != csvModule {
		t.Fatalf("expected provider to be asked for %q, got %v", csvModule, provider.requested)
	}
	if len(rec.fields) != 1 || rec.fields[0]["module"] != csvModule {
		t.Fatalf("expected module field, got %v", rec.fields)
	}
}

func TestWithProjectContextSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}

	WithProjectContext(rec, "firefox", " ", "")

	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	got := rec.fields[0]
	if got[fieldProject] != "firefox" {
		t.Fatalf("expected project field, got %v", got)
	}
	if _, ok := got[fieldLocale]; ok {
		t.Fatalf("expected blank locale to be skipped, got %v", got)
	}
}

func TestWithFieldsIgnoresPlainLoggers(t *testing.T) {
	logger := NoOp()
	if got := WithFields(logger, nil); got != logger {
		t.Fatalf("expected logger returned unchanged")
	}
}

func TestWithFieldsDropsBlankValues(t *testing.T) {
	rec := &recordingLogger{}

	WithFields(rec, map[string]any{
		"command":   "l10n.csv.import",
		"operation": "",
		"source":    nil,
		"rows":      0,
		"project":   " monitor ",
	})

	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	got := rec.fields[0]
	if len(got) != 3 || got["project"] != "monitor" || got["rows"] != 0 {
		t.Fatalf("unexpected fields %v", got)
	}

	WithFields(rec, map[string]any{"operation": " "})
	if len(rec.fields) != 1 {
		t.Fatalf("expected all-blank fields to be skipped, got %v", rec.fields)
	}
}
