package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-l10n/pkg/interfaces"
)

const (
	rootModule          = "l10n"
	csvModule           = "l10n.csv"
	dashboardModule     = "l10n.dashboard"
	notificationsModule = "l10n.notifications"
	httpModule          = "l10n.http"
)

const (
	fieldProject = "project"
	fieldLocale  = "locale"
	fieldUser    = "user_id"
)

// ModuleLogger returns a module-scoped logger. Without a provider it falls
// back to NoOp. The module name is attached as the "module" field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// CSVLogger returns the logger used by CSV import/export.
func CSVLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, csvModule)
}

// DashboardLogger returns the logger used by dashboard views.
func DashboardLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, dashboardModule)
}

// NotificationsLogger returns the logger used by notification delivery.
func NotificationsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, notificationsModule)
}

// HTTPLogger returns the logger used by HTTP handlers.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// WithProjectContext attaches project slug, locale code and acting user.
func WithProjectContext(logger interfaces.Logger, project, locale, userID string) interfaces.Logger {
	return WithFields(logger, map[string]any{
		fieldProject: project,
		fieldLocale:  locale,
		fieldUser:    userID,
	})
}

// WithFields attaches fields when the logger implements
// interfaces.FieldsLogger. Nil values and blank strings are dropped, string
// values are trimmed, and plain loggers are returned unchanged.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil {
		return nil
	}
	fieldsLogger, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}
	kept := make(map[string]any, len(fields))
	for key, value := range fields {
		switch typed := value.(type) {
		case nil:
			continue
		case string:
			if trimmed := strings.TrimSpace(typed); trimmed != "" {
				kept[key] = trimmed
			}
		default:
			kept[key] = value
		}
	}
	if len(kept) == 0 {
		return logger
	}
	return fieldsLogger.WithFields(kept)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
