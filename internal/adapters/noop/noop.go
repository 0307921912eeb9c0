package noop

import (
	"context"
	"io"
	"time"

	"github.com/goliatone/go-l10n/pkg/interfaces"
)

// Cache returns an interfaces.CacheProvider that does nothing.
func Cache() interfaces.CacheProvider {
	return cacheAdapter{}
}

type cacheAdapter struct{}

func (cacheAdapter) Get(context.Context, string) (any, error) {
	return nil, nil
}

func (cacheAdapter) Set(context.Context, string, any, time.Duration) error {
	return nil
}

func (cacheAdapter) Delete(context.Context, string) error {
	return nil
}

func (cacheAdapter) Clear(context.Context) error {
	return nil
}

// Template returns a template renderer that bypasses rendering.
func Template() interfaces.TemplateRenderer {
	return templateAdapter{}
}

type templateAdapter struct{}

func (templateAdapter) Render(string, any, ...io.Writer) (string, error) {
	return "", nil
}

// Auth returns an auth provider that treats every request as anonymous.
func Auth() interfaces.AuthProvider {
	return authAdapter{}
}

type authAdapter struct{}

func (authAdapter) CurrentUserID(context.Context) (string, error) {
	return "", nil
}

// Activity returns a sink that drops activity records.
func Activity() interfaces.ActivitySink {
	return activityAdapter{}
}

type activityAdapter struct{}

func (activityAdapter) Log(context.Context, interfaces.ActivityRecord) error {
	return nil
}
