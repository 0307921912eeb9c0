package gocache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/goliatone/go-l10n/pkg/interfaces"
)

// Provider is an in-process interfaces.CacheProvider backed by go-cache.
type Provider struct {
	store *gocache.Cache
}

// New builds a provider whose entries default to ttl. A zero ttl keeps
// entries until they are deleted.
func New(ttl time.Duration) *Provider {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	cleanup := 2 * ttl
	if ttl == gocache.NoExpiration {
		cleanup = 0
	}
	return &Provider{store: gocache.New(ttl, cleanup)}
}

func (p *Provider) Get(_ context.Context, key string) (any, error) {
	value, ok := p.store.Get(key)
	if !ok {
		return nil, nil
	}
	return value, nil
}

// Set stores value. A zero ttl uses the provider default.
func (p *Provider) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	p.store.Set(key, value, ttl)
	return nil
}

func (p *Provider) Delete(_ context.Context, key string) error {
	p.store.Delete(key)
	return nil
}

func (p *Provider) Clear(context.Context) error {
	p.store.Flush()
	return nil
}

var _ interfaces.CacheProvider = (*Provider)(nil)
