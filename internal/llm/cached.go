package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkorytov/groundgen/internal/cache"
)

// CachedProvider wraps a Provider with a response cache. Identical requests
// (provider, model, temperature, messages) within the TTL are served without
// a network call. Invocations are content-addressed, so a repair attempt with
// its extra corrective message never hits a stale entry.
type CachedProvider struct {
	inner Provider
	store cache.Cache
	ttl   time.Duration
}

// NewCachedProvider creates a caching wrapper around a provider
func NewCachedProvider(inner Provider, store cache.Cache, ttl time.Duration) *CachedProvider {
	return &CachedProvider{inner: inner, store: store, ttl: ttl}
}

// Name returns the wrapped provider's name
func (p *CachedProvider) Name() string {
	return p.inner.Name()
}

// IsAvailable delegates to the wrapped provider
func (p *CachedProvider) IsAvailable(ctx context.Context) bool {
	return p.inner.IsAvailable(ctx)
}

// Invoke serves from cache when possible, otherwise delegates and stores
func (p *CachedProvider) Invoke(ctx context.Context, req InvokeRequest) (*InvokeResponse, error) {
	key := p.cacheKey(req)

	if data, found := p.store.Get(key); found {
		var resp InvokeResponse
		if err := json.Unmarshal(data, &resp); err == nil {
			return &resp, nil
		}
		// Corrupt entry; drop it and fall through to the provider
		_ = p.store.Delete(key)
	}

	resp, err := p.inner.Invoke(ctx, req)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(resp); err == nil {
		_ = p.store.Set(key, data, p.ttl)
	}
	return resp, nil
}

func (p *CachedProvider) cacheKey(req InvokeRequest) string {
	parts := make([]string, 0, len(req.Messages)+2)
	parts = append(parts, p.inner.Name(), req.Model, fmt.Sprintf("t=%.2f", req.Temperature))
	for _, m := range req.Messages {
		parts = append(parts, m.Role+":"+m.Content)
	}
	return cache.Key(parts...)
}
