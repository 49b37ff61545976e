package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"food_rent/internal/domain"
)

// Registry resolves dimension labels to surrogate ids, creating a row the
// first time a label is seen. It is the only writer of dimension tables.
//
// Cache keys carry the store id, so a shared cache never hands one
// database the ids of another, nor of an earlier incarnation of itself.
type Registry struct {
	store    domain.Store
	cache    domain.Cache // optional
	cacheTTL int

	mu      sync.Mutex
	storeID string
}

func NewRegistry(s domain.Store, c domain.Cache, ttl time.Duration) *Registry {
	return &Registry{store: s, cache: c, cacheTTL: int(ttl.Seconds())}
}

// Resolve trims label first; an empty label returns nil and the fact row
// simply has no link.
func (r *Registry) Resolve(ctx context.Context, kind domain.DimensionKind, label string) (*int64, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("resolve: unknown dimension kind %d", int(kind))
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, nil
	}

	key := r.cacheKey(ctx, kind, label)
	if key != "" {
		var id int64
		if ok, err := r.cache.Get(ctx, key, &id); err == nil && ok {
			return &id, nil
		} else if err != nil {
			log.Debug().Err(err).Str("key", key).Msg("dimension cache get failed")
		}
	}

	id, err := r.store.LookupDimension(ctx, kind, label)
	if errors.Is(err, domain.ErrNotFound) {
		id, err = r.store.EnsureDimension(ctx, kind, label)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve %s %q: %w", kind, label, err)
	}

	if key != "" {
		if err := r.cache.Set(ctx, key, id, r.cacheTTL); err != nil {
			log.Debug().Err(err).Str("key", key).Msg("dimension cache set failed")
		}
	}
	return &id, nil
}

// cacheKey returns "" when caching is off or the store id is unavailable.
func (r *Registry) cacheKey(ctx context.Context, kind domain.DimensionKind, label string) string {
	if r.cache == nil {
		return ""
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.storeID == "" {
		id, err := r.store.StoreID(ctx)
		if err != nil {
			log.Debug().Err(err).Msg("store id unavailable, dimension cache bypassed")
			return ""
		}
		r.storeID = id
	}
	return fmt.Sprintf("dim:%s:%s:%s", r.storeID, kind, label)
}
