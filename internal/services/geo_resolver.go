package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"eventsearch/internal/domain"
)

// GeoCacheConfig controls the caching geo resolver.
type GeoCacheConfig struct {
	TTL         time.Duration
	NegativeTTL time.Duration
	// LookupTimeout bounds one upstream lookup.
	LookupTimeout time.Duration
}

// CachingGeoResolver resolves place names through an upstream resolver and caches the
// results. Concurrent lookups of one name share a single upstream call. An upstream call
// outlives a cancelled caller so that its result still reaches the cache.
type CachingGeoResolver struct {
	upstream domain.GeoResolver
	cache    domain.GeoCacheRepository
	cfg      GeoCacheConfig
	group    singleflight.Group
	pending  sync.WaitGroup
	now      func() time.Time
	logger   *slog.Logger
}

var _ domain.GeoResolver = (*CachingGeoResolver)(nil)

func NewCachingGeoResolver(upstream domain.GeoResolver, cache domain.GeoCacheRepository,
	cfg GeoCacheConfig, logger *slog.Logger) *CachingGeoResolver {
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachingGeoResolver{
		upstream: upstream,
		cache:    cache,
		cfg:      cfg,
		now:      time.Now,
		logger:   logger,
	}
}

// PlaceKey normalizes a place name for caching.
func PlaceKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

func (r *CachingGeoResolver) Resolve(ctx context.Context, name string) (*domain.Place, error) {
	key := PlaceKey(name)
	entry, err := r.cache.Get(ctx, key)
	switch {
	case err == nil && !entry.Expired(r.now()):
		r.logger.DebugContext(ctx, "geo cache hit", slog.String("key", key))
		if err := entry.Err(); err != nil {
			return nil, err
		}
		return entry.Place, nil
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		r.logger.WarnContext(ctx, "geo cache read failed", slog.String("key", key), slog.Any("error", err))
	default:
		r.logger.DebugContext(ctx, "geo cache miss", slog.String("key", key))
	}

	ch := r.group.DoChan(key, func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.cfg.LookupTimeout)
		defer cancel()
		place, err := r.upstream.Resolve(lctx, name)
		if err != nil {
			r.logger.WarnContext(lctx, "geo lookup failed", slog.String("name", name), slog.Any("error", err))
		}
		r.store(key, place, err)
		return place, err
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.Place), nil
	}
}

// store writes the lookup result to the cache in the background. Transient failures
// are not cached.
func (r *CachingGeoResolver) store(key string, place *domain.Place, lookupErr error) {
	entry := &domain.GeoCacheEntry{Key: key, Place: place}
	switch {
	case lookupErr == nil && place != nil:
		entry.ExpiresAt = r.now().Add(r.cfg.TTL)
	case errors.Is(lookupErr, domain.ErrPlaceNotFound), errors.Is(lookupErr, domain.ErrGeoQuotaExceeded):
		entry.Place = nil
		entry.QuotaExceeded = errors.Is(lookupErr, domain.ErrGeoQuotaExceeded)
		entry.ExpiresAt = r.now().Add(r.cfg.NegativeTTL)
	default:
		return
	}
	r.pending.Add(1)
	go func() {
		defer r.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), r.cfg.LookupTimeout)
		defer cancel()
		if err := r.cache.Put(ctx, entry); err != nil {
			r.logger.Warn("geo cache write failed", slog.String("key", key), slog.Any("error", err))
		}
	}()
}

// Wait blocks until background cache writes have finished.
func (r *CachingGeoResolver) Wait() {
	r.pending.Wait()
}
