package geography

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"go-profile-backend/internal/domain"
	"go-profile-backend/pkg/logger"
	"go-profile-backend/pkg/metrics"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "geo:"

// CachedLookup is a cache-aside decorator over a GeographyLookup. Results are
// kept in Redis when a client is configured and in process memory otherwise.
// Errors are never cached, and a cache failure falls through to the lookup.
type CachedLookup struct {
	next  domain.GeographyLookup
	rdb   *redis.Client
	local *gocache.Cache
	ttl   time.Duration
}

func NewCachedLookup(next domain.GeographyLookup, rdb *redis.Client, ttl time.Duration) *CachedLookup {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	c := &CachedLookup{next: next, rdb: rdb, ttl: ttl}
	if rdb == nil {
		c.local = gocache.New(ttl, 2*ttl)
	}
	return c
}

func (c *CachedLookup) CountriesByNames(ctx context.Context, names []string) ([]domain.Location, error) {
	return c.cached(ctx, "country", names, func() ([]domain.Location, error) {
		return c.next.CountriesByNames(ctx, names)
	})
}

func (c *CachedLookup) StatesByStateAndCountry(ctx context.Context, queries []domain.LocationQuery) ([]domain.Location, error) {
	return c.cached(ctx, "state", queries, func() ([]domain.Location, error) {
		return c.next.StatesByStateAndCountry(ctx, queries)
	})
}

func (c *CachedLookup) CitiesByCityAndCountry(ctx context.Context, queries []domain.LocationQuery) ([]domain.Location, error) {
	return c.cached(ctx, "city", queries, func() ([]domain.Location, error) {
		return c.next.CitiesByCityAndCountry(ctx, queries)
	})
}

func (c *CachedLookup) cached(ctx context.Context, kind string, query any, load func() ([]domain.Location, error)) ([]domain.Location, error) {
	key, err := cacheKey(kind, query)
	if err != nil {
		return load()
	}

	if hit, ok := c.get(ctx, key); ok {
		metrics.GeographyLookupsTotal.WithLabelValues(kind, "hit").Inc()
		return hit, nil
	}
	metrics.GeographyLookupsTotal.WithLabelValues(kind, "miss").Inc()

	locations, err := load()
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, locations)
	return locations, nil
}

func (c *CachedLookup) get(ctx context.Context, key string) ([]domain.Location, bool) {
	if c.rdb == nil {
		v, ok := c.local.Get(key)
		if !ok {
			return nil, false
		}
		return v.([]domain.Location), true
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.Warnw("Geography cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	var locations []domain.Location
	if err := json.Unmarshal(raw, &locations); err != nil {
		return nil, false
	}
	return locations, true
}

func (c *CachedLookup) set(ctx context.Context, key string, locations []domain.Location) {
	if c.rdb == nil {
		c.local.Set(key, locations, gocache.DefaultExpiration)
		return
	}

	raw, err := json.Marshal(locations)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logger.Log.Warnw("Geography cache write failed", "key", key, "error", err)
	}
}

func cacheKey(kind string, query any) (string, error) {
	raw, err := json.Marshal(query)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return keyPrefix + kind + ":" + hex.EncodeToString(sum[:]), nil
}
