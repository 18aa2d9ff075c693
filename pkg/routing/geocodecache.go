package routing

import (
	"context"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/transitdraft/transitdraft/pkg/geo"
	"github.com/transitdraft/transitdraft/pkg/redis_client"
)

// CachedGeocoder fronts another Geocoder with a Redis cache keyed on the
// coordinates rounded to ~10m, so repeated clicks around the same corner
// don't hammer the upstream service.
type CachedGeocoder struct {
	Upstream Geocoder

	Cache *cache.Cache[string]
}

func NewCachedGeocoder(upstream Geocoder) *CachedGeocoder {
	redisStore := redisstore.NewRedis(redis_client.Client, store.WithExpiration(24*time.Hour))

	return &CachedGeocoder{
		Upstream: upstream,
		Cache:    cache.New[string](redisStore),
	}
}

func (g *CachedGeocoder) SuggestName(ctx context.Context, location geo.Location) (string, error) {
	key := fmt.Sprintf("geocode/%.4f/%.4f", location.Latitude, location.Longitude)

	if cachedName, err := g.Cache.Get(ctx, key); err == nil && cachedName != "" {
		return cachedName, nil
	}

	name, err := g.Upstream.SuggestName(ctx, location)
	if err != nil {
		return "", err
	}

	g.Cache.Set(ctx, key, name)

	return name, nil
}
